package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTempSite(t *testing.T) {
	root := CreateTempSite(t)

	for _, name := range []string{SiteIndex, SiteGuide, SiteNotes, SiteVendor, SiteGitHook} {
		assert.FileExists(t, filepath.Join(root, filepath.FromSlash(name)))
	}
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()

	path := WriteHTML(t, dir, "a/b/page.html", "<p>hi</p>")
	assert.Equal(t, filepath.Join(dir, "a", "b", "page.html"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(content))
	AssertFilePermissions(t, path, 0o644&^umask(t))
}

func TestCreateTestConfig(t *testing.T) {
	cfg := CreateTestConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 20*time.Millisecond, cfg.Watch.Debounce)
}

func TestWaitForFileChange(t *testing.T) {
	path := WriteHTML(t, t.TempDir(), "page.html", "<p>v1</p>")
	info, err := os.Stat(path)
	require.NoError(t, err)
	original := info.ModTime()

	go func() {
		time.Sleep(50 * time.Millisecond)
		future := original.Add(time.Second)
		_ = os.Chtimes(path, future, future)
	}()

	WaitForFileChange(t, path, original, time.Second)
}

// umask reports the permission bits the process umask clears.
func umask(t *testing.T) os.FileMode {
	t.Helper()
	probe := filepath.Join(t.TempDir(), "probe")
	require.NoError(t, os.WriteFile(probe, nil, 0o777))
	info, err := os.Stat(probe)
	require.NoError(t, err)
	return 0o777 &^ info.Mode().Perm()
}
