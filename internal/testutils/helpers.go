// Package testutils holds fixtures shared by the package tests: temporary
// sites of HTML pages and helpers for file watcher tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/accname/internal/config"
)

// Pages of a site created by CreateTempSite, relative to its root.
const (
	SiteIndex   = "index.html"
	SiteGuide   = "docs/guide.htm"
	SiteNotes   = "docs/notes.txt"
	SiteVendor  = "node_modules/widget/index.html"
	SiteGitHook = ".git/hooks/page.html"
)

// CreateTempSite creates a small site: two HTML pages, a text file, and
// HTML files below node_modules and .git that watchers must ignore.
func CreateTempSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	WriteHTML(t, root, SiteIndex, `<html lang="en"><body><main><h1>Home</h1><img src="logo.png"></main></body></html>`)
	WriteHTML(t, root, SiteGuide, `<html lang="en"><body><button>Next</button></body></html>`)
	WriteHTML(t, root, SiteNotes, "plain text")
	WriteHTML(t, root, SiteVendor, `<div role="buton"></div>`)
	WriteHTML(t, root, SiteGitHook, `<p>ignored</p>`)

	return root
}

// WriteHTML writes content to dir/name, creating parent directories, and
// returns the path.
func WriteHTML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// CreateTestConfig returns the default configuration with debug logging and
// a short watch debounce.
func CreateTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Log.Level = "debug"
	cfg.Watch.Debounce = 20 * time.Millisecond
	return cfg
}

// AssertFilePermissions checks the permission bits of a file.
func AssertFilePermissions(t *testing.T, path string, expectedMode os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)

	actualMode := info.Mode()
	require.Equal(t, expectedMode, actualMode&os.FileMode(0777),
		"File %s has incorrect permissions: got %o, want %o",
		path, actualMode&os.FileMode(0777), expectedMode)
}

// WaitFor polls cond until it holds or timeout elapses.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v", timeout)
}

// WaitForFileChange waits for a file to be modified after originalModTime.
func WaitForFileChange(
	t *testing.T,
	filePath string,
	originalModTime time.Time,
	timeout time.Duration,
) {
	t.Helper()
	WaitFor(t, timeout, func() bool {
		info, err := os.Stat(filePath)
		return err == nil && info.ModTime().After(originalModTime)
	})
}
