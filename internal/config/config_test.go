package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accerrors "github.com/conneroisu/accname/internal/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, c *Config)
	}{
		{
			name:  "defaults",
			setup: func() {},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "AA", c.Audit.WCAGLevel)
				assert.Equal(t, "error", c.Audit.FailOn)
				assert.Equal(t, "text", c.Output.Format)
				assert.Equal(t, "en", c.Compute.Language)
				assert.Equal(t, 300*time.Millisecond, c.Watch.Debounce)
				assert.Equal(t, []string{"*.html", "*.htm"}, c.Watch.Patterns)
			},
		},
		{
			name: "explicit values",
			setup: func() {
				viper.Set("compute.hidden", true)
				viper.Set("audit.wcag_level", "aaa")
				viper.Set("audit.exclude_rules", []string{"redundant-role"})
				viper.Set("watch.debounce", "1s")
				viper.Set("output.format", "json")
			},
			check: func(t *testing.T, c *Config) {
				assert.True(t, c.Compute.Hidden)
				assert.Equal(t, "AAA", c.Audit.WCAGLevel)
				assert.Equal(t, []string{"redundant-role"}, c.Audit.ExcludeRules)
				assert.Equal(t, time.Second, c.Watch.Debounce)
				assert.Equal(t, "json", c.Output.Format)
			},
		},
		{
			name: "comma separated rules",
			setup: func() {
				viper.Set("audit.rules", "duplicate-id, broken-idref")
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, []string{"duplicate-id", "broken-idref"}, c.Audit.Rules)
			},
		},
		{
			name: "invalid output format",
			setup: func() {
				viper.Set("output.format", "xml")
			},
			expectError: true,
		},
		{
			name: "undecodable debounce",
			setup: func() {
				viper.Set("watch.debounce", "soon")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			tt.setup()

			config, err := Load()
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, config)
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("ACCNAME_AUDIT_FAIL_ON", "warning")
	t.Setenv("ACCNAME_COMPUTE_LANGUAGE", "de")

	viper.SetEnvPrefix("ACCNAME")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warning", config.Audit.FailOn)
	assert.Equal(t, "de", config.Compute.Language)
}

func TestValidateCollectsEveryError(t *testing.T) {
	c := Default()
	c.Audit.WCAGLevel = "B"
	c.Log.Level = "loud"
	c.Watch.Patterns = []string{"["}
	c.Audit.Rules = []string{"duplicate-id"}
	c.Audit.ExcludeRules = []string{"duplicate-id"}

	err := c.Validate()
	require.Error(t, err)

	var vec *accerrors.ValidationErrorCollection
	require.True(t, errors.As(err, &vec))
	fields := make([]string, 0, len(vec.Errors))
	for _, e := range vec.Errors {
		fields = append(fields, e.Field())
	}
	assert.ElementsMatch(t, []string{"audit.wcag_level", "log.level", "watch.patterns", "audit.rules"}, fields)
	assert.Equal(t, 2, accerrors.ExitCode(err))
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".accname.yml")
	require.NoError(t, Default().WriteFile(path))
	assert.Error(t, Default().WriteFile(path), "existing file must not be overwritten")

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Watch, config.Watch)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wcag_level: AA")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing default file is not an error", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Chdir(dir)

		used, err := Init("")
		require.NoError(t, err)
		assert.Empty(t, used)
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)

		_, err := Init(filepath.Join(dir, "missing.yml"))
		assert.Error(t, err)
	})

	t.Run("environment variable names the file", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		path := filepath.Join(dir, "custom.yml")
		require.NoError(t, os.WriteFile(path, []byte("output:\n  format: yaml\n"), 0o644))
		t.Setenv("ACCNAME_CONFIG_FILE", path)

		used, err := Init("")
		require.NoError(t, err)
		assert.Equal(t, path, used)

		config, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "yaml", config.Output.Format)
	})
}
