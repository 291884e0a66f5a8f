package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/accname/internal/accessibility"
	"github.com/conneroisu/accname/internal/config"
	accerrors "github.com/conneroisu/accname/internal/errors"
	"github.com/conneroisu/accname/internal/testutils"
)

// resetFlags restores every flag of c and its subcommands to its default.
func resetFlags(t *testing.T, c *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			var defaults []string
			if def := strings.Trim(f.DefValue, "[]"); def != "" {
				defaults = strings.Split(def, ",")
			}
			require.NoError(t, sv.Replace(defaults))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(t, sub)
	}
}

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return executeContext(t, context.Background(), stdin, args...)
}

func executeContext(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	resetFlags(t, rootCmd)
	cfg = config.Default()

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestNameCommand(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		selector string
		extra    []string
		expected string
	}{
		{
			name:     "content",
			html:     `<button id="b">Save</button>`,
			selector: "#b",
			expected: "Save\n",
		},
		{
			name:     "labelledby",
			html:     `<span id="l">Email</span><input id="e" aria-labelledby="l">`,
			selector: "#e",
			expected: "Email\n",
		},
		{
			name:     "one line per match",
			html:     `<nav><a href="/a">One</a><a href="/b">Two</a></nav>`,
			selector: "nav a",
			expected: "One\nTwo\n",
		},
		{
			name:     "hidden label ignored",
			html:     `<button><span hidden>Secret</span>Open</button>`,
			selector: "button",
			expected: "Open\n",
		},
		{
			name:     "hidden label included",
			html:     `<button><span hidden>Secret</span>Open</button>`,
			selector: "button",
			extra:    []string{"--hidden"},
			expected: "Secret Open\n",
		},
		{
			name:     "localized fallback",
			html:     `<input type="submit">`,
			selector: "input",
			extra:    []string{"--lang", "de"},
			expected: "Senden\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := testutils.WriteHTML(t, t.TempDir(), "page.html", tc.html)

			args := append([]string{"name", path, "-s", tc.selector}, tc.extra...)
			stdout, _, err := execute(t, "", args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, stdout)
		})
	}
}

func TestNameCommandReadsStdin(t *testing.T) {
	stdout, _, err := execute(t, `<img src="logo.png" alt="Company logo">`, "name", "-s", "img")
	require.NoError(t, err)
	assert.Equal(t, "Company logo\n", stdout)

	stdout, _, err = execute(t, `<img src="logo.png" alt="Company logo">`, "name", "-", "-s", "img")
	require.NoError(t, err)
	assert.Equal(t, "Company logo\n", stdout)
}

func TestNameCommandJSON(t *testing.T) {
	html := `<ul><li><a href="/">Home</a></li><li><a href="/docs" aria-label="Documentation">Docs</a></li></ul>`

	stdout, _, err := execute(t, html, "name", "-s", "a", "-o", "json")
	require.NoError(t, err)

	var results []NameResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 2)
	assert.Equal(t, NameResult{Selector: "a", Name: "Home"}, results[0])
	assert.Equal(t, "Documentation", results[1].Name)
}

func TestDescribeCommand(t *testing.T) {
	html := `<input id="pw" type="password" aria-describedby="hint">
<p id="hint">At least 12 characters</p>
<button title="Deletes the draft">Delete</button>`

	stdout, _, err := execute(t, html, "describe", "-s", "#pw, button")
	require.NoError(t, err)
	assert.Equal(t, "At least 12 characters\nDeletes the draft\n", stdout)

	stdout, _, err = execute(t, html, "describe", "-s", "#pw", "-o", "yaml")
	require.NoError(t, err)

	var results []DescriptionResult
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &results))
	assert.Equal(t, []DescriptionResult{{Selector: "input#pw", Description: "At least 12 characters"}}, results)
}

func TestSelectorErrors(t *testing.T) {
	_, _, err := execute(t, `<p>text</p>`, "name", "-s", "p[")
	require.Error(t, err)
	assert.True(t, accerrors.IsType(err, accerrors.ErrorTypeParse))
	assert.Equal(t, 2, accerrors.ExitCode(err))

	_, _, err = execute(t, `<p>text</p>`, "name", "-s", "button")
	require.Error(t, err)
	assert.Contains(t, err.Error(), accerrors.ErrCodeNoMatch)
	assert.Equal(t, 2, accerrors.ExitCode(err))

	_, _, err = execute(t, "", "name", "-s", "p", filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), accerrors.ErrCodeFileNotFound)
	assert.Equal(t, 1, accerrors.ExitCode(err))

	_, _, err = execute(t, `<p>text</p>`, "name")
	require.Error(t, err, "selector is required")
}

func TestFlagErrorsAreUsageErrors(t *testing.T) {
	_, _, err := execute(t, "", "name", "-s", "p", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, 2, accerrors.ExitCode(err))

	_, _, err = execute(t, "", "name", "-s", "p", "-o", "xml")
	require.Error(t, err)
	assert.Equal(t, 2, accerrors.ExitCode(err))
}

func TestRoleCommand(t *testing.T) {
	html := `<nav><a href="/">Home</a><a>Plain</a></nav><div role="tab foo">T</div><input type="checkbox">`

	stdout, _, err := execute(t, html, "role", "-s", "nav, a, div, input")
	require.NoError(t, err)
	assert.Equal(t, "navigation\nlink\n\ntab\ncheckbox\n", stdout)

	stdout, _, err = execute(t, html, "role", "-s", "div", "-o", "json")
	require.NoError(t, err)

	var results []RoleResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "tab", results[0].Role)
	assert.Equal(t, "generic", results[0].ImplicitRole)
}

func TestRolesCommand(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		stdout, _, err := execute(t, "", "roles")
		require.NoError(t, err)
		assert.Contains(t, stdout, "ROLE")
		assert.Contains(t, stdout, "button")
		assert.NotContains(t, stdout, "(abstract)")

		stdout, _, err = execute(t, "", "roles", "--abstract")
		require.NoError(t, err)
		assert.Contains(t, stdout, "widget (abstract)")
	})

	t.Run("details", func(t *testing.T) {
		stdout, _, err := execute(t, "", "roles", "checkbox")
		require.NoError(t, err)
		assert.Contains(t, stdout, "🔖 checkbox")
		assert.Contains(t, stdout, "aria-checked")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "", "roles", "Button", "-o", "json")
		require.NoError(t, err)

		var defs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &defs))
		require.Len(t, defs, 1)
		assert.Equal(t, "button", defs[0]["name"])
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := execute(t, "", "roles", "buton")
		require.Error(t, err)
		assert.Contains(t, err.Error(), accerrors.ErrCodeUnknownRole)
		assert.Equal(t, 2, accerrors.ExitCode(err))
	})
}

func TestTreeCommand(t *testing.T) {
	html := `<html lang="en"><body><nav aria-label="Main"><a href="/">Home</a></nav><p hidden>gone</p></body></html>`

	stdout, _, err := execute(t, html, "tree")
	require.NoError(t, err)
	assert.Contains(t, stdout, `    navigation "Main"`)
	assert.Contains(t, stdout, `      link "Home"`)
	assert.NotContains(t, stdout, "[hidden]")

	stdout, _, err = execute(t, html, "tree", "--all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "paragraph [hidden]")

	stdout, _, err = execute(t, html, "tree", "-o", "json")
	require.NoError(t, err)

	var infos []accessibility.ElementInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.NotEmpty(t, infos)
	assert.Equal(t, "html", infos[0].Tag)
}

func TestAuditCommand(t *testing.T) {
	broken := `<html><body><div role="button"></div><img src="x.png"></body></html>`
	clean := `<html lang="en"><body><button>Save</button><img src="x.png" alt=""></body></html>`

	t.Run("clean document passes", func(t *testing.T) {
		stdout, _, err := execute(t, clean, "audit")
		require.NoError(t, err)
		assert.Contains(t, stdout, "ALL CHECKS PASSED")
		assert.Contains(t, stdout, "✅ No accessibility issues found")
	})

	t.Run("violations fail the command", func(t *testing.T) {
		stdout, _, err := execute(t, broken, "audit")
		require.Error(t, err)
		assert.True(t, accerrors.IsType(err, accerrors.ErrorTypeAudit))
		assert.Equal(t, 1, accerrors.ExitCode(err))
		assert.Contains(t, stdout, "CRITICAL ISSUES FOUND")
		assert.Contains(t, stdout, "Rule: "+accessibility.RuleMissingAltText)
		assert.Contains(t, stdout, "Rule: "+accessibility.RuleMissingAccessibleName)
		assert.Contains(t, stdout, "Rule: "+accessibility.RuleMissingLangAttribute)
	})

	t.Run("fail-on none", func(t *testing.T) {
		_, _, err := execute(t, broken, "audit", "--fail-on", "none")
		require.NoError(t, err)
	})

	t.Run("rule selection", func(t *testing.T) {
		stdout, _, err := execute(t, broken, "audit", "--rule", accessibility.RuleMissingLangAttribute, "-o", "json")
		require.Error(t, err)

		var result AuditResult
		require.NoError(t, json.Unmarshal([]byte(stdout), &result))
		require.Len(t, result.Reports, 1)
		require.Len(t, result.Reports[0].Violations, 1)
		assert.Equal(t, accessibility.RuleMissingLangAttribute, result.Reports[0].Violations[0].Rule)
		assert.Equal(t, "stdin", result.Reports[0].Target.Type)
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, _, err := execute(t, broken, "audit", "--rule", "no-such-rule")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no-such-rule")
		assert.Equal(t, 2, accerrors.ExitCode(err))
	})

	t.Run("files and insights", func(t *testing.T) {
		dir := t.TempDir()
		a := testutils.WriteHTML(t, dir, "a.html", broken)
		b := testutils.WriteHTML(t, dir, "b.html", clean)

		stdout, _, err := execute(t, "", "audit", a, b, "--insights", "--fail-on", "none", "-o", "yaml")
		require.NoError(t, err)

		var result AuditResult
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &result))
		require.Len(t, result.Reports, 2)
		assert.Equal(t, a, result.Reports[0].Target.Name)
		assert.Equal(t, a, result.Reports[0].Violations[0].Context.File)
		assert.Empty(t, result.Reports[1].Violations)
		require.Len(t, result.Insights, 2)
		assert.NotEmpty(t, result.Insights[0].CriticalIssues)
	})

	t.Run("list rules", func(t *testing.T) {
		stdout, _, err := execute(t, "", "audit", "--list-rules")
		require.NoError(t, err)
		assert.Contains(t, stdout, accessibility.RuleBrokenIDRef)
		assert.Contains(t, stdout, "4.1.2")
	})
}

func TestAuditConfigFromEnvironment(t *testing.T) {
	t.Setenv("ACCNAME_AUDIT_FAIL_ON", "none")
	t.Setenv("ACCNAME_OUTPUT_FORMAT", "json")

	stdout, _, err := execute(t, `<html><body></body></html>`, "audit")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
}

func TestConfigCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, ".accname.yml")
	assert.FileExists(t, ".accname.yml")

	_, _, err = execute(t, "", "config", "init")
	require.Error(t, err, "an existing file is kept")

	stdout, _, err = execute(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✅ Configuration is valid!")

	require.NoError(t, os.WriteFile("bad.yml", []byte("audit:\n  wcag_level: AAAA\n"), 0o644))
	stdout, _, err = execute(t, "", "config", "validate", "--file", "bad.yml")
	require.Error(t, err)
	assert.Equal(t, 2, accerrors.ExitCode(err))
	assert.Contains(t, stdout, "audit.wcag_level")

	stdout, _, err = execute(t, "", "config", "show", "-o", "json", "--lang", "fr")
	require.NoError(t, err)

	var shown config.Config
	require.NoError(t, json.Unmarshal([]byte(stdout), &shown))
	assert.Equal(t, "fr", shown.Compute.Language)
	assert.Equal(t, "AA", shown.Audit.WCAGLevel)
}

func TestConfigFileApplies(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".accname.yml", []byte("compute:\n  language: es\n"), 0o644))

	stdout, _, err := execute(t, `<input type="reset">`, "name", "-s", "input")
	require.NoError(t, err)
	assert.Equal(t, "Restablecer\n", stdout)

	stdout, _, err = execute(t, `<input type="reset">`, "name", "-s", "input", "--lang", "en")
	require.NoError(t, err)
	assert.Equal(t, "Reset\n", stdout, "flags override the file")
}

func TestInvalidConfigFileIsRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".accname.yml", []byte("output:\n  format: xml\n"), 0o644))

	_, _, err := execute(t, `<p>x</p>`, "name", "-s", "p")
	require.Error(t, err)
	assert.Equal(t, 2, accerrors.ExitCode(err))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "version", "--short")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(stdout))

	stdout, _, err = execute(t, "", "version", "-o", "json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}

func TestWatchCommandInitialCheck(t *testing.T) {
	root := testutils.CreateTempSite(t)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	stdout, _, err := executeContext(t, ctx, "", "watch", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 path(s), 2 file(s)")
	assert.Contains(t, stdout, accessibility.RuleMissingAltText)
	assert.Contains(t, stdout, "passes accessibility checks")
	assert.NotContains(t, stdout, "node_modules")
	assert.Contains(t, stdout, "1 of 2 file(s) healthy")
}

func TestPrintUpdate(t *testing.T) {
	var buf bytes.Buffer
	printUpdate(&buf, accessibility.AccessibilityUpdate{
		Timestamp:   time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Message:     "✅ index.html passes accessibility checks (1 rule(s) fixed)",
		FixedIssues: []string{accessibility.RuleMissingAltText},
	})

	assert.Equal(t,
		"[09:30:00] ✅ index.html passes accessibility checks (1 rule(s) fixed)\n   ✔ fixed missing-alt-text\n",
		buf.String())
}

func TestEnumValue(t *testing.T) {
	v := newEnumValue("text", "text", "json", "yaml")
	require.NoError(t, v.Set("JSON"))
	assert.Equal(t, "json", v.String())
	assert.Error(t, v.Set("xml"))
	assert.Equal(t, "json", v.String())
	assert.Equal(t, "string", v.Type())
}
