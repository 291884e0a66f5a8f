package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/accname/internal/config"
)

// configFlags maps flag names to the configuration keys they override.
var configFlags = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"output":       "output.format",
	"hidden":       "compute.hidden",
	"lang":         "compute.language",
	"wcag-level":   "audit.wcag_level",
	"rule":         "audit.rules",
	"exclude-rule": "audit.exclude_rules",
	"fail-on":      "audit.fail_on",
	"debounce":     "watch.debounce",
	"pattern":      "watch.patterns",
	"ignore":       "watch.ignore",
}

// bindFlags binds every flag of fs that overrides a configuration key.
func bindFlags(fs *pflag.FlagSet) error {
	for name, key := range configFlags {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// enumValue is a string flag restricted to a fixed set of choices.
// Choices match case-insensitively and are stored in their canonical case.
type enumValue struct {
	value   string
	choices []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(def string, choices ...string) *enumValue {
	return &enumValue{value: def, choices: choices}
}

func (e *enumValue) String() string { return e.value }

func (e *enumValue) Set(v string) error {
	for _, choice := range e.choices {
		if strings.EqualFold(choice, strings.TrimSpace(v)) {
			e.value = choice
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(e.choices, ", "))
}

// Type reports "string" so that viper reads the bound value as a string.
func (e *enumValue) Type() string { return "string" }

// addSelectorFlag adds the required --selector flag.
func addSelectorFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "selector", "s", "", "CSS selector of the elements to compute (required)")
	_ = cmd.MarkFlagRequired("selector")
}

// addAuditFlags adds the flags overriding the audit section.
func addAuditFlags(cmd *cobra.Command) {
	cmd.Flags().VarP(newEnumValue("AA", config.WCAGLevels...), "wcag-level", "w", "WCAG level to audit against (A, AA, AAA)")
	cmd.Flags().StringSlice("rule", nil, "only run these rules (repeatable or comma separated)")
	cmd.Flags().StringSlice("exclude-rule", nil, "skip these rules (repeatable or comma separated)")
	cmd.Flags().Var(newEnumValue("error", config.FailOnLevels...), "fail-on", "lowest severity that fails the command (none, info, warning, error)")
}
