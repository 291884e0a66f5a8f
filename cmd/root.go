// Package cmd provides the command-line interface for accname with
// configuration loaded from multiple sources.
//
// Configuration System:
//
//	Sources are applied with clear precedence:
//	1. Command-line flags (--output, --hidden, --wcag-level, etc.) - highest priority
//	2. Individual environment variables (ACCNAME_OUTPUT_FORMAT, etc.)
//	3. The configuration file (--config, ACCNAME_CONFIG_FILE or .accname.yml)
//	4. Built-in defaults - lowest priority
//
// Environment Variables:
//
//	ACCNAME_CONFIG_FILE: Path to custom configuration file
//	ACCNAME_OUTPUT_FORMAT: Output format (text, json, yaml)
//	ACCNAME_AUDIT_WCAG_LEVEL: WCAG level audited against
//	And the rest following the ACCNAME_<SECTION>_<OPTION> pattern
package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/conneroisu/accname/internal/config"
	accerrors "github.com/conneroisu/accname/internal/errors"
	"github.com/conneroisu/accname/internal/logging"
)

var cfgFile string

// cfg and logger are replaced before any command runs.
var (
	cfg    *config.Config = config.Default()
	logger logging.Logger = logging.NewLogger(nil)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "accname",
	Short: "Compute accessible names, descriptions and roles of HTML elements",
	Long: `accname computes the accessible name and description of HTML elements
following the W3C Accessible Name and Description Computation, resolves their
ARIA roles, and audits documents for ARIA conformance.

Key Features:
  • Accessible name and description computation
  • Implicit and explicit ARIA role resolution
  • Shadow DOM and slot aware traversal
  • ARIA conformance audit with WCAG mapping
  • Re-audit on file changes

Quick Start:
  accname name page.html -s '#submit'      Accessible name of an element
  accname describe page.html -s input      Accessible descriptions
  accname role page.html -s 'nav a'        Roles of the matched elements
  accname tree page.html                   Accessibility tree
  accname audit page.html                  ARIA conformance audit
  accname roles button                     Role knowledge base entry

Input is read from standard input when no file, or "-", is given.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is .accname.yml, can also use ACCNAME_CONFIG_FILE env var)")
	pf.VarP(newEnumValue("warn", "debug", "info", "warn", "error"), "log-level", "l", "log level (debug, info, warn, error)")
	pf.Var(newEnumValue("text", config.LogFormats...), "log-format", "log format (text, json)")
	pf.VarP(newEnumValue("text", config.OutputFormats...), "output", "o", "output format (text, json, yaml)")
	pf.Bool("hidden", false, "include hidden elements and hidden referenced content")
	pf.String("lang", "en", "language of the fallback labels of unlabelled buttons (BCP 47)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return accerrors.NewValidationError(accerrors.ErrCodeValidationFailed, err.Error())
	})
}

// initConfig loads the configuration and builds the logger for the
// command about to run.
func initConfig(cmd *cobra.Command, _ []string) error {
	if err := loadConfigFile(cmd); err != nil {
		return err
	}

	loaded, err := config.Load()
	var vec *accerrors.ValidationErrorCollection
	if errors.As(err, &vec) {
		return vec.ToAccnameError()
	}
	if err != nil {
		return err
	}
	cfg = loaded

	return setupLogger(cmd)
}

// loadConfigFile binds the command's flags and reads the configuration
// file without decoding it.
func loadConfigFile(cmd *cobra.Command) error {
	if err := bindFlags(cmd.Flags()); err != nil {
		return err
	}

	used, err := config.Init(cfgFile)
	if err != nil {
		return err
	}
	if used != "" {
		logger.Debug(cmd.Context(), "Using config file", "path", used)
	}
	return nil
}

func setupLogger(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger = logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    cmd.ErrOrStderr(),
		Component: "cli",
	})
	return nil
}
