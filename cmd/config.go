package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/accname/internal/config"
	accerrors "github.com/conneroisu/accname/internal/errors"
)

// defaultConfigFile is the file read from the working directory.
const defaultConfigFile = ".accname.yml"

var (
	configFile   string
	configOutput string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage accname configuration",
	Long: `Manage accname configuration files and settings.

This command provides subcommands for:
- Writing a configuration file with the defaults
- Validating existing configuration files
- Showing the resolved configuration

Examples:
  accname config init                         # Write .accname.yml
  accname config validate                     # Validate .accname.yml
  accname config validate --file ci.yml       # Validate a specific file
  accname config show -o json                 # Show the resolved configuration`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Long: `Write a configuration file holding every option at its default value.
An existing file is never overwritten.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfig,
	RunE:              runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate an accname configuration file. Every invalid option is reported
with a suggestion, and the command fails when any is found.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfig,
	RunE:              runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the configuration resolved from all sources: flags, environment
variables, the configuration file and the defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVarP(&configOutput, "file", "f", defaultConfigFile, "configuration file to write")
	configValidateCmd.Flags().StringVarP(&configFile, "file", "f", "", "configuration file to validate (default: .accname.yml)")
}

// skipConfig replaces initConfig for commands that must run whatever the
// state of the configuration file.
func skipConfig(cmd *cobra.Command, _ []string) error {
	cfg = config.Default()
	return setupLogger(cmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(configOutput); err == nil {
		return accerrors.NewValidationError(accerrors.ErrCodeValidationFailed,
			fmt.Sprintf("configuration file %s already exists", configOutput)).
			WithLocation(configOutput, 0)
	}

	if err := config.Default().WriteFile(configOutput); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🎉 Configuration saved to: %s\n", configOutput)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "  1. Review the configuration file\n")
	fmt.Fprintf(out, "  2. Run 'accname config validate' after editing it\n")
	fmt.Fprintf(out, "  3. Run 'accname audit <file>' to audit a document\n")
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	target := configFile
	if target == "" {
		target = cfgFile
	}

	used, err := config.Init(target)
	if err != nil {
		return err
	}
	if used == "" {
		return accerrors.NewConfigError(accerrors.ErrCodeConfigInvalid,
			"no configuration file found, use --file or run 'accname config init' to create one")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🔍 Validating configuration file: %s\n", used)
	fmt.Fprintln(out, "=====================================")

	if _, err := config.Load(); err != nil {
		var vec *accerrors.ValidationErrorCollection
		if !errors.As(err, &vec) {
			return err
		}
		printValidationErrors(out, vec)
		return vec.ToAccnameError().WithLocation(used, 0)
	}

	fmt.Fprintln(out, "✅ Configuration is valid!")
	return nil
}

func printValidationErrors(w io.Writer, vec *accerrors.ValidationErrorCollection) {
	fmt.Fprintf(w, "❌ %d problem(s) found:\n", len(vec.Errors))
	for _, e := range vec.Errors {
		fmt.Fprintf(w, "  • %s\n", e.Error())
		for _, suggestion := range e.Suggestions() {
			fmt.Fprintf(w, "    💡 %s\n", suggestion)
		}
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	return render(cmd, cfg, func(w io.Writer) error {
		fmt.Fprintln(w, "# Current accname configuration")
		fmt.Fprintln(w, "# Resolved from all sources (flags, env vars, file, defaults)")
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(cfg); err != nil {
			return err
		}
		return encoder.Close()
	})
}
