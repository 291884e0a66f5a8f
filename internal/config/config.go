// Package config provides configuration management for the accname CLI
// using Viper for loading from files, environment variables and flags.
//
// Values are read from .accname.yml (or the file named by --config or
// ACCNAME_CONFIG_FILE) and can be overridden by ACCNAME_<SECTION>_<KEY>
// environment variables, e.g. ACCNAME_AUDIT_WCAG_LEVEL=AAA.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	accerrors "github.com/conneroisu/accname/internal/errors"
	"github.com/conneroisu/accname/internal/logging"
	"github.com/conneroisu/accname/internal/validation"
)

// Accepted enumerations.
var (
	OutputFormats = []string{"text", "json", "yaml"}
	LogFormats    = []string{"text", "json"}
	WCAGLevels    = []string{"A", "AA", "AAA"}
	FailOnLevels  = []string{"none", "info", "warning", "error"}
)

type Config struct {
	Compute ComputeConfig `mapstructure:"compute" yaml:"compute" json:"compute"`
	Audit   AuditConfig   `mapstructure:"audit" yaml:"audit" json:"audit"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// ComputeConfig controls name and description computation.
type ComputeConfig struct {
	// Hidden includes hidden elements and referenced hidden content.
	Hidden bool `mapstructure:"hidden" yaml:"hidden" json:"hidden"`
	// Language selects the fallback strings for unlabelled buttons (BCP 47).
	Language string `mapstructure:"language" yaml:"language" json:"language"`
}

type AuditConfig struct {
	WCAGLevel    string   `mapstructure:"wcag_level" yaml:"wcag_level" json:"wcag_level"`
	Rules        []string `mapstructure:"rules" yaml:"rules" json:"rules"`
	ExcludeRules []string `mapstructure:"exclude_rules" yaml:"exclude_rules" json:"exclude_rules"`
	FailOn       string   `mapstructure:"fail_on" yaml:"fail_on" json:"fail_on"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
	Patterns []string      `mapstructure:"patterns" yaml:"patterns" json:"patterns"`
	Ignore   []string      `mapstructure:"ignore" yaml:"ignore" json:"ignore"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Init points viper at the configuration file and environment.
//
// The file is chosen in this order: cfgFile (the --config flag), the
// ACCNAME_CONFIG_FILE environment variable, then .accname.yml in the
// working directory. A missing default file is not an error. Init returns
// the path of the file that was read, if any.
func Init(cfgFile string) (string, error) {
	explicit := true
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("ACCNAME_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		explicit = false
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".accname")
	}

	viper.SetEnvPrefix("ACCNAME")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return "", nil
		}
		return "", accerrors.WrapConfig(err, accerrors.ErrCodeConfigInvalid, "failed to read configuration file")
	}
	return viper.ConfigFileUsed(), nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Compute: ComputeConfig{Language: "en"},
		Audit: AuditConfig{
			WCAGLevel: "AA",
			FailOn:    "error",
		},
		Output: OutputConfig{Format: "text"},
		Log:    LogConfig{Level: "warn", Format: "text"},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
			Patterns: []string{"*.html", "*.htm"},
			Ignore:   []string{"node_modules", ".git"},
		},
	}
}

// SetDefaults registers the defaults with viper so that environment
// variables bind to every key.
func SetDefaults() {
	d := Default()
	viper.SetDefault("compute.hidden", d.Compute.Hidden)
	viper.SetDefault("compute.language", d.Compute.Language)
	viper.SetDefault("audit.wcag_level", d.Audit.WCAGLevel)
	viper.SetDefault("audit.rules", d.Audit.Rules)
	viper.SetDefault("audit.exclude_rules", d.Audit.ExcludeRules)
	viper.SetDefault("audit.fail_on", d.Audit.FailOn)
	viper.SetDefault("output.format", d.Output.Format)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("watch.debounce", d.Watch.Debounce)
	viper.SetDefault("watch.patterns", d.Watch.Patterns)
	viper.SetDefault("watch.ignore", d.Watch.Ignore)
}

// Load unmarshals the current viper state into a validated Config.
func Load() (*Config, error) {
	SetDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, accerrors.WrapConfig(err, accerrors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	// Comma separated environment values arrive as a single element.
	config.Audit.Rules = splitList(config.Audit.Rules)
	config.Audit.ExcludeRules = splitList(config.Audit.ExcludeRules)
	config.Watch.Patterns = splitList(config.Watch.Patterns)
	config.Watch.Ignore = splitList(config.Watch.Ignore)
	config.Audit.WCAGLevel = strings.ToUpper(strings.TrimSpace(config.Audit.WCAGLevel))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs accerrors.ValidationErrorCollection

	if c.Compute.Language != "" {
		if _, err := language.Parse(c.Compute.Language); err != nil {
			errs.AddField("compute.language", c.Compute.Language, err.Error(), "use a BCP 47 tag such as en, de or fr-CA")
		}
	}
	if !slices.Contains(WCAGLevels, c.Audit.WCAGLevel) {
		errs.AddField("audit.wcag_level", c.Audit.WCAGLevel, "unknown WCAG level", "use one of "+strings.Join(WCAGLevels, ", "))
	}
	if !slices.Contains(FailOnLevels, c.Audit.FailOn) {
		errs.AddField("audit.fail_on", c.Audit.FailOn, "unknown severity", "use one of "+strings.Join(FailOnLevels, ", "))
	}
	for _, id := range c.Audit.Rules {
		if slices.Contains(c.Audit.ExcludeRules, id) {
			errs.AddField("audit.rules", id, "rule is both enabled and excluded")
		}
	}
	if !slices.Contains(OutputFormats, c.Output.Format) {
		errs.AddField("output.format", c.Output.Format, "unsupported output format", "use one of "+strings.Join(OutputFormats, ", "))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs.AddField("log.level", c.Log.Level, err.Error(), "use debug, info, warn or error")
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		errs.AddField("log.format", c.Log.Format, "unsupported log format", "use text or json")
	}
	if c.Watch.Debounce < 0 {
		errs.AddField("watch.debounce", c.Watch.Debounce, "debounce must not be negative")
	}
	for _, p := range c.Watch.Patterns {
		if err := validation.ValidateGlob(p); err != nil {
			errs.AddField("watch.patterns", p, err.Error())
		}
	}
	for _, p := range c.Watch.Ignore {
		if err := validation.ValidateGlob(p); err != nil {
			errs.AddField("watch.ignore", p, err.Error())
		}
	}

	if errs.HasErrors() {
		return &errs
	}
	return nil
}

// WriteFile writes c as YAML. An existing file is never overwritten.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return accerrors.NewInternalError(accerrors.ErrCodeInternalError, "failed to encode configuration", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return accerrors.WrapIO(err, accerrors.ErrCodeReadFailed, fmt.Sprintf("cannot create %s", path))
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return accerrors.WrapIO(err, accerrors.ErrCodeReadFailed, fmt.Sprintf("cannot write %s", path))
	}
	return nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
