// Package config loads testgap settings from flags, environment variables
// and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys shared by flags, the config file and TESTGAP_* environment variables.
const (
	KeyModuleFolder = "module_folder"
	KeyTestsFolder  = "tests_folder"
	KeyExtension    = "extension"
	KeyTestPrefix   = "test_prefix"
	KeyExtractor    = "extractor"
	KeyNamingRule   = "naming_rule"
	KeyHistory      = "history"
	KeyFormat       = "format"
	KeyNoColor      = "no_color"
	KeyVerbose      = "verbose"
)

// EnvPrefix prefixes environment overrides, e.g. TESTGAP_MODULE_FOLDER.
const EnvPrefix = "TESTGAP"

// ErrMissingFolders is returned by Validate when either folder is unset.
var ErrMissingFolders = errors.New("both --module_folder and --tests_folder are required")

// Config is the resolved configuration of an audit run.
type Config struct {
	ModuleFolder string `mapstructure:"module_folder"`
	TestsFolder  string `mapstructure:"tests_folder"`
	Extension    string `mapstructure:"extension"`
	TestPrefix   string `mapstructure:"test_prefix"`
	Extractor    string `mapstructure:"extractor"`
	NamingRule   string `mapstructure:"naming_rule"`
	History      string `mapstructure:"history"`
	Format       string `mapstructure:"format"`
	NoColor      bool   `mapstructure:"no_color"`
	Verbose      bool   `mapstructure:"verbose"`
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyExtension, ".py")
	v.SetDefault(KeyTestPrefix, "test_")
	v.SetDefault(KeyExtractor, "lines")
	v.SetDefault(KeyFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

var keys = []string{
	KeyModuleFolder, KeyTestsFolder, KeyExtension, KeyTestPrefix, KeyExtractor,
	KeyNamingRule, KeyHistory, KeyFormat, KeyNoColor, KeyVerbose,
}

// bindEnv registers every key so Unmarshal sees environment-only values.
func bindEnv(v *viper.Viper) error {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}
	return nil
}

// BindFlags binds every flag in fs whose name is a config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = v.BindPFlag(f.Name, f)
	})
	if err != nil {
		return fmt.Errorf("config: bind flags: %w", err)
	}
	return nil
}

// ReadFile reads configFile, or when it is empty searches for .testgap.yaml
// in the working directory and $HOME. A missing default file is not an error.
// It returns the path of the file used, if any.
func ReadFile(v *viper.Viper, configFile string) (string, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".testgap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("config: read %s: %w", configFile, err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes v into a Config and expands environment variables in both
// folder paths and the history path.
func Load(v *viper.Viper) (*Config, error) {
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.ModuleFolder = ExpandEnv(cfg.ModuleFolder)
	cfg.TestsFolder = ExpandEnv(cfg.TestsFolder)
	cfg.History = ExpandEnv(cfg.History)
	return &cfg, nil
}

var envVar = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// ExpandEnv replaces $name and ${name} with the value of the environment
// variable. References to unset variables are left untouched.
func ExpandEnv(s string) string {
	return envVar.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(ref[1:], "{"), "}")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return ref
	})
}

// Validate reports invocation errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ModuleFolder) == "" || strings.TrimSpace(c.TestsFolder) == "" {
		return ErrMissingFolders
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("invalid extension %q: must start with \".\"", c.Extension)
	}
	return nil
}
