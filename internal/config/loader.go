package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DOCGEN_DOCUMENT_TITLE.
const EnvPrefix = "DOCGEN"

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"title":           "document.title",
	"stylesheet":      "document.stylesheet",
	"script":          "document.script",
	"include":         "input.include",
	"ignore":          "input.ignore",
	"keep-separators": "classifier.keep_block_on_bare_asterisk",
	"output":          "output.path",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file, environment variables and flags.
	// Priority: defaults → config file → environment variables → flags
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
	flags      *pflag.FlagSet
}

// LoaderOption customizes a Loader.
type LoaderOption func(*loader)

// WithConfigFile loads the given file instead of searching rootDir. The file
// must exist.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.configFile = path }
}

// WithFlags binds the flags named in FlagKeys that exist in fs.
func WithFlags(fs *pflag.FlagSet) LoaderOption {
	return func(l *loader) { l.flags = fs }
}

// NewLoader creates a new configuration loader that looks for .docgen.yml
// or .docgen.yaml in rootDir.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Flags that were set on the command line
// 2. Environment variables (DOCGEN_*)
// 3. Config file
// 4. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(".docgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., DOCGEN_OUTPUT_PATH)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"document.title",
		"document.stylesheet",
		"document.script",
		"input.include",
		"input.ignore",
		"classifier.keep_block_on_bare_asterisk",
		"output.path",
		"log.level",
		"log.format",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	if l.flags != nil {
		for name, key := range FlagKeys {
			if f := l.flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine unless one was named explicitly.
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("document.title", defaults.Document.Title)
	v.SetDefault("document.stylesheet", defaults.Document.Stylesheet)
	v.SetDefault("document.script", defaults.Document.Script)

	v.SetDefault("input.include", defaults.Input.Include)
	v.SetDefault("input.ignore", defaults.Input.Ignore)

	v.SetDefault("classifier.keep_block_on_bare_asterisk", defaults.Classifier.KeepBlockOnBareAsterisk)

	v.SetDefault("output.path", defaults.Output.Path)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}
