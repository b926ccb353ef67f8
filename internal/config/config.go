package config

import (
	"github.com/mvp-joe/docgen/internal/classify"
	"github.com/mvp-joe/docgen/internal/render"
	"github.com/mvp-joe/docgen/internal/source"
)

// Config represents the complete docgen configuration.
// It can be loaded from .docgen.yml with environment variable and flag overrides.
type Config struct {
	Document   DocumentConfig   `yaml:"document" mapstructure:"document"`
	Input      InputConfig      `yaml:"input" mapstructure:"input"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DocumentConfig configures the HTML framing.
type DocumentConfig struct {
	Title      string `yaml:"title" mapstructure:"title" validate:"required"`
	Stylesheet string `yaml:"stylesheet" mapstructure:"stylesheet"` // href of the stylesheet, empty to omit
	Script     string `yaml:"script" mapstructure:"script"`         // src of the script, empty to omit
}

// InputConfig selects files inside directory arguments.
type InputConfig struct {
	Include []string `yaml:"include" mapstructure:"include" validate:"min=1,dive,required"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore" validate:"dive,required"`         // glob patterns to skip
}

// ClassifierConfig tunes line classification.
type ClassifierConfig struct {
	KeepBlockOnBareAsterisk bool `yaml:"keep_block_on_bare_asterisk" mapstructure:"keep_block_on_bare_asterisk"`
}

// OutputConfig selects where the document goes.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path" validate:"required"` // "-" for stdout
}

// LogConfig configures diagnostics on stderr.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=console json"`
}

// Stdout is the output path meaning standard output.
const Stdout = "-"

// Default returns a configuration with sensible defaults.
func Default() *Config {
	doc := render.DefaultDocument()
	return &Config{
		Document: DocumentConfig{
			Title:      doc.Title,
			Stylesheet: doc.Stylesheet,
			Script:     doc.Script,
		},
		Input: InputConfig{
			Include: []string{
				"**/*.h",
				"**/*.hh",
				"**/*.hpp",
				"**/*.c",
				"**/*.cc",
				"**/*.cpp",
			},
			Ignore: []string{
				".git/**",
				"build/**",
			},
		},
		Output: OutputConfig{
			Path: Stdout,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// ToStdout reports whether the document goes to standard output.
func (c *Config) ToStdout() bool {
	return c.Output.Path == Stdout
}

// DocumentOptions converts the document section for the renderer.
func (c *Config) DocumentOptions() render.Document {
	return render.Document{
		Title:      c.Document.Title,
		Stylesheet: c.Document.Stylesheet,
		Script:     c.Document.Script,
	}
}

// SourceOptions converts the input section for file discovery.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Include: c.Input.Include,
		Ignore:  c.Input.Ignore,
	}
}

// ClassifierOptions converts the classifier section.
func (c *Config) ClassifierOptions() classify.Options {
	return classify.Options{
		KeepBlockOnBareAsterisk: c.Classifier.KeepBlockOnBareAsterisk,
	}
}

// SourceExtensions returns the extensions named by the include patterns.
// Returns extensions with leading dot (e.g., []string{".hh", ".cc"}).
func (c *Config) SourceExtensions() []string {
	return source.Extensions(c.Input.Include)
}
