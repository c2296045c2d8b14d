package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log levels accepted by app.log_level.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Graph  GraphConfig       `yaml:"graph"`
	Export ExportConfig      `yaml:"export"`
	Store  StoreConfig       `yaml:"store"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Graph.Validate(); err != nil {
		return err
	}
	if err := c.Export.Validate(); err != nil {
		return err
	}
	return c.Store.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel string `yaml:"log_level"`
}

// Level maps the configured log level to its slog value. Unknown values
// fall back to info; Validate rejects them before they get here.
func (c *ApplicationConfig) Level() slog.Level {
	switch c.LogLevel {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
	)
}

// GraphConfig describes the note collection and its markup conventions.
type GraphConfig struct {
	// Path is the collection root directory.
	Path string `yaml:"path"`
	// Separator splits page names into namespace segments.
	Separator string `yaml:"separator"`
	// PublicKey names the page property that marks a page as published.
	PublicKey string `yaml:"public_key"`
	// Directives lists the recognized #+BEGIN_X control tokens. Empty
	// means accept any token.
	Directives []string `yaml:"directives"`
	// Workers caps parse parallelism. Zero means one worker per CPU.
	Workers int `yaml:"workers"`
}

// Validate validates the graph configuration.
func (c *GraphConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Separator, validation.Required),
		validation.Field(&c.PublicKey, validation.Required),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// ExportConfig holds the CSV export configuration. An empty dir disables
// the export.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the export configuration.
func (c *ExportConfig) Validate() error {
	return nil
}

// StoreConfig holds the graph store configuration. An empty path disables
// loading.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: LogLevelInfo,
		},
		Graph: GraphConfig{
			Path:      "./notes",
			Separator: "/",
			PublicKey: "public",
			Directives: []string{
				"QUOTE", "QUERY", "SRC", "EXAMPLE", "EXPORT", "VERSE",
				"CENTER", "WARNING", "CAUTION", "PINNED", "TIP",
				"IMPORTANT", "NOTE",
			},
			Workers: 0,
		},
		Export: ExportConfig{
			Dir: "./out",
		},
		Store: StoreConfig{
			Path: "./ansuz.db",
		},
	}
}
