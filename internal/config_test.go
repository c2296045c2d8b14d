package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestConfig_MissingGraphPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Graph.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty graph path should fail validation")
	}
}

func TestConfig_InvalidLogLevel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid log level should fail validation")
	}
}

func TestConfig_NegativeWorkers(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Graph.Workers = -2
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative workers should fail validation")
	}
}

func TestConfig_EmptyExportAndStoreAllowed(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Export.Dir = ""
	cfg.Store.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled export and store should pass: %v", err)
	}
}

func TestApplicationConfig_Level(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{LogLevelInfo, slog.LevelInfo},
		{LogLevelWarn, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := ApplicationConfig{LogLevel: tt.in}
		if got := cfg.Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_LoadFromYAML(t *testing.T) {
	t.Setenv("TEST_NOTES_DIR", "/srv/notes")

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
app:
  log_level: debug
graph:
  path: ${TEST_NOTES_DIR}
  separator: "/"
  public_key: public
  directives: [QUOTE, SRC]
  workers: 4
export:
  dir: ""
store:
  path: ./graph.db
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.LogLevel != LogLevelDebug {
		t.Errorf("log_level = %q, want debug", cfg.App.LogLevel)
	}
	if cfg.Graph.Path != "/srv/notes" {
		t.Errorf("env expansion failed, path = %q", cfg.Graph.Path)
	}
	if cfg.Graph.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Graph.Workers)
	}
	if len(cfg.Graph.Directives) != 2 {
		t.Errorf("directives = %v, want the two configured tokens", cfg.Graph.Directives)
	}
	if cfg.Export.Dir != "" {
		t.Errorf("export dir should be cleared, got %q", cfg.Export.Dir)
	}
}

func TestConfig_LoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
app:
  log_level: shout
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err == nil {
		t.Fatal("invalid log level should fail Load validation")
	}
}
