package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Engine.Platform != "ios" {
		t.Errorf("Default platform = %q, want ios", cfg.Engine.Platform)
	}
	if cfg.Engine.Breakpoints != responsive.DefaultBreakpoints() {
		t.Errorf("Default breakpoints = %+v", cfg.Engine.Breakpoints)
	}
	if cfg.Terminal.CellWidth != 8 || cfg.Terminal.CellHeight != 16 {
		t.Errorf("Default cell metrics = %+v", cfg.Terminal.CellMetrics)
	}
	if cfg.Terminal.PollInterval != 200*time.Millisecond {
		t.Errorf("Default poll interval = %v", cfg.Terminal.PollInterval)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
engine:
  platform: android
  density: 3
terminal:
  cell_width: 10
dashboard:
  path: ./data/../dash.yaml
  watch: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Engine.Platform != "android" || cfg.Engine.Density != 3 {
		t.Errorf("Engine section not applied: %+v", cfg.Engine)
	}
	if cfg.Terminal.CellWidth != 10 || cfg.Terminal.CellHeight != 16 {
		t.Errorf("Expected partial override of cell metrics, got %+v", cfg.Terminal.CellMetrics)
	}
	if cfg.Dashboard.Path != "dash.yaml" {
		t.Errorf("Expected cleaned path, got %q", cfg.Dashboard.Path)
	}
	if cfg.Dashboard.Watch {
		t.Error("Expected watch to be disabled")
	}

	opts, err := cfg.Engine.EngineOptions()
	if err != nil {
		t.Fatalf("EngineOptions() error = %v", err)
	}
	if len(opts) == 0 {
		t.Error("Expected engine options")
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "version: 1\nbogus: true\n"},
		{"bad platform", "version: 1\nengine:\n  platform: palm\n"},
		{"bad version", "version: 2\n"},
		{"bad breakpoints", "version: 1\nengine:\n  breakpoints:\n    tablet: 100\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfiguration(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "platform: ios") {
		t.Errorf("Dump output missing platform:\n%s", data)
	}

	path := filepath.Join(t.TempDir(), "dumped.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfiguration(path); err != nil {
		t.Errorf("Dumped configuration does not load back: %v", err)
	}
}

func TestLoggingPrepare(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "statdash.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: dest, Mode: "overwrite"},
	}
	log, closeLog, err := conf.Prepare(false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hello from test")
	_ = log.Sync()
	if err := closeLog(); err != nil {
		t.Errorf("Expected log file to close, got %v", err)
	}
	if err := closeLog(); err == nil {
		t.Error("Expected second close to fail on closed file")
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("Expected log line in file, got %q", data)
	}
}

func TestLoggingPrepare_NoFile(t *testing.T) {
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none"},
	}
	log, closeLog, err := conf.Prepare(false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if log == nil || closeLog == nil {
		t.Fatal("Expected logger and closer")
	}
	if err := closeLog(); err != nil {
		t.Errorf("Expected no-op close, got %v", err)
	}
}
