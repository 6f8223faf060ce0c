package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/Dicklesworthstone/statdash/pkg/config"
	"github.com/Dicklesworthstone/statdash/pkg/dimension"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.Log == nil {
		t.Error("Expected a no-op logger before configuration")
	}
}

func TestEnvFromContext_PanicsWithoutEnv(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	env := &LocalEnv{
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}
	env.RedirectStdLog()
	if env.restoreStdLog == nil {
		t.Error("Expected restoreStdLog to be set")
	}
	env.RestoreStdLog()
}

func TestLocalEnv_RestoreStdLogClosesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "statdash.log")
	conf := config.LoggingConfig{
		ConsoleLogger: config.LoggerConfig{Level: "none"},
		FileLogger:    config.LoggerConfig{Level: "debug", Destination: dest, Mode: "overwrite"},
	}
	env := &LocalEnv{}
	var err error
	if env.Log, env.CloseLog, err = conf.Prepare(false); err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	env.RedirectStdLog()
	env.Log.Info("before teardown")

	if err := env.RestoreStdLog(); err != nil {
		t.Fatalf("RestoreStdLog error: %v", err)
	}
	if env.CloseLog != nil {
		t.Error("Expected CloseLog to be cleared")
	}
	// late writes go nowhere
	env.Log.Info("after teardown")
	if err := env.RestoreStdLog(); err != nil {
		t.Errorf("Expected second RestoreStdLog to be a no-op, got %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "before teardown") || strings.Contains(string(data), "after teardown") {
		t.Errorf("Unexpected log file contents %q", data)
	}
}

func TestLocalEnv_EngineOptions(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration error: %v", err)
	}
	cfg.Engine.Platform = "android"
	env := &LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}

	opts, err := env.EngineOptions()
	if err != nil {
		t.Fatalf("EngineOptions error: %v", err)
	}
	e := responsive.New(dimension.NewSource(responsive.Viewport{Width: 640, Height: 320}), opts...)
	if e.Platform() != responsive.PlatformAndroid {
		t.Errorf("Expected android, got %v", e.Platform())
	}
	if got := e.ResponsiveFont(28); got != 26 {
		t.Errorf("Expected 26, got %v", got)
	}
}

func TestLocalEnv_LoadDashboard(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration error: %v", err)
	}
	env := &LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}

	for _, p := range []string{"", "."} {
		cfg.Dashboard.Path = p
		d, err := env.LoadDashboard()
		if err != nil {
			t.Fatalf("path %q: %v", p, err)
		}
		if len(d.Cards) == 0 {
			t.Errorf("path %q: expected sample dashboard", p)
		}
	}

	path := filepath.Join(t.TempDir(), "dash.yaml")
	if err := os.WriteFile(path, []byte("title: Ops\ncards:\n  - id: cpu\n    title: CPU\n    value: \"42\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Dashboard.Path = path
	d, err := env.LoadDashboard()
	if err != nil {
		t.Fatalf("LoadDashboard error: %v", err)
	}
	if d.Title != "Ops" || len(d.Cards) != 1 {
		t.Errorf("Expected Ops with 1 card, got %s with %d", d.Title, len(d.Cards))
	}

	cfg.Dashboard.Path = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := env.LoadDashboard(); err == nil {
		t.Error("Expected error for missing dashboard")
	}
}
