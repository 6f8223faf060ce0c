// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/statdash/pkg/config"
	"github.com/Dicklesworthstone/statdash/pkg/loader"
	"github.com/Dicklesworthstone/statdash/pkg/model"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	// Console is set when log output reaches the terminal
	Console bool

	// CloseLog closes the file log destination, nil when there is none
	CloseLog func() error

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Log:   zap.NewNop(),
		start: time.Now(),
	}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog flushes the logger, undoes RedirectStdLog and closes the log
// file. Nothing should be logged after it returns.
func (e *LocalEnv) RestoreStdLog() error {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
	if e.CloseLog == nil {
		return nil
	}
	closeLog := e.CloseLog
	e.CloseLog = nil
	e.Log = zap.NewNop()
	if err := closeLog(); err != nil {
		return fmt.Errorf("unable to close log file: %w", err)
	}
	return nil
}

// EngineOptions returns the configured engine options plus the program logger.
func (e *LocalEnv) EngineOptions() ([]responsive.Option, error) {
	if e.Cfg == nil {
		return []responsive.Option{responsive.WithLogger(e.Log)}, nil
	}
	opts, err := e.Cfg.Engine.EngineOptions()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare engine: %w", err)
	}
	return append(opts, responsive.WithLogger(e.Log)), nil
}

// DashboardPath returns the configured dashboard file, empty for the sample.
func (e *LocalEnv) DashboardPath() string {
	if e.Cfg == nil {
		return ""
	}
	// path_clean turns an empty path into "."
	if p := e.Cfg.Dashboard.Path; p != "." {
		return p
	}
	return ""
}

// LoadDashboard loads the configured dashboard or the built-in sample.
func (e *LocalEnv) LoadDashboard() (*model.Dashboard, error) {
	path := e.DashboardPath()
	if path == "" {
		return loader.Sample(), nil
	}
	d, err := loader.LoadDashboard(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load dashboard: %w", err)
	}
	e.Log.Debug("Dashboard loaded", zap.String("path", path), zap.Int("cards", len(d.Cards)))
	return d, nil
}
