package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/statdash/pkg/dimension"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
	"github.com/Dicklesworthstone/statdash/pkg/state"
	"github.com/Dicklesworthstone/statdash/pkg/ui"
	"github.com/Dicklesworthstone/statdash/pkg/watcher"
)

func runDashboard(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	opts, err := env.EngineOptions()
	if err != nil {
		return err
	}
	dash, err := env.LoadDashboard()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the first WindowSizeMsg sets the real viewport
	src := dimension.NewSource(responsive.Viewport{})
	engine := responsive.New(src, opts...)
	defer engine.Close()

	m := ui.NewModel(ui.Options{
		Engine:    engine,
		Source:    src,
		Metrics:   env.Cfg.Terminal.CellMetrics,
		Dashboard: dash,
		Reload:    env.LoadDashboard,
		Logger:    env.Log,
		Context:   ctx,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	var fw *watcher.FileWatcher
	if path := env.DashboardPath(); path != "" && env.Cfg.Dashboard.Watch && !cmd.Bool("nowatch") {
		fw, err = watcher.WatchFile(path, env.Cfg.Dashboard.ReloadDebounce, env.Log, func(string) {
			d, err := env.LoadDashboard()
			p.Send(ui.ReloadMsg{Dashboard: d, Err: err})
		})
		if err != nil {
			return fmt.Errorf("unable to watch dashboard: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			// interrupted by signal
			return nil
		}
		return err
	})
	var closeErr error
	if fw != nil {
		g.Go(func() error {
			<-gctx.Done()
			closeErr = fw.Close()
			return nil
		})
	}

	err = g.Wait()
	env.Log.Debug("Dashboard closed", zap.Int("subscriptions", engine.Active()))
	return multierr.Append(err, closeErr)
}
