package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/statdash/pkg/export"
	"github.com/Dicklesworthstone/statdash/pkg/model"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
	"github.com/Dicklesworthstone/statdash/pkg/state"
	"github.com/Dicklesworthstone/statdash/pkg/watcher"
)

func exportWireframes(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	opts, err := env.EngineOptions()
	if err != nil {
		return err
	}
	dash, err := env.LoadDashboard()
	if err != nil {
		return err
	}

	var format export.Format
	if f := cmd.String("format"); len(f) > 0 {
		if format, err = export.ParseFormat(f); err != nil {
			return err
		}
	}

	dest := cmd.Args().Get(0)
	if cmd.Bool("all") {
		return exportAll(env, dest, format, dash, opts)
	}

	v := responsive.Viewport{Width: cmd.Float("width"), Height: cmd.Float("height")}
	if v.Width == 0 && v.Height == 0 {
		p, ok := export.LookupPreset(cmd.String("device"))
		if !ok {
			return fmt.Errorf("unknown device preset '%s'", cmd.String("device"))
		}
		v = p.Viewport
	}
	if len(dest) == 0 {
		dest = "wireframe." + string(orDefault(format, export.FormatSVG))
	}

	if err := export.SaveWireframe(dest, format, v, dash, opts...); err != nil {
		return err
	}
	env.Log.Info("Wireframe written", zap.String("file", dest), zap.Stringer("viewport", v))
	return nil
}

func exportAll(env *state.LocalEnv, dir string, format export.Format, dash *model.Dashboard, opts []responsive.Option) error {
	if len(dir) == 0 {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create destination directory '%s': %w", dir, err)
	}
	format = orDefault(format, export.FormatSVG)

	var err error
	for _, p := range export.Presets {
		for _, name := range []string{p.Name, p.Name + "-landscape"} {
			ps, _ := export.LookupPreset(name)
			dest := filepath.Join(dir, name+"."+string(format))
			if er := export.SaveWireframe(dest, format, ps.Viewport, dash, opts...); er != nil {
				err = multierr.Append(err, fmt.Errorf("%s: %w", name, er))
				continue
			}
			env.Log.Info("Wireframe written", zap.String("file", dest), zap.Stringer("viewport", ps.Viewport))
		}
	}
	return err
}

func orDefault(f, def export.Format) export.Format {
	if f == "" {
		return def
	}
	return f
}

func previewWireframes(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	opts, err := env.EngineOptions()
	if err != nil {
		return err
	}
	dash, err := env.LoadDashboard()
	if err != nil {
		return err
	}
	var current atomic.Pointer[model.Dashboard]
	current.Store(dash)

	port := int(cmd.Int("port"))
	if port == 0 {
		if port, err = export.FindAvailablePort(export.PreviewPortRangeStart, export.PreviewPortRangeEnd); err != nil {
			return fmt.Errorf("could not find available port: %w", err)
		}
	}
	server := export.NewPreviewServer(port, current.Load, env.Log, opts...)

	var fw *watcher.FileWatcher
	if path := env.DashboardPath(); path != "" && env.Cfg.Dashboard.Watch {
		fw, err = watcher.WatchFile(path, env.Cfg.Dashboard.ReloadDebounce, env.Log, func(string) {
			d, err := env.LoadDashboard()
			if err != nil {
				env.Log.Warn("Dashboard reload failed, keeping previous", zap.Error(err))
				return
			}
			current.Store(d)
			env.Log.Info("Dashboard reloaded", zap.Int("cards", len(d.Cards)))
		})
		if err != nil {
			return fmt.Errorf("unable to watch dashboard: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	if fw != nil {
		g.Go(func() error {
			<-gctx.Done()
			return fw.Close()
		})
	}

	if cmd.Bool("open") {
		if err := export.OpenInBrowser(server.URL()); err != nil {
			env.Log.Warn("Could not open browser", zap.String("url", server.URL()), zap.Error(err))
		}
	}
	env.Log.Info("Serving wireframes, press Ctrl+C to stop", zap.String("url", server.URL()))
	return g.Wait()
}
