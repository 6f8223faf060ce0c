package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/statdash/pkg/dimension"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
	"github.com/Dicklesworthstone/statdash/pkg/state"
	"github.com/Dicklesworthstone/statdash/pkg/watcher"
)

func classifyViewport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected WIDTH and HEIGHT, got %d arguments", cmd.Args().Len())
	}

	var dims [2]float64
	for i := range dims {
		v, err := strconv.ParseFloat(cmd.Args().Get(i), 64)
		if err != nil {
			return fmt.Errorf("bad dimension '%s': %w", cmd.Args().Get(i), err)
		}
		dims[i] = v
	}
	v := responsive.Viewport{Width: dims[0], Height: dims[1]}

	opts, err := env.EngineOptions()
	if err != nil {
		return err
	}
	engine := responsive.New(dimension.NewSource(v), opts...)
	defer engine.Close()

	if !v.Valid() {
		env.Log.Warn("Invalid viewport, layout is degraded", zap.Stringer("viewport", v))
	}
	printSnapshot(os.Stdout, engine)
	if w := cmd.Float("width-override"); w > 0 {
		fmt.Fprintf(os.Stdout, "columns@%g:  %d\n", w, engine.GridColumns(w))
	}
	return nil
}

func printSnapshot(w io.Writer, e *responsive.Engine) {
	s := e.Snapshot()
	fmt.Fprintf(w, "viewport:    %s\n", s.Viewport)
	fmt.Fprintf(w, "class:       %s\n", s.Class)
	fmt.Fprintf(w, "orientation: %s\n", s.Orientation)
	fmt.Fprintf(w, "platform:    %s\n", e.Platform())
	fmt.Fprintf(w, "columns:     %d\n", s.Grid.Columns)
	fmt.Fprintf(w, "padding:     %g\n", s.Padding)
	fmt.Fprintf(w, "spacing:     xs=%g sm=%g md=%g lg=%g xl=%g\n",
		s.Spacing.XS, s.Spacing.SM, s.Spacing.MD, s.Spacing.LG, s.Spacing.XL)
	fmt.Fprintf(w, "typography:  h1=%g h2=%g h3=%g body=%g caption=%g\n",
		s.Typography.H1, s.Typography.H2, s.Typography.H3, s.Typography.Body, s.Typography.Caption)
}

func watchResize(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	opts, err := env.EngineOptions()
	if err != nil {
		return err
	}
	src := dimension.NewSource(responsive.Viewport{})
	engine := responsive.New(src, opts...)
	defer engine.Close()

	deb := watcher.NewDebouncer(env.Cfg.Terminal.ResizeDebounce, func(responsive.Viewport) {
		s := engine.Snapshot()
		fmt.Fprintf(os.Stdout, "%s  %s %s %s  %d cols  padding %g  body %g\n",
			time.Now().Format(time.TimeOnly), s.Viewport, s.Class, s.Orientation, s.Grid.Columns, s.Padding, s.Typography.Body)
	})
	defer deb.Cancel()
	engine.SubscribeContext(ctx, deb.Push)

	env.Log.Info("Watching terminal size, press Ctrl+C to stop")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dimension.Poll(gctx, int(os.Stdout.Fd()), env.Cfg.Terminal.PollInterval, env.Cfg.Terminal.CellMetrics, src)
	})
	g.Go(func() error {
		<-gctx.Done()
		// report the size the terminal settled on
		deb.Flush()
		return nil
	})
	return g.Wait()
}
