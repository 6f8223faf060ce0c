package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/statdash/pkg/config"
	"github.com/Dicklesworthstone/statdash/pkg/export"
	"github.com/Dicklesworthstone/statdash/pkg/state"
	"github.com/Dicklesworthstone/statdash/pkg/version"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if path := cmd.String("dashboard"); len(path) > 0 {
		env.Cfg.Dashboard.Path = path
	}
	if platform := cmd.String("platform"); len(platform) > 0 {
		env.Cfg.Engine.Platform = platform
	}

	// the full screen dashboard owns the terminal, console logging would tear it
	sub := cmd.Args().First()
	console := sub != "" && sub != "run"
	if env.Log, env.CloseLog, err = env.Cfg.Logging.Prepare(console); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.Console = console && env.Cfg.Logging.ConsoleLogger.Level != "none"
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version.Version), zap.String("runtime", runtime.Version()), zap.String("hash", version.GitHash))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging, errors must be reported directly to stderr from now on
	return env.RestoreStdLog()
}

// Ignore urfave/cli default error handling. Subcommands return regular errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = env.Console
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            version.AppName,
		Usage:           "responsive statistics dashboard for the terminal",
		Version:         version.Version + " (" + runtime.Version() + ") : " + version.GitHash,
		HideHelpCommand: true,
		DefaultCommand:  "run",
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.StringFlag{Name: "dashboard", Aliases: []string{"f"}, Usage: "load dashboard from `FILE` (YAML or JSONL), overrides configuration"},
			&cli.StringFlag{Name: "platform", Usage: "font metrics `PLATFORM` (ios or android), overrides configuration"},
		},
		Commands: []*cli.Command{
			{
				Name:         "run",
				Usage:        "Shows the dashboard full screen",
				OnUsageError: usageErrorHandler,
				Action:       runDashboard,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "nowatch", Usage: "do not reload the dashboard file when it changes"},
				},
			},
			{
				Name:         "classify",
				Usage:        "Prints the layout derived for a viewport",
				OnUsageError: usageErrorHandler,
				Action:       classifyViewport,
				ArgsUsage:    "WIDTH HEIGHT",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "width-override", Usage: "compute grid columns for a container `WIDTH` narrower than the screen"},
				},
			},
			{
				Name:         "watch",
				Usage:        "Streams layout changes while the terminal is resized",
				OnUsageError: usageErrorHandler,
				Action:       watchResize,
			},
			{
				Name:         "export",
				Usage:        "Writes dashboard wireframes (SVG or PNG)",
				OnUsageError: usageErrorHandler,
				Action:       exportWireframes,
				ArgsUsage:    "[DESTINATION]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "device", Value: "tablet", Usage: "device `PRESET` (" + presetNames() + "), append -landscape to rotate"},
					&cli.FloatFlag{Name: "width", Usage: "viewport `WIDTH`, overrides --device"},
					&cli.FloatFlag{Name: "height", Usage: "viewport `HEIGHT`, overrides --device"},
					&cli.StringFlag{Name: "format", Usage: "output `TYPE` (svg or png), derived from DESTINATION when absent"},
					&cli.BoolFlag{Name: "all", Usage: "write every preset in both orientations into DESTINATION directory"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    output file, or directory with --all; if absent - wireframe.svg or current directory
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "preview",
				Usage:        "Serves wireframes for all device presets over HTTP",
				OnUsageError: usageErrorHandler,
				Action:       previewWireframes,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen on `PORT`, first free port from 9000 when absent"},
					&cli.BoolFlag{Name: "open", Usage: "open the preview in a browser"},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func presetNames() string {
	names := make([]string, 0, len(export.Presets))
	for _, p := range export.Presets {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
