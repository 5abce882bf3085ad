package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	junokeys "github.com/junocash/juno-keys"
	"github.com/junocash/juno-keys/build"
	"github.com/urfave/cli"
)

// newApp assembles the command line application writing regular output to
// stdout and diagnostics to stderr.
func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "juno-keys"
	app.Version = build.Version() + " commit=" + build.Commit
	app.Usage = "seed and unified full viewing key derivation for Juno Cash"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name: "json",
			Usage: "Print results and errors as a stable JSON " +
				"envelope.",
		},
		cli.StringFlag{
			Name: "debuglevel",
			Usage: "Logging level for all subsystems {trace, " +
				"debug, info, warn, error, critical, off}. " +
				"May also be specified per subsystem as " +
				"<global-level>,<subsystem>=<level>,...",
			Value: build.DefaultLogConfig().Level,
		},
	}
	app.Before = actionDecorator(setupLogging)
	app.OnUsageError = onUsageError
	app.Commands = []cli.Command{
		seedCommand,
		ufvkCommand,
	}

	return app
}

// setupLogging installs a console log handler on stderr and applies the
// requested debug levels. Logs never go to stdout so that the output stays
// machine readable.
func setupLogging(ctx *cli.Context) error {
	logCfg := build.DefaultLogConfig()
	logCfg.Level = ctx.GlobalString("debuglevel")

	handler := build.NewConsoleHandler(logCfg, ctx.App.ErrWriter)
	root := build.NewSubLoggerManager(handler)
	junokeys.SetupLoggers(root)

	err := build.ParseAndSetDebugLevels(logCfg.Level, root)
	if err != nil {
		return invalidRequest("%w", err)
	}

	return nil
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "[juno-keys] %v\n", err)
		}
		os.Exit(1)
	}
}
