package main

import (
	"fmt"
	"os"

	junokeys "github.com/junocash/juno-keys"
	"github.com/junocash/juno-keys/seed"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

var seedCommand = cli.Command{
	Name:         "seed",
	Category:     "Seed",
	Usage:        "Create wallet seeds.",
	OnUsageError: onUsageError,
	Subcommands: []cli.Command{
		newSeedCommand,
	},
}

var newSeedCommand = cli.Command{
	Name:  "new",
	Usage: "Generate a new random seed.",
	Description: `
	Generate a new random seed from the operating system's random number
	generator and print it in standard base64.

	If --out is set, the seed is written to that file instead, followed by
	a newline, with permissions 0600. An existing file is never replaced
	unless --force is set. Use --print to also print the seed when writing
	it to a file.

	The seed controls all funds derived from it. Avoid printing it where
	it may end up in logs or shell history.
	`,
	Flags: []cli.Flag{
		cli.IntFlag{
			Name: "bytes",
			Usage: fmt.Sprintf("the seed size in bytes, between "+
				"%d and %d", seed.MinLen, seed.MaxLen),
			Value: seed.DefaultLen,
		},
		cli.StringFlag{
			Name:      "out",
			Usage:     "write the base64 seed to this file",
			TakesFile: true,
		},
		cli.BoolFlag{
			Name:  "force",
			Usage: "replace the --out file if it already exists",
		},
		cli.BoolFlag{
			Name:  "print",
			Usage: "print the seed even if --out is set",
		},
	},
	Action:       actionDecorator(newSeed),
	OnUsageError: onUsageError,
}

type seedResponse struct {
	Bytes      int    `json:"bytes"`
	OutPath    string `json:"out_path,omitempty"`
	SeedBase64 string `json:"seed_base64,omitempty"`
}

func newSeed(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return invalidRequest("unexpected arguments: %v", ctx.Args())
	}
	if ctx.IsSet("out") && ctx.String("out") == "" {
		return invalidRequest("--out must not be empty")
	}

	numBytes := ctx.Int("bytes")
	seedB64, err := junokeys.GenerateSeedBase64(numBytes)
	if err != nil {
		return err
	}

	outPath := fn.None[string]()
	if ctx.String("out") != "" {
		path := cleanAndExpandPath(ctx.String("out"))
		err := writeSecretFile(
			path, []byte(seedB64+"\n"), ctx.Bool("force"),
		)
		if err != nil {
			return err
		}

		outPath = fn.Some(path)
	}

	shouldPrint := ctx.Bool("print") || outPath.IsNone()
	if shouldPrint {
		warnIfTerminal(ctx)
	}

	if jsonMode(ctx) {
		resp := seedResponse{
			Bytes:   numBytes,
			OutPath: outPath.UnwrapOr(""),
		}
		if shouldPrint {
			resp.SeedBase64 = seedB64
		}

		return printOK(ctx, resp)
	}

	if shouldPrint {
		fmt.Fprintln(ctx.App.Writer, seedB64)
		return nil
	}

	outPath.WhenSome(func(path string) {
		fmt.Fprintln(ctx.App.Writer, path)
	})

	return nil
}

// warnIfTerminal reminds the user on stderr that a seed is about to be shown
// on an interactive terminal.
func warnIfTerminal(ctx *cli.Context) {
	f, ok := ctx.App.Writer.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return
	}

	fmt.Fprintln(ctx.App.ErrWriter, "[juno-keys] warning: anyone who "+
		"sees this seed can spend its funds, store it offline")
}
