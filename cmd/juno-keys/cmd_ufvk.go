package main

import (
	"fmt"
	"math"
	"strings"

	junokeys "github.com/junocash/juno-keys"
	"github.com/junocash/juno-keys/errorcodes"
	"github.com/junocash/juno-keys/netparams"
	"github.com/urfave/cli"
)

var networkFlag = cli.StringFlag{
	Name: "network",
	Usage: "the network to use, one of " +
		strings.Join(netparams.Names(), ", "),
	EnvVar: "JUNO_KEYS_NETWORK",
}

var ufvkCommand = cli.Command{
	Name:         "ufvk",
	Category:     "Viewing keys",
	Usage:        "Derive and inspect unified full viewing keys.",
	OnUsageError: onUsageError,
	Subcommands: []cli.Command{
		ufvkFromSeedCommand,
		decodeUFVKCommand,
	},
}

var ufvkFromSeedCommand = cli.Command{
	Name:  "from-seed",
	Usage: "Derive the unified full viewing key of an account.",
	Description: `
	Derive the Orchard full viewing key of an account from a base64 seed
	and print it as a unified full viewing key of the selected network.

	Exactly one of --seed-file and --seed-base64 must be set. The network
	selects both the key prefix and the ZIP 32 coin type.
	`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:      "seed-file",
			Usage:     "read the base64 seed from this file",
			EnvVar:    "JUNO_KEYS_SEED_FILE",
			TakesFile: true,
		},
		cli.StringFlag{
			Name: "seed-base64",
			Usage: "the base64 seed, avoid this where command " +
				"lines are logged",
		},
		networkFlag,
		cli.Uint64Flag{
			Name:  "account",
			Usage: "the ZIP 32 account index",
		},
	},
	Action:       actionDecorator(ufvkFromSeed),
	OnUsageError: onUsageError,
}

type ufvkResponse struct {
	UFVK     string `json:"ufvk"`
	UAHRP    string `json:"ua_hrp"`
	CoinType uint32 `json:"coin_type"`
	Account  uint32 `json:"account"`
}

// checkOneSet accepts two flag names, a and b, and checks that exactly one
// of them carries a value. It returns the name of that flag.
func checkOneSet(ctx *cli.Context, a, b string) (string, error) {
	aSet, bSet := ctx.String(a) != "", ctx.String(b) != ""

	switch {
	case aSet && bSet:
		return "", invalidRequest("either --%s or --%s should be "+
			"set, but not both", a, b)

	case aSet:
		return a, nil

	case bSet:
		return b, nil
	}

	return "", invalidRequest("missing seed, set --%s or --%s", a, b)
}

// parseNetwork returns the parameters of the network selected with
// --network.
func parseNetwork(ctx *cli.Context) (*netparams.Params, error) {
	name := ctx.String(networkFlag.Name)
	if name == "" {
		return nil, invalidRequest("--%s is required", networkFlag.Name)
	}

	params, err := netparams.ParamsForName(name)
	if err != nil {
		return nil, invalidRequest("%v", err)
	}

	return params, nil
}

func ufvkFromSeed(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return invalidRequest("unexpected arguments: %v", ctx.Args())
	}

	source, err := checkOneSet(ctx, "seed-file", "seed-base64")
	if err != nil {
		return err
	}

	params, err := parseNetwork(ctx)
	if err != nil {
		return err
	}

	account := ctx.Uint64("account")
	if account > math.MaxUint32 {
		return &junokeys.KeysError{
			Code: errorcodes.ErrCodeAccountInvalid,
			Err:  fmt.Errorf("account %d out of range", account),
		}
	}

	var seedB64 string
	switch source {
	case "seed-file":
		path := cleanAndExpandPath(ctx.String(source))
		seedB64, err = readSeedFile(path)
		if err != nil {
			return err
		}

	default:
		seedB64 = strings.TrimSpace(ctx.String(source))
	}

	ufvk, err := junokeys.UFVKFromSeedBase64(
		seedB64, params.UAHRP, params.CoinType, uint32(account),
	)
	if err != nil {
		return err
	}

	if jsonMode(ctx) {
		return printOK(ctx, ufvkResponse{
			UFVK:     ufvk,
			UAHRP:    params.UAHRP,
			CoinType: params.CoinType,
			Account:  uint32(account),
		})
	}

	fmt.Fprintln(ctx.App.Writer, ufvk)

	return nil
}

var decodeUFVKCommand = cli.Command{
	Name:      "decode",
	Usage:     "Check a unified full viewing key and describe it.",
	ArgsUsage: "ufvk",
	Description: `
	Decode a unified full viewing key of the selected network and print
	its prefix, item type code and key length. The key material itself is
	never printed.
	`,
	Flags: []cli.Flag{
		networkFlag,
	},
	Action:       actionDecorator(decodeUFVK),
	OnUsageError: onUsageError,
}

type decodeResponse struct {
	Network  string `json:"network"`
	HRP      string `json:"hrp"`
	TypeCode uint64 `json:"type_code"`
	Length   int    `json:"length"`
}

func decodeUFVK(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return invalidRequest("expected exactly one ufvk argument")
	}

	params, err := parseNetwork(ctx)
	if err != nil {
		return err
	}

	decoded, err := junokeys.DecodeUFVK(
		strings.TrimSpace(ctx.Args().First()), params.UAHRP,
	)
	if err != nil {
		return err
	}
	defer clear(decoded.FVK[:])

	resp := decodeResponse{
		Network:  params.Name,
		HRP:      decoded.HRP,
		TypeCode: decoded.TypeCode,
		Length:   len(decoded.FVK),
	}

	if jsonMode(ctx) {
		return printOK(ctx, resp)
	}

	fmt.Fprintf(ctx.App.Writer, "network=%s hrp=%s type_code=%d "+
		"length=%d\n", resp.Network, resp.HRP, resp.TypeCode,
		resp.Length)

	return nil
}
