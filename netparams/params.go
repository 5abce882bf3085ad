package netparams

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ufvkPrefix replaces the leading "j" of a unified address prefix to
	// form the unified full viewing key prefix of the same network.
	ufvkPrefix = "jview"

	// uaPrefix is the leading character every Juno unified address prefix
	// starts with.
	uaPrefix = "j"
)

// ErrInvalidUAHRP is returned when a unified address prefix cannot be turned
// into a viewing key prefix.
var ErrInvalidUAHRP = errors.New("invalid unified address hrp")

// Params couples a network name with the unified address prefix and SLIP-44
// coin type used on it.
type Params struct {
	// Name is the identifier used on the command line.
	Name string

	// UAHRP is the human-readable part of unified addresses.
	UAHRP string

	// CoinType is the ZIP 32 coin type of the network.
	CoinType uint32
}

// UFVKHRP returns the human-readable part of unified full viewing keys on the
// network.
func (p *Params) UFVKHRP() string {
	hrp, err := UFVKHRPFromUAHRP(p.UAHRP)
	if err != nil {
		// All defined networks carry a well formed prefix.
		panic(err)
	}

	return hrp
}

// MainNetParams contains the parameters of the Juno Cash main network.
var MainNetParams = Params{
	Name:     "mainnet",
	UAHRP:    "j",
	CoinType: 8133,
}

// TestNetParams contains the parameters of the Juno Cash test network.
var TestNetParams = Params{
	Name:     "testnet",
	UAHRP:    "jtest",
	CoinType: 8134,
}

// RegTestParams contains the parameters of a local regression test network.
var RegTestParams = Params{
	Name:     "regtest",
	UAHRP:    "jregtest",
	CoinType: 8135,
}

// registeredNets lists every network in display order.
var registeredNets = []*Params{
	&MainNetParams, &TestNetParams, &RegTestParams,
}

// Names returns the names of all known networks.
func Names() []string {
	names := make([]string, 0, len(registeredNets))
	for _, params := range registeredNets {
		names = append(names, params.Name)
	}

	return names
}

// ParamsForName returns the parameters of the named network. Lookup is case
// insensitive and ignores surrounding whitespace.
func ParamsForName(name string) (*Params, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, params := range registeredNets {
		if params.Name == name {
			return params, nil
		}
	}

	return nil, fmt.Errorf("unknown network %q, expected one of %v", name,
		Names())
}

// UFVKHRPFromUAHRP derives the viewing key prefix from a unified address
// prefix: "j" becomes "jview" and "j<suffix>" becomes "jview<suffix>".
// Surrounding whitespace is ignored.
func UFVKHRPFromUAHRP(uaHRP string) (string, error) {
	hrp := strings.TrimSpace(uaHRP)
	if hrp == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidUAHRP)
	}

	suffix, ok := strings.CutPrefix(hrp, uaPrefix)
	if !ok {
		return "", fmt.Errorf("%w: %q does not start with %q",
			ErrInvalidUAHRP, hrp, uaPrefix)
	}

	return ufvkPrefix + suffix, nil
}
