package keychain

import (
	"errors"
	"fmt"
)

const (
	// ZIP32Purpose is the "purpose" value of the ZIP 32 shielded key
	// hierarchy. All keys are derived below it, then below the coin type
	// of the chain and the account.
	ZIP32Purpose = 32

	// HardenedKeyStart is the index of the first hardened child key.
	// Orchard derivation only supports hardened children.
	HardenedKeyStart = 0x80000000

	// OrchardFVKLen is the length of an encoded Orchard full viewing key:
	// ak, nk and rivk, 32 bytes each.
	OrchardFVKLen = 96
)

var (
	// ErrCoinTypeInvalid is returned for coin types that already carry the
	// hardened bit.
	ErrCoinTypeInvalid = errors.New("coin type invalid")

	// ErrAccountInvalid is returned for accounts that already carry the
	// hardened bit.
	ErrAccountInvalid = errors.New("account invalid")

	// ErrInvalidSpendingKey is returned when a derived spending key cannot
	// be used. This happens with negligible probability.
	ErrInvalidSpendingKey = errors.New("derived spending key is invalid")
)

// AccountLocator identifies an account below the ZIP 32 purpose. Version 0
// of the derivation uses the following path, with every level hardened:
//
//   - m/32'/coinType'/account'
type AccountLocator struct {
	// CoinType is the SLIP-44 coin type of the chain.
	CoinType uint32

	// Account is the index of the account.
	Account uint32
}

// Validate checks that both indexes can be hardened.
func (l AccountLocator) Validate() error {
	if l.CoinType >= HardenedKeyStart {
		return fmt.Errorf("%w: %d", ErrCoinTypeInvalid, l.CoinType)
	}
	if l.Account >= HardenedKeyStart {
		return fmt.Errorf("%w: %d", ErrAccountInvalid, l.Account)
	}

	return nil
}

// Path returns the hardened child indexes leading from the master key to the
// account key.
func (l AccountLocator) Path() []uint32 {
	return []uint32{
		ZIP32Purpose + HardenedKeyStart,
		l.CoinType + HardenedKeyStart,
		l.Account + HardenedKeyStart,
	}
}

// String returns the locator in the usual m/a'/b'/c' notation.
func (l AccountLocator) String() string {
	return fmt.Sprintf("m/%d'/%d'/%d'", ZIP32Purpose, l.CoinType, l.Account)
}

// Deriver is the interface used to turn a master seed into the raw bytes of
// an account's full viewing key. The result is opaque to the encoding layer.
type Deriver interface {
	// DeriveFullViewingKey derives the full viewing key of the account at
	// m/32'/coinType'/account' from seed.
	DeriveFullViewingKey(seed []byte, coinType,
		account uint32) ([OrchardFVKLen]byte, error)
}
