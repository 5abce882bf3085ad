package junokeys

import (
	"errors"
	"fmt"

	"github.com/junocash/juno-keys/errorcodes"
	"github.com/junocash/juno-keys/keychain"
	"github.com/junocash/juno-keys/netparams"
	"github.com/junocash/juno-keys/seed"
	"github.com/junocash/juno-keys/zip316"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// TypeCodeOrchard is the unified container type code of an Orchard full
// viewing key item.
const TypeCodeOrchard = 3

// KeysError is the error type returned by every exported function of the
// package. Code is one of the stable codes in the errorcodes package.
type KeysError struct {
	// Code is the stable, machine readable error code.
	Code string

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the code followed by the cause.
func (e *KeysError) Error() string {
	if e.Err == nil {
		return e.Code
	}

	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *KeysError) Unwrap() error {
	return e.Err
}

func newKeysError(code string, err error) *KeysError {
	return &KeysError{Code: code, Err: err}
}

// ErrorCode returns the stable code carried by err. Errors that did not
// originate from this package are reported as internal.
func ErrorCode(err error) string {
	var kerr *KeysError
	if errors.As(err, &kerr) {
		return kerr.Code
	}

	return errorcodes.ErrCodeInternal
}

// Config houses the optional collaborators of Keys.
type Config struct {
	// Deriver turns a seed into a full viewing key. The ZIP 32 Orchard
	// deriver is used if none is set.
	Deriver fn.Option[keychain.Deriver]
}

// Keys derives and decodes unified full viewing keys.
type Keys struct {
	deriver keychain.Deriver
}

// New creates a Keys instance from the given config. A nil config selects
// all defaults.
func New(cfg *Config) *Keys {
	if cfg == nil {
		cfg = &Config{}
	}

	var defaultDeriver keychain.Deriver = &keychain.OrchardDeriver{}

	return &Keys{
		deriver: cfg.Deriver.UnwrapOr(defaultDeriver),
	}
}

// defaultKeys backs the package level helpers.
var defaultKeys = New(nil)

// GenerateSeedBase64 returns a fresh random seed of n bytes in standard
// base64.
func GenerateSeedBase64(n int) (string, error) {
	s, err := seed.Generate(n)
	switch {
	case errors.Is(err, seed.ErrSeedInvalid):
		return "", newKeysError(errorcodes.ErrCodeSeedInvalid, err)

	case err != nil:
		return "", newKeysError(errorcodes.ErrCodeInternal, err)
	}
	defer seed.Zero(s)

	return seed.EncodeBase64(s), nil
}

// DecodeSeedBase64 parses a base64 seed. The caller should seed.Zero the
// result once done with it.
func DecodeSeedBase64(seedB64 string) ([]byte, error) {
	s, err := seed.DecodeBase64(seedB64)
	if err != nil {
		return nil, newKeysError(errorcodes.ErrCodeSeedInvalid, err)
	}

	return s, nil
}

// UFVKHRPFromUAHRP maps the unified address prefix of a network to the prefix
// of its unified full viewing keys.
func UFVKHRPFromUAHRP(uaHRP string) (string, error) {
	hrp, err := netparams.UFVKHRPFromUAHRP(uaHRP)
	if err != nil {
		return "", newKeysError(errorcodes.ErrCodeUAHRPInvalid, err)
	}

	return hrp, nil
}

// UFVKFromSeedBase64 derives the unified full viewing key of an account using
// the default Orchard deriver.
func UFVKFromSeedBase64(seedB64, uaHRP string, coinType,
	account uint32) (string, error) {

	return defaultKeys.UFVKFromSeedBase64(seedB64, uaHRP, coinType, account)
}

// UFVKFromSeedBase64 derives the Orchard full viewing key of the account at
// m/32'/coinType'/account' and encodes it as a unified full viewing key on
// the network identified by uaHRP.
func (k *Keys) UFVKFromSeedBase64(seedB64, uaHRP string, coinType,
	account uint32) (string, error) {

	if coinType >= keychain.HardenedKeyStart {
		return "", newKeysError(
			errorcodes.ErrCodeCoinTypeInvalid,
			fmt.Errorf("%w: %d", keychain.ErrCoinTypeInvalid,
				coinType),
		)
	}
	if account >= keychain.HardenedKeyStart {
		return "", newKeysError(
			errorcodes.ErrCodeAccountInvalid,
			fmt.Errorf("%w: %d", keychain.ErrAccountInvalid,
				account),
		)
	}

	ufvkHRP, err := UFVKHRPFromUAHRP(uaHRP)
	if err != nil {
		return "", err
	}

	s, err := DecodeSeedBase64(seedB64)
	if err != nil {
		return "", err
	}

	fvk, err := k.deriver.DeriveFullViewingKey(s, coinType, account)
	seed.Zero(s)
	if err != nil {
		return "", newKeysError(errorcodes.ErrCodeSeedInvalid, err)
	}
	defer clear(fvk[:])

	ufvk, err := zip316.EncodeContainer(ufvkHRP, TypeCodeOrchard, fvk[:])
	if err != nil {
		return "", newKeysError(errorcodes.ErrCodeInternal, err)
	}

	log.Debugf("Derived unified full viewing key for account %d, coin "+
		"type %d, hrp=%v", account, coinType, ufvkHRP)

	return ufvk, nil
}

// UFVK is a decoded Orchard-only unified full viewing key.
type UFVK struct {
	// HRP is the human-readable part the key was encoded under.
	HRP string

	// TypeCode is the type code of the single item.
	TypeCode uint64

	// FVK is the raw Orchard full viewing key.
	FVK [keychain.OrchardFVKLen]byte
}

// DecodeUFVK decodes an Orchard-only unified full viewing key encoded for the
// network identified by uaHRP.
func DecodeUFVK(ufvk, uaHRP string) (*UFVK, error) {
	ufvkHRP, err := UFVKHRPFromUAHRP(uaHRP)
	if err != nil {
		return nil, err
	}

	typeCode, payload, err := zip316.DecodeContainer(ufvk, ufvkHRP)
	if err != nil {
		code := errorcodes.ErrCodeUFVKInvalid
		if zip316.Classify(err) == zip316.KindInternal {
			code = errorcodes.ErrCodeInternal
		}

		return nil, newKeysError(code, err)
	}
	defer clear(payload)

	if typeCode != TypeCodeOrchard ||
		len(payload) != keychain.OrchardFVKLen {

		return nil, newKeysError(
			errorcodes.ErrCodeUFVKInvalid,
			fmt.Errorf("expected an orchard item of %d bytes, got "+
				"type %d of %d bytes", keychain.OrchardFVKLen,
				typeCode, len(payload)),
		)
	}

	decoded := &UFVK{
		HRP:      ufvkHRP,
		TypeCode: typeCode,
	}
	copy(decoded.FVK[:], payload)

	return decoded, nil
}
