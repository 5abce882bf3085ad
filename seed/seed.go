package seed

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	// MinLen is the shortest seed ZIP 32 master key generation accepts.
	MinLen = 32

	// MaxLen is the longest seed ZIP 32 master key generation accepts.
	MaxLen = 252

	// DefaultLen is the seed length used when the caller does not pick
	// one.
	DefaultLen = 64
)

// ErrSeedInvalid is returned for seeds of the wrong length or encoding.
var ErrSeedInvalid = errors.New("seed invalid")

// CheckLen returns ErrSeedInvalid if n is not an acceptable seed length.
func CheckLen(n int) error {
	if n < MinLen || n > MaxLen {
		return fmt.Errorf("%w: length %d outside of [%d, %d]",
			ErrSeedInvalid, n, MinLen, MaxLen)
	}

	return nil
}

// Generate returns n bytes read from the operating system's CSPRNG.
func Generate(n int) ([]byte, error) {
	if err := CheckLen(n); err != nil {
		return nil, err
	}

	seed := make([]byte, n)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("unable to read random seed: %w", err)
	}

	return seed, nil
}

// EncodeBase64 returns the standard, padded base64 form of seed.
func EncodeBase64(seed []byte) string {
	return base64.StdEncoding.EncodeToString(seed)
}

// DecodeBase64 parses a standard base64 seed, ignoring surrounding
// whitespace, and checks its length. The caller owns the returned slice and
// should Zero it once done.
func DecodeBase64(s string) ([]byte, error) {
	seed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeedInvalid, err)
	}

	if err := CheckLen(len(seed)); err != nil {
		Zero(seed)
		return nil, err
	}

	return seed, nil
}

// Zero overwrites b with zeroes.
func Zero(b []byte) {
	clear(b)
}
