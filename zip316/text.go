package zip316

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	// MaxHRPLen is the longest human-readable part bech32 allows.
	MaxHRPLen = 83

	// MaxEncodedLen caps the length of encoded strings. Unified
	// containers are exempt from the 90 character bech32 limit, so a
	// generous bound is applied instead.
	MaxEncodedLen = 1 << 20

	// checksumLen is the number of checksum symbols appended by bech32m.
	checksumLen = 6
)

// EncodeText encodes data under hrp as a bech32m string. The hrp is
// validated and lower cased, and the data is regrouped into 5-bit symbols
// with zero padding.
func EncodeText(hrp string, data []byte) (string, error) {
	hrp, err := normalizeHRP(hrp)
	if err != nil {
		return "", err
	}

	data5, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: regroup: %w", ErrInternal, err)
	}

	encodedLen := len(hrp) + 1 + len(data5) + checksumLen
	if encodedLen > MaxEncodedLen {
		return "", fmt.Errorf("%w: %d characters", ErrEncodedTooLong,
			encodedLen)
	}

	s, err := bech32.EncodeM(hrp, data5)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %w", ErrInternal, err)
	}

	return s, nil
}

// DecodeText decodes a bech32m string and returns its lower case hrp and
// the 8-bit data it carries. Strings carrying a bech32 checksum rather than
// a bech32m one are rejected.
func DecodeText(s string) (string, []byte, error) {
	if len(s) > MaxEncodedLen {
		return "", nil, fmt.Errorf("%w: %d characters",
			ErrEncodedTooLong, len(s))
	}

	hrp, data5, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", nil, mapBech32Error(err)
	}

	if _, err := normalizeHRP(hrp); err != nil {
		return "", nil, err
	}

	// DecodeNoLimit accepts both checksum constants, so the bech32m one is
	// enforced by re-encoding.
	expected, err := bech32.EncodeM(hrp, data5)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidCharacter, err)
	}
	if expected != strings.ToLower(s) {
		return "", nil, fmt.Errorf("%w: not a bech32m checksum",
			ErrChecksumInvalid)
	}

	data, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidPadding, err)
	}

	return hrp, data, nil
}

// mapBech32Error translates the typed errors of the bech32 package into the
// codec's error values.
func mapBech32Error(err error) error {
	var (
		mixedCase       bech32.ErrMixedCase
		invalidChecksum bech32.ErrInvalidChecksum
	)
	switch {
	case errors.As(err, &mixedCase):
		return fmt.Errorf("%w: %w", ErrMixedCase, err)

	case errors.As(err, &invalidChecksum):
		return fmt.Errorf("%w: %w", ErrChecksumInvalid, err)

	default:
		return fmt.Errorf("%w: %w", ErrInvalidCharacter, err)
	}
}

// normalizeHRP checks that hrp is 1 to MaxHRPLen printable ASCII characters
// of a single case, and returns it lower cased.
func normalizeHRP(hrp string) (string, error) {
	if len(hrp) == 0 || len(hrp) > MaxHRPLen {
		return "", fmt.Errorf("%w: length %d", ErrInvalidHrp, len(hrp))
	}

	var hasLower, hasUpper bool
	for i := 0; i < len(hrp); i++ {
		c := hrp[i]
		if c < 33 || c > 126 {
			return "", fmt.Errorf("%w: character 0x%02x",
				ErrInvalidHrp, c)
		}

		hasLower = hasLower || (c >= 'a' && c <= 'z')
		hasUpper = hasUpper || (c >= 'A' && c <= 'Z')
	}
	if hasLower && hasUpper {
		return "", fmt.Errorf("%w: mixed case", ErrInvalidHrp)
	}

	return strings.ToLower(hrp), nil
}
