package zip316

import "errors"

var (
	// ErrEmptyContainer is returned when a container is framed without any
	// items.
	ErrEmptyContainer = errors.New("container must hold at least one item")

	// ErrDuplicateTypeCode is returned when two items of a container share
	// the same type code.
	ErrDuplicateTypeCode = errors.New("duplicate item type code")

	// ErrHrpTooLong is returned when the human-readable part does not fit
	// into the padding block.
	ErrHrpTooLong = errors.New("hrp longer than padding block")

	// ErrPayloadTooLarge is returned when an item payload exceeds
	// MaxPayloadLen.
	ErrPayloadTooLarge = errors.New("item payload too large")

	// ErrHrpMismatch is returned when a decoded container was encoded for a
	// different human-readable part than the one expected by the caller.
	ErrHrpMismatch = errors.New("hrp mismatch")

	// ErrMalformedContainer is returned when the framed item list cannot
	// be parsed.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrBufferTooShort is returned when the permutation input is shorter
	// than MinBufferLen.
	ErrBufferTooShort = errors.New("buffer too short for f4jumble")

	// ErrBufferTooLong is returned when the permutation input is longer
	// than MaxBufferLen.
	ErrBufferTooLong = errors.New("buffer too long for f4jumble")

	// ErrInvalidHrp is returned when a human-readable part is empty, too
	// long, mixed case or contains characters outside of printable ASCII.
	ErrInvalidHrp = errors.New("invalid hrp")

	// ErrEncodedTooLong is returned when an encoded string would exceed
	// MaxEncodedLen, or a string offered for decoding already does.
	ErrEncodedTooLong = errors.New("encoded string too long")

	// ErrChecksumInvalid is returned when the bech32m checksum of a string
	// does not verify.
	ErrChecksumInvalid = errors.New("invalid bech32m checksum")

	// ErrMixedCase is returned when a string mixes upper and lower case
	// characters.
	ErrMixedCase = errors.New("string is mixed case")

	// ErrInvalidCharacter is returned when a string is missing its
	// separator or carries characters outside of the bech32 alphabet.
	ErrInvalidCharacter = errors.New("invalid bech32 character")

	// ErrInvalidPadding is returned when the 5-bit to 8-bit regrouping
	// leaves non-zero or over-long padding.
	ErrInvalidPadding = errors.New("invalid bit padding")

	// ErrUnexpectedItemCount is returned by DecodeContainer when a
	// container does not hold exactly one item.
	ErrUnexpectedItemCount = errors.New("unexpected number of items")

	// ErrInternal signals a violated internal invariant. It is never the
	// result of bad caller input.
	ErrInternal = errors.New("internal codec error")
)

// ErrorKind groups the codec errors by who is at fault.
type ErrorKind uint8

const (
	// KindNone is reported for a nil error.
	KindNone ErrorKind = iota

	// KindInput is reported for errors caused by invalid arguments to an
	// encoding operation.
	KindInput

	// KindMalformed is reported for errors caused by a string or buffer
	// that could not be decoded.
	KindMalformed

	// KindInternal is reported for internal invariant violations and for
	// errors not produced by this package.
	KindInternal
)

// String returns a human readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInput:
		return "input"
	case KindMalformed:
		return "malformed"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

var (
	inputErrors = []error{
		ErrInvalidHrp, ErrHrpTooLong, ErrEmptyContainer,
		ErrDuplicateTypeCode, ErrPayloadTooLarge, ErrBufferTooShort,
		ErrBufferTooLong, ErrEncodedTooLong,
	}

	malformedErrors = []error{
		ErrChecksumInvalid, ErrMixedCase, ErrInvalidCharacter,
		ErrInvalidPadding, ErrMalformedContainer, ErrHrpMismatch,
		ErrUnexpectedItemCount,
	}
)

// Classify reports the kind of err. ErrInternal is checked first so that an
// invariant violation is never reported as an input problem.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	if errors.Is(err, ErrInternal) {
		return KindInternal
	}

	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return KindInput
		}
	}

	for _, target := range malformedErrors {
		if errors.Is(err, target) {
			return KindMalformed
		}
	}

	return KindInternal
}
