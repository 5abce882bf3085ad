package zip316

import (
	"fmt"
)

// EncodeContainer encodes a single item as a unified container string
// under hrp.
func EncodeContainer(hrp string, typeCode uint64, payload []byte) (string,
	error) {

	return EncodeItems(hrp, []Item{{
		TypeCode: typeCode,
		Payload:  payload,
	}})
}

// DecodeContainer decodes a unified container string that must have been
// encoded under expectedHRP and must hold exactly one item.
func DecodeContainer(s, expectedHRP string) (uint64, []byte, error) {
	items, err := DecodeItems(s, expectedHRP)
	if err != nil {
		return 0, nil, err
	}

	if len(items) != 1 {
		return 0, nil, fmt.Errorf("%w: want 1, got %d",
			ErrUnexpectedItemCount, len(items))
	}

	return items[0].TypeCode, items[0].Payload, nil
}

// EncodeItems frames items, permutes the framed bytes and encodes the result
// as a bech32m string under hrp. Intermediate buffers are zeroed before
// returning.
func EncodeItems(hrp string, items []Item) (string, error) {
	hrp, err := normalizeHRP(hrp)
	if err != nil {
		return "", err
	}

	framed, err := Frame(hrp, items)
	if err != nil {
		return "", err
	}
	defer clear(framed)

	permuted, err := Permute(framed)
	if err != nil {
		return "", err
	}
	defer clear(permuted)

	s, err := EncodeText(hrp, permuted)
	if err != nil {
		return "", err
	}

	log.Debugf("Encoded %d item(s) under hrp=%v into %d characters",
		len(items), hrp, len(s))

	return s, nil
}

// DecodeItems reverses EncodeItems. The string must carry expectedHRP,
// compared case-insensitively, and at least one item. Items are returned in
// ascending order of type code.
func DecodeItems(s, expectedHRP string) ([]Item, error) {
	expectedHRP, err := normalizeHRP(expectedHRP)
	if err != nil {
		return nil, err
	}
	if len(expectedHRP) > PaddingLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrHrpTooLong,
			len(expectedHRP))
	}

	hrp, permuted, err := DecodeText(s)
	if err != nil {
		return nil, err
	}
	defer clear(permuted)

	if hrp != expectedHRP {
		return nil, fmt.Errorf("%w: got %v, want %v", ErrHrpMismatch,
			hrp, expectedHRP)
	}

	// Anything shorter cannot hold the padding block, and would otherwise
	// surface as a permutation length error.
	if len(permuted) < PaddingLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedContainer,
			len(permuted))
	}

	framed, err := Invert(permuted)
	if err != nil {
		return nil, err
	}
	defer clear(framed)

	items, err := Unframe(framed, expectedHRP)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: container is empty",
			ErrUnexpectedItemCount)
	}

	log.Tracef("Decoded %d item(s) under hrp=%v", len(items), hrp)

	return items, nil
}
