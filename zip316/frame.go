package zip316

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// MaxPayloadLen is the largest payload a single item may carry. It is
	// the largest length whose CompactSize form still fits in three bytes.
	MaxPayloadLen = 65535

	// PaddingLen is the size of the block appended to every framed
	// container. It holds the hrp, zero padded.
	PaddingLen = 16
)

// Item is a single typed entry of a unified container.
type Item struct {
	// TypeCode identifies how Payload is to be interpreted.
	TypeCode uint64

	// Payload is the opaque item body.
	Payload []byte
}

// Frame serializes items into the raw container form that is fed into the
// permutation. Items are written in ascending order of their type code,
// each of them in the following format:
//
//	[compactsize: type code]
//	[compactsize: length]
//	[length: payload]
//
// and the whole list is terminated by the hrp, zero padded to PaddingLen
// bytes. The passed slices are not retained.
func Frame(hrp string, items []Item) ([]byte, error) {
	if len(items) == 0 {
		return nil, ErrEmptyContainer
	}
	if len(hrp) > PaddingLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrHrpTooLong, len(hrp))
	}

	typeCodes := fn.Map(items, func(item Item) uint64 {
		return item.TypeCode
	})
	if fn.HasDuplicates(typeCodes) {
		return nil, ErrDuplicateTypeCode
	}

	size := uint64(PaddingLen)
	for _, item := range items {
		if len(item.Payload) > MaxPayloadLen {
			return nil, fmt.Errorf("%w: type %d has %d bytes",
				ErrPayloadTooLarge, item.TypeCode,
				len(item.Payload))
		}

		payloadLen := uint64(len(item.Payload))
		size += uint64(wire.VarIntSerializeSize(item.TypeCode)) +
			uint64(wire.VarIntSerializeSize(payloadLen)) +
			payloadLen
	}

	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b Item) int {
		return cmp.Compare(a.TypeCode, b.TypeCode)
	})

	w := bytes.NewBuffer(make([]byte, 0, size))
	for _, item := range sorted {
		err := wire.WriteVarInt(w, 0, item.TypeCode)
		if err != nil {
			return nil, err
		}
		err = wire.WriteVarInt(w, 0, uint64(len(item.Payload)))
		if err != nil {
			return nil, err
		}
		w.Write(item.Payload)
	}

	padding := paddingBlock(hrp)
	w.Write(padding[:])

	if uint64(w.Len()) != size {
		return nil, fmt.Errorf("%w: framed %d bytes, expected %d",
			ErrInternal, w.Len(), size)
	}

	return w.Bytes(), nil
}

// Unframe parses a raw container produced by Frame. The trailing padding
// block must match expectedHRP. Item type codes must be strictly
// increasing, and every returned payload is a fresh copy that does not
// alias buf.
func Unframe(buf []byte, expectedHRP string) ([]Item, error) {
	if len(expectedHRP) > PaddingLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrHrpTooLong,
			len(expectedHRP))
	}
	if len(buf) < PaddingLen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the "+
			"padding block", ErrMalformedContainer, len(buf))
	}

	body := buf[:len(buf)-PaddingLen]
	tail := buf[len(buf)-PaddingLen:]

	var (
		items    []Item
		nextMin  uint64
		overflow bool
	)
	r := bytes.NewReader(body)
	for r.Len() > 0 {
		// Non-minimal CompactSize encodings are rejected by wire.
		typeCode, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d type: %w",
				ErrMalformedContainer, len(items), err)
		}

		// Type codes must be strictly increasing.
		if overflow || (len(items) > 0 && typeCode < nextMin) {
			return nil, fmt.Errorf("%w: item %d type %d out of "+
				"order", ErrMalformedContainer, len(items),
				typeCode)
		}

		length, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d length: %w",
				ErrMalformedContainer, len(items), err)
		}
		if length > MaxPayloadLen || length > uint64(r.Len()) {
			return nil, fmt.Errorf("%w: item %d length %d overruns "+
				"container", ErrMalformedContainer, len(items),
				length)
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("%w: item %d payload: %w",
				ErrMalformedContainer, len(items), err)
		}

		items = append(items, Item{
			TypeCode: typeCode,
			Payload:  payload,
		})

		overflow = typeCode == ^uint64(0)
		nextMin = typeCode + 1
	}

	padding := paddingBlock(expectedHRP)
	if !bytes.Equal(tail, padding[:]) {
		return nil, ErrHrpMismatch
	}

	return items, nil
}

// paddingBlock returns hrp zero padded to PaddingLen bytes. The caller must
// ensure hrp fits.
func paddingBlock(hrp string) [PaddingLen]byte {
	var padding [PaddingLen]byte
	copy(padding[:], hrp)

	return padding
}
