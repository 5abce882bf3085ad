package zip316_test

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/junocash/juno-keys/zip316"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type compactSizeTest struct {
	Name   string
	Value  uint64
	Bytes  []byte
	ExpErr error
}

var writeCompactSizeTests = []compactSizeTest{
	{
		Name:  "zero",
		Value: 0x00,
		Bytes: []byte{0x00},
	},
	{
		Name:  "one byte high",
		Value: 0xfc,
		Bytes: []byte{0xfc},
	},
	{
		Name:  "two byte low",
		Value: 0xfd,
		Bytes: []byte{0xfd, 0xfd, 0x00},
	},
	{
		Name:  "two byte high",
		Value: 0xffff,
		Bytes: []byte{0xfd, 0xff, 0xff},
	},
	{
		Name:  "four byte low",
		Value: 0x10000,
		Bytes: []byte{0xfe, 0x00, 0x00, 0x01, 0x00},
	},
	{
		Name:  "four byte high",
		Value: 0xffffffff,
		Bytes: []byte{0xfe, 0xff, 0xff, 0xff, 0xff},
	},
	{
		Name:  "eight byte low",
		Value: 0x100000000,
		Bytes: []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00},
	},
	{
		Name:  "eight byte high",
		Value: math.MaxUint64,
		Bytes: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	},
}

// TestFrameTypeCodeEncoding asserts that type codes are framed in the
// CompactSize layout for every width.
func TestFrameTypeCodeEncoding(t *testing.T) {
	t.Parallel()

	for _, test := range writeCompactSizeTests {
		t.Run(test.Name, func(t *testing.T) {
			var w bytes.Buffer
			require.NoError(t, wire.WriteVarInt(&w, 0, test.Value))
			require.Equal(t, test.Bytes, w.Bytes())
			require.Len(
				t, test.Bytes, wire.VarIntSerializeSize(test.Value),
			)

			framed, err := zip316.Frame("jview", []zip316.Item{{
				TypeCode: test.Value,
				Payload:  []byte{0xaa},
			}})
			require.NoError(t, err)

			want := append(append([]byte{}, test.Bytes...), 0x01, 0xaa)
			want = append(want, padded("jview")...)
			require.Equal(t, want, framed)

			items, err := zip316.Unframe(framed, "jview")
			require.NoError(t, err)
			require.Len(t, items, 1)
			require.Equal(t, test.Value, items[0].TypeCode)
		})
	}
}

var readCompactSizeTests = []compactSizeTest{
	{
		Name:  "two byte not canonical",
		Bytes: []byte{0xfd, 0xfc, 0x00},
	},
	{
		Name:  "four byte not canonical",
		Bytes: []byte{0xfe, 0xff, 0xff, 0x00, 0x00},
	},
	{
		Name:  "eight byte not canonical",
		Bytes: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00},
	},
	{
		Name:   "two byte short read",
		Bytes:  []byte{0xfd, 0x00},
		ExpErr: io.ErrUnexpectedEOF,
	},
	{
		Name:   "four byte short read",
		Bytes:  []byte{0xfe, 0xff, 0xff},
		ExpErr: io.ErrUnexpectedEOF,
	},
	{
		Name:   "eight byte short read",
		Bytes:  []byte{0xff, 0xff, 0xff, 0xff, 0xff},
		ExpErr: io.ErrUnexpectedEOF,
	},
	{
		Name:   "two byte no read",
		Bytes:  []byte{0xfd},
		ExpErr: io.EOF,
	},
	{
		Name:   "four byte no read",
		Bytes:  []byte{0xfe},
		ExpErr: io.EOF,
	},
	{
		Name:   "eight byte no read",
		Bytes:  []byte{0xff},
		ExpErr: io.EOF,
	},
}

// TestUnframeBadTypeCode asserts that a type code that is truncated or not
// minimally encoded makes the whole container malformed. Non canonical forms
// surface the wire error; truncated ones the underlying io error, which is
// io.EOF when nothing follows the discriminant.
func TestUnframeBadTypeCode(t *testing.T) {
	t.Parallel()

	for _, test := range readCompactSizeTests {
		t.Run(test.Name, func(t *testing.T) {
			buf := append(
				append([]byte{}, test.Bytes...), padded("jview")...,
			)

			items, err := zip316.Unframe(buf, "jview")
			require.Nil(t, items)
			require.ErrorIs(t, err, zip316.ErrMalformedContainer)
			require.Equal(
				t, zip316.KindMalformed, zip316.Classify(err),
			)

			if test.ExpErr != nil {
				require.ErrorIs(t, err, test.ExpErr)
				return
			}

			var msgErr *wire.MessageError
			require.ErrorAs(t, err, &msgErr)
		})
	}
}

// TestUnframeNonCanonicalLength asserts that a payload length that is not
// minimally encoded is rejected as well.
func TestUnframeNonCanonicalLength(t *testing.T) {
	t.Parallel()

	buf := append([]byte{0x03, 0xfd, 0x01, 0x00, 0xaa}, padded("jview")...)

	_, err := zip316.Unframe(buf, "jview")
	require.ErrorIs(t, err, zip316.ErrMalformedContainer)

	var msgErr *wire.MessageError
	require.ErrorAs(t, err, &msgErr)
}

// TestFrameCompactSizeProperty checks that arbitrary type codes and payload
// lengths survive a frame round trip and are sized like wire does.
func TestFrameCompactSizeProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		typeCode := rapid.Uint64().Draw(t, "typeCode")
		payload := rapid.SliceOfN(rapid.Byte(), 0, 300).Draw(
			t, "payload",
		)

		framed, err := zip316.Frame("jview", []zip316.Item{{
			TypeCode: typeCode,
			Payload:  payload,
		}})
		require.NoError(t, err)

		wantLen := wire.VarIntSerializeSize(typeCode) +
			wire.VarIntSerializeSize(uint64(len(payload))) +
			len(payload) + zip316.PaddingLen
		require.Len(t, framed, wantLen)

		items, err := zip316.Unframe(framed, "jview")
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, typeCode, items[0].TypeCode)
		require.True(t, bytes.Equal(payload, items[0].Payload))
	})
}
