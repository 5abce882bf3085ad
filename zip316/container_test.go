package zip316_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/junocash/juno-keys/zip316"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	// scenarioUFVK is the encoding of a single type 3 item holding 96 bytes
	// of 0x11 under the "jview" prefix.
	scenarioUFVK = "jview1fvhxr2teawye8ghk44ev4pkmkmtvrrdf4e859xghtuz8ww02v" +
		"l7dpl7ll3un7vtyy54z90cch49xlpvx794exvldecgjyt3p3xspkc7923cvg" +
		"ag2n07tqatm07vtqsyp9tcwg3ll8yqhl3x3yp4lcx8jzqak0anzg6f87up2z" +
		"vv5czt300tumvgaexrm9"

	bech32Alphabet = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
)

// TestContainerScenario round trips a 96 byte viewing key and checks that it
// cannot be decoded under another network's prefix.
func TestContainerScenario(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x11}, 96)

	s, err := zip316.EncodeContainer("jview", 3, payload)
	require.NoError(t, err)
	require.Equal(t, scenarioUFVK, s)

	typeCode, decoded, err := zip316.DecodeContainer(s, "jview")
	require.NoError(t, err)
	require.EqualValues(t, 3, typeCode)
	require.Equal(t, payload, decoded)

	_, _, err = zip316.DecodeContainer(s, "jviewtest")
	require.ErrorIs(t, err, zip316.ErrHrpMismatch)
	require.Equal(t, zip316.KindMalformed, zip316.Classify(err))

	// The expected prefix is compared case-insensitively, and an upper
	// case string is as good as a lower case one.
	_, decoded, err = zip316.DecodeContainer(
		strings.ToUpper(s), "JVIEW",
	)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

// ufvkVectors are published unified full viewing keys. They use the "uview"
// prefix and carry transparent (0), Orchard (3) and unknown items.
var ufvkVectors = []struct {
	name    string
	items   []zip316.Item
	encoded string
}{
	{
		name: "transparent orchard unknown",
		items: []zip316.Item{
			{TypeCode: 0, Payload: hexBytes(
				"9ba0439c6a2d3d903883d4537c362288626da62c6299" +
					"012e362d8fb6efebab4702ed638532c475f6" +
					"7400350fb1d6eda559cdc289a19b4319eb17" +
					"5140aa86893836",
			)},
			{TypeCode: 3, Payload: hexBytes(
				"7648764a4567b7165410bc313f922b72fa34153dcad1" +
					"12a3971620240ffbf30d7f19edb9f295cdf1" +
					"60be1863b41c96312daf7273ba01198f5066" +
					"f28629b56f17e4ab726579eea0fb19ab5ae2" +
					"b8889ce455c79c5959bfda796823ee805c79" +
					"4814",
			)},
			{TypeCode: 65533, Payload: hexBytes(
				"f6ee6921481cdd86b3cc4318d9614fc820905d042bb1" +
					"ef9ca3f24988c7b3534201cfb1cd8dbf69b8" +
					"250c18ef41294ca97993db546c1fe0",
			)},
		},
		encoded: "uview1cgrqnry478ckvpr0f580t6fsahp0a5mj2e9xl7hv2d2jd4l" +
			"dzy449mwwk2l9yeuts85wjls6hjtghdsy5vhhvmjdw3jxl3cxhrg3vs2" +
			"96a3czazrycrr5cywjhwc5c3ztfyjdhmz0exvzzeyejamyp0cr9z8f9w" +
			"j0953fzht0m4lenk94t70ruwgjxag2tvp63wn9ftzhtkh20gyre3w5s2" +
			"4f6wlgqxnjh40gd2lxe75sf3z8h5y2x0atpxcyf9t3em4h0evvsftlur" +
			"uqne6w4sm066sw0qe5y8qg423grple5fftxrqyy7xmqmatv7nzd7tcja" +
			"du8f7mqz4l83jsyxy4t8pkayytyk7nrp467ds85knekdkvnd7hqkfer8" +
			"mnqd7pv",
	},
	{
		name: "orchard only",
		items: []zip316.Item{
			{TypeCode: 3, Payload: hexBytes(
				"dd7a56b35e69c4ad129df5aa0d3f087d4bcfc9090978" +
					"b511c18cd39ce83a402c2fe1828d9d1f3a5f" +
					"71e7ad056aa8e60e6f3fe4eabd258abe3c33" +
					"16fb098d9115261c9a4499c984cd6a62e70c" +
					"24967f1650d7c4354d60a8c4671a5c3a4d67" +
					"380e",
			)},
		},
		encoded: "uview18nq2gepps6tpwl9cagzljngkt334p53akqwkde2nh54xgpt" +
			"f3ccd4tyeh3glek9pmvk6axxks8yl9h75pquntlm9g9f7arhfr63n690" +
			"7tnfaxs70nw4pu88fxsn3n8awp29cju7r4h5vvv25espnnny3sdkt69h" +
			"gdgqehkalxwzegur8tz70jzc2ws2rk",
	},
}

func hexBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}

	return b
}

// TestContainerVectors checks EncodeItems and DecodeItems against published
// unified viewing keys.
func TestContainerVectors(t *testing.T) {
	t.Parallel()

	for _, test := range ufvkVectors {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			s, err := zip316.EncodeItems("uview", test.items)
			require.NoError(t, err)
			require.Equal(t, test.encoded, s)

			items, err := zip316.DecodeItems(test.encoded, "uview")
			require.NoError(t, err)
			require.Equal(t, test.items, items)
		})
	}

	// A container with several items is not a single item container.
	_, _, err := zip316.DecodeContainer(ufvkVectors[0].encoded, "uview")
	require.ErrorIs(t, err, zip316.ErrUnexpectedItemCount)

	typeCode, payload, err := zip316.DecodeContainer(
		ufvkVectors[1].encoded, "uview",
	)
	require.NoError(t, err)
	require.EqualValues(t, 3, typeCode)
	require.Equal(t, ufvkVectors[1].items[0].Payload, payload)
}

// TestContainerChecksumSensitivity substitutes every character of a valid
// string with every other character of the same class and expects the
// checksum to catch it.
func TestContainerChecksumSensitivity(t *testing.T) {
	t.Parallel()

	sep := strings.LastIndexByte(scenarioUFVK, '1')
	require.Positive(t, sep)

	for i := 0; i < len(scenarioUFVK); i++ {
		if i == sep {
			continue
		}

		// Prefix characters are swapped for other lower case letters,
		// data characters for other alphabet symbols.
		candidates := bech32Alphabet
		if i < sep {
			candidates = "abcdefghijklmnopqrstuvwxyz"
		}

		for j := 0; j < len(candidates); j++ {
			c := candidates[j]
			if c == scenarioUFVK[i] {
				continue
			}

			mutated := scenarioUFVK[:i] + string(c) +
				scenarioUFVK[i+1:]

			_, _, err := zip316.DecodeContainer(mutated, "jview")
			require.ErrorIs(
				t, err, zip316.ErrChecksumInvalid,
				"position %d, symbol %c", i, c,
			)
		}
	}
}

// TestContainerForeignSymbols substitutes characters of a valid string with
// symbols outside the data alphabet and with their other case. Neither is a
// checksum failure, but both must be rejected as malformed.
func TestContainerForeignSymbols(t *testing.T) {
	t.Parallel()

	sep := strings.LastIndexByte(scenarioUFVK, '1')
	require.Positive(t, sep)

	for i := 0; i < len(scenarioUFVK); i++ {
		if i == sep {
			continue
		}

		var mutations []string

		// b, i and o are excluded from the data alphabet.
		if i > sep {
			for _, c := range "bio" {
				mutated := scenarioUFVK[:i] + string(c) +
					scenarioUFVK[i+1:]
				mutations = append(mutations, mutated)
			}

			for _, mutated := range mutations {
				_, _, err := zip316.DecodeContainer(
					mutated, "jview",
				)
				require.ErrorIs(
					t, err, zip316.ErrInvalidCharacter,
					"position %d", i,
				)
			}
		}

		flipped := strings.ToUpper(scenarioUFVK[i : i+1])
		if flipped != scenarioUFVK[i:i+1] {
			mutated := scenarioUFVK[:i] + flipped +
				scenarioUFVK[i+1:]

			_, _, err := zip316.DecodeContainer(mutated, "jview")
			require.ErrorIs(
				t, err, zip316.ErrMixedCase, "position %d", i,
			)
			mutations = append(mutations, mutated)
		}

		for _, mutated := range mutations {
			_, _, err := zip316.DecodeContainer(mutated, "jview")
			require.Equal(
				t, zip316.KindMalformed, zip316.Classify(err),
				"position %d: %v", i, err,
			)
		}
	}
}

// TestContainerPayloadBoundary checks the largest payload an item may carry.
func TestContainerPayloadBoundary(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x5a}, zip316.MaxPayloadLen)

	s, err := zip316.EncodeContainer("jview", 3, payload)
	require.NoError(t, err)

	typeCode, decoded, err := zip316.DecodeContainer(s, "jview")
	require.NoError(t, err)
	require.EqualValues(t, 3, typeCode)
	require.Equal(t, payload, decoded)

	_, err = zip316.EncodeContainer(
		"jview", 3, append(payload, 0x5a),
	)
	require.ErrorIs(t, err, zip316.ErrPayloadTooLarge)
	require.Equal(t, zip316.KindInput, zip316.Classify(err))
}

// TestContainerEncodeErrors asserts the caller errors of EncodeContainer.
func TestContainerEncodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		hrp    string
		expErr error
	}{
		{
			name:   "empty hrp",
			hrp:    "",
			expErr: zip316.ErrInvalidHrp,
		},
		{
			name:   "mixed case hrp",
			hrp:    "jView",
			expErr: zip316.ErrInvalidHrp,
		},
		{
			name:   "hrp longer than padding",
			hrp:    "jviewregtestextra",
			expErr: zip316.ErrHrpTooLong,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, err := zip316.EncodeContainer(test.hrp, 3, []byte{1})
			require.ErrorIs(t, err, test.expErr)
			require.Empty(t, s)
		})
	}

	_, err := zip316.EncodeItems("jview", nil)
	require.ErrorIs(t, err, zip316.ErrEmptyContainer)

	_, err = zip316.EncodeItems("jview", []zip316.Item{
		{TypeCode: 3, Payload: []byte{1}},
		{TypeCode: 3, Payload: []byte{2}},
	})
	require.ErrorIs(t, err, zip316.ErrDuplicateTypeCode)
}

// TestContainerDecodeShortData checks that a well formed bech32m string
// whose data cannot hold a container is reported as malformed.
func TestContainerDecodeShortData(t *testing.T) {
	t.Parallel()

	s, err := zip316.EncodeText("jview", []byte{1, 2, 3})
	require.NoError(t, err)

	_, _, err = zip316.DecodeContainer(s, "jview")
	require.ErrorIs(t, err, zip316.ErrMalformedContainer)

	// A string whose data inverts to padding only holds no items.
	empty, err := zip316.Permute(padded("jview"))
	require.NoError(t, err)

	s, err = zip316.EncodeText("jview", empty)
	require.NoError(t, err)

	_, err = zip316.DecodeItems(s, "jview")
	require.ErrorIs(t, err, zip316.ErrUnexpectedItemCount)
}

var prefixes = []string{"jview", "jviewtest", "jviewregtest", "uview"}

// TestContainerRoundTripProperty checks that any valid set of items survives
// encoding and decoding, and that encoding is deterministic.
func TestContainerRoundTripProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		hrp := rapid.SampledFrom(prefixes).Draw(t, "hrp")
		typeCodes := rapid.SliceOfNDistinct(
			rapid.Uint64(), 1, 4, rapid.ID[uint64],
		).Draw(t, "typeCodes")

		items := make([]zip316.Item, len(typeCodes))
		for i, typeCode := range typeCodes {
			items[i] = zip316.Item{
				TypeCode: typeCode,
				Payload: rapid.SliceOfN(
					rapid.Byte(), 0, 300,
				).Draw(t, "payload"),
			}
		}

		s, err := zip316.EncodeItems(hrp, items)
		require.NoError(t, err)

		again, err := zip316.EncodeItems(hrp, items)
		require.NoError(t, err)
		require.Equal(t, s, again)

		decoded, err := zip316.DecodeItems(s, hrp)
		require.NoError(t, err)
		require.Len(t, decoded, len(items))

		for i := 1; i < len(decoded); i++ {
			require.Less(t, decoded[i-1].TypeCode, decoded[i].TypeCode)
		}
		for _, item := range items {
			var found bool
			for _, got := range decoded {
				if got.TypeCode != item.TypeCode {
					continue
				}

				found = true
				require.Equal(
					t, len(item.Payload), len(got.Payload),
				)
				require.True(
					t, bytes.Equal(item.Payload, got.Payload),
				)
			}
			require.True(t, found)
		}
	})
}

// TestContainerHrpIsolation checks that a string never decodes under a
// prefix other than the one it was encoded with.
func TestContainerHrpIsolation(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		encodeHRP := rapid.SampledFrom(prefixes).Draw(t, "encodeHRP")
		decodeHRP := rapid.SampledFrom(prefixes).Filter(
			func(hrp string) bool {
				return hrp != encodeHRP
			},
		).Draw(t, "decodeHRP")

		payload := rapid.SliceOfN(rapid.Byte(), 0, 200).Draw(
			t, "payload",
		)
		typeCode := rapid.Uint64().Draw(t, "typeCode")

		s, err := zip316.EncodeContainer(encodeHRP, typeCode, payload)
		require.NoError(t, err)

		_, _, err = zip316.DecodeContainer(s, decodeHRP)
		require.ErrorIs(t, err, zip316.ErrHrpMismatch)

		gotType, gotPayload, err := zip316.DecodeContainer(s, encodeHRP)
		require.NoError(t, err)
		require.Equal(t, typeCode, gotType)
		require.True(t, bytes.Equal(payload, gotPayload))
	})
}
