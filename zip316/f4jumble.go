package zip316

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/minio/blake2b-simd"
)

const (
	// MinBufferLen is the shortest buffer the permutation accepts. Both
	// halves must hold at least one byte.
	MinBufferLen = 2

	// MaxBufferLen is the longest buffer the permutation accepts, bounded
	// by the 16-bit block counter of the G round function.
	MaxBufferLen = blake2b.Size * (1<<16 + 1)
)

var (
	// hPersonal and gPersonal are the personalization prefixes of the H
	// and G round functions. The remaining three bytes hold the round
	// index and, for G, the little-endian block counter.
	hPersonal = []byte("UA_F4Jumble_H")
	gPersonal = []byte("UA_F4Jumble_G")
)

// Permute applies the four round F4Jumble permutation to buf and returns
// the result in a new slice. The input is left untouched.
func Permute(buf []byte) ([]byte, error) {
	if err := checkBufferLen(len(buf)); err != nil {
		return nil, err
	}

	out := slices.Clone(buf)
	left, right := split(out)

	rounds := []func() error{
		func() error { return gRound(0, left, right) },
		func() error { return hRound(0, right, left) },
		func() error { return gRound(1, left, right) },
		func() error { return hRound(1, right, left) },
	}
	for _, round := range rounds {
		if err := round(); err != nil {
			clear(out)
			return nil, err
		}
	}

	return out, nil
}

// Invert undoes Permute. It returns the original buffer in a new slice.
func Invert(buf []byte) ([]byte, error) {
	if err := checkBufferLen(len(buf)); err != nil {
		return nil, err
	}

	out := slices.Clone(buf)
	left, right := split(out)

	rounds := []func() error{
		func() error { return hRound(1, right, left) },
		func() error { return gRound(1, left, right) },
		func() error { return hRound(0, right, left) },
		func() error { return gRound(0, left, right) },
	}
	for _, round := range rounds {
		if err := round(); err != nil {
			clear(out)
			return nil, err
		}
	}

	return out, nil
}

// checkBufferLen enforces the permutation's length bounds.
func checkBufferLen(n int) error {
	switch {
	case n < MinBufferLen:
		return fmt.Errorf("%w: %d bytes", ErrBufferTooShort, n)

	case n > MaxBufferLen:
		return fmt.Errorf("%w: %d bytes", ErrBufferTooLong, n)
	}

	return nil
}

// split divides buf into the short left half of min(64, n/2) bytes and the
// long right half holding the rest. Both halves alias buf.
func split(buf []byte) ([]byte, []byte) {
	leftLen := min(blake2b.Size, len(buf)/2)

	return buf[:leftLen], buf[leftLen:]
}

// hRound xors H_i(src) into dst. The digest length equals len(dst), which
// binds the total buffer length into the hash.
func hRound(i byte, src, dst []byte) error {
	person := make([]byte, 0, blake2b.PersonSize)
	person = append(person, hPersonal...)
	person = append(person, i, 0, 0)

	h, err := blake2b.New(&blake2b.Config{
		Size:   uint8(len(dst)),
		Person: person,
	})
	if err != nil {
		return fmt.Errorf("%w: h round: %w", ErrInternal, err)
	}
	h.Write(src)

	xorInto(dst, h.Sum(nil))

	return nil
}

// gRound xors G_i(src) into dst. G_i is the concatenation of BLAKE2b-512
// digests over a little-endian block counter, truncated to len(dst).
func gRound(i byte, src, dst []byte) error {
	blocks := (len(dst) + blake2b.Size - 1) / blake2b.Size

	person := make([]byte, blake2b.PersonSize)
	copy(person, gPersonal)
	person[len(gPersonal)] = i

	for j := 0; j < blocks; j++ {
		binary.LittleEndian.PutUint16(
			person[len(gPersonal)+1:], uint16(j),
		)

		h, err := blake2b.New(&blake2b.Config{
			Size:   blake2b.Size,
			Person: person,
		})
		if err != nil {
			return fmt.Errorf("%w: g round: %w", ErrInternal, err)
		}
		h.Write(src)

		start := j * blake2b.Size
		end := min(start+blake2b.Size, len(dst))
		xorInto(dst[start:end], h.Sum(nil))
	}

	return nil
}

// xorInto xors src into dst. Only the first len(dst) bytes of src are used.
func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
