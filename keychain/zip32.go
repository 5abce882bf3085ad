package keychain

import (
	"encoding/binary"
	"fmt"

	"github.com/junocash/juno-keys/seed"
	"github.com/minio/blake2b-simd"
)

var (
	// orchardMasterPersonal personalizes the hash that turns a seed into
	// the Orchard master key.
	orchardMasterPersonal = []byte("ZcashIP32Orchard")

	// expandSeedPersonal personalizes PRF^expand.
	expandSeedPersonal = []byte("Zcash_ExpandSeed")
)

const (
	// childDomain is the PRF^expand domain byte of Orchard hardened
	// child derivation.
	childDomain = 0x81

	// keyLen is the length of a spending key and of a chain code.
	keyLen = 32
)

// ExtendedSpendingKey is an Orchard spending key together with the chain
// code needed to derive its children.
type ExtendedSpendingKey struct {
	// Key is the 32-byte Orchard spending key.
	Key [keyLen]byte

	// ChainCode is the 32-byte ZIP 32 chain code.
	ChainCode [keyLen]byte
}

// NewMasterKey derives the Orchard master extended spending key from seed.
func NewMasterKey(s []byte) (*ExtendedSpendingKey, error) {
	if err := seed.CheckLen(len(s)); err != nil {
		return nil, err
	}

	h, err := blake2b.New(&blake2b.Config{
		Size:   blake2b.Size,
		Person: orchardMasterPersonal,
	})
	if err != nil {
		return nil, err
	}
	h.Write(s)

	return splitDigest(h.Sum(nil)), nil
}

// Child derives the hardened child at index. Index must carry the hardened
// bit.
func (k *ExtendedSpendingKey) Child(index uint32) (*ExtendedSpendingKey,
	error) {

	if index < HardenedKeyStart {
		return nil, fmt.Errorf("orchard only supports hardened "+
			"derivation, got index %d", index)
	}

	var indexBytes [4]byte
	binary.LittleEndian.PutUint32(indexBytes[:], index)

	digest, err := prfExpand(
		k.ChainCode[:], []byte{childDomain}, k.Key[:], indexBytes[:],
	)
	if err != nil {
		return nil, err
	}
	defer clear(digest[:])

	return splitDigest(digest[:]), nil
}

// DerivePath walks the given hardened child indexes starting at k.
// Intermediate keys are zeroed.
func (k *ExtendedSpendingKey) DerivePath(path []uint32) (
	*ExtendedSpendingKey, error) {

	current := k
	for _, index := range path {
		next, err := current.Child(index)
		if current != k {
			current.Zero()
		}
		if err != nil {
			return nil, err
		}

		current = next
	}

	return current, nil
}

// Zero scrubs the key material.
func (k *ExtendedSpendingKey) Zero() {
	clear(k.Key[:])
	clear(k.ChainCode[:])
}

// splitDigest turns a 64-byte digest into an extended key, then zeroes the
// digest.
func splitDigest(digest []byte) *ExtendedSpendingKey {
	var key ExtendedSpendingKey
	copy(key.Key[:], digest[:keyLen])
	copy(key.ChainCode[:], digest[keyLen:])
	clear(digest)

	return &key
}

// prfExpand computes PRF^expand(key, t) = BLAKE2b-512 personalized with
// "Zcash_ExpandSeed" over key || t.
func prfExpand(key []byte, t ...[]byte) ([blake2b.Size]byte, error) {
	var out [blake2b.Size]byte

	h, err := blake2b.New(&blake2b.Config{
		Size:   blake2b.Size,
		Person: expandSeedPersonal,
	})
	if err != nil {
		return out, err
	}

	h.Write(key)
	for _, part := range t {
		h.Write(part)
	}
	copy(out[:], h.Sum(nil))

	return out, nil
}
