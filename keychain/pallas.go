package keychain

import (
	"encoding/hex"
	"errors"
	"math/big"
	"slices"
)

// The Pallas curve y^2 = x^3 + 5 over the base field F_p. Its group of points
// has prime order q.
//
// NOTE: the arithmetic below uses math/big and is not constant time. It is
// only used for one-off viewing key derivation on the user's own machine.
var (
	pallasP = mustHexInt(
		"40000000000000000000000000000000224698fc094cf91b992d30ed00000001",
	)
	pallasQ = mustHexInt(
		"40000000000000000000000000000000224698fc0994a8dd8c46eb2100000001",
	)
	pallasB = big.NewInt(5)

	// spendAuthG is the Orchard spend authorization base point,
	// GroupHash("z.cash:Orchard", "G"), in compressed form.
	spendAuthG = mustDecodePoint(
		"63c975b884721a8d0ca1707be30c7f0c5f445f3e7c188d3b06d6f128b32355b7",
	)
)

var (
	errNotOnCurve      = errors.New("point is not on the pallas curve")
	errNonCanonicalEnc = errors.New("non canonical pallas point encoding")
)

// pallasPoint is a point in affine coordinates. The point at infinity is
// flagged rather than given coordinates.
type pallasPoint struct {
	x, y     *big.Int
	infinity bool
}

func pallasIdentity() pallasPoint {
	return pallasPoint{infinity: true}
}

// onCurve reports whether p satisfies the curve equation.
func (p pallasPoint) onCurve() bool {
	if p.infinity {
		return true
	}

	lhs := new(big.Int).Mul(p.y, p.y)
	lhs.Mod(lhs, pallasP)

	return lhs.Cmp(curveRHS(p.x)) == 0
}

// equal reports whether p and o are the same point.
func (p pallasPoint) equal(o pallasPoint) bool {
	if p.infinity || o.infinity {
		return p.infinity == o.infinity
	}

	return p.x.Cmp(o.x) == 0 && p.y.Cmp(o.y) == 0
}

// neg returns -p.
func (p pallasPoint) neg() pallasPoint {
	if p.infinity {
		return p
	}

	y := new(big.Int).Sub(pallasP, p.y)
	y.Mod(y, pallasP)

	return pallasPoint{x: new(big.Int).Set(p.x), y: y}
}

// double returns 2p.
func (p pallasPoint) double() pallasPoint {
	if p.infinity || p.y.Sign() == 0 {
		return pallasIdentity()
	}

	// lambda = 3x^2 / 2y
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, big.NewInt(3))
	den := new(big.Int).Lsh(p.y, 1)

	return p.chord(p, fieldDiv(num, den))
}

// add returns p + o.
func (p pallasPoint) add(o pallasPoint) pallasPoint {
	switch {
	case p.infinity:
		return o

	case o.infinity:
		return p

	case p.x.Cmp(o.x) == 0:
		if p.y.Cmp(o.y) == 0 {
			return p.double()
		}

		return pallasIdentity()
	}

	// lambda = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(o.y, p.y)
	den := new(big.Int).Sub(o.x, p.x)

	return p.chord(o, fieldDiv(num, den))
}

// chord completes an addition or doubling once the slope is known:
// x3 = lambda^2 - x1 - x2 and y3 = lambda(x1 - x3) - y1.
func (p pallasPoint) chord(o pallasPoint, lambda *big.Int) pallasPoint {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.x)
	x3.Sub(x3, o.x)
	x3.Mod(x3, pallasP)

	y3 := new(big.Int).Sub(p.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.y)
	y3.Mod(y3, pallasP)

	return pallasPoint{x: x3, y: y3}
}

// scalarMult returns [k]p using double-and-add.
func (p pallasPoint) scalarMult(k *big.Int) pallasPoint {
	result := pallasIdentity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		result = result.double()
		if k.Bit(i) == 1 {
			result = result.add(p)
		}
	}

	return result
}

// encode returns the 32-byte compressed form of p: x little-endian with the
// parity of y in the top bit. The identity encodes as all zeroes.
func (p pallasPoint) encode() [32]byte {
	var out [32]byte
	if p.infinity {
		return out
	}

	out = encodeFieldElement(p.x)
	out[31] |= byte(p.y.Bit(0)) << 7

	return out
}

// extract returns the x coordinate of p as a field element encoding, which is
// all zeroes for the identity.
func (p pallasPoint) extract() [32]byte {
	if p.infinity {
		return [32]byte{}
	}

	return encodeFieldElement(p.x)
}

// decodePallasPoint parses a compressed point.
func decodePallasPoint(enc [32]byte) (pallasPoint, error) {
	sign := uint(enc[31] >> 7)
	enc[31] &= 0x7f

	x := leBytesToInt(enc[:])
	if x.Cmp(pallasP) >= 0 {
		return pallasPoint{}, errNonCanonicalEnc
	}
	if x.Sign() == 0 && sign == 0 {
		return pallasIdentity(), nil
	}

	y := new(big.Int).ModSqrt(curveRHS(x), pallasP)
	if y == nil {
		return pallasPoint{}, errNotOnCurve
	}
	if y.Sign() == 0 && sign == 1 {
		return pallasPoint{}, errNonCanonicalEnc
	}
	if y.Bit(0) != sign {
		y.Sub(pallasP, y)
	}

	return pallasPoint{x: x, y: y}, nil
}

// curveRHS returns x^3 + 5 mod p.
func curveRHS(x *big.Int) *big.Int {
	rhs := new(big.Int).Exp(x, big.NewInt(3), pallasP)
	rhs.Add(rhs, pallasB)

	return rhs.Mod(rhs, pallasP)
}

// fieldDiv returns num / den mod p. The denominator must be non-zero.
func fieldDiv(num, den *big.Int) *big.Int {
	den = new(big.Int).Mod(den, pallasP)
	inv := new(big.Int).ModInverse(den, pallasP)

	out := new(big.Int).Mul(num, inv)
	return out.Mod(out, pallasP)
}

// leBytesToInt interprets b as a little-endian unsigned integer.
func leBytesToInt(b []byte) *big.Int {
	be := slices.Clone(b)
	slices.Reverse(be)

	return new(big.Int).SetBytes(be)
}

// encodeFieldElement returns the 32-byte little-endian encoding of a reduced
// field element or scalar.
func encodeFieldElement(v *big.Int) [32]byte {
	var out [32]byte
	v.FillBytes(out[:])
	slices.Reverse(out[:])

	return out
}

// toScalar reduces a 64-byte little-endian integer modulo q.
func toScalar(b []byte) *big.Int {
	v := leBytesToInt(b)
	return v.Mod(v, pallasQ)
}

// toBase reduces a 64-byte little-endian integer modulo p.
func toBase(b []byte) *big.Int {
	v := leBytesToInt(b)
	return v.Mod(v, pallasP)
}

func mustHexInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex integer " + s)
	}

	return v
}

func mustDecodePoint(s string) pallasPoint {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		panic("invalid point encoding " + s)
	}

	var enc [32]byte
	copy(enc[:], b)

	p, err := decodePallasPoint(enc)
	if err != nil {
		panic(err)
	}

	return p
}
