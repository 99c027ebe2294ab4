package sapling

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
)

// Point is an affine Jubjub point (u, v).
type Point = twistededwards.PointAffine

var (
	jubjub = twistededwards.GetEdwardsCurve()

	// jubjubOrder is r_J, the order of the prime-order subgroup.
	jubjubOrder = new(big.Int).Set(&jubjub.Order)

	jubjubCofactor = big.NewInt(8)

	// urs is the uniform random string prefixed to every group hash
	// input.
	urs = []byte("096b36a5804bfacef1691e173c366a47ff5ba84a44f26ddd7e8d9f79d5b42df0")
)

var (
	// spendingKeyGenerator is G, with ak = [ask] G.
	spendingKeyGenerator = mustFindGroupHash(spendingKeyGenPersonalization, nil)

	// proofGenerationKeyGenerator is H, with nk = [nsk] H.
	proofGenerationKeyGenerator = mustFindGroupHash(proofGenKeyGenPersonalization, nil)
)

func parity(e *fr.Element) byte {
	b := e.Bytes()
	return b[len(b)-1] & 1
}

// reprJ encodes p as the little-endian v coordinate with the parity of u
// in the top bit.
func reprJ(p *Point) [32]byte {
	var out [32]byte
	fr.LittleEndian.PutElement(&out, p.Y)
	out[31] |= parity(&p.X) << 7
	return out
}

// abstJ decodes a point encoded by reprJ.  It returns false for
// non-canonical encodings and for values that are not on the curve.
func abstJ(b [32]byte) (*Point, bool) {
	sign := b[31] >> 7
	b[31] &= 0x7f

	v, err := fr.LittleEndian.Element(&b)
	if err != nil {
		return nil, false
	}

	// u^2 = (1 - v^2) / (a - d*v^2)
	var vv, num, den, uu, u fr.Element
	vv.Square(&v)
	num.SetOne()
	num.Sub(&num, &vv)
	den.Mul(&jubjub.D, &vv)
	den.Sub(&jubjub.A, &den)
	if den.IsZero() {
		return nil, false
	}
	uu.Div(&num, &den)
	if u.Sqrt(&uu) == nil {
		return nil, false
	}
	if u.IsZero() && sign == 1 {
		return nil, false
	}
	if parity(&u) != sign {
		u.Neg(&u)
	}

	p := twistededwards.NewPointAffine(u, v)
	return &p, true
}

// inPrimeOrderSubgroup reports whether p is a non-identity point of order
// r_J.
func inPrimeOrderSubgroup(p *Point) bool {
	if !p.IsOnCurve() || p.IsZero() {
		return false
	}
	var q Point
	q.ScalarMultiplication(p, jubjubOrder)
	return q.IsZero()
}

// groupHash hashes (personalization, msg) to a point of the prime-order
// subgroup.  About half of all inputs have no image.
func groupHash(personalization string, msg []byte) (*Point, bool) {
	digest := hashAll(blake2sNew(personalization), urs, msg)

	var encoded [32]byte
	copy(encoded[:], digest)
	p, ok := abstJ(encoded)
	if !ok {
		return nil, false
	}

	var q Point
	q.ScalarMultiplication(p, jubjubCofactor)
	if q.IsZero() {
		return nil, false
	}
	return &q, true
}

// findGroupHash returns the first image of groupHash(personalization,
// msg || i) for i in 0..255.
func findGroupHash(personalization string, msg []byte) (*Point, bool) {
	input := make([]byte, len(msg)+1)
	copy(input, msg)
	for i := 0; i < 256; i++ {
		input[len(msg)] = byte(i)
		if p, ok := groupHash(personalization, input); ok {
			return p, true
		}
	}
	return nil, false
}

func mustFindGroupHash(personalization string, msg []byte) *Point {
	p, ok := findGroupHash(personalization, msg)
	if !ok {
		panic("no group hash for " + personalization)
	}
	return p
}

func scalarMult(p *Point, s *big.Int) *Point {
	var q Point
	q.ScalarMultiplication(p, s)
	return &q
}
