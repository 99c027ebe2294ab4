package sapling

import (
	"fmt"
	"hash"
	"math/big"

	"github.com/dchest/blake2s"
	blake2b "github.com/minio/blake2b-simd"
)

// BLAKE2 personalizations.
const (
	expandSeedPersonalization     = "Zcash_ExpandSeed"
	masterKeyPersonalization      = "ZcashIP32Sapling"
	fvkFingerprintPersonalization = "ZcashSaplingFVFP"
	crhIvkPersonalization         = "Zcashivk"
	spendingKeyGenPersonalization = "Zcash_G_"
	proofGenKeyGenPersonalization = "Zcash_H_"
	diversifierPersonalization    = "Zcash_gd"
)

func blake2bNew(size uint8, personalization string) hash.Hash {
	h, err := blake2b.New(&blake2b.Config{
		Size:   size,
		Person: []byte(personalization),
	})
	if err != nil {
		panic(fmt.Sprintf("blake2b config %q: %v", personalization, err))
	}
	return h
}

func blake2sNew(personalization string) hash.Hash {
	h, err := blake2s.New(&blake2s.Config{
		Size:   32,
		Person: []byte(personalization),
	})
	if err != nil {
		panic(fmt.Sprintf("blake2s config %q: %v", personalization, err))
	}
	return h
}

func hashAll(h hash.Hash, data ...[]byte) []byte {
	for _, d := range data {
		// hash.Hash never returns an error
		h.Write(d)
	}
	return h.Sum(nil)
}

// prfExpand is PRF^expand(sk, t): BLAKE2b-512 of sk || t.
func prfExpand(sk []byte, t ...[]byte) []byte {
	return hashAll(blake2bNew(64, expandSeedPersonalization),
		append([][]byte{sk}, t...)...)
}

// toScalar reduces a little-endian integer modulo r_J.
func toScalar(b []byte) *big.Int {
	s := leToInt(b)
	return s.Mod(s, jubjubOrder)
}

func leToInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

// intToLE32 encodes a non-negative integer below 2^256 as 32
// little-endian bytes.
func intToLE32(x *big.Int) [32]byte {
	var out [32]byte
	x.FillBytes(out[:])
	for i, j := 0, 31; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
