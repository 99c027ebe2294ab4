package sapling

import (
	"math/big"

	"github.com/czh0526/zec-wallet/keyerr"
)

// OutgoingViewingKey lets its holder recover outgoing notes.
type OutgoingViewingKey [32]byte

// DiversifierKey seeds the diversifier permutation of an extended key.
type DiversifierKey [32]byte

// FullViewingKey is (ak, nk, ovk).
type FullViewingKey struct {
	ak  Point
	nk  Point
	ovk OutgoingViewingKey
}

func newFullViewingKey(ask, nsk *big.Int, ovk OutgoingViewingKey) *FullViewingKey {
	return &FullViewingKey{
		ak:  *scalarMult(spendingKeyGenerator, ask),
		nk:  *scalarMult(proofGenerationKeyGenerator, nsk),
		ovk: ovk,
	}
}

// parseFullViewingKey decodes repr(ak) || repr(nk) || ovk.
func parseFullViewingKey(b []byte) (*FullViewingKey, error) {
	if len(b) != 96 {
		return nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"full viewing key must be 96 bytes, got %d", len(b))
	}

	var akRepr, nkRepr [32]byte
	copy(akRepr[:], b[:32])
	copy(nkRepr[:], b[32:64])

	ak, ok := abstJ(akRepr)
	if !ok || !inPrimeOrderSubgroup(ak) {
		return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
			"ak is not a point of the prime-order subgroup")
	}
	nk, ok := abstJ(nkRepr)
	if !ok || !inPrimeOrderSubgroup(nk) {
		return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
			"nk is not a point of the prime-order subgroup")
	}

	fvk := &FullViewingKey{ak: *ak, nk: *nk}
	copy(fvk.ovk[:], b[64:])
	return fvk, nil
}

// Bytes returns repr(ak) || repr(nk) || ovk.
func (fvk *FullViewingKey) Bytes() []byte {
	ak, nk := reprJ(&fvk.ak), reprJ(&fvk.nk)

	b := make([]byte, 0, 96)
	b = append(b, ak[:]...)
	b = append(b, nk[:]...)
	return append(b, fvk.ovk[:]...)
}

// OutgoingViewingKey returns ovk.
func (fvk *FullViewingKey) OutgoingViewingKey() OutgoingViewingKey {
	return fvk.ovk
}

// Fingerprint identifies the key; its first four bytes are the tag that
// children record as their parent.
func (fvk *FullViewingKey) Fingerprint() [32]byte {
	var fp [32]byte
	copy(fp[:], hashAll(blake2bNew(32, fvkFingerprintPersonalization),
		fvk.Bytes()))
	return fp
}

func (fvk *FullViewingKey) tag() [4]byte {
	fp := fvk.Fingerprint()
	var tag [4]byte
	copy(tag[:], fp[:4])
	return tag
}

// IncomingViewingKey returns ivk = CRH(ak, nk), a 251-bit scalar.
func (fvk *FullViewingKey) IncomingViewingKey() (*big.Int, error) {
	ak, nk := reprJ(&fvk.ak), reprJ(&fvk.nk)
	digest := hashAll(blake2sNew(crhIvkPersonalization), ak[:], nk[:])
	digest[31] &= 0x07

	ivk := leToInt(digest)
	if ivk.Sign() == 0 {
		return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
			"incoming viewing key is zero")
	}
	return ivk, nil
}
