// Package transparent implements BIP32 hierarchical deterministic keys on
// secp256k1 and the public-key-hash addresses and WIF strings of the
// transparent pool.
package transparent

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/internal/zero"
	"github.com/czh0526/zec-wallet/keyerr"
)

const (
	// MinSeedBytes is the minimum number of bytes accepted as a seed.
	MinSeedBytes = 32

	// MaxSeedBytes is the maximum number of bytes accepted as a seed.
	MaxSeedBytes = 64

	// maxKeyDerivationAttempts bounds the retries made when a derived
	// scalar falls outside [1, n).  Each retry has a chance of roughly
	// 2^-127 to be needed.
	maxKeyDerivationAttempts = 8

	maxDepth = 255
)

// masterKey is the HMAC key used to derive the master key from a seed.
var masterKey = []byte("Bitcoin seed")

// ExtendedKey is a BIP32 extended private or public key.  It is an
// immutable value: deriving a child returns a new ExtendedKey.
type ExtendedKey struct {
	key       []byte // 32-byte scalar, or 33-byte compressed point
	pubKey    []byte // 33-byte compressed point
	chainCode [32]byte
	depth     uint8
	parentFP  [4]byte
	childNum  hdpath.ChildIndex
	isPrivate bool
}

func newPrivateKey(key []byte, chainCode [32]byte, depth uint8,
	parentFP [4]byte, childNum hdpath.ChildIndex) *ExtendedKey {

	k := make([]byte, len(key))
	copy(k, key)
	_, pub := btcec.PrivKeyFromBytes(k)

	return &ExtendedKey{
		key:       k,
		pubKey:    pub.SerializeCompressed(),
		chainCode: chainCode,
		depth:     depth,
		parentFP:  parentFP,
		childNum:  childNum,
		isPrivate: true,
	}
}

func newPublicKey(pub *btcec.PublicKey, chainCode [32]byte, depth uint8,
	parentFP [4]byte, childNum hdpath.ChildIndex) *ExtendedKey {

	serialized := pub.SerializeCompressed()
	return &ExtendedKey{
		key:       serialized,
		pubKey:    serialized,
		chainCode: chainCode,
		depth:     depth,
		parentFP:  parentFP,
		childNum:  childNum,
	}
}

// NewMaster derives the master extended key from seed.  If the seed
// produces an invalid scalar, the HMAC output is fed back in as the next
// input until a valid one is found.
func NewMaster(seed []byte) (*ExtendedKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, keyerr.Errorf(keyerr.ErrSeedLength,
			"seed length must be between %d and %d bytes, got %d",
			MinSeedBytes, MaxSeedBytes, len(seed))
	}

	data := seed
	for attempt := 0; attempt < maxKeyDerivationAttempts; attempt++ {
		mac := newHMACWriter(masterKey)
		mac.InfallibleWrite(data)
		I := mac.Sum(nil)

		var k btcec.ModNScalar
		if overflow := k.SetByteSlice(I[:32]); !overflow && !k.IsZero() {
			var chainCode [32]byte
			copy(chainCode[:], I[32:])
			master := newPrivateKey(I[:32], chainCode, 0, [4]byte{}, 0)
			zero.Bytes(I)
			return master, nil
		}

		log.Debugf("Master key candidate %d is out of range, re-deriving",
			attempt)
		data = I
	}

	return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
		"seed did not produce a valid master key after %d attempts",
		maxKeyDerivationAttempts)
}

func (k *ExtendedKey) IsPrivate() bool {
	return k.isPrivate
}

func (k *ExtendedKey) Depth() uint8 {
	return k.depth
}

func (k *ExtendedKey) ParentFingerprint() [4]byte {
	return k.parentFP
}

func (k *ExtendedKey) ChildIndex() hdpath.ChildIndex {
	return k.childNum
}

func (k *ExtendedKey) ChainCode() [32]byte {
	return k.chainCode
}

// Fingerprint is the first four bytes of hash160 of the public key; it is
// the ParentFingerprint of every child.
func (k *ExtendedKey) Fingerprint() [4]byte {
	return fingerprint(k.pubKey)
}

// SerializedPubKey returns the compressed public key.
func (k *ExtendedKey) SerializedPubKey() []byte {
	pub := make([]byte, len(k.pubKey))
	copy(pub, k.pubKey)
	return pub
}

// ECPubKey returns the public key.
func (k *ExtendedKey) ECPubKey() (*btcec.PublicKey, error) {
	pub, err := btcec.ParsePubKey(k.pubKey)
	if err != nil {
		return nil, keyerr.New(keyerr.ErrInvalidKey,
			"unable to parse public key", err)
	}
	return pub, nil
}

// ECPrivKey returns the private key.  It fails with ErrNotPrivate on a
// public extended key.
func (k *ExtendedKey) ECPrivKey() (*btcec.PrivateKey, error) {
	if !k.isPrivate {
		return nil, keyerr.Errorf(keyerr.ErrNotPrivate,
			"unable to create private key from a public extended key")
	}
	priv, _ := btcec.PrivKeyFromBytes(k.key)
	return priv, nil
}

// Neuter returns the public extended key of k.  A public key is returned
// unchanged.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	if !k.isPrivate {
		return k
	}
	return &ExtendedKey{
		key:       k.pubKey,
		pubKey:    k.pubKey,
		chainCode: k.chainCode,
		depth:     k.depth,
		parentFP:  k.parentFP,
		childNum:  k.childNum,
	}
}

// Child derives the child at index i.  Private keys derive private
// children and public keys derive public children.  A hardened index on a
// public key fails with ErrHardenedFromPublic.
//
// If index i yields an invalid key, derivation proceeds with the next
// index of the same kind, and the returned key records the index that was
// actually used.
func (k *ExtendedKey) Child(i hdpath.ChildIndex) (*ExtendedKey, error) {
	if k.depth == maxDepth {
		return nil, keyerr.Errorf(keyerr.ErrDepthExceeded,
			"cannot derive a key with more than %d depth", maxDepth)
	}
	if i.IsHardened() && !k.isPrivate {
		return nil, keyerr.Errorf(keyerr.ErrHardenedFromPublic,
			"cannot derive hardened child %v from a public key", i)
	}

	index := i
	for attempt := 0; attempt < maxKeyDerivationAttempts; attempt++ {
		child, err := k.deriveChild(index)
		if err == nil {
			return child, nil
		}
		if !keyerr.IsError(err, keyerr.ErrInvalidScalar) {
			return nil, err
		}

		log.Debugf("Child %v at depth %d is invalid, trying next index",
			index, k.depth+1)

		next := index + 1
		if next.IsHardened() != i.IsHardened() {
			break
		}
		index = next
	}

	return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
		"no valid child key at or after index %v", i)
}

func (k *ExtendedKey) deriveChild(i hdpath.ChildIndex) (*ExtendedKey, error) {
	mac := newHMACWriter(k.chainCode[:])
	if i.IsHardened() {
		mac.InfallibleWrite([]byte{0x00})
		mac.InfallibleWrite(k.key)
	} else {
		mac.InfallibleWrite(k.pubKey)
	}
	mac.InfallibleWrite(serializeUint32(uint32(i)))
	I := mac.Sum(nil)
	defer zero.Bytes(I)

	var ilNum btcec.ModNScalar
	if overflow := ilNum.SetByteSlice(I[:32]); overflow {
		return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
			"IL of child %v is not less than the curve order", i)
	}

	var chainCode [32]byte
	copy(chainCode[:], I[32:])
	parentFP := k.Fingerprint()

	if k.isPrivate {
		var keyNum btcec.ModNScalar
		keyNum.SetByteSlice(k.key)
		keyNum.Add(&ilNum)
		if keyNum.IsZero() {
			return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
				"child %v private key is zero", i)
		}

		childKey := keyNum.Bytes()
		child := newPrivateKey(childKey[:], chainCode, k.depth+1, parentFP, i)
		zero.Bytea32(&childKey)
		return child, nil
	}

	// 公钥派生: point(IL) + K_par
	parentPub, err := k.ECPubKey()
	if err != nil {
		return nil, err
	}

	var ilPoint, parentPoint, result btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&ilNum, &ilPoint)
	parentPub.AsJacobian(&parentPoint)
	btcec.AddNonConst(&ilPoint, &parentPoint, &result)

	if (result.X.IsZero() && result.Y.IsZero()) || result.Z.IsZero() {
		return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
			"child %v public key is the point at infinity", i)
	}
	result.ToAffine()

	childPub := btcec.NewPublicKey(&result.X, &result.Y)
	return newPublicKey(childPub, chainCode, k.depth+1, parentFP, i), nil
}

// DeriveFromPath derives the descendant of k along path.
func (k *ExtendedKey) DeriveFromPath(path hdpath.Path) (*ExtendedKey, error) {
	descendant := k
	for _, index := range path {
		var err error
		descendant, err = descendant.Child(index)
		if err != nil {
			return nil, err
		}
		log.Tracef("Derived transparent child %v (depth %d)", index,
			descendant.depth)
	}
	return descendant, nil
}
