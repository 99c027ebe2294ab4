// Package sapling implements ZIP32 hierarchical deterministic keys for the
// Sapling shielded pool and the encodings of Sapling payment addresses and
// extended keys.
package sapling

import (
	"encoding/binary"
	"math/big"

	"github.com/czh0526/zec-wallet/codec"
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/internal/zero"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
)

const (
	// MinSeedBytes is the minimum number of bytes accepted as a seed.
	MinSeedBytes = 32

	// MaxSeedBytes is the maximum number of bytes accepted as a seed.
	MaxSeedBytes = 252

	// maxKeyDerivationAttempts bounds the retries made when a derived
	// scalar is zero.
	maxKeyDerivationAttempts = 8

	maxDepth = 255

	// extendedKeyLen is depth(1) || tag(4) || i(4) || c(32) || 128 bytes
	// of key material.
	extendedKeyLen = 1 + 4 + 4 + 32 + 128
)

// PRF^expand domain separators.
var (
	domainAsk      = []byte{0x00}
	domainNsk      = []byte{0x01}
	domainOvk      = []byte{0x02}
	domainDk       = []byte{0x10}
	domainChild    = []byte{0x11}
	domainChildAsk = []byte{0x13}
	domainChildNsk = []byte{0x14}
	domainChildOvk = []byte{0x15}
	domainChildDk  = []byte{0x16}
)

// keyMeta is the derivation metadata shared by extended spending and full
// viewing keys.
type keyMeta struct {
	depth      uint8
	parentTag  [4]byte
	childIndex hdpath.ChildIndex
	chainCode  [32]byte
}

func (m *keyMeta) Depth() uint8 {
	return m.depth
}

// ParentFingerprint returns the tag of the parent full viewing key.  It
// is zero for the master key.
func (m *keyMeta) ParentFingerprint() [4]byte {
	return m.parentTag
}

func (m *keyMeta) ChildIndex() hdpath.ChildIndex {
	return m.childIndex
}

func (m *keyMeta) ChainCode() [32]byte {
	return m.chainCode
}

func (m *keyMeta) serialize(buf []byte) []byte {
	buf = append(buf, m.depth)
	buf = append(buf, m.parentTag[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.childIndex))
	return append(buf, m.chainCode[:]...)
}

func parseKeyMeta(b []byte) keyMeta {
	var m keyMeta
	m.depth = b[0]
	copy(m.parentTag[:], b[1:5])
	m.childIndex = hdpath.ChildIndex(binary.LittleEndian.Uint32(b[5:9]))
	copy(m.chainCode[:], b[9:41])
	return m
}

// ExtendedSpendingKey is a ZIP32 extended spending key.  It is immutable;
// Child returns a new key.
type ExtendedSpendingKey struct {
	keyMeta
	ask big.Int
	nsk big.Int
	ovk OutgoingViewingKey
	dk  DiversifierKey

	fvk *FullViewingKey
}

func newExtendedSpendingKey(meta keyMeta, ask, nsk *big.Int,
	ovk OutgoingViewingKey, dk DiversifierKey) (*ExtendedSpendingKey, error) {

	if ask.Sign() == 0 || nsk.Sign() == 0 {
		return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
			"spend authorizing or nullifier deriving key is zero")
	}

	k := &ExtendedSpendingKey{keyMeta: meta, ovk: ovk, dk: dk}
	k.ask.Set(ask)
	k.nsk.Set(nsk)
	k.fvk = newFullViewingKey(&k.ask, &k.nsk, ovk)
	return k, nil
}

// NewMaster derives the master extended spending key from seed.
func NewMaster(seed []byte) (*ExtendedSpendingKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, keyerr.Errorf(keyerr.ErrSeedLength,
			"seed length must be between %d and %d bytes, got %d",
			MinSeedBytes, MaxSeedBytes, len(seed))
	}

	data := seed
	for attempt := 0; attempt < maxKeyDerivationAttempts; attempt++ {
		I := hashAll(blake2bNew(64, masterKeyPersonalization), data)
		sk := I[:32]

		var meta keyMeta
		copy(meta.chainCode[:], I[32:])

		var ovk OutgoingViewingKey
		var dk DiversifierKey
		copy(ovk[:], prfExpand(sk, domainOvk)[:32])
		copy(dk[:], prfExpand(sk, domainDk)[:32])

		master, err := newExtendedSpendingKey(meta,
			toScalar(prfExpand(sk, domainAsk)),
			toScalar(prfExpand(sk, domainNsk)), ovk, dk)
		if err == nil {
			zero.Bytes(I)
			return master, nil
		}

		log.Debugf("Master key candidate %d is invalid, re-deriving",
			attempt)
		data = I
	}

	return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
		"seed did not produce a valid master key after %d attempts",
		maxKeyDerivationAttempts)
}

// IsPrivate is always true for a spending key.
func (k *ExtendedSpendingKey) IsPrivate() bool {
	return true
}

// FullViewingKey returns (ak, nk, ovk).
func (k *ExtendedSpendingKey) FullViewingKey() *FullViewingKey {
	return k.fvk
}

// DiversifierKey returns dk.
func (k *ExtendedSpendingKey) DiversifierKey() DiversifierKey {
	return k.dk
}

// Child derives the hardened child at index i.  If the child key is
// invalid, derivation proceeds with the next hardened index and the
// returned key records the index that was actually used.
func (k *ExtendedSpendingKey) Child(i hdpath.ChildIndex) (
	*ExtendedSpendingKey, error) {

	if !i.IsHardened() {
		return nil, keyerr.Errorf(keyerr.ErrNonHardenedShielded,
			"shielded child index %v must be hardened", i)
	}
	if k.depth == maxDepth {
		return nil, keyerr.Errorf(keyerr.ErrDepthExceeded,
			"cannot derive a key with more than %d depth", maxDepth)
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

		log.Debugf("Shielded child %v at depth %d is invalid, trying "+
			"next index", index, k.depth+1)

		// 0xffffffff + 1 wraps to a non-hardened index
		next := index + 1
		if !next.IsHardened() {
			break
		}
		index = next
	}

	return nil, keyerr.Errorf(keyerr.ErrInvalidScalar,
		"no valid shielded child key at or after index %v", i)
}

func (k *ExtendedSpendingKey) deriveChild(i hdpath.ChildIndex) (
	*ExtendedSpendingKey, error) {

	ask, nsk := intToLE32(&k.ask), intToLE32(&k.nsk)
	I := prfExpand(k.chainCode[:], domainChild, ask[:], nsk[:], k.ovk[:],
		k.dk[:], binary.LittleEndian.AppendUint32(nil, uint32(i)))
	defer zero.Bytes(I)
	IL := I[:32]

	meta := keyMeta{
		depth:      k.depth + 1,
		parentTag:  k.fvk.tag(),
		childIndex: i,
	}
	copy(meta.chainCode[:], I[32:])

	childAsk := toScalar(prfExpand(IL, domainChildAsk))
	childAsk.Add(childAsk, &k.ask).Mod(childAsk, jubjubOrder)
	childNsk := toScalar(prfExpand(IL, domainChildNsk))
	childNsk.Add(childNsk, &k.nsk).Mod(childNsk, jubjubOrder)

	var ovk OutgoingViewingKey
	var dk DiversifierKey
	copy(ovk[:], prfExpand(IL, domainChildOvk, k.ovk[:])[:32])
	copy(dk[:], prfExpand(IL, domainChildDk, k.dk[:])[:32])

	return newExtendedSpendingKey(meta, childAsk, childNsk, ovk, dk)
}

// DeriveFromPath derives the descendant of k along path.  Every index of
// path must be hardened.
func (k *ExtendedSpendingKey) DeriveFromPath(path hdpath.Path) (
	*ExtendedSpendingKey, error) {

	descendant := k
	for _, index := range path {
		var err error
		descendant, err = descendant.Child(index)
		if err != nil {
			return nil, err
		}
		log.Tracef("Derived shielded child %v (depth %d)", index,
			descendant.depth)
	}
	return descendant, nil
}

// ExtendedFullViewingKey returns the viewing counterpart of k.
func (k *ExtendedSpendingKey) ExtendedFullViewingKey() *ExtendedFullViewingKey {
	return &ExtendedFullViewingKey{
		keyMeta: k.keyMeta,
		fvk:     *k.fvk,
		dk:      k.dk,
	}
}

// DefaultAddress returns the payment address at the first valid
// diversifier index.
func (k *ExtendedSpendingKey) DefaultAddress() (DiversifierIndex,
	*PaymentAddress, error) {

	return k.ExtendedFullViewingKey().DefaultAddress()
}

// Serialize returns the 169-byte encoding of the key.
func (k *ExtendedSpendingKey) Serialize() []byte {
	ask, nsk := intToLE32(&k.ask), intToLE32(&k.nsk)

	buf := k.keyMeta.serialize(make([]byte, 0, extendedKeyLen))
	buf = append(buf, ask[:]...)
	buf = append(buf, nsk[:]...)
	buf = append(buf, k.ovk[:]...)
	return append(buf, k.dk[:]...)
}

// ExtendedFullViewingKey is a ZIP32 extended full viewing key.  It can
// produce payment addresses but cannot spend.
type ExtendedFullViewingKey struct {
	keyMeta
	fvk FullViewingKey
	dk  DiversifierKey
}

// IsPrivate is always false for a viewing key.
func (k *ExtendedFullViewingKey) IsPrivate() bool {
	return false
}

func (k *ExtendedFullViewingKey) FullViewingKey() *FullViewingKey {
	return &k.fvk
}

func (k *ExtendedFullViewingKey) DiversifierKey() DiversifierKey {
	return k.dk
}

// FindAddress returns the payment address at the first valid diversifier
// index at or after start.
func (k *ExtendedFullViewingKey) FindAddress(start DiversifierIndex) (
	DiversifierIndex, *PaymentAddress, error) {

	return k.findAddress(start, MaxDiversifierAttempts)
}

func (k *ExtendedFullViewingKey) findAddress(start DiversifierIndex,
	maxAttempts int) (DiversifierIndex, *PaymentAddress, error) {

	ivk, err := k.fvk.IncomingViewingKey()
	if err != nil {
		return DiversifierIndex{}, nil, err
	}

	j, d, gd, err := k.dk.findDiversifier(start, maxAttempts)
	if err != nil {
		return DiversifierIndex{}, nil, err
	}
	return j, newPaymentAddress(d, gd, ivk), nil
}

// DefaultAddress returns the payment address at the first valid
// diversifier index.
func (k *ExtendedFullViewingKey) DefaultAddress() (DiversifierIndex,
	*PaymentAddress, error) {

	return k.FindAddress(DiversifierIndex{})
}

// Serialize returns the 169-byte encoding of the key.
func (k *ExtendedFullViewingKey) Serialize() []byte {
	buf := k.keyMeta.serialize(make([]byte, 0, extendedKeyLen))
	buf = append(buf, k.fvk.Bytes()...)
	return append(buf, k.dk[:]...)
}

// EncodeExtendedSpendingKey returns the Bech32 string of k.
func EncodeExtendedSpendingKey(k *ExtendedSpendingKey,
	params *netparams.Params) (string, error) {

	return codec.EncodeHumanReadable(params.SaplingExtendedSpendingKeyHRP,
		k.Serialize())
}

// DecodeExtendedSpendingKey decodes an extended spending key of the network
// of params.
func DecodeExtendedSpendingKey(s string, params *netparams.Params) (
	*ExtendedSpendingKey, error) {

	payload, err := decodeHumanReadable(s, params.SaplingExtendedSpendingKeyHRP)
	if err != nil {
		return nil, err
	}
	if len(payload) != extendedKeyLen {
		return nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"extended spending key must be %d bytes, got %d",
			extendedKeyLen, len(payload))
	}

	ask := leToInt(payload[41:73])
	nsk := leToInt(payload[73:105])
	if ask.Cmp(jubjubOrder) >= 0 || nsk.Cmp(jubjubOrder) >= 0 {
		return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
			"spending key scalar is not reduced")
	}

	var ovk OutgoingViewingKey
	var dk DiversifierKey
	copy(ovk[:], payload[105:137])
	copy(dk[:], payload[137:])

	k, err := newExtendedSpendingKey(parseKeyMeta(payload), ask, nsk, ovk, dk)
	if err != nil {
		return nil, keyerr.New(keyerr.ErrInvalidKey,
			"invalid extended spending key", err)
	}
	return k, nil
}

// EncodeExtendedFullViewingKey returns the Bech32 string of k.
func EncodeExtendedFullViewingKey(k *ExtendedFullViewingKey,
	params *netparams.Params) (string, error) {

	return codec.EncodeHumanReadable(params.SaplingExtendedFullViewingKeyHRP,
		k.Serialize())
}

// DecodeExtendedFullViewingKey decodes an extended full viewing key of the
// network of params.
func DecodeExtendedFullViewingKey(s string, params *netparams.Params) (
	*ExtendedFullViewingKey, error) {

	payload, err := decodeHumanReadable(s,
		params.SaplingExtendedFullViewingKeyHRP)
	if err != nil {
		return nil, err
	}
	if len(payload) != extendedKeyLen {
		return nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"extended full viewing key must be %d bytes, got %d",
			extendedKeyLen, len(payload))
	}

	fvk, err := parseFullViewingKey(payload[41:137])
	if err != nil {
		return nil, err
	}

	k := &ExtendedFullViewingKey{keyMeta: parseKeyMeta(payload), fvk: *fvk}
	copy(k.dk[:], payload[137:])
	return k, nil
}
