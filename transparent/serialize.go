package transparent

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/czh0526/zec-wallet/codec"
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
)

// serializedKeyLen is the length of a serialized extended key without its
// 4-byte version: depth(1) || fingerprint(4) || child(4) || chain code(32)
// || key data(33).
const serializedKeyLen = 1 + 4 + 4 + 32 + 33

// String returns the xprv/xpub style Base58Check encoding of the key using
// the extended key version bytes of params.
func (k *ExtendedKey) String(params *netparams.Params) string {
	var version [4]byte
	if k.isPrivate {
		version = params.HDPrivateKeyID()
	} else {
		version = params.HDPublicKeyID()
	}

	payload := make([]byte, 0, serializedKeyLen)
	payload = append(payload, k.depth)
	payload = append(payload, k.parentFP[:]...)
	payload = append(payload, serializeUint32(uint32(k.childNum))...)
	payload = append(payload, k.chainCode[:]...)
	if k.isPrivate {
		payload = append(payload, 0x00)
	}
	payload = append(payload, k.key...)

	return codec.EncodeVersioned(version[:], payload)
}

// ParseExtendedKey decodes an extended key produced by String.  The version
// bytes must belong to params, otherwise ErrFormatMismatch is returned.
func ParseExtendedKey(s string, params *netparams.Params) (*ExtendedKey, error) {
	version, payload, err := codec.DecodeVersioned(s, 4)
	if err != nil {
		return nil, err
	}
	if len(payload) != serializedKeyLen {
		return nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"extended key payload must be %d bytes, got %d",
			serializedKeyLen, len(payload))
	}

	privID, pubID := params.HDPrivateKeyID(), params.HDPublicKeyID()
	var isPrivate bool
	switch {
	case bytes.Equal(version, privID[:]):
		isPrivate = true
	case bytes.Equal(version, pubID[:]):
	default:
		return nil, keyerr.Errorf(keyerr.ErrFormatMismatch,
			"extended key version %x does not belong to %s",
			version, params.Name)
	}

	depth := payload[0]
	var parentFP [4]byte
	copy(parentFP[:], payload[1:5])
	childNum := hdpath.ChildIndex(uint32(payload[5])<<24 |
		uint32(payload[6])<<16 | uint32(payload[7])<<8 | uint32(payload[8]))
	var chainCode [32]byte
	copy(chainCode[:], payload[9:41])
	keyData := payload[41:]

	if depth == 0 && (parentFP != [4]byte{} || childNum != 0) {
		return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
			"master key with non-zero parent fingerprint or index")
	}

	if isPrivate {
		if keyData[0] != 0x00 {
			return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
				"private key data must be prefixed with 0x00")
		}
		var k btcec.ModNScalar
		if overflow := k.SetByteSlice(keyData[1:]); overflow || k.IsZero() {
			return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
				"private key is not in the range [1, n)")
		}
		return newPrivateKey(keyData[1:], chainCode, depth, parentFP,
			childNum), nil
	}

	pub, err := btcec.ParsePubKey(keyData)
	if err != nil {
		return nil, keyerr.New(keyerr.ErrInvalidKey,
			"invalid public key", err)
	}
	return newPublicKey(pub, chainCode, depth, parentFP, childNum), nil
}
