package transparent

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/czh0526/zec-wallet/codec"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
)

const compressMagic byte = 0x01

// WIF is a private key in Wallet Import Format.
type WIF struct {
	// PrivKey is the private key being imported or exported.
	PrivKey *btcec.PrivateKey

	// CompressPubKey selects whether the address derived from PrivKey
	// uses the compressed public key.
	CompressPubKey bool

	netID byte
}

// NewWIF wraps privKey for the network described by params.
func NewWIF(privKey *btcec.PrivateKey, params *netparams.Params,
	compress bool) *WIF {

	return &WIF{
		PrivKey:        privKey,
		CompressPubKey: compress,
		netID:          params.PrivateKeyID,
	}
}

// IsForNet reports whether the WIF belongs to the network of params.
func (w *WIF) IsForNet(params *netparams.Params) bool {
	return w.netID == params.PrivateKeyID
}

// SerializePubKey returns the public key in the form selected by
// CompressPubKey.
func (w *WIF) SerializePubKey() []byte {
	if w.CompressPubKey {
		return w.PrivKey.PubKey().SerializeCompressed()
	}
	return w.PrivKey.PubKey().SerializeUncompressed()
}

// String returns the Base58Check encoding of the WIF.
func (w *WIF) String() string {
	keyBytes := w.PrivKey.Key.Bytes()
	payload := make([]byte, 0, 33)
	payload = append(payload, keyBytes[:]...)
	if w.CompressPubKey {
		payload = append(payload, compressMagic)
	}
	return codec.EncodeVersioned([]byte{w.netID}, payload)
}

// DecodeWIF decodes a WIF string for the network of params.
func DecodeWIF(wif string, params *netparams.Params) (*WIF, error) {
	version, payload, err := codec.DecodeVersioned(wif, 1)
	if err != nil {
		return nil, err
	}
	if version[0] != params.PrivateKeyID {
		return nil, keyerr.Errorf(keyerr.ErrFormatMismatch,
			"WIF version %#02x does not belong to %s", version[0],
			params.Name)
	}

	var compress bool
	switch {
	case len(payload) == 33 && payload[32] == compressMagic:
		compress = true
	case len(payload) == 32:
	default:
		return nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"malformed WIF payload of %d bytes", len(payload))
	}

	var k btcec.ModNScalar
	if overflow := k.SetByteSlice(payload[:32]); overflow || k.IsZero() {
		return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
			"private key is not in the range [1, n)")
	}

	privKey, _ := btcec.PrivKeyFromBytes(payload[:32])
	return &WIF{
		PrivKey:        privKey,
		CompressPubKey: compress,
		netID:          version[0],
	}, nil
}

// WIF returns the compressed WIF of a private extended key.
func (k *ExtendedKey) WIF(params *netparams.Params) (*WIF, error) {
	priv, err := k.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return NewWIF(priv, params, true), nil
}

// EncodeWIF returns the WIF string of privKey.
func EncodeWIF(privKey *btcec.PrivateKey, params *netparams.Params,
	compress bool) string {

	return NewWIF(privKey, params, compress).String()
}
