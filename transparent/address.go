package transparent

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/czh0526/zec-wallet/codec"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
)

// AddressPubKeyHash is a transparent pay-to-pubkey-hash address.
type AddressPubKeyHash struct {
	hash  [20]byte
	netID [2]byte
}

// NewAddressPubKeyHash returns the address of a 20-byte public key hash on
// the network described by params.
func NewAddressPubKeyHash(pkHash []byte, params *netparams.Params) (
	*AddressPubKeyHash, error) {

	if len(pkHash) != 20 {
		return nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"pkHash must be 20 bytes, got %d", len(pkHash))
	}

	addr := &AddressPubKeyHash{netID: params.PubKeyHashAddrID}
	copy(addr.hash[:], pkHash)
	return addr, nil
}

// NewAddressPubKey returns the address of the compressed serialization of
// pub.
func NewAddressPubKey(pub *btcec.PublicKey, params *netparams.Params) (
	*AddressPubKeyHash, error) {

	return NewAddressPubKeyHash(
		btcutil.Hash160(pub.SerializeCompressed()), params,
	)
}

// EncodeAddress returns the Base58Check string of the address.
func (a *AddressPubKeyHash) EncodeAddress() string {
	return codec.EncodeVersioned(a.netID[:], a.hash[:])
}

func (a *AddressPubKeyHash) String() string {
	return a.EncodeAddress()
}

// ScriptAddress returns the raw public key hash.
func (a *AddressPubKeyHash) ScriptAddress() []byte {
	return a.hash[:]
}

func (a *AddressPubKeyHash) Hash160() *[20]byte {
	return &a.hash
}

// IsForNet reports whether the address belongs to the network of params.
func (a *AddressPubKeyHash) IsForNet(params *netparams.Params) bool {
	return a.netID == params.PubKeyHashAddrID
}

// DecodeAddress decodes a transparent pubkey-hash address for the network
// of params.
func DecodeAddress(addr string, params *netparams.Params) (
	*AddressPubKeyHash, error) {

	version, payload, err := codec.DecodeVersioned(addr, 2)
	if err != nil {
		return nil, err
	}

	switch {
	case bytes.Equal(version, params.PubKeyHashAddrID[:]):
	case bytes.Equal(version, params.ScriptHashAddrID[:]):
		return nil, keyerr.Errorf(keyerr.ErrUnsupportedFormat,
			"script-hash addresses are not supported")
	default:
		return nil, keyerr.Errorf(keyerr.ErrFormatMismatch,
			"address version %x does not belong to %s", version,
			params.Name)
	}

	return NewAddressPubKeyHash(payload, params)
}

// Address returns the transparent address of the key's public key.
func (k *ExtendedKey) Address(params *netparams.Params) (*AddressPubKeyHash,
	error) {

	return NewAddressPubKeyHash(btcutil.Hash160(k.pubKey), params)
}
