package waddrmgr

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/key"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/czh0526/zec-wallet/sapling"
	"github.com/czh0526/zec-wallet/transparent"
)

// 包装一个 t-addr，以及其附带的公钥数据
type managedAddress struct {
	network        netparams.Network
	derivationPath hdpath.Path
	address        *transparent.AddressPubKeyHash
	pubKey         *btcec.PublicKey
	params         *netparams.Params
}

func (a *managedAddress) Pool() netparams.Pool {
	return netparams.Transparent
}

func (a *managedAddress) Network() netparams.Network {
	return a.network
}

func (a *managedAddress) Address() key.Address {
	return a.address
}

func (a *managedAddress) AddrHash() []byte {
	return a.address.Hash160()[:]
}

func (a *managedAddress) AddrType() AddressType {
	return PubKeyHash
}

func (a *managedAddress) DerivationPath() hdpath.Path {
	return a.derivationPath
}

func (a *managedAddress) String() string {
	return a.address.EncodeAddress()
}

func (a *managedAddress) PubKey() *btcec.PublicKey {
	return a.pubKey
}

func (a *managedAddress) ExportPubKey() string {
	return hex.EncodeToString(a.pubKey.SerializeCompressed())
}

// Compressed is always true: derived keys use compressed public keys.
func (a *managedAddress) Compressed() bool {
	return true
}

// Validate checks that priv belongs to the address: the public keys match,
// the address re-derived from the public key matches, and a signature
// over msg verifies.
func (a *managedAddress) Validate(msg [32]byte, priv *btcec.PrivateKey) error {
	basePubKey := priv.PubKey()
	if !a.pubKey.IsEqual(basePubKey) {
		return fmt.Errorf("%w: expected %x, got %x", ErrPubKeyMismatch,
			basePubKey.SerializeCompressed(),
			a.pubKey.SerializeCompressed())
	}

	addr, err := newManagedAddressWithoutPrivKey(
		a.params, a.derivationPath, a.pubKey)
	if err != nil {
		return fmt.Errorf("unable to re-create addr: %w", err)
	}
	if addr.String() != a.String() {
		return fmt.Errorf("%w: expected %v, got %v", ErrAddrMismatch,
			addr.String(), a.String())
	}

	sig := ecdsa.Sign(priv, msg[:])
	if !sig.Verify(msg[:], basePubKey) {
		return ErrInvalidSignature
	}

	return nil
}

// 根据 ExtendedKey 构建一个地址对象
func newManagedAddressFromExtKey(params *netparams.Params,
	derivationPath hdpath.Path, extKey *transparent.ExtendedKey) (
	*managedAddress, error) {

	pubKey, err := extKey.ECPubKey()
	if err != nil {
		return nil, err
	}
	managedAddr, err := newManagedAddressWithoutPrivKey(
		params, derivationPath, pubKey)
	if err != nil {
		return nil, err
	}
	if !extKey.IsPrivate() {
		return managedAddr, nil
	}

	// 校验地址的功能
	privKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, err
	}
	var msg [32]byte
	if _, err := rand.Read(msg[:]); err != nil {
		return nil, fmt.Errorf("unable to read random challenge for "+
			"addr validation: %w", err)
	}
	if err := managedAddr.Validate(msg, privKey); err != nil {
		return nil, fmt.Errorf("addr validation for addr=%v failed: %w",
			managedAddr, err)
	}

	return managedAddr, nil
}

func newManagedAddressWithoutPrivKey(params *netparams.Params,
	derivationPath hdpath.Path, pubKey *btcec.PublicKey) (
	*managedAddress, error) {

	address, err := transparent.NewAddressPubKey(pubKey, params)
	if err != nil {
		return nil, err
	}

	return &managedAddress{
		network:        params.Network,
		derivationPath: derivationPath,
		address:        address,
		pubKey:         pubKey,
		params:         params,
	}, nil
}

// shieldedAddress is a Sapling payment address and the index of its
// diversifier.
type shieldedAddress struct {
	network        netparams.Network
	derivationPath hdpath.Path
	address        *key.PaymentAddress
}

func newShieldedAddress(params *netparams.Params, derivationPath hdpath.Path,
	address *key.PaymentAddress) *shieldedAddress {

	return &shieldedAddress{
		network:        params.Network,
		derivationPath: derivationPath,
		address:        address,
	}
}

func (a *shieldedAddress) Pool() netparams.Pool {
	return netparams.Sapling
}

func (a *shieldedAddress) Network() netparams.Network {
	return a.network
}

func (a *shieldedAddress) Address() key.Address {
	return a.address
}

func (a *shieldedAddress) AddrHash() []byte {
	return a.address.ScriptAddress()
}

func (a *shieldedAddress) AddrType() AddressType {
	return SaplingPaymentAddress
}

func (a *shieldedAddress) DerivationPath() hdpath.Path {
	return a.derivationPath
}

func (a *shieldedAddress) String() string {
	return a.address.String()
}

func (a *shieldedAddress) Diversifier() sapling.Diversifier {
	return a.address.PaymentAddress.Diversifier()
}

func (a *shieldedAddress) DiversifierIndex() sapling.DiversifierIndex {
	return a.address.Index
}

func (a *shieldedAddress) TransmissionKey() [32]byte {
	return a.address.TransmissionKey()
}

// keyToManaged builds the managed address of a derived key.  Shielded keys
// yield the payment address at the first valid diversifier at or after
// start.
func keyToManaged(params *netparams.Params, derivationPath hdpath.Path,
	derivedKey key.ExtendedKey, start sapling.DiversifierIndex) (
	ManagedAddress, error) {

	switch k := derivedKey.(type) {
	case *transparent.ExtendedKey:
		return newManagedAddressFromExtKey(params, derivationPath, k)

	case *sapling.ExtendedSpendingKey, *sapling.ExtendedFullViewingKey:
		addr, err := key.SaplingEngine{}.FindAddress(k, start, params)
		if err != nil {
			return nil, err
		}
		return newShieldedAddress(params, derivationPath, addr), nil

	default:
		str := fmt.Sprintf("unsupported key type %T", derivedKey)
		return nil, managerError(keyerr.ErrUnsupportedFormat, str, nil)
	}
}
