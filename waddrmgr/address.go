package waddrmgr

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/key"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/czh0526/zec-wallet/sapling"
)

var (
	ErrPubKeyMismatch = fmt.Errorf("derived pubkey doesn't match original")

	ErrAddrMismatch = fmt.Errorf("derived addr doesn't match original")

	ErrInvalidSignature = fmt.Errorf("private key sig doesn't validate against pubkey")
)

type AddressType uint8

const (
	PubKeyHash AddressType = iota
	SaplingPaymentAddress
)

func (t AddressType) String() string {
	switch t {
	case PubKeyHash:
		return "p2pkh"
	case SaplingPaymentAddress:
		return "sapling"
	default:
		return fmt.Sprintf("unknown address type (%d)", uint8(t))
	}
}

// ManagedAddress is an address together with the pool, network and path it
// was derived for.
type ManagedAddress interface {
	Pool() netparams.Pool

	Network() netparams.Network

	Address() key.Address

	// AddrHash returns the raw address payload.
	AddrHash() []byte

	AddrType() AddressType

	DerivationPath() hdpath.Path

	String() string
}

// ManagedPubKeyAddress is a transparent address derived from a secp256k1
// key.
type ManagedPubKeyAddress interface {
	ManagedAddress

	PubKey() *btcec.PublicKey

	ExportPubKey() string

	Compressed() bool
}

// ValidatableManagedAddress can prove that a private key controls it.
type ValidatableManagedAddress interface {
	ManagedPubKeyAddress

	Validate(msg [32]byte, priv *btcec.PrivateKey) error
}

// ManagedShieldedAddress is a Sapling payment address.
type ManagedShieldedAddress interface {
	ManagedAddress

	Diversifier() sapling.Diversifier

	DiversifierIndex() sapling.DiversifierIndex

	TransmissionKey() [32]byte
}

var _ ValidatableManagedAddress = (*managedAddress)(nil)

var _ ManagedShieldedAddress = (*shieldedAddress)(nil)
