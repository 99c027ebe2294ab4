// Package netparams holds the fixed per-network tags used when encoding
// transparent and shielded keys and addresses.
package netparams

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/czh0526/zec-wallet/keyerr"
)

// Network selects a chain variant.
type Network uint8

const (
	Mainnet Network = iota
	Testnet
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return fmt.Sprintf("unknown network (%d)", uint8(n))
	}
}

// ParseNetwork maps a network name to a Network.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(s) {
	case "mainnet", "main":
		return Mainnet, nil
	case "testnet", "test":
		return Testnet, nil
	default:
		return 0, keyerr.Errorf(keyerr.ErrUnsupportedFormat,
			"unknown network %q", s)
	}
}

// Pool selects the transparent or shielded address family.
type Pool uint8

const (
	Transparent Pool = iota
	Sapling
)

func (p Pool) String() string {
	switch p {
	case Transparent:
		return "transparent"
	case Sapling:
		return "sapling"
	default:
		return fmt.Sprintf("unknown pool (%d)", uint8(p))
	}
}

// ParsePool maps a pool name to a Pool.
func ParsePool(s string) (Pool, error) {
	switch strings.ToLower(s) {
	case "transparent", "t":
		return Transparent, nil
	case "sapling", "shielded", "z":
		return Sapling, nil
	default:
		return 0, keyerr.Errorf(keyerr.ErrUnsupportedFormat,
			"unknown pool %q", s)
	}
}

// Params defines the encoding tags of a network.
type Params struct {
	Name    string
	Network Network

	// Chain supplies the BIP32 extended key version ids.
	Chain *chaincfg.Params

	// Transparent pool.
	PubKeyHashAddrID [2]byte
	ScriptHashAddrID [2]byte
	PrivateKeyID     byte

	// BIP44 / ZIP32 coin type.
	HDCoinType uint32

	// Sapling pool.
	SaplingPaymentAddressHRP         string
	SaplingExtendedSpendingKeyHRP    string
	SaplingExtendedFullViewingKeyHRP string
}

var MainNetParams = Params{
	Name:    "mainnet",
	Network: Mainnet,
	Chain:   &chaincfg.MainNetParams,

	PubKeyHashAddrID: [2]byte{0x1c, 0xb8},
	ScriptHashAddrID: [2]byte{0x1c, 0xbd},
	PrivateKeyID:     0x80,

	HDCoinType: 133,

	SaplingPaymentAddressHRP:         "zs",
	SaplingExtendedSpendingKeyHRP:    "secret-extended-key-main",
	SaplingExtendedFullViewingKeyHRP: "zxviews",
}

var TestNetParams = Params{
	Name:    "testnet",
	Network: Testnet,
	Chain:   &chaincfg.TestNet3Params,

	PubKeyHashAddrID: [2]byte{0x1d, 0x25},
	ScriptHashAddrID: [2]byte{0x1c, 0xba},
	PrivateKeyID:     0xef,

	HDCoinType: 1,

	SaplingPaymentAddressHRP:         "ztestsapling",
	SaplingExtendedSpendingKeyHRP:    "secret-extended-key-test",
	SaplingExtendedFullViewingKeyHRP: "zxviewtestsapling",
}

var registered = map[Network]*Params{
	Mainnet: &MainNetParams,
	Testnet: &TestNetParams,
}

// ForNetwork returns the registered parameters of n.
func ForNetwork(n Network) (*Params, error) {
	params, ok := registered[n]
	if !ok {
		return nil, keyerr.Errorf(keyerr.ErrUnsupportedFormat,
			"no parameters registered for %v", n)
	}
	return params, nil
}

// HDPrivateKeyID returns the BIP32 version of extended private keys.
func (p *Params) HDPrivateKeyID() [4]byte {
	return p.Chain.HDPrivateKeyID
}

// HDPublicKeyID returns the BIP32 version of extended public keys.
func (p *Params) HDPublicKeyID() [4]byte {
	return p.Chain.HDPublicKeyID
}

// Format is a (Network, Pool) pair.
type Format struct {
	Network Network
	Pool    Pool
}

func (f Format) String() string {
	return f.Pool.String() + "/" + f.Network.String()
}

// Tag is the fixed prefix a Format puts in front of addresses: version
// bytes for the transparent pool, a human-readable prefix for Sapling.
type Tag struct {
	Version []byte
	HRP     string
}

// Tag returns the address tag of f.
func (f Format) Tag() (Tag, error) {
	params, err := ForNetwork(f.Network)
	if err != nil {
		return Tag{}, err
	}

	switch f.Pool {
	case Transparent:
		version := params.PubKeyHashAddrID
		return Tag{Version: version[:]}, nil
	case Sapling:
		return Tag{HRP: params.SaplingPaymentAddressHRP}, nil
	default:
		return Tag{}, keyerr.Errorf(keyerr.ErrUnsupportedFormat,
			"unknown pool %v", f.Pool)
	}
}
