/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

// Package key puts the transparent and shielded derivation engines behind
// a common interface so callers can select one by pool.
package key

import (
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
)

// ExtendedKey is the metadata every extended key carries.  Depth, parent
// fingerprint and child index are informational only.
type ExtendedKey interface {
	Depth() uint8
	ParentFingerprint() [4]byte
	ChildIndex() hdpath.ChildIndex
	ChainCode() [32]byte
	IsPrivate() bool
}

// Address is encoded address material of one pool and network.
type Address interface {
	// String returns the checksummed text form.
	String() string

	// ScriptAddress returns the raw payload: hash160 for transparent
	// addresses, d || pk_d for shielded ones.
	ScriptAddress() []byte
}

// Engine derives keys of one pool.
type Engine interface {
	Pool() netparams.Pool

	// ValidatePath rejects paths the engine can never derive.
	ValidatePath(path hdpath.Path) error

	NewMaster(seed []byte) (ExtendedKey, error)
	Child(parent ExtendedKey, i hdpath.ChildIndex) (ExtendedKey, error)

	// Address returns the address of k: the P2PKH address of a
	// transparent key, the default payment address of a shielded key.
	Address(k ExtendedKey, params *netparams.Params) (Address, error)

	// ExportKey returns the importable private key: WIF for
	// transparent keys, the extended spending key for shielded keys.
	ExportKey(k ExtendedKey, params *netparams.Params) (string, error)

	// ExportExtendedKey returns the serialized extended private key.
	ExportExtendedKey(k ExtendedKey, params *netparams.Params) (string, error)

	// ExportViewingKey returns the serialized extended public or full
	// viewing key.
	ExportViewingKey(k ExtendedKey, params *netparams.Params) (string, error)
}

var engines = map[netparams.Pool]Engine{
	netparams.Transparent: TransparentEngine{},
	netparams.Sapling:     SaplingEngine{},
}

// EngineFor returns the engine of pool.
func EngineFor(pool netparams.Pool) (Engine, error) {
	engine, ok := engines[pool]
	if !ok {
		return nil, keyerr.Errorf(keyerr.ErrUnsupportedFormat,
			"no key engine for pool %v", pool)
	}
	return engine, nil
}

func wrongKeyType(engine Engine, k ExtendedKey) error {
	return keyerr.Errorf(keyerr.ErrUnsupportedFormat,
		"%v engine cannot use a key of type %T", engine.Pool(), k)
}

func notPrivate(engine Engine) error {
	return keyerr.Errorf(keyerr.ErrNotPrivate,
		"%v engine cannot export a private key from a public key",
		engine.Pool())
}
