/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

package key

import (
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/czh0526/zec-wallet/transparent"
)

// TransparentEngine derives BIP32 keys on secp256k1.
type TransparentEngine struct{}

func (TransparentEngine) Pool() netparams.Pool {
	return netparams.Transparent
}

// ValidatePath accepts any path.
func (TransparentEngine) ValidatePath(hdpath.Path) error {
	return nil
}

func (TransparentEngine) NewMaster(seed []byte) (ExtendedKey, error) {
	master, err := transparent.NewMaster(seed)
	if err != nil {
		return nil, err
	}
	return master, nil
}

func (e TransparentEngine) extendedKey(k ExtendedKey) (
	*transparent.ExtendedKey, error) {

	extKey, ok := k.(*transparent.ExtendedKey)
	if !ok {
		return nil, wrongKeyType(e, k)
	}
	return extKey, nil
}

func (e TransparentEngine) Child(parent ExtendedKey, i hdpath.ChildIndex) (
	ExtendedKey, error) {

	extKey, err := e.extendedKey(parent)
	if err != nil {
		return nil, err
	}
	child, err := extKey.Child(i)
	if err != nil {
		return nil, err
	}
	return child, nil
}

func (e TransparentEngine) Address(k ExtendedKey, params *netparams.Params) (
	Address, error) {

	extKey, err := e.extendedKey(k)
	if err != nil {
		return nil, err
	}
	addr, err := extKey.Address(params)
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (e TransparentEngine) ExportKey(k ExtendedKey, params *netparams.Params) (
	string, error) {

	return e.ExportWIF(k, params, true)
}

// ExportWIF returns the WIF of a private key, flagged for the compressed
// public key when compress is set.
func (e TransparentEngine) ExportWIF(k ExtendedKey, params *netparams.Params,
	compress bool) (string, error) {

	extKey, err := e.extendedKey(k)
	if err != nil {
		return "", err
	}
	priv, err := extKey.ECPrivKey()
	if err != nil {
		return "", err
	}
	return transparent.EncodeWIF(priv, params, compress), nil
}

func (e TransparentEngine) ExportExtendedKey(k ExtendedKey,
	params *netparams.Params) (string, error) {

	extKey, err := e.extendedKey(k)
	if err != nil {
		return "", err
	}
	if !extKey.IsPrivate() {
		return "", notPrivate(e)
	}
	return extKey.String(params), nil
}

func (e TransparentEngine) ExportViewingKey(k ExtendedKey,
	params *netparams.Params) (string, error) {

	extKey, err := e.extendedKey(k)
	if err != nil {
		return "", err
	}
	return extKey.Neuter().String(params), nil
}
