/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

package key

import (
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/czh0526/zec-wallet/sapling"
)

// SaplingEngine derives ZIP32 Sapling keys.
type SaplingEngine struct{}

func (SaplingEngine) Pool() netparams.Pool {
	return netparams.Sapling
}

// ValidatePath rejects paths with a non-hardened index before any key is
// derived.
func (SaplingEngine) ValidatePath(path hdpath.Path) error {
	for _, index := range path {
		if !index.IsHardened() {
			return keyerr.Errorf(keyerr.ErrNonHardenedShielded,
				"shielded path %v has non-hardened index %v", path,
				index)
		}
	}
	return nil
}

func (SaplingEngine) NewMaster(seed []byte) (ExtendedKey, error) {
	master, err := sapling.NewMaster(seed)
	if err != nil {
		return nil, err
	}
	return master, nil
}

func (e SaplingEngine) Child(parent ExtendedKey, i hdpath.ChildIndex) (
	ExtendedKey, error) {

	switch k := parent.(type) {
	case *sapling.ExtendedSpendingKey:
		child, err := k.Child(i)
		if err != nil {
			return nil, err
		}
		return child, nil

	case *sapling.ExtendedFullViewingKey:
		return nil, keyerr.Errorf(keyerr.ErrHardenedFromPublic,
			"cannot derive shielded child %v from a viewing key", i)

	default:
		return nil, wrongKeyType(e, parent)
	}
}

func (e SaplingEngine) viewingKey(k ExtendedKey) (
	*sapling.ExtendedFullViewingKey, error) {

	switch k := k.(type) {
	case *sapling.ExtendedSpendingKey:
		return k.ExtendedFullViewingKey(), nil
	case *sapling.ExtendedFullViewingKey:
		return k, nil
	default:
		return nil, wrongKeyType(e, k)
	}
}

func (e SaplingEngine) spendingKey(k ExtendedKey) (
	*sapling.ExtendedSpendingKey, error) {

	switch k := k.(type) {
	case *sapling.ExtendedSpendingKey:
		return k, nil
	case *sapling.ExtendedFullViewingKey:
		return nil, notPrivate(e)
	default:
		return nil, wrongKeyType(e, k)
	}
}

// PaymentAddress is a shielded address with its diversifier index and
// encoding.
type PaymentAddress struct {
	*sapling.PaymentAddress
	Index   sapling.DiversifierIndex
	encoded string
}

func (a *PaymentAddress) String() string {
	return a.encoded
}

// ScriptAddress returns d || repr(pk_d).
func (a *PaymentAddress) ScriptAddress() []byte {
	return a.Bytes()
}

// Address returns the default payment address of k.
func (e SaplingEngine) Address(k ExtendedKey, params *netparams.Params) (
	Address, error) {

	addr, err := e.FindAddress(k, sapling.DiversifierIndex{}, params)
	if err != nil {
		return nil, err
	}
	return addr, nil
}

// FindAddress returns the payment address of k at the first valid
// diversifier index at or after start.
func (e SaplingEngine) FindAddress(k ExtendedKey,
	start sapling.DiversifierIndex, params *netparams.Params) (
	*PaymentAddress, error) {

	xfvk, err := e.viewingKey(k)
	if err != nil {
		return nil, err
	}
	index, addr, err := xfvk.FindAddress(start)
	if err != nil {
		return nil, err
	}
	encoded, err := addr.Encode(params)
	if err != nil {
		return nil, err
	}

	return &PaymentAddress{
		PaymentAddress: addr,
		Index:          index,
		encoded:        encoded,
	}, nil
}

// ExportKey returns the extended spending key; a Sapling spending key has
// no shorter importable form.
func (e SaplingEngine) ExportKey(k ExtendedKey, params *netparams.Params) (
	string, error) {

	return e.ExportExtendedKey(k, params)
}

func (e SaplingEngine) ExportExtendedKey(k ExtendedKey,
	params *netparams.Params) (string, error) {

	xsk, err := e.spendingKey(k)
	if err != nil {
		return "", err
	}
	return sapling.EncodeExtendedSpendingKey(xsk, params)
}

func (e SaplingEngine) ExportViewingKey(k ExtendedKey,
	params *netparams.Params) (string, error) {

	xfvk, err := e.viewingKey(k)
	if err != nil {
		return "", err
	}
	return sapling.EncodeExtendedFullViewingKey(xfvk, params)
}
