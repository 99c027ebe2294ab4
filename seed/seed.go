/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

// Package seed supplies the root seed that keys are derived from.  Seeds
// come only from an explicit Provider.
package seed

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/snacl"
	"github.com/tyler-smith/go-bip39"
)

// Provider returns a seed.  Callers own the returned slice and should wipe
// it when done.
type Provider interface {
	Seed() ([]byte, error)
}

// NewSeed returns a random seed of the recommended length.
func NewSeed() ([]byte, error) {
	return RandomProvider{}.Seed()
}

// RandomProvider reads Length bytes from the system CSPRNG.  A zero
// Length selects hdkeychain.RecommendedSeedLen.
type RandomProvider struct {
	Length uint8
}

func (p RandomProvider) Seed() ([]byte, error) {
	length := p.Length
	if length == 0 {
		length = hdkeychain.RecommendedSeedLen
	}

	seed, err := hdkeychain.GenerateSeed(length)
	if err != nil {
		return nil, keyerr.New(keyerr.ErrSeedLength,
			fmt.Sprintf("cannot generate a %d byte seed", length), err)
	}
	return seed, nil
}

// HexProvider decodes a hex encoded seed.
type HexProvider string

func (p HexProvider) Seed() ([]byte, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(string(p)))
	if err != nil {
		return nil, keyerr.New(keyerr.ErrInvalidCharacter,
			"seed is not valid hex", err)
	}
	return seed, nil
}

// MnemonicProvider turns a BIP39 mnemonic and optional passphrase into a
// 64-byte seed.  The mnemonic checksum is verified.
type MnemonicProvider struct {
	Mnemonic   string
	Passphrase string
}

func (p MnemonicProvider) Seed() ([]byte, error) {
	mnemonic := strings.Join(strings.Fields(p.Mnemonic), " ")
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, p.Passphrase)
	if err != nil {
		return nil, keyerr.New(keyerr.ErrChecksumMismatch,
			"invalid mnemonic", err)
	}

	log.Debugf("Loaded seed from a %d word mnemonic",
		len(strings.Fields(mnemonic)))
	return seed, nil
}

// NewMnemonic returns a fresh mnemonic carrying bits of entropy.  bits must
// be a multiple of 32 between 128 and 256.
func NewMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", keyerr.New(keyerr.ErrSeedLength,
			fmt.Sprintf("invalid entropy size %d", bits), err)
	}
	return bip39.NewMnemonic(entropy)
}

// SealedProvider opens a seed sealed with SealSeed.
type SealedProvider struct {
	Sealed   []byte
	Password []byte
}

func (p SealedProvider) Seed() ([]byte, error) {
	seed, err := snacl.Open(p.Sealed, p.Password)
	if err != nil {
		return nil, fmt.Errorf("unable to open sealed seed: %w", err)
	}
	return seed, nil
}

// SealSeed encrypts seed under password with the default scrypt costs.
func SealSeed(seed, password []byte) ([]byte, error) {
	return snacl.Seal(seed, password, snacl.DefaultN, snacl.DefaultR,
		snacl.DefaultP)
}
