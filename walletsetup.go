package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/czh0526/zec-wallet/internal/prompt"
	"github.com/czh0526/zec-wallet/internal/zero"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/czh0526/zec-wallet/seed"
)

// mnemonicEntropyBits is the entropy of generated mnemonics (24 words).
const mnemonicEntropyBits = 256

func networkDir(dataDir string, params *netparams.Params) string {
	return filepath.Join(dataDir, params.Name)
}

// seedProvider picks the seed source selected on the command line.
func seedProvider(cfg *config, reader *bufio.Reader) (seed.Provider, error) {
	switch {
	case cfg.Seed != "":
		return seed.HexProvider(cfg.Seed), nil

	case cfg.Mnemonic:
		mnemonic, err := prompt.Mnemonic(reader)
		if err != nil {
			return nil, err
		}
		passphrase, err := prompt.Passphrase(reader,
			"Mnemonic passphrase (empty for none)", false)
		if err != nil {
			return nil, err
		}
		return seed.MnemonicProvider{
			Mnemonic:   mnemonic,
			Passphrase: string(passphrase),
		}, nil

	case cfg.SeedFile != "":
		sealed, err := os.ReadFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		password, err := prompt.Passphrase(reader, "Seed file passphrase",
			false)
		if err != nil {
			return nil, err
		}
		return seed.SealedProvider{Sealed: sealed, Password: password}, nil

	default:
		return nil, errors.New("no seed source configured")
	}
}

// genMnemonic prints a new mnemonic.  When a seed file is configured the
// mnemonic's seed is sealed to it under a new passphrase.
func genMnemonic(cfg *config, reader *bufio.Reader, w io.Writer) error {
	mnemonic, err := seed.NewMnemonic(mnemonicEntropyBits)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Your wallet generation seed is:")
	fmt.Fprintln(w, mnemonic)
	fmt.Fprintln(w, "IMPORTANT: Keep the seed in a safe place as you will "+
		"NOT be able to restore your wallet without it.")

	if cfg.SeedFile == "" {
		return nil
	}
	if _, err := os.Stat(cfg.SeedFile); err == nil {
		return fmt.Errorf("the seed file %v already exists", cfg.SeedFile)
	}

	seedBytes, err := seed.MnemonicProvider{Mnemonic: mnemonic}.Seed()
	if err != nil {
		return err
	}
	defer zero.Bytes(seedBytes)

	password, err := prompt.Passphrase(reader, "New seed file passphrase",
		true)
	if err != nil {
		return err
	}
	defer zero.Bytes(password)

	sealed, err := seed.SealSeed(seedBytes, password)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SeedFile), 0700); err != nil {
		return err
	}
	if err := os.WriteFile(cfg.SeedFile, sealed, 0600); err != nil {
		return err
	}

	log.Infof("Sealed seed written to %v", cfg.SeedFile)
	return nil
}
