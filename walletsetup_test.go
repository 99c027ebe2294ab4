package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/czh0526/zec-wallet/netparams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func TestGenMnemonic(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, genMnemonic(&config{}, nil, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Len(t, strings.Fields(lines[1]), 24)
	assert.True(t, bip39.IsMnemonicValid(lines[1]))
}

func TestGenMnemonicExistingSeedFile(t *testing.T) {
	seedFile := filepath.Join(t.TempDir(), "seed.bin")
	require.NoError(t, os.WriteFile(seedFile, []byte("x"), 0600))

	var out bytes.Buffer
	err := genMnemonic(&config{SeedFile: seedFile}, nil, &out)
	assert.ErrorContains(t, err, "already exists")
}

func TestSeedProviderMissingFile(t *testing.T) {
	cfg := &config{SeedFile: filepath.Join(t.TempDir(), "missing")}
	_, err := seedProvider(cfg, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = seedProvider(&config{}, nil)
	assert.Error(t, err)
}

func TestNetworkDir(t *testing.T) {
	assert.Equal(t, filepath.Join("logs", "testnet"),
		networkDir("logs", &netparams.TestNetParams))
}
