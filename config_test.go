package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeedHex = "000102030405060708090a0b0c0d0e0f" +
	"101112131415161718191a1b1c1d1e1f"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig([]string{"--seed", testSeedHex})
	require.NoError(t, err)

	assert.Equal(t, netparams.Transparent, cfg.pool)
	assert.Equal(t, netparams.Mainnet, cfg.network)
	assert.Equal(t, uint32(defaultCount), cfg.Count)
	assert.Equal(t, defaultLogLevel, cfg.DebugLevel)
	assert.Equal(t, filepath.Clean(defaultLogDir), cfg.LogDir)
	assert.Nil(t, cfg.path)
}

func TestLoadConfigOptions(t *testing.T) {
	dir := t.TempDir()
	cfg, err := loadConfig([]string{
		"--testnet", "--pool=sapling", "--account=3", "--index=7",
		"--count=5", "--seedfile", filepath.Join(dir, "seed.bin"),
		"--appdata", dir, "--debuglevel=AMGR=debug,SAPL=trace",
		"--path=m/32'/1'/3'",
	})
	require.NoError(t, err)

	assert.Equal(t, netparams.Sapling, cfg.pool)
	assert.Equal(t, netparams.Testnet, cfg.network)
	assert.Equal(t, uint32(3), cfg.Account)
	assert.Equal(t, uint32(7), cfg.Index)
	assert.Equal(t, uint32(5), cfg.Count)
	assert.Equal(t, filepath.Join(dir, defaultLogDirname), cfg.LogDir)
	assert.Equal(t, "m/32'/1'/3'", cfg.path.String())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no seed", nil},
		{"two seeds", []string{"--seed", testSeedHex, "--mnemonic"}},
		{"zero count", []string{"--seed", testSeedHex, "--count=0"}},
		{"huge count", []string{"--seed", testSeedHex, "--count=10001"}},
		{"bad pool", []string{"--seed", testSeedHex, "--pool=orchard"}},
		{"bad level", []string{"--seed", testSeedHex, "--debuglevel=loud"}},
		{"bad subsystem", []string{"--seed", testSeedHex, "--debuglevel=NOPE=info"}},
		{"bad pair", []string{"--seed", testSeedHex, "--debuglevel=AMGR=info=x"}},
		{"gen with seed", []string{"--genmnemonic", "--seed", testSeedHex}},
		{"extra args", []string{"--seed", testSeedHex, "extra"}},
		{"unknown flag", []string{"--seed", testSeedHex, "--rpcconnect=x"}},
		{"uncompressed sapling", []string{"--seed", testSeedHex, "--pool=sapling", "--uncompressed"}},
	}

	for _, test := range tests {
		_, err := loadConfig(test.args)
		assert.Error(t, err, test.name)
	}

	_, err := loadConfig([]string{"--seed", testSeedHex, "--path=m/x"})
	assert.True(t, keyerr.IsError(err, keyerr.ErrPathSyntax))

	cfg, err := loadConfig([]string{"--genmnemonic"})
	require.NoError(t, err)
	assert.True(t, cfg.GenMnemonic)
}

func TestRun(t *testing.T) {
	cfg, err := loadConfig([]string{"--seed", testSeedHex, "--count=3",
		"--index=10", "--showkeys", "--viewingkey"})
	require.NoError(t, err)

	provider, err := seedProvider(cfg, nil)
	require.NoError(t, err)
	seedBytes, err := provider.Seed()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, seedBytes, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "m/44'/133'/0'/0/10\tt1"))
	assert.True(t, strings.HasPrefix(lines[2], "m/44'/133'/0'/0/12\tt1"))
	assert.Contains(t, lines[3], "\tkey\t")
	assert.Contains(t, lines[4], "\tviewing key\txpub")
}

func TestRunSapling(t *testing.T) {
	cfg, err := loadConfig([]string{"--seed", testSeedHex, "--count=2",
		"--pool=sapling", "--showkeys"})
	require.NoError(t, err)

	seedBytes, err := seedProviderSeed(t, cfg)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, seedBytes, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "\tzs1")
	assert.Contains(t, lines[1], "\tzs1")
	assert.Contains(t, lines[2], "\tkey\tsecret-extended-key-main1")
}

func TestRunJSON(t *testing.T) {
	cfg, err := loadConfig([]string{"--seed", testSeedHex, "--json",
		"--pool=sapling", "--path=m/32'/133'/0'", "--showkeys",
		"--viewingkey"})
	require.NoError(t, err)

	seedBytes, err := seedProviderSeed(t, cfg)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, seedBytes, &out))

	var entries []entry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "m/32'/133'/0'", entries[0].Path)
	assert.Equal(t, "0000000000000000000000", entries[0].DiversifierIndex)
	assert.Equal(t,
		"zs1mrhc9y7jdh5r9ece8u5khgvj9kg0zgkxzdduyv0whkg7lkcrkx5xqem3e48avjq9wn2rukydkwn",
		entries[0].Address)
	assert.True(t, strings.HasPrefix(entries[0].Key, "secret-extended-key-main1"))
	assert.True(t, strings.HasPrefix(entries[0].ViewingKey, "zxviews1"))

	// keys are left out unless asked for
	cfg, err = loadConfig([]string{"--seed", testSeedHex, "--json",
		"--count=2"})
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, run(context.Background(), cfg, seedBytes, &out))
	assert.NotContains(t, out.String(), `"key"`)
	entries = nil
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "m/44'/133'/0'/0/1", entries[1].Path)
	assert.Empty(t, entries[1].DiversifierIndex)
}

func TestRunUncompressed(t *testing.T) {
	zeroSeed := strings.Repeat("00", 32)
	path := "--path=m/44'/133'/0'/0/0"

	tests := []struct {
		args []string
		want string
	}{
		{
			[]string{"--seed", zeroSeed, path, "--showkeys"},
			"KyRnDCvJgEsu38kZkJKzhR4HCtieV6XBsbth9bcNWpWdHF4MGr2a",
		},
		{
			[]string{"--seed", zeroSeed, path, "--showkeys", "--uncompressed"},
			"5JKJVbRK3zyPfYfRBiY3CRUvyATCfYA767zvxR9vMoZYL8oEKvM",
		},
	}

	for _, test := range tests {
		cfg, err := loadConfig(test.args)
		require.NoError(t, err)
		seedBytes, err := seedProviderSeed(t, cfg)
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, run(context.Background(), cfg, seedBytes, &out))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t,
			"m/44'/133'/0'/0/0\tt1cxv9NhrsKBfR8RaARWQ4qWmGvyjMM5aTc",
			lines[0])
		assert.Equal(t, "m/44'/133'/0'/0/0\tkey\t"+test.want, lines[1])
	}
}

func seedProviderSeed(t *testing.T, cfg *config) ([]byte, error) {
	t.Helper()
	provider, err := seedProvider(cfg, nil)
	if err != nil {
		return nil, err
	}
	return provider.Seed()
}
