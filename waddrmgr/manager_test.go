package waddrmgr

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/czh0526/zec-wallet/hdpath"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	seed = []byte{
		0x2a, 0x64, 0xdf, 0x08, 0x5e, 0xef, 0xed, 0xd8, 0xbf,
		0xdb, 0xb3, 0x31, 0x76, 0xb5, 0xba, 0x2e, 0x62, 0xe8,
		0xbe, 0x8b, 0x56, 0xc8, 0x83, 0x77, 0x95, 0x59, 0x8b,
		0xb6, 0xc4, 0x40, 0xc0, 0x64,
	}

	rootKey, _ = hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
)

// referenceKey derives path with btcutil/hdkeychain.
func referenceKey(t *testing.T, path hdpath.Path) *hdkeychain.ExtendedKey {
	t.Helper()

	k := rootKey
	for _, index := range path {
		var err error
		k, err = k.Derive(uint32(index))
		require.NoError(t, err)
	}
	return k
}

func mustParse(t *testing.T, s string) hdpath.Path {
	t.Helper()
	path, err := hdpath.Parse(s)
	require.NoError(t, err)
	return path
}

func TestDefaultPath(t *testing.T) {
	tests := []struct {
		name    string
		pool    netparams.Pool
		network netparams.Network
		account uint32
		index   uint32
		want    string
		errCode keyerr.ErrorCode
		wantErr bool
	}{
		{
			name: "transparent mainnet",
			pool: netparams.Transparent, network: netparams.Mainnet,
			account: 0, index: 7,
			want: "m/44'/133'/0'/0/7",
		},
		{
			name: "transparent testnet",
			pool: netparams.Transparent, network: netparams.Testnet,
			account: 2, index: 0,
			want: "m/44'/1'/2'/0/0",
		},
		{
			name: "sapling ignores index",
			pool: netparams.Sapling, network: netparams.Mainnet,
			account: 1, index: 9,
			want: "m/32'/133'/1'",
		},
		{
			name: "sapling testnet",
			pool: netparams.Sapling, network: netparams.Testnet,
			want: "m/32'/1'/0'",
		},
		{
			name: "account overflow",
			pool: netparams.Transparent, network: netparams.Mainnet,
			account: MaxAccountNum + 1,
			errCode: keyerr.ErrIndexOverflow, wantErr: true,
		},
		{
			name: "index overflow",
			pool: netparams.Transparent, network: netparams.Mainnet,
			index:   MaxAddressIndex + 1,
			errCode: keyerr.ErrIndexOverflow, wantErr: true,
		},
		{
			name: "unknown pool",
			pool: netparams.Pool(7), network: netparams.Mainnet,
			errCode: keyerr.ErrUnsupportedFormat, wantErr: true,
		},
		{
			name: "unknown network",
			pool: netparams.Transparent, network: netparams.Network(7),
			errCode: keyerr.ErrUnsupportedFormat, wantErr: true,
		},
	}

	for _, test := range tests {
		path, err := DefaultPath(test.pool, test.network, test.account,
			test.index)
		if test.wantErr {
			checkManagerError(t, test.name, err, test.errCode)
			continue
		}
		require.NoError(t, err, test.name)
		assert.Equal(t, test.want, path.String(), test.name)
	}
}

func TestKeyScope(t *testing.T) {
	scope, err := KeyScopeForPool(netparams.Transparent, netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, KeyScope{Purpose: 44, Coin: 133}, scope)
	assert.Equal(t, "m/44'/133'", scope.String())

	scope, err = KeyScopeForPool(netparams.Sapling, netparams.Testnet)
	require.NoError(t, err)
	assert.Equal(t, KeyScope{Purpose: 32, Coin: 1}, scope)
	assert.Equal(t, "m/32'/1'", scope.Path().String())
}

func TestDeriveAddressTransparent(t *testing.T) {
	path := mustParse(t, "m/44'/133'/0'/0/0")

	addr, err := DeriveAddress(seed, path, netparams.Transparent,
		netparams.Mainnet)
	require.NoError(t, err)

	ref := referenceKey(t, path)
	refPub, err := ref.ECPubKey()
	require.NoError(t, err)

	assert.Equal(t, netparams.Transparent, addr.Pool())
	assert.Equal(t, netparams.Mainnet, addr.Network())
	assert.Equal(t, PubKeyHash, addr.AddrType())
	assert.Equal(t, path, addr.DerivationPath())
	assert.True(t, strings.HasPrefix(addr.String(), "t1"))
	assert.Equal(t, btcutil.Hash160(refPub.SerializeCompressed()),
		addr.AddrHash())
	assert.Equal(t, addr.String(), addr.Address().String())

	pubAddr, ok := addr.(ManagedPubKeyAddress)
	require.True(t, ok)
	assert.True(t, pubAddr.PubKey().IsEqual(refPub))
	assert.True(t, pubAddr.Compressed())
	assert.Len(t, pubAddr.ExportPubKey(), 66)

	testAddr, err := DeriveAddress(seed, mustParse(t, "m/44'/1'/0'/0/0"),
		netparams.Transparent, netparams.Testnet)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(testAddr.String(), "tm"))
}

func TestDeriveExportableKeys(t *testing.T) {
	path := mustParse(t, "m/44'/133'/0'/0/1")
	ref := referenceKey(t, path)

	refPriv, err := ref.ECPrivKey()
	require.NoError(t, err)
	refWIF, err := btcutil.NewWIF(refPriv, &chaincfg.MainNetParams, true)
	require.NoError(t, err)

	wif, err := DeriveExportableKey(seed, path, netparams.Transparent,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, refWIF.String(), wif)

	xprv, err := DeriveExtendedKey(seed, path, netparams.Transparent,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, ref.String(), xprv)

	refPub, err := ref.Neuter()
	require.NoError(t, err)
	xpub, err := DeriveViewingKey(seed, path, netparams.Transparent,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, refPub.String(), xpub)
}

func TestDeriveSapling(t *testing.T) {
	path := mustParse(t, "m/32'/133'/0'")

	addr, err := DeriveAddress(seed, path, netparams.Sapling,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, netparams.Sapling, addr.Pool())
	assert.Equal(t, SaplingPaymentAddress, addr.AddrType())
	assert.True(t, strings.HasPrefix(addr.String(), "zs1"))
	assert.Len(t, addr.AddrHash(), 43)

	shielded, ok := addr.(ManagedShieldedAddress)
	require.True(t, ok)
	d := shielded.Diversifier()
	assert.Equal(t, d[:], addr.AddrHash()[:11])
	pkd := shielded.TransmissionKey()
	assert.Equal(t, pkd[:], addr.AddrHash()[11:])

	xsk, err := DeriveExportableKey(seed, path, netparams.Sapling,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(xsk, "secret-extended-key-main1"))

	extended, err := DeriveExtendedKey(seed, path, netparams.Sapling,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, xsk, extended)

	xfvk, err := DeriveViewingKey(seed, path, netparams.Sapling,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(xfvk, "zxviews1"))

	// 同一种子、同一路径，结果不变
	again, err := DeriveAddress(seed, path, netparams.Sapling,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, addr.String(), again.String())
}

func TestDeriveWIF(t *testing.T) {
	path := mustParse(t, "m/44'/133'/0'/0/1")
	refPriv, err := referenceKey(t, path).ECPrivKey()
	require.NoError(t, err)

	for _, compress := range []bool{true, false} {
		refWIF, err := btcutil.NewWIF(refPriv, &chaincfg.MainNetParams,
			compress)
		require.NoError(t, err)

		wif, err := DeriveWIF(seed, path, netparams.Mainnet, compress)
		require.NoError(t, err)
		assert.Equal(t, refWIF.String(), wif, "compress %v", compress)
	}

	compressed, err := DeriveExportableKey(seed, path, netparams.Transparent,
		netparams.Mainnet)
	require.NoError(t, err)
	wif, err := DeriveWIF(seed, path, netparams.Mainnet, true)
	require.NoError(t, err)
	assert.Equal(t, compressed, wif)
}

// TestDeriveVectors pins the outputs for fixed seeds.
func TestDeriveVectors(t *testing.T) {
	zeroSeed := make([]byte, 32)
	path := mustParse(t, "m/44'/133'/0'/0/0")

	addr, err := DeriveAddress(zeroSeed, path, netparams.Transparent,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, "t1cxv9NhrsKBfR8RaARWQ4qWmGvyjMM5aTc", addr.String())

	wif, err := DeriveExportableKey(zeroSeed, path, netparams.Transparent,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, "KyRnDCvJgEsu38kZkJKzhR4HCtieV6XBsbth9bcNWpWdHF4MGr2a", wif)

	wif, err = DeriveWIF(zeroSeed, path, netparams.Mainnet, false)
	require.NoError(t, err)
	assert.Equal(t, "5JKJVbRK3zyPfYfRBiY3CRUvyATCfYA767zvxR9vMoZYL8oEKvM", wif)

	countingSeed := make([]byte, 32)
	for i := range countingSeed {
		countingSeed[i] = byte(i)
	}
	path = mustParse(t, "m/32'/133'/0'")

	addr, err = DeriveAddress(countingSeed, path, netparams.Sapling,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t,
		"zs1mrhc9y7jdh5r9ece8u5khgvj9kg0zgkxzdduyv0whkg7lkcrkx5xqem3e48avjq9wn2rukydkwn",
		addr.String())

	xsk, err := DeriveExportableKey(countingSeed, path, netparams.Sapling,
		netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, "secret-extended-key-main1qvmjmz6rqqqqpqzwtfucl5xld0ptzguvaate2mhn255ts7jtym9ram4j3vgg4g9wj2xetfdh8gepzmg3utfe96se4r0zhx6c02dpn9w46l75scpx6m6sh8ulfrf8j7yqkjk8vqcq279chxw9wpt2r2js8x4pqvn5j7dpc9sv3m5ze9p4fr2wx0605vr64dqupvzg2x3pmw7pty5gddk63vkxhekc7lq8lgdzmtcsehsn0ml404v0ztclm8utupzcvujfk4ylqk5sqsqplg80g",
		xsk)

	_, err = DeriveWIF(zeroSeed, mustParse(t, "m/32'/133'/0'"),
		netparams.Network(5), true)
	checkManagerError(t, "unknown network", err,
		keyerr.ErrUnsupportedFormat)
}

func TestDeriveErrors(t *testing.T) {
	_, err := DeriveAddress(seed, mustParse(t, "m/32'/133'/0'/0"),
		netparams.Sapling, netparams.Mainnet)
	checkManagerError(t, "non-hardened sapling", err,
		keyerr.ErrNonHardenedShielded)

	_, err = DeriveAddress(seed[:16], mustParse(t, "m/0"),
		netparams.Transparent, netparams.Mainnet)
	checkManagerError(t, "short seed", err, keyerr.ErrSeedLength)

	_, err = DeriveExportableKey(seed, mustParse(t, "m/0"),
		netparams.Pool(5), netparams.Mainnet)
	checkManagerError(t, "unknown pool", err, keyerr.ErrUnsupportedFormat)

	_, err = DeriveViewingKey(seed, mustParse(t, "m/0"),
		netparams.Transparent, netparams.Network(5))
	checkManagerError(t, "unknown network", err,
		keyerr.ErrUnsupportedFormat)
}

func TestDeriveAddressesTransparent(t *testing.T) {
	const start, count = 3, 6

	addrs, err := DeriveAddresses(context.Background(), seed,
		netparams.Transparent, netparams.Mainnet, 1, start, count)
	require.NoError(t, err)
	require.Len(t, addrs, count)

	for i, addr := range addrs {
		path, err := DefaultPath(netparams.Transparent,
			netparams.Mainnet, 1, uint32(start+i))
		require.NoError(t, err)

		want, err := DeriveAddress(seed, path, netparams.Transparent,
			netparams.Mainnet)
		require.NoError(t, err)

		assert.Equal(t, want.String(), addr.String())
		assert.Equal(t, path, addr.DerivationPath())
	}
}

func TestDeriveAddressesSapling(t *testing.T) {
	addrs, err := DeriveAddresses(context.Background(), seed,
		netparams.Sapling, netparams.Mainnet, 0, 0, 4)
	require.NoError(t, err)
	require.Len(t, addrs, 4)

	first, err := DeriveAddress(seed, mustParse(t, "m/32'/133'/0'"),
		netparams.Sapling, netparams.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, first.String(), addrs[0].String())

	seen := make(map[string]struct{})
	var prev []byte
	for _, addr := range addrs {
		shielded := addr.(ManagedShieldedAddress)
		index := shielded.DiversifierIndex()

		// 索引严格递增（小端序比较）
		if prev != nil {
			assert.True(t, lessLE(prev, index[:]))
		}
		prev = append([]byte(nil), index[:]...)

		_, dup := seen[addr.String()]
		assert.False(t, dup)
		seen[addr.String()] = struct{}{}

		assert.Equal(t, "m/32'/133'/0'", addr.DerivationPath().String())
	}

	// Starting at a later index skips the earlier addresses.
	idx := addrs[1].(ManagedShieldedAddress).DiversifierIndex()
	later, err := DeriveAddresses(context.Background(), seed,
		netparams.Sapling, netparams.Mainnet, 0,
		binary.LittleEndian.Uint32(idx[:4]), 1)
	require.NoError(t, err)
	assert.Equal(t, addrs[1].String(), later[0].String())
}

// lessLE reports whether a < b as little-endian integers.
func lessLE(a, b []byte) bool {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestDeriveAddressesEdges(t *testing.T) {
	ctx := context.Background()

	addrs, err := DeriveAddresses(ctx, seed, netparams.Transparent,
		netparams.Mainnet, 0, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, addrs)

	_, err = DeriveAddresses(ctx, seed, netparams.Transparent,
		netparams.Mainnet, 0, MaxAddressIndex, 2)
	checkManagerError(t, "index overflow", err, keyerr.ErrIndexOverflow)

	last, err := DeriveAddresses(ctx, seed, netparams.Transparent,
		netparams.Mainnet, 0, MaxAddressIndex, 1)
	require.NoError(t, err)
	require.Len(t, last, 1)

	_, err = DeriveAddresses(ctx, seed, netparams.Pool(9),
		netparams.Mainnet, 0, 0, 1)
	checkManagerError(t, "unknown pool", err, keyerr.ErrUnsupportedFormat)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	for _, pool := range []netparams.Pool{netparams.Transparent, netparams.Sapling} {
		_, err = DeriveAddresses(canceled, seed, pool,
			netparams.Mainnet, 0, 0, 3)
		assert.ErrorIs(t, err, context.Canceled, pool.String())
	}
}

func TestValidate(t *testing.T) {
	path := mustParse(t, "m/44'/133'/0'/0/0")
	addr, err := DeriveAddress(seed, path, netparams.Transparent,
		netparams.Mainnet)
	require.NoError(t, err)

	v, ok := addr.(ValidatableManagedAddress)
	require.True(t, ok)

	refPriv, err := referenceKey(t, path).ECPrivKey()
	require.NoError(t, err)

	var msg [32]byte
	copy(msg[:], "validate this message please....")
	require.NoError(t, v.Validate(msg, refPriv))

	other, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	assert.ErrorIs(t, v.Validate(msg, other), ErrPubKeyMismatch)
}

func TestAddressTypeString(t *testing.T) {
	assert.Equal(t, "p2pkh", PubKeyHash.String())
	assert.Equal(t, "sapling", SaplingPaymentAddress.String())
	assert.Contains(t, AddressType(9).String(), "unknown")
}
