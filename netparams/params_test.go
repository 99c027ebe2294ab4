package netparams

import (
	"testing"

	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTags(t *testing.T) {
	tests := []struct {
		format  Format
		version []byte
		hrp     string
	}{
		{Format{Mainnet, Transparent}, []byte{0x1c, 0xb8}, ""},
		{Format{Testnet, Transparent}, []byte{0x1d, 0x25}, ""},
		{Format{Mainnet, Sapling}, nil, "zs"},
		{Format{Testnet, Sapling}, nil, "ztestsapling"},
	}

	for _, test := range tests {
		tag, err := test.format.Tag()
		require.NoError(t, err, test.format.String())
		assert.Equal(t, test.version, tag.Version, test.format.String())
		assert.Equal(t, test.hrp, tag.HRP, test.format.String())
	}
}

func TestNetworksAreIsolated(t *testing.T) {
	main, test := MainNetParams, TestNetParams

	assert.NotEqual(t, main.PubKeyHashAddrID, test.PubKeyHashAddrID)
	assert.NotEqual(t, main.ScriptHashAddrID, test.ScriptHashAddrID)
	assert.NotEqual(t, main.PrivateKeyID, test.PrivateKeyID)
	assert.NotEqual(t, main.HDPrivateKeyID(), test.HDPrivateKeyID())
	assert.NotEqual(t, main.HDPublicKeyID(), test.HDPublicKeyID())
	assert.NotEqual(t, main.SaplingPaymentAddressHRP, test.SaplingPaymentAddressHRP)
	assert.NotEqual(t, main.SaplingExtendedSpendingKeyHRP, test.SaplingExtendedSpendingKeyHRP)
	assert.NotEqual(t, main.SaplingExtendedFullViewingKeyHRP, test.SaplingExtendedFullViewingKeyHRP)
}

func TestForNetwork(t *testing.T) {
	params, err := ForNetwork(Mainnet)
	require.NoError(t, err)
	assert.Equal(t, uint32(133), params.HDCoinType)
	assert.Equal(t, [4]byte{0x04, 0x88, 0xad, 0xe4}, params.HDPrivateKeyID())

	params, err = ForNetwork(Testnet)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), params.HDCoinType)

	_, err = ForNetwork(Network(9))
	assert.True(t, keyerr.IsError(err, keyerr.ErrUnsupportedFormat))

	_, err = Format{Mainnet, Pool(7)}.Tag()
	assert.True(t, keyerr.IsError(err, keyerr.ErrUnsupportedFormat))
}

func TestParseNames(t *testing.T) {
	n, err := ParseNetwork("TestNet")
	require.NoError(t, err)
	assert.Equal(t, Testnet, n)

	p, err := ParsePool("shielded")
	require.NoError(t, err)
	assert.Equal(t, Sapling, p)

	_, err = ParseNetwork("regtest")
	assert.True(t, keyerr.IsError(err, keyerr.ErrUnsupportedFormat))
	_, err = ParsePool("orchard")
	assert.True(t, keyerr.IsError(err, keyerr.ErrUnsupportedFormat))
}
