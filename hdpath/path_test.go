package hdpath

import (
	"testing"

	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"m", Path{}},
		{"M", Path{}},
		{"m/0", Path{Normal(0)}},
		{"m/0/1/2/3", Path{Normal(0), Normal(1), Normal(2), Normal(3)}},
		{"m/0'", Path{Hardened(0)}},
		{"m/0'/1/2'", Path{Hardened(0), Normal(1), Hardened(2)}},
		{"m/0h/1'/2H", Path{Hardened(0), Hardened(1), Hardened(2)}},
		{"m/44'/133'/0'/0/0", Path{Hardened(44), Hardened(133), Hardened(0), Normal(0), Normal(0)}},
		{"m/2147483647", Path{Normal(2147483647)}},
		{"m/2147483647'", Path{ChildIndex(0xffffffff)}},
	}

	for _, test := range tests {
		got, err := Parse(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, got, test.in)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		in   string
		code keyerr.ErrorCode
	}{
		{"", keyerr.ErrPathSyntax},
		{"n", keyerr.ErrPathSyntax},
		{"n/0", keyerr.ErrPathSyntax},
		{"1/0", keyerr.ErrPathSyntax},
		{"0/m", keyerr.ErrPathSyntax},
		{"/m/0", keyerr.ErrPathSyntax},
		{"m/", keyerr.ErrPathSyntax},
		{"m//0", keyerr.ErrPathSyntax},
		{"m/0x", keyerr.ErrPathSyntax},
		{"m/0x00", keyerr.ErrPathSyntax},
		{"m/'", keyerr.ErrPathSyntax},
		{"m/0''", keyerr.ErrPathSyntax},
		{"m/-1", keyerr.ErrPathSyntax},
		{"m/+1", keyerr.ErrPathSyntax},
		{"m/ 1", keyerr.ErrPathSyntax},
		{"m/2147483648", keyerr.ErrIndexOverflow},
		{"m/2147483648'", keyerr.ErrIndexOverflow},
		{"m/4294967296", keyerr.ErrIndexOverflow},
		{"m/99999999999999999999999", keyerr.ErrIndexOverflow},
	}

	for _, test := range tests {
		_, err := Parse(test.in)
		require.Error(t, err, test.in)
		assert.True(t, keyerr.IsError(err, test.code),
			"%q: got %v, want %v", test.in, err, test.code)
	}
}

func TestPathString(t *testing.T) {
	for _, s := range []string{"m", "m/0", "m/44'/133'/0'/0/7", "m/32'/1'/5'"} {
		p, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, p.String())
	}

	p, err := Parse("M/1h/2H")
	require.NoError(t, err)
	assert.Equal(t, "m/1'/2'", p.String())
}

func TestChildIndex(t *testing.T) {
	i, err := NewChildIndex(5, true)
	require.NoError(t, err)
	assert.True(t, i.IsHardened())
	assert.Equal(t, uint32(5), i.Value())
	assert.Equal(t, uint32(0x80000005), uint32(i))

	_, err = NewChildIndex(HardenedKeyStart, false)
	assert.True(t, keyerr.IsError(err, keyerr.ErrIndexOverflow))

	assert.Panics(t, func() { Hardened(HardenedKeyStart) })
}

func TestPathHelpers(t *testing.T) {
	base := Path{Hardened(32), Hardened(133)}
	child := base.Child(Hardened(0))

	assert.Len(t, base, 2)
	assert.Equal(t, "m/32'/133'/0'", child.String())
	assert.True(t, child.IsHardenedOnly())
	assert.False(t, child.Child(Normal(0)).IsHardenedOnly())
	assert.True(t, Path{}.IsHardenedOnly())
}
