package codec

import (
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/czh0526/zec-wallet/keyerr"
)

const (
	// Charset is the Bech32 data alphabet.
	Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

	// MaxHumanReadableLength bounds encoded Bech32 strings. Sapling
	// extended keys are far longer than the 90 characters BIP173 allows,
	// so the bound is the BCH code length instead.
	MaxHumanReadableLength = 1023

	bech32ChecksumLen = 6
)

// EncodeHumanReadable packs payload into 5-bit groups and returns the
// lowercase Bech32 string hrp || "1" || data || checksum.
func EncodeHumanReadable(hrp string, payload []byte) (string, error) {
	// hrp + separator + padded data groups + checksum
	encodedLen := len(hrp) + 1 + (len(payload)*8+4)/5 + bech32ChecksumLen
	if encodedLen > MaxHumanReadableLength {
		return "", keyerr.Errorf(keyerr.ErrInvalidLength,
			"encoded length %d exceeds %d", encodedLen, MaxHumanReadableLength)
	}
	if len(hrp) == 0 {
		return "", keyerr.Errorf(keyerr.ErrFormatMismatch,
			"empty human-readable prefix")
	}
	if strings.ToLower(hrp) != hrp {
		return "", keyerr.Errorf(keyerr.ErrMixedCase,
			"human-readable prefix %q is not lowercase", hrp)
	}

	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", keyerr.New(keyerr.ErrInvalidLength,
			"unable to convert payload to 5-bit groups", err)
	}

	s, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", keyerr.New(keyerr.ErrInvalidCharacter,
			"unable to encode bech32 string", err)
	}
	return s, nil
}

// DecodeHumanReadable decodes a Bech32 string and returns its lowercase
// prefix and the 8-bit payload.
func DecodeHumanReadable(s string) (hrp string, payload []byte, err error) {
	if len(s) > MaxHumanReadableLength {
		return "", nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"encoded length %d exceeds %d", len(s), MaxHumanReadableLength)
	}

	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", nil, convertBech32Error(err)
	}

	payload, err = bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, keyerr.New(keyerr.ErrInvalidLength,
			"invalid bech32 padding", err)
	}

	return hrp, payload, nil
}

func convertBech32Error(err error) error {
	var (
		errChecksum bech32.ErrInvalidChecksum
		errChar     bech32.ErrInvalidCharacter
		errNonChar  bech32.ErrNonCharsetChar
		errMixed    bech32.ErrMixedCase
		errLen      bech32.ErrInvalidLength
		errSep      bech32.ErrInvalidSeparatorIndex
	)

	switch {
	case errors.As(err, &errChecksum):
		return keyerr.New(keyerr.ErrChecksumMismatch, "bech32 checksum mismatch", err)
	case errors.As(err, &errChar), errors.As(err, &errNonChar):
		return keyerr.New(keyerr.ErrInvalidCharacter, "invalid bech32 character", err)
	case errors.As(err, &errMixed):
		return keyerr.New(keyerr.ErrMixedCase, "mixed case bech32 string", err)
	case errors.As(err, &errLen), errors.As(err, &errSep):
		return keyerr.New(keyerr.ErrInvalidLength, "invalid bech32 length", err)
	default:
		return keyerr.New(keyerr.ErrInvalidCharacter, "invalid bech32 string", err)
	}
}
