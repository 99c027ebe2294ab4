// Package codec implements the two checksummed text encodings used for
// addresses and keys: Base58Check with arbitrary length version bytes and
// Bech32.
package codec

import (
	"bytes"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/czh0526/zec-wallet/keyerr"
)

const (
	// Alphabet is the Base58 alphabet.
	Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	// ChecksumLen is the number of SHA256d bytes appended to the payload.
	ChecksumLen = 4

	// MaxVersionedLength bounds the length of a string accepted by
	// DecodeVersioned. An extended key, the longest value, encodes to 111
	// characters.
	MaxVersionedLength = 128
)

func checksum(input []byte) [ChecksumLen]byte {
	var cksum [ChecksumLen]byte
	copy(cksum[:], chainhash.DoubleHashB(input))
	return cksum
}

// EncodeVersioned returns the Base58 encoding of version || payload
// followed by the first four bytes of its double SHA256.
func EncodeVersioned(version, payload []byte) string {
	b := make([]byte, 0, len(version)+len(payload)+ChecksumLen)
	b = append(b, version...)
	b = append(b, payload...)
	cksum := checksum(b)
	b = append(b, cksum[:]...)
	return base58.Encode(b)
}

// DecodeVersioned decodes a string produced by EncodeVersioned, splitting
// off versionLen leading bytes as the version.
func DecodeVersioned(s string, versionLen int) (version, payload []byte, err error) {
	if len(s) == 0 || len(s) > MaxVersionedLength {
		return nil, nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"encoded length %d outside 1..%d", len(s), MaxVersionedLength)
	}
	for i, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return nil, nil, keyerr.Errorf(keyerr.ErrInvalidCharacter,
				"invalid base58 character %q at position %d", r, i)
		}
	}

	decoded := base58.Decode(s)
	if len(decoded) < versionLen+ChecksumLen {
		return nil, nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"decoded length %d shorter than version and checksum", len(decoded))
	}

	body := decoded[:len(decoded)-ChecksumLen]
	cksum := checksum(body)
	if !bytes.Equal(cksum[:], decoded[len(decoded)-ChecksumLen:]) {
		return nil, nil, keyerr.Errorf(keyerr.ErrChecksumMismatch,
			"expected checksum %x but got %x", cksum,
			decoded[len(decoded)-ChecksumLen:])
	}

	return body[:versionLen], body[versionLen:], nil
}
