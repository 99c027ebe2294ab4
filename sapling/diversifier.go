package sapling

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/capitalone/fpe/ff1"
	"github.com/czh0526/zec-wallet/keyerr"
)

// MaxDiversifierAttempts bounds the search for a valid diversifier.  Each
// candidate is valid with probability about 1/2.
const MaxDiversifierAttempts = 256

// DiversifierIndex is an 88-bit little-endian counter.
type DiversifierIndex [11]byte

// NewDiversifierIndex returns the index j.
func NewDiversifierIndex(j uint64) DiversifierIndex {
	var index DiversifierIndex
	binary.LittleEndian.PutUint64(index[:8], j)
	return index
}

// increment adds one to the index.  It returns false when the counter
// wraps.
func (j *DiversifierIndex) increment() bool {
	for i := range j {
		j[i]++
		if j[i] != 0 {
			return true
		}
	}
	return false
}

// Next returns j + 1, or false if j is the last index.
func (j DiversifierIndex) Next() (DiversifierIndex, bool) {
	ok := j.increment()
	return j, ok
}

func (j DiversifierIndex) String() string {
	return hex.EncodeToString(j[:])
}

// Diversifier selects one of the payment addresses of a key.
type Diversifier [11]byte

// g returns g_d, or false when d is not a valid diversifier.
func (d Diversifier) g() (*Point, bool) {
	return groupHash(diversifierPersonalization, d[:])
}

// IsValid reports whether d has a diversified base.
func (d Diversifier) IsValid() bool {
	_, ok := d.g()
	return ok
}

func (dk DiversifierKey) cipher() (ff1.Cipher, error) {
	cipher, err := ff1.NewCipher(2, 0, dk[:], nil)
	if err != nil {
		return ff1.Cipher{}, keyerr.New(keyerr.ErrInvalidKey,
			"unable to create diversifier cipher", err)
	}
	return cipher, nil
}

// Diversifier returns the candidate diversifier at index j: the FF1-AES256
// encryption of j under dk.  The candidate may be invalid.
func (dk DiversifierKey) Diversifier(j DiversifierIndex) (Diversifier, error) {
	cipher, err := dk.cipher()
	if err != nil {
		return Diversifier{}, err
	}
	return encryptIndex(cipher, j)
}

func encryptIndex(cipher ff1.Cipher, j DiversifierIndex) (Diversifier, error) {
	ciphertext, err := cipher.Encrypt(bytesToNumerals(j[:]))
	if err != nil {
		return Diversifier{}, keyerr.New(keyerr.ErrInvalidKey,
			"unable to encrypt diversifier index", err)
	}

	var d Diversifier
	if err := numeralsToBytes(ciphertext, d[:]); err != nil {
		return Diversifier{}, err
	}
	return d, nil
}

// bytesToNumerals writes b as a binary numeral string, least significant
// bit of each byte first.
func bytesToNumerals(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 8)
	for _, c := range b {
		for i := 0; i < 8; i++ {
			sb.WriteByte('0' + (c>>i)&1)
		}
	}
	return sb.String()
}

func numeralsToBytes(s string, out []byte) error {
	n := len(out) * 8
	if len(s) > n {
		return keyerr.Errorf(keyerr.ErrInvalidLength,
			"numeral string of %d digits exceeds %d", len(s), n)
	}
	s = strings.Repeat("0", n-len(s)) + s

	for i := range out {
		out[i] = 0
	}
	for i := 0; i < n; i++ {
		switch s[i] {
		case '0':
		case '1':
			out[i/8] |= 1 << (i % 8)
		default:
			return keyerr.Errorf(keyerr.ErrInvalidCharacter,
				"invalid binary numeral %q", s[i])
		}
	}
	return nil
}

// findDiversifier returns the first valid diversifier at or after start,
// trying at most maxAttempts indexes.
func (dk DiversifierKey) findDiversifier(start DiversifierIndex,
	maxAttempts int) (DiversifierIndex, Diversifier, *Point, error) {

	cipher, err := dk.cipher()
	if err != nil {
		return DiversifierIndex{}, Diversifier{}, nil, err
	}

	j := start
	for attempt := 0; attempt < maxAttempts; attempt++ {
		d, err := encryptIndex(cipher, j)
		if err != nil {
			return DiversifierIndex{}, Diversifier{}, nil, err
		}
		if gd, ok := d.g(); ok {
			return j, d, gd, nil
		}

		log.Tracef("Diversifier at index %v has no base point", j)
		if !j.increment() {
			break
		}
	}

	return DiversifierIndex{}, Diversifier{}, nil, keyerr.Errorf(
		keyerr.ErrDiversifierExhaustion,
		"no valid diversifier within %d attempts from index %v",
		maxAttempts, start)
}

// FindDiversifier returns the first valid diversifier at or after start.
func (dk DiversifierKey) FindDiversifier(start DiversifierIndex) (
	DiversifierIndex, Diversifier, error) {

	j, d, _, err := dk.findDiversifier(start, MaxDiversifierAttempts)
	return j, d, err
}
