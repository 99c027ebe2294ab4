// Package hdpath parses and renders hierarchical deterministic derivation
// paths such as m/44'/133'/0'/0/0.
package hdpath

import (
	"strconv"
	"strings"

	"github.com/czh0526/zec-wallet/keyerr"
)

// HardenedKeyStart is the index of the first hardened child.
const HardenedKeyStart uint32 = 0x80000000

// ChildIndex is a child number with the hardened flag in bit 31.
type ChildIndex uint32

// NewChildIndex returns the index for value, flagged as hardened when
// requested. value must fit in 31 bits.
func NewChildIndex(value uint32, hardened bool) (ChildIndex, error) {
	if value >= HardenedKeyStart {
		return 0, keyerr.Errorf(keyerr.ErrIndexOverflow,
			"child index %d does not fit in 31 bits", value)
	}
	if hardened {
		return ChildIndex(value | HardenedKeyStart), nil
	}
	return ChildIndex(value), nil
}

// Hardened returns the hardened index for v. It panics if v does not fit
// in 31 bits and is meant for constants.
func Hardened(v uint32) ChildIndex {
	i, err := NewChildIndex(v, true)
	if err != nil {
		panic(err)
	}
	return i
}

// Normal returns the non-hardened index for v. It panics if v does not
// fit in 31 bits and is meant for constants.
func Normal(v uint32) ChildIndex {
	i, err := NewChildIndex(v, false)
	if err != nil {
		panic(err)
	}
	return i
}

func (i ChildIndex) IsHardened() bool {
	return uint32(i) >= HardenedKeyStart
}

// Value returns the index without the hardened bit.
func (i ChildIndex) Value() uint32 {
	return uint32(i) &^ HardenedKeyStart
}

func (i ChildIndex) String() string {
	s := strconv.FormatUint(uint64(i.Value()), 10)
	if i.IsHardened() {
		return s + "'"
	}
	return s
}

// Path is an ordered list of child indexes starting at the master key.
type Path []ChildIndex

// Parse parses a path string. The leading element must be m or M; each
// following element is a decimal index optionally suffixed with ', h or H
// to mark it hardened.
func Parse(s string) (Path, error) {
	parts := strings.Split(s, "/")
	if parts[0] != "m" && parts[0] != "M" {
		return nil, keyerr.Errorf(keyerr.ErrPathSyntax,
			"derivation path %q must start with m", s)
	}

	path := make(Path, 0, len(parts)-1)
	for _, part := range parts[1:] {
		index, err := parseSegment(part)
		if err != nil {
			return nil, err
		}
		path = append(path, index)
	}

	return path, nil
}

func parseSegment(segment string) (ChildIndex, error) {
	digits := segment
	hardened := false
	if n := len(segment); n > 0 {
		switch segment[n-1] {
		case '\'', 'h', 'H':
			hardened = true
			digits = segment[:n-1]
		}
	}

	if digits == "" {
		return 0, keyerr.Errorf(keyerr.ErrPathSyntax,
			"empty child index in segment %q", segment)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, keyerr.Errorf(keyerr.ErrPathSyntax,
				"invalid child index %q", segment)
		}
	}

	// 只剩数字，解析失败只可能是溢出
	value, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || value >= uint64(HardenedKeyStart) {
		return 0, keyerr.Errorf(keyerr.ErrIndexOverflow,
			"child index %s does not fit in 31 bits", digits)
	}

	return NewChildIndex(uint32(value), hardened)
}

// String renders the path in canonical form, using ' for hardened
// indexes.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, index := range p {
		sb.WriteByte('/')
		sb.WriteString(index.String())
	}
	return sb.String()
}

// IsHardenedOnly reports whether every index in the path is hardened.
func (p Path) IsHardenedOnly() bool {
	for _, index := range p {
		if !index.IsHardened() {
			return false
		}
	}
	return true
}

// Child returns a new path with index appended. p is not modified.
func (p Path) Child(index ChildIndex) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, index)
}
