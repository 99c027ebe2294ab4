// Package keyerr defines the error values returned by the key derivation
// and encoding packages.
package keyerr

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

const (
	// ErrPathSyntax indicates a derivation path string is malformed.
	ErrPathSyntax ErrorCode = iota

	// ErrIndexOverflow indicates a path segment does not fit in 31 bits.
	ErrIndexOverflow

	// ErrHardenedFromPublic indicates a hardened child was requested from
	// public-only key material.
	ErrHardenedFromPublic

	// ErrNonHardenedShielded indicates a non-hardened index was used with
	// the shielded engine, which only defines hardened derivation.
	ErrNonHardenedShielded

	// ErrInvalidScalar indicates a derived scalar was out of range and the
	// bounded retries were exhausted.
	ErrInvalidScalar

	// ErrDiversifierExhaustion indicates no valid diversifier was found
	// within the attempt ceiling.
	ErrDiversifierExhaustion

	// ErrChecksumMismatch indicates a decoded string failed its checksum.
	ErrChecksumMismatch

	// ErrInvalidCharacter indicates a character outside the alphabet.
	ErrInvalidCharacter

	// ErrMixedCase indicates a human-readable string mixes upper and
	// lower case characters.
	ErrMixedCase

	// ErrInvalidLength indicates an encoded string or payload has the
	// wrong size.
	ErrInvalidLength

	// ErrSeedLength indicates the seed is shorter or longer than the
	// engine accepts.
	ErrSeedLength

	// ErrFormatMismatch indicates the version bytes or prefix belong to a
	// different network or key kind.
	ErrFormatMismatch

	// ErrDepthExceeded indicates a child would exceed the maximum depth.
	ErrDepthExceeded

	// ErrInvalidKey indicates key bytes do not describe a valid key.
	ErrInvalidKey

	// ErrNotPrivate indicates a private key was requested from a public
	// extended key.
	ErrNotPrivate

	// ErrUnsupportedFormat indicates an unknown network or pool.
	ErrUnsupportedFormat
)

var errorCodeStrings = map[ErrorCode]string{
	ErrPathSyntax:            "ErrPathSyntax",
	ErrIndexOverflow:         "ErrIndexOverflow",
	ErrHardenedFromPublic:    "ErrHardenedFromPublic",
	ErrNonHardenedShielded:   "ErrNonHardenedShielded",
	ErrInvalidScalar:         "ErrInvalidScalar",
	ErrDiversifierExhaustion: "ErrDiversifierExhaustion",
	ErrChecksumMismatch:      "ErrChecksumMismatch",
	ErrInvalidCharacter:      "ErrInvalidCharacter",
	ErrMixedCase:             "ErrMixedCase",
	ErrInvalidLength:         "ErrInvalidLength",
	ErrSeedLength:            "ErrSeedLength",
	ErrFormatMismatch:        "ErrFormatMismatch",
	ErrDepthExceeded:         "ErrDepthExceeded",
	ErrInvalidKey:            "ErrInvalidKey",
	ErrNotPrivate:            "ErrNotPrivate",
	ErrUnsupportedFormat:     "ErrUnsupportedFormat",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error carries an ErrorCode, a description and the underlying cause, if
// any.
type Error struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

func (e Error) Unwrap() error {
	return e.Err
}

// New returns an Error with the given code, description and cause.
func New(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// Errorf is New with a formatted description and no cause.
func Errorf(c ErrorCode, format string, args ...interface{}) Error {
	return Error{ErrorCode: c, Description: fmt.Sprintf(format, args...)}
}

// IsError reports whether err, or any error it wraps, is an Error with
// the given code.
func IsError(err error, code ErrorCode) bool {
	var kerr Error
	if !errors.As(err, &kerr) {
		return false
	}
	return kerr.ErrorCode == code
}
