// Package zero clears secret material held in byte slices and arrays.
package zero

// Bytes sets all bytes in b to zero.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Bytea32 clears the 32-byte array by value.
func Bytea32(b *[32]byte) {
	*b = [32]byte{}
}

// Bytea64 clears the 64-byte array by value.
func Bytea64(b *[64]byte) {
	*b = [64]byte{}
}
