package transparent

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/btcsuite/btcd/btcutil"
)

func newHMACWriter(key []byte) hmacWriter {
	return hmacWriter{
		Hash: hmac.New(sha512.New, key),
	}
}

type hmacWriter struct {
	hash.Hash
}

func (hw hmacWriter) InfallibleWrite(p []byte) {
	_, err := hw.Write(p)
	if err != nil {
		panic(fmt.Sprintf("writing to hmac should never fail: %v", err))
	}
}

func serializeUint32(v uint32) []byte {
	serialized := make([]byte, 4)
	binary.BigEndian.PutUint32(serialized, v)
	return serialized
}

func fingerprint(serializedPubKey []byte) [4]byte {
	var fp [4]byte
	copy(fp[:], btcutil.Hash160(serializedPubKey)[:4])
	return fp
}
