package sapling

import (
	"math/big"

	"github.com/czh0526/zec-wallet/codec"
	"github.com/czh0526/zec-wallet/keyerr"
	"github.com/czh0526/zec-wallet/netparams"
)

// paymentAddressLen is the size of d || repr(pk_d).
const paymentAddressLen = 11 + 32

// PaymentAddress is a Sapling shielded address (d, pk_d).
type PaymentAddress struct {
	diversifier Diversifier
	pkd         Point
}

func newPaymentAddress(d Diversifier, gd *Point, ivk *big.Int) *PaymentAddress {
	return &PaymentAddress{
		diversifier: d,
		pkd:         *scalarMult(gd, ivk),
	}
}

func (a *PaymentAddress) Diversifier() Diversifier {
	return a.diversifier
}

// TransmissionKey returns repr(pk_d).
func (a *PaymentAddress) TransmissionKey() [32]byte {
	return reprJ(&a.pkd)
}

// Bytes returns the 43-byte raw encoding d || repr(pk_d).
func (a *PaymentAddress) Bytes() []byte {
	pkd := reprJ(&a.pkd)
	b := make([]byte, 0, paymentAddressLen)
	b = append(b, a.diversifier[:]...)
	return append(b, pkd[:]...)
}

// Encode returns the Bech32 string of the address for the network of
// params.
func (a *PaymentAddress) Encode(params *netparams.Params) (string, error) {
	return codec.EncodeHumanReadable(params.SaplingPaymentAddressHRP, a.Bytes())
}

// DecodePaymentAddress decodes a Sapling address of the network of params.
func DecodePaymentAddress(s string, params *netparams.Params) (
	*PaymentAddress, error) {

	payload, err := decodeHumanReadable(s, params.SaplingPaymentAddressHRP)
	if err != nil {
		return nil, err
	}
	if len(payload) != paymentAddressLen {
		return nil, keyerr.Errorf(keyerr.ErrInvalidLength,
			"payment address must be %d bytes, got %d",
			paymentAddressLen, len(payload))
	}

	var d Diversifier
	copy(d[:], payload[:11])
	if !d.IsValid() {
		return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
			"diversifier %x has no base point", d[:])
	}

	var repr [32]byte
	copy(repr[:], payload[11:])
	pkd, ok := abstJ(repr)
	if !ok || !inPrimeOrderSubgroup(pkd) {
		return nil, keyerr.Errorf(keyerr.ErrInvalidKey,
			"pk_d is not a point of the prime-order subgroup")
	}

	return &PaymentAddress{diversifier: d, pkd: *pkd}, nil
}

// decodeHumanReadable decodes s and checks its prefix against hrp.
func decodeHumanReadable(s, hrp string) ([]byte, error) {
	gotHRP, payload, err := codec.DecodeHumanReadable(s)
	if err != nil {
		return nil, err
	}
	if gotHRP != hrp {
		return nil, keyerr.Errorf(keyerr.ErrFormatMismatch,
			"prefix %q does not match %q", gotHRP, hrp)
	}
	return payload, nil
}
