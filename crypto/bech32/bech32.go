/*
Package bech32 converts between raw bytes and their bech32 text form. The
checksum and the 5 bit grouping are done by btcutil.
*/
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/keymgr/errors"
)

// Encode returns the bech32 text form of payload with hrp as the human
// readable part.
func Encode(hrp string, payload []byte) (string, error) {
	groups, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidInput, "regroup payload: %s", err)
	}
	raw, err := bech32.Encode(hrp, groups)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidInput, "encode: %s", err)
	}
	return raw, nil
}

// Decode returns the human readable part and the payload of a bech32
// string. The checksum is verified.
func Decode(raw string) (string, []byte, error) {
	hrp, groups, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInvalidInput, "decode: %s", err)
	}
	payload, err := bech32.ConvertBits(groups, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInvalidInput, "regroup payload: %s", err)
	}
	return hrp, payload, nil
}

// DecodeWithPrefix works like Decode but fails unless the human readable
// part equals hrp.
func DecodeWithPrefix(hrp, raw string) ([]byte, error) {
	got, payload, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if got != hrp {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "want %q prefix, got %q", hrp, got)
	}
	return payload, nil
}
