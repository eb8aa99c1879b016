package bech32

import (
	"bytes"
	"testing"

	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/keymgrtest/assert"
)

// Created with: bech32 -e -h tiov 746573742d7061796c6f6164
const knownValue = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

func TestEncodeDecode(t *testing.T) {
	payload := []byte("01234567890123456789")

	raw, err := Encode("keys", payload)
	assert.Nil(t, err)

	hrp, got, err := Decode(raw)
	assert.Nil(t, err)
	assert.Equal(t, "keys", hrp)
	if !bytes.Equal(payload, got) {
		t.Logf("want %d", payload)
		t.Logf("got  %d", got)
		t.Fatal("invalid decode")
	}
}

func TestDecodeKnownValue(t *testing.T) {
	hrp, payload, err := Decode(knownValue)
	assert.Nil(t, err)
	if hrp != "tiov" || string(payload) != "test-payload" {
		t.Fatalf("unexpected decode: %q %q", hrp, payload)
	}
}

func TestDecodeInvalidChecksum(t *testing.T) {
	_, _, err := Decode(`tiov1w3jhxapdwpshjmr0v9jqymqq4z`)
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestDecodeWithPrefix(t *testing.T) {
	payload, err := DecodeWithPrefix("tiov", knownValue)
	assert.Nil(t, err)
	assert.Equal(t, "test-payload", string(payload))

	_, err = DecodeWithPrefix("keys", knownValue)
	assert.IsErr(t, errors.ErrInvalidInput, err)
}
