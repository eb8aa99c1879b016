/*
Package keymgrtest provides helpers for tests that need identities and
addresses.
*/
package keymgrtest

import (
	"testing"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/crypto"
)

// NewKey returns a random ed25519 private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a random key.
func NewCondition() keymgr.Condition {
	return NewKey().Condition()
}

// RandomAddr returns the address of a random key.
func RandomAddr(t testing.TB) keymgr.Address {
	t.Helper()
	addr := NewKey().Address()
	if err := addr.Validate(); err != nil {
		t.Fatalf("invalid random address: %s", err)
	}
	return addr
}

// SequenceAddr returns a deterministic address, distinct for every n. It is
// useful when a test needs addresses in a known order.
func SequenceAddr(n byte) keymgr.Address {
	addr := make(keymgr.Address, keymgr.AddressLength)
	addr[len(addr)-1] = n
	return addr
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// keymgr.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) keymgr.Address {
	t.Helper()

	addr, err := keymgr.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
