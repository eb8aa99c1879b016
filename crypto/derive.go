package crypto

import (
	"fmt"

	"github.com/iov-one/keymgr/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DerivationPathFmt is the SLIP-10 path used to derive account keys from a
// single seed. Only hardened derivation is supported for ed25519.
const DerivationPathFmt = "m/44'/234'/%d'"

// DeriveKey returns the private key found at the given path. The seed is
// usually produced from a mnemonic and must be between 16 and 64 bytes.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}

// DeriveChild returns the n-th account key derived from seed. A single seed
// is enough to recreate every key associated with an account, for example
// the offline safe keys of a recovery setup.
func DeriveChild(seed []byte, n uint32) (*PrivateKey, error) {
	return DeriveKey(seed, fmt.Sprintf(DerivationPathFmt, n))
}
