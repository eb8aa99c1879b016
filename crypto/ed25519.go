package crypto

import (
	"encoding/hex"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is the public half of an ed25519 key pair. Its address is the
// identity used when associating the key with an account.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

var _ Identity = (*PublicKey)(nil)

// Condition encodes the public key into a keymgr condition.
func (p *PublicKey) Condition() keymgr.Condition {
	return keymgr.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the identity derived from this public key.
func (p *PublicKey) Address() keymgr.Address {
	return p.Condition().Address()
}

// Validate returns an error if the key does not have the ed25519 size.
func (p *PublicKey) Validate() error {
	if p == nil {
		return errors.ErrEmpty.New("public key")
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.ErrInvalidInput.Newf("public key length %d", len(p.Ed25519))
	}
	return nil
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

var _ Identity = (*PrivateKey)(nil)

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	privateKey := ed25519.PrivateKey(p.Ed25519)
	pub := privateKey.Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// Condition returns the condition of the public key.
func (p *PrivateKey) Condition() keymgr.Condition {
	return p.PublicKey().Condition()
}

// Address returns the identity of the public key.
func (p *PrivateKey) Address() keymgr.Address {
	return p.PublicKey().Address()
}

// Seed returns the 32 byte seed this key was created from.
func (p *PrivateKey) Seed() []byte {
	return ed25519.PrivateKey(p.Ed25519).Seed()
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}

// DecodePrivateKey reads a hex encoded private key. Both the 32 byte seed
// and the full 64 byte form are accepted.
func DecodePrivateKey(hexKey string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "cannot decode hex")
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return PrivKeyEd25519FromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return &PrivateKey{Ed25519: raw}, nil
	default:
		return nil, errors.ErrInvalidInput.Newf("private key length %d", len(raw))
	}
}
