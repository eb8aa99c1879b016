package crypto

import (
	"github.com/iov-one/keymgr"
)

// ExtensionName is used for the conditions we get from public keys.
const ExtensionName = "sigs"

// Identity is anything that can be turned into an associated key identity.
type Identity interface {
	Condition() keymgr.Condition
	Address() keymgr.Address
}
