package keys

import "github.com/iov-one/keymgr/errors"

// keys takes 1040-1049
var (
	// ErrInvariant is returned when a mutation would leave an account in a
	// state that breaks one of the account invariants, for example a
	// threshold that cannot be reached with the remaining key weights.
	ErrInvariant = errors.Register(1040, "invariant violation")

	// ErrUnknownAccount is returned when the account was never brought
	// under the authorization model.
	ErrUnknownAccount = errors.Register(1041, "unknown account")
)
