package utils

import (
	"context"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
)

// Recovery is a decorator to recover from panics in handlers,
// so we can log them as errors
type Recovery struct{}

var _ keymgr.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx context.Context, tx keymgr.Tx, next keymgr.Handler) (_ *keymgr.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, tx)
}
