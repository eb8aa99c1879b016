package utils

import (
	"context"
	"time"

	"github.com/iov-one/keymgr"
)

// Logging is a decorator to log deploys as they pass through
type Logging struct{}

var _ keymgr.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx context.Context, tx keymgr.Tx, next keymgr.Handler) (*keymgr.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, tx, resLog, err)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx context.Context, start time.Time, tx keymgr.Tx, msg string, err error) {
	delta := time.Since(start)
	logger := keymgr.GetLogger(ctx).With(
		"duration", delta/time.Microsecond,
		"account", tx.GetAccount(),
		"signers", len(tx.GetSigners()))

	if m, merr := tx.GetMsg(); merr == nil {
		logger = logger.With("path", m.Path())
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	if err != nil {
		logger.Error(msg, "err", err)
	} else {
		logger.Info(msg)
	}
}
