package keys

import (
	"context"
	"fmt"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r keymgr.Registry, ledger *Ledger) {
	h := NewHandler(ledger)
	r.Handle(pathExecuteDeployMsg, h)
	r.Handle(pathSetKeyWeightMsg, h)
	r.Handle(pathSetDeploymentThresholdMsg, h)
	r.Handle(pathSetKeyManagementThresholdMsg, h)
	r.Handle(pathSetThresholdsMsg, h)
	r.Handle(pathSetAllMsg, h)
}

// Handler routes every action kind to the matching Ledger operation.
type Handler struct {
	ledger *Ledger
}

var _ keymgr.Handler = Handler{}

// NewHandler returns a handler executing actions against given ledger.
func NewHandler(ledger *Ledger) Handler {
	return Handler{ledger: ledger}
}

// Deliver validates the deploy and applies its action. For ordinary
// execution the result carries the payload, for any other action it carries
// the JSON encoded account state after the change.
//
// Only malformed input is rejected before the ledger is asked. Account
// invariants are checked by the ledger once the signers are authorized.
func (h Handler) Deliver(ctx context.Context, tx keymgr.Tx) (*keymgr.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	account := tx.GetAccount()
	if err := account.Validate(); err != nil {
		return nil, errors.Wrap(err, "account")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "msg")
	}
	signers := tx.GetSigners()

	var acc *Account
	switch m := msg.(type) {
	case *ExecuteDeployMsg:
		if err := h.ledger.Execute(ctx, account, signers); err != nil {
			return nil, err
		}
		return &keymgr.DeliverResult{
			Data: m.Payload,
			Log:  fmt.Sprintf("deploy executed for %s", account),
		}, nil
	case *SetKeyWeightMsg:
		acc, err = h.ledger.SetKeyWeight(ctx, account, signers, m.Key, m.Weight)
	case *SetDeploymentThresholdMsg:
		acc, err = h.ledger.SetDeploymentThreshold(ctx, account, signers, m.Threshold)
	case *SetKeyManagementThresholdMsg:
		acc, err = h.ledger.SetKeyManagementThreshold(ctx, account, signers, m.Threshold)
	case *SetThresholdsMsg:
		acc, err = h.ledger.SetThresholds(ctx, account, signers, m.DeploymentThreshold, m.KeyManagementThreshold)
	case *SetAllMsg:
		acc, err = h.ledger.SetAll(ctx, account, signers, m.DeploymentThreshold, m.KeyManagementThreshold, m.Keys)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidType, "unknown action %T", msg)
	}
	if err != nil {
		return nil, err
	}

	data, err := MarshalAccountJSON(acc)
	if err != nil {
		return nil, err
	}
	return &keymgr.DeliverResult{
		Data: data,
		Log:  fmt.Sprintf("%s applied to %s", msg.Path(), account),
	}, nil
}
