package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
)

// Receipt is the recorded outcome of a submitted deploy.
type Receipt struct {
	ID      string         `json:"id"`
	Account keymgr.Address `json:"account"`
	Path    string         `json:"path"`
	// Code is the registered code of the error, 0 on success.
	Code uint32    `json:"code"`
	Log  string    `json:"log"`
	Data []byte    `json:"data,omitempty"`
	Time time.Time `json:"time"`
}

// OK returns true if the deploy was executed.
func (r *Receipt) OK() bool {
	return r.Code == errors.SuccessCode
}

// Submitter takes deploys, runs them through a handler and keeps a receipt
// of every outcome. It stands in for a remote submission service: the
// signer list of a deploy is trusted as given.
type Submitter struct {
	handler keymgr.Handler
	debug   bool

	mu       sync.RWMutex
	receipts map[string]*Receipt
}

// NewSubmitter returns a submitter delivering to h. Unless debug is set,
// internal error details are redacted from receipts.
func NewSubmitter(h keymgr.Handler, debug bool) *Submitter {
	return &Submitter{
		handler:  h,
		debug:    debug,
		receipts: make(map[string]*Receipt),
	}
}

// Submit delivers the deploy and records the outcome. The receipt is
// returned together with the delivery error, if any.
func (s *Submitter) Submit(ctx context.Context, tx keymgr.Tx) (*Receipt, error) {
	r := &Receipt{
		ID:      uuid.New().String(),
		Account: tx.GetAccount(),
		Time:    time.Now().UTC(),
	}
	if msg, err := tx.GetMsg(); err == nil {
		r.Path = msg.Path()
	}

	ctx = keymgr.WithLogInfo(ctx, "receipt", r.ID)
	res, err := s.handler.Deliver(ctx, tx)
	if err != nil {
		r.Code = errors.Code(err)
		r.Log = errors.Redact(err, s.debug).Error()
	} else {
		r.Log = res.Log
		r.Data = res.Data
	}

	s.mu.Lock()
	s.receipts[r.ID] = r
	s.mu.Unlock()

	return r, err
}

// Receipt returns the receipt with given ID.
func (s *Submitter) Receipt(id string) (*Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "receipt %q", id)
	}
	return r, nil
}
