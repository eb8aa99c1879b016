package keymgr

import (
	"context"
	"encoding/json"
)

// Msg is an action carried by a deploy. Every action kind knows its routing
// path and can validate its own fields without looking at any state.
type Msg interface {
	// Path returns the routing path for this message.
	Path() string

	// Validate performs stateless checks of the message fields.
	Validate() error
}

// Tx is what the submission layer hands in: the account the action is
// executed for, the identities that signed it and the action itself.
type Tx interface {
	GetMsg() (Msg, error)
	GetAccount() Address
	GetSigners() []Address
}

// Handler is a core engine that can process a few specific messages
// This could represent "set key weight", or "set thresholds".
type Handler interface {
	Deliver(ctx context.Context, tx Tx) (*DeliverResult, error)
}

// HandlerFunc allows a plain function to be used as a Handler.
type HandlerFunc func(ctx context.Context, tx Tx) (*DeliverResult, error)

// Deliver calls fn(ctx, tx).
func (fn HandlerFunc) Deliver(ctx context.Context, tx Tx) (*DeliverResult, error) {
	return fn(ctx, tx)
}

// Decorator wraps a Handler to provide common functionality
// like logging or panic recovery, to many Handlers
type Decorator interface {
	Deliver(ctx context.Context, tx Tx, next Handler) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// DeliverResult captures any non-error result of executing a deploy.
type DeliverResult struct {
	// Data is a machine readable result of the execution.
	Data []byte
	// Log is a human readable message.
	Log string
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
