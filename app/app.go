/*
Package app wires the storage backend, the genesis initializer, the
authorization ledger and the deploy handler stack into one application.
*/
package app

import (
	"context"
	"io"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/x/keys"
	"github.com/iov-one/keymgr/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Config describes how to build an App.
type Config struct {
	// Backend is one of Backends.
	Backend string
	// Home is the data directory of persistent backends.
	Home string
	// Genesis is loaded into a fresh store. It is ignored if the store was
	// already initialized.
	Genesis keymgr.Options
	// Logger defaults to a no-op logger.
	Logger log.Logger
	// Debug disables redaction of internal errors in receipts.
	Debug bool
}

// App holds a ready to use ledger and the handler stack that runs deploys
// against it.
type App struct {
	db        keymgr.KVStore
	closer    io.Closer
	logger    log.Logger
	ledger    *keys.Ledger
	handler   keymgr.Handler
	submitter *Submitter
}

// New opens the configured backend, loads genesis into it if needed and
// builds the ledger.
func New(conf Config) (*App, error) {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	db, closer, err := OpenStore(conf.Backend, conf.Home)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}

	initialized, err := isInitialized(db)
	if err != nil {
		_ = closer.Close()
		return nil, errors.Wrap(err, "read genesis marker")
	}
	if !initialized {
		if err := initStore(db, ChainInitializers(&keys.Initializer{}), conf.Genesis); err != nil {
			_ = closer.Close()
			return nil, errors.Wrap(err, "genesis")
		}
		logger.Info("genesis loaded", "backend", conf.Backend)
	}

	ledger, err := keys.NewLedger(db)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	router := NewRouter()
	keys.RegisterRoutes(router, ledger)
	handler := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
	).WithHandler(router)

	return &App{
		db:        db,
		closer:    closer,
		logger:    logger,
		ledger:    ledger,
		handler:   handler,
		submitter: NewSubmitter(handler, conf.Debug),
	}, nil
}

// initStore runs initer and marks the store as initialized. Both land in the
// store together or not at all, then the store is committed if it supports
// it.
func initStore(db keymgr.KVStore, initer keymgr.Initializer, genesis keymgr.Options) error {
	if genesis == nil {
		genesis = keymgr.Options{}
	}

	out := db
	var wrap keymgr.KVCacheWrap
	if c, ok := db.(keymgr.CacheableKVStore); ok {
		wrap = c.CacheWrap()
		out = wrap
	}
	if err := initer.FromGenesis(genesis, out); err != nil {
		discard(wrap)
		return err
	}
	if err := markInitialized(out); err != nil {
		discard(wrap)
		return err
	}
	if wrap != nil {
		if err := wrap.Write(); err != nil {
			return errors.Wrap(err, "write genesis")
		}
	}

	if c, ok := db.(keymgr.Committer); ok {
		if _, err := c.Commit(); err != nil {
			return errors.Wrap(err, "commit genesis")
		}
	}
	return nil
}

func discard(wrap keymgr.KVCacheWrap) {
	if wrap != nil {
		wrap.Discard()
	}
}

// Context returns ctx with the application logger set.
func (a *App) Context(ctx context.Context) context.Context {
	return keymgr.WithLogger(ctx, a.logger)
}

// Ledger returns the authorization ledger.
func (a *App) Ledger() *keys.Ledger {
	return a.ledger
}

// Handler returns the full handler stack deploys are run through.
func (a *App) Handler() keymgr.Handler {
	return a.handler
}

// Submitter returns the deploy submitter.
func (a *App) Submitter() *Submitter {
	return a.submitter
}

// Submit runs the deploy through the handler stack and records a receipt.
func (a *App) Submit(ctx context.Context, tx keymgr.Tx) (*Receipt, error) {
	return a.submitter.Submit(a.Context(ctx), tx)
}

// Close releases the store.
func (a *App) Close() error {
	return a.closer.Close()
}
