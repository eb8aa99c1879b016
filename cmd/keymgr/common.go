package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/app"
	"github.com/iov-one/keymgr/crypto"
	"github.com/iov-one/keymgr/x/keys"
	"github.com/tendermint/tendermint/libs/log"
)

// appFlags are shared by all commands that need access to the account
// state.
type appFlags struct {
	backend  *string
	home     *string
	genesis  *string
	logLevel *string
	debug    *bool
}

func flApp(fl *flag.FlagSet) appFlags {
	return appFlags{
		backend: fl.String("backend", env("KEYMGR_BACKEND", app.BoltBackend),
			"Storage backend, one of "+strings.Join(app.Backends, ", ")+". You can use KEYMGR_BACKEND environment variable to set it."),
		home: fl.String("home", homeDir(),
			"Data directory. You can use KEYMGR_HOME environment variable to set it."),
		genesis: fl.String("genesis", "",
			"Path to a genesis file, loaded only into an empty store."),
		logLevel: fl.String("log-level", env("KEYMGR_LOG_LEVEL", "error"),
			"Log level (debug, info, error or none)."),
		debug: fl.Bool("debug", false, "Do not redact internal errors."),
	}
}

// open builds the application as described by the flags. Close it when
// done.
func (f appFlags) open() (*app.App, error) {
	logger, err := newLogger(*f.logLevel)
	if err != nil {
		return nil, err
	}
	conf := app.Config{
		Backend: *f.backend,
		Home:    *f.home,
		Logger:  logger,
		Debug:   *f.debug,
	}
	if *f.genesis != "" {
		gen, err := app.LoadGenesis(*f.genesis)
		if err != nil {
			return nil, err
		}
		conf.Genesis = gen.AppState
	}
	return app.New(conf)
}

// newLogger returns a logger writing to stderr, filtered by level.
func newLogger(level string) (log.Logger, error) {
	if level == "none" {
		return log.NewNopLogger(), nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	return log.NewFilter(logger, opt).With("module", "keymgr"), nil
}

// readDeploy decodes a deploy from its JSON representation.
func readDeploy(r io.Reader) (*keys.Deploy, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read deploy: %s", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("no input data")
	}
	d, err := keys.UnmarshalDeploy(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot deserialize deploy: %s", err)
	}
	return d, nil
}

// writeDeploy encodes a deploy into its JSON representation.
func writeDeploy(w io.Writer, d *keys.Deploy) error {
	raw, err := keys.MarshalDeploy(d)
	if err != nil {
		return fmt.Errorf("cannot serialize deploy: %s", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

// newDeploy validates the action and writes a deploy without signers.
func newDeploy(w io.Writer, account keymgr.Address, action keys.Action) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("invalid account: %s", err)
	}
	if err := action.Validate(); err != nil {
		return fmt.Errorf("invalid action: %s", err)
	}
	return writeDeploy(w, &keys.Deploy{
		Account: account,
		Signers: []keymgr.Address{},
		Action:  action,
	})
}

// loadKey reads a hex encoded private key file.
func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	return crypto.DecodePrivateKey(strings.TrimSpace(string(raw)))
}
