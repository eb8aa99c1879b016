package keys

import (
	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ keymgr.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis and save it to
// the database. The configuration under "conf" is optional, the default one
// is stored if it is missing. Nothing is written if any account is invalid.
func (*Initializer) FromGenesis(opts keymgr.Options, db keymgr.KVStore) error {
	var confOpts keymgr.Options
	if err := opts.ReadOptions("conf", &confOpts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	var accounts []*Account
	if err := opts.ReadOptions("keys", &accounts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "keys: %s", err)
	}

	// Write into a cache wrap when possible, so that a bad entry leaves
	// the store untouched.
	out := db
	var wrap keymgr.KVCacheWrap
	if c, ok := db.(keymgr.CacheableKVStore); ok {
		wrap = c.CacheWrap()
		out = wrap
	}

	conf := DefaultConfiguration()
	var err error
	if _, ok := confOpts["keys"]; ok {
		err = gconf.InitConfig(out, opts, "keys", &conf)
	} else {
		err = gconf.Save(out, "keys", &conf)
	}
	if err != nil {
		discard(wrap)
		return errors.Wrap(err, "configuration")
	}

	bucket := NewAccountBucket()
	for i, a := range accounts {
		if a == nil {
			discard(wrap)
			return errors.Wrapf(errors.ErrEmpty, "account #%d", i)
		}
		acc := &Account{
			Address:                a.Address,
			Keys:                   sortKeys(a.Keys),
			DeploymentThreshold:    a.DeploymentThreshold,
			KeyManagementThreshold: a.KeyManagementThreshold,
		}
		if err := validateKeys(a.Keys, conf.MaxKeys); err != nil {
			discard(wrap)
			return errors.Wrapf(err, "account #%d", i)
		}
		if err := acc.validate(conf.MaxKeys); err != nil {
			discard(wrap)
			return errors.Wrapf(err, "account #%d", i)
		}
		exists, err := bucket.Has(out, acc.Address)
		if err != nil {
			discard(wrap)
			return err
		}
		if exists {
			discard(wrap)
			return errors.Wrapf(errors.ErrDuplicate, "account %s", acc.Address)
		}
		if err := bucket.Put(out, acc.Address, acc); err != nil {
			discard(wrap)
			return errors.Wrapf(err, "account #%d", i)
		}
	}

	if wrap != nil {
		return wrap.Write()
	}
	return nil
}

func discard(wrap keymgr.KVCacheWrap) {
	if wrap != nil {
		wrap.Discard()
	}
}
