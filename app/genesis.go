package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
)

// Genesis file format. AppState is handed to the initializers as is.
type Genesis struct {
	AppState keymgr.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	bytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "loading genesis file: %s", err)
	}

	err = json.Unmarshal(bytes, &gen)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

//------ init state -----

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...keymgr.Initializer) keymgr.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []keymgr.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts keymgr.Options, kv keymgr.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

//------- genesis marker ---------

const genesisKey = "_i:genesis"

// isInitialized returns true if genesis was already loaded into kv.
func isInitialized(kv keymgr.ReadOnlyKVStore) (bool, error) {
	return kv.Has([]byte(genesisKey))
}

// markInitialized records that genesis was loaded.
// Returns error if already set.
func markInitialized(kv keymgr.KVStore) error {
	ok, err := isInitialized(kv)
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrap(errors.ErrState, "genesis already loaded")
	}
	return kv.Set([]byte(genesisKey), []byte{1})
}
