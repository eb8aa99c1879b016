package keys

import (
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/gconf"
)

const (
	// DefaultMaxKeys is the key limit used when no configuration is
	// stored.
	DefaultMaxKeys = 10

	// MaxKeysLimit is the highest allowed MaxKeys value. With at most 255
	// keys of weight at most 255 no weight sum can overflow.
	MaxKeysLimit = 255
)

// Configuration of the keys extension.
type Configuration struct {
	// MaxKeys bounds the size of any associated key set, which bounds the
	// validation cost of every mutation.
	MaxKeys uint32 `json:"max_keys"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration returns the configuration used when none is stored.
func DefaultConfiguration() Configuration {
	return Configuration{MaxKeys: DefaultMaxKeys}
}

// Validate returns an error if the configuration is not usable.
func (c *Configuration) Validate() error {
	if c.MaxKeys < 1 || c.MaxKeys > MaxKeysLimit {
		return errors.Wrapf(errors.ErrInvalidInput,
			"max keys must be between 1 and %d, got %d", MaxKeysLimit, c.MaxKeys)
	}
	return nil
}

// Marshal serializes the configuration with the amino binary encoding.
func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

// Unmarshal loads the configuration from its amino binary representation.
func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

// loadConfiguration returns the stored configuration or the default one if
// there is none.
func loadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	err := gconf.Load(db, "keys", &conf)
	switch {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
