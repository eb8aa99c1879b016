/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* Models are serialized with a Codec, so a bucket does not depend on the
  wire format of what it stores.
* Easy queries for one and iteration over the whole bucket.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	// Validate returns error if the model is not in a valid state to save
	// to the db (eg. field missing, out of range, ...)
	Validate() error
	// Copy returns a deep copy of the model. Models are handed out by
	// value, so the caller may modify a copy freely.
	Copy() Model
}

// Codec serializes models to their binary representation.
type Codec interface {
	Marshal(Model) ([]byte, error)
	// Unmarshal loads raw into dest, which must be a pointer.
	Unmarshal(raw []byte, dest Model) error
}

// ModelBucket is a prefixed subspace of the DB holding models of a single
// type.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db keymgr.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given key exists.
	Has(db keymgr.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves given model in the database. The model is validated
	// first and an invalid model is never written.
	Put(db keymgr.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db keymgr.KVStore, key []byte) error

	// Keys returns the primary keys of all stored entities, in
	// ascending order.
	Keys(db keymgr.ReadOnlyKVStore) ([][]byte, error)
}

// NewModelBucket returns a ModelBucket storing its entities under
// "<name>:" prefix.
func NewModelBucket(name string, cdc Codec) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return &modelBucket{
		prefix: append([]byte(name), ':'),
		cdc:    cdc,
	}
}

type modelBucket struct {
	prefix []byte
	cdc    Codec
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	l := len(mb.prefix)
	out := make([]byte, l+len(key))
	copy(out, mb.prefix)
	copy(out[l:], key)
	return out
}

func (mb *modelBucket) One(db keymgr.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := mb.cdc.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db keymgr.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

func (mb *modelBucket) Put(db keymgr.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := mb.cdc.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) Delete(db keymgr.KVStore, key []byte) error {
	ok, err := mb.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "key %X", key)
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) Keys(db keymgr.ReadOnlyKVStore) ([][]byte, error) {
	it, err := db.Iterator(prefixRange(mb.prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Close()

	var keys [][]byte
	for it.Valid() {
		k := it.Key()
		keys = append(keys, append([]byte{}, k[len(mb.prefix):]...))
		if err := it.Next(); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return keys, nil
}

// prefixRange turns a prefix into a (start, end) range. The end is the
// smallest key that does not start with the prefix.
func prefixRange(prefix []byte) ([]byte, []byte) {
	start := append([]byte{}, prefix...)
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	// prefix was all 0xff, no upper bound
	return start, nil
}
