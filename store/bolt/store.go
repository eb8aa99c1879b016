/*
Package bolt provides a persistent KVStore on top of a single bbolt file.

Every write is a separate bbolt transaction. Use a Batch (or a CacheWrap,
which writes through a Batch) to group several writes into one atomic
transaction.
*/
package bolt

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/store"
	"go.etcd.io/bbolt"
)

// DefaultBucket is where all key value pairs are kept.
var DefaultBucket = []byte("keymgr")

// Store is a KVStore backed by a bbolt database.
type Store struct {
	db     *bbolt.DB
	bucket []byte
}

var _ store.CacheableKVStore = (*Store)(nil)

// Open creates or opens a bbolt database at the given path. Parent
// directories are created if needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.ErrEmpty.New("database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open bbolt: %s", err)
	}

	s := &Store{db: db, bucket: DefaultBucket}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "create bucket %s: %s", s.bucket, err)
	}
	return s, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	return s.db.Path()
}

// Get returns nil iff key doesn't exist.
func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		// Values returned by bbolt are only valid within the transaction.
		if v := tx.Bucket(s.bucket).Get(key); v != nil {
			value = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return value, nil
}

// Has checks if a key exists.
func (s *Store) Has(key []byte) (bool, error) {
	v, err := s.Get(key)
	return v != nil, err
}

// Set writes a single value in its own transaction.
func (s *Store) Set(key, value []byte) error {
	return s.update(store.SetOp(key, value))
}

// Delete removes a single value in its own transaction.
func (s *Store) Delete(key []byte) error {
	return s.update(store.DelOp(key))
}

func (s *Store) update(ops ...store.Op) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		for _, op := range ops {
			if op.IsSetOp() {
				if err := b.Put(op.Key(), op.Value()); err != nil {
					return err
				}
			} else if err := b.Delete(op.Key()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Iterator returns all pairs within the range, in ascending key order. The
// result is a snapshot, later writes are not visible to it.
func (s *Store) Iterator(start, end []byte) (store.Iterator, error) {
	var res []store.Model
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		var k, v []byte
		if start == nil {
			k, v = c.First()
		} else {
			k, v = c.Seek(start)
		}
		for ; k != nil; k, v = c.Next() {
			if end != nil && bytes.Compare(k, end) >= 0 {
				break
			}
			res = append(res, store.Pair(
				append([]byte{}, k...),
				append([]byte{}, v...),
			))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.NewSliceIterator(res), nil
}

// NewBatch returns a batch that applies all collected operations in a
// single bbolt transaction.
func (s *Store) NewBatch() store.Batch {
	return &batch{store: s}
}

// CacheWrap places a btree cache in front of the database. Writing the
// cache is atomic.
func (s *Store) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

type batch struct {
	store *Store
	ops   []store.Op
}

var _ store.Batch = (*batch)(nil)

func (b *batch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

func (b *batch) Write() error {
	if len(b.ops) == 0 {
		return nil
	}
	if err := b.store.update(b.ops...); err != nil {
		return err
	}
	b.ops = nil
	return nil
}
