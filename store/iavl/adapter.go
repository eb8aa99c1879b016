/*
Package iavl provides a versioned, merklized KVStore. Each successful Commit
saves a new version of the tree and returns its root hash, so the state of all
accounts can be audited and compared between processes.
*/
package iavl

import (
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const (
	// DefaultCacheSize is the number of tree nodes kept in memory.
	DefaultCacheSize = 10000

	// DefaultHistorySize is how many committed versions are kept before
	// the oldest ones are pruned. Zero disables pruning.
	DefaultHistorySize = 20
)

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree       *iavl.MutableTree
	db         dbm.DB
	numHistory int64
}

var _ store.CommitKVStore = (*CommitStore)(nil)
var _ store.CacheableKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing. The database is
// kept in the <dir>/<name>.db directory.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open leveldb: %s", err)
	}
	return newCommitStore(db), nil
}

// NewMemCommitStore creates a new store that is not persisted anywhere.
func NewMemCommitStore() *CommitStore {
	return newCommitStore(dbm.NewMemDB())
}

func newCommitStore(db dbm.DB) *CommitStore {
	return &CommitStore{
		tree:       iavl.NewMutableTree(db, DefaultCacheSize),
		db:         db,
		numHistory: DefaultHistorySize,
	}
}

// SetHistorySize changes how many versions are kept. Zero keeps all of
// them.
func (s *CommitStore) SetHistorySize(n int64) {
	s.numHistory = n
}

// Get returns the value from the working tree.
// Returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.Get(key)
	return val, nil
}

// Has checks if a key exists in the working tree.
func (s *CommitStore) Has(key []byte) (bool, error) {
	return s.tree.Has(key), nil
}

// Set adds a new value to the working tree.
func (s *CommitStore) Set(key, value []byte) error {
	if value == nil {
		return errors.Wrap(errors.ErrDatabase, "cannot store nil value")
	}
	s.tree.Set(key, value)
	return nil
}

// Delete removes from the working tree.
func (s *CommitStore) Delete(key []byte) error {
	s.tree.Remove(key)
	return nil
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// The content is loaded at once, so writes are allowed while it is open.
func (s *CommitStore) Iterator(start, end []byte) (store.Iterator, error) {
	var res []store.Model
	add := func(key []byte, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	}
	s.tree.IterateRange(start, end, true, add)
	return store.NewSliceIterator(res), nil
}

// NewBatch returns a batch writing to the working tree. The tree is only
// persisted on Commit, so the batch does not need to be atomic.
func (s *CommitStore) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(s)
}

// CacheWrap gives us a savepoint to perform actions
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}

	// release an old version of history, if not needed
	if s.numHistory > 0 && s.numHistory < version {
		toRelease := version - s.numHistory
		if s.tree.VersionExists(toRelease) {
			if err := s.tree.DeleteVersion(toRelease); err != nil {
				return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "delete version %d: %s", toRelease, err)
			}
		}
	}

	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "load tree: %s", err)
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Close releases the database.
func (s *CommitStore) Close() error {
	s.db.Close()
	return nil
}
