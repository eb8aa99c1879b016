package app

import (
	"io"
	"path/filepath"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/store"
	"github.com/iov-one/keymgr/store/bolt"
	"github.com/iov-one/keymgr/store/iavl"
)

// Supported storage backends.
const (
	// MemoryBackend keeps all state in a btree and loses it on exit.
	MemoryBackend = "memory"
	// BoltBackend keeps all state in a single bbolt file.
	BoltBackend = "bolt"
	// IAVLBackend keeps a versioned iavl tree on goleveldb. Every change
	// is committed as a new version.
	IAVLBackend = "iavl"
)

// Backends lists the names accepted by OpenStore.
var Backends = []string{MemoryBackend, BoltBackend, IAVLBackend}

// dbName is the file (bolt) or directory (iavl) name inside the data
// directory.
const dbName = "keymgr"

// OpenStore opens the named backend inside dir. The returned closer must
// be called to release the database. dir is ignored by the memory backend.
func OpenStore(backend, dir string) (keymgr.KVStore, io.Closer, error) {
	switch backend {
	case MemoryBackend:
		return store.MemStore(), nopCloser{}, nil
	case BoltBackend:
		if dir == "" {
			return nil, nil, errors.Wrap(errors.ErrEmpty, "data directory")
		}
		db, err := bolt.Open(filepath.Join(dir, dbName+".bolt"))
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case IAVLBackend:
		if dir == "" {
			return nil, nil, errors.Wrap(errors.ErrEmpty, "data directory")
		}
		db, err := iavl.NewCommitStore(dir, dbName)
		if err != nil {
			return nil, nil, err
		}
		if err := db.LoadLatestVersion(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return db, db, nil
	default:
		return nil, nil, errors.Wrapf(errors.ErrInvalidInput, "unknown backend %q", backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
