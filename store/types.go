package store

import "github.com/iov-one/keymgr"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = keymgr.ReadOnlyKVStore
	SetDeleter       = keymgr.SetDeleter
	KVStore          = keymgr.KVStore
	Batch            = keymgr.Batch
	Iterator         = keymgr.Iterator
	CacheableKVStore = keymgr.CacheableKVStore
	KVCacheWrap      = keymgr.KVCacheWrap
	Committer        = keymgr.Committer
	CommitKVStore    = keymgr.CommitKVStore
	CommitID         = keymgr.CommitID
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
