package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree is small because a cache wrap usually holds the few writes of
// a single mutation.
const btreeDegree = 2

// MemStore returns an in-memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, discardBatch{}, nil)
}

// discardBatch drops all writes. It is the bottom layer of a MemStore,
// where the btree itself is the only copy of the data.
type discardBatch struct {
	EmptyKVStore
}

func (discardBatch) Write() error { return nil }

// BTreeCacheWrap keeps pending writes in a btree in front of a read only
// store. Every write is mirrored into a batch that Write flushes.
type BTreeCacheWrap struct {
	tree  *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over back. All writes must go through
// batch, back is only read. free may be nil; pass the list of a parent
// wrap to share freed nodes.
func NewBTreeCacheWrap(back ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:  btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  back,
		batch: batch,
	}
}

// entry is a pending write. A deleted entry hides the key of the backing
// store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}

func (b BTreeCacheWrap) pending(key []byte) (*entry, bool) {
	item := b.tree.Get(&entry{key: key})
	if item == nil {
		return nil, false
	}
	return item.(*entry), true
}

// CacheWrap layers another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending writes and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending writes.
func (b BTreeCacheWrap) Discard() {
	for b.tree.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.tree.ReplaceOrInsert(&entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(&entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.pending(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.pending(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator returns pending writes merged with the content of the backing
// store, in ascending key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(b.snapshot(start, end), parent)
}

// snapshot copies out the pending entries within [start, end). The tree
// may change while an iterator is open.
func (b BTreeCacheWrap) snapshot(start, end []byte) []*entry {
	var out []*entry
	visit := func(item btree.Item) bool {
		out = append(out, item.(*entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.tree.Ascend(visit)
	case start == nil:
		b.tree.AscendLessThan(&entry{key: end}, visit)
	case end == nil:
		b.tree.AscendGreaterOrEqual(&entry{key: start}, visit)
	default:
		b.tree.AscendRange(&entry{key: start}, &entry{key: end}, visit)
	}
	return out
}
