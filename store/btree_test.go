package store

import (
	"testing"

	"github.com/iov-one/keymgr/keymgrtest/assert"
)

func makeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeSuite(t *testing.T) {
	suite := NewTestSuite(makeBase)
	t.Run("GetSet", suite.GetSet)
	t.Run("CacheConflicts", suite.CacheConflicts)
	t.Run("FuzzIterator", suite.FuzzIterator)
	t.Run("IteratorWithConflicts", suite.IteratorWithConflicts)
}

func TestCacheWrapHidesDeletes(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("1")))
	assert.Nil(t, db.Set([]byte("b"), []byte("2")))

	cache := db.CacheWrap()
	assert.Nil(t, cache.Delete([]byte("a")))
	assert.Nil(t, cache.Set([]byte("c"), []byte("3")))

	has, err := cache.Has([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	it, err := cache.Iterator(nil, nil)
	assert.Nil(t, err)
	var keys []string
	for ; it.Valid(); assert.Nil(t, it.Next()) {
		keys = append(keys, string(it.Key()))
	}
	it.Close()
	assert.Equal(t, []string{"b", "c"}, keys)

	// The parent is untouched until the cache is written.
	got, err := db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), got)

	cache.Discard()
	got, err = db.Get([]byte("c"))
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestIteratorPastEnd(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))

	it, err := db.Iterator(nil, nil)
	assert.Nil(t, err)
	defer it.Close()

	assert.Equal(t, true, it.Valid())
	assert.Nil(t, it.Next())
	assert.Equal(t, false, it.Valid())
	if err := it.Next(); err == nil {
		t.Fatal("calling Next on an exhausted iterator must fail")
	}
}

func TestIteratorSnapshotAllowsWrites(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))
	cache := db.CacheWrap()

	it, err := cache.Iterator([]byte("a"), []byte("z"))
	assert.Nil(t, err)
	it.Close()
	assert.Nil(t, db.Delete([]byte("a")))
}
