package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/keymgr/keymgrtest/assert"
	"github.com/iov-one/keymgr/store"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, close := makeCommitStore()
	return commit, close
}

func makeCommitStore() (*CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	commit, err := NewCommitStore(tmpDir, "base")
	if err != nil {
		panic(err)
	}
	close := func() {
		commit.Close()
		os.RemoveAll(tmpDir)
	}
	return commit, close
}

func TestIavlSuite(t *testing.T) {
	suite := store.NewTestSuite(makeBase)
	t.Run("GetSet", suite.GetSet)
	t.Run("CacheConflicts", suite.CacheConflicts)
	t.Run("FuzzIterator", suite.FuzzIterator)
	t.Run("IteratorWithConflicts", suite.IteratorWithConflicts)
}

func TestMemIavlSuite(t *testing.T) {
	suite := store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		return NewMemCommitStore(), func() {}
	})
	t.Run("GetSet", suite.GetSet)
	t.Run("CacheConflicts", suite.CacheConflicts)
}

// TestCommitOverwrite checks that we commit properly
// and can add/overwrite/query in the next cache wrap
func TestCommitOverwrite(t *testing.T) {
	commit, close := makeCommitStore()
	defer close()
	// only one to trigger a cleanup
	commit.SetHistorySize(1)

	suite := store.NewTestSuite(nil)

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)
	if len(id.Hash) != 0 {
		t.Fatal("hash is not empty")
	}

	parent := commit.CacheWrap()
	assert.Nil(t, parent.Set([]byte("one"), []byte("1")))
	assert.Nil(t, parent.Set([]byte("two"), []byte("2")))
	assert.Nil(t, parent.Write())
	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("hash is empty")
	}
	first := id.Hash

	child := commit.CacheWrap()
	assert.Nil(t, child.Set([]byte("one"), []byte("uno")))
	assert.Nil(t, child.Delete([]byte("two")))
	assert.Nil(t, child.Set([]byte("three"), []byte("3")))

	// the store itself is unmodified until write
	suite.AssertGetHas(t, commit, []byte("one"), []byte("1"), true)
	suite.AssertGetHas(t, commit, []byte("two"), []byte("2"), true)
	suite.AssertGetHas(t, child, []byte("two"), nil, false)

	assert.Nil(t, child.Write())
	suite.AssertGetHas(t, commit, []byte("one"), []byte("uno"), true)
	suite.AssertGetHas(t, commit, []byte("three"), []byte("3"), true)

	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id.Version)
	if string(id.Hash) == string(first) {
		t.Fatal("hash did not change")
	}
}

func TestReloadLatestVersion(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-reload-")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	commit, err := NewCommitStore(tmpDir, "state")
	assert.Nil(t, err)
	assert.Nil(t, commit.Set([]byte("account"), []byte("data")))
	saved, err := commit.Commit()
	assert.Nil(t, err)
	// not committed, must be lost
	assert.Nil(t, commit.Set([]byte("pending"), []byte("data")))
	assert.Nil(t, commit.Close())

	reopened, err := NewCommitStore(tmpDir, "state")
	assert.Nil(t, err)
	defer reopened.Close()
	assert.Nil(t, reopened.LoadLatestVersion())

	id, err := reopened.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, saved, id)

	suite := store.NewTestSuite(nil)
	suite.AssertGetHas(t, reopened, []byte("account"), []byte("data"), true)
	suite.AssertGetHas(t, reopened, []byte("pending"), nil, false)
}
