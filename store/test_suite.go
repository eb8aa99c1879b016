package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/keymgr/keymgrtest/assert"
)

/*
TestSuite provides many methods that can be called in package-specific test code.
We just customize the store being tested (pass in constructor), the rest of the
logic is generic to the KVStore interface.

This removes duplication between btree_test.go, bolt/store_test.go and
iavl/adapter_test.go, but can be used for any implementation of KVStore.
*/
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor creates a fresh, empty store and a function
// releasing its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores produced by given
// constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
//
// Other tests should handle deletes, setting same value,
// iterating over ranges, and general fuzzing
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	// make sure the store is empty at start but returns results
	// that are written to it
	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	s.AssertGetHas(t, c2, k, v, true)
	s.AssertGetHas(t, c2, k2, v2, true)
	assert.Nil(t, c2.Set(k3, v3))
	c2.Discard()

	// and commit another
	c3 := base.CacheWrap()
	s.AssertGetHas(t, c3, k, v, true)
	s.AssertGetHas(t, c3, k2, v2, true)
	assert.Nil(t, c3.Delete(k))
	assert.Nil(t, c3.Write())

	// make sure it commits proper
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
	s.AssertGetHas(t, base, k3, nil, false)
}

// CacheConflicts checks that we can handle
// overwriting values and deleting underlying values
func (s *TestSuite) CacheConflicts(t *testing.T) {
	// make 10 keys and 20 values....
	ks := randKeys(10, 16)
	vs := randKeys(20, 40)

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model // Key is what we query, Value is what we expect
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(ks[1], vs[1]), SetOp(ks[2], vs[2])},
			childOps:      []Op{SetOp(ks[1], vs[11]), SetOp(ks[3], vs[7]), DelOp(ks[2])},
			parentQueries: []Model{Pair(ks[1], vs[1]), Pair(ks[2], vs[2]), Pair(ks[3], nil)},
			childQueries:  []Model{Pair(ks[1], vs[11]), Pair(ks[2], nil), Pair(ks[3], vs[7])},
		},
		"delete and set again": {
			parentOps:     []Op{SetOp(ks[4], vs[4])},
			childOps:      []Op{DelOp(ks[4]), SetOp(ks[4], vs[14])},
			parentQueries: []Model{Pair(ks[4], vs[4])},
			childQueries:  []Model{Pair(ks[4], vs[14])},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}

			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			// now check the parent is unaffected
			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}

			// the child shows changes
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			// write child to parent and make sure it also shows proper data
			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// FuzzIterator makes sure the basic iterator
// works. Includes random deletes, but not nested iterators.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 50
	const deleteCount = 20

	toSet := randModels(size, 8, 40)
	toDel := randModels(deleteCount, 8, 40)
	expect := sortModels(toSet)
	ops := append(
		makeSetOps(toSet...),
		makeDelOps(toDel...)...)

	parentSet := randModels(size, 8, 40)
	parentDel := randModels(deleteCount, 8, 40)
	parentOps := append(
		makeSetOps(parentSet...),
		makeDelOps(parentDel...)...)

	both := sortModels(append(toSet, parentSet...))

	cases := map[string]iterCase{
		"just write to a child with empty parent": {
			pre:   nil,
			child: ops,
			queries: []rangeQuery{
				// no, start, finish, both limits
				{nil, nil, expect},
				{expect[10].Key, nil, expect[10:]},
				{nil, expect[size-8].Key, expect[:size-8]},
				{expect[17].Key, expect[28].Key, expect[17:28]},
			},
		},
		"iterator combines child and parent": {
			pre:   parentOps,
			child: ops,
			queries: []rangeQuery{
				// no, start, finish, both limits
				{nil, nil, both},
				{both[10].Key, nil, both[10:]},
				{nil, both[size-8].Key, both[:size-8]},
				{both[17].Key, both[28].Key, both[17:28]},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			tc.verify(t, base)
		})
	}
}

// IteratorWithConflicts covers some specific test cases
// that arose during fuzzing the iterators.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	ms := randModels(6, 20, 100)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	// a2, b2 have same keys, different values
	a2.Key = a.Key
	b2.Key = b.Key

	expect0 := sortModels([]Model{a, b, c})
	expect1 := sortModels([]Model{a2, b2, c, d})
	expect2 := []Model{c}

	cases := map[string]iterCase{
		"iterate in child only": {
			child: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, expect0},
				{expect0[1].Key, expect0[2].Key, expect0[1:2]},
			},
		},
		"iterate over parent only": {
			pre: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, expect0},
				{expect0[1].Key, expect0[2].Key, expect0[1:2]},
			},
		},
		"simple combination": {
			pre:   makeSetOps(a, b),
			child: makeSetOps(c),
			queries: []rangeQuery{
				{nil, nil, expect0},
				{expect0[1].Key, expect0[2].Key, expect0[1:2]},
			},
		},
		"overwrite data should show child data": {
			pre:   makeSetOps(a, b, c),
			child: makeSetOps(a2, b2, d),
			queries: []rangeQuery{
				{nil, nil, expect1},
				{expect1[1].Key, expect1[3].Key, expect1[1:3]},
			},
		},
		"deleted data is skipped": {
			pre:   makeSetOps(a, c, d),
			child: makeDelOps(a, b, d),
			queries: []rangeQuery{
				// query all should find just one, skip delete
				{nil, nil, expect2},
				// query cuts off at actual value, should be empty
				{nil, c.Key, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// AssertGetHas ensures Get and Has agree about the presence of a value
// under given key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("want value %X, got %X", val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

// randKeys returns a slice of count keys, all of a given size
func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := 0; i < count; i++ {
		res[i] = randBytes(size)
	}
	return res
}

// randModels produces a random set of models
func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := 0; i < count; i++ {
		models[i].Key = randBytes(keySize)
		models[i].Value = randBytes(valueSize)
	}
	return models
}

// iterCase is a test case for iteration
type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	for _, op := range i.pre {
		assert.Nil(t, op.Apply(base))
	}

	child := base.CacheWrap()
	for _, op := range i.child {
		assert.Nil(t, op.Apply(child))
	}

	for _, q := range i.queries {
		iter, err := child.Iterator(q.start, q.end)
		assert.Nil(t, err)

		// Make sure proper iteration works.
		for i := 0; i < len(q.expected); i++ {
			if !iter.Valid() {
				t.Fatalf("iterator invalid at %d, want %d elements", i, len(q.expected))
			}
			if !bytes.Equal(q.expected[i].Key, iter.Key()) {
				t.Fatalf("Expected key: %X\nGot keys %d = %X", q.expected[i].Key, i, iter.Key())
			}
			if !bytes.Equal(q.expected[i].Value, iter.Value()) {
				t.Fatalf("Expected value: %X\nGot value %d = %X", q.expected[i].Value, i, iter.Value())
			}
			assert.Nil(t, iter.Next())
		}
		if iter.Valid() {
			t.Fatalf("iterator must be exhausted, got key %X", iter.Key())
		}
		iter.Close()
	}
}

// range query checks the results of iteration
type rangeQuery struct {
	start    []byte
	end      []byte
	expected []Model
}

// sortModels returns a copy of the models sorted by key
func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
