package store

import (
	"bytes"

	"github.com/iov-one/keymgr/errors"
)

// side tells which of the merged sources holds the current key.
type side int

const (
	sideNone side = iota
	sidePending
	sideParent
	sideBoth
)

// mergedIterator walks pending cache entries and a parent iterator side by
// side. A pending entry wins over the parent for the same key, a deleted
// one hides it.
type mergedIterator struct {
	pending []*entry
	pos     int
	parent  Iterator
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(pending []*entry, parent Iterator) (*mergedIterator, error) {
	it := &mergedIterator{pending: pending, parent: parent}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

func (it *mergedIterator) side() side {
	own := it.pos < len(it.pending)
	parent := it.parent != nil && it.parent.Valid()
	switch {
	case !own && !parent:
		return sideNone
	case !parent:
		return sidePending
	case !own:
		return sideParent
	}
	switch c := bytes.Compare(it.pending[it.pos].key, it.parent.Key()); {
	case c < 0:
		return sidePending
	case c > 0:
		return sideParent
	default:
		return sideBoth
	}
}

func (it *mergedIterator) Valid() bool {
	return it.side() != sideNone
}

func (it *mergedIterator) Next() error {
	switch it.side() {
	case sideNone:
		return errors.Wrap(errors.ErrState, "iterator is exhausted")
	case sidePending:
		it.pos++
	case sideParent:
		if err := it.parent.Next(); err != nil {
			return err
		}
	case sideBoth:
		it.pos++
		if err := it.parent.Next(); err != nil {
			return err
		}
	}
	return it.skipDeleted()
}

// skipDeleted moves past deleted pending entries together with the parent
// keys they hide.
func (it *mergedIterator) skipDeleted() error {
	for {
		s := it.side()
		if s != sidePending && s != sideBoth {
			return nil
		}
		if !it.pending[it.pos].deleted {
			return nil
		}
		it.pos++
		if s == sideBoth {
			if err := it.parent.Next(); err != nil {
				return err
			}
		}
	}
}

func (it *mergedIterator) Key() []byte {
	switch it.side() {
	case sidePending, sideBoth:
		return it.pending[it.pos].key
	case sideParent:
		return it.parent.Key()
	default:
		panic("iterator is exhausted")
	}
}

func (it *mergedIterator) Value() []byte {
	switch it.side() {
	case sidePending, sideBoth:
		return it.pending[it.pos].value
	case sideParent:
		return it.parent.Value()
	default:
		panic("iterator is exhausted")
	}
}

func (it *mergedIterator) Close() {
	if it.parent != nil {
		it.parent.Close()
	}
	it.pending = nil
}
