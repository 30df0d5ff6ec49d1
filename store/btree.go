package store

import (
	"bytes"

	"github.com/google/btree"

	"github.com/ghostchain/ghost/errors"
)

// item is a single cached entry. A deleted item shadows any value the
// backing store may hold for the key.
type item struct {
	key     []byte
	value   []byte
	deleted bool
}

func lessItem(a, b item) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// BTreeCacheWrap places a btree cache over a backing store. All reads
// consult the cache first, all writes stay in the cache (and the op
// log) until Write copies them into the parent in application order.
type BTreeCacheWrap struct {
	bt     *btree.BTreeG[item]
	back   ReadOnlyKVStore
	parent KVStore
	ops    []Op
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a btree cache around a parent store.
// Use Write to flush the accumulated changes into the parent, or
// Discard to drop them.
func NewBTreeCacheWrap(parent KVStore) *BTreeCacheWrap {
	return &BTreeCacheWrap{
		bt:     btree.NewG(2, lessItem),
		back:   parent,
		parent: parent,
	}
}

// MemStore returns a simple in-memory implementation useful for tests.
// There is no persistence here.
func MemStore() CacheableKVStore {
	return &BTreeCacheWrap{
		bt:   btree.NewG(2, lessItem),
		back: EmptyKVStore{},
	}
}

// CacheWrap layers another btree cache on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b)
}

// Write copies all cached changes into the parent store, in the order
// they were applied, and resets the cache.
func (b *BTreeCacheWrap) Write() error {
	if b.parent == nil {
		return errors.Wrap(errors.ErrState, "store has no backing layer")
	}
	var err error
	if ap, ok := b.parent.(opApplier); ok {
		err = ap.ApplyOps(b.ops)
	} else {
		for _, op := range b.ops {
			if err = op.Apply(b.parent); err != nil {
				break
			}
		}
	}
	b.Discard()
	return err
}

// Discard invalidates this cache wrap and releases all pending data.
func (b *BTreeCacheWrap) Discard() {
	b.bt.Clear(false)
	b.ops = nil
}

// Set writes to the btree and records the op.
func (b *BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(item{key: ckey(key), value: cval(value)})
	b.ops = append(b.ops, Op{Key: ckey(key), Value: cval(value)})
	return nil
}

// Delete marks the key as removed and records the op.
func (b *BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(item{key: ckey(key), deleted: true})
	b.ops = append(b.ops, Op{Key: ckey(key), Delete: true})
	return nil
}

// Get reads from the btree if the key was touched, else the backing store.
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if it, ok := b.bt.Get(item{key: key}); ok {
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return b.back.Get(key)
}

// Has reads from the btree if the key was touched, else the backing store.
func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if it, ok := b.bt.Get(item{key: key}); ok {
		return !it.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator over a domain of keys in ascending order, combining the
// cached changes with the backing store.
func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	back, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(b.cachedRange(start, end, false), back, false), nil
}

// ReverseIterator over a domain of keys in descending order.
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	back, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(b.cachedRange(start, end, true), back, true), nil
}

// cachedRange returns all cached items (including deletion markers)
// within [start, end), ordered in iteration direction.
func (b *BTreeCacheWrap) cachedRange(start, end []byte, reverse bool) []item {
	var res []item
	collect := func(it item) bool {
		if end != nil && bytes.Compare(it.key, end) >= 0 {
			// above the range: stop when ascending, keep descending
			return reverse
		}
		if start != nil && bytes.Compare(it.key, start) < 0 {
			// below the range: stop when descending
			return !reverse
		}
		res = append(res, it)
		return true
	}
	if reverse {
		b.bt.Descend(collect)
	} else if start == nil {
		b.bt.Ascend(collect)
	} else {
		b.bt.AscendGreaterOrEqual(item{key: start}, collect)
	}
	return res
}

func ckey(k []byte) []byte {
	return append([]byte(nil), k...)
}

func cval(v []byte) []byte {
	if v == nil {
		return []byte{}
	}
	return append([]byte(nil), v...)
}
