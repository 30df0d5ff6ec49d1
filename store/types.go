package store

import (
	"github.com/ghostchain/ghost"
)

// Move references for all storage types into this package
// for shorter names everywhere.
type (
	KVStore          = ghost.KVStore
	ReadOnlyKVStore  = ghost.ReadOnlyKVStore
	SetDeleter       = ghost.SetDeleter
	Iterator         = ghost.Iterator
	CacheableKVStore = ghost.CacheableKVStore
	KVCacheWrap      = ghost.KVCacheWrap
	CommitKVStore    = ghost.CommitKVStore
)

// Op is a single write operation, recorded in application order so a
// cache wrap can be replayed into its parent store.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Apply performs the operation on the given store.
func (o Op) Apply(out SetDeleter) error {
	if o.Delete {
		return out.Delete(o.Key)
	}
	return out.Set(o.Key, o.Value)
}

// opApplier is implemented by stores that can apply a whole batch of
// operations atomically. Cache wraps prefer it over one-by-one writes.
type opApplier interface {
	ApplyOps(ops []Op) error
}

// EmptyKVStore never holds any data and silently ignores all writes.
// It serves as the backing layer of a pure in-memory store.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (e EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }

func (e EmptyKVStore) Has(key []byte) (bool, error) { return false, nil }

func (e EmptyKVStore) Set(key, value []byte) error { return nil }

func (e EmptyKVStore) Delete(key []byte) error { return nil }

func (e EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return newSliceIterator(nil), nil
}

func (e EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return newSliceIterator(nil), nil
}
