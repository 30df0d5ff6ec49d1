package store

import (
	"bytes"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/ghostchain/ghost/errors"
)

// BadgerStore is a durable CommitKVStore backed by a badger database.
// Mutations go through cache wraps whose Write applies all operations
// in a single badger transaction, so a half-applied operation can
// never hit the disk.
type BadgerStore struct {
	db *badger.DB
}

var _ CommitKVStore = (*BadgerStore)(nil)
var _ opApplier = (*BadgerStore)(nil)

// OpenBadgerStore opens (creating if needed) a badger database in the
// given directory.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "cannot open badger store: %s", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get returns nil iff key doesn't exist.
func (s *BadgerStore) Get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err = it.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "badger read: %s", err)
	}
	return val, nil
}

// Has checks if a key exists.
func (s *BadgerStore) Has(key []byte) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(errors.ErrState, "badger read: %s", err)
	}
	return found, nil
}

// Set writes the key directly, outside of any cache wrap.
func (s *BadgerStore) Set(key, value []byte) error {
	return s.ApplyOps([]Op{{Key: key, Value: value}})
}

// Delete removes the key directly, outside of any cache wrap.
func (s *BadgerStore) Delete(key []byte) error {
	return s.ApplyOps([]Op{{Key: key, Delete: true}})
}

// ApplyOps applies a whole batch of writes in one badger transaction.
func (s *BadgerStore) ApplyOps(ops []Op) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, op := range ops {
			var err error
			if op.Delete {
				err = txn.Delete(op.Key)
			} else {
				err = txn.Set(op.Key, op.Value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "badger write")
}

// Iterator over a domain of keys in ascending order. The range is
// materialized under a read transaction, badger iterators cannot
// outlive their transaction.
func (s *BadgerStore) Iterator(start, end []byte) (Iterator, error) {
	return s.scan(start, end, false)
}

// ReverseIterator over a domain of keys in descending order.
func (s *BadgerStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return s.scan(start, end, true)
}

func (s *BadgerStore) scan(start, end []byte, reverse bool) (Iterator, error) {
	var data []pair
	err := s.db.View(func(txn *badger.Txn) error {
		opt := badger.DefaultIteratorOptions
		opt.Reverse = reverse
		it := txn.NewIterator(opt)
		defer it.Close()

		if reverse {
			if end == nil {
				it.Rewind()
			} else {
				it.Seek(end)
			}
		} else {
			if start == nil {
				it.Rewind()
			} else {
				it.Seek(start)
			}
		}

		for ; it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if end != nil && bytes.Compare(key, end) >= 0 {
				if reverse {
					// Seek can land exactly on the exclusive bound.
					continue
				}
				break
			}
			if start != nil && bytes.Compare(key, start) < 0 {
				if reverse {
					break
				}
				continue
			}
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			data = append(data, pair{key: key, value: value})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "badger scan: %s", err)
	}
	return newSliceIterator(data), nil
}

// CacheWrap returns a btree cache wrap whose Write lands as a single
// badger transaction.
func (s *BadgerStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s)
}

// Commit makes all writes since the last commit durable.
func (s *BadgerStore) Commit() error {
	return errors.Wrap(s.db.Sync(), "badger sync")
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return errors.Wrap(s.db.Close(), "badger close")
}
