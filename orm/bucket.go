package orm

import (
	"fmt"
	"regexp"

	"github.com/ghostchain/ghost"
	"github.com/ghostchain/ghost/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket is a prefixed subspace of the database holding models of
// a single type.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is
	// done by the primary key. The result is loaded into dest.
	// This method returns ErrNotFound if the entity does not exist in
	// the database.
	One(db ghost.ReadOnlyKVStore, key []byte, dest Model) error

	// Has checks if an entity with given primary key exists.
	Has(db ghost.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves given model in the database. The model is validated
	// before being written.
	Put(db ghost.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the
	// database. It returns ErrNotFound if an entity with given key
	// does not exist.
	Delete(db ghost.KVStore, key []byte) error

	// Iterate calls fn once per stored entity, in ascending key order.
	// Before every call dest is loaded with the entity; key is the
	// bucket local key. Returning an error from fn stops the iteration
	// and is propagated to the caller.
	Iterate(db ghost.ReadOnlyKVStore, dest Model, fn func(key []byte) error) error
}

// NewModelBucket returns a ModelBucket instance using the given name as
// the key prefix.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %q", name))
	}
	return &modelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

type modelBucket struct {
	name   string
	prefix []byte
}

// dbKey is the full key we store in the db, including prefix. We copy
// into a new array rather than use append, as we don't want consecutive
// calls to overwrite the same byte array.
func (b *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

func (b *modelBucket) One(db ghost.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	return UnmarshalModel(raw, dest)
}

func (b *modelBucket) Has(db ghost.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.dbKey(key))
}

func (b *modelBucket) Put(db ghost.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := MarshalModel(m)
	if err != nil {
		return err
	}
	return db.Set(b.dbKey(key), raw)
}

func (b *modelBucket) Delete(db ghost.KVStore, key []byte) error {
	dbkey := b.dbKey(key)
	if has, err := db.Has(dbkey); err != nil {
		return err
	} else if !has {
		return errors.Wrapf(errors.ErrNotFound, "no %s entity for key", b.name)
	}
	return db.Delete(dbkey)
}

func (b *modelBucket) Iterate(db ghost.ReadOnlyKVStore, dest Model, fn func(key []byte) error) error {
	it, err := db.Iterator(b.prefix, prefixEnd(b.prefix))
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		if err := UnmarshalModel(it.Value(), dest); err != nil {
			return err
		}
		if err := fn(it.Key()[len(b.prefix):]); err != nil {
			return err
		}
	}
	return nil
}

// prefixEnd returns the lowest key that is above all keys starting with
// the prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	// the whole prefix is 0xff bytes, iterate to the end of the keyspace
	return nil
}
