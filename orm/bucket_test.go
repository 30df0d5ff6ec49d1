package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostchain/ghost/errors"
	"github.com/ghostchain/ghost/store"
)

type counter struct {
	Count int64
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	require.NoError(t, b.Put(db, []byte("alice"), &counter{Count: 7}))

	var c counter
	require.NoError(t, b.One(db, []byte("alice"), &c))
	assert.Equal(t, int64(7), c.Count)

	has, err := b.Has(db, []byte("alice"))
	require.NoError(t, err)
	assert.True(t, has)

	err = b.One(db, []byte("bob"), &c)
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, b.Delete(db, []byte("alice")))
	err = b.One(db, []byte("alice"), &c)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = b.Delete(db, []byte("alice"))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketValidatesOnPut(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Put(db, []byte("bad"), &counter{Count: -1})
	assert.True(t, errors.ErrModel.Is(err))

	has, hErr := b.Has(db, []byte("bad"))
	require.NoError(t, hErr)
	assert.False(t, has)
}

func TestModelBucketsAreIsolated(t *testing.T) {
	db := store.MemStore()
	a := NewModelBucket("aaa")
	z := NewModelBucket("zzz")

	require.NoError(t, a.Put(db, []byte("k"), &counter{Count: 1}))

	var c counter
	err := z.One(db, []byte("k"), &c)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketIterate(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")
	other := NewModelBucket("other")

	require.NoError(t, b.Put(db, []byte("b"), &counter{Count: 2}))
	require.NoError(t, b.Put(db, []byte("a"), &counter{Count: 1}))
	require.NoError(t, b.Put(db, []byte("c"), &counter{Count: 3}))
	require.NoError(t, other.Put(db, []byte("x"), &counter{Count: 99}))

	var keys []string
	var sum int64
	var c counter
	err := b.Iterate(db, &c, func(key []byte) error {
		keys = append(keys, string(key))
		sum += c.Count
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, int64(6), sum)
}

func TestNewModelBucketRejectsBadNames(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("UPPER") })
	assert.Panics(t, func() { NewModelBucket("ab") })
}
