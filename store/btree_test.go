package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t *testing.T, db ReadOnlyKVStore, key string) []byte {
	t.Helper()
	v, err := db.Get([]byte(key))
	require.NoError(t, err)
	return v
}

func mustSet(t *testing.T, db KVStore, key, value string) {
	t.Helper()
	require.NoError(t, db.Set([]byte(key), []byte(value)))
}

func TestMemStoreBasics(t *testing.T) {
	db := MemStore()

	assert.Nil(t, mustGet(t, db, "hello"))

	mustSet(t, db, "hello", "world")
	assert.Equal(t, []byte("world"), mustGet(t, db, "hello"))

	has, err := db.Has([]byte("hello"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("hello")))
	assert.Nil(t, mustGet(t, db, "hello"))
	has, err = db.Has([]byte("hello"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	db := MemStore()
	mustSet(t, db, "a", "1")

	cache := db.CacheWrap()
	mustSet(t, cache, "b", "2")
	require.NoError(t, cache.Delete([]byte("a")))

	// visible through the cache, not yet in the parent
	assert.Nil(t, mustGet(t, cache, "a"))
	assert.Equal(t, []byte("2"), mustGet(t, cache, "b"))
	assert.Equal(t, []byte("1"), mustGet(t, db, "a"))
	assert.Nil(t, mustGet(t, db, "b"))

	require.NoError(t, cache.Write())
	assert.Nil(t, mustGet(t, db, "a"))
	assert.Equal(t, []byte("2"), mustGet(t, db, "b"))

	// a discarded wrap leaves no trace
	cache = db.CacheWrap()
	mustSet(t, cache, "c", "3")
	cache.Discard()
	assert.Nil(t, mustGet(t, db, "c"))
}

func TestCacheWrapLastWriteWins(t *testing.T) {
	db := MemStore()

	cache := db.CacheWrap()
	mustSet(t, cache, "k", "one")
	require.NoError(t, cache.Delete([]byte("k")))
	mustSet(t, cache, "k", "two")
	require.NoError(t, cache.Write())

	assert.Equal(t, []byte("two"), mustGet(t, db, "k"))
}

func collect(t *testing.T, it Iterator) []string {
	t.Helper()
	defer it.Close()
	var res []string
	for ; it.Valid(); it.Next() {
		res = append(res, string(it.Key())+"="+string(it.Value()))
	}
	return res
}

func TestIteratorMergesCacheAndBacking(t *testing.T) {
	db := MemStore()
	mustSet(t, db, "a", "1")
	mustSet(t, db, "c", "3")
	mustSet(t, db, "e", "5")

	cache := db.CacheWrap()
	mustSet(t, cache, "b", "2")   // new key between backing keys
	mustSet(t, cache, "c", "33")  // overwrite shadows backing value
	require.NoError(t, cache.Delete([]byte("e"))) // deletion hides backing value

	it, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a=1", "b=2", "c=33"}, collect(t, it))

	rit, err := cache.ReverseIterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c=33", "b=2", "a=1"}, collect(t, rit))
}

func TestIteratorRange(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		mustSet(t, db, k, k)
	}

	it, err := db.Iterator([]byte("b"), []byte("d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b=b", "c=c"}, collect(t, it))

	rit, err := db.ReverseIterator([]byte("b"), []byte("d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c=c", "b=b"}, collect(t, rit))
}
