package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenBadgerStore(dir)
	require.NoError(t, err)

	mustSet(t, db, "hello", "world")
	assert.Equal(t, []byte("world"), mustGet(t, db, "hello"))

	has, err := db.Has([]byte("hello"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Commit())
	require.NoError(t, db.Close())

	// the data survives a reopen
	db, err = OpenBadgerStore(dir)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, []byte("world"), mustGet(t, db, "hello"))
}

func TestBadgerStoreCacheWrap(t *testing.T) {
	db, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	cache := db.CacheWrap()
	mustSet(t, cache, "a", "1")
	mustSet(t, cache, "b", "2")

	// nothing lands before Write
	assert.Nil(t, mustGet(t, db, "a"))

	require.NoError(t, cache.Write())
	assert.Equal(t, []byte("1"), mustGet(t, db, "a"))
	assert.Equal(t, []byte("2"), mustGet(t, db, "b"))

	// a discarded wrap leaves no trace
	cache = db.CacheWrap()
	mustSet(t, cache, "c", "3")
	cache.Discard()
	assert.Nil(t, mustGet(t, db, "c"))
}

func TestBadgerStoreIterator(t *testing.T) {
	db, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"a", "c", "b", "d"} {
		mustSet(t, db, k, k)
	}

	it, err := db.Iterator([]byte("a"), []byte("d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a=a", "b=b", "c=c"}, collect(t, it))

	rit, err := db.ReverseIterator([]byte("a"), []byte("d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c=c", "b=b", "a=a"}, collect(t, rit))
}
