package store

import (
	"bytes"
)

// pair is a key/value tuple used by materialized iterators.
type pair struct {
	key   []byte
	value []byte
}

// sliceIterator walks a preloaded, already ordered list of pairs.
type sliceIterator struct {
	data []pair
	idx  int
}

var _ Iterator = (*sliceIterator)(nil)

func newSliceIterator(data []pair) *sliceIterator {
	return &sliceIterator{data: data}
}

func (s *sliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

func (s *sliceIterator) Next() {
	s.assertValid()
	s.idx++
}

func (s *sliceIterator) Key() []byte {
	s.assertValid()
	return s.data[s.idx].key
}

func (s *sliceIterator) Value() []byte {
	s.assertValid()
	return s.data[s.idx].value
}

func (s *sliceIterator) Close() {
	s.data = nil
	s.idx = 0
}

func (s *sliceIterator) assertValid() {
	if s.idx >= len(s.data) {
		panic("iterator is invalid")
	}
}

// mergeIterator combines cached changes with a backing store iterator.
// Both inputs are ordered in the same direction. A cached entry always
// shadows the backing entry of the same key, and deletion markers hide
// backing entries without being yielded themselves.
type mergeIterator struct {
	cache   []item
	back    Iterator
	reverse bool

	key   []byte
	value []byte
	valid bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cache []item, back Iterator, reverse bool) *mergeIterator {
	m := &mergeIterator{
		cache:   cache,
		back:    back,
		reverse: reverse,
	}
	m.move()
	return m
}

func (m *mergeIterator) move() {
	for {
		hasCache := len(m.cache) > 0
		hasBack := m.back.Valid()

		if !hasCache && !hasBack {
			m.valid = false
			return
		}

		useCache := hasCache
		if hasCache && hasBack {
			cmp := bytes.Compare(m.cache[0].key, m.back.Key())
			if m.reverse {
				cmp = -cmp
			}
			if cmp == 0 {
				// the cached entry shadows the backing one
				m.back.Next()
			}
			useCache = cmp <= 0
		}

		if useCache {
			it := m.cache[0]
			m.cache = m.cache[1:]
			if it.deleted {
				continue
			}
			m.key, m.value, m.valid = it.key, it.value, true
			return
		}

		m.key = append([]byte(nil), m.back.Key()...)
		m.value = append([]byte(nil), m.back.Value()...)
		m.valid = true
		m.back.Next()
		return
	}
}

func (m *mergeIterator) Valid() bool {
	return m.valid
}

func (m *mergeIterator) Next() {
	if !m.valid {
		panic("iterator is invalid")
	}
	m.move()
}

func (m *mergeIterator) Key() []byte {
	if !m.valid {
		panic("iterator is invalid")
	}
	return m.key
}

func (m *mergeIterator) Value() []byte {
	if !m.valid {
		panic("iterator is invalid")
	}
	return m.value
}

func (m *mergeIterator) Close() {
	m.back.Close()
	m.cache = nil
	m.valid = false
}
