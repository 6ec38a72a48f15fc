package index

import "sync/atomic"

// empty is served before the first build so early queries get zeroed results.
var empty = Build(nil, nil)

// Store publishes the current Index to concurrent readers.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore returns a Store with no index built yet.
func NewStore() *Store {
	return &Store{}
}

// Current returns the latest swapped-in index, or an empty index if none.
func (s *Store) Current() *Index {
	if idx := s.current.Load(); idx != nil {
		return idx
	}
	return empty
}

// Swap atomically replaces the current index and returns the previous one.
func (s *Store) Swap(idx *Index) *Index {
	return s.current.Swap(idx)
}

// Built reports whether an index has been swapped in.
func (s *Store) Built() bool {
	return s.current.Load() != nil
}
