package anymap

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// SortedMap keeps its entries in two parallel slices ordered by key, so
// iteration is deterministic and lookups are binary searches. It fills the
// tree-map slot among the backing stores without pulling in a tree.
type SortedMap[K comparable, V any] struct {
	keys []K
	vals []V
	cmp  func(a, b K) int
}

// NewSortedMap returns an ordered store over an arbitrary comparable key type
// using the supplied comparison (negative, zero, positive).
func NewSortedMap[K comparable, V any](cmp func(a, b K) int) *SortedMap[K, V] {
	return &SortedMap[K, V]{cmp: cmp}
}

// NewOrderedMap is NewSortedMap for naturally ordered key types.
func NewOrderedMap[K constraints.Ordered, V any]() *SortedMap[K, V] {
	return NewSortedMap[K, V](func(a, b K) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})
}

// search returns the insertion index for k and whether k is present there.
func (s *SortedMap[K, V]) search(k K) (int, bool) {
	i := sort.Search(len(s.keys), func(i int) bool {
		return s.cmp(s.keys[i], k) >= 0
	})
	return i, i < len(s.keys) && s.cmp(s.keys[i], k) == 0
}

func (s *SortedMap[K, V]) Empty() bool { return len(s.keys) == 0 }
func (s *SortedMap[K, V]) Len() int    { return len(s.keys) }
func (s *SortedMap[K, V]) MaxLen() int { return math.MaxInt }

func (s *SortedMap[K, V]) Ensure(k K) V {
	i, ok := s.search(k)
	if !ok {
		var zero V
		s.insertAt(i, k, zero)
	}
	return s.vals[i]
}

func (s *SortedMap[K, V]) At(k K) (V, error) {
	if i, ok := s.search(k); ok {
		return s.vals[i], nil
	}
	var zero V
	return zero, ErrKeyNotFound
}

func (s *SortedMap[K, V]) Find(k K) (V, bool) {
	if i, ok := s.search(k); ok {
		return s.vals[i], true
	}
	var zero V
	return zero, false
}

func (s *SortedMap[K, V]) Count(k K) int {
	if _, ok := s.search(k); ok {
		return 1
	}
	return 0
}

func (s *SortedMap[K, V]) Set(k K, v V) {
	if i, ok := s.search(k); ok {
		s.vals[i] = v
	} else {
		s.insertAt(i, k, v)
	}
}

func (s *SortedMap[K, V]) Insert(k K, v V) bool {
	i, ok := s.search(k)
	if ok {
		return false
	}
	s.insertAt(i, k, v)
	return true
}

func (s *SortedMap[K, V]) insertAt(i int, k K, v V) {
	var zeroK K
	var zeroV V
	s.keys = append(s.keys, zeroK)
	s.vals = append(s.vals, zeroV)
	copy(s.keys[i+1:], s.keys[i:])
	copy(s.vals[i+1:], s.vals[i:])
	s.keys[i] = k
	s.vals[i] = v
}

func (s *SortedMap[K, V]) InsertAll(entries []Entry[K, V]) {
	for _, e := range entries {
		s.Insert(e.Key, e.Value)
	}
}

func (s *SortedMap[K, V]) Erase(k K) int {
	i, ok := s.search(k)
	if !ok {
		return 0
	}
	s.keys = append(s.keys[:i], s.keys[i+1:]...)
	s.vals = append(s.vals[:i], s.vals[i+1:]...)
	return 1
}

func (s *SortedMap[K, V]) Clear() {
	s.keys = s.keys[:0]
	s.vals = s.vals[:0]
}

func (s *SortedMap[K, V]) ForEach(fn func(k K, v V) error) error {
	for i, k := range s.keys {
		if err := fn(k, s.vals[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SortedMap[K, V]) Clone() Map[K, V] {
	n := NewSortedMap[K, V](s.cmp)
	n.keys = append([]K(nil), s.keys...)
	n.vals = append([]V(nil), s.vals...)
	return n
}
