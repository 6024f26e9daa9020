package anymap

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUMap adapts a hashicorp LRU cache to the Map contract. Unlike the other
// stores it is bounded: inserting beyond the capacity silently evicts the
// least recently used entry. Read-shaped operations use Peek so they do not
// disturb the recency order.
type LRUMap[K comparable, V any] struct {
	cache *lru.Cache[K, V]
	cap   int
}

func NewLRUMap[K comparable, V any](capacity int) (*LRUMap[K, V], error) {
	c, err := lru.New[K, V](capacity)
	if err != nil {
		return nil, fmt.Errorf("lru store: %w", err)
	}
	return &LRUMap[K, V]{cache: c, cap: capacity}, nil
}

func (l *LRUMap[K, V]) Empty() bool { return l.cache.Len() == 0 }
func (l *LRUMap[K, V]) Len() int    { return l.cache.Len() }
func (l *LRUMap[K, V]) MaxLen() int { return l.cap }

func (l *LRUMap[K, V]) Ensure(k K) V {
	if v, ok := l.cache.Peek(k); ok {
		return v
	}
	var zero V
	l.cache.Add(k, zero)
	return zero
}

func (l *LRUMap[K, V]) At(k K) (V, error) {
	if v, ok := l.cache.Peek(k); ok {
		return v, nil
	}
	var zero V
	return zero, ErrKeyNotFound
}

func (l *LRUMap[K, V]) Find(k K) (V, bool) {
	return l.cache.Peek(k)
}

func (l *LRUMap[K, V]) Count(k K) int {
	if l.cache.Contains(k) {
		return 1
	}
	return 0
}

func (l *LRUMap[K, V]) Set(k K, v V) { l.cache.Add(k, v) }

func (l *LRUMap[K, V]) Insert(k K, v V) bool {
	if l.cache.Contains(k) {
		return false
	}
	l.cache.Add(k, v)
	return true
}

func (l *LRUMap[K, V]) InsertAll(entries []Entry[K, V]) {
	for _, e := range entries {
		l.Insert(e.Key, e.Value)
	}
}

func (l *LRUMap[K, V]) Erase(k K) int {
	if l.cache.Remove(k) {
		return 1
	}
	return 0
}

func (l *LRUMap[K, V]) Clear() { l.cache.Purge() }

func (l *LRUMap[K, V]) ForEach(fn func(k K, v V) error) error {
	for _, k := range l.cache.Keys() {
		v, ok := l.cache.Peek(k)
		if !ok {
			continue
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (l *LRUMap[K, V]) Clone() Map[K, V] {
	n, err := NewLRUMap[K, V](l.cap)
	if err != nil {
		// The source was built with the same capacity, so this is
		// unreachable; keep the contract total anyway.
		panic(err)
	}
	for _, k := range l.cache.Keys() {
		if v, ok := l.cache.Peek(k); ok {
			n.cache.Add(k, v)
		}
	}
	return n
}
