package anymap

import (
	"math"
	"time"
)

type ttlEntry[V any] struct {
	value    V
	deadline time.Time
}

// TTLMap is a store whose entries expire a fixed duration after their last
// write. Expired entries are invisible to every operation and are pruned
// lazily; there is no background goroutine.
//
// Counters built over a TTLMap decay: weights silently disappear as they
// expire, so any cached aggregate may be stale. Owners should ResetCache
// before reading totals over a TTL-backed store.
type TTLMap[K comparable, V any] struct {
	ttl   time.Duration
	now   func() time.Time
	items map[K]ttlEntry[V]
}

// NewTTLMap returns a store whose entries live for ttl after their last
// write. A non-positive ttl panics.
func NewTTLMap[K comparable, V any](ttl time.Duration) *TTLMap[K, V] {
	if ttl <= 0 {
		panic("anymap: non-positive ttl")
	}
	return &TTLMap[K, V]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[K]ttlEntry[V]),
	}
}

func (t *TTLMap[K, V]) live(k K) (ttlEntry[V], bool) {
	e, ok := t.items[k]
	if !ok {
		return e, false
	}
	if t.now().After(e.deadline) {
		delete(t.items, k)
		return e, false
	}
	return e, true
}

// prune drops every expired entry so Len and iteration agree.
func (t *TTLMap[K, V]) prune() {
	now := t.now()
	for k, e := range t.items {
		if now.After(e.deadline) {
			delete(t.items, k)
		}
	}
}

func (t *TTLMap[K, V]) Empty() bool { return t.Len() == 0 }

func (t *TTLMap[K, V]) Len() int {
	t.prune()
	return len(t.items)
}

func (t *TTLMap[K, V]) MaxLen() int { return math.MaxInt }

func (t *TTLMap[K, V]) Ensure(k K) V {
	if e, ok := t.live(k); ok {
		return e.value
	}
	var zero V
	t.Set(k, zero)
	return zero
}

func (t *TTLMap[K, V]) At(k K) (V, error) {
	if e, ok := t.live(k); ok {
		return e.value, nil
	}
	var zero V
	return zero, ErrKeyNotFound
}

func (t *TTLMap[K, V]) Find(k K) (V, bool) {
	e, ok := t.live(k)
	return e.value, ok
}

func (t *TTLMap[K, V]) Count(k K) int {
	if _, ok := t.live(k); ok {
		return 1
	}
	return 0
}

// Set stores v under k and restarts its lifetime.
func (t *TTLMap[K, V]) Set(k K, v V) {
	t.items[k] = ttlEntry[V]{value: v, deadline: t.now().Add(t.ttl)}
}

func (t *TTLMap[K, V]) Insert(k K, v V) bool {
	if _, ok := t.live(k); ok {
		return false
	}
	t.Set(k, v)
	return true
}

func (t *TTLMap[K, V]) InsertAll(entries []Entry[K, V]) {
	for _, e := range entries {
		t.Insert(e.Key, e.Value)
	}
}

func (t *TTLMap[K, V]) Erase(k K) int {
	if _, ok := t.live(k); !ok {
		return 0
	}
	delete(t.items, k)
	return 1
}

func (t *TTLMap[K, V]) Clear() { clear(t.items) }

func (t *TTLMap[K, V]) ForEach(fn func(k K, v V) error) error {
	t.prune()
	for k, e := range t.items {
		if err := fn(k, e.value); err != nil {
			return err
		}
	}
	return nil
}

// Clone copies the live entries with their remaining lifetimes intact.
func (t *TTLMap[K, V]) Clone() Map[K, V] {
	t.prune()
	n := &TTLMap[K, V]{
		ttl:   t.ttl,
		now:   t.now,
		items: make(map[K]ttlEntry[V], len(t.items)),
	}
	for k, e := range t.items {
		n.items[k] = e
	}
	return n
}
