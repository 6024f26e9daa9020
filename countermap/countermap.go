// Package countermap provides a two-level counter keyed by a primary
// dimension, suitable for conditional distributions such as bigram
// statistics: every key maps to a nested counter.Counter, created lazily by
// an owned factory, and a grand-total cache spans all nested totals.
//
// The grand total tracks a coarser invariant than the nested caches: the
// collection never tracks per-key deltas, it just invalidates itself on
// mutation and recomputes by summing nested totals on the next Total.
package countermap

import (
	"fmt"
	"math"
	"strings"

	"github.com/probkit/counters-lib-go/anymap"
	"github.com/probkit/counters-lib-go/counter"
	"github.com/probkit/counters-lib-go/numcache"
)

const mappingDelimiter = "=>"

// CounterMap maps keys of type K to counters over values of type V. Not safe
// for concurrent use.
type CounterMap[K comparable, V comparable] struct {
	counters *anymap.AnyMap[K, *counter.Counter[V]]
	total    *numcache.Cache[counter.Weight]
	factory  counter.Factory[V]
}

// Option configures a CounterMap at construction time.
type Option[K comparable, V comparable] func(*CounterMap[K, V])

// WithStore backs the collection with a pre-built store, which may already
// hold counters. The collection takes exclusive ownership.
func WithStore[K comparable, V comparable](store anymap.Map[K, *counter.Counter[V]]) Option[K, V] {
	return func(m *CounterMap[K, V]) {
		m.counters = anymap.Wrap(store)
	}
}

// WithFactory sets the factory used to materialize nested counters. The
// collection keeps its own clone.
func WithFactory[K comparable, V comparable](f counter.Factory[V]) Option[K, V] {
	return func(m *CounterMap[K, V]) {
		m.factory = f.Clone()
	}
}

// New returns a collection backed by the default store and factory unless
// overridden by options. The grand-total cache starts out of sync; the first
// Total sums whatever the store holds.
func New[K comparable, V comparable](opts ...Option[K, V]) *CounterMap[K, V] {
	m := &CounterMap[K, V]{
		counters: anymap.New[K, *counter.Counter[V]](),
		total:    numcache.NewWith[counter.Weight](0, numcache.Relaxed, false),
		factory:  counter.DefaultFactory[V](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Clone returns an independent deep copy: nested counters, the cache state
// and the factory are all duplicated.
func (m *CounterMap[K, V]) Clone() *CounterMap[K, V] {
	return &CounterMap[K, V]{
		counters: m.counters.CloneFunc(func(c *counter.Counter[V]) *counter.Counter[V] {
			return c.Clone()
		}),
		total:   m.total.Clone(),
		factory: m.factory.Clone(),
	}
}

// ensure returns the counter under key, materializing one via the factory if
// the key is new. Only mutators may call it; read paths must never create.
func (m *CounterMap[K, V]) ensure(key K) *counter.Counter[V] {
	if c, ok := m.counters.Find(key); ok {
		return c
	}
	c := m.factory.New()
	m.counters.Set(key, c)
	return c
}

//--------------------------- Mutators ---------------------------------------

// Inc adds delta to the weight of val under key, creating the nested counter
// if key is new. The grand total is invalidated unconditionally.
func (m *CounterMap[K, V]) Inc(key K, val V, delta counter.Weight) {
	m.ensure(key).Inc(val, delta)
	m.total.Reset()
}

// Set stores w as the weight of val under key, creating the nested counter
// if key is new. The grand total is invalidated unconditionally.
func (m *CounterMap[K, V]) Set(key K, val V, w counter.Weight) {
	m.ensure(key).Set(val, w)
	m.total.Reset()
}

// Remove deletes key and its whole nested counter. The grand total is
// invalidated only if the key existed.
func (m *CounterMap[K, V]) Remove(key K) {
	if m.counters.Erase(key) > 0 {
		m.total.Reset()
	}
}

// RemoveValue deletes val from the counter under key; a no-op if key is
// absent. It does not invalidate the grand total: the nested total changes
// and the collection recomputes it lazily like any other nested mutation.
func (m *CounterMap[K, V]) RemoveValue(key K, val V) {
	if c, ok := m.counters.Find(key); ok {
		c.Remove(val)
	}
}

// ConditionalNormalize normalizes every nested counter, making each nested
// total exactly 1.0 (or 0 for an empty nested counter, which is not
// special-cased), then invalidates the grand total.
func (m *CounterMap[K, V]) ConditionalNormalize() {
	_ = m.counters.ForEach(func(_ K, c *counter.Counter[V]) error {
		c.Normalize()
		return nil
	})
	m.total.Reset()
}

//--------------------------- Lookup -----------------------------------------

func (m *CounterMap[K, V]) Empty() bool { return m.counters.Empty() }

// Len reports the number of keys.
func (m *CounterMap[K, V]) Len() int { return m.counters.Len() }

// LenOf reports the number of values under key, 0 if key is absent. A key
// holding an empty counter reports 0 while still being present; emptiness is
// not absence.
func (m *CounterMap[K, V]) LenOf(key K) int {
	if c, ok := m.counters.Find(key); ok {
		return c.Len()
	}
	return 0
}

// Contains reports whether key is present. It never creates the key.
func (m *CounterMap[K, V]) Contains(key K) bool { return m.counters.Count(key) > 0 }

// ContainsValue reports whether val has an entry under key.
func (m *CounterMap[K, V]) ContainsValue(key K, val V) bool {
	if c, ok := m.counters.Find(key); ok {
		return c.Contains(val)
	}
	return false
}

// Count returns the weight of val under key, 0 if either is absent. It never
// creates an entry.
func (m *CounterMap[K, V]) Count(key K, val V) counter.Weight {
	if c, ok := m.counters.Find(key); ok {
		return c.Count(val)
	}
	return 0
}

// Total returns the sum of every nested counter's total. Out of sync, it
// recomputes by summing nested totals (each of which may itself recompute)
// and stores the result.
func (m *CounterMap[K, V]) Total() counter.Weight {
	if !m.total.IsSynced() {
		var sum counter.Weight
		_ = m.counters.ForEach(func(_ K, c *counter.Counter[V]) error {
			sum += c.Total()
			return nil
		})
		m.total.Set(sum)
	}
	return m.total.Get()
}

// TotalOf returns the total of the counter under key, 0 if key is absent.
func (m *CounterMap[K, V]) TotalOf(key K) counter.Weight {
	if c, ok := m.counters.Find(key); ok {
		return c.Total()
	}
	return 0
}

// Counter returns the nested counter under key for read access. It never
// creates the key; mutators go through the collection's own methods so the
// grand total stays honest.
func (m *CounterMap[K, V]) Counter(key K) (*counter.Counter[V], bool) {
	return m.counters.Find(key)
}

// ForEach visits every key and its nested counter in store iteration order.
// fn must not mutate the collection.
func (m *CounterMap[K, V]) ForEach(fn func(key K, c *counter.Counter[V]) error) error {
	return m.counters.ForEach(fn)
}

//--------------------------- Cache surface ----------------------------------

// SetCachePolicy switches the grand-total cache policy.
func (m *CounterMap[K, V]) SetCachePolicy(p numcache.Policy) { m.total.SetPolicy(p) }

// CachePolicy returns the grand-total cache policy.
func (m *CounterMap[K, V]) CachePolicy() numcache.Policy { return m.total.Policy() }

// ResetCache forces the grand-total cache out of sync.
func (m *CounterMap[K, V]) ResetCache() { m.total.Reset() }

// TotalSynced reports whether Total would return without recomputation.
func (m *CounterMap[K, V]) TotalSynced() bool { return m.total.IsSynced() }

//--------------------------- Equality ---------------------------------------

// Equal reports whether both collections hold the same key set and, per key,
// structurally equal nested counters. Cache state is excluded.
func (m *CounterMap[K, V]) Equal(o *CounterMap[K, V]) bool {
	return anymap.EqualFunc(m.counters, o.counters,
		func(a, b *counter.Counter[V]) bool { return a.Equal(b) })
}

// EqualApprox is Equal with a weight tolerance, applied per nested counter.
func (m *CounterMap[K, V]) EqualApprox(o *CounterMap[K, V], precision counter.Weight) bool {
	if m == o {
		return true
	}
	return anymap.EqualFunc(m.counters, o.counters,
		func(a, b *counter.Counter[V]) bool { return a.EqualApprox(b, precision) })
}

//--------------------------- Arithmetic -------------------------------------

// Add merges every nested counter of o into m, materializing missing keys
// through the factory. The grand total is invalidated.
func (m *CounterMap[K, V]) Add(o *CounterMap[K, V]) {
	_ = o.ForEach(func(key K, c *counter.Counter[V]) error {
		m.ensure(key).Add(c)
		return nil
	})
	m.total.Reset()
}

// Sub subtracts every nested counter of o from m, materializing missing keys
// through the factory. The grand total is invalidated.
func (m *CounterMap[K, V]) Sub(o *CounterMap[K, V]) {
	_ = o.ForEach(func(key K, c *counter.Counter[V]) error {
		m.ensure(key).Sub(c)
		return nil
	})
	m.total.Reset()
}

// Plus returns a new collection holding m + o.
func (m *CounterMap[K, V]) Plus(o *CounterMap[K, V]) *CounterMap[K, V] {
	n := m.Clone()
	n.Add(o)
	return n
}

// Minus returns a new collection holding m - o.
func (m *CounterMap[K, V]) Minus(o *CounterMap[K, V]) *CounterMap[K, V] {
	n := m.Clone()
	n.Sub(o)
	return n
}

//--------------------------- Rendering --------------------------------------

// String renders the collection one key per line:
//
//	[
//	 k1=>[v1=>w1, ...]
//	 k2=>[...]
//	]
func (m *CounterMap[K, V]) String() string {
	var b strings.Builder
	b.WriteString("[\n")
	_ = m.ForEach(func(key K, c *counter.Counter[V]) error {
		fmt.Fprintf(&b, " %v%s%s\n", key, mappingDelimiter, c.String())
		return nil
	})
	b.WriteByte(']')
	return b.String()
}

// MaxKey returns the key with the greatest nested total, ties broken by first
// encountered in iteration order; the zero K if the collection is empty.
func (m *CounterMap[K, V]) MaxKey() K {
	var best K
	max := math.Inf(-1)
	found := false
	_ = m.counters.ForEach(func(key K, c *counter.Counter[V]) error {
		if t := c.Total(); !found || t > max {
			best = key
			max = t
			found = true
		}
		return nil
	})
	return best
}
