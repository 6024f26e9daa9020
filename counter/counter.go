// Package counter provides a weighted multiset over values of an arbitrary
// comparable type, usable as an empirical probability distribution. Weights
// live in a polymorphic backing store (anymap) and the sum of all weights is
// tracked by a self-invalidating cache (numcache), so reading the total is
// O(1) whenever the cache is in sync and a single O(n) recomputation
// otherwise.
package counter

import (
	"math"

	"github.com/probkit/counters-lib-go/anymap"
	"github.com/probkit/counters-lib-go/numcache"
)

// Weight is the count associated with a value.
type Weight = float64

// DefaultPrecision is the machine epsilon of Weight, the default tolerance
// for approximate equality.
const DefaultPrecision Weight = 0x1p-52

// Counter maps values to floating-point weights. Not safe for concurrent
// use; the total cache's recompute-then-set sequence is not atomic, so even
// read paths need external locking under concurrency.
type Counter[V comparable] struct {
	weights *anymap.AnyMap[V, Weight]
	total   *numcache.Cache[Weight]
}

// New returns an empty counter backed by the default store. Its total cache
// starts in sync at zero.
func New[V comparable]() *Counter[V] {
	return &Counter[V]{
		weights: anymap.New[V, Weight](),
		total:   numcache.NewWith[Weight](0, numcache.Relaxed, true),
	}
}

// NewFromStore returns a counter that wraps store, which may already hold
// entries. The counter takes exclusive ownership. The total cache starts out
// of sync, so the first Total() sums whatever the store holds.
func NewFromStore[V comparable](store anymap.Map[V, Weight]) *Counter[V] {
	return &Counter[V]{
		weights: anymap.Wrap(store),
		total:   numcache.NewWith[Weight](0, numcache.Relaxed, false),
	}
}

// FromValues bulk-loads a counter, adding delta for every occurrence in vals.
func FromValues[V comparable](vals []V, delta Weight) *Counter[V] {
	c := New[V]()
	c.IncAll(vals, delta)
	return c
}

// Clone returns an independent deep copy, including the cache state and the
// concrete backing store type.
func (c *Counter[V]) Clone() *Counter[V] {
	return &Counter[V]{
		weights: c.weights.Clone(),
		total:   c.total.Clone(),
	}
}

//--------------------------- Mutators ---------------------------------------

// Inc adds delta to the weight of v, creating v with weight delta if absent.
// The total cache receives the same delta under the current policy.
func (c *Counter[V]) Inc(v V, delta Weight) {
	w := c.weights.Ensure(v)
	c.weights.Set(v, w+delta)
	c.total.Add(delta)
}

// IncAll applies Inc for every element of vals.
func (c *Counter[V]) IncAll(vals []V, delta Weight) {
	for _, v := range vals {
		c.Inc(v, delta)
	}
}

// Set stores w as the weight of v outright, creating v if absent. The total
// cache receives the delta between w and the previous weight.
func (c *Counter[V]) Set(v V, w Weight) {
	prev := c.weights.Ensure(v)
	c.total.Add(w - prev)
	c.weights.Set(v, w)
}

// Remove deletes v. A no-op without a cache delta if v is absent.
func (c *Counter[V]) Remove(v V) {
	w, ok := c.weights.Find(v)
	if !ok {
		return
	}
	c.total.Sub(w)
	c.weights.Erase(v)
}

// Normalize divides every weight by the total so the weights sum to exactly
// 1.0. A zero total is special-cased: every weight and the total become 0
// instead of letting the division produce NaN.
func (c *Counter[V]) Normalize() {
	total := c.Total()
	if total != 0 {
		c.Div(total)
		c.total.Set(1.0)
	} else {
		c.Scale(0)
		c.total.Set(0)
	}
}

//--------------------------- Lookup -----------------------------------------

func (c *Counter[V]) Empty() bool { return c.weights.Empty() }
func (c *Counter[V]) Len() int    { return c.weights.Len() }
func (c *Counter[V]) MaxLen() int { return c.weights.MaxLen() }

// Contains reports whether v has an entry, counted zero or otherwise.
func (c *Counter[V]) Contains(v V) bool { return c.weights.Count(v) > 0 }

// Count returns the weight of v, or 0 if v was never counted. It never
// creates an entry; "never counted" and "counted zero times" are deliberately
// indistinguishable.
func (c *Counter[V]) Count(v V) Weight {
	w, _ := c.weights.Find(v)
	return w
}

// Total returns the sum of all weights. If the cache is out of sync it
// recomputes by a full scan and stores the result; this is the only place in
// the package that recomputes the cache.
func (c *Counter[V]) Total() Weight {
	if !c.total.IsSynced() {
		var sum Weight
		_ = c.weights.ForEach(func(_ V, w Weight) error {
			sum += w
			return nil
		})
		c.total.Set(sum)
	}
	return c.total.Get()
}

// MaxValue returns the value with the greatest weight. Ties break in favor of
// the value encountered first in iteration order: only a strictly greater
// weight replaces the current maximum. An empty counter returns the zero
// value of V.
func (c *Counter[V]) MaxValue() V {
	var best V
	max := math.Inf(-1)
	found := false
	_ = c.weights.ForEach(func(v V, w Weight) error {
		if !found || w > max {
			best = v
			max = w
			found = true
		}
		return nil
	})
	return best
}

// ForEach visits every value/weight pair in store iteration order. fn must
// not mutate the counter.
func (c *Counter[V]) ForEach(fn func(v V, w Weight) error) error {
	return c.weights.ForEach(fn)
}

//--------------------------- Cache surface ----------------------------------

// SetCachePolicy switches the total cache between Relaxed and Persistent.
// Not a logical mutation of the distribution.
func (c *Counter[V]) SetCachePolicy(p numcache.Policy) { c.total.SetPolicy(p) }

// CachePolicy returns the total cache's current policy.
func (c *Counter[V]) CachePolicy() numcache.Policy { return c.total.Policy() }

// ResetCache forces the total cache out of sync; the next Total() recomputes.
func (c *Counter[V]) ResetCache() { c.total.Reset() }

// TotalSynced reports whether Total() would return without a scan.
func (c *Counter[V]) TotalSynced() bool { return c.total.IsSynced() }

//--------------------------- Equality ---------------------------------------

// Equal reports exact structural equality: same value set, identical weights.
// Cache state and backing store type are excluded from the comparison.
func (c *Counter[V]) Equal(o *Counter[V]) bool {
	return anymap.Equal(c.weights, o.weights)
}

// EqualApprox is Equal with a tolerance: the counters differ if their value
// sets differ or any pair of matching weights is at least precision apart.
func (c *Counter[V]) EqualApprox(o *Counter[V], precision Weight) bool {
	if c == o {
		return true
	}
	return anymap.EqualFunc(c.weights, o.weights, func(a, b Weight) bool {
		return math.Abs(a-b) < precision
	})
}

//--------------------------- Arithmetic -------------------------------------

// Add merges o into c, applying Inc for every entry of o. Values present only
// in o are created.
func (c *Counter[V]) Add(o *Counter[V]) {
	_ = o.ForEach(func(v V, w Weight) error {
		c.Inc(v, w)
		return nil
	})
}

// Sub subtracts o from c entry by entry, creating negatively weighted entries
// for values present only in o.
func (c *Counter[V]) Sub(o *Counter[V]) {
	_ = o.ForEach(func(v V, w Weight) error {
		c.Inc(v, -w)
		return nil
	})
}

// Shift adds delta to every stored weight. The total cache receives
// delta times the number of entries.
func (c *Counter[V]) Shift(delta Weight) {
	for _, e := range c.weights.Entries() {
		c.weights.Set(e.Key, e.Value+delta)
	}
	c.total.Add(delta * Weight(c.Len()))
}

// Scale multiplies every stored weight by f; the total cache is multiplied
// under the current policy.
func (c *Counter[V]) Scale(f Weight) {
	for _, e := range c.weights.Entries() {
		c.weights.Set(e.Key, e.Value*f)
	}
	c.total.Mul(f)
}

// Div divides every weight by w. Division by zero follows floating-point
// semantics; only Normalize special-cases a zero divisor.
func (c *Counter[V]) Div(w Weight) { c.Scale(1.0 / w) }

// Plus returns a new counter holding c + o.
func (c *Counter[V]) Plus(o *Counter[V]) *Counter[V] {
	n := c.Clone()
	n.Add(o)
	return n
}

// Minus returns a new counter holding c - o.
func (c *Counter[V]) Minus(o *Counter[V]) *Counter[V] {
	n := c.Clone()
	n.Sub(o)
	return n
}

// Shifted returns a new counter with delta added to every weight.
func (c *Counter[V]) Shifted(delta Weight) *Counter[V] {
	n := c.Clone()
	n.Shift(delta)
	return n
}

// Scaled returns a new counter with every weight multiplied by f.
func (c *Counter[V]) Scaled(f Weight) *Counter[V] {
	n := c.Clone()
	n.Scale(f)
	return n
}

// Divided returns a new counter with every weight divided by w.
func (c *Counter[V]) Divided(w Weight) *Counter[V] {
	n := c.Clone()
	n.Div(w)
	return n
}

//--------------------------- Rendering --------------------------------------

// String renders the counter as [v1=>w1, v2=>w2] in store iteration order.
func (c *Counter[V]) String() string { return c.weights.String() }
