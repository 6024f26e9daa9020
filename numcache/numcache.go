// Package numcache provides a small numeric cache with two invalidation
// policies, used to keep an O(1) read path for aggregates that are expensive
// to recompute.
//
// The cache never recomputes anything itself. When it is out of sync, Get
// returns the numeric zero and the owner is expected to recompute the true
// value and call Set.
package numcache

import "golang.org/x/exp/constraints"

// Number covers every type a cache can hold.
type Number interface {
	constraints.Integer | constraints.Float
}

// Policy controls how arithmetic deltas affect the cache.
type Policy uint8

const (
	// Relaxed: any delta desynchronizes the cache and is discarded. The
	// cache stays out of sync until the next Set.
	Relaxed Policy = iota
	// Persistent: deltas are applied to the stored value in place and the
	// cache stays in sync.
	Persistent
)

func (p Policy) String() string {
	if p == Persistent {
		return "persistent"
	}
	return "relaxed"
}

// Cache holds a value, a synchronization flag and a policy. The zero-ish
// constructor New starts out of sync with the Relaxed policy.
type Cache[N Number] struct {
	value  N
	policy Policy
	synced bool
}

// New returns an unsynced cache with the Relaxed policy.
func New[N Number]() *Cache[N] {
	return &Cache[N]{}
}

// NewWith returns a fully specified cache.
func NewWith[N Number](value N, policy Policy, synced bool) *Cache[N] {
	return &Cache[N]{value: value, policy: policy, synced: synced}
}

// Set stores value and marks the cache synced.
func (c *Cache[N]) Set(value N) {
	c.value = value
	c.synced = true
}

// Get returns the stored value if synced, the numeric zero otherwise. It
// never returns a stale value and never recomputes.
func (c *Cache[N]) Get() N {
	if !c.synced {
		var zero N
		return zero
	}
	return c.value
}

// IsSynced reports whether Get would return the stored value.
func (c *Cache[N]) IsSynced() bool { return c.synced }

// Reset forces the cache out of sync regardless of policy. Resetting is not
// a logical mutation of whatever the cache aggregates, so it is legitimate
// even through an otherwise read-only view of the owner.
func (c *Cache[N]) Reset() { c.synced = false }

// SetPolicy switches the invalidation policy. Takes effect on the next delta.
func (c *Cache[N]) SetPolicy(p Policy) { c.policy = p }

// Policy returns the current invalidation policy.
func (c *Cache[N]) Policy() Policy { return c.policy }

// Add applies a +n delta under the current policy.
func (c *Cache[N]) Add(n N) {
	if c.policy == Persistent {
		c.value += n
	} else {
		c.synced = false
	}
}

// Sub applies a -n delta under the current policy.
func (c *Cache[N]) Sub(n N) {
	if c.policy == Persistent {
		c.value -= n
	} else {
		c.synced = false
	}
}

// Mul applies a *n delta under the current policy.
func (c *Cache[N]) Mul(n N) {
	if c.policy == Persistent {
		c.value *= n
	} else {
		c.synced = false
	}
}

// Div applies a /n delta under the current policy. Division by zero follows
// the numeric type's semantics.
func (c *Cache[N]) Div(n N) {
	if c.policy == Persistent {
		c.value /= n
	} else {
		c.synced = false
	}
}

// Clone returns an independent copy with the same value, policy and state.
func (c *Cache[N]) Clone() *Cache[N] {
	n := *c
	return &n
}
