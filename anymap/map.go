// Package anymap provides a key/value container abstraction that hides the
// concrete store behind a fixed operation set, so code built on top of it
// (counters, conditional distributions) never depends on which store was
// chosen at construction time.
package anymap

import "errors"

// ErrKeyNotFound is returned by At for keys the store does not hold.
var ErrKeyNotFound = errors.New("key not found")

// Entry is a single key/value pair, used for bulk inserts and snapshots.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is the contract every backing store must satisfy. Iteration order is
// store-defined and carries no meaning; equality of two stores is defined
// over their entry sets, not their order.
//
// Ensure is the only read-shaped operation that mutates: accessing a missing
// key inserts a zero-valued entry first. Find, At and Count never create.
type Map[K comparable, V any] interface {
	Empty() bool
	Len() int

	// MaxLen reports an upper bound on how many entries the store could
	// hold. Unbounded stores report math.MaxInt.
	MaxLen() int

	// Ensure returns the value stored under k, inserting a zero value
	// first if k is absent. The name carries the side effect on purpose.
	Ensure(k K) V

	// At returns the value stored under k or ErrKeyNotFound.
	At(k K) (V, error)

	// Find reports the value stored under k, if any.
	Find(k K) (V, bool)

	// Count reports 0 or 1.
	Count(k K) int

	// Set stores v under k, replacing any previous value.
	Set(k K, v V)

	// Insert stores v under k only if k is absent and reports whether it
	// was newly added.
	Insert(k K, v V) bool

	InsertAll(entries []Entry[K, V])

	// Erase removes k and reports how many entries were removed (0 or 1).
	Erase(k K) int

	Clear()

	// ForEach visits every entry. A non-nil error from fn stops the
	// traversal and is returned as-is. fn must not mutate the store.
	ForEach(fn func(k K, v V) error) error

	// Clone returns an independent store of the same concrete type with
	// the same entries. Values are copied shallowly.
	Clone() Map[K, V]
}
