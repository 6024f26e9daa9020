package anymap

import (
	"fmt"
	"strings"
)

const mappingDelimiter = "=>"

// AnyMap owns exactly one backing store and exposes the Map operation set by
// delegation. The concrete store type is not recoverable through AnyMap, and
// all observable behavior is that of the wrapped store.
type AnyMap[K comparable, V any] struct {
	store Map[K, V]
}

// New returns an AnyMap backed by the default store, a builtin Go map.
func New[K comparable, V any]() *AnyMap[K, V] {
	return Wrap(NewHashMap[K, V]())
}

// Wrap returns an AnyMap backed by the given store. The AnyMap takes
// exclusive ownership; the caller must not keep using the store directly.
func Wrap[K comparable, V any](store Map[K, V]) *AnyMap[K, V] {
	return &AnyMap[K, V]{store: store}
}

func (a *AnyMap[K, V]) Empty() bool  { return a.store.Empty() }
func (a *AnyMap[K, V]) Len() int     { return a.store.Len() }
func (a *AnyMap[K, V]) MaxLen() int  { return a.store.MaxLen() }
func (a *AnyMap[K, V]) Ensure(k K) V { return a.store.Ensure(k) }

func (a *AnyMap[K, V]) At(k K) (V, error)  { return a.store.At(k) }
func (a *AnyMap[K, V]) Find(k K) (V, bool) { return a.store.Find(k) }
func (a *AnyMap[K, V]) Count(k K) int      { return a.store.Count(k) }

func (a *AnyMap[K, V]) Set(k K, v V)                   { a.store.Set(k, v) }
func (a *AnyMap[K, V]) Insert(k K, v V) bool           { return a.store.Insert(k, v) }
func (a *AnyMap[K, V]) InsertAll(entries []Entry[K, V]) { a.store.InsertAll(entries) }
func (a *AnyMap[K, V]) Erase(k K) int                  { return a.store.Erase(k) }
func (a *AnyMap[K, V]) Clear()                         { a.store.Clear() }

func (a *AnyMap[K, V]) ForEach(fn func(k K, v V) error) error {
	return a.store.ForEach(fn)
}

// Entries returns a snapshot of the map in iteration order.
func (a *AnyMap[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, a.Len())
	_ = a.ForEach(func(k K, v V) error {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
		return nil
	})
	return entries
}

// Clone returns an independent AnyMap wrapping a clone of the backing store,
// so the copy keeps the same concrete store type. Values are copied shallowly.
func (a *AnyMap[K, V]) Clone() *AnyMap[K, V] {
	return Wrap(a.store.Clone())
}

// CloneFunc is Clone with a per-value deep copy, for maps whose values are
// themselves owning objects (for example a map of counters).
func (a *AnyMap[K, V]) CloneFunc(deep func(V) V) *AnyMap[K, V] {
	c := a.Clone()
	for _, e := range c.Entries() {
		c.Set(e.Key, deep(e.Value))
	}
	return c
}

// String renders the map as [k1=>v1, k2=>v2] in iteration order. Diagnostic
// output only; there is no reader for it.
func (a *AnyMap[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	_ = a.ForEach(func(k K, v V) error {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v%s%v", k, mappingDelimiter, v)
		return nil
	})
	b.WriteByte(']')
	return b.String()
}

// errStop is used by equality traversals to break out early.
var errStop = fmt.Errorf("stop")

// Equal reports whether a and b hold the same entry set, regardless of the
// backing store types and their iteration orders.
func Equal[K, V comparable](a, b *AnyMap[K, V]) bool {
	return EqualFunc(a, b, func(x, y V) bool { return x == y })
}

// EqualFunc is Equal with a caller-supplied value comparison. Equality is
// computed by full iteration over a with lookups in b, independent of any
// comparison the stores themselves might offer.
func EqualFunc[K comparable, V any](a, b *AnyMap[K, V], eq func(V, V) bool) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	err := a.ForEach(func(k K, v V) error {
		ov, ok := b.Find(k)
		if !ok || !eq(v, ov) {
			return errStop
		}
		return nil
	})
	return err == nil
}
