package counter

import "github.com/probkit/counters-lib-go/anymap"

type factoryKind uint8

const (
	factoryDefault factoryKind = iota
	factoryCopy
	factoryStore
)

// Factory produces fresh counters on demand; a counter map uses one to
// materialize the nested counter the first time a key is seen. It is a
// tagged variant rather than an interface hierarchy: the three kinds are
// built by DefaultFactory, CopyFactory and StoreFactory, and the zero value
// behaves like DefaultFactory.
type Factory[V comparable] struct {
	kind     factoryKind
	template *Counter[V]
	newStore func() anymap.Map[V, Weight]
}

// DefaultFactory returns a factory producing empty, default-backed counters.
func DefaultFactory[V comparable]() Factory[V] {
	return Factory[V]{kind: factoryDefault}
}

// CopyFactory returns a factory producing copies of tmpl. The factory keeps
// its own deep copy, so later mutation of tmpl does not leak in.
func CopyFactory[V comparable](tmpl *Counter[V]) Factory[V] {
	return Factory[V]{kind: factoryCopy, template: tmpl.Clone()}
}

// StoreFactory returns a factory producing empty counters backed by whatever
// store newStore builds, one fresh store per counter.
func StoreFactory[V comparable](newStore func() anymap.Map[V, Weight]) Factory[V] {
	return Factory[V]{kind: factoryStore, newStore: newStore}
}

// New produces an independently owned counter. It always succeeds.
func (f Factory[V]) New() *Counter[V] {
	switch f.kind {
	case factoryCopy:
		return f.template.Clone()
	case factoryStore:
		return NewFromStore(f.newStore())
	default:
		return New[V]()
	}
}

// Clone deep-copies the factory, including any template counter, so every
// owner holds an independent one.
func (f Factory[V]) Clone() Factory[V] {
	n := f
	if f.template != nil {
		n.template = f.template.Clone()
	}
	return n
}
