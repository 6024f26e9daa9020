package anymap

import "math"

// HashMap is the default backing store, a thin wrapper over a builtin Go map.
type HashMap[K comparable, V any] struct {
	m map[K]V
}

func NewHashMap[K comparable, V any]() *HashMap[K, V] {
	return &HashMap[K, V]{m: make(map[K]V)}
}

func (h *HashMap[K, V]) Empty() bool { return len(h.m) == 0 }
func (h *HashMap[K, V]) Len() int    { return len(h.m) }
func (h *HashMap[K, V]) MaxLen() int { return math.MaxInt }

func (h *HashMap[K, V]) Ensure(k K) V {
	if v, ok := h.m[k]; ok {
		return v
	}
	var zero V
	h.m[k] = zero
	return zero
}

func (h *HashMap[K, V]) At(k K) (V, error) {
	if v, ok := h.m[k]; ok {
		return v, nil
	}
	var zero V
	return zero, ErrKeyNotFound
}

func (h *HashMap[K, V]) Find(k K) (V, bool) {
	v, ok := h.m[k]
	return v, ok
}

func (h *HashMap[K, V]) Count(k K) int {
	if _, ok := h.m[k]; ok {
		return 1
	}
	return 0
}

func (h *HashMap[K, V]) Set(k K, v V) { h.m[k] = v }

func (h *HashMap[K, V]) Insert(k K, v V) bool {
	if _, ok := h.m[k]; ok {
		return false
	}
	h.m[k] = v
	return true
}

func (h *HashMap[K, V]) InsertAll(entries []Entry[K, V]) {
	for _, e := range entries {
		h.Insert(e.Key, e.Value)
	}
}

func (h *HashMap[K, V]) Erase(k K) int {
	if _, ok := h.m[k]; ok {
		delete(h.m, k)
		return 1
	}
	return 0
}

func (h *HashMap[K, V]) Clear() {
	clear(h.m)
}

func (h *HashMap[K, V]) ForEach(fn func(k K, v V) error) error {
	for k, v := range h.m {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (h *HashMap[K, V]) Clone() Map[K, V] {
	n := NewHashMap[K, V]()
	for k, v := range h.m {
		n.m[k] = v
	}
	return n
}
