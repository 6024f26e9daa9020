package anymap

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores under test, one constructor per concrete type.
func testStores(t *testing.T) map[string]func() Map[string, float64] {
	t.Helper()
	return map[string]func() Map[string, float64]{
		"hash":   func() Map[string, float64] { return NewHashMap[string, float64]() },
		"sorted": func() Map[string, float64] { return NewOrderedMap[string, float64]() },
		"sharded": func() Map[string, float64] {
			return NewShardedStringMap[float64](4)
		},
		"lru": func() Map[string, float64] {
			m, err := NewLRUMap[string, float64](64)
			require.NoError(t, err)
			return m
		},
		"ttl": func() Map[string, float64] {
			return NewTTLMap[string, float64](time.Hour)
		},
	}
}

// exerciseStore runs the full contract against one store.
func exerciseStore(t *testing.T, m Map[string, float64]) {
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.Len())
	assert.Greater(t, m.MaxLen(), 0)

	// Ensure creates on miss, with the zero value.
	assert.Equal(t, 0.0, m.Ensure("a"))
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.Empty())
	assert.Equal(t, 1, m.Count("a"))

	// And returns the stored value afterwards.
	m.Set("a", 1.5)
	assert.Equal(t, 1.5, m.Ensure("a"))
	assert.Equal(t, 1, m.Len())

	// At fails on a missing key without creating it.
	_, err := m.At("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, 0, m.Count("missing"))

	v, err := m.At("a")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	// Find never creates.
	_, ok := m.Find("missing")
	assert.False(t, ok)
	v, ok = m.Find("a")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	// Insert refuses to overwrite.
	assert.True(t, m.Insert("b", 2))
	assert.False(t, m.Insert("b", 99))
	v, _ = m.Find("b")
	assert.Equal(t, 2.0, v)

	m.InsertAll([]Entry[string, float64]{{"c", 3}, {"b", 100}})
	assert.Equal(t, 3, m.Len())
	v, _ = m.Find("b")
	assert.Equal(t, 2.0, v)

	// Iteration yields every pair exactly once.
	seen := map[string]float64{}
	require.NoError(t, m.ForEach(func(k string, v float64) error {
		seen[k] = v
		return nil
	}))
	assert.Equal(t, map[string]float64{"a": 1.5, "b": 2, "c": 3}, seen)

	// A traversal error stops iteration and propagates unchanged.
	boom := errors.New("boom")
	visited := 0
	err = m.ForEach(func(string, float64) error {
		visited++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, visited)

	// Erase reports the removed count.
	assert.Equal(t, 1, m.Erase("b"))
	assert.Equal(t, 0, m.Erase("b"))
	assert.Equal(t, 2, m.Len())

	// Clone is independent.
	n := m.Clone()
	n.Set("a", 42)
	v, _ = m.Find("a")
	assert.Equal(t, 1.5, v)

	m.Clear()
	assert.True(t, m.Empty())
	assert.Equal(t, 2, n.Len())
}

func TestStoreContract(t *testing.T) {
	for name, newStore := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			exerciseStore(t, newStore())
		})
	}
}

func TestSortedMapIterationOrder(t *testing.T) {
	m := NewOrderedMap[string, float64]()
	m.Set("pear", 2)
	m.Set("apple", 1)
	m.Set("quince", 3)

	var keys []string
	require.NoError(t, m.ForEach(func(k string, _ float64) error {
		keys = append(keys, k)
		return nil
	}))
	assert.Equal(t, []string{"apple", "pear", "quince"}, keys)
	assert.True(t, sort.StringsAreSorted(keys))
}

func TestLRUMapEvicts(t *testing.T) {
	m, err := NewLRUMap[string, float64](2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.MaxLen())

	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	assert.Equal(t, 2, m.Len())
	_, ok := m.Find("a")
	assert.False(t, ok)
}

func TestLRUMapRejectsBadCapacity(t *testing.T) {
	_, err := NewLRUMap[string, float64](0)
	assert.Error(t, err)
}

func TestEqualAcrossStoreTypes(t *testing.T) {
	stores := testStores(t)
	entries := []Entry[string, float64]{{"a", 1}, {"b", 2}, {"c", 3}}

	var maps []*AnyMap[string, float64]
	for _, newStore := range stores {
		s := newStore()
		s.InsertAll(entries)
		maps = append(maps, Wrap(s))
	}
	for i := range maps {
		for j := range maps {
			assert.True(t, Equal(maps[i], maps[j]))
		}
	}

	maps[0].Set("a", 99)
	assert.False(t, Equal(maps[0], maps[1]))
	maps[0].Set("a", 1)
	maps[0].Erase("c")
	assert.False(t, Equal(maps[0], maps[1]))
}

func TestAnyMapDefaultsToHashStore(t *testing.T) {
	a := New[string, int]()
	a.Set("x", 1)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, a.Ensure("x"))
	assert.Equal(t, 0, a.Ensure("y"))
	assert.Equal(t, 2, a.Len())
}

func TestAnyMapCloneFunc(t *testing.T) {
	a := New[string, *[]int]()
	a.Set("k", &[]int{1, 2})

	b := a.CloneFunc(func(v *[]int) *[]int {
		c := append([]int(nil), *v...)
		return &c
	})
	(*mustFind(t, b, "k"))[0] = 99
	assert.Equal(t, 1, (*mustFind(t, a, "k"))[0])
}

func mustFind[K comparable, V any](t *testing.T, a *AnyMap[K, V], k K) V {
	t.Helper()
	v, ok := a.Find(k)
	require.True(t, ok)
	return v
}

func TestAnyMapString(t *testing.T) {
	a := Wrap[string, float64](NewOrderedMap[string, float64]())
	assert.Equal(t, "[]", a.String())

	a.Set("b", 2)
	a.Set("a", 1)
	assert.Equal(t, "[a=>1, b=>2]", a.String())

	// Unordered stores still render every entry once.
	h := New[string, float64]()
	h.Set("a", 1)
	h.Set("b", 2)
	s := h.String()
	assert.True(t, strings.HasPrefix(s, "["))
	assert.True(t, strings.HasSuffix(s, "]"))
	assert.Contains(t, s, "a=>1")
	assert.Contains(t, s, "b=>2")
}
