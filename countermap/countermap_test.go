package countermap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probkit/counters-lib-go/anymap"
	"github.com/probkit/counters-lib-go/counter"
	"github.com/probkit/counters-lib-go/xrand"
)

func TestEmptyCollection(t *testing.T) {
	m := New[string, string]()
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.LenOf("a"))
	assert.False(t, m.Contains("a"))
	assert.False(t, m.ContainsValue("a", "x"))
	assert.Equal(t, 0.0, m.Count("a", "x"))
	assert.Equal(t, 0.0, m.Total())
	assert.Equal(t, 0.0, m.TotalOf("a"))
}

func TestSetScenario(t *testing.T) {
	m := New[string, string]()
	m.Set("a", "one", 1)
	m.Set("a", "two", 2)
	m.Set("b", "three", 3)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, m.LenOf("a"))
	assert.Equal(t, 6.0, m.Total())
	assert.Equal(t, 3.0, m.TotalOf("a"))

	_, ok := m.Counter("x")
	assert.False(t, ok)
}

func TestReadPathsNeverCreateKeys(t *testing.T) {
	m := New[string, string]()

	assert.Equal(t, 0.0, m.Count("k", "v"))
	assert.Equal(t, 0.0, m.TotalOf("k"))
	assert.Equal(t, 0, m.LenOf("k"))
	_, ok := m.Counter("k")
	assert.False(t, ok)
	assert.False(t, m.ContainsValue("k", "v"))
	assert.False(t, m.Contains("k"))
	assert.Equal(t, 0, m.Len())

	// Mutators do create the key, even with a zero delta.
	m.Inc("k", "v", 0)
	assert.True(t, m.Contains("k"))
	assert.Equal(t, 1, m.Len())
}

func TestIncAggregates(t *testing.T) {
	m := New[string, string]()
	words := []string{"the", "cat", "sat", "on", "the", "mat"}
	for i := 1; i < len(words); i++ {
		m.Inc(words[i-1], words[i], 1)
	}

	assert.Equal(t, 1.0, m.Count("the", "cat"))
	assert.Equal(t, 1.0, m.Count("the", "mat"))
	assert.Equal(t, 2.0, m.TotalOf("the"))
	assert.Equal(t, 5.0, m.Total())
	assert.Equal(t, "the", m.MaxKey())
}

func TestEmptyNestedCounterIsNotAbsence(t *testing.T) {
	m := New[string, string]()
	m.Set("a", "x", 1)
	m.RemoveValue("a", "x")

	assert.True(t, m.Contains("a"))
	assert.Equal(t, 0, m.LenOf("a"))
	c, ok := m.Counter("a")
	require.True(t, ok)
	assert.True(t, c.Empty())
}

func TestRemoveKeyInvalidatesOnlyWhenPresent(t *testing.T) {
	m := New[string, string]()
	m.Set("a", "x", 1)
	m.Set("b", "y", 2)
	require.Equal(t, 3.0, m.Total())
	require.True(t, m.TotalSynced())

	m.Remove("missing")
	assert.True(t, m.TotalSynced()) // nothing removed, cache untouched

	m.Remove("a")
	assert.False(t, m.TotalSynced())
	assert.Equal(t, 2.0, m.Total())
	assert.False(t, m.Contains("a"))
}

// RemoveValue deliberately leaves the grand-total cache alone; the nested
// mutation is picked up by the next recomputation like any other.
func TestRemoveValueDoesNotInvalidateGrandTotal(t *testing.T) {
	m := New[string, string]()
	m.Set("a", "x", 1)
	m.Set("a", "y", 2)
	require.Equal(t, 3.0, m.Total())
	require.True(t, m.TotalSynced())

	m.RemoveValue("a", "y")
	assert.True(t, m.TotalSynced())
	assert.Equal(t, 3.0, m.Total()) // stale by design until invalidated

	m.ResetCache()
	assert.Equal(t, 1.0, m.Total())

	// Absent key: plain no-op.
	m.RemoveValue("zzz", "x")
	assert.False(t, m.Contains("zzz"))
}

func TestMutatorsInvalidateUnconditionally(t *testing.T) {
	m := New[string, string]()
	m.Set("a", "x", 1)
	require.Equal(t, 1.0, m.Total())

	m.Inc("a", "x", 1)
	assert.False(t, m.TotalSynced())
	assert.Equal(t, 2.0, m.Total())

	m.Set("a", "x", 5)
	assert.False(t, m.TotalSynced())
	assert.Equal(t, 5.0, m.Total())
}

func TestConditionalNormalize(t *testing.T) {
	m := New[string, string]()
	m.Set("a", "one", 1)
	m.Set("a", "two", 3)
	m.Set("b", "three", 5)

	m.ConditionalNormalize()

	assert.InDelta(t, 0.25, m.Count("a", "one"), 1e-12)
	assert.InDelta(t, 0.75, m.Count("a", "two"), 1e-12)
	assert.InDelta(t, 1.0, m.TotalOf("a"), 1e-12)
	assert.InDelta(t, 1.0, m.TotalOf("b"), 1e-12)
	// Every nested counter was non-empty, so the grand total is the key count.
	assert.InDelta(t, float64(m.Len()), m.Total(), 1e-12)
}

func TestConditionalNormalizeWithEmptyNestedCounter(t *testing.T) {
	m := New[string, string]()
	m.Set("a", "x", 2)
	m.Set("empty", "x", 1)
	m.RemoveValue("empty", "x")

	m.ConditionalNormalize()

	// The empty nested counter stays at total 0, no special case.
	assert.Equal(t, 0.0, m.TotalOf("empty"))
	assert.InDelta(t, 1.0, m.TotalOf("a"), 1e-12)
	assert.InDelta(t, 1.0, m.Total(), 1e-12)
}

func TestWithFactoryCopy(t *testing.T) {
	// Laplace-style smoothing: every new key starts from a template.
	tmpl := counter.New[string]()
	tmpl.Set("<unk>", 0.5)

	m := New(WithFactory[string, string](counter.CopyFactory(tmpl)))
	m.Inc("ctx", "word", 1)

	assert.Equal(t, 0.5, m.Count("ctx", "<unk>"))
	assert.Equal(t, 1.0, m.Count("ctx", "word"))
	assert.InDelta(t, 1.5, m.TotalOf("ctx"), 1e-12)

	// The collection owns a clone; mutating the caller's template later
	// must not affect newly materialized counters.
	tmpl.Set("<unk>", 99)
	m.Inc("ctx2", "w", 1)
	assert.Equal(t, 0.5, m.Count("ctx2", "<unk>"))
}

func TestWithFactoryStore(t *testing.T) {
	m := New(WithFactory[string, string](counter.StoreFactory(
		func() anymap.Map[string, counter.Weight] {
			return anymap.NewOrderedMap[string, counter.Weight]()
		})))

	m.Inc("k", "b", 1)
	m.Inc("k", "a", 2)
	c, ok := m.Counter("k")
	require.True(t, ok)
	assert.Equal(t, "[a=>2, b=>1]", c.String())
}

func TestWithStorePrebuilt(t *testing.T) {
	store := anymap.NewHashMap[string, *counter.Counter[string]]()
	pre := counter.New[string]()
	pre.Set("x", 4)
	store.Set("seed", pre)

	m := New(WithStore[string, string](store))
	assert.True(t, m.Contains("seed"))
	assert.False(t, m.TotalSynced())
	assert.Equal(t, 4.0, m.Total())
}

func TestEquality(t *testing.T) {
	build := func() *CounterMap[string, string] {
		m := New[string, string]()
		m.Set("a", "one", 1)
		m.Set("a", "two", 2)
		m.Set("b", "three", 3)
		return m
	}

	a := build()
	b := build()
	assert.True(t, a.Equal(b))

	// Cache state is excluded.
	a.Total()
	b.ResetCache()
	assert.True(t, a.Equal(b))

	b.Inc("a", "one", 0.5)
	assert.False(t, a.Equal(b))
	assert.True(t, a.EqualApprox(b, 0.6))
	assert.False(t, a.EqualApprox(b, 0.5))

	// Differing key sets are never equal.
	c := build()
	c.Set("extra", "v", 0)
	assert.False(t, a.Equal(c))
	assert.False(t, a.EqualApprox(c, 100))
}

func TestEqualityIndependentOfStore(t *testing.T) {
	hash := New[string, string]()
	sorted := New(WithStore[string, string](
		anymap.NewOrderedMap[string, *counter.Counter[string]]()))
	for _, m := range []*CounterMap[string, string]{hash, sorted} {
		m.Set("a", "one", 1)
		m.Set("b", "two", 2)
	}
	assert.True(t, hash.Equal(sorted))
	assert.True(t, sorted.Equal(hash))
}

func TestAddSub(t *testing.T) {
	a := New[string, string]()
	a.Set("k1", "x", 1)
	a.Set("k2", "y", 2)

	b := New[string, string]()
	b.Set("k2", "y", 3)
	b.Set("k3", "z", 4) // new key for a

	sum := a.Plus(b)
	assert.Equal(t, 1.0, sum.Count("k1", "x"))
	assert.Equal(t, 5.0, sum.Count("k2", "y"))
	assert.Equal(t, 4.0, sum.Count("k3", "z"))
	assert.Equal(t, 10.0, sum.Total())

	back := sum.Minus(b)
	assert.InDelta(t, 1.0, back.Count("k1", "x"), 1e-9)
	assert.InDelta(t, 2.0, back.Count("k2", "y"), 1e-9)
	assert.InDelta(t, 0.0, back.Count("k3", "z"), 1e-9)
	assert.True(t, back.Contains("k3")) // left behind at weight zero

	// The originals are untouched by Plus/Minus.
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2.0, a.Count("k2", "y"))
}

func TestCloneIndependence(t *testing.T) {
	tmpl := counter.New[string]()
	tmpl.Set("<unk>", 0.5)
	a := New(WithFactory[string, string](counter.CopyFactory(tmpl)))
	a.Set("k", "v", 1)
	a.Total()

	b := a.Clone()
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.TotalSynced(), b.TotalSynced())

	// Nested counters are deep copies.
	b.Inc("k", "v", 1)
	assert.Equal(t, 1.0, a.Count("k", "v"))
	assert.Equal(t, 2.0, b.Count("k", "v"))

	// The factory was cloned too: new keys in the copy still smooth.
	b.Inc("fresh", "w", 1)
	assert.Equal(t, 0.5, b.Count("fresh", "<unk>"))
}

func TestString(t *testing.T) {
	m := New(WithStore[string, string](
		anymap.NewOrderedMap[string, *counter.Counter[string]]()))
	assert.Equal(t, "[\n]", m.String())

	m.Set("a", "x", 1)
	m.Set("b", "y", 2)
	s := m.String()
	assert.True(t, strings.HasPrefix(s, "[\n"))
	assert.True(t, strings.HasSuffix(s, "]"))
	assert.Contains(t, s, " a=>[x=>1]\n")
	assert.Contains(t, s, " b=>[y=>2]\n")
}

func TestManyRandomKeys(t *testing.T) {
	m := New[string, string]()
	words := xrand.RandomWords(500, 3)
	for i := 1; i < len(words); i++ {
		m.Inc(words[i-1], words[i], 1)
	}
	assert.InDelta(t, float64(len(words)-1), m.Total(), 1e-9)

	var sum counter.Weight
	require.NoError(t, m.ForEach(func(_ string, c *counter.Counter[string]) error {
		sum += c.Total()
		return nil
	}))
	assert.InDelta(t, sum, m.Total(), 1e-9)
}

func TestMaxKeyEmpty(t *testing.T) {
	m := New[string, string]()
	assert.Equal(t, "", m.MaxKey())
}
