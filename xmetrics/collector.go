// Package xmetrics exposes counter-map aggregates to prometheus.
package xmetrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/probkit/counters-lib-go/counter"
	"github.com/probkit/counters-lib-go/countermap"
)

// Collector exports a counter map's grand total, key count and per-key
// totals as prometheus gauges.
//
// Collecting reads cached totals and may trigger their recomputation, and
// the underlying collection is not safe for concurrent use: callers that
// mutate the collection from other goroutines must wrap both sides in the
// same external lock.
type Collector[K comparable, V comparable] struct {
	src      *countermap.CounterMap[K, V]
	keyLabel func(K) string

	grandTotal *prometheus.Desc
	keyCount   *prometheus.Desc
	keyTotal   *prometheus.Desc
}

// NewCollector builds a collector over src. keyLabel renders a primary key
// as the "key" label value; nil falls back to fmt.Sprint.
func NewCollector[K comparable, V comparable](
	namespace, subsystem string,
	src *countermap.CounterMap[K, V],
	keyLabel func(K) string,
) *Collector[K, V] {
	if keyLabel == nil {
		keyLabel = func(k K) string { return fmt.Sprint(k) }
	}
	return &Collector[K, V]{
		src:      src,
		keyLabel: keyLabel,
		grandTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "grand_total"),
			"Sum of every nested counter's total.",
			nil, nil,
		),
		keyCount: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "keys"),
			"Number of primary keys.",
			nil, nil,
		),
		keyTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "key_total"),
			"Total weight under one primary key.",
			[]string{"key"}, nil,
		),
	}
}

func (c *Collector[K, V]) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.grandTotal
	ch <- c.keyCount
	ch <- c.keyTotal
}

func (c *Collector[K, V]) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.grandTotal, prometheus.GaugeValue, c.src.Total())
	ch <- prometheus.MustNewConstMetric(c.keyCount, prometheus.GaugeValue, float64(c.src.Len()))
	_ = c.src.ForEach(func(k K, nested *counter.Counter[V]) error {
		ch <- prometheus.MustNewConstMetric(
			c.keyTotal, prometheus.GaugeValue, nested.Total(), c.keyLabel(k))
		return nil
	})
}
