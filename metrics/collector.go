// Package metrics exports ordmap.Map statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/llxisdsh/ordmap"
)

// StatsSource is anything that reports map statistics; *ordmap.Map is one.
type StatsSource interface {
	Stats() ordmap.Stats
}

// Collector is a prometheus.Collector over a set of named maps. Every
// scrape calls Stats on each source, which is O(capacity); keep the number
// of registered maps and the scrape interval reasonable.
type Collector struct {
	sources *ordmap.Map[string, StatsSource]

	entries    *prometheus.Desc
	capacity   *prometheus.Desc
	loadFactor *prometheus.Desc
	growths    *prometheus.Desc
	maxChain   *prometheus.Desc
}

// NewCollector creates a Collector whose metric names start with
// namespace, e.g. "ordmap" gives ordmap_entries.
func NewCollector(namespace string) *Collector {
	labels := []string{"map"}
	return &Collector{
		sources: ordmap.MustNew[string, StatsSource](),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "entries"),
			"Number of live entries.", labels, nil),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "capacity"),
			"Number of buckets of the current table.", labels, nil),
		loadFactor: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "load_factor"),
			"Entries divided by capacity.", labels, nil),
		growths: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "growths_total"),
			"Total number of table growths.", labels, nil),
		maxChain: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "max_chain_length"),
			"Length of the longest bucket chain.", labels, nil),
	}
}

// Register adds src under name, replacing any source with the same name.
func (c *Collector) Register(name string, src StatsSource) {
	c.sources.Set(name, src)
}

// Unregister removes the source registered under name.
func (c *Collector) Unregister(name string) error {
	return c.sources.Delete(name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.loadFactor
	ch <- c.growths
	ch <- c.maxChain
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, src := range c.sources.All() {
		s := src.Stats()
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries), name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity), name)
		ch <- prometheus.MustNewConstMetric(c.loadFactor, prometheus.GaugeValue, s.LoadFactor, name)
		ch <- prometheus.MustNewConstMetric(c.growths, prometheus.CounterValue, float64(s.Growths), name)
		ch <- prometheus.MustNewConstMetric(c.maxChain, prometheus.GaugeValue, float64(s.MaxChain), name)
	}
}
