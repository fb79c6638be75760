package ordmap

import (
	"time"

	"go.uber.org/zap"
)

// overloaded reports whether count entries exceed the load factor of a
// table with capacity buckets.
func (m *Map[K, V]) overloaded(count, capacity int) bool {
	return float64(count) > m.loadFactor*float64(capacity)
}

// grow replaces the table with one of twice the capacity (doubling again
// while the threshold would still be exceeded). It is called only after an
// insert; it re-checks the load factor under the table-wide lock and
// returns quietly when a concurrent grow already did the work.
//
// Lock order: table-wide lock, then every bucket of the current table in
// ascending index order. Nodes are relinked by walking the order index, so
// each live entry is moved exactly once and the order links stay intact.
func (m *Map[K, V]) grow() {
	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.table.Load()
	oldLen := old.capacity()
	if !m.overloaded(m.count, oldLen) {
		return
	}
	newLen := oldLen
	for m.overloaded(m.count, newLen) && newLen <= maxInt/growthFactor {
		newLen *= growthFactor
	}
	if newLen == oldLen {
		return
	}

	start := time.Now()
	old.lockAll()
	table := newBucketTable[K, V](newLen)
	for n := range m.order.all() {
		table.chainAt(table.route(n.hash)).link(n)
	}
	m.table.Store(table)
	old.unlockAll()

	m.growths++
	m.logger.Debug("ordmap table grown",
		zap.Int("from", oldLen),
		zap.Int("to", newLen),
		zap.Int("entries", m.count),
		zap.Duration("elapsed", time.Since(start)),
	)
}
