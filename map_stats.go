package ordmap

import (
	"fmt"
	"strings"
)

// Stats is a diagnostic view of a Map.
//
// Notes:
//   - map statistics are intended to be used for diagnostic
//     purposes, not for production code. This means that breaking changes
//     may be introduced into this struct even between minor releases.
type Stats struct {
	// Entries is the number of live entries.
	Entries int
	// Capacity is the number of buckets of the current table.
	Capacity int
	// LoadFactor is Entries/Capacity.
	LoadFactor float64
	// Threshold is the configured load factor that triggers growth.
	Threshold float64
	// Growths is the number of times the table grew.
	Growths uint32
	// EmptyBuckets is the number of buckets that hold no entries.
	EmptyBuckets int
	// MaxChain is the length of the longest bucket chain.
	MaxChain int
}

// String returns string representation of map stats.
func (s Stats) String() string {
	var sb strings.Builder
	sb.WriteString("Stats{\n")
	sb.WriteString(fmt.Sprintf("Entries:      %d\n", s.Entries))
	sb.WriteString(fmt.Sprintf("Capacity:     %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("LoadFactor:   %.3f\n", s.LoadFactor))
	sb.WriteString(fmt.Sprintf("Threshold:    %.3f\n", s.Threshold))
	sb.WriteString(fmt.Sprintf("Growths:      %d\n", s.Growths))
	sb.WriteString(fmt.Sprintf("EmptyBuckets: %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("MaxChain:     %d\n", s.MaxChain))
	sb.WriteString("}\n")
	return sb.String()
}

// Stats returns statistics for the Map. Just like other map
// methods, this one is thread-safe. Yet it's an O(capacity) operation,
// so it should be used only for diagnostics or debugging purposes.
func (m *Map[K, V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table.Load()
	t.rLockAll()
	defer t.rUnlockAll()

	s := Stats{
		Entries:   m.count,
		Capacity:  t.capacity(),
		Threshold: m.loadFactor,
		Growths:   m.growths,
	}
	s.LoadFactor = float64(s.Entries) / float64(s.Capacity)
	for i := range t.buckets {
		size := t.chainAt(i).size
		if size == 0 {
			s.EmptyBuckets++
		}
		s.MaxChain = max(s.MaxChain, size)
	}
	return s
}
