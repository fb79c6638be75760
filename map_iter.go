package ordmap

import (
	"fmt"
	"iter"
	"strings"
)

// Entry is a key-value pair captured by a snapshot.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// snapshotKeys copies the keys in order under the table-wide lock.
// Keys never change after insertion, so bucket locks are not needed.
func (m *Map[K, V]) snapshotKeys(backward bool) []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq := m.order.all()
	if backward {
		seq = m.order.backward()
	}
	keys := make([]K, 0, m.count)
	for n := range seq {
		keys = append(keys, n.key)
	}
	return keys
}

// snapshot copies the entries in order. Values are written under bucket
// locks, so every bucket is read-locked (ascending, after the table-wide
// lock) for the duration of the copy.
func (m *Map[K, V]) snapshot(backward bool) []Entry[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table.Load()
	t.rLockAll()
	defer t.rUnlockAll()

	seq := m.order.all()
	if backward {
		seq = m.order.backward()
	}
	entries := make([]Entry[K, V], 0, m.count)
	for n := range seq {
		entries = append(entries, Entry[K, V]{Key: n.key, Value: n.value})
	}
	return entries
}

// Items returns a snapshot of all entries in insertion order. Its length
// equals Len at the moment the snapshot was taken.
func (m *Map[K, V]) Items() []Entry[K, V] {
	return m.snapshot(false)
}

// Keys returns an iterator over keys in insertion order.
//
// Each range over the returned sequence takes a fresh snapshot; writes
// that commit while the loop body runs are not observed, and the body may
// freely call other map methods.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range m.snapshotKeys(false) {
			if !yield(k) {
				return
			}
		}
	}
}

// KeysBackward is Keys from the newest entry to the oldest.
func (m *Map[K, V]) KeysBackward() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range m.snapshotKeys(true) {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over values in insertion order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, e := range m.snapshot(false) {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// ValuesBackward is Values from the newest entry to the oldest.
func (m *Map[K, V]) ValuesBackward() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, e := range m.snapshot(true) {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// All returns an iterator over key-value pairs in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range m.snapshot(false) {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Backward is All from the newest entry to the oldest.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range m.snapshot(true) {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Range calls f for each entry in insertion order until f returns false.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.All()(f)
}

// String formats the map like a builtin map, in insertion order.
func (m *Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("map[")
	for i, e := range m.snapshot(false) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%v", e.Key, e.Value)
	}
	sb.WriteByte(']')
	return sb.String()
}
