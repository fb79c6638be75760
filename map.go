// Package ordmap provides a concurrent hash map that remembers insertion
// order, guarded by one lock per bucket plus a table-wide lock.
package ordmap

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

// Map is a concurrent hash map that iterates in insertion order.
//
// Entries live in nodes that belong to exactly one bucket chain and to a
// single global order index at the same time. Lookups touch only the lock
// of their bucket; inserts and deletes additionally take the table-wide
// lock, which is always acquired before any bucket lock.
//
// Core properties:
//   - Single-key operations are linearizable
//   - Operations on keys in different buckets do not block each other
//   - Iteration yields a consistent snapshot in first-insertion order
//   - The table doubles when the load factor exceeds its threshold
//
// Notes:
//   - Map must be created with New or MustNew and must not be copied.
type Map[K comparable, V any] struct {
	_ noCopy

	// mu is the table-wide lock. It guards order, count, growths and the
	// identity of table (table is only replaced while mu is held).
	mu      sync.Mutex
	table   atomic.Pointer[bucketTable[K, V]]
	order   orderIndex[K, V]
	count   int
	growths uint32

	loadFactor float64
	seed       uintptr
	keyHash    HashFunc
	logger     *zap.Logger

	computes onceGroup[K, V]
}

// New creates a Map.
//
// Parameters:
//   - options: configuration options (WithCapacity, WithLoadFactor, etc.)
//
// It fails with ErrInvalidConfiguration when the capacity is not positive
// or the load factor is outside (0, 1].
func New[K comparable, V any](
	options ...func(*MapConfig),
) (*Map[K, V], error) {
	var cfg MapConfig
	for _, o := range options {
		o(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &Map[K, V]{
		loadFactor: cfg.loadFactor,
		seed:       uintptr(rand.Uint64()),
		keyHash:    cfg.keyHash,
		logger:     cfg.logger,
	}
	if m.keyHash == nil {
		m.keyHash = defaultHasher[K]()
	}
	m.table.Store(newBucketTable[K, V](cfg.capacity))
	return m, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew[K comparable, V any](options ...func(*MapConfig)) *Map[K, V] {
	m, err := New[K, V](options...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Map[K, V]) hash(key *K) uintptr {
	return m.keyHash(noescape(unsafe.Pointer(key)), m.seed)
}

// rLockBucket read-locks the bucket for hash in the current table.
// A table replaced while we waited is detected and the lookup retried.
func (m *Map[K, V]) rLockBucket(hash uintptr) *bucket[K, V] {
	for {
		t := m.table.Load()
		b := t.bucketFor(hash)
		b.lock.RLock()
		if m.table.Load() == t {
			return b
		}
		b.lock.RUnlock()
	}
}

// lockBucket is rLockBucket with the write lock.
func (m *Map[K, V]) lockBucket(hash uintptr) *bucket[K, V] {
	for {
		t := m.table.Load()
		b := t.bucketFor(hash)
		b.lock.Lock()
		if m.table.Load() == t {
			return b
		}
		b.lock.Unlock()
	}
}

func (m *Map[K, V]) load(hash uintptr, key K) (value V, ok bool) {
	b := m.rLockBucket(hash)
	defer b.lock.RUnlock()
	if n := b.chain.find(key); n != nil {
		return n.value, true
	}
	return value, false
}

// Load returns the value stored for key and whether it was present.
func (m *Map[K, V]) Load(key K) (value V, ok bool) {
	return m.load(m.hash(&key), key)
}

// Get returns the value stored for key, or an error wrapping
// ErrKeyNotFound.
func (m *Map[K, V]) Get(key K) (V, error) {
	v, ok := m.load(m.hash(&key), key)
	if !ok {
		return v, keyNotFound(key)
	}
	return v, nil
}

// GetOrDefault returns the value stored for key, or def when absent.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := m.load(m.hash(&key), key); ok {
		return v
	}
	return def
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.load(m.hash(&key), key)
	return ok
}

// Set stores value for key. An existing key keeps its position in the
// iteration order; a new key is appended at the end.
func (m *Map[K, V]) Set(key K, value V) {
	hash := m.hash(&key)
	if _, ok := m.update(hash, key, value); ok {
		return
	}
	if _, _, grow := m.insert(hash, key, value, true); grow {
		m.grow()
	}
}

// update overwrites the value of an existing node in place, holding only
// the bucket lock. It returns the previous value.
func (m *Map[K, V]) update(hash uintptr, key K, value V) (previous V, ok bool) {
	b := m.lockBucket(hash)
	defer b.lock.Unlock()
	n := b.chain.find(key)
	if n == nil {
		return previous, false
	}
	previous, n.value = n.value, value
	return previous, true
}

// insert links a new node for key into its chain and the order index under
// the table-wide lock. If another goroutine inserted key first, the
// existing node is kept, overwritten only when overwrite is set.
//
// It returns the value held before the call, whether key was present, and
// whether the table has to grow. The caller runs grow after insert
// released its locks.
func (m *Map[K, V]) insert(
	hash uintptr,
	key K,
	value V,
	overwrite bool,
) (previous V, loaded bool, grow bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table.Load()
	b := t.bucketFor(hash)
	b.lock.Lock()
	defer b.lock.Unlock()

	if n := b.chain.find(key); n != nil {
		previous = n.value
		if overwrite {
			n.value = value
		}
		return previous, true, false
	}

	n := b.chain.append(hash, key, value)
	m.order.append(n)
	m.count++
	return previous, false, m.overloaded(m.count, t.capacity())
}

// Delete removes key. It returns an error wrapping ErrKeyNotFound when the
// key is absent, in which case the map is left unchanged.
func (m *Map[K, V]) Delete(key K) error {
	if _, ok := m.LoadAndDelete(key); !ok {
		return keyNotFound(key)
	}
	return nil
}

// LoadAndDelete removes key and returns its value, if any.
func (m *Map[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	return m.remove(m.hash(&key), key, nil)
}

// remove unlinks key from its chain and the order index. When match is
// not nil the entry is only removed if match accepts its current value.
func (m *Map[K, V]) remove(
	hash uintptr,
	key K,
	match func(V) bool,
) (value V, deleted bool) {
	// Absent keys are answered under the bucket lock alone.
	if v, ok := m.load(hash, key); !ok || (match != nil && !match(v)) {
		return value, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table.Load()
	b := t.bucketFor(hash)
	b.lock.Lock()
	defer b.lock.Unlock()

	n := b.chain.find(key)
	if n == nil || (match != nil && !match(n.value)) {
		return value, false
	}
	b.chain.remove(n)
	m.order.remove(n)
	m.count--
	return n.value, true
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Capacity returns the current number of buckets.
func (m *Map[K, V]) Capacity() int {
	return m.table.Load().capacity()
}

// Clear removes every entry. The capacity is kept.
func (m *Map[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table.Load()
	t.lockAll()
	for i := range t.buckets {
		t.chainAt(i).reset()
	}
	t.unlockAll()

	removed := m.count
	m.order.reset()
	m.count = 0
	m.logger.Debug("ordmap cleared",
		zap.Int("entries", removed),
		zap.Int("capacity", t.capacity()),
	)
}
