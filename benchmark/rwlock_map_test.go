package benchmark

import "sync"

// RWLockMap is the baseline: a builtin map behind one sync.RWMutex.
type RWLockMap[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func NewRWLockMap[K comparable, V any]() *RWLockMap[K, V] {
	return &RWLockMap[K, V]{
		m: make(map[K]V),
	}
}

func (gm *RWLockMap[K, V]) Load(key K) (V, bool) {
	gm.mu.RLock()
	v, ok := gm.m[key]
	gm.mu.RUnlock()
	return v, ok
}

func (gm *RWLockMap[K, V]) Store(key K, value V) {
	gm.mu.Lock()
	gm.m[key] = value
	gm.mu.Unlock()
}

func (gm *RWLockMap[K, V]) LoadOrStore(key K, value V) (V, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if v, ok := gm.m[key]; ok {
		return v, true
	}
	gm.m[key] = value
	return value, false
}

func (gm *RWLockMap[K, V]) Delete(key K) {
	gm.mu.Lock()
	delete(gm.m, key)
	gm.mu.Unlock()
}
