//go:build race

package ordmap

import (
	"sync"
	"sync/atomic"
)

// callTable holds the in-flight calls of a onceGroup in a Map.
//
// pb.MapOf reads its table with plain loads on TSO architectures, which
// the race detector reports; race builds use the package's own Map
// instead. Values are stored as any so that Map[K, V] and its call table
// do not instantiate each other without end.
type callTable[K comparable, V any] struct {
	once sync.Once
	m    *Map[K, any]
}

func (t *callTable[K, V]) calls() *Map[K, any] {
	t.once.Do(func() {
		t.m = MustNew[K, any]()
	})
	return t.m
}

// join returns the call in flight for key, registering itself as a
// duplicate, or a new call owned by the caller when there is none.
func (t *callTable[K, V]) join(key K) (*call[V], bool) {
	c := &call[V]{}
	c.wg.Add(1)
	actual, loaded := t.calls().LoadOrStore(key, c)
	if loaded {
		c = actual.(*call[V])
		atomic.AddInt32(&c.dups, 1)
	}
	return c, loaded
}

// leave drops key if it still refers to c.
func (t *callTable[K, V]) leave(key K, c *call[V]) {
	t.calls().CompareAndDelete(key, c)
}

func (t *callTable[K, V]) lookup(key K) (*call[V], bool) {
	v, ok := t.calls().Load(key)
	if !ok {
		return nil, false
	}
	return v.(*call[V]), true
}
