//go:build !race

package ordmap

import (
	"sync/atomic"

	"github.com/llxisdsh/pb"
)

// callTable holds the in-flight calls of a onceGroup in a pb.MapOf.
type callTable[K comparable, V any] struct {
	m pb.MapOf[K, *call[V]]
}

// join returns the call in flight for key, registering itself as a
// duplicate, or a new call owned by the caller when there is none.
func (t *callTable[K, V]) join(key K) (c *call[V], loaded bool) {
	_, loaded = t.m.ProcessEntry(
		key,
		func(l *pb.EntryOf[K, *call[V]]) (*pb.EntryOf[K, *call[V]], *call[V], bool) {
			if l != nil {
				c = l.Value
				atomic.AddInt32(&c.dups, 1)
				return l, c, true
			}
			c = &call[V]{}
			c.wg.Add(1)
			return &pb.EntryOf[K, *call[V]]{Value: c}, c, false
		},
	)
	return c, loaded
}

// leave drops key if it still refers to c.
func (t *callTable[K, V]) leave(key K, c *call[V]) {
	_, _ = t.m.ProcessEntry(
		key,
		func(l *pb.EntryOf[K, *call[V]]) (*pb.EntryOf[K, *call[V]], *call[V], bool) {
			if l != nil && l.Value == c {
				return nil, nil, false
			}
			return l, nil, false
		},
	)
}

func (t *callTable[K, V]) lookup(key K) (*call[V], bool) {
	return t.m.Load(key)
}
