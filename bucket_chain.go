package ordmap

import (
	"iter"
)

// node is the storage unit of one entry. It is linked into exactly one
// bucket chain (prev/next) and into the global order index (before/after)
// at the same time, so both views always share the same key and value.
//
// key and hash never change after creation. value is guarded by the lock
// of the bucket the node currently lives in; chain links by that bucket's
// lock; order links by the table-wide lock.
type node[K comparable, V any] struct {
	key   K
	value V
	hash  uintptr

	prev, next    *node[K, V]
	before, after *node[K, V]
}

// chain is the doubly linked list of nodes routed to one bucket.
// It carries no lock of its own; callers hold the owning bucket lock.
type chain[K comparable, V any] struct {
	head *node[K, V]
	tail *node[K, V]
	size int
}

// append creates a node for key at the tail of the chain.
func (c *chain[K, V]) append(hash uintptr, key K, value V) *node[K, V] {
	n := &node[K, V]{key: key, value: value, hash: hash}
	c.link(n)
	return n
}

// link puts an existing node at the tail. Only chain links are written.
func (c *chain[K, V]) link(n *node[K, V]) {
	n.prev, n.next = c.tail, nil
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
	c.size++
}

// find returns the first node holding key, or nil.
func (c *chain[K, V]) find(key K) *node[K, V] {
	for n := c.head; n != nil; n = n.next {
		if n.key == key {
			return n
		}
	}
	return nil
}

// remove unlinks n, which must belong to c.
func (c *chain[K, V]) remove(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
	c.size--
}

func (c *chain[K, V]) reset() {
	c.head, c.tail, c.size = nil, nil, 0
}

// all yields the nodes from head to tail.
func (c *chain[K, V]) all() iter.Seq[*node[K, V]] {
	return func(yield func(*node[K, V]) bool) {
		for n := c.head; n != nil; n = n.next {
			if !yield(n) {
				return
			}
		}
	}
}

// backward yields the nodes from tail to head.
func (c *chain[K, V]) backward() iter.Seq[*node[K, V]] {
	return func(yield func(*node[K, V]) bool) {
		for n := c.tail; n != nil; n = n.prev {
			if !yield(n) {
				return
			}
		}
	}
}
