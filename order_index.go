package ordmap

import (
	"iter"
)

// orderIndex threads every live node in first-insertion order, independent
// of the bucket it is routed to. It is guarded by the table-wide lock and
// survives resizes untouched.
type orderIndex[K comparable, V any] struct {
	head *node[K, V]
	tail *node[K, V]
}

func (o *orderIndex[K, V]) append(n *node[K, V]) {
	n.before, n.after = o.tail, nil
	if o.tail == nil {
		o.head = n
	} else {
		o.tail.after = n
	}
	o.tail = n
}

func (o *orderIndex[K, V]) remove(n *node[K, V]) {
	if n.before != nil {
		n.before.after = n.after
	} else {
		o.head = n.after
	}
	if n.after != nil {
		n.after.before = n.before
	} else {
		o.tail = n.before
	}
	n.before, n.after = nil, nil
}

func (o *orderIndex[K, V]) reset() {
	o.head, o.tail = nil, nil
}

// all yields nodes oldest first.
func (o *orderIndex[K, V]) all() iter.Seq[*node[K, V]] {
	return func(yield func(*node[K, V]) bool) {
		for n := o.head; n != nil; n = n.after {
			if !yield(n) {
				return
			}
		}
	}
}

// backward yields nodes newest first.
func (o *orderIndex[K, V]) backward() iter.Seq[*node[K, V]] {
	return func(yield func(*node[K, V]) bool) {
		for n := o.tail; n != nil; n = n.before {
			if !yield(n) {
				return
			}
		}
	}
}
