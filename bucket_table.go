package ordmap

import (
	"unsafe"

	"github.com/llxisdsh/ordmap/internal/opt"
)

// bucketShape mirrors the memory layout of bucket without type parameters,
// so the padding below stays a compile-time constant.
type bucketShape struct {
	lock       uint32
	head, tail unsafe.Pointer
	size       int
}

// bucket pairs one chain with the lock guarding it. The padding comes
// first: a zero-length trailing field would itself be padded.
type bucket[K comparable, V any] struct {
	_     [(cacheLineSize - unsafe.Sizeof(bucketShape{})%cacheLineSize) % cacheLineSize * opt.PaddingMult_]byte
	lock  RWLock
	chain chain[K, V]
}

// bucketTable is one generation of the hash table. A table is immutable in
// shape: growing the map allocates a new table and publishes it.
type bucketTable[K comparable, V any] struct {
	buckets []bucket[K, V]
}

func newBucketTable[K comparable, V any](capacity int) *bucketTable[K, V] {
	return &bucketTable[K, V]{buckets: make([]bucket[K, V], capacity)}
}

func (t *bucketTable[K, V]) capacity() int {
	return len(t.buckets)
}

// route maps a key hash to its bucket index at this table's capacity.
//
//go:nosplit
func (t *bucketTable[K, V]) route(hash uintptr) int {
	return int(hash % uintptr(len(t.buckets)))
}

func (t *bucketTable[K, V]) bucketAt(i int) *bucket[K, V] {
	return &t.buckets[i]
}

func (t *bucketTable[K, V]) chainAt(i int) *chain[K, V] {
	return &t.buckets[i].chain
}

// bucketFor returns the bucket hash routes to at this table's capacity.
// Callers that did not pin the table under the table-wide lock must
// re-check that the table is still current after locking the bucket.
func (t *bucketTable[K, V]) bucketFor(hash uintptr) *bucket[K, V] {
	return &t.buckets[t.route(hash)]
}

// lockAll write-locks every bucket in ascending index order.
func (t *bucketTable[K, V]) lockAll() {
	for i := range t.buckets {
		t.buckets[i].lock.Lock()
	}
}

func (t *bucketTable[K, V]) unlockAll() {
	for i := range t.buckets {
		t.buckets[i].lock.Unlock()
	}
}

// rLockAll read-locks every bucket in ascending index order.
func (t *bucketTable[K, V]) rLockAll() {
	for i := range t.buckets {
		t.buckets[i].lock.RLock()
	}
}

func (t *bucketTable[K, V]) rUnlockAll() {
	for i := range t.buckets {
		t.buckets[i].lock.RUnlock()
	}
}
