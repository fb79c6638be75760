package ordmap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/llxisdsh/ordmap/internal/opt"
)

func TestBucketTable_Route(t *testing.T) {
	for _, capacity := range []int{1, 3, 4, 8, 10, 1024} {
		table := newBucketTable[int, int](capacity)
		require.Equal(t, capacity, table.capacity())
		for h := range uintptr(4096) {
			require.Equal(t, int(h%uintptr(capacity)), table.route(h))
		}
		require.Equal(t, int(^uintptr(0)%uintptr(capacity)), table.route(^uintptr(0)))
	}
}

func TestBucketTable_BucketFor(t *testing.T) {
	table := newBucketTable[int, int](8)
	require.Same(t, table.bucketAt(3), table.bucketFor(11))
	require.Same(t, &table.bucketAt(3).chain, table.chainAt(3))

	// the same hash routes elsewhere once the table doubles
	grown := newBucketTable[int, int](16)
	require.Same(t, grown.bucketAt(11), grown.bucketFor(11))
}

func TestMap_LockBucketFollowsTable(t *testing.T) {
	m := MustNew[int, int](WithCapacity(8))
	key := 11
	hash := m.hash(&key)

	b := m.lockBucket(hash)
	require.Same(t, m.table.Load().bucketFor(hash), b)
	b.lock.Unlock()

	for i := range 64 {
		m.Set(i, i)
	}
	require.Greater(t, m.Capacity(), 8)
	b = m.rLockBucket(hash)
	require.Same(t, m.table.Load().bucketFor(hash), b)
	require.Equal(t, key, b.chain.find(key).value)
	b.lock.RUnlock()
}

func TestBucketTable_LockAll(t *testing.T) {
	table := newBucketTable[int, int](16)
	table.lockAll()
	for i := range table.buckets {
		require.False(t, table.buckets[i].lock.TryLock())
	}
	table.unlockAll()
	for i := range table.buckets {
		require.True(t, table.buckets[i].lock.TryLock())
		table.buckets[i].lock.Unlock()
	}

	table.rLockAll()
	for i := range table.buckets {
		require.False(t, table.buckets[i].lock.TryLock())
	}
	table.rUnlockAll()
	require.True(t, table.buckets[0].lock.TryLock())
}

func TestBucket_Size(t *testing.T) {
	size := unsafe.Sizeof(bucket[string, int]{})
	require.Equal(t, unsafe.Sizeof(bucketShape{}), unsafe.Sizeof(struct {
		lock  RWLock
		chain chain[string, int]
	}{}))
	if opt.PaddingMult_ == 1 {
		require.Zero(t, size%cacheLineSize)
	} else {
		require.Equal(t, unsafe.Sizeof(bucketShape{}), size)
	}
}
