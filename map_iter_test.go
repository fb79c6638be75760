package ordmap

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newABC(t *testing.T) *Map[string, int] {
	t.Helper()
	m := MustNew[string, int]()
	for i, k := range []string{"a", "b", "c", "d"} {
		m.Set(k, i+1)
	}
	return m
}

func TestMap_IterationOrder(t *testing.T) {
	m := newABC(t)

	require.Equal(t, []string{"a", "b", "c", "d"}, slices.Collect(m.Keys()))
	require.Equal(t, []string{"d", "c", "b", "a"}, slices.Collect(m.KeysBackward()))
	require.Equal(t, []int{1, 2, 3, 4}, slices.Collect(m.Values()))
	require.Equal(t, []int{4, 3, 2, 1}, slices.Collect(m.ValuesBackward()))

	var keys []string
	var values []int
	for k, v := range m.All() {
		keys = append(keys, k)
		values = append(values, v)
	}
	require.Equal(t, []string{"a", "b", "c", "d"}, keys)
	require.Equal(t, []int{1, 2, 3, 4}, values)

	keys = keys[:0]
	for k := range m.Backward() {
		keys = append(keys, k)
	}
	require.Equal(t, []string{"d", "c", "b", "a"}, keys)
}

func TestMap_Items(t *testing.T) {
	m := newABC(t)
	require.NoError(t, m.Delete("b"))

	items := m.Items()
	require.Len(t, items, m.Len())
	require.Equal(t, []Entry[string, int]{
		{Key: "a", Value: 1},
		{Key: "c", Value: 3},
		{Key: "d", Value: 4},
	}, items)

	// the snapshot is detached from the map
	items[0].Value = 100
	require.Equal(t, 1, m.GetOrDefault("a", 0))

	require.Empty(t, MustNew[int, int]().Items())
}

func TestMap_IterationFreshSnapshot(t *testing.T) {
	m := newABC(t)
	keys := m.Keys()
	values := m.Values()

	m.Set("e", 5)
	require.NoError(t, m.Delete("a"))

	require.Equal(t, []string{"b", "c", "d", "e"}, slices.Collect(keys))
	require.Equal(t, []int{2, 3, 4, 5}, slices.Collect(values))
}

func TestMap_MutateDuringRange(t *testing.T) {
	m := newABC(t)

	var seen []string
	for k, v := range m.All() {
		seen = append(seen, k)
		m.Set(k+k, v*10)
		if k == "b" {
			require.NoError(t, m.Delete("c"))
		}
	}
	// the loop observes the snapshot taken when it started
	require.Equal(t, []string{"a", "b", "c", "d"}, seen)
	require.Equal(t,
		[]string{"a", "b", "d", "aa", "bb", "cc", "dd"},
		collectKeys(m),
	)
	require.Equal(t, 30, m.GetOrDefault("cc", 0))
}

func TestMap_RangeEarlyStop(t *testing.T) {
	m := newABC(t)

	var visited []string
	m.Range(func(k string, _ int) bool {
		visited = append(visited, k)
		return k != "b"
	})
	require.Equal(t, []string{"a", "b"}, visited)

	visited = visited[:0]
	for k := range m.KeysBackward() {
		visited = append(visited, k)
		if len(visited) == 3 {
			break
		}
	}
	require.Equal(t, []string{"d", "c", "b"}, visited)

	var n int
	for range m.ValuesBackward() {
		n++
		break
	}
	require.Equal(t, 1, n)
}

func TestMap_String(t *testing.T) {
	require.Equal(t, "map[]", MustNew[string, int]().String())

	m := newABC(t)
	require.Equal(t, "map[a:1 b:2 c:3 d:4]", m.String())

	p := MustNew[point, []int]()
	p.Set(point{1, 2}, []int{3})
	require.Equal(t, "map[{1 2}:[3]]", p.String())
}

func TestMap_ItemsDuringInserts(t *testing.T) {
	const writers, perWriter = 4, 2000
	m := MustNew[int, int](WithCapacity(1))

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				k := w*perWriter + i
				m.Set(k, -k)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// without deletes each snapshot extends the previous one
	var prev []Entry[int, int]
	snapshots := 0
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		items := m.Items()
		require.GreaterOrEqual(t, len(items), len(prev))
		if len(prev) > 0 {
			require.Equal(t, prev, items[:len(prev)])
		}
		for _, e := range items[len(prev):] {
			require.Equal(t, -e.Key, e.Value)
		}
		prev = items
		snapshots++
	}

	require.Positive(t, snapshots)
	require.Equal(t, writers*perWriter, m.Len())
	require.Len(t, prev, m.Len())
	keys := make([]int, len(prev))
	for i, e := range prev {
		keys[i] = e.Key
	}
	require.Equal(t, collectKeys(m), keys)
}
