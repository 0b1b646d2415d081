package engine

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tallies remember first-insertion order so leaderboard ties resolve by it,
// and they persist as JSON objects in that same order.

func newTally[K comparable]() *orderedmap.OrderedMap[K, int64] {
	return orderedmap.New[K, int64]()
}

func addTo[K comparable](t *orderedmap.OrderedMap[K, int64], k K, delta int64) int64 {
	v, _ := t.Get(k)
	v += delta
	t.Set(k, v)
	return v
}

// touch creates a zero entry if k is absent and returns the current value.
func touch[K comparable](t *orderedmap.OrderedMap[K, int64], k K) int64 {
	v, ok := t.Get(k)
	if !ok {
		t.Set(k, 0)
	}
	return v
}

func keysOf[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []K {
	out := make([]K, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

type scored[K comparable] struct {
	key   K
	score int64
}

// rank orders entries by score descending, keeping insertion order on ties.
func rank[K comparable](t *orderedmap.OrderedMap[K, int64], limit int) []scored[K] {
	out := make([]scored[K], 0, t.Len())
	for p := t.Oldest(); p != nil; p = p.Next() {
		out = append(out, scored[K]{key: p.Key, score: p.Value})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
