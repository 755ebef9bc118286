package writer

import (
	"encoding/json"
	"hash/fnv"
	"reflect"
)

// Interner assigns stable indices to structurally equal values. Values are
// hashed over a canonical encoding and verified with Equal, so a hash
// collision never merges distinct values. Indices follow insertion order.
type Interner[T any] struct {
	// Equal compares two values; reflect.DeepEqual when nil.
	Equal func(a, b T) bool

	buckets map[uint64][]int
	items   []T
	refs    int
}

// NewInterner creates an empty table.
func NewInterner[T any]() *Interner[T] {
	return &Interner[T]{buckets: make(map[uint64][]int)}
}

// Intern returns the index of v, adding it when no equal value is present.
func (t *Interner[T]) Intern(v T) int {
	t.refs++
	h := canonicalHash(v)
	for _, i := range t.buckets[h] {
		if t.equal(t.items[i], v) {
			return i
		}
	}
	i := len(t.items)
	t.items = append(t.items, v)
	t.buckets[h] = append(t.buckets[h], i)
	return i
}

func (t *Interner[T]) equal(a, b T) bool {
	if t.Equal != nil {
		return t.Equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// Len returns the number of distinct values.
func (t *Interner[T]) Len() int { return len(t.items) }

// Refs returns the number of Intern calls.
func (t *Interner[T]) Refs() int { return t.refs }

// Items returns the values in index order.
func (t *Interner[T]) Items() []T { return t.items }

// canonicalHash hashes the JSON form of v. Struct fields encode in
// declaration order and map keys sorted, so equal values hash equally.
func canonicalHash(v any) uint64 {
	h := fnv.New64a()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		return 0
	}
	return h.Sum64()
}
