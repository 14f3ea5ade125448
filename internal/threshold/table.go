package threshold

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/constraints"
)

var (
	ErrEmptyTable   = errors.New("threshold table is empty")
	ErrUnsorted     = errors.New("thresholds must be strictly increasing")
	ErrNoFloorEntry = errors.New("no threshold at or below key")
)

// Entry pairs a minimum key with the payload selected from it.
type Entry[K constraints.Integer, V any] struct {
	Min   K
	Value V
}

// Table is an immutable ordered set of entries. Lookups return the entry with
// the greatest Min not exceeding the probe.
type Table[K constraints.Integer, V any] struct {
	entries []Entry[K, V]
}

// New copies entries into a table. Entries must already be sorted with
// strictly increasing Min values.
func New[K constraints.Integer, V any](entries []Entry[K, V]) (*Table[K, V], error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Min <= entries[i-1].Min {
			return nil, fmt.Errorf("%w: entry %d (%v) after %v", ErrUnsorted, i, entries[i].Min, entries[i-1].Min)
		}
	}

	owned := make([]Entry[K, V], len(entries))
	copy(owned, entries)
	return &Table[K, V]{entries: owned}, nil
}

// Floor returns the index of the last entry whose Min is <= key.
func (t *Table[K, V]) Floor(key K) (int, error) {
	// first entry strictly above key, the floor sits right before it
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Min > key
	})
	if i == 0 {
		return -1, ErrNoFloorEntry
	}
	return i - 1, nil
}

// At returns the entry at index i. The second result is false when i is out of range.
func (t *Table[K, V]) At(i int) (Entry[K, V], bool) {
	if i < 0 || i >= len(t.entries) {
		return Entry[K, V]{}, false
	}
	return t.entries[i], true
}

func (t *Table[K, V]) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table contents in ascending order.
func (t *Table[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(t.entries))
	copy(out, t.entries)
	return out
}
