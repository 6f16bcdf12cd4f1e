package mocks

import (
	"slices"
	"sync"
)

// table is the map-backed storage shared by the entity store mocks.
type table[T any] struct {
	mu   sync.Mutex
	rows map[int64]T
	next int64
	id   func(*T) *int64
}

func newTable[T any](id func(*T) *int64) *table[T] {
	return &table[T]{rows: make(map[int64]T), next: 1, id: id}
}

func (t *table[T]) insert(v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.id(v)
	if *id == 0 {
		*id = t.next
	}
	if *id >= t.next {
		t.next = *id + 1
	}
	t.rows[*id] = *v
}

func (t *table[T]) get(id int64) (*T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return &v, true
}

func (t *table[T]) update(v *T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := *t.id(v)
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = *v
	return true
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// list returns copies of the rows accepted by keep, ordered by ID.
func (t *table[T]) list(keep func(*T) bool) []*T {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		v := t.rows[id]
		if keep == nil || keep(&v) {
			out = append(out, &v)
		}
	}
	return out
}
