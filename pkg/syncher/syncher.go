// Package syncher tracks which rows of a preloaded set were touched by an
// import run, so the remainder can be retired afterwards.
package syncher

import "context"

// Syncher indexes a snapshot of rows by key and records which keys the
// current run has seen.
type Syncher[K comparable, T any] struct {
	rows  map[K]T
	seen  map[K]bool
	keyFn func(T) K
}

func New[K comparable, T any](rows []T, keyFn func(T) K) *Syncher[K, T] {
	s := &Syncher[K, T]{
		rows:  make(map[K]T, len(rows)),
		seen:  make(map[K]bool, len(rows)),
		keyFn: keyFn,
	}
	for _, row := range rows {
		s.rows[keyFn(row)] = row
	}
	return s
}

// Get returns the indexed row for key, if any.
func (s *Syncher[K, T]) Get(key K) (T, bool) {
	row, ok := s.rows[key]
	return row, ok
}

// Put adds or replaces a row in the index. Rows added mid-run are not
// considered seen until marked.
func (s *Syncher[K, T]) Put(row T) {
	s.rows[s.keyFn(row)] = row
}

// Mark records that the run has handled key.
func (s *Syncher[K, T]) Mark(key K) {
	s.seen[key] = true
}

// Marked reports whether key has been marked during this run.
func (s *Syncher[K, T]) Marked(key K) bool {
	return s.seen[key]
}

// Len returns the number of indexed rows.
func (s *Syncher[K, T]) Len() int {
	return len(s.rows)
}

// Finalize invokes retire for every indexed row that was never marked.
// It stops at the first error.
func (s *Syncher[K, T]) Finalize(ctx context.Context, retire func(context.Context, T) error) error {
	for key, row := range s.rows {
		if s.seen[key] {
			continue
		}
		if err := retire(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
