// Package ordinal maintains dense 1..N numbering over a snapshot of siblings.
//
// The functions are pure: they take the siblings as loaded and return the number
// changes to persist, in an order that never puts two siblings on the same number
// when applied one at a time (after the moving entry has been parked off-range).
package ordinal

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrOutOfRange is returned for a target or source number outside [1, N].
	ErrOutOfRange = errors.New("ordinal out of range")
	// ErrNotDense is returned when the snapshot itself is not exactly {1..N}.
	ErrNotDense = errors.New("ordinal sequence not dense")
)

type Entry[K comparable] struct {
	Key    K
	Number int
}

type Change[K comparable] struct {
	Key  K
	From int
	To   int
}

// RangeError reports a number outside the valid range of the sequence.
type RangeError struct {
	Number int
	Max    int
}

func (e *RangeError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("number %d is invalid: the sequence is empty", e.Number)
	}
	return fmt.Sprintf("number %d is outside the valid range [1, %d]", e.Number, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Append returns the number a new sibling receives.
func Append(count int) int {
	if count < 0 {
		count = 0
	}
	return count + 1
}

// Validate checks that entries hold each of 1..len(entries) exactly once.
func Validate[K comparable](entries []Entry[K]) error {
	seen := make([]bool, len(entries)+1)
	for _, e := range entries {
		if e.Number < 1 || e.Number > len(entries) {
			return fmt.Errorf("%w: number %d with %d siblings", ErrNotDense, e.Number, len(entries))
		}
		if seen[e.Number] {
			return fmt.Errorf("%w: number %d appears twice", ErrNotDense, e.Number)
		}
		seen[e.Number] = true
	}
	return nil
}

// RemoveAndClose removes the entry numbered removed and shifts every later
// sibling down by one. Changes are ordered ascending by From.
func RemoveAndClose[K comparable](entries []Entry[K], removed int) ([]Change[K], error) {
	if err := Validate(entries); err != nil {
		return nil, err
	}
	if removed < 1 || removed > len(entries) {
		return nil, &RangeError{Number: removed, Max: len(entries)}
	}
	sorted := sortedCopy(entries)
	changes := make([]Change[K], 0, len(sorted)-removed)
	for _, e := range sorted {
		if e.Number > removed {
			changes = append(changes, Change[K]{Key: e.Key, From: e.Number, To: e.Number - 1})
		}
	}
	return changes, nil
}

// MoveWithShift moves the entry at from to to and shifts the siblings in between
// by one to fill the gap. The mover's change comes first, followed by the siblings
// in collision-free order: ascending when they decrement, descending when they
// increment. from == to yields no changes.
func MoveWithShift[K comparable](entries []Entry[K], from, to int) ([]Change[K], error) {
	if err := Validate(entries); err != nil {
		return nil, err
	}
	n := len(entries)
	if from < 1 || from > n {
		return nil, &RangeError{Number: from, Max: n}
	}
	if to < 1 || to > n {
		return nil, &RangeError{Number: to, Max: n}
	}
	if from == to {
		return nil, nil
	}

	sorted := sortedCopy(entries)
	mover := sorted[from-1]
	changes := []Change[K]{{Key: mover.Key, From: from, To: to}}

	if to > from {
		for _, e := range sorted[from:to] {
			changes = append(changes, Change[K]{Key: e.Key, From: e.Number, To: e.Number - 1})
		}
		return changes, nil
	}
	for i := from - 2; i >= to-1; i-- {
		e := sorted[i]
		changes = append(changes, Change[K]{Key: e.Key, From: e.Number, To: e.Number + 1})
	}
	return changes, nil
}

// Apply returns entries with changes applied, sorted by number. Entries whose
// key is in removed are dropped.
func Apply[K comparable](entries []Entry[K], changes []Change[K], removed ...K) []Entry[K] {
	drop := make(map[K]struct{}, len(removed))
	for _, k := range removed {
		drop[k] = struct{}{}
	}
	to := make(map[K]int, len(changes))
	for _, c := range changes {
		to[c.Key] = c.To
	}
	out := make([]Entry[K], 0, len(entries))
	for _, e := range entries {
		if _, ok := drop[e.Key]; ok {
			continue
		}
		if n, ok := to[e.Key]; ok {
			e.Number = n
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func sortedCopy[K comparable](entries []Entry[K]) []Entry[K] {
	out := make([]Entry[K], len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
