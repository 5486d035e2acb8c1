// Package cfg implements spec.md §4.5's CFG traversals and
// Cooper-Harvey-Kennedy dominance over internal/ir basic blocks.
package cfg

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Set is a small generic membership set used for worklists (spec.md
// §4.5/§4.6 both iterate "for each y in DF(x)" / "seed the worklist
// with Defs(v)" style sets). Go map iteration order is randomized, so
// callers that need reproducible output sort members with SortedBy
// before emitting them.
type Set[T comparable] struct {
	m map[T]bool
}

// NewSet creates an empty set.
func NewSet[T comparable]() *Set[T] { return &Set[T]{m: make(map[T]bool)} }

// Add inserts v, reporting whether it was not already present.
func (s *Set[T]) Add(v T) bool {
	if s.m[v] {
		return false
	}
	s.m[v] = true
	return true
}

// Contains reports whether v is a member.
func (s *Set[T]) Contains(v T) bool { return s.m[v] }

// Remove deletes v, if present.
func (s *Set[T]) Remove(v T) { delete(s.m, v) }

// Len returns the number of members.
func (s *Set[T]) Len() int { return len(s.m) }

// Members returns the set's elements in unspecified order.
func (s *Set[T]) Members() []T {
	out := make([]T, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	return out
}

// SortedBy returns s's members ordered ascending by key(v), giving
// worklist consumers (phi insertion, dominance frontier construction)
// a deterministic processing order.
func SortedBy[T comparable, K constraints.Ordered](s *Set[T], key func(T) K) []T {
	out := s.Members()
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}
