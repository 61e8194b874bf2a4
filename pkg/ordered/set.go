// Package ordered provides an insertion-ordered set.
package ordered

// Set keeps unique values in the order they were first added.
// The zero value is ready to use. A Set is not safe for concurrent use.
type Set[T comparable] struct {
	items []T
	index map[T]int
}

// NewSet creates a set holding values, duplicates dropped
func NewSet[T comparable](values ...T) *Set[T] {
	s := &Set[T]{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add appends v if it is not present and reports whether it was added
func (s *Set[T]) Add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]int)
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v is in the set
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Remove deletes v and reports whether it was present
func (s *Set[T]) Remove(v T) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, v)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true
}

// Len returns the number of values
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the values in insertion order
func (s *Set[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Clone returns an independent copy
func (s *Set[T]) Clone() *Set[T] {
	return NewSet(s.items...)
}
