package signal

import (
	"fmt"
	"sort"
)

// Set is a keyed container enforcing key uniqueness at insertion time.
// Keys are derived from elements by the key-extraction function given at
// construction; iteration order is sorted by key so traversals are
// deterministic.
type Set[T any] struct {
	key   func(T) string
	items map[string]T
}

// NewSet returns an empty set keyed by the given extraction function.
func NewSet[T any](key func(T) string) *Set[T] {
	return &Set[T]{key: key, items: make(map[string]T)}
}

// NewSeriesSet returns a set of series keyed by their id.
func NewSeriesSet() *Set[*Series] {
	return NewSet(func(s *Series) string { return s.ID() })
}

// Add inserts an element, rejecting duplicate keys.
func (s *Set[T]) Add(el T) error {
	k := s.key(el)
	if _, ok := s.items[k]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, k)
	}
	s.items[k] = el
	return nil
}

// Get returns the element stored under key.
func (s *Set[T]) Get(key string) (T, error) {
	el, ok := s.items[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return el, nil
}

// Has reports whether key is present.
func (s *Set[T]) Has(key string) bool {
	_, ok := s.items[key]
	return ok
}

// Delete removes the element stored under key, if present.
func (s *Set[T]) Delete(key string) {
	delete(s.items, key)
}

// Len returns the number of stored elements.
func (s *Set[T]) Len() int { return len(s.items) }

// Keys returns all keys in sorted order.
func (s *Set[T]) Keys() []string {
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Elements returns the stored elements in key order.
func (s *Set[T]) Elements() []T {
	keys := s.Keys()
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.items[k])
	}
	return out
}

// Each calls fn for every element in key order, stopping at the first error.
func (s *Set[T]) Each(fn func(key string, el T) error) error {
	for _, k := range s.Keys() {
		if err := fn(k, s.items[k]); err != nil {
			return err
		}
	}
	return nil
}

// Replace swaps the whole content for the given elements. The previous
// content is kept untouched when any new element has a duplicate key.
func (s *Set[T]) Replace(els []T) error {
	next := make(map[string]T, len(els))
	for _, el := range els {
		k := s.key(el)
		if _, ok := next[k]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		next[k] = el
	}
	s.items = next
	return nil
}
