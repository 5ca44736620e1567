// Package vars holds scenario-scoped variables and expands {name}
// placeholders against them.
package vars

import "sort"

// Store is a mutable name to value mapping for one scenario.
//
// A Store is not safe for concurrent use. Scenarios running in parallel must
// each get their own Store.
type Store struct {
	values map[string]any
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

// Put sets name to value, replacing any previous value
func (s *Store) Put(name string, value any) {
	s.values[name] = value
}

// Get returns the value stored under name. ok is false when name is absent.
func (s *Store) Get(name string) (value any, ok bool) {
	value, ok = s.values[name]
	return value, ok
}

// Remove deletes name and returns the value it held
func (s *Store) Remove(name string) (value any, ok bool) {
	value, ok = s.values[name]
	delete(s.values, name)
	return value, ok
}

// Clear removes every variable
func (s *Store) Clear() {
	clear(s.values)
}

func (s *Store) Len() int {
	return len(s.values)
}

// Names returns the variable names, sorted
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for n := range s.values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every variable in name order
func (s *Store) Each(fn func(name string, value any)) {
	for _, n := range s.Names() {
		fn(n, s.values[n])
	}
}
