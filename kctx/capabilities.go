package kctx

import "github.com/ava12/kllc/ast"

// CapabilityStore holds one context's capability declarations, keyed
// by name. Last writer wins for an identical signature; a redeclared
// name with a different C symbol or argument list is a hard error
// (spec §4.3 "Errors surfaced here").
type CapabilityStore struct {
	entries map[string]ast.Capability
}

func newCapabilityStore() *CapabilityStore {
	return &CapabilityStore{entries: map[string]ast.Capability{}}
}

// SameSignature reports whether two Capability declarations agree on
// symbol and argument types, ignoring source position. Shared with
// package merge, where the same check applies across contexts.
func SameSignature(a, b ast.Capability) bool {
	if a.Symbol != b.Symbol || len(a.ArgTypes) != len(b.ArgTypes) {
		return false
	}
	for i := range a.ArgTypes {
		if a.ArgTypes[i] != b.ArgTypes[i] {
			return false
		}
	}
	return true
}

// Add declares a capability, returning an error if the name is
// already declared in this context with a different signature.
func (s *CapabilityStore) Add(c ast.Capability) error {
	if existing, ok := s.entries[c.Name]; ok && !SameSignature(existing, c) {
		return duplicateCapabilityError(c.M, c.Name)
	}
	s.entries[c.Name] = c
	return nil
}

func (s *CapabilityStore) Get(name string) (ast.Capability, bool) {
	c, ok := s.entries[name]
	return c, ok
}

func (s *CapabilityStore) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}
