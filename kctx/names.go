package kctx

import "github.com/ava12/kllc/ast"

// nameEntry is a symbolic-name-to-C-identifier binding. Define and
// NameAssociation share one store (spec §3 stores table lists a
// single name_associations store for both) since they have the same
// shape and the same override policy; IsDefine only affects how
// package emit re-renders the entry.
type nameEntry struct {
	Symbol   string
	IsDefine bool
	M        ast.Meta
}

// NameStore holds one context's symbolic name -> C identifier
// bindings, keyed by name. Last writer wins for an identical target;
// a redeclared name with a different target is a hard error (spec
// §4.3 "Errors surfaced here").
type NameStore struct {
	entries map[string]nameEntry
}

func newNameStore() *NameStore {
	return &NameStore{entries: map[string]nameEntry{}}
}

func (s *NameStore) AddAssociation(n ast.NameAssociation) error {
	if existing, ok := s.entries[n.Name]; ok && existing.Symbol != n.Symbol {
		return duplicateNameAssociationError(n.M, n.Name)
	}
	s.entries[n.Name] = nameEntry{Symbol: n.Symbol, M: n.M}
	return nil
}

func (s *NameStore) AddDefine(d ast.Define) error {
	if existing, ok := s.entries[d.Name]; ok && existing.Symbol != d.Symbol {
		return duplicateNameAssociationError(d.M, d.Name)
	}
	s.entries[d.Name] = nameEntry{Symbol: d.Symbol, IsDefine: true, M: d.M}
	return nil
}

func (s *NameStore) Get(name string) (symbol string, isDefine, ok bool) {
	e, has := s.entries[name]
	if !has {
		return "", false, false
	}
	return e.Symbol, e.IsDefine, true
}

func (s *NameStore) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}
