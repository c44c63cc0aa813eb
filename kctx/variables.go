package kctx

import "github.com/ava12/kllc/ast"

// variableEntry holds one variable's accumulated state within a
// context. A scalar assignment and an array assignment are mutually
// exclusive views of the same name; IsArray tells a reader which one
// is live. Sequential application of assignments (in file/load order)
// gives the override policy of spec §4.3 for free: a whole-array
// write replaces Array outright (discarding prior element patches),
// an element write patches a single slot without disturbing the rest,
// and whichever happened last is, by construction, what the entry
// holds.
type variableEntry struct {
	IsArray bool
	Scalar  ast.Value
	Array   []ast.Value
}

// VariableStore holds one context's variable assignments, keyed by
// base name (spec §3 store key "variable name (+ array index if
// any)" — the index lives inside the entry, not the map key, so that
// array-element patches can be applied against the right base array).
type VariableStore struct {
	entries map[string]*variableEntry
}

func newVariableStore() *VariableStore {
	return &VariableStore{entries: map[string]*variableEntry{}}
}

// Add applies one Assignment to the store, in the override policy of
// spec §4.3. AssignDataCharacter is stored exactly like AssignScalar;
// its Name is already a quoted literal and so never collides with an
// ordinary variable name.
func (s *VariableStore) Add(a ast.Assignment) {
	e, ok := s.entries[a.Name]
	if !ok {
		e = &variableEntry{}
		s.entries[a.Name] = e
	}

	switch a.SubKind {
	case ast.AssignScalar, ast.AssignDataCharacter:
		e.IsArray = false
		if len(a.Values) > 0 {
			e.Scalar = a.Values[0]
		}
	case ast.AssignArrayWhole:
		e.IsArray = true
		e.Array = append([]ast.Value(nil), a.Values...)
	case ast.AssignArrayElement:
		idx := 0
		if a.Index != nil {
			idx = *a.Index
		}
		if !e.IsArray {
			e.IsArray = true
			e.Array = nil
		}
		for len(e.Array) <= idx {
			e.Array = append(e.Array, ast.Value{})
		}
		if len(a.Values) > 0 {
			e.Array[idx] = a.Values[0]
		}
	}
}

// Scalar returns a scalar-valued variable's value.
func (s *VariableStore) Scalar(name string) (ast.Value, bool) {
	e, ok := s.entries[name]
	if !ok || e.IsArray {
		return ast.Value{}, false
	}
	return e.Scalar, true
}

// Array returns an array-valued variable's elements.
func (s *VariableStore) Array(name string) ([]ast.Value, bool) {
	e, ok := s.entries[name]
	if !ok || !e.IsArray {
		return nil, false
	}
	return e.Array, true
}

// Names returns every variable name with an entry in the store.
func (s *VariableStore) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}
