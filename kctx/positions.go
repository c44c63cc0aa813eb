package kctx

import "github.com/ava12/kllc/ast"

// PositionStore holds one context's partial physical positions for
// either pixels or scan codes, keyed by their numeric index/code.
// Positions merge by axis (spec §3 invariants: "assigning only x does
// not erase a previously set y"), so adding a second Position for the
// same key overlays only the axes the new one actually sets.
type PositionStore[K comparable] struct {
	entries map[K]ast.Position
}

func newPositionStore[K comparable]() *PositionStore[K] {
	return &PositionStore[K]{entries: map[K]ast.Position{}}
}

func (s *PositionStore[K]) Add(key K, pos ast.Position) {
	s.entries[key] = s.entries[key].MergeFrom(pos)
}

func (s *PositionStore[K]) Get(key K) (ast.Position, bool) {
	p, ok := s.entries[key]
	return p, ok
}

func (s *PositionStore[K]) Keys() []K {
	keys := make([]K, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}
