package kctx

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/internal/bmap"
	"github.com/ava12/kllc"
)

// MappingEntry is one context's current mapping for a trigger-key:
// the result sequence accumulated so far, whether it is isolated
// against override by lower-precedence contexts (`::`/`i::`), and
// whether it belongs to the indicator-map family (`i:` variants).
type MappingEntry struct {
	Trigger   ast.Sequence
	Result    ast.Sequence
	Isolated  bool
	Indicator bool
	M         ast.Meta
	// LastOp is the operator that produced this entry's current state.
	// Package merge needs it to decide whether folding this context's
	// entry onto a lower-precedence context's mapping should replace
	// the lower context outright or accumulate on top of it the way
	// ':+'/':-' do within a single context (spec §4.4: "':+'/':-' in a
	// higher context accumulate on top of the lower context's current
	// result set").
	LastOp ast.MapOp
}

// MappingStore holds one context's trigger-key -> mapping table. It
// is backed by bmap.BMap, the teacher's insert-only []byte-keyed map:
// a ':-' that empties a mapping's result set keeps the key in place
// with an empty result (spec §4.3; see DESIGN.md Open Question (a)),
// so the store never needs to remove an entry once inserted.
type MappingStore struct {
	m *bmap.BMap[*MappingEntry]
}

func newMappingStore() *MappingStore {
	return &MappingStore{m: bmap.New[*MappingEntry](64)}
}

func (s *MappingStore) Get(key string) (*MappingEntry, bool) {
	return s.m.Get([]byte(key))
}

func (s *MappingStore) Len() int { return s.m.Len() }

func (s *MappingStore) Each(fn func(key string, e *MappingEntry)) {
	s.m.Each(func(key []byte, e *MappingEntry) { fn(string(key), e) })
}

// Add applies one Mapping to the store under its operator's policy
// (spec §4.3), returning a non-nil warning when ':-'/'i:-' empties a
// mapping's result set. The key is kept in the store with an empty
// result rather than deleted (Open Question (a); see DESIGN.md).
func (s *MappingStore) Add(m ast.Mapping) (warning *kllc.Error, err error) {
	key := m.Trigger.Canonical()
	indicator := m.Op.IsIndicator()

	switch m.Op {
	case ast.OpMapsTo, ast.OpReplace, ast.OpIndicatorMapsTo:
		if _, ok := s.m.Get([]byte(key)); ok {
			warning = mappingShadowedWarning(m.M, key)
		}
		s.m.Set([]byte(key), &MappingEntry{Trigger: m.Trigger, Result: m.Result, Indicator: indicator, M: m.M, LastOp: m.Op})
		return warning, nil

	case ast.OpIsolate, ast.OpIndicatorIsolate:
		if _, ok := s.m.Get([]byte(key)); ok {
			warning = mappingShadowedWarning(m.M, key)
		}
		s.m.Set([]byte(key), &MappingEntry{Trigger: m.Trigger, Result: m.Result, Isolated: true, Indicator: indicator, M: m.M, LastOp: m.Op})
		return warning, nil

	case ast.OpAddTo, ast.OpIndicatorAddTo:
		existing, ok := s.m.Get([]byte(key))
		if !ok {
			s.m.Set([]byte(key), &MappingEntry{Trigger: m.Trigger, Result: dedupCombos(m.Result), Indicator: indicator, M: m.M, LastOp: m.Op})
			return nil, nil
		}
		existing.Result = ast.Sequence{Combos: unionCombos(existing.Result.Combos, m.Result.Combos)}
		existing.M = m.M
		existing.LastOp = m.Op
		return nil, nil

	case ast.OpRemoveFrom, ast.OpIndicatorRemoveFrom:
		existing, ok := s.m.Get([]byte(key))
		if !ok {
			return nil, nil
		}
		existing.Result.Combos = subtractCombos(existing.Result.Combos, m.Result.Combos)
		existing.LastOp = m.Op
		existing.M = m.M
		if len(existing.Result.Combos) == 0 {
			return mappingEmptiedByRemoveWarning(m.M, key), nil
		}
		return nil, nil
	}

	return nil, nil
}

func dedupCombos(seq ast.Sequence) ast.Sequence {
	return ast.Sequence{Combos: unionCombos(nil, seq.Combos)}
}

// unionCombos concatenates base and add, eliding duplicates by
// canonical-form equality (spec §4.3 ":+ ... duplicates elided by
// value equality"). base's order is preserved; new combos from add
// are appended in their own order.
func unionCombos(base, add []ast.Combo) []ast.Combo {
	seen := make(map[string]bool, len(base)+len(add))
	result := make([]ast.Combo, 0, len(base)+len(add))
	for _, c := range base {
		key := c.Canonical()
		if !seen[key] {
			seen[key] = true
			result = append(result, c)
		}
	}
	for _, c := range add {
		key := c.Canonical()
		if !seen[key] {
			seen[key] = true
			result = append(result, c)
		}
	}
	return result
}

// subtractCombos removes every combo in remove from base, by
// canonical-form equality.
func subtractCombos(base, remove []ast.Combo) []ast.Combo {
	drop := make(map[string]bool, len(remove))
	for _, c := range remove {
		drop[c.Canonical()] = true
	}
	result := make([]ast.Combo, 0, len(base))
	for _, c := range base {
		if !drop[c.Canonical()] {
			result = append(result, c)
		}
	}
	return result
}
