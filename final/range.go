package final

import (
	"sort"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc"
	"github.com/ava12/kllc/merge"
	"github.com/ava12/kllc/rangeset"
)

// resolveLayerMappings expands every range trigger in layer into its
// enumerated concrete triggers (spec §4.5 "range expansion"), and
// resolves collisions: an explicit mapping always wins over a range
// expansion that targets the same concrete trigger; two ranges that
// both expand onto the same trigger are a hard error. The result is
// sorted into the deterministic traversal order finalization needs
// to assign stable macro indices.
func resolveLayerMappings(layer *merge.Layer) ([]*merge.MergedMapping, []*kllc.Error, error) {
	entries := make([]*merge.MergedMapping, 0, len(layer.Mappings))
	for _, m := range layer.Mappings {
		entries = append(entries, m)
	}
	sort.Slice(entries, func(i, j int) bool { return metaLess(entries[i].M, entries[j].M) })

	type resolvedEntry struct {
		mapping    *merge.MergedMapping
		fromRange  bool
		rangeOrder int
	}

	resolved := map[string]resolvedEntry{}

	var explicit, ranged []*merge.MergedMapping
	for _, m := range entries {
		if sequenceHasRange(m.Trigger) {
			ranged = append(ranged, m)
		} else {
			explicit = append(explicit, m)
		}
	}

	for _, m := range explicit {
		resolved[m.Trigger.Canonical()] = resolvedEntry{mapping: m}
	}

	for order, m := range ranged {
		expanded, err := expandSequence(m.Trigger)
		if err != nil {
			return nil, nil, err
		}
		for _, concreteTrigger := range expanded {
			key := concreteTrigger.Canonical()
			if existing, ok := resolved[key]; ok {
				if !existing.fromRange {
					continue
				}
				return nil, nil, rangeCollisionError(m.M, key)
			}
			resolved[key] = resolvedEntry{
				mapping:    &merge.MergedMapping{Trigger: concreteTrigger, Result: m.Result, Isolated: m.Isolated, Indicator: m.Indicator, M: m.M},
				fromRange:  true,
				rangeOrder: order,
			}
		}
	}

	out := make([]*merge.MergedMapping, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, r.mapping)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if metaLess(a.M, b.M) {
			return true
		}
		if metaLess(b.M, a.M) {
			return false
		}
		return a.Trigger.Canonical() < b.Trigger.Canonical()
	})

	return out, nil, nil
}

func sequenceHasRange(seq ast.Sequence) bool {
	for _, combo := range seq.Combos {
		for _, el := range combo.Elements {
			if el.Range != nil {
				return true
			}
		}
	}
	return false
}

// expandSequence enumerates every concrete Sequence a range-bearing
// Sequence denotes. Only one element across the whole sequence is
// expected to carry a Range in practice (spec's examples are all
// single-combo, single-element ranges); a combo with more than one
// ranged element expands as the cross product of their enumerations.
func expandSequence(seq ast.Sequence) ([]ast.Sequence, error) {
	comboOptions := make([][]ast.Combo, len(seq.Combos))
	for i, combo := range seq.Combos {
		opts, err := expandCombo(combo)
		if err != nil {
			return nil, err
		}
		comboOptions[i] = opts
	}

	results := []ast.Sequence{{Combos: []ast.Combo{}}}
	for _, opts := range comboOptions {
		var next []ast.Sequence
		for _, partial := range results {
			for _, opt := range opts {
				combos := append(append([]ast.Combo{}, partial.Combos...), opt)
				next = append(next, ast.Sequence{Combos: combos})
			}
		}
		results = next
	}
	return results, nil
}

func expandCombo(combo ast.Combo) ([]ast.Combo, error) {
	elementOptions := make([][]ast.Element, len(combo.Elements))
	for i, el := range combo.Elements {
		opts, err := expandElement(el)
		if err != nil {
			return nil, err
		}
		elementOptions[i] = opts
	}

	results := []ast.Combo{{Elements: []ast.Element{}}}
	for _, opts := range elementOptions {
		var next []ast.Combo
		for _, partial := range results {
			for _, opt := range opts {
				els := append(append([]ast.Element{}, partial.Elements...), opt)
				next = append(next, ast.Combo{Elements: els})
			}
		}
		results = next
	}
	return results, nil
}

func expandElement(el ast.Element) ([]ast.Element, error) {
	if el.Range == nil {
		return []ast.Element{el}, nil
	}

	r := *el.Range
	codes := rangeset.NewRange(r.Low, r.High).ToSlice()
	out := make([]ast.Element, 0, len(codes))
	sched := r.Schedule
	if el.Schedule != nil {
		sched = el.Schedule
	}
	for _, code := range codes {
		var id ast.Id
		switch r.Kind {
		case ast.KindHid:
			id = ast.HidId{HKind: r.HKind, Code: uint16(code)}
		default:
			id = ast.ScanCodeId{Code: uint16(code)}
		}
		out = append(out, ast.Element{Id: id, Schedule: sched})
	}
	return out, nil
}
