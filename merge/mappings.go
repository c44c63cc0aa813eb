package merge

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/kctx"
	"github.com/ava12/kllc"
)

// isExplicitIsolateOp reports whether op is one of the two operators
// ('::'/'i::') that are allowed to punch through a lower context's
// isolation (spec §4.4: "unless ... the higher did not explicitly
// override with '::'").
func isExplicitIsolateOp(op ast.MapOp) bool {
	return op == ast.OpIsolate || op == ast.OpIndicatorIsolate
}

// isAccumulateOp reports whether op accumulates on top of whatever is
// already present rather than replacing it outright.
func isAccumulateOp(op ast.MapOp) bool {
	return op == ast.OpAddTo || op == ast.OpIndicatorAddTo ||
		op == ast.OpRemoveFrom || op == ast.OpIndicatorRemoveFrom
}

func isRemoveOp(op ast.MapOp) bool {
	return op == ast.OpRemoveFrom || op == ast.OpIndicatorRemoveFrom
}

// foldMappingsInto folds src's mapping entries into dest in place,
// applying the cross-context override/isolation/accumulation policy
// of spec §4.4. dest already holds every lower-precedence context's
// state; src is the next context up in precedence.
func foldMappingsInto(dest map[string]*MergedMapping, src *kctx.MappingStore) []*kllc.Error {
	var warnings []*kllc.Error

	src.Each(func(key string, entry *kctx.MappingEntry) {
		lower, exists := dest[key]

		if exists && lower.Isolated && !isExplicitIsolateOp(entry.LastOp) {
			warnings = append(warnings, isolationOverrideRejectedWarning(entry.M, key))
			return
		}

		if isAccumulateOp(entry.LastOp) && exists {
			if isRemoveOp(entry.LastOp) {
				remaining := subtractResult(lower.Result, entry.Result)
				if len(remaining.Combos) == 0 {
					warnings = append(warnings, mergedMappingEmptiedWarning(entry.M, key))
				}
				dest[key] = &MergedMapping{Trigger: entry.Trigger, Result: remaining, Isolated: entry.Isolated, Indicator: entry.Indicator, M: entry.M, LastOp: entry.LastOp}
				return
			}
			dest[key] = &MergedMapping{
				Trigger:   entry.Trigger,
				Result:    unionResult(lower.Result, entry.Result),
				Isolated:  entry.Isolated,
				Indicator: entry.Indicator,
				M:         entry.M,
				LastOp:    entry.LastOp,
			}
			return
		}

		if isRemoveOp(entry.LastOp) && !exists {
			return
		}

		dest[key] = &MergedMapping{
			Trigger:   entry.Trigger,
			Result:    entry.Result,
			Isolated:  entry.Isolated,
			Indicator: entry.Indicator,
			M:         entry.M,
			LastOp:    entry.LastOp,
		}
	})

	return warnings
}

// foldPartialLayer computes one PartialMap_N's own layer: only the
// partial's own entries, checked against the base layer's isolation
// state, never copies of the base layer itself (spec §4.4 "the
// compiler must emit the partial layer's own entries only, never
// layer-0 copies"). An entry whose override is rejected by a lower
// isolated base-layer mapping is simply dropped from the partial
// layer (fallthrough at evaluation time serves the base value), with
// a warning.
func foldPartialLayer(dest map[string]*MergedMapping, base map[string]*MergedMapping, src *kctx.MappingStore) []*kllc.Error {
	var warnings []*kllc.Error

	src.Each(func(key string, entry *kctx.MappingEntry) {
		baseEntry, hasBase := base[key]

		if hasBase && baseEntry.Isolated && !isExplicitIsolateOp(entry.LastOp) {
			warnings = append(warnings, isolationOverrideRejectedWarning(entry.M, key))
			return
		}

		if isAccumulateOp(entry.LastOp) {
			var lowerResult ast.Sequence
			if hasBase {
				lowerResult = baseEntry.Result
			}
			if isRemoveOp(entry.LastOp) {
				remaining := subtractResult(lowerResult, entry.Result)
				if len(remaining.Combos) == 0 {
					warnings = append(warnings, mergedMappingEmptiedWarning(entry.M, key))
				}
				dest[key] = &MergedMapping{Trigger: entry.Trigger, Result: remaining, Isolated: entry.Isolated, Indicator: entry.Indicator, M: entry.M, LastOp: entry.LastOp}
				return
			}
			dest[key] = &MergedMapping{
				Trigger:   entry.Trigger,
				Result:    unionResult(lowerResult, entry.Result),
				Isolated:  entry.Isolated,
				Indicator: entry.Indicator,
				M:         entry.M,
				LastOp:    entry.LastOp,
			}
			return
		}

		dest[key] = &MergedMapping{
			Trigger:   entry.Trigger,
			Result:    entry.Result,
			Isolated:  entry.Isolated,
			Indicator: entry.Indicator,
			M:         entry.M,
			LastOp:    entry.LastOp,
		}
	})

	return warnings
}

func unionResult(lower, higher ast.Sequence) ast.Sequence {
	seen := make(map[string]bool, len(lower.Combos)+len(higher.Combos))
	combos := make([]ast.Combo, 0, len(lower.Combos)+len(higher.Combos))
	for _, c := range lower.Combos {
		key := c.Canonical()
		if !seen[key] {
			seen[key] = true
			combos = append(combos, c)
		}
	}
	for _, c := range higher.Combos {
		key := c.Canonical()
		if !seen[key] {
			seen[key] = true
			combos = append(combos, c)
		}
	}
	return ast.Sequence{Combos: combos}
}

func subtractResult(base, remove ast.Sequence) ast.Sequence {
	drop := make(map[string]bool, len(remove.Combos))
	for _, c := range remove.Combos {
		drop[c.Canonical()] = true
	}
	combos := make([]ast.Combo, 0, len(base.Combos))
	for _, c := range base.Combos {
		if !drop[c.Canonical()] {
			combos = append(combos, c)
		}
	}
	return ast.Sequence{Combos: combos}
}
