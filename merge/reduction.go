package merge

import (
	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc"
)

// reduceUsbTriggers rewrites any mapping in dest whose own trigger is a
// single USBCode/SysCode/ConsCode element into an override of the
// underlying ScanCode mapping that produces that same HID code,
// applying the trigger's own ':'/':+'/':-' policy against the ScanCode
// key before the original HID-triggered entry is dropped. A mapping
// with no ScanCode counterpart for its HID-code trigger is dropped
// with a warning, since firmware never actually triggers on a logical
// USB code directly. A layer with no single-ScanCode-triggered mapping
// in scope at all is left untouched, HID-triggered mappings included.
//
// Grounded on the original compiler's organization.py reduction() (see
// SPEC_FULL.md §3/§4.4 expansion): run once per finished layer after
// its own fold is complete, not interleaved into the fold itself,
// mirroring stage.py's per-layer invocation. Unlike the original, this
// only rewrites a single-element HID trigger; the original's second
// branch (replacing one USB-code identifier inside a multi-element
// trigger combo) has no real KLL seed scenario exercising it and is
// left as a documented gap (see DESIGN.md).
// fallback, when non-nil, is consulted for ScanCode counterparts a
// partial layer never redeclared itself (layer 0's own mappings) — a
// match found there is written into dest, never into fallback, since a
// partial layer may only ever grow its own entries (spec §4.4 "never
// layer-0 copies").
func reduceUsbTriggers(dest map[string]*MergedMapping, fallback map[string]*MergedMapping) []*kllc.Error {
	var warnings []*kllc.Error

	scanLookup := make(map[string]*MergedMapping)
	for _, m := range fallback {
		if e, ok := singleElement(m.Trigger); ok && isScanCodeElement(e) {
			scanLookup[m.Result.Canonical()] = m
		}
	}
	for _, m := range dest {
		if e, ok := singleElement(m.Trigger); ok && isScanCodeElement(e) {
			scanLookup[m.Result.Canonical()] = m
		}
	}
	if len(scanLookup) == 0 {
		return nil
	}

	type rewrite struct {
		origKey   string
		targetKey string
		target    *MergedMapping
		m         *MergedMapping
	}
	var rewrites []rewrite
	var drops []string

	for key, m := range dest {
		e, ok := singleElement(m.Trigger)
		if !ok || !isUsbLikeHidElement(e) {
			continue
		}
		target, found := scanLookup[m.Trigger.Canonical()]
		if !found {
			drops = append(drops, key)
			continue
		}
		rewrites = append(rewrites, rewrite{origKey: key, targetKey: target.Trigger.Canonical(), target: target, m: m})
	}

	for _, key := range drops {
		warnings = append(warnings, usbTriggerDroppedWarning(dest[key].M, key))
		delete(dest, key)
	}

	for _, rw := range rewrites {
		target := dest[rw.targetKey]
		if target == nil {
			target = rw.target
		}
		switch {
		case isRemoveOp(rw.m.LastOp):
			remaining := subtractResult(target.Result, rw.m.Result)
			if len(remaining.Combos) == 0 {
				warnings = append(warnings, mergedMappingEmptiedWarning(rw.m.M, rw.targetKey))
			}
			dest[rw.targetKey] = &MergedMapping{Trigger: target.Trigger, Result: remaining, Isolated: target.Isolated, Indicator: target.Indicator, M: rw.m.M, LastOp: rw.m.LastOp}
		case isAccumulateOp(rw.m.LastOp):
			dest[rw.targetKey] = &MergedMapping{Trigger: target.Trigger, Result: unionResult(target.Result, rw.m.Result), Isolated: target.Isolated, Indicator: target.Indicator, M: rw.m.M, LastOp: rw.m.LastOp}
		default:
			dest[rw.targetKey] = &MergedMapping{Trigger: target.Trigger, Result: rw.m.Result, Isolated: target.Isolated, Indicator: target.Indicator, M: rw.m.M, LastOp: rw.m.LastOp}
		}
		delete(dest, rw.origKey)
	}

	return warnings
}

func singleElement(seq ast.Sequence) (ast.Element, bool) {
	if len(seq.Combos) != 1 || len(seq.Combos[0].Elements) != 1 {
		return ast.Element{}, false
	}
	return seq.Combos[0].Elements[0], true
}

func isScanCodeElement(e ast.Element) bool {
	_, ok := e.Id.(ast.ScanCodeId)
	return ok
}

// isUsbLikeHidElement reports whether e is a single USBCode/SysCode/
// ConsCode HID element — the three namespaces organization.py's
// reduction() treats as logical triggers to be rebound onto a
// physical ScanCode (IndCode/Locale HID elements are left alone, since
// the original never rewrites those two).
func isUsbLikeHidElement(e ast.Element) bool {
	hid, ok := e.Id.(ast.HidId)
	if !ok {
		return false
	}
	switch hid.HKind {
	case ast.HidKeyboard, ast.HidSystem, ast.HidConsumer:
		return true
	default:
		return false
	}
}
