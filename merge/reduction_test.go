package merge

import (
	"testing"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/kctx"
	"github.com/ava12/kllc/source"
)

func scanEl(code uint16) ast.Element {
	return ast.Element{Id: ast.ScanCodeId{Code: code}}
}

func scanSeq(code uint16) ast.Sequence {
	return ast.Sequence{Combos: []ast.Combo{{Elements: []ast.Element{scanEl(code)}}}}
}

func usbEl(ch string) ast.Element {
	return ast.Element{Id: ast.HidId{HKind: ast.HidKeyboard, Symbol: ch}}
}

func usbSeq(ch string) ast.Sequence {
	return ast.Sequence{Combos: []ast.Combo{{Elements: []ast.Element{usbEl(ch)}}}}
}

// Grounded on organization.py's reduction(): a mapping triggered by a
// USBCode with a ScanCode counterpart in the same layer producing that
// same HID code is rewritten onto the ScanCode key and the original
// HID-triggered entry is dropped.
func TestReduceUsbTriggersRewritesReplace(t *testing.T) {
	base := kctx.New(source.BaseMap, 0)
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 1), Op: ast.OpMapsTo, Trigger: scanSeq(0x04), Result: usbSeq("A")}); err != nil {
		t.Fatalf("scancode mapping: %v", err)
	}
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 2), Op: ast.OpMapsTo, Trigger: usbSeq("A"), Result: usbSeq("B")}); err != nil {
		t.Fatalf("usb-triggered mapping: %v", err)
	}

	mc, _, err := Merge([]*kctx.Context{base})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	layer0 := mc.Layers[0].Mappings
	if _, ok := layer0[usbSeq("A").Canonical()]; ok {
		t.Fatalf("expected the USB-triggered entry to be absorbed into the ScanCode entry")
	}
	entry, ok := layer0[scanSeq(0x04).Canonical()]
	if !ok {
		t.Fatalf("expected the ScanCode entry to survive")
	}
	if entry.Result.Canonical() != usbSeq("B").Canonical() {
		t.Fatalf("expected S0x04 -> U\"B\" after reduction, got %+v", entry.Result)
	}
}

// A USBCode-triggered ':+' adds onto the ScanCode mapping's own result
// rather than replacing it.
func TestReduceUsbTriggersRewritesAddTo(t *testing.T) {
	base := kctx.New(source.BaseMap, 0)
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 1), Op: ast.OpMapsTo, Trigger: scanSeq(0x04), Result: usbSeq("A")}); err != nil {
		t.Fatalf("scancode mapping: %v", err)
	}
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 2), Op: ast.OpAddTo, Trigger: usbSeq("A"), Result: usbSeq("C")}); err != nil {
		t.Fatalf("usb-triggered mapping: %v", err)
	}

	mc, _, err := Merge([]*kctx.Context{base})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	entry, ok := mc.Layers[0].Mappings[scanSeq(0x04).Canonical()]
	if !ok {
		t.Fatalf("expected the ScanCode entry to survive")
	}
	if len(entry.Result.Combos) != 2 {
		t.Fatalf("expected S0x04 -> (U\"A\", U\"C\"), got %+v", entry.Result)
	}
}

// A USBCode-triggered ':-' that empties the ScanCode mapping's result
// warns but keeps the key, per Open Question (a).
func TestReduceUsbTriggersRewritesRemoveFrom(t *testing.T) {
	base := kctx.New(source.BaseMap, 0)
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 1), Op: ast.OpMapsTo, Trigger: scanSeq(0x04), Result: usbSeq("A")}); err != nil {
		t.Fatalf("scancode mapping: %v", err)
	}
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 2), Op: ast.OpRemoveFrom, Trigger: usbSeq("A"), Result: usbSeq("A")}); err != nil {
		t.Fatalf("usb-triggered mapping: %v", err)
	}

	mc, warnings, err := Merge([]*kctx.Context{base})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	entry, ok := mc.Layers[0].Mappings[scanSeq(0x04).Canonical()]
	if !ok {
		t.Fatalf("expected the ScanCode entry to remain with an empty result, not be deleted")
	}
	if len(entry.Result.Combos) != 0 {
		t.Fatalf("expected an empty result, got %+v", entry.Result)
	}
	found := false
	for _, w := range warnings {
		if w.Code == warnMergedMappingEmptied {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a mergedMappingEmptied warning, got %v", warnings)
	}
}

// A USBCode trigger with no matching ScanCode mapping in the layer is
// dropped with a warning rather than finalized as a phantom trigger.
// The layer carries an unrelated ScanCode mapping, since a layer with
// no ScanCode mapping at all is not reduced.
func TestReduceUsbTriggersDropsOrphan(t *testing.T) {
	base := kctx.New(source.BaseMap, 0)
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 2), Op: ast.OpMapsTo, Trigger: scanSeq(0x05), Result: usbSeq("X")}); err != nil {
		t.Fatalf("scancode mapping: %v", err)
	}
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 1), Op: ast.OpMapsTo, Trigger: usbSeq("A"), Result: usbSeq("B")}); err != nil {
		t.Fatalf("usb-triggered mapping: %v", err)
	}

	mc, warnings, err := Merge([]*kctx.Context{base})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if _, ok := mc.Layers[0].Mappings[usbSeq("A").Canonical()]; ok {
		t.Fatalf("expected the orphaned USB-triggered entry to be dropped")
	}
	found := false
	for _, w := range warnings {
		if w.Code == warnUsbTriggerDropped {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a usbTriggerDropped warning, got %v", warnings)
	}
}

// A partial layer's own USBCode trigger resolves against layer 0's
// ScanCode entry, not just the partial layer's own mappings, matching
// the union-lookup described in SPEC_FULL.md §4.4.
func TestReduceUsbTriggersResolvesAgainstBaseLayer(t *testing.T) {
	base := kctx.New(source.BaseMap, 0)
	if _, err := base.Add(ast.Mapping{M: meta(source.BaseMap, 1), Op: ast.OpMapsTo, Trigger: scanSeq(0x04), Result: usbSeq("A")}); err != nil {
		t.Fatalf("scancode mapping: %v", err)
	}

	partial1 := kctx.New(source.PartialMap, 1)
	if _, err := partial1.Add(ast.Mapping{M: meta(source.PartialMap, 1), Op: ast.OpMapsTo, Trigger: usbSeq("A"), Result: usbSeq("D")}); err != nil {
		t.Fatalf("partial usb-triggered mapping: %v", err)
	}

	mc, _, err := Merge([]*kctx.Context{base, partial1})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(mc.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(mc.Layers))
	}
	layer1 := mc.Layers[1]
	entry, ok := layer1.Mappings[scanSeq(0x04).Canonical()]
	if !ok {
		t.Fatalf("expected the partial layer to carry a rewritten S0x04 entry, got %+v", layer1.Mappings)
	}
	if entry.Result.Canonical() != usbSeq("D").Canonical() {
		t.Fatalf("expected S0x04 -> U\"D\" in the partial layer, got %+v", entry.Result)
	}
	if _, ok := base.Mappings.Get(scanSeq(0x04).Canonical()); !ok {
		t.Fatalf("expected the base context's own store to be untouched")
	}
}
