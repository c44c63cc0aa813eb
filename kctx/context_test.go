package kctx

import (
	"testing"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/source"
)

func strValue(s string) ast.Value { return ast.Value{Kind: ast.ValueString, Str: s} }

func unicodeEl(ch string) ast.Element {
	return ast.Element{Id: ast.HidId{HKind: ast.HidKeyboard, Symbol: ch}}
}

func seq(ch string) ast.Sequence {
	return ast.Sequence{Combos: []ast.Combo{{Elements: []ast.Element{unicodeEl(ch)}}}}
}

func meta(line int) ast.Meta {
	return ast.Meta{File: "t.kll", Line: line, Role: source.BaseMap, LoadOrder: line}
}

// Scenario 1, spec "Last-writer-wins within a file":
// U"A" : U"B"; U"A" : U"C"; -> single mapping U"A" -> U"C", one
// warning about the shadowed first assignment.
func TestLastWriterWinsWithinContext(t *testing.T) {
	c := New(source.BaseMap, 0)

	_, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpMapsTo, Trigger: seq("A"), Result: seq("B")})
	if err != nil {
		t.Fatalf("first mapping: %v", err)
	}

	warnings, err := c.Add(ast.Mapping{M: meta(2), Op: ast.OpMapsTo, Trigger: seq("A"), Result: seq("C")})
	if err != nil {
		t.Fatalf("second mapping: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 shadow warning, got %d", len(warnings))
	}
	if !warnings[0].Warning {
		t.Fatalf("expected a warning, got a hard error: %v", warnings[0])
	}

	entry, ok := c.Mappings.Get(seq("A").Canonical())
	if !ok {
		t.Fatalf("mapping for U\"A\" not found")
	}
	if entry.Result.Canonical() != seq("C").Canonical() {
		t.Fatalf("expected U\"A\" -> U\"C\", got %s", entry.Result.Canonical())
	}
	if c.Mappings.Len() != 1 {
		t.Fatalf("expected exactly one mapping, got %d", c.Mappings.Len())
	}
}

// A first assignment to a trigger never warns.
func TestFirstAssignmentDoesNotWarn(t *testing.T) {
	c := New(source.BaseMap, 0)
	warnings, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpMapsTo, Trigger: seq("A"), Result: seq("B")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %d", len(warnings))
	}
}

// ':+' against an as-yet-unseen trigger behaves like a fresh mapping.
func TestAddToFreshTrigger(t *testing.T) {
	c := New(source.BaseMap, 0)
	_, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpAddTo, Trigger: seq("A"), Result: seq("B")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, _ := c.Mappings.Get(seq("A").Canonical())
	if len(entry.Result.Combos) != 1 {
		t.Fatalf("expected one combo, got %d", len(entry.Result.Combos))
	}
}

// ':+' unions result combos and elides a duplicate by canonical equality.
func TestAddToUnionsAndDedups(t *testing.T) {
	c := New(source.BaseMap, 0)
	if _, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpMapsTo, Trigger: seq("A"), Result: seq("B")}); err != nil {
		t.Fatalf("base mapping: %v", err)
	}
	if _, err := c.Add(ast.Mapping{M: meta(2), Op: ast.OpAddTo, Trigger: seq("A"), Result: seq("B")}); err != nil {
		t.Fatalf("dup add-to: %v", err)
	}
	entry, _ := c.Mappings.Get(seq("A").Canonical())
	if len(entry.Result.Combos) != 1 {
		t.Fatalf("expected dedup to keep a single combo, got %d", len(entry.Result.Combos))
	}

	if _, err := c.Add(ast.Mapping{M: meta(3), Op: ast.OpAddTo, Trigger: seq("A"), Result: seq("C")}); err != nil {
		t.Fatalf("new add-to: %v", err)
	}
	entry, _ = c.Mappings.Get(seq("A").Canonical())
	if len(entry.Result.Combos) != 2 {
		t.Fatalf("expected union to grow to 2 combos, got %d", len(entry.Result.Combos))
	}
}

// Open Question (a): ':-' that empties a mapping's result set warns but
// keeps the key, with an empty result, rather than deleting it (see
// DESIGN.md; grounded on the original compiler's organization.py, which
// only strips matching sub-expressions from the result list).
func TestRemoveFromEmptiesMappingWithoutDeleting(t *testing.T) {
	c := New(source.BaseMap, 0)
	if _, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpMapsTo, Trigger: seq("A"), Result: seq("B")}); err != nil {
		t.Fatalf("base mapping: %v", err)
	}

	warnings, err := c.Add(ast.Mapping{M: meta(2), Op: ast.OpRemoveFrom, Trigger: seq("A"), Result: seq("B")})
	if err != nil {
		t.Fatalf("remove-from: %v", err)
	}
	if len(warnings) != 1 || !warnings[0].Warning {
		t.Fatalf("expected exactly one warning, got %v", warnings)
	}
	entry, ok := c.Mappings.Get(seq("A").Canonical())
	if !ok {
		t.Fatalf("expected mapping to remain in the store once its result set emptied")
	}
	if len(entry.Result.Combos) != 0 {
		t.Fatalf("expected an empty result set, got %d combos", len(entry.Result.Combos))
	}
}

// ':-' against a result still leaving combos behind keeps the mapping,
// with no warning.
func TestRemoveFromPartialLeavesMapping(t *testing.T) {
	c := New(source.BaseMap, 0)
	twoCombo := ast.Sequence{Combos: []ast.Combo{
		{Elements: []ast.Element{unicodeEl("B")}},
		{Elements: []ast.Element{unicodeEl("C")}},
	}}
	if _, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpMapsTo, Trigger: seq("A"), Result: twoCombo}); err != nil {
		t.Fatalf("base mapping: %v", err)
	}
	warnings, err := c.Add(ast.Mapping{M: meta(2), Op: ast.OpRemoveFrom, Trigger: seq("A"), Result: seq("B")})
	if err != nil {
		t.Fatalf("remove-from: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warning, got %v", warnings)
	}
	entry, ok := c.Mappings.Get(seq("A").Canonical())
	if !ok {
		t.Fatalf("expected mapping to survive")
	}
	if len(entry.Result.Combos) != 1 {
		t.Fatalf("expected 1 remaining combo, got %d", len(entry.Result.Combos))
	}
}

// '::' marks a mapping isolated; merge (not kctx) is what actually
// protects it, but kctx must at least record the flag.
func TestIsolateSetsFlag(t *testing.T) {
	c := New(source.BaseMap, 0)
	if _, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpIsolate, Trigger: seq("A"), Result: seq("Z")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok := c.Mappings.Get(seq("A").Canonical())
	if !ok || !entry.Isolated {
		t.Fatalf("expected an isolated mapping for U\"A\"")
	}
}

// Sequential array-whole then array-element assignment: the element
// patches one slot of the array established by the earlier whole
// assignment, rather than clobbering it.
func TestVariableArrayWholeThenElementPatch(t *testing.T) {
	c := New(source.BaseMap, 0)
	idx1 := 1
	c.Add(ast.Assignment{M: meta(1), SubKind: ast.AssignArrayWhole, Name: "v", Values: []ast.Value{strValue("a"), strValue("b"), strValue("c")}})
	c.Add(ast.Assignment{M: meta(2), SubKind: ast.AssignArrayElement, Name: "v", Index: &idx1, Values: []ast.Value{strValue("B")}})

	arr, ok := c.Variables.Array("v")
	if !ok {
		t.Fatalf("expected variable v to be an array")
	}
	if len(arr) != 3 || arr[0].Str != "a" || arr[1].Str != "B" || arr[2].Str != "c" {
		t.Fatalf("unexpected array contents: %+v", arr)
	}
}

// A later scalar assignment simply replaces the variable wholesale,
// even switching it from array to scalar mode.
func TestVariableScalarReplacesArray(t *testing.T) {
	c := New(source.BaseMap, 0)
	c.Add(ast.Assignment{M: meta(1), SubKind: ast.AssignArrayWhole, Name: "v", Values: []ast.Value{strValue("a"), strValue("b")}})
	c.Add(ast.Assignment{M: meta(2), SubKind: ast.AssignScalar, Name: "v", Values: []ast.Value{strValue("x")}})

	val, ok := c.Variables.Scalar("v")
	if !ok {
		t.Fatalf("expected v to be scalar")
	}
	if val.Str != "x" {
		t.Fatalf("expected v == x, got %q", val.Str)
	}
}

// A capability redeclared with the same signature is fine; a
// different signature is a hard error.
func TestCapabilityRedeclarationSameSignatureOk(t *testing.T) {
	c := New(source.BaseMap, 0)
	cap1 := ast.Capability{M: meta(1), Name: "myCap", Symbol: "myCap_capability", ArgTypes: []ast.CapArgType{ast.CapArgTypeInt}}
	if _, err := c.Add(cap1); err != nil {
		t.Fatalf("first decl: %v", err)
	}
	if _, err := c.Add(cap1); err != nil {
		t.Fatalf("identical redecl should not error: %v", err)
	}
}

func TestCapabilityRedeclarationDifferentSignatureErrors(t *testing.T) {
	c := New(source.BaseMap, 0)
	cap1 := ast.Capability{M: meta(1), Name: "myCap", Symbol: "myCap_capability", ArgTypes: []ast.CapArgType{ast.CapArgTypeInt}}
	cap2 := ast.Capability{M: meta(2), Name: "myCap", Symbol: "myCap_capability", ArgTypes: []ast.CapArgType{ast.CapArgTypeString}}
	if _, err := c.Add(cap1); err != nil {
		t.Fatalf("first decl: %v", err)
	}
	if _, err := c.Add(cap2); err == nil {
		t.Fatalf("expected a duplicate-capability error")
	}
}

// Pixel/scan code positions merge axis-by-axis: a second association
// that only sets Y must not erase a previously set X.
func TestPositionMergesAxes(t *testing.T) {
	c := New(source.BaseMap, 0)
	x := 1.0
	y := 2.0
	c.Add(ast.DataAssociation{M: meta(1), Target: ast.TargetPixel, PixelIndex: 5, Position: ast.Position{X: &x}})
	c.Add(ast.DataAssociation{M: meta(2), Target: ast.TargetPixel, PixelIndex: 5, Position: ast.Position{Y: &y}})

	pos, ok := c.PixelPos.Get(5)
	if !ok {
		t.Fatalf("expected a position for pixel 5")
	}
	if pos.X == nil || *pos.X != 1.0 {
		t.Fatalf("expected X to survive the second association, got %+v", pos.X)
	}
	if pos.Y == nil || *pos.Y != 2.0 {
		t.Fatalf("expected Y == 2.0, got %+v", pos.Y)
	}
}

// An out-of-range HID code is a hard semantic error.
func TestMappingWithOutOfRangeHidCodeErrors(t *testing.T) {
	c := New(source.BaseMap, 0)
	bad := ast.Sequence{Combos: []ast.Combo{{Elements: []ast.Element{
		{Id: ast.HidId{HKind: ast.HidKeyboard, Code: 0x1FF}},
	}}}}
	if _, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpMapsTo, Trigger: bad, Result: seq("A")}); err == nil {
		t.Fatalf("expected an out-of-range HID code error")
	}
}

// An analog schedule on a plain scan code warns, per Open Question (c).
func TestAnalogScheduleOnScanCodeWarns(t *testing.T) {
	c := New(source.BaseMap, 0)
	trig := ast.Sequence{Combos: []ast.Combo{{Elements: []ast.Element{
		{Id: ast.ScanCodeId{Code: 0x10}, Schedule: &ast.Schedule{Params: []ast.ScheduleParam{{HasAnalog: true}}}},
	}}}}
	warnings, err := c.Add(ast.Mapping{M: meta(1), Op: ast.OpMapsTo, Trigger: trig, Result: seq("A")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 analog warning, got %d", len(warnings))
	}
}
