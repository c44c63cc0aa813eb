package parse

import (
	"testing"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/source"
	"github.com/ava12/kllc/token"
)

func parseText(t *testing.T, text string) []ast.Expression {
	t.Helper()
	file := source.NewFile("test.kll", []byte(text), source.BaseMap, 0, 0)
	toks, err := token.Tokenize(file)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", text, err)
	}
	exprs, err := Parse(file, toks, source.BaseMap, 0)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return exprs
}

func TestParseSimpleMapping(t *testing.T) {
	exprs := parseText(t, `S0x04 : U"A";`)
	if len(exprs) != 1 {
		t.Fatalf("expected 1 expression, got %d", len(exprs))
	}
	m, ok := exprs[0].(ast.Mapping)
	if !ok {
		t.Fatalf("expected a Mapping, got %T", exprs[0])
	}
	if m.Op != ast.OpMapsTo {
		t.Fatalf("expected OpMapsTo, got %v", m.Op)
	}
	if m.Trigger.Canonical() != "S0x4" {
		t.Fatalf("unexpected trigger canonical form: %q", m.Trigger.Canonical())
	}
	if m.Result.Canonical() != `U"A"` {
		t.Fatalf("unexpected result canonical form: %q", m.Result.Canonical())
	}
}

func TestParseComboMapping(t *testing.T) {
	exprs := parseText(t, `S0x04+S0x05 : U"A";`)
	m := exprs[0].(ast.Mapping)
	if len(m.Trigger.Combos) != 1 || len(m.Trigger.Combos[0].Elements) != 2 {
		t.Fatalf("expected one combo of two elements, got %+v", m.Trigger)
	}
}

func TestParseSequenceMapping(t *testing.T) {
	exprs := parseText(t, `S0x04,S0x05 : U"A",U"B";`)
	m := exprs[0].(ast.Mapping)
	if len(m.Trigger.Combos) != 2 || len(m.Result.Combos) != 2 {
		t.Fatalf("expected two-combo sequences, got trigger=%+v result=%+v", m.Trigger, m.Result)
	}
}

func TestParseTrailingCommaRejected(t *testing.T) {
	file := source.NewFile("test.kll", []byte(`S0x04,S0x05, : U"A";`), source.BaseMap, 0, 0)
	toks, err := token.Tokenize(file)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if _, err := Parse(file, toks, source.BaseMap, 0); err == nil {
		t.Fatalf("expected a trailing comma to be rejected")
	}
}

func TestParseScalarAssignment(t *testing.T) {
	exprs := parseText(t, `myVar = 5;`)
	a, ok := exprs[0].(ast.Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", exprs[0])
	}
	if a.SubKind != ast.AssignScalar || a.Name != "myVar" {
		t.Fatalf("unexpected assignment: %+v", a)
	}
	if a.Values[0].Num.Value != 5 {
		t.Fatalf("unexpected value: %+v", a.Values[0])
	}
}

func TestParseArrayWholeAssignment(t *testing.T) {
	exprs := parseText(t, `myVar[] = 1,2,3;`)
	a := exprs[0].(ast.Assignment)
	if a.SubKind != ast.AssignArrayWhole || len(a.Values) != 3 {
		t.Fatalf("unexpected assignment: %+v", a)
	}
}

func TestParseArrayElementAssignment(t *testing.T) {
	exprs := parseText(t, `myVar[2] = "hi";`)
	a := exprs[0].(ast.Assignment)
	if a.SubKind != ast.AssignArrayElement || a.Index == nil || *a.Index != 2 {
		t.Fatalf("unexpected assignment: %+v", a)
	}
}

func TestParseCapabilityDecl(t *testing.T) {
	exprs := parseText(t, `capability setVar = setVarFunc(id, int);`)
	c, ok := exprs[0].(ast.Capability)
	if !ok {
		t.Fatalf("expected Capability, got %T", exprs[0])
	}
	if c.Name != "setVar" || c.Symbol != "setVarFunc" || len(c.ArgTypes) != 2 {
		t.Fatalf("unexpected capability: %+v", c)
	}
	if c.ArgTypes[0] != ast.CapArgTypeId || c.ArgTypes[1] != ast.CapArgTypeInt {
		t.Fatalf("unexpected arg types: %+v", c.ArgTypes)
	}
}

func TestParseDataAssociationScanCode(t *testing.T) {
	exprs := parseText(t, `S0x04 = x:10, y:20, z:0;`)
	d, ok := exprs[0].(ast.DataAssociation)
	if !ok {
		t.Fatalf("expected DataAssociation, got %T", exprs[0])
	}
	if d.Target != ast.TargetScanCode || d.ScanCode != 4 {
		t.Fatalf("unexpected data association: %+v", d)
	}
	if d.Position.X == nil || *d.Position.X != 10 || d.Position.Y == nil || *d.Position.Y != 20 {
		t.Fatalf("unexpected position: %+v", d.Position)
	}
}

func TestParseReplaceMappingNotConfusedWithDataAssoc(t *testing.T) {
	exprs := parseText(t, `S0x04 = U"B";`)
	m, ok := exprs[0].(ast.Mapping)
	if !ok {
		t.Fatalf("expected Mapping, got %T", exprs[0])
	}
	if m.Op != ast.OpReplace {
		t.Fatalf("expected OpReplace, got %v", m.Op)
	}
}

func TestParseIndicatorMapping(t *testing.T) {
	exprs := parseText(t, `I"NumLock" i: U"A";`)
	m, ok := exprs[0].(ast.Mapping)
	if !ok {
		t.Fatalf("expected Mapping, got %T", exprs[0])
	}
	if m.Op != ast.OpIndicatorMapsTo {
		t.Fatalf("expected OpIndicatorMapsTo, got %v", m.Op)
	}
}

func TestParseLayerCallResult(t *testing.T) {
	exprs := parseText(t, `S0x04 : Shift(1);`)
	m := exprs[0].(ast.Mapping)
	el := m.Result.Combos[0].Elements[0]
	lid, ok := el.Id.(ast.LayerId)
	if !ok {
		t.Fatalf("expected LayerId, got %T", el.Id)
	}
	if lid.LKind != ast.LayerShift || lid.Index != 1 {
		t.Fatalf("unexpected layer id: %+v", lid)
	}
}

func TestParseCapabilityCallResult(t *testing.T) {
	exprs := parseText(t, `S0x04 : myCap(1,"hi");`)
	m := exprs[0].(ast.Mapping)
	el := m.Result.Combos[0].Elements[0]
	cid, ok := el.Id.(ast.CapabilityId)
	if !ok {
		t.Fatalf("expected CapabilityId, got %T", el.Id)
	}
	if cid.Name != "myCap" || len(cid.Args) != 2 {
		t.Fatalf("unexpected capability id: %+v", cid)
	}
}

func TestParseScheduledScanCode(t *testing.T) {
	exprs := parseText(t, `S0x04(P,UP,UR) : U"A";`)
	m := exprs[0].(ast.Mapping)
	el := m.Trigger.Combos[0].Elements[0]
	if el.Schedule == nil || len(el.Schedule.Params) != 3 {
		t.Fatalf("expected a 3-param schedule, got %+v", el.Schedule)
	}
}

func TestParseHidWithTrailingSchedule(t *testing.T) {
	exprs := parseText(t, `U"A"(0) : S0x04;`)
	m := exprs[0].(ast.Mapping)
	el := m.Trigger.Combos[0].Elements[0]
	if el.Schedule == nil || len(el.Schedule.Params) != 1 || !el.Schedule.Params[0].HasAnalog {
		t.Fatalf("expected an analog-value schedule, got %+v", el.Schedule)
	}
}

func TestParseAnimationDefinition(t *testing.T) {
	exprs := parseText(t, `A[myAnim] = frameDelayMS:20;`)
	a, ok := exprs[0].(ast.AnimationDefinition)
	if !ok {
		t.Fatalf("expected AnimationDefinition, got %T", exprs[0])
	}
	if a.Name != "myAnim" {
		t.Fatalf("unexpected animation name: %q", a.Name)
	}
}

func TestParseAnimationFrame(t *testing.T) {
	exprs := parseText(t, `A[myAnim, 0] = P[1](0:255), P[2](0:0);`)
	a, ok := exprs[0].(ast.AnimationFrame)
	if !ok {
		t.Fatalf("expected AnimationFrame, got %T", exprs[0])
	}
	if len(a.Pixels) != 2 {
		t.Fatalf("expected 2 pixels, got %+v", a.Pixels)
	}
}

func TestParseDefineAndSymbol(t *testing.T) {
	exprs := parseText(t, `define MAX_LAYERS = MAX_LAYERS_C;
symbol myName = myNameSymbol;`)
	if _, ok := exprs[0].(ast.Define); !ok {
		t.Fatalf("expected Define, got %T", exprs[0])
	}
	if _, ok := exprs[1].(ast.NameAssociation); !ok {
		t.Fatalf("expected NameAssociation, got %T", exprs[1])
	}
}

func TestParseVariableNamedLikeKeywordIsStillAssignment(t *testing.T) {
	exprs := parseText(t, `capability = 5;`)
	a, ok := exprs[0].(ast.Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", exprs[0])
	}
	if a.Name != "capability" {
		t.Fatalf("unexpected assignment name: %q", a.Name)
	}
}

func TestParseRangeElement(t *testing.T) {
	exprs := parseText(t, `S[0x43-0x50] : U"A";`)
	m := exprs[0].(ast.Mapping)
	el := m.Trigger.Combos[0].Elements[0]
	if el.Range == nil || el.Range.Low != 0x43 || el.Range.High != 0x50 {
		t.Fatalf("expected an unexpanded range, got %+v", el)
	}
}
