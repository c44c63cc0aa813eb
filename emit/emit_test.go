package emit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/facade"
	"github.com/ava12/kllc/final"
	"github.com/ava12/kllc/merge"
)

func sampleFacade() *facade.Facade {
	trigger := ast.Sequence{Combos: []ast.Combo{{Elements: []ast.Element{
		{Id: ast.ScanCodeId{Code: 0x04}},
	}}}}
	result := ast.Sequence{Combos: []ast.Combo{{Elements: []ast.Element{
		{Id: ast.HidId{HKind: ast.HidKeyboard, Symbol: "A"}},
	}}}}

	fd := &final.FinalData{
		Layers: []final.FinalLayer{
			{Index: 0, Triggers: map[int]int{0: 0}},
		},
		TriggerMacros: []ast.Sequence{trigger},
		ResultMacros:  []ast.Sequence{result},
		Capabilities: []ast.Capability{
			{Name: "myCap", Symbol: "myCap_capability", ArgTypes: []ast.CapArgType{ast.CapArgTypeInt}},
		},
	}
	mc := &merge.MergeContext{
		Variables: map[string]merge.MergedVariable{
			"greeting": {Scalar: ast.Value{Kind: ast.ValueString, Str: "hi"}},
		},
		Names: map[string]merge.MergedName{
			"LED_NUM": {Symbol: "LED_NUM_LOCK", IsDefine: false},
		},
	}
	return facade.New(fd, mc)
}

func TestJSONRendersTriggersAndVariables(t *testing.T) {
	b, err := JSON(sampleFacade())
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	vars, ok := doc["variables"].(map[string]any)
	if !ok || vars["greeting"] != "hi" {
		t.Fatalf("expected variables.greeting == hi, got %v", doc["variables"])
	}

	layers, ok := doc["layers"].([]any)
	if !ok || len(layers) != 1 {
		t.Fatalf("expected one layer, got %v", doc["layers"])
	}

	if doc["kll_version"] != KLLVersion {
		t.Fatalf("expected kll_version %q, got %v", KLLVersion, doc["kll_version"])
	}
}

func TestKLLRegeneratesCanonicalSource(t *testing.T) {
	out, err := KLL(sampleFacade())
	if err != nil {
		t.Fatalf("KLL: %v", err)
	}

	if !strings.Contains(out, `greeting = "hi";`) {
		t.Fatalf("missing variable line, got:\n%s", out)
	}
	if !strings.Contains(out, `S0x4 : U"A";`) {
		t.Fatalf("missing mapping line, got:\n%s", out)
	}
	if !strings.Contains(out, "capability myCap = myCap_capability(int);") {
		t.Fatalf("missing capability line, got:\n%s", out)
	}
}
