package facade

import (
	"testing"

	"github.com/ava12/kllc/ast"
	"github.com/ava12/kllc/final"
	"github.com/ava12/kllc/merge"
)

func newTestFacade(vars map[string]merge.MergedVariable) *Facade {
	fd := &final.FinalData{
		TriggerMacros: []ast.Sequence{{}},
		ResultMacros:  []ast.Sequence{{}},
	}
	mc := &merge.MergeContext{Variables: vars, Names: map[string]merge.MergedName{}}
	return New(fd, mc)
}

func TestStringCoercionFromScalarString(t *testing.T) {
	f := newTestFacade(map[string]merge.MergedVariable{
		"greeting": {Scalar: ast.Value{Kind: ast.ValueString, Str: "hi"}},
	})
	v, ok := f.String("greeting")
	if !ok || v != "hi" {
		t.Fatalf("expected greeting == hi, got %q, %v", v, ok)
	}
}

func TestIntCoercionFromNumberAndString(t *testing.T) {
	f := newTestFacade(map[string]merge.MergedVariable{
		"n": {Scalar: ast.Value{Kind: ast.ValueNumber, Num: ast.Number{Value: 42}}},
		"s": {Scalar: ast.Value{Kind: ast.ValueString, Str: "0x2a"}},
	})
	n, ok := f.Int("n")
	if !ok || n != 42 {
		t.Fatalf("expected n == 42, got %d, %v", n, ok)
	}
	s, ok := f.Int("s")
	if !ok || s != 42 {
		t.Fatalf("expected s == 42 (parsed as hex), got %d, %v", s, ok)
	}
}

func TestBoolCoercion(t *testing.T) {
	f := newTestFacade(map[string]merge.MergedVariable{
		"on":  {Scalar: ast.Value{Kind: ast.ValueString, Str: "true"}},
		"off": {Scalar: ast.Value{Kind: ast.ValueNumber, Num: ast.Number{Value: 0}}},
	})
	on, ok := f.Bool("on")
	if !ok || !on {
		t.Fatalf("expected on == true, got %v, %v", on, ok)
	}
	off, ok := f.Bool("off")
	if !ok || off {
		t.Fatalf("expected off == false, got %v, %v", off, ok)
	}
}

func TestArrayHasNoScalarCoercion(t *testing.T) {
	f := newTestFacade(map[string]merge.MergedVariable{
		"list": {IsArray: true, Array: []ast.Value{{Kind: ast.ValueString, Str: "a"}}},
	})
	if _, ok := f.String("list"); ok {
		t.Fatalf("expected an array variable to have no scalar string coercion")
	}
	arr, ok := f.StringArray("list")
	if !ok || len(arr) != 1 || arr[0] != "a" {
		t.Fatalf("expected list array == [a], got %v, %v", arr, ok)
	}
}

func TestOutOfRangeMacroIndexIsSafe(t *testing.T) {
	f := newTestFacade(nil)
	if _, ok := f.TriggerAt(5); ok {
		t.Fatalf("expected an out-of-range trigger index to report !ok")
	}
	if _, ok := f.ResultAt(-1); ok {
		t.Fatalf("expected a negative result index to report !ok")
	}
}
