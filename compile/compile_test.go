package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ava12/kllc"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
	return path
}

func TestCompileSimpleMapping(t *testing.T) {
	base := writeTemp(t, "base.kll", `S0x04 : U"A";`+"\n")

	req := &kllc.CompileRequest{BaseFiles: []string{base}}
	result, errs, err := Compile(context.Background(), req, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if result == nil || result.Facade == nil {
		t.Fatalf("expected a non-nil Facade")
	}
	if result.RunID == "" {
		t.Fatalf("expected a non-empty RunID")
	}

	layer, ok := result.Facade.Layer(0)
	if !ok {
		t.Fatalf("expected layer 0 to exist")
	}
	if len(layer.Triggers) != 1 {
		t.Fatalf("expected one trigger mapping, got %d", len(layer.Triggers))
	}
}

func TestCompileAccumulatesParseErrors(t *testing.T) {
	bad := writeTemp(t, "bad.kll", `S0x04 :;`+"\n")

	req := &kllc.CompileRequest{BaseFiles: []string{bad}}
	result, errs, err := Compile(context.Background(), req, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(errs) == 0 {
		t.Fatalf("expected accumulated parse errors")
	}
	if result == nil || result.Sources == nil {
		t.Fatalf("expected a Result carrying Sources for diagnostic rendering even on failure")
	}
}

func TestCompileMissingFile(t *testing.T) {
	req := &kllc.CompileRequest{BaseFiles: []string{filepath.Join(t.TempDir(), "missing.kll")}}
	_, _, err := Compile(context.Background(), req, Options{})
	if err == nil {
		t.Fatalf("expected a file-read error")
	}
}

func TestCompileRespectsCancellation(t *testing.T) {
	base := writeTemp(t, "base.kll", `S0x04 : U"A";`+"\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &kllc.CompileRequest{BaseFiles: []string{base}}
	_, _, err := Compile(ctx, req, Options{})
	if err != kllc.Cancelled {
		t.Fatalf("expected kllc.Cancelled, got %v", err)
	}
}

func TestCompilePartialMapLayering(t *testing.T) {
	base := writeTemp(t, "base.kll", `S0x04 : U"A";`+"\n")
	partial := writeTemp(t, "partial0.kll", `S0x05 : U"B";`+"\n")

	req := &kllc.CompileRequest{
		BaseFiles:     []string{base},
		PartialGroups: [][]string{{partial}},
	}
	result, errs, err := Compile(context.Background(), req, Options{})
	if err != nil || len(errs) != 0 {
		t.Fatalf("Compile: err=%v errs=%v", err, errs)
	}

	if _, ok := result.Facade.Layer(0); !ok {
		t.Fatalf("expected base layer 0")
	}
	if _, ok := result.Facade.Layer(1); !ok {
		t.Fatalf("expected PartialMap_0 projected to layer 1")
	}
}
