package testkit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mahdl/internal/diag"
	"mahdl/internal/parser"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
)

func parseTestdata(t *testing.T, pattern string) map[string]parser.Result {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("..", "..", "testdata", pattern))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no testdata for %s", pattern)
	}
	out := make(map[string]parser.Result, len(paths))
	for _, path := range paths {
		fs := source.NewFileSet()
		id, err := fs.Load(path)
		if err != nil {
			t.Fatalf("load %s: %v", path, err)
		}
		bag := diag.NewBag(64)
		res := parser.ParseFile(context.Background(), fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err := CheckSpanInvariants(res.Root, fs.Get(id)); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		out[filepath.Base(path)] = res
	}
	return out
}

func TestTestdataSpans(t *testing.T) {
	for name, res := range parseTestdata(t, "*.mahdl") {
		if res.Errors != 0 || res.Root.HasErrors() {
			t.Fatalf("%s: unexpected syntax errors", name)
		}
	}
}

func TestRecoveredSpans(t *testing.T) {
	for name, res := range parseTestdata(t, filepath.Join("errors", "*.mahdl")) {
		if res.Errors == 0 {
			t.Fatalf("%s: expected syntax errors", name)
		}
		if len(syntax.Find(res.Root, syntax.KindError)) == 0 && !res.Fatal {
			t.Fatalf("%s: no error nodes", name)
		}
	}
}

func TestInvariantViolations(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("v.mahdl", []byte("module M;"))
	file := fs.Get(id)
	child := &syntax.Node{Kind: syntax.KindModuleHeader, Span: source.Span{File: id, Start: 0, End: 9}}
	parent := &syntax.Node{Kind: syntax.KindModule, Span: source.Span{File: id, Start: 0, End: 6}, Children: []*syntax.Node{child}}
	if err := CheckSpanInvariants(parent, file); err == nil {
		t.Fatalf("child outside parent not detected")
	}

	a := &syntax.Node{Kind: syntax.KindModuleHeader, Span: source.Span{File: id, Start: 0, End: 6}}
	b := &syntax.Node{Kind: syntax.KindInterface, Span: source.Span{File: id, Start: 4, End: 9}}
	root := &syntax.Node{Kind: syntax.KindModule, Span: source.Span{File: id, Start: 0, End: 9}, Children: []*syntax.Node{a, b}}
	if err := CheckSpanInvariants(root, file); err == nil {
		t.Fatalf("overlapping siblings not detected")
	}

	outside := &syntax.Node{Kind: syntax.KindModule, Span: source.Span{File: id, Start: 0, End: 42}}
	if err := CheckSpanInvariants(outside, file); err == nil {
		t.Fatalf("span past content not detected")
	}
}
