package lint

import (
	"context"
	"slices"
	"testing"

	"mahdl/internal/diag"
	"mahdl/internal/parser"
	"mahdl/internal/sema"
	"mahdl/internal/source"
)

func processSource(t *testing.T, src string) (sema.Result, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.mahdl", []byte(src))
	bag := diag.NewBag(50)
	rep := diag.BagReporter{Bag: bag}
	pr := parser.ParseFile(context.Background(), fs.Get(id), parser.Options{Reporter: rep})
	res := sema.ProcessModule(pr.Root, sema.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("source has errors: %v", bag.Codes())
	}
	return res, fs
}

const lintSource = `module M;
interface { in bit clk; in bit a; out bit y; }
constant integer width = 4;
constant bit USED = 1;
constant bit SPARE = 0;
signal bit dead = a;
register bit r;
register bit q = 0;
do (clk) { r = a; q = r; }
do (*) { y = q & USED; }
`

func TestFacts(t *testing.T) {
	res, fs := processSource(t, lintSource)
	in := Facts(res, fs)
	if in.Module != "M" || in.File != "m.mahdl" {
		t.Fatalf("module facts = %q %q", in.Module, in.File)
	}
	f, ok := in.lookup("dead")
	if !ok {
		t.Fatalf("no fact for dead")
	}
	if f.Kind != "signal" || f.Type != "bit" || f.Line != 6 || f.Read || !f.Assigned || !f.HasInit {
		t.Fatalf("fact = %+v", f)
	}
	if r, _ := in.lookup("r"); !r.Read || r.HasInit {
		t.Fatalf("fact r = %+v", r)
	}
}

func TestEvaluate(t *testing.T) {
	eng, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	res, fs := processSource(t, lintSource)
	vs, err := eng.Evaluate(context.Background(), Facts(res, fs))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	var got []string
	for _, v := range vs {
		got = append(got, v.Rule+":"+v.Name)
	}
	want := []string{
		"naming:width", "unused:width",
		"unused:SPARE",
		"unused:dead",
		"uninitialized_register:r",
	}
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("violations = %v, want %v", got, want)
	}
}

func TestCheckReportsWarnings(t *testing.T) {
	eng, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	res, fs := processSource(t, lintSource)
	bag := diag.NewBag(50)
	n, err := eng.Check(context.Background(), res, fs, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if n != bag.Len() || bag.HasErrors() {
		t.Fatalf("n = %d, bag = %v", n, bag.Codes())
	}
	if bag.Count(diag.LintUnused) != 3 || bag.Count(diag.LintNaming) != 1 || bag.Count(diag.LintUninitializedRegister) != 1 {
		t.Fatalf("codes = %v", bag.Codes())
	}
	for _, d := range bag.Items() {
		if d.Severity != diag.SevWarning {
			t.Fatalf("%s has severity %v", d.Code.ID(), d.Severity)
		}
		if d.Code == diag.LintNaming {
			f := fs.Get(d.Primary.File)
			if got := f.Text(d.Primary); got != "width" {
				t.Fatalf("naming warning at %q", got)
			}
		}
	}
}

func TestExtraPolicy(t *testing.T) {
	extra := map[string]string{"ports.rego": `package mahdl.lint

import rego.v1

violations contains v if {
	some d in input.definitions
	d.kind == "port"
	count(d.name) == 1
	v := {"rule": "short_port", "name": d.name, "line": d.line, "message": "port name too short"}
}
`}
	eng, err := New(context.Background(), extra)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, fs := processSource(t, `module P; interface { in bit a; out bit yy; } do (*) { yy = a; }`)
	bag := diag.NewBag(10)
	if _, err := eng.Check(context.Background(), res, fs, diag.BagReporter{Bag: bag}); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if bag.Count(diag.LintPolicy) != 1 {
		t.Fatalf("codes = %v", bag.Codes())
	}
}

func TestNativeModulesSkipped(t *testing.T) {
	eng, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	res, fs := processSource(t, `native module N; interface { in bit a; out bit b; }`)
	bag := diag.NewBag(10)
	if n, err := eng.Check(context.Background(), res, fs, diag.BagReporter{Bag: bag}); err != nil || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}
