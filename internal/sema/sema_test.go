package sema

import (
	"context"
	"math/big"
	"slices"
	"testing"

	"mahdl/internal/constant"
	"mahdl/internal/diag"
	"mahdl/internal/model"
	"mahdl/internal/parser"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
	"mahdl/internal/types"
)

type fixture struct {
	file *source.File
	root *syntax.Node
	res  Result
	bag  *diag.Bag
}

func parse(t *testing.T, src string) (*source.File, *syntax.Node) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.mahdl", []byte(src)))
	bag := diag.NewBag(64)
	res := parser.ParseFile(context.Background(), file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 || res.Fatal {
		t.Fatalf("syntax errors in %q: %v", src, bag.Codes())
	}
	return file, res.Root
}

func process(t *testing.T, src string, resolver Resolver) fixture {
	t.Helper()
	file, root := parse(t, src)
	bag := diag.NewBag(64)
	res := ProcessModule(root, Options{Reporter: diag.BagReporter{Bag: bag}, Resolver: resolver})
	if res.Errors != bag.ErrorCount() {
		t.Fatalf("Result.Errors = %d, bag has %d", res.Errors, bag.ErrorCount())
	}
	return fixture{file: file, root: root, res: res, bag: bag}
}

func wantCodes(t *testing.T, f fixture, codes ...diag.Code) {
	t.Helper()
	got := f.bag.Codes()
	slices.Sort(got)
	slices.Sort(codes)
	if !slices.Equal(got, codes) {
		for _, d := range f.bag.Items() {
			t.Logf("%s: %s", d.Code.ID(), d.Message)
		}
		t.Fatalf("codes = %v, want %v", got, codes)
	}
}

func (f fixture) text(sp source.Span) string {
	return f.file.Text(sp)
}

const minimal = `module M; interface { in bit a; out bit b; } do (*) { b = a; }`

func TestSingleContinuousAssignment(t *testing.T) {
	f := process(t, minimal, nil)
	wantCodes(t, f)
	mod := f.res.Module
	if mod.Name != "M" || len(mod.Interface.Ports) != 2 {
		t.Fatalf("unexpected module %s with %d ports", mod.Name, len(mod.Interface.Ports))
	}
	if len(mod.Blocks) != 1 || !mod.Blocks[0].Combinational() {
		t.Fatalf("expected one combinational block")
	}
	body, ok := mod.Blocks[0].Body.(*model.Block)
	if !ok || len(body.Stmts) != 1 {
		t.Fatalf("unexpected body %#v", mod.Blocks[0].Body)
	}
	as := body.Stmts[0].(*model.Assign)
	if ref, ok := as.Target.(*model.Ref); !ok || ref.Name != "b" {
		t.Fatalf("target = %#v", as.Target)
	}
	if u := f.res.Usage["a"]; !u.Read || u.Assigned {
		t.Fatalf("usage of a = %+v", u)
	}
	if u := f.res.Usage["b"]; !u.Assigned {
		t.Fatalf("usage of b = %+v", u)
	}
}

func TestPortAssignedInTwoBlocks(t *testing.T) {
	f := process(t, `module M; interface { in bit a; out bit b; } do (*) { b = a; } do (*) { b = a; }`, nil)
	wantCodes(t, f, diag.SemaAlreadyAssigned)
	if notes := f.bag.Items()[0].Notes; len(notes) != 1 {
		t.Fatalf("expected a note at the first assignment, got %d", len(notes))
	}
}

func TestTwiceInOneBlockIsAllowed(t *testing.T) {
	f := process(t, `module M; interface { in bit a; out bit b; } do (*) { b = 0; if (a) b = 1; }`, nil)
	wantCodes(t, f)
}

func TestRegisterInCombinationalBlock(t *testing.T) {
	f := process(t, `module M; interface { in bit a; out bit b; } register bit r; do (*) { r = a; b = r; }`, nil)
	wantCodes(t, f, diag.SemaMustBeClocked)
}

func TestMissingAssignmentAtDeclaration(t *testing.T) {
	f := process(t, `module M; interface { in bit a; out bit b; }`, nil)
	wantCodes(t, f, diag.SemaMissingAssignment)
	if got := f.text(f.bag.Items()[0].Primary); got != "b" {
		t.Fatalf("diagnostic placed at %q, want the declaring identifier", got)
	}
}

func TestClockedBlocks(t *testing.T) {
	f := process(t, `module C;
interface { in bit clk; in bit d; out bit q; }
register bit r = 1;
do (clk) { r = d; }
do (*) { q = r; }`, nil)
	wantCodes(t, f)
	mod := f.res.Module
	if mod.Blocks[0].Combinational() || !mod.Blocks[1].Combinational() {
		t.Fatalf("block kinds are wrong")
	}
	if len(mod.RegisterInits) != 1 || mod.RegisterInits[0].Name != "r" {
		t.Fatalf("register initializers = %+v", mod.RegisterInits)
	}
}

func TestRedeclaredRegisterKeepsFirstInit(t *testing.T) {
	f := process(t, `module C;
interface { in bit clk; in bit d; out bit q; }
register bit r = 0;
register bit r = 1;
do (clk) { r = d; }
do (*) { q = r; }`, nil)
	wantCodes(t, f, diag.SemaRedeclaration)
	inits := f.res.Module.RegisterInits
	if len(inits) != 1 || !constant.Equal(inits[0].Value.(*model.Literal).Value, constant.Bit(false)) {
		t.Fatalf("register initializers = %+v", inits)
	}
}

func TestPortInClockedBlock(t *testing.T) {
	f := process(t, `module C; interface { in bit clk; in bit d; out bit q; } do (clk) { q = d; }`, nil)
	// the rejected target is not recorded, so q stays unassigned
	wantCodes(t, f, diag.SemaMustBeContinuous, diag.SemaMissingAssignment)
}

func TestClockMustBeBit(t *testing.T) {
	f := process(t, `module C; interface { in vector[2] clk; in bit d; } register bit r; do (clk) { r = d; }`, nil)
	wantCodes(t, f, diag.SemaClockType)
}

func TestInvalidTargets(t *testing.T) {
	f := process(t, `module M;
interface { in bit a; out bit b; }
constant bit K = 1;
do (*) { a = 1; K = 0; (a & b) = 1; b = a; }`, nil)
	wantCodes(t, f, diag.SemaAssignInput, diag.SemaAssignConstant, diag.SemaInvalidTarget)
}

func TestSignalInitializerCountsAsAssignment(t *testing.T) {
	f := process(t, `module M; interface { in bit a; out bit b; } signal bit s = a; do (*) { s = a; b = s; }`, nil)
	wantCodes(t, f, diag.SemaAlreadyAssigned)
	if len(f.res.Module.Initializers) != 1 {
		t.Fatalf("expected the initializer of s to be processed")
	}
}

func TestUninitializedSignal(t *testing.T) {
	f := process(t, `module M; interface { in bit a; out bit b; } signal bit s; do (*) { b = a; }`, nil)
	wantCodes(t, f, diag.SemaMissingAssignment)
	if got := f.text(f.bag.Items()[0].Primary); got != "s" {
		t.Fatalf("diagnostic at %q", got)
	}
}

func TestConcatenationTarget(t *testing.T) {
	f := process(t, `module M; interface { in vector[4] a; out vector[2] hi; out vector[2] lo; } do (*) { hi _ lo = a; }`, nil)
	wantCodes(t, f)
	as := f.res.Module.Blocks[0].Body.(*model.Block).Stmts[0].(*model.Assign)
	if as.Target.Type() != types.Vector(4) {
		t.Fatalf("concatenated target type = %s", as.Target.Type())
	}
}

func TestRedeclaration(t *testing.T) {
	f := process(t, `module M; interface { in bit a; out bit b; } signal bit a; do (*) { b = a; }`, nil)
	wantCodes(t, f, diag.SemaRedeclaration)
	d := f.bag.Items()[0]
	if len(d.Notes) != 1 || f.text(d.Notes[0].Span) != "a" {
		t.Fatalf("expected a note at the first declaration")
	}
	if f.res.Module.Defs.Lookup("a").Kind != model.DefPort {
		t.Fatalf("the first declaration must win")
	}
}

func TestTypeChecks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []diag.Code
	}{
		{"exact", `y = a _ 1b0;`, nil},
		{"literal fits", `y = 15;`, nil},
		{"literal too wide", `y = 16;`, []diag.Code{diag.SemaValueDoesNotFit}},
		{"size mismatch", `y = a;`, []diag.Code{diag.SemaTypeMismatch}},
		{"operand", `y = (a + c) _ 1b0;`, []diag.Code{diag.SemaOperandType}},
		{"condition", `y = a ? 4h1 : 4h2;`, []diag.Code{diag.SemaConditionType}},
		{"branches", `y = c ? 4h1 : a;`, []diag.Code{diag.SemaTypeMismatch}},
		{"implicit branch", `y = c ? 4h1 : 2;`, nil},
		{"undefined", `y = nope;`, []diag.Code{diag.SemaUnresolvedSymbol}},
		{"unknown function", `y = widen(4, a);`, []diag.Code{diag.SemaUnknownFunction}},
		{"builtin", `y = zeroExtend(4, a);`, nil},
		{"narrowing extend", `y = zeroExtend(2, a);`, []diag.Code{diag.SemaInvalidArgument}},
		{"arity", `y = repeat(a);`, []diag.Code{diag.SemaArgumentCount}},
		{"non-constant size", `y = repeat(c, a);`, []diag.Code{diag.SemaConstantRequired}},
		{"range", `y = zeroExtend(4, a[2:1]);`, nil},
		{"reversed range", `y = zeroExtend(4, a[1:2]);`, []diag.Code{diag.SemaIndexOutOfRange}},
		{"index out of range", `y = zeroExtend(4, a[3]);`, []diag.Code{diag.SemaIndexOutOfRange}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `module M; interface { in vector[3] a; in bit c; out vector[4] y; } do (*) { ` + tt.body + ` }`
			wantCodes(t, process(t, src, nil), tt.want...)
		})
	}
}

func TestUnknownIsAbsorbing(t *testing.T) {
	f := process(t, `module M; interface { in bit a; out bit b; } do (*) { b = ((nope & a) | a) ^ !(nope2 _ a)[0]; }`, nil)
	wantCodes(t, f, diag.SemaUnresolvedSymbol, diag.SemaUnresolvedSymbol)
}

func TestImplicitConversionIsExplicitInModel(t *testing.T) {
	f := process(t, minimalWith(`b = a ^ 1;`), nil)
	wantCodes(t, f)
	as := f.res.Module.Blocks[0].Body.(*model.Block).Stmts[0].(*model.Assign)
	bin, ok := as.Value.(*model.Binary)
	if !ok {
		t.Fatalf("value = %#v", as.Value)
	}
	if _, ok := bin.R.(*model.Conversion); !ok {
		t.Fatalf("integer operand was not converted: %#v", bin.R)
	}
}

func minimalWith(body string) string {
	return `module M; interface { in bit a; out bit b; } do (*) { ` + body + ` }`
}

func TestConstants(t *testing.T) {
	f := process(t, `module M;
interface { out vector[8] y; }
constant integer W = 8;
constant vector[W] K = 2 * 3 + 1;
constant text T = "a" _ "b";
do (*) { y = K; }`, nil)
	wantCodes(t, f)
	k := f.res.Module.Defs.Lookup("K")
	if !constant.Equal(k.Value, constant.NewVector(8, big.NewInt(7))) {
		t.Fatalf("K = %s", k.Value)
	}
	if got := f.res.Module.Defs.Lookup("T").Value; got != constant.Text("ab") {
		t.Fatalf("T = %s", got)
	}
	as := f.res.Module.Blocks[0].Body.(*model.Block).Stmts[0].(*model.Assign)
	if _, ok := as.Value.(*model.Literal); !ok {
		t.Fatalf("constant reference must fold to a literal, got %#v", as.Value)
	}
}

func TestConstantErrors(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want diag.Code
	}{
		{"forward reference", `constant integer A = B; constant integer B = 1;`, diag.SemaUnresolvedSymbol},
		{"self reference", `constant integer A = A + 1;`, diag.SemaUnresolvedSymbol},
		{"division by zero", `constant integer A = 1 / 0;`, diag.SemaDivisionByZero},
		{"shift range", `constant integer A = 1 << 70000;`, diag.SemaShiftRange},
		{"zero size", `constant integer W = 0; constant vector[W] V = 0;`, diag.SemaInvalidSize},
		{"does not fit", `constant vector[2] V = 4;`, diag.SemaValueDoesNotFit},
		{"no value", `constant integer A;`, diag.SemaConstantRequired},
		{"bad literal", `constant vector[4] V = 4h1G;`, diag.SemaMalformedLiteral},
		{"literal overflow", `constant vector[4] V = 4h1F;`, diag.SemaLiteralOverflow},
		{"bad escape", `constant text T = "\n";`, diag.SemaInvalidEscape},
		{"runtime operand", `constant bit C = a;`, diag.SemaConstantRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := process(t, `module M; interface { in bit a; } `+tt.decl, nil)
			wantCodes(t, f, tt.want)
		})
	}
}

func TestVectorFoldingDoesNotWrap(t *testing.T) {
	f := process(t, `module M; interface { }
constant vector[8] C = 8hFF + 8h01;
constant vector[8] D = 8h00 - 8h01;
constant vector[4] E = 4h8 << 1;
constant vector[4] F = -4h1;
constant vector[8] G = 8hFE + 8h01;
constant vector[4] H = 4h3 * 4h6;`, nil)
	wantCodes(t, f, diag.SemaValueDoesNotFit, diag.SemaValueDoesNotFit, diag.SemaValueDoesNotFit,
		diag.SemaValueDoesNotFit, diag.SemaValueDoesNotFit)
	if got := f.res.Module.Defs.Lookup("G").Value; !constant.Equal(got, constant.NewVector(8, big.NewInt(0xff))) {
		t.Fatalf("G = %s", got)
	}
}

func TestConstantFoldingIsIdempotent(t *testing.T) {
	f := process(t, `module M; interface { } constant integer A = 3; constant vector[8] K = (A << 2) + 8h01;`, nil)
	wantCodes(t, f)
	var init *syntax.Node
	for _, d := range syntax.Find(f.root, syntax.KindDefinition) {
		if d.Child(0).Text() == "K" {
			init = d.Child(2)
		}
	}
	ev := NewConstEvaluator(f.res.Module.Defs, nil)
	first, second := ev.Evaluate(init), ev.Evaluate(init)
	if !constant.Equal(first, second) {
		t.Fatalf("evaluations differ: %s vs %s", first, second)
	}
	if !constant.Equal(first, constant.NewVector(8, big.NewInt(13))) {
		t.Fatalf("K = %s", first)
	}
}

func TestDisallowedTypes(t *testing.T) {
	tests := []string{
		`module M; interface { in integer a; }`,
		`module M; interface { in memory[4][8] m; }`,
		`module M; interface { } signal text s;`,
	}
	for _, src := range tests {
		wantCodes(t, process(t, src, nil), diag.SemaDisallowedType)
	}
}

func TestMemories(t *testing.T) {
	f := process(t, `module M;
interface { in vector[2] a; in vector[3] b; out vector[8] y; out vector[4] z; }
constant memory[2][4] ROM = rows(4h1, 4h2);
signal memory[4][8] m;
do (*) { m = rows(8h1, 8h2, 8h3, 8h4); m[0] = 8h00; y = m[a]; z = ROM[a[0]]; }`, nil)
	wantCodes(t, f, diag.SemaWholeMemoryAssign)

	stmts := f.res.Module.Blocks[0].Body.(*model.Block).Stmts
	rom := stmts[3].(*model.Assign).Value.(*model.Index)
	if ref, ok := rom.Base.(*model.Ref); !ok || ref.Name != "ROM" {
		t.Fatalf("memory constant must stay a reference, got %#v", rom.Base)
	}

	f = process(t, `module M; interface { in vector[3] b; out vector[8] y; } signal memory[4][8] m; do (*) { m[0] = 8h00; y = m[b]; }`, nil)
	wantCodes(t, f, diag.SemaIndexType)
}

func TestSwitch(t *testing.T) {
	f := process(t, `module M;
interface { in vector[2] sel; out vector[4] y; }
do (*) {
	switch (sel) {
	case 0: y = 1;
	case 1, 0: y = 2;
	case 4h1: y = 5;
	default: y = 3;
	default: y = 0;
	}
}`, nil)
	wantCodes(t, f, diag.SemaDuplicateCase, diag.SemaDuplicateDefault, diag.SemaTypeMismatch)
	sw := f.res.Module.Blocks[0].Body.(*model.Block).Stmts[0].(*model.Switch)
	if len(sw.Cases) != 3 || sw.Default == nil {
		t.Fatalf("switch shape: %d cases, default %v", len(sw.Cases), sw.Default != nil)
	}
	if len(sw.Cases[1].Labels) != 1 {
		t.Fatalf("duplicate label must be dropped")
	}

	f = process(t, `module M; interface { in bit a; out bit b; } constant integer N = 1; do (*) { switch (N) { default: b = a; } }`, nil)
	wantCodes(t, f, diag.SemaSelectorType)
}

var ram = MapResolver{
	"lib.Ram": {
		Name:   "lib.Ram",
		Native: true,
		Ports: []model.Port{
			{Name: "addr", Dir: model.In, Type: types.Vector(2)},
			{Name: "data", Dir: model.Out, Type: types.Vector(8)},
		},
	},
}

func TestInstances(t *testing.T) {
	const head = `module Top; interface { in vector[2] a; out vector[8] d; } lib.Ram ram; `
	tests := []struct {
		name string
		body string
		want []diag.Code
	}{
		{"connected", `do (*) { ram.addr = a; d = ram.data; }`, nil},
		{"missing input", `do (*) { d = ram.data; }`, []diag.Code{diag.SemaMissingAssignment}},
		{"assign output", `do (*) { ram.addr = a; ram.data = 8h00; d = ram.data; }`, []diag.Code{diag.SemaInvalidTarget}},
		{"unknown port", `do (*) { ram.addr = a; d = ram.q; }`, []diag.Code{diag.SemaUnknownInstancePort}},
		{"not an instance", `do (*) { ram.addr = a; d = a.x; }`, []diag.Code{diag.SemaNotAnInstance}},
		{"instance as value", `do (*) { ram.addr = a; d = ram; }`, []diag.Code{diag.SemaInstanceAsValue}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCodes(t, process(t, head+tt.body, ram), tt.want...)
		})
	}
}

func TestUnresolvedModule(t *testing.T) {
	f := process(t, `module Top; interface { out bit d; } other.Mod m; do (*) { d = m.x; }`, ram)
	wantCodes(t, f, diag.SemaUnresolvedModule)
}

func TestNativeModule(t *testing.T) {
	f := process(t, `native module lib.Ram; interface { in vector[2] addr; out vector[8] data; } signal bit s;`, nil)
	wantCodes(t, f, diag.SemaNativeImplementation)
	if !f.res.Module.Native || f.res.Module.Name != "lib.Ram" {
		t.Fatalf("module = %s native=%v", f.res.Module.Name, f.res.Module.Native)
	}
}

func TestCollectInterface(t *testing.T) {
	_, root := parse(t, `native module lib.Ram; interface { in vector[2] addr; out vector[8] data; }`)
	iface := CollectInterface(root, nil)
	if iface.Name != "lib.Ram" || !iface.Native || len(iface.Ports) != 2 {
		t.Fatalf("interface = %+v", iface)
	}
	if p, ok := iface.Port("data"); !ok || p.Dir != model.Out || p.Type != types.Vector(8) {
		t.Fatalf("port data = %+v", p)
	}
	if iface.Digest() != CollectInterface(root, nil).Digest() {
		t.Fatalf("digest must be stable")
	}
}
