package parser

import (
	"context"
	"testing"

	"mahdl/internal/diag"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
)

func parseString(t *testing.T, src string) (Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.mahdl", []byte(src)))
	bag := diag.NewBag(64)
	res := ParseFile(context.Background(), file, Options{Reporter: diag.BagReporter{Bag: bag}})
	if res.Root == nil || res.Root.Kind != syntax.KindFile {
		t.Fatalf("parse must always return a File root")
	}
	return res, bag
}

func parseClean(t *testing.T, src string) *syntax.Node {
	t.Helper()
	res, bag := parseString(t, src)
	if bag.Len() != 0 || res.Fatal {
		t.Fatalf("unexpected diagnostics for %q: %v", src, bag.Codes())
	}
	return res.Root
}

func TestGrammarHasNoConflicts(t *testing.T) {
	tables, err := Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables.Conflicts) != 0 {
		for _, c := range tables.Conflicts {
			t.Log(c)
		}
		t.Fatalf("grammar has %d unresolved conflicts", len(tables.Conflicts))
	}
}

func TestParseMinimalModule(t *testing.T) {
	root := parseClean(t, `module M; interface { in bit a; out bit b; } do (*) { b = a; }`)
	mod := root.ChildOf(syntax.KindModule)
	if mod == nil {
		t.Fatalf("no module node:\n%s", syntax.DumpString(root))
	}
	if got := len(syntax.Find(mod, syntax.KindPortGroup)); got != 2 {
		t.Fatalf("expected 2 port groups, got %d", got)
	}
	do := syntax.Find(mod, syntax.KindDoBlock)
	if len(do) != 1 || do[0].Child(2).Text() != "*" {
		t.Fatalf("expected combinational do-block:\n%s", syntax.DumpString(mod))
	}
	if got := len(syntax.Find(mod, syntax.KindAssignStmt)); got != 1 {
		t.Fatalf("expected 1 assignment, got %d", got)
	}
}

func TestParseFullModule(t *testing.T) {
	src := `
native module lib.Ram;
interface {
	in bit clk, we;
	in vector[ADDR] addr;
	out memory[4][8] q;
}
constant integer ADDR = 2, W = ADDR * 4;
signal vector[W] s = zeroExtend(W, addr), t;
register vector[8] r = 8h00;
lib.Ram ram;
do (clk) {
	if (we) r = r + 8d1; else { r = -r; }
	switch (addr) {
	case 2b00, 2b01: t = s;
	default:
	}
	ram.addr = s[1:0] _ addr[0];
}
`
	root := parseClean(t, src)
	header := syntax.Find(root, syntax.KindModuleHeader)[0]
	if header.Child(0).Text() != "native" {
		t.Fatalf("native flag lost:\n%s", syntax.DumpString(header))
	}
	qn := header.ChildOf(syntax.KindQualifiedName)
	if qn == nil || len(qn.Children) != 3 {
		t.Fatalf("qualified name must be flattened:\n%s", syntax.DumpString(header))
	}
	if got := len(syntax.Find(root, syntax.KindSignalLikeGroup)); got != 3 {
		t.Fatalf("expected 3 declaration groups, got %d", got)
	}
	if got := len(syntax.Find(root, syntax.KindModuleInstance)); got != 1 {
		t.Fatalf("expected 1 instance, got %d", got)
	}
	if got := len(syntax.Find(root, syntax.KindCaseItem)) + len(syntax.Find(root, syntax.KindDefaultItem)); got != 2 {
		t.Fatalf("expected 2 case items, got %d", got)
	}
	if got := len(syntax.Find(root, syntax.KindInstancePortExpr)); got != 1 {
		t.Fatalf("expected 1 instance port expression, got %d", got)
	}
}

func firstAssignRHS(t *testing.T, expr string) *syntax.Node {
	t.Helper()
	root := parseClean(t, "module M; interface { } do (*) x = "+expr+";")
	stmts := syntax.Find(root, syntax.KindAssignStmt)
	if len(stmts) != 1 {
		t.Fatalf("expected one assignment for %q", expr)
	}
	return stmts[0].Exprs()[1]
}

func TestOperatorPrecedence(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"a + b * c", "(BinaryExpr (IdentExpr) (BinaryExpr (IdentExpr) (IdentExpr)))"},
		{"a - b - c", "(BinaryExpr (BinaryExpr (IdentExpr) (IdentExpr)) (IdentExpr))"},
		{"a | b & c", "(BinaryExpr (IdentExpr) (BinaryExpr (IdentExpr) (IdentExpr)))"},
		{"a _ b << 1", "(BinaryExpr (IdentExpr) (BinaryExpr (IdentExpr) (LiteralExpr)))"},
		{"-a[0]", "(UnaryExpr (IndexExpr (IdentExpr) (LiteralExpr)))"},
		{"c ? a : d ? b : e", "(ConditionalExpr (IdentExpr) (IdentExpr) (ConditionalExpr (IdentExpr) (IdentExpr) (IdentExpr)))"},
		{"a == b | c", "(BinaryExpr (BinaryExpr (IdentExpr) (IdentExpr)) (IdentExpr))"},
		{"f()", "(CallExpr)"},
	}
	for _, tc := range cases {
		if got := syntax.Sexpr(firstAssignRHS(t, tc.expr)); got != tc.want {
			t.Fatalf("%q: got %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestComparisonIsNonAssociative(t *testing.T) {
	res, bag := parseString(t, "module M; interface { } do (*) x = a == b == c;")
	if bag.Count(diag.SynUnexpectedToken) != 1 || res.Fatal {
		t.Fatalf("expected one syntax error, got %v", bag.Codes())
	}
}

func TestDanglingElseBindsInnermost(t *testing.T) {
	root := parseClean(t, "module M; interface { } do (*) if (a) if (b) x = 1; else x = 2;")
	ifs := syntax.Find(root, syntax.KindIfStmt)
	if len(ifs) != 2 {
		t.Fatalf("expected 2 if statements, got %d", len(ifs))
	}
	if len(ifs[0].Children) != 5 || len(ifs[1].Children) != 7 {
		t.Fatalf("else attached to the wrong if:\n%s", syntax.DumpString(ifs[0]))
	}
}

func TestRecoveryKeepsNeighbours(t *testing.T) {
	src := `module M;
interface { in bit a; out bit b; }
constant integer N = 4;
signal bit s = a $ a;
register bit r = 0;
do (*) { b = a; }
`
	res, bag := parseString(t, src)
	if res.Fatal {
		t.Fatalf("recovery must not be fatal")
	}
	if bag.Count(diag.LexUnknownChar) != 1 || bag.Count(diag.SynUnexpectedToken) != 1 {
		t.Fatalf("unexpected diagnostics %v", bag.Codes())
	}
	if got := len(syntax.Find(res.Root, syntax.KindError)); got != 1 {
		t.Fatalf("expected 1 error node, got %d", got)
	}
	groups := syntax.Find(res.Root, syntax.KindSignalLikeGroup)
	if len(groups) != 2 || groups[0].Child(0).Text() != "constant" || groups[1].Child(0).Text() != "register" {
		t.Fatalf("declarations around the error are not intact:\n%s", syntax.DumpString(res.Root))
	}
	if got := len(syntax.Find(res.Root, syntax.KindPortGroup)); got != 2 {
		t.Fatalf("interface damaged: %d port groups", got)
	}
	if got := len(syntax.Find(res.Root, syntax.KindDoBlock)); got != 1 {
		t.Fatalf("do-block after the error is lost")
	}
}

func TestTruncatedFileRecovers(t *testing.T) {
	res, bag := parseString(t, "module M; interface { in bit a;")
	if res.Fatal {
		t.Fatalf("truncated interface should recover")
	}
	if bag.Count(diag.SynUnexpectedToken) != 1 {
		t.Fatalf("expected one syntax error, got %v", bag.Codes())
	}
	mod := res.Root.ChildOf(syntax.KindModule)
	if mod == nil || mod.ChildOf(syntax.KindModuleHeader) == nil || mod.ChildOf(syntax.KindError) == nil {
		t.Fatalf("unexpected tree:\n%s", syntax.DumpString(res.Root))
	}
}

func TestParseKeepsEveryToken(t *testing.T) {
	inputs := []string{
		"",
		"}}}",
		"module",
		"module M; interface { in bit a; } do (*) { a = ; } register",
		"do do do ( * ) ) ;",
	}
	for _, src := range inputs {
		res, _ := parseString(t, src)
		leaves := syntax.Leaves(res.Root)
		if len(leaves) != len(res.Tokens) {
			t.Fatalf("%q: %d leaves for %d tokens", src, len(leaves), len(res.Tokens))
		}
		for i := range leaves {
			if leaves[i].Tok.Span != res.Tokens[i].Span {
				t.Fatalf("%q: leaf %d out of order", src, i)
			}
		}
	}
}

func TestMaxErrorsLimitsSyntaxDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bad.mahdl", []byte("module M; interface { } do (*) { x = ; y = 1; z = ; w = 1; v = ; }")))
	bag := diag.NewBag(64)
	res := ParseFile(context.Background(), file, Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 1})
	if res.Errors != 3 {
		t.Fatalf("expected 3 recoveries, got %d", res.Errors)
	}
	if got := bag.Count(diag.SynUnexpectedToken); got != 1 {
		t.Fatalf("expected 1 reported syntax error, got %d", got)
	}
}
