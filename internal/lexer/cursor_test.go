package lexer

import (
	"testing"

	"mahdl/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mahdl", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for i, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF at %d", i)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("byte %d: got %q, want %q", i, got, want)
		}
	}
	if !cursor.EOF() {
		t.Fatalf("expected EOF")
	}
	if cursor.Bump() != 0 || cursor.Peek() != 0 {
		t.Fatalf("reading past EOF must yield 0")
	}
}

func TestCursorMarkResetAndSpan(t *testing.T) {
	cursor := NewCursor(createFile("module m;"))
	m := cursor.Mark()
	if n := cursor.BumpWhile(isIdentContinueByte); n != 6 {
		t.Fatalf("BumpWhile took %d bytes, want 6", n)
	}
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 6 || cursor.Text(m) != "module" {
		t.Fatalf("span = %v, text = %q", sp, cursor.Text(m))
	}
	if cursor.Pos() != 6 || cursor.Remaining() != 3 || cursor.Limit() != 9 {
		t.Fatalf("pos %d, remaining %d, limit %d", cursor.Pos(), cursor.Remaining(), cursor.Limit())
	}
	if here := cursor.Here(); here.Start != 6 || here.Len() != 0 {
		t.Fatalf("here = %v", here)
	}
	cursor.Reset(m)
	if cursor.Pos() != 0 {
		t.Fatalf("reset failed: %d", cursor.Pos())
	}
	cursor.SkipToLimit()
	if !cursor.EOF() || cursor.Remaining() != 0 {
		t.Fatalf("SkipToLimit must reach EOF")
	}
}

func TestCursorLookahead(t *testing.T) {
	cursor := NewCursor(createFile("<=x"))
	if cursor.PeekAt(0) != '<' || cursor.PeekAt(2) != 'x' || cursor.PeekAt(3) != 0 {
		t.Fatalf("PeekAt mismatch")
	}
	if cursor.EatPair('<', '<') || !cursor.EatPair('<', '=') {
		t.Fatalf("EatPair mismatch")
	}
	if cursor.Eat('y') || !cursor.Eat('x') || cursor.Eat(0) {
		t.Fatalf("Eat mismatch")
	}

	short := NewCursor(createFile("a"))
	if short.EatPair('a', 0) {
		t.Fatalf("EatPair past the limit must fail")
	}
}

func TestCursorBumpRune(t *testing.T) {
	cursor := NewCursor(createFile("é;"))
	cursor.BumpRune()
	if cursor.Pos() != 2 || cursor.Peek() != ';' {
		t.Fatalf("BumpRune stopped at %d", cursor.Pos())
	}
	bad := NewCursor(createFile("\xff;"))
	bad.BumpRune()
	if bad.Pos() != 1 {
		t.Fatalf("malformed byte must advance by one, got %d", bad.Pos())
	}
}
