package source

import (
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("counter.mahdl", []byte("module a;"), 0)
	id2 := fs.Add("counter.mahdl", []byte("module b;"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("counter.mahdl")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v, want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "module a;" {
		t.Fatalf("first version lost: %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Fatalf("expected nil for unknown file id")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.mahdl", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // сам перевод строки
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
		{6, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 4, Col: 1}},
		{9, LineCol{Line: 4, Col: 3}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.mahdl", []byte("first\nsecond\nthird")))

	for line, want := range map[uint32]string{1: "first", 2: "second", 3: "third", 4: "", 0: ""} {
		if got := f.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestNormalization(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\r\n"))
	if !changed || string(out) != "a\nb\n" {
		t.Fatalf("normalizeCRLF = %q,%v", out, changed)
	}
	out, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had || string(out) != "x" {
		t.Fatalf("removeBOM = %q,%v", out, had)
	}
}

func TestFileText(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("m.mahdl", []byte("module M;")))
	if !f.Flags.Has(FileVirtual) || f.Flags.Has(FileHadBOM) {
		t.Fatalf("flags = %b", f.Flags)
	}
	cases := []struct {
		sp   Span
		want string
	}{
		{Span{Start: 7, End: 8}, "M"},
		{Span{Start: 7, End: 100}, "M;"},
		{Span{Start: 5, End: 3}, ""},
	}
	for _, tc := range cases {
		if got := f.Text(tc.sp); got != tc.want {
			t.Fatalf("Text(%v) = %q, want %q", tc.sp, got, tc.want)
		}
	}
	if got := (LineCol{Line: 3, Col: 14}).String(); got != "3:14" {
		t.Fatalf("LineCol = %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Fatalf("cover across files must keep receiver, got %v", got)
	}
	if !a.Contains(Span{File: 1, Start: 12, End: 20}) || a.Contains(b) {
		t.Fatalf("Contains mismatch")
	}
}
