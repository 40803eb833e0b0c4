package diag

import (
	"testing"

	"mahdl/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/rtl/counter.mahdl", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaUnresolvedSymbol,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error SYN2001 rtl/counter.mahdl:1:1 first line second\n" +
		"note SYN2001 rtl/counter.mahdl:2:1 note line\n" +
		"warning SEM3002 rtl/counter.mahdl:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	bag := NewBag(2)
	for i := range 3 {
		bag.Add(Diagnostic{Severity: SevError, Code: SemaTypeMismatch, Primary: source.Span{Start: uint32(i)}})
	}
	if bag.Len() != 2 {
		t.Fatalf("limit not honoured: %d", bag.Len())
	}

	other := NewBag(4)
	other.Add(Diagnostic{Severity: SevWarning, Code: LintUnused})
	bag.Merge(other)
	if bag.Len() != 3 || !bag.HasWarnings() || bag.Count(LintUnused) != 1 {
		t.Fatalf("merge lost diagnostics: %v", bag.Codes())
	}
	if bag.ErrorCount() != 2 {
		t.Fatalf("ErrorCount = %d", bag.ErrorCount())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	sp := source.Span{Start: 4, End: 5}
	bag.Add(Diagnostic{Severity: SevWarning, Code: LintUnused, Primary: sp})
	bag.Add(Diagnostic{Severity: SevError, Code: SemaTypeMismatch, Primary: sp})
	bag.Add(Diagnostic{Severity: SevError, Code: SemaTypeMismatch, Primary: sp})
	bag.Add(Diagnostic{Severity: SevError, Code: SynUnexpectedToken, Primary: source.Span{Start: 1, End: 2}})
	bag.Sort()
	bag.Dedup()

	got := bag.Codes()
	want := []Code{SynUnexpectedToken, SemaTypeMismatch, LintUnused}
	if len(got) != len(want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codes = %v, want %v", got, want)
		}
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(SemaDivisionByZero, SevError, sp, "division by zero", nil)
	r.Report(SemaDivisionByZero, SevError, sp, "division by zero", nil)
	ReportError(r, SemaDivisionByZero, sp, "other message").WithNote(sp, "here").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if len(bag.Items()[1].Notes) != 1 {
		t.Fatalf("note lost")
	}
	if r.Suppressed() != 1 {
		t.Fatalf("suppressed = %d, want 1", r.Suppressed())
	}
	// ReportTo goes through the same filter
	bag.Items()[1].ReportTo(r)
	if bag.Len() != 2 || r.Suppressed() != 2 {
		t.Fatalf("replayed diagnostic was not dropped")
	}
}

func TestSeverityForms(t *testing.T) {
	tests := []struct {
		sev              Severity
		upper, low, sarf string
		blocking         bool
	}{
		{SevInfo, "INFO", "info", "note", false},
		{SevWarning, "WARNING", "warning", "warning", false},
		{SevError, "ERROR", "error", "error", true},
	}
	for _, tt := range tests {
		if tt.sev.String() != tt.upper || tt.sev.Label() != tt.low || tt.sev.SarifLevel() != tt.sarf {
			t.Fatalf("%v: %s %s %s", tt.sev, tt.sev, tt.sev.Label(), tt.sev.SarifLevel())
		}
		if (Diagnostic{Severity: tt.sev}).Blocking() != tt.blocking {
			t.Fatalf("%v: blocking mismatch", tt.sev)
		}
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:        "LEX1001",
		SynUnrecoverable:      "SYN2099",
		SemaMissingAssignment: "SEM3056",
		GenUnknownType:        "GEN7001",
		LintUnused:            "LNT8001",
		IOLoadFileError:       "IO4001",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
		if code.Title() == codeDescription[UnknownCode] {
			t.Errorf("%s has no title", want)
		}
	}
}
