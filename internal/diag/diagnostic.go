package diag

import (
	"mahdl/internal/source"
)

// Note adds a second location to a finding: the first declaration of a
// redeclared name, the other block driving a signal, the instance a port
// belongs to.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding of a compilation phase. Primary is where the
// renderers place the caret; for MaHDL it is always inside the file that
// produced the diagnostic.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Blocking reports whether d keeps its file from being generated.
func (d Diagnostic) Blocking() bool { return d.Severity.Blocking() }

// ReportTo sends d, notes included, through r.
func (d Diagnostic) ReportTo(r Reporter) {
	if r == nil {
		return
	}
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}
