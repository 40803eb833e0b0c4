package diag

import "mahdl/internal/source"

// finding identifies one diagnostic independently of its notes.
type finding struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter drops a diagnostic already reported with the same code,
// severity, primary span and message. The driver wraps the reporter of every
// file in one, so a pass that visits the same node twice reports it once.
type DedupReporter struct {
	next       Reporter
	seen       map[finding]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[finding]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := finding{code: code, sev: sev, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed counts the dropped repeats.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
