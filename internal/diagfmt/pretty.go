package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mahdl/internal/diag"
	"mahdl/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	bold, gutter, caret   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		bold:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.bold, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строки контекста с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		start, _ := fs.Resolve(d.Primary)
		path := formatPath(fs, d.Primary.File, opts.PathMode)
		fmt.Fprintf(w, "%s: %s: %s\n",
			p.bold.Sprintf("%s:%d:%d", path, start.Line, start.Col),
			p.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID()),
			p.bold.Sprint(clip(d.Message, opts.Width)))

		if d.Code == diag.ObsTimings {
			continue
		}
		excerpt(w, fs, d.Primary, opts, p)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				formatPath(fs, n.Span.File, opts.PathMode)+fmt.Sprintf(":%d:%d", ns.Line, ns.Col),
				n.Msg)
			if n.Span.File != d.Primary.File || n.Span.Start != d.Primary.Start {
				excerpt(w, fs, n.Span, PrettyOpts{Width: opts.Width}, p)
			}
		}
	}
}

// excerpt prints the lines of span with Context lines around and marks
// the span on its first line.
func excerpt(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	lineCount, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		return
	}
	last = min(last, lineCount)

	gutterWidth := len(fmt.Sprint(last))
	blank := strings.Repeat(" ", gutterWidth)
	for ln := first; ln <= last; ln++ {
		text := expandTabs(f.GetLine(ln))
		if ln != start.Line && strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		line := f.GetLine(ln)
		from := min(int(start.Col-1), len(line))
		to := len(line)
		if end.Line == start.Line {
			to = min(int(end.Col-1), len(line))
		}
		pad := runewidth.StringWidth(expandTabs(line[:from]))
		width := max(runewidth.StringWidth(expandTabs(line[from:max(to, from)])), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%s |", blank), strings.Repeat(" ", pad), p.caret.Sprint(marker))
	}
}

// Short prints one line per diagnostic: path:line:col: SEV CODE: message.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(fs, d.Primary.File, mode), start.Line, start.Col,
			d.Severity, d.Code.ID(), d.Message)
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
