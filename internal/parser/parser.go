package parser

import (
	"context"
	"fmt"
	"sync"

	"mahdl/internal/diag"
	"mahdl/internal/lexer"
	"mahdl/internal/lr"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
	"mahdl/internal/trace"
)

type Options struct {
	Reporter diag.Reporter
	// MaxErrors ограничивает число синтаксических диагностик; 0 — без лимита.
	MaxErrors uint
}

type Result struct {
	Root   *syntax.Node
	Tokens []token.Token
	Fatal  bool
	Errors int
}

var (
	tablesOnce sync.Once
	tables     *lr.Tables
	tablesErr  error
)

// Tables returns the LALR tables of the MaHDL grammar, built once per process.
func Tables() (*lr.Tables, error) {
	tablesOnce.Do(func() {
		tables, tablesErr = lr.Build(Grammar())
		if tablesErr != nil {
			tablesErr = fmt.Errorf("build MaHDL tables: %w", tablesErr)
		}
	})
	return tables, tablesErr
}

func mustTables() *lr.Tables {
	t, err := Tables()
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTokens parses an already lexed token stream.
func ParseTokens(toks []token.Token, opts Options) Result {
	rep := opts.Reporter
	if opts.MaxErrors > 0 && rep != nil {
		rep = &limitReporter{next: rep, left: opts.MaxErrors}
	}
	res := lr.Parse(mustTables(), toks, lr.Options{Reporter: rep})
	return Result{Root: res.Root, Tokens: toks, Fatal: res.Fatal, Errors: res.Errors}
}

// ParseFile lexes and parses one file. Lexical and syntax diagnostics go to
// the same reporter.
func ParseFile(ctx context.Context, file *source.File, opts Options) Result {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lex", trace.ParentOf(ctx))
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter})
	span.WithExtra("tokens", fmt.Sprint(len(toks))).End("")

	span = trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.ParentOf(ctx))
	res := ParseTokens(toks, opts)
	span.WithExtra("errors", fmt.Sprint(res.Errors)).End("")
	return res
}

// limitReporter пропускает не больше left синтаксических ошибок.
type limitReporter struct {
	next diag.Reporter
	left uint
}

func (r *limitReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError && code != diag.SynUnrecoverable {
		if r.left == 0 {
			return
		}
		r.left--
	}
	r.next.Report(code, sev, primary, msg, notes)
}
