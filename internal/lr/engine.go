package lr

import (
	"fmt"

	"mahdl/internal/diag"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
)

// DefaultSyncLength is how many tokens a trial parse must shift after an
// error before recovery is considered successful.
const DefaultSyncLength = 3

type Options struct {
	Reporter   diag.Reporter // nil — диагностики отбрасываются
	SyncLength int           // 0 — DefaultSyncLength
}

// Result of a parse. Root is never nil and is always a syntax.KindFile node.
type Result struct {
	Root *syntax.Node
	// Fatal is set when recovery ran out of stack: Root then wraps every
	// fragment and remaining token in one error node.
	Fatal bool
	// Errors counts reported syntax errors.
	Errors int
}

type parser struct {
	t      *Tables
	toks   []token.Token
	pos    int
	states []int32
	values []*syntax.Node
	opts   Options
	sync   int
	errors int
	lost   []*syntax.Node // фрагменты, снятые со стека при неудачном восстановлении
}

// Parse runs the automaton over toks. A trailing EOF token is appended when
// missing. Parse never fails: syntax errors are reported and recovered.
func Parse(t *Tables, toks []token.Token, opts Options) Result {
	p := &parser{
		t:      t,
		toks:   withEOF(toks),
		states: make([]int32, 1, 64),
		values: make([]*syntax.Node, 1, 64),
		opts:   opts,
		sync:   opts.SyncLength,
	}
	if p.sync <= 0 {
		p.sync = DefaultSyncLength
	}
	return p.run()
}

func withEOF(toks []token.Token) []token.Token {
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EOF {
		return toks
	}
	var at source.Span
	if n := len(toks); n > 0 {
		last := toks[n-1].Span
		at = source.Span{File: last.File, Start: last.End, End: last.End}
	}
	out := make([]token.Token, len(toks), len(toks)+1)
	copy(out, toks)
	return append(out, token.Token{Kind: token.EOF, Span: at})
}

func (p *parser) run() Result {
	for {
		tok := p.toks[p.pos]
		a := p.t.act(p.top(), p.t.symbolOf(tok))
		switch {
		case a == actAccept:
			return p.accept()
		case a > 0:
			p.push(a-1, syntax.NewToken(tok))
			p.pos++
		case a < 0:
			p.reduce(-a - 1)
		default:
			if !p.recover() {
				return p.fatal()
			}
		}
	}
}

func (p *parser) top() int32 {
	return p.states[len(p.states)-1]
}

func (p *parser) push(state int32, n *syntax.Node) {
	p.states = append(p.states, state)
	p.values = append(p.values, n)
}

func (p *parser) pop() *syntax.Node {
	last := len(p.states) - 1
	n := p.values[last]
	p.states = p.states[:last]
	p.values = p.values[:last]
	return n
}

func (p *parser) here() source.Span {
	return p.toks[p.pos].Span
}

func (p *parser) reduce(rule int32) {
	info := p.t.rules[rule]
	base := len(p.values) - info.length
	node := buildNode(info, p.values[base:], p.here())
	p.states = p.states[:base]
	p.values = p.values[:base]
	g := p.t.act(p.top(), info.lhs)
	if g <= 0 {
		panic(fmt.Sprintf("lr: no goto from state %d on %s", p.top(), p.t.SymbolName(int(info.lhs))))
	}
	p.push(g-1, node)
}

func buildNode(info ruleInfo, popped []*syntax.Node, pos source.Span) *syntax.Node {
	if info.pass && len(popped) == 1 {
		return popped[0]
	}
	var children []*syntax.Node
	if info.flatten && len(popped) > 0 && popped[0].Kind == info.kind {
		children = make([]*syntax.Node, 0, len(popped[0].Children)+len(popped)-1)
		children = append(children, popped[0].Children...)
		children = append(children, popped[1:]...)
		pos = popped[0].Span
	} else {
		children = append(make([]*syntax.Node, 0, len(popped)), popped...)
	}
	return syntax.NewNode(info.kind, pos, children)
}

func (p *parser) accept() Result {
	children := append([]*syntax.Node(nil), p.values[1:]...)
	children = append(children, syntax.NewToken(p.toks[p.pos]))
	return Result{
		Root:   syntax.NewNode(syntax.KindFile, p.here(), children),
		Errors: p.errors,
	}
}

func (p *parser) fatal() Result {
	eof := p.toks[len(p.toks)-1]
	var wrapped []*syntax.Node
	for _, v := range p.values[1:] {
		if v != nil {
			wrapped = append(wrapped, v)
		}
	}
	wrapped = append(wrapped, p.lost...)
	for _, tok := range p.toks[p.pos : len(p.toks)-1] {
		wrapped = append(wrapped, syntax.NewToken(tok))
	}
	errNode := syntax.NewNode(syntax.KindError, p.here(), wrapped)
	diag.ReportError(p.opts.Reporter, diag.SynUnrecoverable, p.here(), "cannot recover from syntax error").Emit()
	return Result{
		Root:   syntax.NewNode(syntax.KindFile, eof.Span, []*syntax.Node{errNode, syntax.NewToken(eof)}),
		Fatal:  true,
		Errors: p.errors + 1,
	}
}
