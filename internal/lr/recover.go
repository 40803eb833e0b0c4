package lr

import (
	"fmt"
	"strings"

	"mahdl/internal/diag"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
)

const maxExpectedShown = 8

// recover runs one error recovery. It reports exactly one diagnostic and
// returns false when no state on the stack can take the error symbol.
//
// Порядок:
//  1. свёртка по умолчанию, пока снимаемые состояния не принимают error;
//  2. снимаем стек до состояния, принимающего error (возможно через свёртки);
//  3. сдвигаем error с узлом KindError из снятых фрагментов и маркера;
//  4. пробный разбор копии стека: sync токенов или accept — успех,
//     иначе токен уходит в узел ошибки;
//  5. на EOF токен не выбрасывается: снимаем стек глубже и повторяем.
func (p *parser) recover() bool {
	tok := p.toks[p.pos]
	p.reportUnexpected(tok)
	p.reduceOnError()

	fragments := []*syntax.Node{syntax.NewNode(syntax.KindErrorMarker, tok.Span, nil)}
	for {
		for !p.canShiftError() {
			if len(p.states) == 1 {
				p.lost = fragments
				return false
			}
			fragments = prependFragment(fragments, p.pop())
		}
		base := len(p.states)
		errNode := syntax.NewNode(syntax.KindError, tok.Span, fragments)
		p.shiftError(errNode)

		if p.resync(errNode) {
			return true
		}

		// пробный разбор упёрся в EOF — ищем состояние глубже
		if base <= 1 {
			return false
		}
		fragments = nil
		for len(p.states) > base-1 {
			fragments = prependFragment(fragments, p.pop())
		}
	}
}

// resync discards tokens into errNode until a trial parse succeeds.
// End of input is never discarded.
func (p *parser) resync(errNode *syntax.Node) bool {
	for !p.trial() {
		cur := p.toks[p.pos]
		if cur.Kind == token.EOF {
			return false
		}
		errNode.Children = append(errNode.Children, syntax.NewToken(cur))
		errNode.Span = errNode.Span.Cover(cur.Span)
		p.pos++
	}
	return true
}

func prependFragment(fragments []*syntax.Node, n *syntax.Node) []*syntax.Node {
	if n == nil || (n.Kind != syntax.KindToken && len(n.Children) == 0) {
		return fragments
	}
	return append([]*syntax.Node{n}, fragments...)
}

func (p *parser) reportUnexpected(tok token.Token) {
	p.errors++
	msg := "unexpected " + describeToken(tok)
	if exp := p.t.Expected(int(p.top())); len(exp) > 0 {
		if len(exp) > maxExpectedShown {
			exp = append(exp[:maxExpectedShown:maxExpectedShown], "...")
		}
		msg += ", expected " + strings.Join(exp, ", ")
	}
	diag.ReportError(p.opts.Reporter, diag.SynUnexpectedToken, tok.Span, msg).Emit()
}

func describeToken(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.VectorLit, token.TextLit:
		return fmt.Sprintf("%s %s", tok.Kind.Describe(), tok.Text)
	case token.Invalid:
		return fmt.Sprintf("%q", tok.Text)
	default:
		return "'" + tok.Kind.Describe() + "'"
	}
}

// reduceOnError выполняет единственную ожидающую свёртку состояния, если ни
// одно из снимаемых ею состояний не принимает error. Незавершённые
// конструкции тогда остаются настоящими узлами дерева.
func (p *parser) reduceOnError() {
	for {
		rule, ok := p.t.DefaultReduction(int(p.top()))
		if !ok {
			return
		}
		n := p.t.rules[rule].length
		if n == 0 || n >= len(p.states) {
			return
		}
		for _, s := range p.states[len(p.states)-n:] {
			if p.t.act(s, symError) > 0 {
				return
			}
		}
		p.reduce(int32(rule))
	}
}

// canShiftError simulates reductions on the error symbol over a copy of the
// state stack and reports whether error is eventually shifted.
func (p *parser) canShiftError() bool {
	states := append(make([]int32, 0, len(p.states)+4), p.states...)
	for {
		a := p.t.act(states[len(states)-1], symError)
		switch {
		case a > 0:
			return true
		case a < 0 && a != actAccept:
			var ok bool
			if states, ok = p.t.simulateReduce(states, -a-1); !ok {
				return false
			}
		default:
			return false
		}
	}
}

// shiftError performs the error reductions for real and shifts errNode.
func (p *parser) shiftError(errNode *syntax.Node) {
	for {
		a := p.t.act(p.top(), symError)
		if a > 0 {
			p.push(a-1, errNode)
			return
		}
		p.reduce(-a - 1)
	}
}

// trial parses ahead on a copy of the state stack without building nodes.
func (p *parser) trial() bool {
	states := append(make([]int32, 0, len(p.states)+8), p.states...)
	shifts := 0
	for pos := p.pos; ; {
		a := p.t.act(states[len(states)-1], p.t.symbolOf(p.toks[pos]))
		switch {
		case a == actAccept:
			return true
		case a > 0:
			states = append(states, a-1)
			pos++
			shifts++
			if shifts >= p.sync {
				return true
			}
		case a < 0:
			var ok bool
			if states, ok = p.t.simulateReduce(states, -a-1); !ok {
				return false
			}
		default:
			return false
		}
	}
}

func (t *Tables) simulateReduce(states []int32, rule int32) ([]int32, bool) {
	info := t.rules[rule]
	if info.length >= len(states) {
		return states, false
	}
	states = states[:len(states)-info.length]
	g := t.act(states[len(states)-1], info.lhs)
	if g <= 0 {
		return states, false
	}
	return append(states, g-1), true
}
