package lr

import (
	"fmt"

	"mahdl/internal/syntax"
	"mahdl/internal/token"
)

type ruleInfo struct {
	lhs     int32
	length  int
	src     int
	kind    syntax.Kind
	flatten bool
	pass    bool
}

// ConflictKind distinguishes shift/reduce from reduce/reduce conflicts.
type ConflictKind uint8

const (
	ShiftReduce ConflictKind = iota + 1
	ReduceReduce
)

func (k ConflictKind) String() string {
	if k == ShiftReduce {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// Conflict records an ambiguity that precedence did not resolve.
type Conflict struct {
	State      int
	Symbol     string
	Kind       ConflictKind
	Rules      []string
	Resolution string
}

func (c Conflict) String() string {
	return fmt.Sprintf("state %d on %s: %s between %v, chose %s", c.State, c.Symbol, c.Kind, c.Rules, c.Resolution)
}

// Tables is the output of Build: a flat action/goto table plus rule metadata.
// Tables are read-only and safe for concurrent use by many Parse calls.
type Tables struct {
	numStates int
	numTerms  int
	numSyms   int
	action    []int32
	defRed    []int32
	rules     []ruleInfo
	names     []string
	display   []string
	termOf    map[token.Kind]int32

	Conflicts []Conflict
}

// NumStates returns the number of automaton states.
func (t *Tables) NumStates() int { return t.numStates }

// NumRules returns the number of grammar rules, the augmented start rule included.
func (t *Tables) NumRules() int { return len(t.rules) }

func (t *Tables) act(state, sym int32) int32 {
	if sym < 0 {
		return 0
	}
	return t.action[int(state)*t.numSyms+int(sym)]
}

// symbolOf maps a token to its terminal; unknown kinds map to -1.
func (t *Tables) symbolOf(tok token.Token) int32 {
	if tok.Kind == token.EOF {
		return symEOF
	}
	if sym, ok := t.termOf[tok.Kind]; ok {
		return sym
	}
	return -1
}

func (t *Tables) computeDefault(state int) int32 {
	def := int32(-1)
	for sym := range t.numTerms {
		a := t.act(int32(state), int32(sym))
		if a >= 0 || a == actAccept {
			continue
		}
		r := -a - 1
		if def >= 0 && def != r {
			return -1
		}
		def = r
	}
	return def
}

// DefaultReduction returns the only rule the state can reduce by, if any.
func (t *Tables) DefaultReduction(state int) (int, bool) {
	if state < 0 || state >= t.numStates || t.defRed[state] < 0 {
		return 0, false
	}
	return int(t.defRed[state]), true
}

// Expected lists display names of the terminals acceptable in state,
// in symbol order, without the error symbol.
func (t *Tables) Expected(state int) []string {
	var out []string
	for sym := range t.numTerms {
		if int32(sym) == symError {
			continue
		}
		if t.act(int32(state), int32(sym)) != 0 {
			out = append(out, t.display[sym])
		}
	}
	return out
}

// SymbolName returns the grammar name of a symbol index.
func (t *Tables) SymbolName(sym int) string {
	if sym < 0 || sym >= len(t.names) {
		return "?"
	}
	return t.names[sym]
}
