package lr

import (
	"mahdl/internal/syntax"
	"mahdl/internal/token"
)

// Assoc is the associativity of a precedence level.
type Assoc uint8

const (
	AssocLeft Assoc = iota + 1
	AssocRight
	AssocNonassoc
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	case AssocNonassoc:
		return "nonassoc"
	default:
		return "none"
	}
}

// PrecLevel is one %left/%right/%nonassoc line. Names may be terminals or
// pseudo-terminals referenced only from Rule.Prec.
type PrecLevel struct {
	Assoc     Assoc
	Terminals []string
}

// Terminal binds a grammar name to the token kind that produces it.
type Terminal struct {
	Name    string
	Kind    token.Kind
	Display string // для сообщений "expected ..."; пусто — Name
}

// Rule is one alternative LHS -> RHS.
type Rule struct {
	LHS  string
	RHS  []string
	Kind syntax.Kind
	// Prec overrides the precedence taken from the last terminal of RHS.
	Prec string
	// Flatten splices the children of a leading child of the same Kind,
	// so left-recursive lists become one node.
	Flatten bool
	// PassThrough returns the single RHS value as is instead of wrapping it.
	PassThrough bool
}

// Grammar is the input of Build. Rules[0] need not be the start rule.
type Grammar struct {
	Terminals  []Terminal
	Start      string
	Rules      []Rule
	Precedence []PrecLevel
}

// Reserved symbol names.
const (
	EOFName   = "$end"
	ErrorName = "error"
)
