// Package lr implements a table-driven LR parser with error recovery.
//
// Build turns a declarative Grammar (terminals, rules, yacc-style precedence)
// into LALR(1) Tables. Parse runs the shift/reduce automaton over a token
// slice and always returns a single-rooted syntax.Node tree: malformed
// regions become syntax.KindError nodes and the unexpected token is reported
// through a diag.Reporter.
//
// Symbols are numbered densely: 0 is end of input, 1 is the error symbol,
// user terminals follow, then nonterminals starting with the augmented start
// symbol. Actions are packed into int32 cells:
//
//	0          error
//	n > 0      shift (terminal) or goto (nonterminal) to state n-1
//	n < 0      reduce by rule -n-1
//	MinInt32   accept
package lr
