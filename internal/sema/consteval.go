package sema

import (
	"mahdl/internal/constant"
	"mahdl/internal/diag"
	"mahdl/internal/model"
	"mahdl/internal/syntax"
)

// ConstEvaluator evaluates constant expressions against a set of
// definitions. Anything that is not a constant is reported and evaluates
// to Unknown.
type ConstEvaluator struct {
	c *checker
}

// NewConstEvaluator returns an evaluator over defs reporting to rep.
func NewConstEvaluator(defs *model.Definitions, rep diag.Reporter) *ConstEvaluator {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &ConstEvaluator{c: &checker{rep: rep, defs: defs, constOnly: true}}
}

// Evaluate folds n to a value. Errors leave Unknown.
func (e *ConstEvaluator) Evaluate(n *syntax.Node) constant.Value {
	v, ok := model.ConstValue(e.c.expr(n))
	if !ok || v == nil {
		return constant.Unknown{}
	}
	return v
}

// evaluator shares the reporter and read tracking of c.
func (c *checker) evaluator() *ConstEvaluator {
	return &ConstEvaluator{c: c.constMode()}
}
