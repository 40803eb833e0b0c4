package model

import (
	"mahdl/internal/builtin"
	"mahdl/internal/constant"
	"mahdl/internal/source"
	"mahdl/internal/types"
)

// Expr is a typed expression.
type Expr interface {
	Type() types.Type
	Pos() source.Span
	expr()
}

type (
	// Literal is a folded constant. Literals of Unknown value stand for
	// expressions whose processing failed.
	Literal struct {
		Value constant.Value
		Span  source.Span
	}

	// Ref names a port, signal, register or memory constant.
	Ref struct {
		Name string
		T    types.Type
		Span source.Span
	}

	// InstancePort is inst.port.
	InstancePort struct {
		Instance string
		Port     string
		T        types.Type
		Span     source.Span
	}

	// Index selects one bit of a vector or one row of a memory.
	Index struct {
		Base  Expr
		Index Expr
		T     types.Type
		Span  source.Span
	}

	// Range selects bits From..To of a vector.
	Range struct {
		Base     Expr
		From, To int
		T        types.Type
		Span     source.Span
	}

	Unary struct {
		Op   types.UnaryOp
		X    Expr
		T    types.Type
		Span source.Span
	}

	Binary struct {
		Op   types.BinaryOp
		L, R Expr
		T    types.Type
		Span source.Span
	}

	Conditional struct {
		Cond, Then, Else Expr
		T                types.Type
		Span             source.Span
	}

	// Call is a sized builtin applied to a run-time operand.
	Call struct {
		Func builtin.Func
		N    int
		Arg  Expr
		T    types.Type
		Span source.Span
	}

	// Conversion is an implicit integer to bit or vector conversion of a
	// constant. Value holds the converted constant.
	Conversion struct {
		X     Expr
		Value constant.Value
		Span  source.Span
	}
)

func (*Literal) expr()      {}
func (*Ref) expr()          {}
func (*InstancePort) expr() {}
func (*Index) expr()        {}
func (*Range) expr()        {}
func (*Unary) expr()        {}
func (*Binary) expr()       {}
func (*Conditional) expr()  {}
func (*Call) expr()         {}
func (*Conversion) expr()   {}

func (e *Literal) Type() types.Type      { return e.Value.Type() }
func (e *Ref) Type() types.Type          { return e.T }
func (e *InstancePort) Type() types.Type { return e.T }
func (e *Index) Type() types.Type        { return e.T }
func (e *Range) Type() types.Type        { return e.T }
func (e *Unary) Type() types.Type        { return e.T }
func (e *Binary) Type() types.Type       { return e.T }
func (e *Conditional) Type() types.Type  { return e.T }
func (e *Call) Type() types.Type         { return e.T }
func (e *Conversion) Type() types.Type   { return e.Value.Type() }

func (e *Literal) Pos() source.Span      { return e.Span }
func (e *Ref) Pos() source.Span          { return e.Span }
func (e *InstancePort) Pos() source.Span { return e.Span }
func (e *Index) Pos() source.Span        { return e.Span }
func (e *Range) Pos() source.Span        { return e.Span }
func (e *Unary) Pos() source.Span        { return e.Span }
func (e *Binary) Pos() source.Span       { return e.Span }
func (e *Conditional) Pos() source.Span  { return e.Span }
func (e *Call) Pos() source.Span         { return e.Span }
func (e *Conversion) Pos() source.Span   { return e.Span }

// Bad returns the expression used in place of a failed one.
func Bad(span source.Span) *Literal {
	return &Literal{Value: constant.Unknown{}, Span: span}
}

// ConstValue returns the constant value of e when e is a literal or a
// conversion.
func ConstValue(e Expr) (constant.Value, bool) {
	switch e := e.(type) {
	case *Literal:
		return e.Value, true
	case *Conversion:
		return e.Value, true
	}
	return nil, false
}

// WalkExpr visits e and its operands in pre-order.
func WalkExpr(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch e := e.(type) {
	case *Index:
		WalkExpr(e.Base, fn)
		WalkExpr(e.Index, fn)
	case *Range:
		WalkExpr(e.Base, fn)
	case *Unary:
		WalkExpr(e.X, fn)
	case *Binary:
		WalkExpr(e.L, fn)
		WalkExpr(e.R, fn)
	case *Conditional:
		WalkExpr(e.Cond, fn)
		WalkExpr(e.Then, fn)
		WalkExpr(e.Else, fn)
	case *Call:
		WalkExpr(e.Arg, fn)
	case *Conversion:
		WalkExpr(e.X, fn)
	}
}
