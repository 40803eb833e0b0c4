package verilog

import (
	"fmt"

	"mahdl/internal/builtin"
	"mahdl/internal/constant"
	"mahdl/internal/model"
	"mahdl/internal/types"
)

var binaryOps = map[types.BinaryOp]string{
	types.OpOr: "|", types.OpXor: "^", types.OpAnd: "&",
	types.OpEq: "==", types.OpNe: "!=",
	types.OpLt: "<", types.OpLe: "<=", types.OpGt: ">", types.OpGe: ">=",
	types.OpShl: "<<", types.OpShr: ">>",
	types.OpAdd: "+", types.OpSub: "-", types.OpMul: "*", types.OpDiv: "/", types.OpRem: "%",
}

// literal renders a bit or vector constant with an explicit width.
func literal(v constant.Value) string {
	switch v := v.(type) {
	case constant.Bit:
		if v {
			return "1'b1"
		}
		return "1'b0"
	case constant.Vector:
		return fmt.Sprintf("%d'h%s", v.Size, v.Bits.Text(16))
	}
	return ""
}

// value renders a run-time expression.
func (e *emitter) value(x model.Expr) string {
	switch x := x.(type) {
	case *model.Literal:
		return e.constValue(x, x.Value, false)
	case *model.Conversion:
		return e.constValue(x, x.Value, false)
	case *model.Ref:
		return Ident(x.Name)
	case *model.InstancePort:
		return e.names.net(x.Instance, x.Port)
	case *model.Index:
		if cond, ok := x.Base.(*model.Conditional); ok && cond.T.Kind == types.KindMemory {
			// a memory cannot be a wire: select in both branches instead
			return fmt.Sprintf("(%s ? %s : %s)", e.value(cond.Cond),
				e.value(&model.Index{Base: cond.Then, Index: x.Index, T: x.T, Span: x.Span}),
				e.value(&model.Index{Base: cond.Else, Index: x.Index, T: x.T, Span: x.Span}))
		}
		return fmt.Sprintf("%s[%s]", e.selectBase(x.Base), e.amount(x.Index))
	case *model.Range:
		return fmt.Sprintf("%s[%d:%d]", e.selectBase(x.Base), x.From, x.To)
	case *model.Unary:
		return e.unary(x)
	case *model.Binary:
		if x.Op == types.OpConcat {
			return fmt.Sprintf("{%s, %s}", e.value(x.L), e.value(x.R))
		}
		if x.Op == types.OpShl || x.Op == types.OpShr {
			return fmt.Sprintf("(%s %s %s)", e.value(x.L), binaryOps[x.Op], e.amount(x.R))
		}
		op, ok := binaryOps[x.Op]
		if !ok {
			return e.fail(ErrMalformed, x.Span, "operator %s has no Verilog form", x.Op)
		}
		return fmt.Sprintf("(%s %s %s)", e.value(x.L), op, e.value(x.R))
	case *model.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", e.value(x.Cond), e.value(x.Then), e.value(x.Else))
	case *model.Call:
		return e.call(x)
	case nil:
		return e.fail(ErrMalformed, e.mod.Span, "missing expression")
	}
	return e.fail(ErrMalformed, x.Pos(), "unexpected expression %T", x)
}

// amount renders an index or shift amount, where constant integers are
// allowed and printed in decimal.
func (e *emitter) amount(x model.Expr) string {
	if v, ok := model.ConstValue(x); ok {
		return e.constValue(x, v, true)
	}
	return e.value(x)
}

func (e *emitter) constValue(x model.Expr, v constant.Value, integerOK bool) string {
	switch v := v.(type) {
	case constant.Bit, constant.Vector:
		return literal(v)
	case constant.Integer:
		if integerOK && v.V.Sign() >= 0 {
			return v.V.String()
		}
		return e.fail(ErrMalformed, x.Pos(), "integer %s used as a run-time value", v)
	case constant.Memory:
		return e.synthesize(x.Type(), "", &v)
	case constant.Text:
		return e.fail(ErrMalformed, x.Pos(), "text %s used as a run-time value", v)
	}
	return e.fail(ErrUnknownType, x.Pos(), "expression has unknown type")
}

// selectBase renders x as something Verilog can index: a name, an
// instance net, or a memory word.
func (e *emitter) selectBase(x model.Expr) string {
	switch b := x.(type) {
	case *model.Ref, *model.InstancePort:
		return e.value(b)
	case *model.Index:
		if _, ok := b.Base.(*model.Ref); ok && b.Base.Type().Kind == types.KindMemory {
			return e.value(b)
		}
	case *model.Literal:
		if m, ok := b.Value.(constant.Memory); ok {
			return e.synthesize(b.Type(), "", &m)
		}
	}
	return e.identifier(x)
}

// identifier returns x as a plain name, synthesizing a wire when needed.
func (e *emitter) identifier(x model.Expr) string {
	switch x := x.(type) {
	case *model.Ref:
		return Ident(x.Name)
	case *model.InstancePort:
		return e.names.net(x.Instance, x.Port)
	}
	t := x.Type()
	if t.IsUnknown() {
		return e.fail(ErrUnknownType, x.Pos(), "expression has unknown type")
	}
	return e.synthesize(t, e.value(x), nil)
}

func (e *emitter) synthesize(t types.Type, value string, rows *constant.Memory) string {
	name := e.names.fresh()
	e.synth = append(e.synth, synthNet{name: name, t: t, value: value, rows: rows})
	return name
}

func (e *emitter) unary(x *model.Unary) string {
	switch x.Op {
	case types.OpNot:
		return fmt.Sprintf("(~%s)", e.value(x.X))
	case types.OpNeg:
		return fmt.Sprintf("(-%s)", e.value(x.X))
	default:
		return e.value(x.X)
	}
}

func (e *emitter) call(x *model.Call) string {
	w := x.Arg.Type().Width()
	switch x.Func {
	case builtin.ZeroExtend:
		if x.N == w {
			return e.value(x.Arg)
		}
		return fmt.Sprintf("{{%d{1'b0}}, %s}", x.N-w, e.value(x.Arg))
	case builtin.SignExtend:
		if x.N == w {
			return e.value(x.Arg)
		}
		v := e.identifier(x.Arg)
		if w == 1 {
			return fmt.Sprintf("{%d{%s}}", x.N, v)
		}
		return fmt.Sprintf("{{%d{%s[%d]}}, %s}", x.N-w, v, w-1, v)
	case builtin.Truncate:
		if x.N == w {
			return e.value(x.Arg)
		}
		return fmt.Sprintf("%s[%d:0]", e.identifier(x.Arg), x.N-1)
	case builtin.Repeat:
		return fmt.Sprintf("{%d{%s}}", x.N, e.value(x.Arg))
	}
	return e.fail(ErrMalformed, x.Span, "builtin %s has no Verilog form", x.Func)
}
