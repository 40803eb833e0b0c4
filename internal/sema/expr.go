package sema

import (
	"errors"
	"math/big"

	"fortio.org/safecast"

	"mahdl/internal/builtin"
	"mahdl/internal/constant"
	"mahdl/internal/diag"
	"mahdl/internal/model"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
	"mahdl/internal/types"
)

// expr type-checks n. Sub-expressions with only constant operands are
// folded into literals.
func (c *checker) expr(n *syntax.Node) model.Expr {
	if n == nil {
		return model.Bad(source.Span{})
	}
	switch n.Kind {
	case syntax.KindIdentExpr:
		return c.ident(n)
	case syntax.KindLiteralExpr:
		return c.literal(n)
	case syntax.KindParenExpr:
		return c.expr(n.Child(1))
	case syntax.KindInstancePortExpr:
		return c.instancePort(n)
	case syntax.KindIndexExpr:
		return c.index(c.expr(n.Child(0)), n)
	case syntax.KindRangeExpr:
		return c.rangeSelect(c.expr(n.Child(0)), n)
	case syntax.KindCallExpr:
		return c.call(n)
	case syntax.KindUnaryExpr:
		return c.unary(n)
	case syntax.KindBinaryExpr:
		return c.binary(n)
	case syntax.KindConditionalExpr:
		return c.conditional(n)
	default:
		// узлы восстановления уже получили синтаксическую диагностику
		return model.Bad(n.Span)
	}
}

func (c *checker) ident(n *syntax.Node) model.Expr {
	name := n.Child(0).Text()
	def := c.defs.Lookup(name)
	if def == nil {
		c.report(diag.SemaUnresolvedSymbol, n.Span, "undefined name %s", name)
		return model.Bad(n.Span)
	}
	c.markRead(name)
	switch {
	case def.Kind == model.DefInstance:
		c.report(diag.SemaInstanceAsValue, n.Span, "instance %s cannot be used as a value", name)
		return model.Bad(n.Span)
	case def.Kind == model.DefConstant:
		if !c.constOnly && def.Type.Kind == types.KindMemory {
			return &model.Ref{Name: name, T: def.Type, Span: n.Span}
		}
		return &model.Literal{Value: def.Value, Span: n.Span}
	case c.constOnly:
		c.report(diag.SemaConstantRequired, n.Span, "%s %s is not a constant", def.Kind, name)
		return model.Bad(n.Span)
	}
	return &model.Ref{Name: name, T: def.Type, Span: n.Span}
}

func (c *checker) literal(n *syntax.Node) model.Expr {
	tok := n.Child(0).Tok
	var (
		v   constant.Value
		err error
	)
	switch tok.Kind {
	case token.IntLit:
		v, err = constant.ParseInteger(tok.Text)
	case token.VectorLit:
		v, err = constant.ParseVector(tok.Text)
	case token.TextLit:
		v, err = constant.ParseText(tok.Text)
	default:
		return model.Bad(n.Span)
	}
	if err != nil {
		code := diag.SemaMalformedLiteral
		switch {
		case errors.Is(err, constant.ErrZeroSize):
			code = diag.SemaInvalidSize
		case errors.Is(err, constant.ErrLiteralOverflow):
			code = diag.SemaLiteralOverflow
		case errors.Is(err, constant.ErrInvalidEscape):
			code = diag.SemaInvalidEscape
		case errors.Is(err, constant.ErrUnterminatedEscape):
			code = diag.SemaUnterminatedEscape
		}
		c.report(code, n.Span, "%v", err)
		return model.Bad(n.Span)
	}
	return &model.Literal{Value: v, Span: n.Span}
}

func (c *checker) instancePort(n *syntax.Node) model.Expr {
	idents := n.Tokens(token.Ident)
	if len(idents) != 2 {
		return model.Bad(n.Span)
	}
	inst, port := idents[0].Text, idents[1].Text
	if c.constOnly {
		c.report(diag.SemaConstantRequired, n.Span, "instance port %s.%s is not a constant", inst, port)
		return model.Bad(n.Span)
	}
	p, ok := c.lookupInstancePort(n, inst, port)
	if !ok {
		return model.Bad(n.Span)
	}
	c.markRead(inst)
	return &model.InstancePort{Instance: inst, Port: port, T: p.Type, Span: n.Span}
}

// lookupInstancePort resolves inst.port, reporting what is wrong. Instances
// of unresolved modules fail silently.
func (c *checker) lookupInstancePort(n *syntax.Node, inst, port string) (model.Port, bool) {
	def := c.defs.Lookup(inst)
	switch {
	case def == nil:
		c.report(diag.SemaUnresolvedSymbol, n.Span, "undefined name %s", inst)
		return model.Port{}, false
	case def.Kind != model.DefInstance:
		c.report(diag.SemaNotAnInstance, n.Span, "%s is a %s, not a module instance", inst, def.Kind)
		return model.Port{}, false
	case def.Instance.Interface == nil:
		return model.Port{}, false
	}
	p, ok := def.Instance.Interface.Port(port)
	if !ok {
		diag.ReportError(c.rep, diag.SemaUnknownInstancePort, n.Span, "module "+def.Instance.Module+" has no port "+port).
			WithNote(def.Decl, "instance declared here").
			Emit()
		return model.Port{}, false
	}
	return p, true
}

// constValue returns the constant behind e, including memory constants
// that stay references at run time.
func (c *checker) constValue(e model.Expr) (constant.Value, bool) {
	if ref, ok := e.(*model.Ref); ok {
		if def := c.defs.Lookup(ref.Name); def != nil && def.Kind == model.DefConstant {
			return def.Value, true
		}
		return nil, false
	}
	return model.ConstValue(e)
}

// selectable returns the number of selectable elements of t.
func selectable(t types.Type) (int, bool) {
	switch t.Kind {
	case types.KindVector, types.KindMemory:
		return t.Size, true
	}
	return 0, false
}

// index checks base[i]. A constant index must be an in-range integer; a
// run-time index must be k bits wide with 2^k equal to the container size.
func (c *checker) index(base model.Expr, n *syntax.Node) model.Expr {
	idxNode := n.Child(2)
	bt := base.Type()
	if bt.IsUnknown() {
		c.expr(idxNode)
		return model.Bad(n.Span)
	}
	size, ok := selectable(bt)
	if !ok {
		c.report(diag.SemaIndexType, n.Span, "cannot index a value of type %s", bt)
		return model.Bad(n.Span)
	}
	idx := c.expr(idxNode)
	it := idx.Type()
	if it.IsUnknown() {
		return model.Bad(n.Span)
	}
	if iv, ok := model.ConstValue(idx); ok && it.Kind == types.KindInteger {
		i, _ := constant.ToInteger(iv)
		if i.Sign() < 0 || i.Cmp(big.NewInt(int64(size))) >= 0 {
			c.report(diag.SemaIndexOutOfRange, idxNode.Span, "index %s out of range for %s", i, bt)
			return model.Bad(n.Span)
		}
	} else if !it.IsBits() || it.Width() >= 31 || 1<<it.Width() != size {
		c.report(diag.SemaIndexType, idxNode.Span, "cannot index %s with %s", bt, it)
		return model.Bad(n.Span)
	}
	bv, bok := c.constValue(base)
	iv, iok := model.ConstValue(idx)
	if bok && iok {
		i, _ := constant.ToInteger(iv)
		v, err := constant.SelectIndex(bv, i)
		if err != nil {
			c.report(diag.SemaIndexOutOfRange, idxNode.Span, "%v", err)
			return model.Bad(n.Span)
		}
		return &model.Literal{Value: v, Span: n.Span}
	}
	if c.constOnly {
		return model.Bad(n.Span)
	}
	return &model.Index{Base: base, Index: idx, T: bt.Elem(), Span: n.Span}
}

// rangeSelect checks base[from:to] with size > from >= to >= 0.
func (c *checker) rangeSelect(base model.Expr, n *syntax.Node) model.Expr {
	from, okFrom := c.intConst(n.Child(2))
	to, okTo := c.intConst(n.Child(4))
	bt := base.Type()
	if bt.IsUnknown() || !okFrom || !okTo {
		return model.Bad(n.Span)
	}
	if bt.Kind != types.KindVector {
		c.report(diag.SemaRangeOnNonVector, n.Span, "range selection needs a vector, found %s", bt)
		return model.Bad(n.Span)
	}
	size := big.NewInt(int64(bt.Size))
	if from.Cmp(size) >= 0 || from.Cmp(to) < 0 || to.Sign() < 0 {
		c.report(diag.SemaIndexOutOfRange, n.Span, "range [%s:%s] invalid for %s", from, to, bt)
		return model.Bad(n.Span)
	}
	if bv, ok := c.constValue(base); ok {
		v, err := constant.SelectRange(bv, from, to)
		if err != nil {
			c.report(diag.SemaIndexOutOfRange, n.Span, "%v", err)
			return model.Bad(n.Span)
		}
		return &model.Literal{Value: v, Span: n.Span}
	}
	hi, lo := int(from.Int64()), int(to.Int64())
	return &model.Range{Base: base, From: hi, To: lo, T: types.Vector(hi - lo + 1), Span: n.Span}
}

// intConst evaluates n as a constant integer.
func (c *checker) intConst(n *syntax.Node) (*big.Int, bool) {
	e := c.constMode().expr(n)
	v, ok := model.ConstValue(e)
	if !ok || constant.IsUnknown(v) {
		return nil, false
	}
	if i, ok := v.(constant.Integer); ok {
		return i.V, true
	}
	c.report(diag.SemaTypeMismatch, n.Span, "expected integer, found %s", v.Type())
	return nil, false
}

// sizeConst evaluates a positive size no larger than types.MaxVectorSize.
func (c *checker) sizeConst(n *syntax.Node, what string) (int, bool) {
	i, ok := c.intConst(n)
	if !ok {
		return 0, false
	}
	if i.Sign() <= 0 || !i.IsInt64() || i.Int64() > types.MaxVectorSize {
		c.report(diag.SemaInvalidSize, n.Span, "%s %s must be between 1 and %d", what, i, types.MaxVectorSize)
		return 0, false
	}
	size, err := safecast.Conv[int](i.Int64())
	if err != nil {
		c.report(diag.SemaInvalidSize, n.Span, "%s %s: %v", what, i, err)
		return 0, false
	}
	return size, true
}

func (c *checker) call(n *syntax.Node) model.Expr {
	name := n.Child(0).Text()
	var args []*syntax.Node
	if list := n.ChildOf(syntax.KindExprList); list != nil {
		args = list.Items()
	}
	f, ok := builtin.Lookup(name)
	if !ok {
		c.report(diag.SemaUnknownFunction, n.Child(0).Span, "unknown function %s", name)
		return model.Bad(n.Span)
	}
	if !f.Sized() {
		return c.rows(n, args)
	}
	if len(args) != f.Arity() {
		c.report(diag.SemaArgumentCount, n.Span, "%s takes %d arguments, got %d", f, f.Arity(), len(args))
		return model.Bad(n.Span)
	}
	size, okSize := c.intConst(args[0])
	operand := c.expr(args[1])
	if !okSize || operand.Type().IsUnknown() {
		return model.Bad(n.Span)
	}
	nArg := 0
	if size.IsInt64() && size.Int64() >= 0 && size.Int64() <= types.MaxVectorSize {
		nArg = int(size.Int64())
	} else {
		nArg = -1
	}
	rt, err := builtin.ResultType(f, nArg, operand.Type())
	if err != nil {
		c.report(diag.SemaInvalidArgument, n.Span, "%v", err)
		return model.Bad(n.Span)
	}
	if v, ok := model.ConstValue(operand); ok {
		folded, err := builtin.Fold(f, nArg, v)
		if err != nil {
			c.report(diag.SemaInvalidArgument, n.Span, "%v", err)
			return model.Bad(n.Span)
		}
		return &model.Literal{Value: folded, Span: n.Span}
	}
	return &model.Call{Func: f, N: nArg, Arg: operand, T: rt, Span: n.Span}
}

// rows needs constant arguments even at run time.
func (c *checker) rows(n *syntax.Node, args []*syntax.Node) model.Expr {
	if len(args) == 0 {
		c.report(diag.SemaArgumentCount, n.Span, "rows needs at least one argument")
		return model.Bad(n.Span)
	}
	cm := c.constMode()
	vals := make([]constant.Value, 0, len(args))
	for _, a := range args {
		v, _ := model.ConstValue(cm.expr(a))
		if constant.IsUnknown(v) {
			return model.Bad(n.Span)
		}
		vals = append(vals, v)
	}
	m, err := builtin.FoldRows(vals)
	if err != nil {
		c.report(diag.SemaInvalidArgument, n.Span, "%v", err)
		return model.Bad(n.Span)
	}
	return &model.Literal{Value: m, Span: n.Span}
}

func (c *checker) unary(n *syntax.Node) model.Expr {
	op, ok := types.UnaryOpOf(n.Child(0).Tok.Kind)
	x := c.expr(n.Child(1))
	if !ok || x.Type().IsUnknown() {
		return model.Bad(n.Span)
	}
	rt, ok := types.UnaryResult(op, x.Type())
	if !ok {
		c.report(diag.SemaOperandType, n.Span, "operator %s cannot be applied to %s", op, x.Type())
		return model.Bad(n.Span)
	}
	if v, ok := model.ConstValue(x); ok {
		folded, err := constant.Unary(op, v)
		if err != nil {
			c.report(foldCode(err), n.Span, "%v", err)
			return model.Bad(n.Span)
		}
		return &model.Literal{Value: folded, Span: n.Span}
	}
	return &model.Unary{Op: op, X: x, T: rt, Span: n.Span}
}

func (c *checker) binary(n *syntax.Node) model.Expr {
	op, ok := types.BinaryOpOf(n.Child(1).Tok.Kind)
	l := c.expr(n.Child(0))
	r := c.expr(n.Child(2))
	if !ok || l.Type().IsUnknown() || r.Type().IsUnknown() {
		return model.Bad(n.Span)
	}
	if types.AllowsImplicit(op) {
		l, r = c.unify(l, r)
		if l.Type().IsUnknown() || r.Type().IsUnknown() {
			return model.Bad(n.Span)
		}
	}
	rt, ok := types.BinaryResult(op, l.Type(), r.Type())
	if !ok {
		c.report(diag.SemaOperandType, n.Child(1).Span, "operator %s cannot be applied to %s and %s", op, l.Type(), r.Type())
		return model.Bad(n.Span)
	}
	lv, lok := model.ConstValue(l)
	rv, rok := model.ConstValue(r)
	if lok && rok {
		v, err := constant.Binary(op, lv, rv)
		if err != nil {
			c.report(foldCode(err), n.Span, "%v", err)
			return model.Bad(n.Span)
		}
		return &model.Literal{Value: v, Span: n.Span}
	}
	return &model.Binary{Op: op, L: l, R: r, T: rt, Span: n.Span}
}

// foldCode picks the diagnostic for a failed constant fold.
func foldCode(err error) diag.Code {
	switch {
	case errors.Is(err, constant.ErrDivisionByZero):
		return diag.SemaDivisionByZero
	case errors.Is(err, constant.ErrShiftRange):
		return diag.SemaShiftRange
	case errors.Is(err, constant.ErrDoesNotFit):
		return diag.SemaValueDoesNotFit
	}
	return diag.SemaOperandType
}

// unify converts an integer operand to the bit or vector type of the other.
func (c *checker) unify(l, r model.Expr) (model.Expr, model.Expr) {
	lt, rt := l.Type(), r.Type()
	switch {
	case types.ImplicitlyConvertible(lt, rt):
		l = c.coerce(l, rt, diag.SemaTypeMismatch)
	case types.ImplicitlyConvertible(rt, lt):
		r = c.coerce(r, lt, diag.SemaTypeMismatch)
	}
	return l, r
}

// coerce makes e usable where target is expected. Only the implicit
// integer conversions are applied; any other mismatch is reported with code.
func (c *checker) coerce(e model.Expr, target types.Type, code diag.Code) model.Expr {
	et := e.Type()
	if target.IsUnknown() || et.IsUnknown() || et == target {
		return e
	}
	if !types.ImplicitlyConvertible(et, target) {
		c.report(code, e.Pos(), "expected %s, found %s", target, et)
		return model.Bad(e.Pos())
	}
	v, ok := model.ConstValue(e)
	if !ok {
		c.report(diag.SemaConstantRequired, e.Pos(), "integer expression must be constant to become %s", target)
		return model.Bad(e.Pos())
	}
	cv, err := constant.Convert(target, v)
	if err != nil {
		c.report(diag.SemaValueDoesNotFit, e.Pos(), "%v", err)
		return model.Bad(e.Pos())
	}
	return &model.Conversion{X: e, Value: cv, Span: e.Pos()}
}

func (c *checker) conditional(n *syntax.Node) model.Expr {
	exprs := n.Exprs()
	if len(exprs) != 3 {
		return model.Bad(n.Span)
	}
	cond := c.coerce(c.expr(exprs[0]), types.Bit(), diag.SemaConditionType)
	then, els := c.unify(c.expr(exprs[1]), c.expr(exprs[2]))
	tt, et := then.Type(), els.Type()
	if cond.Type().IsUnknown() || tt.IsUnknown() || et.IsUnknown() {
		return model.Bad(n.Span)
	}
	if tt != et {
		c.report(diag.SemaTypeMismatch, n.Span, "branches have different types %s and %s", tt, et)
		return model.Bad(n.Span)
	}
	if cv, ok := model.ConstValue(cond); ok {
		b, _ := constant.ToBool(cv)
		tv, tok := model.ConstValue(then)
		ev, eok := model.ConstValue(els)
		if tok && eok {
			if b {
				return &model.Literal{Value: tv, Span: n.Span}
			}
			return &model.Literal{Value: ev, Span: n.Span}
		}
	}
	return &model.Conditional{Cond: cond, Then: then, Else: els, T: tt, Span: n.Span}
}
