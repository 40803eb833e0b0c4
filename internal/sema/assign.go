package sema

import (
	"mahdl/internal/diag"
	"mahdl/internal/model"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
	"mahdl/internal/types"
)

// assignTracker enforces the single-writer rule: a leaf target may be
// assigned in one section only.
type assignTracker struct {
	prev map[string]source.Span
	cur  map[string]source.Span
}

func newAssignTracker() *assignTracker {
	return &assignTracker{prev: make(map[string]source.Span), cur: make(map[string]source.Span)}
}

func (t *assignTracker) begin() {
	t.cur = make(map[string]source.Span)
}

func (t *assignTracker) end() {
	for k, sp := range t.cur {
		t.prev[k] = sp
	}
	t.cur = make(map[string]source.Span)
}

// assign records key; when an earlier section already assigned it, the
// earlier span is returned with false.
func (t *assignTracker) assign(key string, sp source.Span) (source.Span, bool) {
	if first, ok := t.prev[key]; ok {
		return first, false
	}
	if _, ok := t.cur[key]; !ok {
		t.cur[key] = sp
	}
	return sp, true
}

func (t *assignTracker) assignedAnywhere(key string) bool {
	if _, ok := t.prev[key]; ok {
		return true
	}
	_, ok := t.cur[key]
	return ok
}

// leaf is one assigned definition; instance ports use "inst.port".
type leaf struct {
	key  string
	span source.Span
}

func instancePortKey(inst, port string) string { return inst + "." + port }

// record marks every leaf assigned in the current section.
func (p *processor) record(leaves []leaf) {
	for _, l := range leaves {
		if first, ok := p.tracker.assign(l.key, l.span); !ok {
			diag.ReportError(p.rep, diag.SemaAlreadyAssigned, l.span, l.key+" is already assigned").
				WithNote(first, "first assigned here").
				Emit()
		}
	}
}

// target checks an assignment target. Failed targets yield ok == false and
// no leaves.
func (p *processor) target(n *syntax.Node, clocked bool) (model.Expr, []leaf, bool) {
	e, leaves, ok := p.targetExpr(n, clocked)
	if ok && e.Type().Kind == types.KindMemory {
		p.report(diag.SemaWholeMemoryAssign, n.Span, "memory %s cannot be assigned as a whole; assign its elements", e.Type())
		return model.Bad(n.Span), nil, false
	}
	return e, leaves, ok
}

func (p *processor) targetExpr(n *syntax.Node, clocked bool) (model.Expr, []leaf, bool) {
	switch n.Kind {
	case syntax.KindParenExpr:
		return p.targetExpr(n.Child(1), clocked)
	case syntax.KindIdentExpr:
		return p.nameTarget(n, clocked)
	case syntax.KindInstancePortExpr:
		return p.instancePortTarget(n, clocked)
	case syntax.KindIndexExpr, syntax.KindRangeExpr:
		base, leaves, ok := p.targetExpr(n.Child(0), clocked)
		var e model.Expr
		if n.Kind == syntax.KindIndexExpr {
			e = p.index(base, n)
		} else {
			e = p.rangeSelect(base, n)
		}
		if !ok || e.Type().IsUnknown() {
			return model.Bad(n.Span), nil, false
		}
		return e, leaves, true
	case syntax.KindBinaryExpr:
		if n.Child(1).IsToken(token.Underscore) {
			return p.concatTarget(n, clocked)
		}
	}
	p.report(diag.SemaInvalidTarget, n.Span, "expression cannot be assigned")
	return model.Bad(n.Span), nil, false
}

func (p *processor) nameTarget(n *syntax.Node, clocked bool) (model.Expr, []leaf, bool) {
	name := n.Child(0).Text()
	d := p.defs.Lookup(name)
	if d == nil {
		p.report(diag.SemaUnresolvedSymbol, n.Span, "undefined name %s", name)
		return model.Bad(n.Span), nil, false
	}
	bad := func(code diag.Code, format string, args ...any) (model.Expr, []leaf, bool) {
		p.report(code, n.Span, format, args...)
		return model.Bad(n.Span), nil, false
	}
	switch d.Kind {
	case model.DefConstant:
		return bad(diag.SemaAssignConstant, "cannot assign to constant %s", name)
	case model.DefInstance:
		return bad(diag.SemaInvalidTarget, "cannot assign to instance %s; assign its ports", name)
	case model.DefPort:
		if d.Dir == model.In {
			return bad(diag.SemaAssignInput, "cannot assign to input port %s", name)
		}
		if clocked {
			return bad(diag.SemaMustBeContinuous, "port %s can only be assigned continuously", name)
		}
	case model.DefSignal:
		if clocked {
			return bad(diag.SemaMustBeContinuous, "signal %s can only be assigned continuously", name)
		}
	case model.DefRegister:
		if !clocked {
			return bad(diag.SemaMustBeClocked, "register %s can only be assigned in a clocked block", name)
		}
	}
	if d.Type.IsUnknown() {
		return model.Bad(n.Span), nil, false
	}
	return &model.Ref{Name: name, T: d.Type, Span: n.Span}, []leaf{{key: name, span: n.Span}}, true
}

func (p *processor) instancePortTarget(n *syntax.Node, clocked bool) (model.Expr, []leaf, bool) {
	idents := n.Tokens(token.Ident)
	if len(idents) != 2 {
		return model.Bad(n.Span), nil, false
	}
	inst, port := idents[0].Text, idents[1].Text
	pt, ok := p.lookupInstancePort(n, inst, port)
	switch {
	case !ok:
		return model.Bad(n.Span), nil, false
	case pt.Dir != model.In:
		p.report(diag.SemaInvalidTarget, n.Span, "cannot assign to output %s of instance %s", port, inst)
		return model.Bad(n.Span), nil, false
	case clocked:
		p.report(diag.SemaMustBeContinuous, n.Span, "instance port %s.%s can only be assigned continuously", inst, port)
		return model.Bad(n.Span), nil, false
	case pt.Type.IsUnknown():
		return model.Bad(n.Span), nil, false
	}
	e := &model.InstancePort{Instance: inst, Port: port, T: pt.Type, Span: n.Span}
	return e, []leaf{{key: instancePortKey(inst, port), span: n.Span}}, true
}

// concatTarget validates both sides; a failed side does not stop the
// other from being checked.
func (p *processor) concatTarget(n *syntax.Node, clocked bool) (model.Expr, []leaf, bool) {
	l, ll, lok := p.target(n.Child(0), clocked)
	r, rl, rok := p.target(n.Child(2), clocked)
	if !lok || !rok {
		return model.Bad(n.Span), nil, false
	}
	t, ok := types.BinaryResult(types.OpConcat, l.Type(), r.Type())
	if !ok {
		p.report(diag.SemaOperandType, n.Span, "cannot concatenate %s and %s", l.Type(), r.Type())
		return model.Bad(n.Span), nil, false
	}
	return &model.Binary{Op: types.OpConcat, L: l, R: r, T: t, Span: n.Span}, append(ll, rl...), true
}
