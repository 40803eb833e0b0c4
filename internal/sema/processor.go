package sema

import (
	"mahdl/internal/constant"
	"mahdl/internal/diag"
	"mahdl/internal/model"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
	"mahdl/internal/types"
)

// process type-checks signal initializers and do-blocks section by
// section, then reports targets that were never assigned.
func (p *processor) process() {
	for _, s := range p.sections {
		p.tracker.begin()
		if s.block != nil {
			p.doBlock(s.block)
		} else {
			p.initializers(s.signals)
		}
		p.tracker.end()
	}
	if !p.mod.Native {
		p.checkMissing()
	}
}

// initializers are continuous assignments to their signals.
func (p *processor) initializers(signals []*model.Definition) {
	for _, d := range signals {
		value := p.expr(d.InitNode)
		if d.Type.IsUnknown() {
			continue
		}
		if d.Type.Kind == types.KindMemory {
			p.report(diag.SemaWholeMemoryAssign, d.InitNode.Span, "memory signal %s cannot have an initializer", d.Name)
			continue
		}
		value = p.coerce(value, d.Type, diag.SemaTypeMismatch)
		p.record([]leaf{{key: d.Name, span: d.Decl}})
		p.mod.Initializers = append(p.mod.Initializers, model.Initializer{Name: d.Name, Value: value})
	}
}

func (p *processor) doBlock(n *syntax.Node) {
	block := &model.DoBlock{Span: n.Span}
	trigger := n.Child(2)
	if !trigger.IsToken(token.Star) {
		clock := p.expr(trigger)
		if t := clock.Type(); !t.IsUnknown() && t != types.Bit() {
			p.report(diag.SemaClockType, trigger.Span, "clock must be a bit, found %s", t)
			clock = model.Bad(trigger.Span)
		}
		block.Clock = clock
	}
	block.Body = p.stmt(n.Child(4), block.Clock != nil)
	if block.Body == nil {
		block.Body = &model.Block{Span: n.Span}
	}
	p.mod.Blocks = append(p.mod.Blocks, block)
}

// stmt returns nil for recovery nodes.
func (p *processor) stmt(n *syntax.Node, clocked bool) model.Stmt {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case syntax.KindAssignStmt:
		return p.assign(n, clocked)
	case syntax.KindIfStmt:
		s := &model.If{
			Cond: p.coerce(p.expr(n.Child(2)), types.Bit(), diag.SemaConditionType),
			Then: p.stmt(n.Child(4), clocked),
			Span: n.Span,
		}
		if s.Then == nil {
			s.Then = &model.Block{Span: n.Child(4).Span}
		}
		if n.Child(5).IsToken(token.KwElse) {
			s.Else = p.stmt(n.Child(6), clocked)
		}
		return s
	case syntax.KindSwitchStmt:
		return p.switchStmt(n, clocked)
	case syntax.KindBlockStmt:
		return p.block(n.Child(1), n, clocked)
	}
	return nil
}

func (p *processor) block(stmts, n *syntax.Node, clocked bool) *model.Block {
	b := &model.Block{Span: n.Span}
	for _, s := range stmts.Items() {
		if st := p.stmt(s, clocked); st != nil {
			b.Stmts = append(b.Stmts, st)
		}
	}
	return b
}

func (p *processor) assign(n *syntax.Node, clocked bool) model.Stmt {
	target, leaves, ok := p.target(n.Child(0), clocked)
	value := p.expr(n.Child(2))
	if ok {
		value = p.coerce(value, target.Type(), diag.SemaTypeMismatch)
		p.record(leaves)
	}
	return &model.Assign{Target: target, Value: value, Span: n.Span}
}

func (p *processor) switchStmt(n *syntax.Node, clocked bool) model.Stmt {
	sel := p.expr(n.Child(2))
	st := sel.Type()
	if !st.IsUnknown() && !st.IsBits() {
		p.report(diag.SemaSelectorType, sel.Pos(), "switch selector must be a bit or vector, found %s", st)
		st = types.Unknown()
	}
	s := &model.Switch{Selector: sel, Span: n.Span}
	type seenLabel struct {
		value constant.Value
		item  *syntax.Node
	}
	var seen []seenLabel
	var defaultItem *syntax.Node
	for _, item := range n.Child(5).Items() {
		switch item.Kind {
		case syntax.KindDefaultItem:
			if defaultItem != nil {
				diag.ReportError(p.rep, diag.SemaDuplicateDefault, item.Child(0).Span, "duplicate default branch").
					WithNote(defaultItem.Child(0).Span, "first default here").
					Emit()
				continue
			}
			defaultItem = item
			s.Default = p.block(item.Child(2), item, clocked)
		case syntax.KindCaseItem:
			c := model.Case{}
			for _, ln := range item.Child(1).Items() {
				lit := p.label(ln, st)
				if lit == nil {
					continue
				}
				dup := false
				for _, prev := range seen {
					if constant.Equal(prev.value, lit.Value) {
						diag.ReportError(p.rep, diag.SemaDuplicateCase, ln.Span, "duplicate case label "+lit.Value.String()).
							WithNote(prev.item.Span, "previous label here").
							Emit()
						dup = true
						break
					}
				}
				if !dup {
					seen = append(seen, seenLabel{value: lit.Value, item: ln})
					c.Labels = append(c.Labels, lit)
				}
			}
			c.Body = p.block(item.Child(3), item, clocked)
			s.Cases = append(s.Cases, c)
		}
	}
	return s
}

// label evaluates a case label as a constant of the selector type.
func (p *processor) label(n *syntax.Node, st types.Type) *model.Literal {
	v := p.evaluator().Evaluate(n)
	if constant.IsUnknown(v) || st.IsUnknown() {
		return nil
	}
	if v.Type() != st {
		if !types.ImplicitlyConvertible(v.Type(), st) {
			p.report(diag.SemaTypeMismatch, n.Span, "case label of type %s does not match selector %s", v.Type(), st)
			return nil
		}
		cv, err := constant.Convert(st, v)
		if err != nil {
			p.report(diag.SemaValueDoesNotFit, n.Span, "%v", err)
			return nil
		}
		v = cv
	}
	return &model.Literal{Value: v, Span: n.Span}
}

// checkMissing reports outputs, uninitialized signals and instance inputs
// that no section assigned.
func (p *processor) checkMissing() {
	for _, d := range p.defs.All() {
		if d.Kind != model.DefInstance && d.Type.IsUnknown() {
			continue
		}
		switch d.Kind {
		case model.DefPort:
			if d.Dir == model.Out && !p.tracker.assignedAnywhere(d.Name) {
				p.report(diag.SemaMissingAssignment, d.Decl, "output port %s is never assigned", d.Name)
			}
		case model.DefSignal:
			if !d.HasInit() && !p.tracker.assignedAnywhere(d.Name) {
				p.report(diag.SemaMissingAssignment, d.Decl, "signal %s is never assigned", d.Name)
			}
		case model.DefInstance:
			if d.Instance.Interface == nil {
				continue
			}
			for _, port := range d.Instance.Interface.Ports {
				if port.Dir == model.In && !p.tracker.assignedAnywhere(instancePortKey(d.Name, port.Name)) {
					p.report(diag.SemaMissingAssignment, d.Decl, "input %s of instance %s is never assigned", port.Name, d.Name)
				}
			}
		}
	}
}
