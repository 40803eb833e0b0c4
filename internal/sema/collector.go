package sema

import (
	"errors"

	"mahdl/internal/constant"
	"mahdl/internal/diag"
	"mahdl/internal/model"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
	"mahdl/internal/types"
)

// processor runs collection and processing of one module.
type processor struct {
	checker
	resolver Resolver
	tracker  *assignTracker
	mod      *model.Module
	sections []section
}

// section is one top-level do-block or one declaration group whose
// signals carry initializers.
type section struct {
	signals []*model.Definition
	block   *syntax.Node
}

// collect fills p.mod with the interface and definitions of mod. Constant
// initializers are evaluated as they are met, so each one sees only the
// constants declared before it.
func (p *processor) collect(mod *syntax.Node) {
	p.mod = &model.Module{Defs: p.defs}
	if mod == nil {
		p.mod.Interface = &model.Interface{}
		return
	}
	p.mod.Span = mod.Span
	p.mod.Name, p.mod.Native, _ = headerInfo(mod)
	p.mod.Interface = p.collectInterface(mod)

	items := mod.ChildOf(syntax.KindImplItems)
	for _, item := range items.Items() {
		if item.Kind == syntax.KindError {
			continue
		}
		if p.mod.Native {
			p.report(diag.SemaNativeImplementation, item.Span, "native module %s cannot have an implementation", p.mod.Name)
			continue
		}
		switch item.Kind {
		case syntax.KindSignalLikeGroup:
			p.collectGroup(item)
		case syntax.KindModuleInstance:
			p.collectInstance(item)
		case syntax.KindDoBlock:
			p.sections = append(p.sections, section{block: item})
		}
	}
}

// collectInterface declares the ports of mod.
func (c *checker) collectInterface(mod *syntax.Node) *model.Interface {
	name, native, span := headerInfo(mod)
	iface := &model.Interface{Name: name, Native: native, Span: span}
	groups := mod.ChildOf(syntax.KindInterface).ChildOf(syntax.KindPortGroups)
	for _, g := range groups.Items() {
		if g.Kind != syntax.KindPortGroup {
			continue
		}
		dir := model.In
		if g.Child(0).IsToken(token.KwOut) {
			dir = model.Out
		}
		t := c.dataType(g.Child(1), posPort)
		for _, id := range g.Child(2).Tokens(token.Ident) {
			d := &model.Definition{Name: id.Text, Kind: model.DefPort, Type: t, Dir: dir, Decl: id.Span, Node: g}
			if c.declare(d) {
				iface.Ports = append(iface.Ports, model.Port{Name: id.Text, Dir: dir, Type: t, Span: id.Span})
			}
		}
	}
	return iface
}

// declare adds d, reporting a redeclaration.
func (c *checker) declare(d *model.Definition) bool {
	prev, ok := c.defs.Add(d)
	if !ok {
		diag.ReportError(c.rep, diag.SemaRedeclaration, d.Decl, d.Name+" redeclared").
			WithNote(prev.Decl, "previous declaration of "+d.Name).
			Emit()
	}
	return ok
}

func (p *processor) collectGroup(group *syntax.Node) {
	var kind model.DefKind
	pos := posRuntime
	switch {
	case group.Child(0).IsToken(token.KwConstant):
		kind, pos = model.DefConstant, posConstant
	case group.Child(0).IsToken(token.KwSignal):
		kind = model.DefSignal
	default:
		kind = model.DefRegister
	}
	t := p.dataType(group.Child(1), pos)

	var initialized []*model.Definition
	for _, def := range group.Child(2).Items() {
		id := def.Child(0)
		if id == nil || def.Kind != syntax.KindDefinition {
			continue
		}
		init := def.Child(2)
		d := &model.Definition{Name: id.Text(), Kind: kind, Type: t, Decl: id.Span, Node: group}
		switch kind {
		case model.DefConstant:
			if init == nil {
				p.report(diag.SemaConstantRequired, id.Span, "constant %s needs a value", d.Name)
				d.Value = constant.Unknown{}
				break
			}
			d.Value = p.initValue(t, init)
		case model.DefSignal:
			d.InitNode = init
		case model.DefRegister:
			d.InitNode = init
		}
		var regInit constant.Value
		if kind == model.DefRegister && init != nil {
			regInit = p.initValue(t, init)
		}
		if !p.declare(d) || init == nil {
			continue
		}
		switch {
		case kind == model.DefSignal:
			initialized = append(initialized, d)
		case kind == model.DefRegister && !constant.IsUnknown(regInit):
			// только объявленный регистр получает initial
			p.mod.RegisterInits = append(p.mod.RegisterInits, model.Initializer{
				Name:  d.Name,
				Value: &model.Literal{Value: regInit, Span: init.Span},
			})
		}
	}
	if len(initialized) > 0 {
		p.sections = append(p.sections, section{signals: initialized})
	}
}

// initValue evaluates init and converts it to t.
func (c *checker) initValue(t types.Type, init *syntax.Node) constant.Value {
	v := c.evaluator().Evaluate(init)
	if t.IsUnknown() || constant.IsUnknown(v) {
		return constant.Unknown{}
	}
	cv, err := constant.Convert(t, v)
	if err != nil {
		code := diag.SemaTypeMismatch
		if errors.Is(err, constant.ErrDoesNotFit) {
			code = diag.SemaValueDoesNotFit
		}
		c.report(code, init.Span, "%v", err)
		return constant.Unknown{}
	}
	return cv
}

func (p *processor) collectInstance(item *syntax.Node) {
	qn := item.ChildOf(syntax.KindQualifiedName)
	id := item.Child(1)
	if qn == nil || id == nil {
		return
	}
	name := qualifiedName(qn)
	iface, ok := p.resolver.ResolveModule(name)
	if !ok {
		p.report(diag.SemaUnresolvedModule, qn.Span, "module %s not found", name)
		iface = nil
	}
	p.declare(&model.Definition{
		Name:     id.Text(),
		Kind:     model.DefInstance,
		Instance: &model.Instance{Module: name, Interface: iface},
		Decl:     id.Span,
		Node:     item,
	})
}

// CollectInterface returns the name and ports of the module in root.
// Port diagnostics go to rep.
func CollectInterface(root *syntax.Node, rep diag.Reporter) *model.Interface {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	mod := moduleNode(root)
	if mod == nil {
		return &model.Interface{}
	}
	c := &checker{rep: rep, defs: model.NewDefinitions()}
	return c.collectInterface(mod)
}
