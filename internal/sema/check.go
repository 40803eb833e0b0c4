package sema

import (
	"fmt"

	"mahdl/internal/diag"
	"mahdl/internal/model"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
	"mahdl/internal/token"
	"mahdl/internal/trace"
)

// Options configure ProcessModule.
type Options struct {
	Reporter diag.Reporter
	// Resolver serves interfaces of instantiated modules; nil resolves nothing.
	Resolver Resolver
	Tracer   trace.Tracer
	// TraceParent links the collect/process spans to the caller's span.
	TraceParent uint64
}

// Result of processing one module.
type Result struct {
	Module *model.Module
	Usage  map[string]Usage
	Errors int
}

// Usage records how a definition is used; lint consumes it.
type Usage struct {
	Read     bool
	Assigned bool
}

// ProcessModule collects definitions of the module in root, processes its
// initializers and do-blocks and checks the assignment discipline.
func ProcessModule(root *syntax.Node, opts Options) Result {
	counter := &diag.CountingReporter{Next: opts.Reporter}
	if opts.Reporter == nil {
		counter.Next = diag.NopReporter{}
	}
	p := &processor{
		checker: checker{
			rep:   counter,
			defs:  model.NewDefinitions(),
			reads: make(map[string]bool),
		},
		resolver: opts.Resolver,
		tracker:  newAssignTracker(),
	}
	if p.resolver == nil {
		p.resolver = MapResolver(nil)
	}

	span := trace.Begin(opts.Tracer, trace.ScopePass, "collect", opts.TraceParent)
	p.collect(moduleNode(root))
	span.WithExtra("definitions", fmt.Sprint(p.defs.Len())).End(p.mod.Name)

	span = trace.Begin(opts.Tracer, trace.ScopePass, "process", opts.TraceParent)
	p.process()
	span.WithExtra("blocks", fmt.Sprint(len(p.mod.Blocks))).End(p.mod.Name)

	usage := make(map[string]Usage, p.defs.Len())
	for _, d := range p.defs.All() {
		usage[d.Name] = Usage{Read: p.reads[d.Name], Assigned: p.tracker.assignedAnywhere(d.Name)}
	}
	return Result{Module: p.mod, Usage: usage, Errors: counter.Errors}
}

func moduleNode(root *syntax.Node) *syntax.Node {
	if root == nil {
		return nil
	}
	if root.Kind == syntax.KindModule {
		return root
	}
	return root.ChildOf(syntax.KindModule)
}

// headerInfo reads name and native flag from a ModuleHeader.
func headerInfo(mod *syntax.Node) (name string, native bool, span source.Span) {
	header := mod.ChildOf(syntax.KindModuleHeader)
	if header == nil {
		return "", false, mod.Span.At()
	}
	_, native = header.TokenOf(token.KwNative)
	qn := header.ChildOf(syntax.KindQualifiedName)
	if qn == nil {
		return "", native, header.Span
	}
	return qualifiedName(qn), native, qn.Span
}

func qualifiedName(qn *syntax.Node) string {
	name := ""
	for _, c := range qn.Children {
		name += c.Text()
	}
	return name
}

// checker holds what expression checking needs: the definitions collected
// so far and the reporter. With constOnly set every non-constant leaf is an
// error and the result is always a literal.
type checker struct {
	rep       diag.Reporter
	defs      *model.Definitions
	reads     map[string]bool
	constOnly bool
}

func (c *checker) report(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(c.rep, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (c *checker) constMode() *checker {
	cp := *c
	cp.constOnly = true
	return &cp
}

func (c *checker) markRead(name string) {
	if c.reads != nil {
		c.reads[name] = true
	}
}
