package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"mahdl/internal/diag"
	"mahdl/internal/lint"
	"mahdl/internal/observ"
	"mahdl/internal/parser"
	"mahdl/internal/project"
	"mahdl/internal/project/dag"
	"mahdl/internal/sema"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
	"mahdl/internal/trace"
	"mahdl/internal/verilog"
)

// Options configure CompileFile and CompileDir.
type Options struct {
	// MaxDiagnostics limits diagnostics per file; 0 — без лимита.
	MaxDiagnostics int
	// Jobs limits parallel file jobs; 0 — GOMAXPROCS.
	Jobs int
	// Generate runs the Verilog generator for error-free modules.
	Generate bool
	// Lint evaluates the lint policy; LintEngine nil means lint.Default().
	Lint       bool
	LintEngine *lint.Engine
	// Cache serves generated Verilog of unchanged modules; nil disables it.
	Cache *DiskCache
	// Resolver serves modules outside the compiled sources.
	Resolver sema.Resolver
	// SourceRoot anchors expected module names; defaults to the compiled
	// directory or the directory of the file.
	SourceRoot string
	// EnableTimings appends an OBS timing diagnostic per file.
	EnableTimings bool
	PhaseObserver PhaseObserver
}

// FileResult is the outcome of one file job.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag

	Root       *syntax.Node
	ModuleName string
	Sema       sema.Result // zero on a cache hit

	Verilog   string
	Generated bool // Verilog is valid; empty for native modules
	Cached    bool
	// Aborted is set when processing stopped early: the file did not load,
	// parser recovery failed, generation failed or the job was cancelled.
	// Without it the file produced diagnostics only.
	Aborted bool

	Timer *observ.Timer

	rep        *diag.CountingReporter
	dedup      *diag.DedupReporter
	expected   string
	moduleSpan source.Span
	instances  []dag.InstanceRef
}

// Errors returns the number of error diagnostics reported for the file,
// including those the bag limit dropped.
func (r *FileResult) Errors() int {
	if r == nil || r.rep == nil {
		return 0
	}
	return r.rep.Errors
}

// Duplicates counts diagnostics dropped as exact repeats.
func (r *FileResult) Duplicates() int {
	if r == nil {
		return 0
	}
	return r.dedup.Suppressed()
}

// Reporter reports further diagnostics of the file, counted by Errors.
// Repeated diagnostics at the same span are dropped.
func (r *FileResult) Reporter() diag.Reporter {
	if r.rep == nil {
		r.rep = &diag.CountingReporter{Next: diag.BagReporter{Bag: r.Bag}}
	}
	if r.dedup == nil {
		r.dedup = diag.NewDedupReporter(r.rep)
	}
	return r.dedup
}

// Result of a compilation.
type Result struct {
	Dir     string
	FileSet *source.FileSet
	Files   []*FileResult
	// Roots lists modules nobody instantiates.
	Roots []string
	Timer *observ.Timer
}

// ErrorCount sums errors over all files.
func (r *Result) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.Errors()
	}
	return n
}

// Bag merges the diagnostics of all files in file order.
func (r *Result) Bag() *diag.Bag {
	total := 0
	for _, f := range r.Files {
		total += f.Bag.Len()
	}
	out := diag.NewBag(total)
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	out.Sort()
	return out
}

// Module returns the file that declares name.
func (r *Result) Module(name string) *FileResult {
	for _, f := range r.Files {
		if f.ModuleName == name && f.Errors() == 0 {
			return f
		}
	}
	for _, f := range r.Files {
		if f.ModuleName == name {
			return f
		}
	}
	return nil
}

type compiler struct {
	opts   Options
	fs     *source.FileSet
	lint   *lint.Engine
	timer  *observ.Timer
	tracer trace.Tracer
}

func newCompiler(ctx context.Context, opts Options, fs *source.FileSet) (*compiler, error) {
	c := &compiler{
		opts:   opts,
		fs:     fs,
		lint:   opts.LintEngine,
		timer:  observ.NewTimer(),
		tracer: trace.FromContext(ctx),
	}
	if opts.Lint && c.lint == nil {
		eng, err := lint.Default()
		if err != nil {
			return nil, err
		}
		c.lint = eng
	}
	return c, nil
}

func (c *compiler) newFile(path string, id source.FileID, expected string) *FileResult {
	bag := diag.NewBag(bagLimit(c.opts.MaxDiagnostics))
	return &FileResult{
		Path:     path,
		FileID:   id,
		Bag:      bag,
		Timer:    observ.NewTimer(),
		rep:      &diag.CountingReporter{Next: diag.BagReporter{Bag: bag}},
		expected: expected,
	}
}

// CompileFile compiles one file. Instantiated modules are looked up in
// opts.Resolver first, then on disk relative to the source root.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	root := opts.SourceRoot
	if root == "" {
		root = filepath.Dir(path)
	}
	c, err := newCompiler(ctx, opts, fs)
	if err != nil {
		return nil, err
	}
	span := trace.Begin(c.tracer, trace.ScopeDriver, "compile-file", trace.ParentOf(ctx))
	ctx = trace.WithParent(ctx, span)

	r := c.newFile(path, id, ExpectedModuleName(root, path))
	res := &Result{Dir: filepath.Dir(path), FileSet: fs, Files: []*FileResult{r}, Timer: c.timer}

	err = c.parse(ctx, r)
	if err == nil {
		res.Roots = c.hierarchy([]*FileResult{r}, nil)
		resolver := chainResolver{opts.Resolver, newPathResolver(ctx, root)}
		err = c.check(ctx, r, resolver)
	}
	c.finish(r)
	span.WithExtra("errors", fmt.Sprint(r.Errors())).
		WithExtra("duplicates", fmt.Sprint(r.Duplicates())).
		End(path)
	return res, err
}

// parse runs lexer and parser and records the module shape.
func (c *compiler) parse(ctx context.Context, r *FileResult) error {
	if err := ctx.Err(); err != nil {
		r.Aborted = true
		return err
	}
	file := c.fs.Get(r.FileID)
	span := trace.Begin(c.tracer, trace.ScopeModule, "parse:"+r.Path, trace.ParentOf(ctx))
	defer span.End("")

	opts, err := parseOptions(r.Reporter(), c.opts.MaxDiagnostics)
	if err != nil {
		return err
	}
	c.opts.PhaseObserver.emit(r.Path, PhaseParse, PhaseStart, 0)
	start := time.Now()
	idx := r.Timer.Begin(PhaseParse)
	pr := parser.ParseFile(trace.WithParent(ctx, span), file, opts)
	r.Root = pr.Root
	r.Timer.End(idx, fmt.Sprintf("%d tokens", len(pr.Tokens)))

	if pr.Fatal {
		r.Aborted = true
		c.opts.PhaseObserver.emit(r.Path, PhaseParse, PhaseFailed, time.Since(start))
		return nil
	}
	r.ModuleName, r.moduleSpan, r.instances = moduleShape(pr.Root)
	c.opts.PhaseObserver.emit(r.Path, PhaseParse, PhaseEnd, time.Since(start))
	return nil
}

// hierarchy reports duplicate modules and recursive instantiation and
// returns the top-level modules. idx, when non-nil, receives the winning
// declaration of every name.
func (c *compiler) hierarchy(files []*FileResult, idx *indexResolver) []string {
	nodes := make([]dag.ModuleNode, 0, len(files))
	for i, r := range files {
		if r.Aborted || r.ModuleName == "" {
			continue
		}
		nodes = append(nodes, dag.ModuleNode{
			Name:      r.ModuleName,
			Span:      r.moduleSpan,
			Index:     i,
			Instances: r.instances,
			Reporter:  r.Reporter(),
		})
	}
	index := dag.BuildIndex(nodes)
	g, slots := dag.BuildGraph(index, nodes)
	topo := dag.ToposortKahn(g)
	dag.ReportCycles(index, slots, topo)
	if idx != nil {
		for _, slot := range slots {
			if slot.Present {
				idx.add(slot.Node.Name, files[slot.Node.Index].Root)
			}
		}
	}
	return dag.Roots(index, g)
}

// check processes the module, lints it and generates Verilog.
func (c *compiler) check(ctx context.Context, r *FileResult, resolver sema.Resolver) error {
	if r.Aborted || r.Root == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		r.Aborted = true
		return err
	}
	span := trace.Begin(c.tracer, trace.ScopeModule, "check:"+r.Path, trace.ParentOf(ctx))
	defer span.End("")

	if r.ModuleName != "" && r.expected != "" && r.ModuleName != r.expected {
		diag.ReportWarning(r.Reporter(), diag.ProjInconsistentModuleName, r.moduleSpan,
			fmt.Sprintf("module %q is declared in a file named for %q", r.ModuleName, r.expected)).Emit()
	}

	file := c.fs.Get(r.FileID)
	var key project.Digest
	useCache := c.opts.Cache != nil && c.opts.Generate && r.Errors() == 0
	if useCache {
		ifaces := make(map[string]string, len(r.instances))
		for _, inst := range r.instances {
			digest := ""
			if iface, ok := resolver.ResolveModule(inst.Module); ok {
				digest = iface.Digest()
			}
			ifaces[inst.Module] = digest
		}
		key = cacheKey(file.Hash, c.opts.Lint, ifaces)
		var payload DiskPayload
		hit, err := c.opts.Cache.Get(key, &payload)
		if err != nil {
			trace.Point(c.tracer, trace.ScopeModule, "cache-error", err.Error(), span.ID())
		}
		if hit && payload.Module == r.ModuleName {
			replayWarnings(r.Reporter(), r.FileID, payload.Warnings)
			r.Verilog = payload.Verilog
			r.Generated = true
			r.Cached = true
			trace.Point(c.tracer, trace.ScopeModule, "cache-hit", r.Path, span.ID())
			c.opts.PhaseObserver.emit(r.Path, PhaseGenerate, PhaseCached, 0)
			return nil
		}
	}
	before := r.Bag.Len()

	c.opts.PhaseObserver.emit(r.Path, PhaseCheck, PhaseStart, 0)
	start := time.Now()
	idx := r.Timer.Begin(PhaseCheck)
	res := sema.ProcessModule(r.Root, sema.Options{
		Reporter:    r.Reporter(),
		Resolver:    resolver,
		Tracer:      c.tracer,
		TraceParent: span.ID(),
	})
	r.Sema = res
	note := ""
	if res.Module != nil && res.Module.Defs != nil {
		note = fmt.Sprintf("%d definitions", res.Module.Defs.Len())
	}
	r.Timer.End(idx, note)
	c.opts.PhaseObserver.emit(r.Path, PhaseCheck, PhaseEnd, time.Since(start))

	if c.opts.Lint && c.lint != nil && r.Errors() == 0 {
		idx := r.Timer.Begin(PhaseLint)
		lspan := trace.Begin(c.tracer, trace.ScopePass, "lint", span.ID())
		n, err := c.lint.Check(ctx, res, c.fs, r.Reporter())
		lspan.WithExtra("violations", fmt.Sprint(n)).End("")
		r.Timer.End(idx, fmt.Sprintf("%d violations", n))
		if err != nil {
			return fmt.Errorf("%s: %w", r.Path, err)
		}
	}

	if !c.opts.Generate || r.Errors() > 0 || res.Module == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		r.Aborted = true
		return err
	}
	c.opts.PhaseObserver.emit(r.Path, PhaseGenerate, PhaseStart, 0)
	start = time.Now()
	idx = r.Timer.Begin(PhaseGenerate)
	gspan := trace.Begin(c.tracer, trace.ScopePass, "generate", span.ID())
	text, err := verilog.Generate(res.Module)
	gspan.End(res.Module.Name)
	r.Timer.End(idx, "")
	if err != nil {
		r.Aborted = true
		c.reportGenerationError(r, err)
		c.opts.PhaseObserver.emit(r.Path, PhaseGenerate, PhaseFailed, time.Since(start))
		return nil
	}
	r.Verilog = text
	r.Generated = true
	c.opts.PhaseObserver.emit(r.Path, PhaseGenerate, PhaseEnd, time.Since(start))

	if useCache {
		payload := &DiskPayload{
			Module:      r.ModuleName,
			Path:        r.Path,
			Verilog:     text,
			Warnings:    cacheWarnings(r.Bag.Items()[before:]),
			ContentHash: file.Hash,
		}
		if err := c.opts.Cache.Put(key, payload); err != nil {
			trace.Point(c.tracer, trace.ScopeModule, "cache-error", err.Error(), span.ID())
		}
	}
	return nil
}

func (c *compiler) reportGenerationError(r *FileResult, err error) {
	code := diag.GenMalformed
	sp := r.moduleSpan
	var ge *verilog.GenerationError
	if errors.As(err, &ge) {
		if ge.Kind == verilog.ErrUnknownType {
			code = diag.GenUnknownType
		}
		if ge.Span != (source.Span{}) {
			sp = ge.Span
		}
	}
	diag.ReportError(r.Reporter(), code, sp, err.Error()).Emit()
}

// finish folds the file timer into the compiler timer.
func (c *compiler) finish(r *FileResult) {
	c.timer.Merge(r.Timer)
	if !c.opts.EnableTimings {
		return
	}
	report := r.Timer.Report()
	appendTimingDiagnostic(r.Bag, r.FileID, timingPayload{
		Kind:    "file",
		Path:    r.Path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}

// moduleShape reads the declared name and the instantiated modules.
func moduleShape(root *syntax.Node) (name string, span source.Span, instances []dag.InstanceRef) {
	mod := root
	if mod != nil && mod.Kind != syntax.KindModule {
		mod = mod.ChildOf(syntax.KindModule)
	}
	if mod == nil {
		return "", source.Span{}, nil
	}
	if header := mod.ChildOf(syntax.KindModuleHeader); header != nil {
		if qn := header.ChildOf(syntax.KindQualifiedName); qn != nil {
			name, span = qualifiedText(qn), qn.Span
		}
	}
	for _, inst := range syntax.Find(mod, syntax.KindModuleInstance) {
		qn := inst.Child(0)
		if qn == nil || qn.Kind != syntax.KindQualifiedName {
			continue
		}
		instances = append(instances, dag.InstanceRef{Module: qualifiedText(qn), Span: qn.Span})
	}
	return name, span, instances
}

func qualifiedText(qn *syntax.Node) string {
	name := ""
	for _, c := range qn.Children {
		name += c.Text()
	}
	return name
}
