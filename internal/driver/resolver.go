package driver

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"mahdl/internal/diag"
	"mahdl/internal/model"
	"mahdl/internal/parser"
	"mahdl/internal/sema"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
)

// SourceExt is the extension of MaHDL source files.
const SourceExt = ".mahdl"

// resolverEntry computes one interface at most once.
type resolverEntry struct {
	once  sync.Once
	load  func() *model.Interface
	iface *model.Interface
}

func (e *resolverEntry) get() *model.Interface {
	e.once.Do(func() {
		if e.load != nil {
			e.iface = e.load()
		}
		e.load = nil
	})
	return e.iface
}

// indexResolver serves interfaces of already parsed modules. The table is
// fixed before file jobs start; entries are filled lazily.
type indexResolver struct {
	entries map[string]*resolverEntry
}

func newIndexResolver() *indexResolver {
	return &indexResolver{entries: make(map[string]*resolverEntry)}
}

// add registers root as the declaration of name. Diagnostics of the
// declaring file are reported by its own job, collection here is silent.
func (r *indexResolver) add(name string, root *syntax.Node) {
	r.entries[name] = &resolverEntry{load: func() *model.Interface {
		return sema.CollectInterface(root, diag.NopReporter{})
	}}
}

func (r *indexResolver) ResolveModule(name string) (*model.Interface, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	iface := e.get()
	return iface, iface != nil
}

// pathResolver finds modules on disk by name: a.b.C lives in
// <root>/a/b/C.mahdl. Used when a single file is compiled.
type pathResolver struct {
	ctx  context.Context
	root string

	mu      sync.Mutex
	entries map[string]*resolverEntry
}

func newPathResolver(ctx context.Context, root string) *pathResolver {
	return &pathResolver{ctx: ctx, root: root, entries: make(map[string]*resolverEntry)}
}

func (r *pathResolver) ResolveModule(name string) (*model.Interface, bool) {
	r.mu.Lock()
	e, ok := r.entries[name]
	if !ok {
		e = &resolverEntry{load: func() *model.Interface { return r.load(name) }}
		r.entries[name] = e
	}
	r.mu.Unlock()
	iface := e.get()
	return iface, iface != nil
}

func (r *pathResolver) load(name string) *model.Interface {
	if !validModuleName(name) {
		return nil
	}
	path := filepath.Join(r.root, filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))+SourceExt)
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil
	}
	res := parser.ParseFile(r.ctx, fs.Get(id), parser.Options{})
	if res.Fatal {
		return nil
	}
	iface := sema.CollectInterface(res.Root, diag.NopReporter{})
	if iface == nil || iface.Name != name {
		return nil
	}
	return iface
}

// chainResolver asks each resolver in turn.
type chainResolver []sema.Resolver

func (c chainResolver) ResolveModule(name string) (*model.Interface, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if iface, ok := r.ResolveModule(name); ok {
			return iface, true
		}
	}
	return nil, false
}

// ExpectedModuleName derives the module name a file should declare from its
// path relative to the source root: rtl/lib/Ram.mahdl under rtl is lib.Ram.
func ExpectedModuleName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), SourceExt)
	return strings.ReplaceAll(rel, "/", ".")
}

func validModuleName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r == '/' || r == '\\' {
				return false
			}
		}
	}
	return true
}
