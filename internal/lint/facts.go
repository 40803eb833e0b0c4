package lint

import (
	"sort"

	"mahdl/internal/model"
	"mahdl/internal/sema"
	"mahdl/internal/source"
)

// Fact describes one definition for the policy.
type Fact struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Type     string `json:"type"`
	Line     uint32 `json:"line"`
	Read     bool   `json:"read"`
	Assigned bool   `json:"assigned"`
	HasInit  bool   `json:"has_init"`

	span source.Span
}

// Input is the policy input of one module.
type Input struct {
	Module      string `json:"module"`
	File        string `json:"file"`
	Native      bool   `json:"native"`
	Definitions []Fact `json:"definitions"`
}

// Facts extracts the policy input from a processed module. Ports are
// included so policies can reason about them, the embedded rules ignore
// them.
func Facts(res sema.Result, fs *source.FileSet) Input {
	in := Input{}
	mod := res.Module
	if mod == nil || mod.Defs == nil {
		return in
	}
	in.Module = mod.Name
	in.Native = mod.Native
	if fs != nil {
		if f := fs.Get(mod.Span.File); f != nil {
			in.File = f.Path
		}
	}
	for _, d := range mod.Defs.All() {
		u := res.Usage[d.Name]
		fact := Fact{
			Name:     d.Name,
			Kind:     d.Kind.String(),
			Read:     u.Read,
			Assigned: u.Assigned,
			HasInit:  d.HasInit() || d.Kind == model.DefConstant,
			span:     d.Decl,
		}
		switch {
		case d.Kind == model.DefInstance && d.Instance != nil:
			fact.Type = d.Instance.Module
		case !d.Type.IsUnknown():
			fact.Type = d.Type.String()
		}
		if fs != nil {
			start, _ := fs.Resolve(d.Decl)
			fact.Line = start.Line
		}
		in.Definitions = append(in.Definitions, fact)
	}
	sort.SliceStable(in.Definitions, func(i, j int) bool {
		return in.Definitions[i].span.Start < in.Definitions[j].span.Start
	})
	return in
}

func (in Input) lookup(name string) (Fact, bool) {
	for _, f := range in.Definitions {
		if f.Name == name {
			return f, true
		}
	}
	return Fact{}, false
}
