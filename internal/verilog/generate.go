package verilog

import (
	"fmt"
	"strings"

	"mahdl/internal/constant"
	"mahdl/internal/model"
	"mahdl/internal/source"
	"mahdl/internal/types"
)

// synthNet is a wire introduced for an expression that has to be an identifier.
type synthNet struct {
	name  string
	t     types.Type
	value string
	// rows is set for memory literals, which become initialized regs.
	rows *constant.Memory
}

type emitter struct {
	mod   *model.Module
	names *namer
	synth []synthNet
	err   *GenerationError
}

// Generate renders mod. Native modules have no body and yield "". A module
// that still carries Unknown types or breaks processor invariants yields a
// *GenerationError and no text.
func Generate(mod *model.Module) (string, error) {
	if mod == nil {
		return "", &GenerationError{Kind: ErrMalformed, Detail: "no module"}
	}
	if mod.Native {
		return "", nil
	}
	var declared []string
	for _, d := range mod.Defs.All() {
		declared = append(declared, d.Name)
	}
	e := &emitter{mod: mod, names: newNamer(declared)}
	text := e.emit()
	if e.err != nil {
		return "", e.err
	}
	return text, nil
}

// fail records the first error; rendering continues with placeholders.
func (e *emitter) fail(kind GenerationErrorKind, span source.Span, format string, args ...any) string {
	if e.err == nil {
		e.err = &GenerationError{Kind: kind, Module: e.mod.Name, Span: span, Detail: fmt.Sprintf(format, args...)}
	}
	return "0"
}

func (e *emitter) emit() string {
	e.checkDefinitions()
	for _, d := range e.mod.Defs.OfKind(model.DefInstance) {
		if d.Instance.Interface == nil {
			e.fail(ErrMalformed, d.Decl, "instance %s of unresolved module %s", d.Name, d.Instance.Module)
			continue
		}
		for _, p := range d.Instance.Interface.Ports {
			e.names.net(d.Name, p.Name)
		}
	}

	var assigns []string
	for _, in := range e.mod.Initializers {
		assigns = append(assigns, fmt.Sprintf("assign %s = %s;", Ident(in.Name), e.value(in.Value)))
	}
	var always strings.Builder
	for _, b := range e.mod.Blocks {
		e.alwaysBlock(&always, b)
	}
	if e.err != nil {
		return ""
	}

	var out strings.Builder
	e.header(&out)
	e.declarations(&out)
	for _, s := range e.synth {
		if s.rows == nil {
			assigns = append(assigns, fmt.Sprintf("assign %s = %s;", s.name, s.value))
		}
	}
	if len(assigns) > 0 {
		out.WriteString("\n")
		for _, a := range assigns {
			fmt.Fprintf(&out, "  %s\n", a)
		}
	}
	e.initialBlock(&out)
	out.WriteString(always.String())
	e.instances(&out)
	out.WriteString("endmodule\n")
	return out.String()
}

// checkDefinitions rejects definitions whose type never resolved.
func (e *emitter) checkDefinitions() {
	for _, d := range e.mod.Defs.All() {
		if d.Kind == model.DefInstance {
			continue
		}
		if d.Type.IsUnknown() {
			e.fail(ErrUnknownType, d.Decl, "%s %s has unknown type", d.Kind, d.Name)
			continue
		}
		if d.Kind != model.DefConstant && !d.Type.IsRuntime() {
			e.fail(ErrMalformed, d.Decl, "%s %s has compile-time type %s", d.Kind, d.Name, d.Type)
		}
		if d.Kind == model.DefConstant && d.Type.Kind == types.KindMemory {
			if _, ok := d.Value.(constant.Memory); !ok {
				e.fail(ErrUnknownType, d.Decl, "memory constant %s has no value", d.Name)
			}
		}
	}
}

func (e *emitter) header(out *strings.Builder) {
	ports := e.mod.Interface.Ports
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, Ident(p.Name))
	}
	fmt.Fprintf(out, "module %s(%s);\n", Ident(e.mod.Name), strings.Join(names, ", "))
	for _, p := range ports {
		if p.Dir == model.In {
			fmt.Fprintf(out, "  input %s%s;\n", packed(p.Type), Ident(p.Name))
		} else {
			fmt.Fprintf(out, "  output reg %s%s;\n", packed(p.Type), Ident(p.Name))
		}
	}
}

// packed returns the packed dimension of a bit or vector type followed by a
// space, or "" for bits.
func packed(t types.Type) string {
	switch t.Kind {
	case types.KindVector:
		return fmt.Sprintf("[%d:0] ", t.Size-1)
	case types.KindMemory:
		return fmt.Sprintf("[%d:0] ", t.Inner-1)
	}
	return ""
}

// unpacked returns the array dimension of a memory.
func unpacked(t types.Type) string {
	if t.Kind == types.KindMemory {
		return fmt.Sprintf(" [0:%d]", t.Size-1)
	}
	return ""
}

func (e *emitter) declarations(out *strings.Builder) {
	var lines []string
	decl := func(kind string, t types.Type, name string) {
		lines = append(lines, fmt.Sprintf("%s %s%s%s;", kind, packed(t), name, unpacked(t)))
	}
	for _, d := range e.mod.Defs.All() {
		switch d.Kind {
		case model.DefConstant:
			if d.Type.Kind == types.KindMemory {
				decl("reg", d.Type, Ident(d.Name))
			}
		case model.DefSignal:
			if d.HasInit() && d.Type.Kind != types.KindMemory {
				decl("wire", d.Type, Ident(d.Name))
			} else {
				decl("reg", d.Type, Ident(d.Name))
			}
		case model.DefRegister:
			decl("reg", d.Type, Ident(d.Name))
		}
	}
	for _, d := range e.mod.Defs.OfKind(model.DefInstance) {
		if d.Instance.Interface == nil {
			continue
		}
		for _, p := range d.Instance.Interface.Ports {
			kind := "wire"
			if p.Dir == model.In {
				kind = "reg"
			}
			decl(kind, p.Type, e.names.net(d.Name, p.Name))
		}
	}
	for _, s := range e.synth {
		if s.rows != nil {
			decl("reg", s.t, s.name)
		} else {
			decl("wire", s.t, s.name)
		}
	}
	if len(lines) == 0 {
		return
	}
	out.WriteString("\n")
	for _, l := range lines {
		fmt.Fprintf(out, "  %s\n", l)
	}
}

// initialBlock sets register initial values and fills memory constants.
func (e *emitter) initialBlock(out *strings.Builder) {
	var lines []string
	fill := func(name string, m constant.Memory) {
		for i := range m.Rows {
			lines = append(lines, fmt.Sprintf("%s[%d] = %s;", name, i, literal(m.Row(i))))
		}
	}
	for _, in := range e.mod.RegisterInits {
		v, _ := model.ConstValue(in.Value)
		if m, ok := v.(constant.Memory); ok {
			fill(Ident(in.Name), m)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s;", Ident(in.Name), e.value(in.Value)))
	}
	for _, d := range e.mod.Defs.OfKind(model.DefConstant) {
		if m, ok := d.Value.(constant.Memory); ok {
			fill(Ident(d.Name), m)
		}
	}
	for _, s := range e.synth {
		if s.rows != nil {
			fill(s.name, *s.rows)
		}
	}
	if len(lines) == 0 {
		return
	}
	out.WriteString("\n  initial begin\n")
	for _, l := range lines {
		fmt.Fprintf(out, "    %s\n", l)
	}
	out.WriteString("  end\n")
}

func (e *emitter) instances(out *strings.Builder) {
	for _, d := range e.mod.Defs.OfKind(model.DefInstance) {
		if d.Instance.Interface == nil {
			continue
		}
		conns := make([]string, 0, len(d.Instance.Interface.Ports))
		for _, p := range d.Instance.Interface.Ports {
			conns = append(conns, fmt.Sprintf(".%s(%s)", Ident(p.Name), e.names.net(d.Name, p.Name)))
		}
		fmt.Fprintf(out, "\n  %s %s(%s);\n", Ident(d.Instance.Module), Ident(d.Name), strings.Join(conns, ", "))
	}
}
