package verilog

import (
	"fmt"
	"strings"

	"mahdl/internal/model"
)

func (e *emitter) alwaysBlock(out *strings.Builder, b *model.DoBlock) {
	trigger := "*"
	if !b.Combinational() {
		clk := e.identifier(b.Clock)
		trigger = "posedge " + clk
	}
	fmt.Fprintf(out, "\n  always @(%s) begin\n", trigger)
	if body, ok := b.Body.(*model.Block); ok {
		e.stmts(out, body.Stmts, 2)
	} else {
		e.stmt(out, b.Body, 2)
	}
	out.WriteString("  end\n")
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

func (e *emitter) stmts(out *strings.Builder, list []model.Stmt, depth int) {
	for _, s := range list {
		e.stmt(out, s, depth)
	}
}

func (e *emitter) stmt(out *strings.Builder, s model.Stmt, depth int) {
	pad := indent(depth)
	switch s := s.(type) {
	case *model.Assign:
		fmt.Fprintf(out, "%s%s <= %s;\n", pad, e.target(s.Target), e.value(s.Value))
	case *model.Block:
		fmt.Fprintf(out, "%sbegin\n", pad)
		e.stmts(out, s.Stmts, depth+1)
		fmt.Fprintf(out, "%send\n", pad)
	case *model.If:
		fmt.Fprintf(out, "%sif (%s) begin\n", pad, e.value(s.Cond))
		e.branch(out, s.Then, depth+1)
		if s.Else != nil {
			fmt.Fprintf(out, "%send else begin\n", pad)
			e.branch(out, s.Else, depth+1)
		}
		fmt.Fprintf(out, "%send\n", pad)
	case *model.Switch:
		fmt.Fprintf(out, "%scase (%s)\n", pad, e.value(s.Selector))
		for _, c := range s.Cases {
			if len(c.Labels) == 0 {
				continue
			}
			labels := make([]string, 0, len(c.Labels))
			for _, l := range c.Labels {
				labels = append(labels, e.value(l))
			}
			fmt.Fprintf(out, "%s  %s: begin\n", pad, strings.Join(labels, ", "))
			e.stmts(out, c.Body.Stmts, depth+2)
			fmt.Fprintf(out, "%s  end\n", pad)
		}
		if s.Default != nil {
			fmt.Fprintf(out, "%s  default: begin\n", pad)
			e.stmts(out, s.Default.Stmts, depth+2)
			fmt.Fprintf(out, "%s  end\n", pad)
		}
		fmt.Fprintf(out, "%sendcase\n", pad)
	case nil:
	default:
		e.fail(ErrMalformed, s.Pos(), "unexpected statement %T", s)
	}
}

// branch writes the statements of a nested block without another begin/end.
func (e *emitter) branch(out *strings.Builder, s model.Stmt, depth int) {
	if b, ok := s.(*model.Block); ok {
		e.stmts(out, b.Stmts, depth)
		return
	}
	e.stmt(out, s, depth)
}

// target renders an assignment target. Targets are names, instance nets,
// selections of them and concatenations.
func (e *emitter) target(x model.Expr) string {
	switch x := x.(type) {
	case *model.Ref, *model.InstancePort:
		return e.value(x)
	case *model.Index:
		return fmt.Sprintf("%s[%s]", e.target(x.Base), e.amount(x.Index))
	case *model.Range:
		return fmt.Sprintf("%s[%d:%d]", e.target(x.Base), x.From, x.To)
	case *model.Binary:
		return fmt.Sprintf("{%s, %s}", e.target(x.L), e.target(x.R))
	case nil:
		return e.fail(ErrMalformed, e.mod.Span, "missing assignment target")
	}
	return e.fail(ErrMalformed, x.Pos(), "invalid assignment target %T", x)
}
