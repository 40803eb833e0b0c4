package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mahdl/internal/source"
	"mahdl/internal/syntax"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) every span points into sf and ends within its content
// 2) every child span is contained in its parent span
// 3) non-empty sibling spans appear in source order and do not overlap
// 4) token leaves carry the text of their span
func CheckSpanInvariants(root *syntax.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	return checkNode(root, sf, lenContent)
}

func checkNode(n *syntax.Node, sf *source.File, lenContent uint32) error {
	sp := n.Span
	if sp.File != sf.ID {
		return fmt.Errorf("%s span points to different file id: got=%d want=%d", n.Kind, sp.File, sf.ID)
	}
	if sp.End < sp.Start || sp.End > lenContent {
		return fmt.Errorf("%s span %v is outside content [0,%d)", n.Kind, sp, lenContent)
	}
	if n.Kind == syntax.KindToken {
		if n.Tok.Span != sp {
			return fmt.Errorf("token span %v differs from node span %v", n.Tok.Span, sp)
		}
		if text := sf.Text(sp); n.Tok.Text != "" && n.Tok.Text != text {
			return fmt.Errorf("token %s text %q does not match source %q at %v", n.Tok.Kind, n.Tok.Text, text, sp)
		}
		return nil
	}

	var prev *syntax.Node
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if err := checkNode(c, sf, lenContent); err != nil {
			return err
		}
		// пустые узлы (пустые списки, восстановление) не участвуют
		if c.Span.Empty() && c.Kind != syntax.KindToken {
			continue
		}
		if !sp.Contains(c.Span) {
			return fmt.Errorf("%s span %v is outside parent %s span %v", c.Kind, c.Span, n.Kind, sp)
		}
		if prev != nil && c.Span.Start < prev.Span.End {
			return fmt.Errorf("%s span %v overlaps previous sibling %s span %v", c.Kind, c.Span, prev.Kind, prev.Span)
		}
		prev = c
	}
	return nil
}
