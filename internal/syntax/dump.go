package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented textual form of the tree, one node per line.
// Used by the parse command and in tests.
func Dump(w io.Writer, n *Node) error {
	return dump(w, n, 0)
}

// DumpString is Dump into a string.
func DumpString(n *Node) string {
	var sb strings.Builder
	_ = Dump(&sb, n)
	return sb.String()
}

func dump(w io.Writer, n *Node, depth int) error {
	if n == nil {
		return nil
	}
	indent := strings.Repeat("  ", depth)
	var err error
	if n.Kind == KindToken {
		_, err = fmt.Fprintf(w, "%s%s %q\n", indent, n.Tok.Kind, n.Tok.Text)
	} else {
		_, err = fmt.Fprintf(w, "%s%s [%d..%d)\n", indent, n.Kind, n.Span.Start, n.Span.End)
	}
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Sexpr renders the tree without tokens as a compact s-expression, e.g.
// (Module (ModuleHeader (QualifiedName)) ...). Useful for structural assertions.
func Sexpr(n *Node) string {
	var sb strings.Builder
	sexpr(&sb, n)
	return sb.String()
}

func sexpr(sb *strings.Builder, n *Node) {
	if n == nil || n.Kind == KindToken {
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Kind.String())
	for _, c := range n.Children {
		if c.Kind == KindToken {
			continue
		}
		sb.WriteByte(' ')
		sexpr(sb, c)
	}
	sb.WriteByte(')')
}
