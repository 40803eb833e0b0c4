package syntax

import (
	"mahdl/internal/source"
	"mahdl/internal/token"
)

// Node is one vertex of the concrete syntax tree. Leaves (KindToken) carry
// the token; inner nodes own their children in source order. A tree is
// immutable once the parser returns it.
type Node struct {
	Kind     Kind
	Tok      token.Token
	Span     source.Span
	Children []*Node
}

// NewToken wraps a token into a leaf node.
func NewToken(tok token.Token) *Node {
	return &Node{Kind: KindToken, Tok: tok, Span: tok.Span}
}

// NewNode builds an inner node. Its span covers all non-empty child spans;
// with no such children the span is the empty span at pos.
func NewNode(kind Kind, pos source.Span, children []*Node) *Node {
	n := &Node{Kind: kind, Children: children, Span: pos.At()}
	first := true
	for _, c := range children {
		if c == nil || (c.Span.Empty() && c.Kind != KindToken) {
			continue
		}
		if first {
			n.Span = c.Span
			first = false
			continue
		}
		n.Span = n.Span.Cover(c.Span)
	}
	return n
}

// IsToken reports whether n is a leaf holding a token of kind k.
func (n *Node) IsToken(k token.Kind) bool {
	return n != nil && n.Kind == KindToken && n.Tok.Kind == k
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// ChildOf returns the first child of the given kind, or nil.
func (n *Node) ChildOf(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// TokenOf returns the first direct child token of kind k.
func (n *Node) TokenOf(k token.Kind) (token.Token, bool) {
	if n == nil {
		return token.Token{}, false
	}
	for _, c := range n.Children {
		if c.IsToken(k) {
			return c.Tok, true
		}
	}
	return token.Token{}, false
}

// Exprs returns the direct expression children in order.
func (n *Node) Exprs() []*Node {
	return n.filter(func(c *Node) bool { return c.Kind.IsExpr() })
}

// Items returns the non-token children. For flattened list nodes these are
// the list elements without separators.
func (n *Node) Items() []*Node {
	return n.filter(func(c *Node) bool { return c.Kind != KindToken })
}

// Tokens returns the direct token children of kind k.
func (n *Node) Tokens(k token.Kind) []token.Token {
	if n == nil {
		return nil
	}
	var out []token.Token
	for _, c := range n.Children {
		if c.IsToken(k) {
			out = append(out, c.Tok)
		}
	}
	return out
}

func (n *Node) filter(keep func(*Node) bool) []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the token text for leaves and "" otherwise.
func (n *Node) Text() string {
	if n == nil || n.Kind != KindToken {
		return ""
	}
	return n.Tok.Text
}

// HasErrors reports whether the subtree contains a recovery node.
func (n *Node) HasErrors() bool {
	found := false
	Walk(n, func(c *Node) bool {
		if c.Kind == KindError {
			found = true
		}
		return !found
	})
	return found
}
