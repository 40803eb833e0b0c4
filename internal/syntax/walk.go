package syntax

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Find returns every node of the given kind in pre-order.
func Find(n *Node, kind Kind) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == kind {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Leaves returns all token leaves of the subtree in source order.
func Leaves(n *Node) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == KindToken {
			out = append(out, c)
		}
		return true
	})
	return out
}
