package sema

import (
	"mahdl/internal/diag"
	"mahdl/internal/syntax"
	"mahdl/internal/types"
)

// position says where a data type is written.
type position uint8

const (
	posConstant position = iota
	posRuntime
	posPort
)

// dataType resolves a type node. Sizes are constant expressions over the
// definitions collected so far. Integer and text are constant-only; ports
// cannot be memories.
func (c *checker) dataType(n *syntax.Node, pos position) types.Type {
	if n == nil {
		return types.Unknown()
	}
	var t types.Type
	switch n.Kind {
	case syntax.KindBitType:
		t = types.Bit()
	case syntax.KindIntegerType:
		t = types.Integer()
	case syntax.KindTextType:
		t = types.Text()
	case syntax.KindVectorType:
		size, ok := c.sizeConst(n.Child(2), "vector size")
		if !ok {
			return types.Unknown()
		}
		t = types.Vector(size)
	case syntax.KindMemoryType:
		outer, okOuter := c.sizeConst(n.Child(2), "memory depth")
		inner, okInner := c.sizeConst(n.Child(5), "memory width")
		if !okOuter || !okInner {
			return types.Unknown()
		}
		t = types.Memory(outer, inner)
	default:
		return types.Unknown()
	}
	switch {
	case pos != posConstant && !t.IsRuntime():
		c.report(diag.SemaDisallowedType, n.Span, "type %s is only allowed for constants", t)
		return types.Unknown()
	case pos == posPort && t.Kind == types.KindMemory:
		c.report(diag.SemaDisallowedType, n.Span, "port cannot have memory type %s", t)
		return types.Unknown()
	}
	return t
}
