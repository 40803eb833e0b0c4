package model

import "mahdl/internal/source"

// Module is a fully processed module.
type Module struct {
	Name      string
	Native    bool
	Interface *Interface
	Defs      *Definitions

	// Initializers holds processed signal initializers in declaration order.
	Initializers []Initializer
	// RegisterInits holds constant register initial values.
	RegisterInits []Initializer
	Blocks        []*DoBlock
	Span          source.Span
}

// Initializer binds a definition to its processed initial value.
type Initializer struct {
	Name  string
	Value Expr
}

// DoBlock is one always block. Clock is nil for combinational blocks.
type DoBlock struct {
	Clock Expr
	Body  Stmt
	Span  source.Span
}

// Combinational reports whether the block is do (*).
func (b *DoBlock) Combinational() bool { return b.Clock == nil }
