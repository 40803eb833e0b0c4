package verilog

import (
	"fmt"

	"mahdl/internal/source"
)

// GenerationErrorKind classifies why a module could not be generated.
type GenerationErrorKind uint8

const (
	// ErrUnknownType means a definition or expression still has type Unknown.
	ErrUnknownType GenerationErrorKind = iota + 1
	// ErrMalformed means the module breaks an invariant the processor guarantees.
	ErrMalformed
)

func (k GenerationErrorKind) String() string {
	switch k {
	case ErrUnknownType:
		return "unknown type"
	case ErrMalformed:
		return "malformed module"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// GenerationError aborts generation of one module.
type GenerationError struct {
	Kind   GenerationErrorKind
	Module string
	Span   source.Span
	Detail string
}

func (e *GenerationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Detail == "" {
		return fmt.Sprintf("verilog: module %s: %s", e.Module, e.Kind)
	}
	return fmt.Sprintf("verilog: module %s: %s: %s", e.Module, e.Kind, e.Detail)
}
