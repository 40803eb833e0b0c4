package types

import "fmt"

// Kind enumerates the MaHDL value types.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBit
	KindVector
	KindMemory
	KindInteger
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindBit:
		return "bit"
	case KindVector:
		return "vector"
	case KindMemory:
		return "memory"
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// MaxVectorSize bounds vector widths and memory dimensions.
const MaxVectorSize = 1 << 20

// Type is a processed data type. The zero value is Unknown. Types are
// comparable, so == is structural equality.
type Type struct {
	Kind  Kind
	Size  int // vector width, memory row count
	Inner int // memory row width
}

func Unknown() Type { return Type{} }
func Bit() Type     { return Type{Kind: KindBit} }
func Integer() Type { return Type{Kind: KindInteger} }
func Text() Type    { return Type{Kind: KindText} }

// Vector returns vector[size]. Sizes must be positive.
func Vector(size int) Type {
	if size <= 0 {
		panic(fmt.Sprintf("types: invalid vector size %d", size))
	}
	return Type{Kind: KindVector, Size: size}
}

// Memory returns memory[outer][inner].
func Memory(outer, inner int) Type {
	if outer <= 0 || inner <= 0 {
		panic(fmt.Sprintf("types: invalid memory size %dx%d", outer, inner))
	}
	return Type{Kind: KindMemory, Size: outer, Inner: inner}
}

func (t Type) IsUnknown() bool { return t.Kind == KindUnknown }

// IsRuntime reports whether values of t can exist in hardware.
func (t Type) IsRuntime() bool {
	return t.Kind == KindBit || t.Kind == KindVector || t.Kind == KindMemory
}

// IsBits reports whether t is a bit or a vector.
func (t Type) IsBits() bool { return t.Kind == KindBit || t.Kind == KindVector }

// Width is the number of bits of a bit or vector value, 0 otherwise.
func (t Type) Width() int {
	switch t.Kind {
	case KindBit:
		return 1
	case KindVector:
		return t.Size
	default:
		return 0
	}
}

// Elem is the type of one selected element: bit for vectors, the row
// vector for memories.
func (t Type) Elem() Type {
	switch t.Kind {
	case KindVector:
		return Bit()
	case KindMemory:
		return Vector(t.Inner)
	default:
		return Unknown()
	}
}

func (t Type) String() string {
	switch t.Kind {
	case KindVector:
		return fmt.Sprintf("vector[%d]", t.Size)
	case KindMemory:
		return fmt.Sprintf("memory[%d][%d]", t.Size, t.Inner)
	default:
		return t.Kind.String()
	}
}

// Compatible reports whether a value of type value may be stored into
// target without conversion. Unknown is compatible with everything, its
// error has already been reported.
func Compatible(target, value Type) bool {
	if target.IsUnknown() || value.IsUnknown() {
		return true
	}
	return target == value
}

// ImplicitlyConvertible reports whether a constant of type from may be
// converted to to where to is expected: integer becomes bit or vector.
func ImplicitlyConvertible(from, to Type) bool {
	return from.Kind == KindInteger && to.IsBits()
}
