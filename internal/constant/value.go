package constant

import (
	"fmt"
	"math/big"
	"strings"

	"mahdl/internal/types"
)

// Value is one of Bit, Vector, Memory, Integer, Text or Unknown.
type Value interface {
	Type() types.Type
	String() string
	value()
}

type (
	// Bit is a single bit.
	Bit bool

	// Vector is a fixed-width bit string.
	Vector struct {
		Size int
		Bits *big.Int
	}

	// Memory is a list of equally sized rows, row 0 first.
	Memory struct {
		Outer int
		Inner int
		Rows  []*big.Int
	}

	// Integer is an arbitrary-precision compile-time integer.
	Integer struct{ V *big.Int }

	// Text is an NFC-normalized string.
	Text string

	// Unknown marks a value whose computation already failed.
	Unknown struct{}
)

func (Bit) value()     {}
func (Vector) value()  {}
func (Memory) value()  {}
func (Integer) value() {}
func (Text) value()    {}
func (Unknown) value() {}

func (Bit) Type() types.Type       { return types.Bit() }
func (v Vector) Type() types.Type  { return types.Vector(v.Size) }
func (m Memory) Type() types.Type  { return types.Memory(m.Outer, m.Inner) }
func (Integer) Type() types.Type   { return types.Integer() }
func (Text) Type() types.Type      { return types.Text() }
func (Unknown) Type() types.Type   { return types.Unknown() }
func (Unknown) String() string     { return "unknown" }
func (i Integer) String() string   { return i.V.String() }
func (t Text) String() string      { return fmt.Sprintf("%q", string(t)) }
func (v Vector) String() string    { return fmt.Sprintf("%dh%s", v.Size, v.Bits.Text(16)) }
func (b Bit) String() string {
	if b {
		return "1"
	}
	return "0"
}

func (m Memory) String() string {
	parts := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		parts[i] = fmt.Sprintf("%dh%s", m.Inner, r.Text(16))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// NewVector masks bits to size and returns the vector.
func NewVector(size int, bits *big.Int) Vector {
	return Vector{Size: size, Bits: truncate(bits, size)}
}

// NewInteger wraps an int64.
func NewInteger(v int64) Integer { return Integer{V: big.NewInt(v)} }

// Row returns the i-th memory row as a vector.
func (m Memory) Row(i int) Vector { return Vector{Size: m.Inner, Bits: m.Rows[i]} }

// Bit returns bit i of the vector, counted from the least significant bit.
func (v Vector) Bit(i int) bool { return v.Bits.Bit(i) == 1 }

// IsUnknown reports whether v is nil or Unknown.
func IsUnknown(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Unknown)
	return ok
}

// ToInteger converts bits, vectors and integers to an integer. Vectors are
// read as unsigned. ok is false for everything else.
func ToInteger(v Value) (*big.Int, bool) {
	switch v := v.(type) {
	case Integer:
		return v.V, true
	case Vector:
		return v.Bits, true
	case Bit:
		if v {
			return big.NewInt(1), true
		}
		return new(big.Int), true
	}
	return nil, false
}

// ToBool converts a bit, a vector[1] or an integer 0/1 to a boolean.
func ToBool(v Value) (bool, bool) {
	switch v := v.(type) {
	case Bit:
		return bool(v), true
	case Vector:
		if v.Size == 1 {
			return v.Bit(0), true
		}
	case Integer:
		if v.V.Sign() == 0 || v.V.Cmp(bigOne) == 0 {
			return v.V.Sign() != 0, true
		}
	}
	return false, false
}

// Equal compares two values structurally. Unknown equals nothing.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Bit:
		b, ok := b.(Bit)
		return ok && a == b
	case Vector:
		b, ok := b.(Vector)
		return ok && a.Size == b.Size && a.Bits.Cmp(b.Bits) == 0
	case Memory:
		b, ok := b.(Memory)
		if !ok || a.Outer != b.Outer || a.Inner != b.Inner {
			return false
		}
		for i := range a.Rows {
			if a.Rows[i].Cmp(b.Rows[i]) != 0 {
				return false
			}
		}
		return true
	case Integer:
		b, ok := b.(Integer)
		return ok && a.V.Cmp(b.V) == 0
	case Text:
		b, ok := b.(Text)
		return ok && a == b
	}
	return false
}

var bigOne = big.NewInt(1)

func mask(size int) *big.Int {
	m := new(big.Int).Lsh(bigOne, uint(size))
	return m.Sub(m, bigOne)
}

func truncate(x *big.Int, size int) *big.Int {
	return new(big.Int).And(x, mask(size))
}
