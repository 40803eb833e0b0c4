package constant

import (
	"fmt"
	"math/big"

	"mahdl/internal/types"
)

// MaxShift bounds shift amounts of integer shifts.
const MaxShift = 1 << 16

// Binary folds l op r. Operands must already have the types required by
// types.BinaryResult. A vector result that is negative or needs more than
// n bits is ErrDoesNotFit: folding never wraps.
func Binary(op types.BinaryOp, l, r Value) (Value, error) {
	if IsUnknown(l) || IsUnknown(r) {
		return Unknown{}, nil
	}
	switch op {
	case types.OpConcat:
		return concat(l, r)
	case types.OpShl, types.OpShr:
		return shift(op, l, r)
	case types.OpEq, types.OpNe:
		eq := Equal(l, r)
		return Bit(eq == (op == types.OpEq)), nil
	}

	if lb, ok := l.(Bit); ok {
		rb, ok := r.(Bit)
		if !ok {
			return Unknown{}, ErrIncompatible
		}
		switch op {
		case types.OpAnd:
			return lb && rb, nil
		case types.OpOr:
			return lb || rb, nil
		case types.OpXor:
			return Bit(lb != rb), nil
		}
		return Unknown{}, fmt.Errorf("%w: %s on bits", ErrIncompatible, op)
	}

	x, ok1 := ToInteger(l)
	y, ok2 := ToInteger(r)
	if !ok1 || !ok2 {
		return Unknown{}, fmt.Errorf("%w: %s %s %s", ErrIncompatible, l.Type(), op, r.Type())
	}
	switch op {
	case types.OpLt:
		return Bit(x.Cmp(y) < 0), nil
	case types.OpLe:
		return Bit(x.Cmp(y) <= 0), nil
	case types.OpGt:
		return Bit(x.Cmp(y) > 0), nil
	case types.OpGe:
		return Bit(x.Cmp(y) >= 0), nil
	}

	z := new(big.Int)
	switch op {
	case types.OpAnd:
		z.And(x, y)
	case types.OpOr:
		z.Or(x, y)
	case types.OpXor:
		z.Xor(x, y)
	case types.OpAdd:
		z.Add(x, y)
	case types.OpSub:
		z.Sub(x, y)
	case types.OpMul:
		z.Mul(x, y)
	case types.OpDiv, types.OpRem:
		if y.Sign() == 0 {
			return Unknown{}, ErrDivisionByZero
		}
		// усечение к нулю, как в Verilog
		if op == types.OpDiv {
			z.Quo(x, y)
		} else {
			z.Rem(x, y)
		}
	default:
		return Unknown{}, fmt.Errorf("%w: operator %s", ErrIncompatible, op)
	}
	if v, ok := l.(Vector); ok {
		return fitVector(v.Size, z, op)
	}
	return Integer{V: z}, nil
}

// fitVector wraps z as vector[size] or reports that the exact result of op
// does not fit.
func fitVector(size int, z *big.Int, op fmt.Stringer) (Value, error) {
	if z.Sign() < 0 || z.BitLen() > size {
		return Unknown{}, fmt.Errorf("%w: %s result %s in vector[%d]", ErrDoesNotFit, op, z, size)
	}
	return Vector{Size: size, Bits: z}, nil
}

// asBits views a bit as vector[1].
func asBits(v Value) (Vector, bool) {
	switch v := v.(type) {
	case Vector:
		return v, true
	case Bit:
		if v {
			return Vector{Size: 1, Bits: big.NewInt(1)}, true
		}
		return Vector{Size: 1, Bits: new(big.Int)}, true
	}
	return Vector{}, false
}

// concat places l in the high bits, like Verilog {l, r}.
func concat(l, r Value) (Value, error) {
	if lt, ok := l.(Text); ok {
		if rt, ok := r.(Text); ok {
			return lt + rt, nil
		}
		return Unknown{}, ErrIncompatible
	}
	lv, ok1 := asBits(l)
	rv, ok2 := asBits(r)
	if !ok1 || !ok2 {
		return Unknown{}, fmt.Errorf("%w: %s _ %s", ErrIncompatible, l.Type(), r.Type())
	}
	bits := new(big.Int).Lsh(lv.Bits, uint(rv.Size))
	return Vector{Size: lv.Size + rv.Size, Bits: bits.Or(bits, rv.Bits)}, nil
}

func shift(op types.BinaryOp, l, r Value) (Value, error) {
	amount, ok := ToInteger(r)
	if !ok {
		return Unknown{}, ErrIncompatible
	}
	if amount.Sign() < 0 {
		return Unknown{}, fmt.Errorf("%w: negative amount %s", ErrShiftRange, amount)
	}
	switch l := l.(type) {
	case Vector:
		if !amount.IsInt64() || amount.Int64() >= int64(l.Size) {
			// все биты уходят; для << это потеря значащих битов
			if op == types.OpShl && l.Bits.Sign() != 0 {
				return Unknown{}, fmt.Errorf("%w: %s << %s in %s", ErrDoesNotFit, l.Bits, amount, l.Type())
			}
			return Vector{Size: l.Size, Bits: new(big.Int)}, nil
		}
		n := uint(amount.Int64())
		if op == types.OpShl {
			return fitVector(l.Size, new(big.Int).Lsh(l.Bits, n), op)
		}
		return Vector{Size: l.Size, Bits: new(big.Int).Rsh(l.Bits, n)}, nil
	case Integer:
		if !amount.IsInt64() || amount.Int64() > MaxShift {
			return Unknown{}, fmt.Errorf("%w: %s exceeds %d", ErrShiftRange, amount, MaxShift)
		}
		n := uint(amount.Int64())
		if op == types.OpShl {
			return Integer{V: new(big.Int).Lsh(l.V, n)}, nil
		}
		return Integer{V: new(big.Int).Rsh(l.V, n)}, nil
	}
	return Unknown{}, fmt.Errorf("%w: cannot shift %s", ErrIncompatible, l.Type())
}

// Unary folds a prefix operator.
func Unary(op types.UnaryOp, x Value) (Value, error) {
	switch x := x.(type) {
	case Unknown:
		return x, nil
	case Bit:
		if op == types.OpNot {
			return !x, nil
		}
	case Vector:
		switch op {
		case types.OpNot:
			return Vector{Size: x.Size, Bits: new(big.Int).Xor(x.Bits, mask(x.Size))}, nil
		case types.OpNeg:
			return fitVector(x.Size, new(big.Int).Neg(x.Bits), op)
		case types.OpPlus:
			return x, nil
		}
	case Integer:
		switch op {
		case types.OpNeg:
			return Integer{V: new(big.Int).Neg(x.V)}, nil
		case types.OpPlus:
			return x, nil
		}
	}
	return Unknown{}, fmt.Errorf("%w: %s%s", ErrIncompatible, op, x.Type())
}

func checkIndex(i *big.Int, size int) (int, error) {
	if i.Sign() < 0 || !i.IsInt64() || i.Int64() >= int64(size) {
		return 0, fmt.Errorf("%w: %s not in [0, %d)", ErrIndexRange, i, size)
	}
	return int(i.Int64()), nil
}

// SelectIndex selects bit i of a vector or row i of a memory.
func SelectIndex(container Value, i *big.Int) (Value, error) {
	switch c := container.(type) {
	case Vector:
		idx, err := checkIndex(i, c.Size)
		if err != nil {
			return Unknown{}, err
		}
		return Bit(c.Bit(idx)), nil
	case Memory:
		idx, err := checkIndex(i, c.Outer)
		if err != nil {
			return Unknown{}, err
		}
		return c.Row(idx), nil
	case Unknown:
		return c, nil
	}
	return Unknown{}, fmt.Errorf("%w: cannot index %s", ErrIncompatible, container.Type())
}

// SelectRange selects bits from..to of a vector, from >= to.
func SelectRange(container Value, from, to *big.Int) (Value, error) {
	switch c := container.(type) {
	case Vector:
		hi, err := checkIndex(from, c.Size)
		if err != nil {
			return Unknown{}, err
		}
		lo, err := checkIndex(to, hi+1)
		if err != nil {
			return Unknown{}, err
		}
		bits := new(big.Int).Rsh(c.Bits, uint(lo))
		return NewVector(hi-lo+1, bits), nil
	case Unknown:
		return c, nil
	}
	return Unknown{}, fmt.Errorf("%w: range of %s", ErrIncompatible, container.Type())
}
