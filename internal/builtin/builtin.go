// Package builtin describes the constant-foldable functions of MaHDL.
//
// Every function except rows takes a constant integer n followed by one
// bit or vector operand. rows builds a memory constant from equally sized
// vector rows, row 0 first.
package builtin

import (
	"errors"
	"fmt"
	"math/big"

	"mahdl/internal/constant"
	"mahdl/internal/types"
)

// Func identifies a builtin function.
type Func uint8

const (
	ZeroExtend Func = iota + 1
	SignExtend
	Truncate
	Repeat
	Rows
)

var names = map[Func]string{
	ZeroExtend: "zeroExtend",
	SignExtend: "signExtend",
	Truncate:   "truncate",
	Repeat:     "repeat",
	Rows:       "rows",
}

var byName = func() map[string]Func {
	m := make(map[string]Func, len(names))
	for f, n := range names {
		m[n] = f
	}
	return m
}()

// Lookup finds a builtin by name.
func Lookup(name string) (Func, bool) {
	f, ok := byName[name]
	return f, ok
}

func (f Func) String() string { return names[f] }

// Sized reports whether the first argument is the constant size n.
func (f Func) Sized() bool { return f != Rows }

// Arity returns the fixed argument count, or -1 for variadic functions.
func (f Func) Arity() int {
	if f == Rows {
		return -1
	}
	return 2
}

// ErrInvalidArgument reports an argument outside the function's domain.
var ErrInvalidArgument = errors.New("invalid argument")

// ResultType checks n against the operand type and returns the result
// type. An Unknown operand yields Unknown without error.
func ResultType(f Func, n int, operand types.Type) (types.Type, error) {
	if operand.IsUnknown() {
		return types.Unknown(), nil
	}
	if !operand.IsBits() {
		return types.Unknown(), fmt.Errorf("%w: %s expects a bit or vector, got %s", ErrInvalidArgument, f, operand)
	}
	w := operand.Width()
	switch f {
	case ZeroExtend, SignExtend:
		if n < w || n > types.MaxVectorSize {
			return types.Unknown(), fmt.Errorf("%w: %s(%d, %s) cannot narrow", ErrInvalidArgument, f, n, operand)
		}
		return types.Vector(n), nil
	case Truncate:
		if n < 1 || n > w {
			return types.Unknown(), fmt.Errorf("%w: %s(%d, %s) needs 1 <= n <= %d", ErrInvalidArgument, f, n, operand, w)
		}
		return types.Vector(n), nil
	case Repeat:
		if n < 1 || n > types.MaxVectorSize/w {
			return types.Unknown(), fmt.Errorf("%w: %s(%d, %s) needs n >= 1", ErrInvalidArgument, f, n, operand)
		}
		return types.Vector(n * w), nil
	}
	return types.Unknown(), fmt.Errorf("%w: %s is not sized", ErrInvalidArgument, f)
}

// RowsType returns memory[len(rows)][w] when all rows are vector[w].
func RowsType(rows []types.Type) (types.Type, error) {
	if len(rows) == 0 {
		return types.Unknown(), fmt.Errorf("%w: rows needs at least one row", ErrInvalidArgument)
	}
	first := rows[0]
	for _, r := range rows {
		if r.IsUnknown() {
			return types.Unknown(), nil
		}
		if r.Kind != types.KindVector || r != first {
			return types.Unknown(), fmt.Errorf("%w: rows must be vectors of one size, got %s and %s", ErrInvalidArgument, first, r)
		}
	}
	if len(rows) > types.MaxVectorSize {
		return types.Unknown(), fmt.Errorf("%w: too many rows", ErrInvalidArgument)
	}
	return types.Memory(len(rows), first.Size), nil
}

func bitsOf(v constant.Value) (constant.Vector, bool) {
	switch v := v.(type) {
	case constant.Vector:
		return v, true
	case constant.Bit:
		if v {
			return constant.NewVector(1, big.NewInt(1)), true
		}
		return constant.NewVector(1, new(big.Int)), true
	}
	return constant.Vector{}, false
}

// Fold evaluates a sized builtin on a constant operand.
func Fold(f Func, n int, operand constant.Value) (constant.Value, error) {
	if constant.IsUnknown(operand) {
		return constant.Unknown{}, nil
	}
	rt, err := ResultType(f, n, operand.Type())
	if err != nil {
		return constant.Unknown{}, err
	}
	v, _ := bitsOf(operand)
	switch f {
	case ZeroExtend:
		return constant.NewVector(rt.Size, v.Bits), nil
	case SignExtend:
		bits := new(big.Int).Set(v.Bits)
		if v.Bit(v.Size - 1) {
			for i := v.Size; i < n; i++ {
				bits.SetBit(bits, i, 1)
			}
		}
		return constant.NewVector(rt.Size, bits), nil
	case Truncate:
		return constant.NewVector(rt.Size, v.Bits), nil
	case Repeat:
		bits := new(big.Int)
		for range n {
			bits.Lsh(bits, uint(v.Size))
			bits.Or(bits, v.Bits)
		}
		return constant.NewVector(rt.Size, bits), nil
	}
	return constant.Unknown{}, fmt.Errorf("%w: %s", ErrInvalidArgument, f)
}

// FoldRows builds a memory constant.
func FoldRows(rows []constant.Value) (constant.Value, error) {
	ts := make([]types.Type, len(rows))
	for i, r := range rows {
		ts[i] = r.Type()
	}
	rt, err := RowsType(ts)
	if err != nil || rt.IsUnknown() {
		return constant.Unknown{}, err
	}
	m := constant.Memory{Outer: rt.Size, Inner: rt.Inner, Rows: make([]*big.Int, len(rows))}
	for i, r := range rows {
		m.Rows[i] = r.(constant.Vector).Bits
	}
	return m, nil
}
