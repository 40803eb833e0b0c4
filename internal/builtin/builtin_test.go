package builtin

import (
	"errors"
	"math/big"
	"testing"

	"mahdl/internal/constant"
	"mahdl/internal/types"
)

func vec(size int, v int64) constant.Vector { return constant.NewVector(size, big.NewInt(v)) }

func TestLookup(t *testing.T) {
	for _, name := range []string{"zeroExtend", "signExtend", "truncate", "repeat", "rows"} {
		f, ok := Lookup(name)
		if !ok || f.String() != name {
			t.Fatalf("Lookup(%q) = %v, %v", name, f, ok)
		}
	}
	if _, ok := Lookup("extend"); ok {
		t.Fatalf("unexpected builtin")
	}
}

func TestFold(t *testing.T) {
	cases := []struct {
		f    Func
		n    int
		arg  constant.Value
		want constant.Value
	}{
		{ZeroExtend, 8, vec(4, 0xA), vec(8, 0x0A)},
		{SignExtend, 8, vec(4, 0xA), vec(8, 0xFA)},
		{SignExtend, 8, vec(4, 0x5), vec(8, 0x05)},
		{SignExtend, 3, constant.Bit(true), vec(3, 7)},
		{Truncate, 2, vec(4, 0xE), vec(2, 2)},
		{Repeat, 3, vec(2, 1), vec(6, 0x15)},
		{ZeroExtend, 4, vec(4, 3), vec(4, 3)},
	}
	for _, tc := range cases {
		got, err := Fold(tc.f, tc.n, tc.arg)
		if err != nil || !constant.Equal(got, tc.want) {
			t.Fatalf("%s(%d, %v) = %v, %v; want %v", tc.f, tc.n, tc.arg, got, err, tc.want)
		}
	}
}

func TestDomainErrors(t *testing.T) {
	bad := []struct {
		f   Func
		n   int
		arg types.Type
	}{
		{ZeroExtend, 3, types.Vector(4)},
		{Truncate, 0, types.Vector(4)},
		{Truncate, 5, types.Vector(4)},
		{Repeat, 0, types.Bit()},
		{ZeroExtend, 8, types.Integer()},
	}
	for _, tc := range bad {
		if _, err := ResultType(tc.f, tc.n, tc.arg); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s(%d, %s) should fail", tc.f, tc.n, tc.arg)
		}
	}
	if rt, err := ResultType(Truncate, 0, types.Unknown()); err != nil || !rt.IsUnknown() {
		t.Fatalf("unknown operand must absorb")
	}
}

func TestRows(t *testing.T) {
	got, err := FoldRows([]constant.Value{vec(4, 1), vec(4, 2), vec(4, 3)})
	if err != nil {
		t.Fatalf("FoldRows: %v", err)
	}
	m := got.(constant.Memory)
	if m.Type() != types.Memory(3, 4) || m.Row(2).Bits.Int64() != 3 {
		t.Fatalf("unexpected memory %v", m)
	}
	if _, err := FoldRows([]constant.Value{vec(4, 1), vec(3, 1)}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("mixed row sizes must fail")
	}
}
