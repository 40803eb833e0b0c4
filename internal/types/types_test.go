package types

import (
	"testing"

	"mahdl/internal/token"
)

func TestStructuralEquality(t *testing.T) {
	if Vector(8) != Vector(8) || Vector(8) == Vector(4) {
		t.Fatalf("vector equality must compare sizes")
	}
	if Memory(4, 8) == Memory(8, 4) {
		t.Fatalf("memory equality must compare both dimensions")
	}
	if Unknown() != (Type{}) {
		t.Fatalf("zero Type must be Unknown")
	}
}

func TestCompatible(t *testing.T) {
	cases := []struct {
		target, value Type
		want          bool
	}{
		{Bit(), Bit(), true},
		{Vector(8), Vector(8), true},
		{Vector(8), Vector(9), false},
		{Bit(), Vector(1), false},
		{Vector(8), Unknown(), true},
		{Unknown(), Text(), true},
		{Integer(), Text(), false},
	}
	for _, tc := range cases {
		if got := Compatible(tc.target, tc.value); got != tc.want {
			t.Fatalf("Compatible(%s, %s) = %v", tc.target, tc.value, got)
		}
	}
}

func TestBinaryResult(t *testing.T) {
	cases := []struct {
		op   BinaryOp
		l, r Type
		want Type
		ok   bool
	}{
		{OpAnd, Bit(), Bit(), Bit(), true},
		{OpAnd, Vector(4), Vector(4), Vector(4), true},
		{OpAnd, Vector(4), Vector(5), Unknown(), false},
		{OpAdd, Bit(), Bit(), Unknown(), false},
		{OpAdd, Integer(), Integer(), Integer(), true},
		{OpDiv, Vector(4), Vector(4), Unknown(), false},
		{OpEq, Text(), Text(), Bit(), true},
		{OpLt, Vector(3), Vector(3), Bit(), true},
		{OpLt, Bit(), Bit(), Unknown(), false},
		{OpShl, Vector(8), Integer(), Vector(8), true},
		{OpShr, Integer(), Vector(2), Integer(), true},
		{OpConcat, Bit(), Vector(3), Vector(4), true},
		{OpConcat, Text(), Text(), Text(), true},
		{OpConcat, Text(), Bit(), Unknown(), false},
		{OpConcat, Integer(), Bit(), Unknown(), false},
	}
	for _, tc := range cases {
		got, ok := BinaryResult(tc.op, tc.l, tc.r)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s %s %s = %s, %v; want %s, %v", tc.l, tc.op, tc.r, got, ok, tc.want, tc.ok)
		}
	}
}

func TestUnknownAbsorbs(t *testing.T) {
	for op := OpOr; op <= OpRem; op++ {
		got, ok := BinaryResult(op, Unknown(), Text())
		if !ok || !got.IsUnknown() {
			t.Fatalf("%s with unknown operand must yield unknown", op)
		}
	}
	for op := OpNot; op <= OpPlus; op++ {
		if got, ok := UnaryResult(op, Unknown()); !ok || !got.IsUnknown() {
			t.Fatalf("unary %s must absorb unknown", op)
		}
	}
}

func TestUnaryResult(t *testing.T) {
	if _, ok := UnaryResult(OpNot, Integer()); ok {
		t.Fatalf("! is not defined on integers")
	}
	if got, ok := UnaryResult(OpNeg, Vector(3)); !ok || got != Vector(3) {
		t.Fatalf("-vector[3] = %s", got)
	}
	if _, ok := UnaryResult(OpNeg, Bit()); ok {
		t.Fatalf("- is not defined on bits")
	}
}

func TestOperatorTokens(t *testing.T) {
	for k, op := range binaryTokens {
		if op.String() != k.Describe() {
			t.Fatalf("%s spelled %q, token is %q", op, op.String(), k.Describe())
		}
	}
	if op, ok := UnaryOpOf(token.Bang); !ok || op != OpNot {
		t.Fatalf("! must map to OpNot")
	}
	if AllowsImplicit(OpShl) || AllowsImplicit(OpConcat) || !AllowsImplicit(OpAdd) {
		t.Fatalf("implicit conversion flags are wrong")
	}
}

func TestStringAndWidth(t *testing.T) {
	if Memory(4, 8).String() != "memory[4][8]" || Vector(3).Width() != 3 || Bit().Width() != 1 {
		t.Fatalf("unexpected formatting")
	}
	if Memory(4, 8).Elem() != Vector(8) || Vector(2).Elem() != Bit() {
		t.Fatalf("unexpected element types")
	}
}
