package constant

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"mahdl/internal/types"
)

func vec(size int, v int64) Vector { return NewVector(size, big.NewInt(v)) }

func TestParseVector(t *testing.T) {
	cases := []struct {
		text string
		want Vector
		err  error
	}{
		{"8h1F", vec(8, 0x1f), nil},
		{"4b1010", vec(4, 10), nil},
		{"6o77", vec(6, 63), nil},
		{"3d7", vec(3, 7), nil},
		{"3d8", Vector{}, ErrLiteralOverflow},
		{"0h0", Vector{}, ErrZeroSize},
		{"4b102", Vector{}, ErrMalformedLiteral},
		{"8hZZ", Vector{}, ErrMalformedLiteral},
		{"8h", Vector{}, ErrMalformedLiteral},
	}
	for _, tc := range cases {
		got, err := ParseVector(tc.text)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%s: got error %v, want %v", tc.text, err, tc.err)
			}
			continue
		}
		if err != nil || !Equal(got, tc.want) {
			t.Fatalf("%s: got %v, %v; want %v", tc.text, got, err, tc.want)
		}
	}
}

func TestVectorLiteralRoundTrip(t *testing.T) {
	for n := 1; n <= 10; n++ {
		for v := int64(0); v < 1<<n; v++ {
			got, err := ParseVector(fmt.Sprintf("%dh%x", n, v))
			if err != nil {
				t.Fatalf("%dh%x: %v", n, v, err)
			}
			if !Equal(got, vec(n, v)) {
				t.Fatalf("%dh%x decoded to %v", n, v, got)
			}
		}
	}
}

func TestParseText(t *testing.T) {
	got, err := ParseText(`"say \"hi\" \\ now"`)
	if err != nil || got != `say "hi" \ now` {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := ParseText(`"bad \n"`); !errors.Is(err, ErrInvalidEscape) {
		t.Fatalf("expected invalid escape, got %v", err)
	}
	// e + combining acute folds into U+00E9
	if got, _ := ParseText("\"e\u0301\""); got != "\u00e9" {
		t.Fatalf("text not NFC-normalized: %q", got)
	}
}

func TestUnterminatedEscape(t *testing.T) {
	if _, err := ParseText(`"abc\"`); !errors.Is(err, ErrUnterminatedEscape) {
		t.Fatalf("expected unterminated escape, got %v", err)
	}
}

func TestConvert(t *testing.T) {
	got, err := Convert(types.Vector(4), NewInteger(15))
	if err != nil || !Equal(got, vec(4, 15)) {
		t.Fatalf("15 -> vector[4]: %v, %v", got, err)
	}
	if _, err := Convert(types.Vector(4), NewInteger(16)); !errors.Is(err, ErrDoesNotFit) {
		t.Fatalf("16 must not fit vector[4]: %v", err)
	}
	if _, err := Convert(types.Vector(4), NewInteger(-1)); !errors.Is(err, ErrDoesNotFit) {
		t.Fatalf("negative integers must not convert: %v", err)
	}
	if got, err := Convert(types.Bit(), NewInteger(1)); err != nil || got != Bit(true) {
		t.Fatalf("1 -> bit: %v, %v", got, err)
	}
	if _, err := Convert(types.Bit(), NewInteger(2)); !errors.Is(err, ErrDoesNotFit) {
		t.Fatalf("2 must not convert to bit")
	}
	if _, err := Convert(types.Vector(8), vec(4, 1)); !errors.Is(err, ErrIncompatible) {
		t.Fatalf("vectors are never widened")
	}
	if got, err := Convert(types.Unknown(), NewInteger(3)); err != nil || !IsUnknown(got) {
		t.Fatalf("unknown target must absorb")
	}
}

func TestBinaryVector(t *testing.T) {
	cases := []struct {
		op   types.BinaryOp
		l, r Value
		want Value
	}{
		{types.OpAdd, vec(4, 14), vec(4, 1), vec(4, 15)},
		{types.OpSub, vec(4, 3), vec(4, 3), vec(4, 0)},
		{types.OpMul, vec(4, 3), vec(4, 5), vec(4, 15)},
		{types.OpAnd, vec(4, 12), vec(4, 10), vec(4, 8)},
		{types.OpShl, vec(4, 3), NewInteger(2), vec(4, 12)},
		{types.OpShl, vec(4, 0), NewInteger(9), vec(4, 0)},
		{types.OpShr, vec(4, 12), vec(2, 2), vec(4, 3)},
		{types.OpConcat, Bit(true), vec(3, 2), vec(4, 10)},
		{types.OpLt, vec(4, 2), vec(4, 3), Bit(true)},
		{types.OpEq, Text("a"), Text("a"), Bit(true)},
		{types.OpXor, Bit(true), Bit(true), Bit(false)},
		{types.OpConcat, Text("a"), Text("b"), Text("ab")},
	}
	for _, tc := range cases {
		got, err := Binary(tc.op, tc.l, tc.r)
		if err != nil || !Equal(got, tc.want) {
			t.Fatalf("%v %s %v = %v, %v; want %v", tc.l, tc.op, tc.r, got, err, tc.want)
		}
	}
}

func TestBinaryVectorOverflow(t *testing.T) {
	cases := []struct {
		op   types.BinaryOp
		l, r Value
	}{
		{types.OpAdd, vec(8, 0xff), vec(8, 1)},
		{types.OpSub, vec(8, 0), vec(8, 1)},
		{types.OpMul, vec(4, 5), vec(4, 5)},
		{types.OpShl, vec(4, 8), NewInteger(1)},
		{types.OpShl, vec(4, 3), NewInteger(3)},
		{types.OpShl, vec(4, 3), NewInteger(9)},
	}
	for _, tc := range cases {
		got, err := Binary(tc.op, tc.l, tc.r)
		if !errors.Is(err, ErrDoesNotFit) {
			t.Fatalf("%v %s %v = %v, %v; want ErrDoesNotFit", tc.l, tc.op, tc.r, got, err)
		}
	}
}

func TestBinaryIntegerErrors(t *testing.T) {
	if _, err := Binary(types.OpDiv, NewInteger(1), NewInteger(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if _, err := Binary(types.OpRem, NewInteger(1), NewInteger(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if _, err := Binary(types.OpShl, NewInteger(1), NewInteger(MaxShift+1)); !errors.Is(err, ErrShiftRange) {
		t.Fatalf("expected shift range error, got %v", err)
	}
	got, err := Binary(types.OpDiv, NewInteger(-7), NewInteger(2))
	if err != nil || !Equal(got, NewInteger(-3)) {
		t.Fatalf("-7 / 2 = %v, want -3", got)
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	got, _ = Binary(types.OpAdd, Integer{V: huge}, NewInteger(1))
	if got.(Integer).V.BitLen() != 201 {
		t.Fatalf("integers must not wrap")
	}
}

func TestUnary(t *testing.T) {
	if got, _ := Unary(types.OpNot, vec(4, 5)); !Equal(got, vec(4, 10)) {
		t.Fatalf("!4h5 = %v", got)
	}
	if _, err := Unary(types.OpNeg, vec(4, 1)); !errors.Is(err, ErrDoesNotFit) {
		t.Fatalf("-4h1 must not fit, got %v", err)
	}
	if got, err := Unary(types.OpNeg, vec(4, 0)); err != nil || !Equal(got, vec(4, 0)) {
		t.Fatalf("-4h0 = %v, %v", got, err)
	}
	if got, _ := Unary(types.OpNeg, NewInteger(3)); !Equal(got, NewInteger(-3)) {
		t.Fatalf("-3 = %v", got)
	}
	if got, err := Unary(types.OpNeg, Unknown{}); err != nil || !IsUnknown(got) {
		t.Fatalf("unknown must absorb")
	}
}

func TestSelect(t *testing.T) {
	v := vec(8, 0xA5)
	if got, _ := SelectIndex(v, big.NewInt(0)); got != Bit(true) {
		t.Fatalf("bit 0 of 8hA5 = %v", got)
	}
	if _, err := SelectIndex(v, big.NewInt(8)); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("index 8 must be out of range")
	}
	if _, err := SelectIndex(v, big.NewInt(-1)); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("negative index must be out of range")
	}
	if got, _ := SelectRange(v, big.NewInt(7), big.NewInt(4)); !Equal(got, vec(4, 0xA)) {
		t.Fatalf("8hA5[7:4] = %v", got)
	}
	if _, err := SelectRange(v, big.NewInt(3), big.NewInt(4)); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("from < to must fail")
	}
	m := Memory{Outer: 2, Inner: 4, Rows: []*big.Int{big.NewInt(1), big.NewInt(2)}}
	if got, _ := SelectIndex(m, big.NewInt(1)); !Equal(got, vec(4, 2)) {
		t.Fatalf("memory row 1 = %v", got)
	}
}

func TestToBoolAndInteger(t *testing.T) {
	if b, ok := ToBool(NewInteger(1)); !ok || !b {
		t.Fatalf("integer 1 must be true")
	}
	if _, ok := ToBool(NewInteger(2)); ok {
		t.Fatalf("integer 2 is not a boolean")
	}
	if _, ok := ToInteger(Text("x")); ok {
		t.Fatalf("text is not an integer")
	}
}
