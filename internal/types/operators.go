package types

import "mahdl/internal/token"

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpOr BinaryOp = iota + 1
	OpXor
	OpAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpConcat
	OpShl
	OpShr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
)

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	OpNot UnaryOp = iota + 1
	OpNeg
	OpPlus
)

var binaryTokens = map[token.Kind]BinaryOp{
	token.Pipe: OpOr, token.Caret: OpXor, token.Amp: OpAnd,
	token.EqEq: OpEq, token.BangEq: OpNe,
	token.Lt: OpLt, token.LtEq: OpLe, token.Gt: OpGt, token.GtEq: OpGe,
	token.Underscore: OpConcat, token.Shl: OpShl, token.Shr: OpShr,
	token.Plus: OpAdd, token.Minus: OpSub, token.Star: OpMul,
	token.Slash: OpDiv, token.Percent: OpRem,
}

var binarySymbols = map[BinaryOp]string{
	OpOr: "|", OpXor: "^", OpAnd: "&", OpEq: "==", OpNe: "!=",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=", OpConcat: "_",
	OpShl: "<<", OpShr: ">>", OpAdd: "+", OpSub: "-", OpMul: "*",
	OpDiv: "/", OpRem: "%",
}

// BinaryOpOf maps an operator token to its BinaryOp.
func BinaryOpOf(k token.Kind) (BinaryOp, bool) {
	op, ok := binaryTokens[k]
	return op, ok
}

// UnaryOpOf maps a prefix operator token to its UnaryOp.
func UnaryOpOf(k token.Kind) (UnaryOp, bool) {
	switch k {
	case token.Bang:
		return OpNot, true
	case token.Minus:
		return OpNeg, true
	case token.Plus:
		return OpPlus, true
	}
	return 0, false
}

func (op BinaryOp) String() string { return binarySymbols[op] }

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	case OpPlus:
		return "+"
	}
	return "?"
}

// FamilyMask describes the operand kinds an operator accepts.
type FamilyMask uint8

const (
	FamilyBit FamilyMask = 1 << iota
	FamilyVector
	FamilyInteger
	FamilyText
)

const FamilyBits = FamilyBit | FamilyVector

func familyOf(t Type) FamilyMask {
	switch t.Kind {
	case KindBit:
		return FamilyBit
	case KindVector:
		return FamilyVector
	case KindInteger:
		return FamilyInteger
	case KindText:
		return FamilyText
	}
	return 0
}

// ResultRule derives the result type of an operator from its operands.
type ResultRule uint8

const (
	ResultLeft ResultRule = iota + 1
	ResultBit
	ResultConcat
)

// BinaryFlags annotate special handling for binary operators.
type BinaryFlags uint8

const (
	// FlagSameType requires identical operand types.
	FlagSameType BinaryFlags = 1 << iota
	// FlagImplicit allows an integer operand to adopt the other operand's type.
	FlagImplicit
)

// BinarySpec lists accepted operand families and the result rule.
type BinarySpec struct {
	Left   FamilyMask
	Right  FamilyMask
	Result ResultRule
	Flags  BinaryFlags
}

var binarySpecs = map[BinaryOp]BinarySpec{
	OpOr:     {FamilyBits | FamilyInteger, FamilyBits | FamilyInteger, ResultLeft, FlagSameType | FlagImplicit},
	OpXor:    {FamilyBits | FamilyInteger, FamilyBits | FamilyInteger, ResultLeft, FlagSameType | FlagImplicit},
	OpAnd:    {FamilyBits | FamilyInteger, FamilyBits | FamilyInteger, ResultLeft, FlagSameType | FlagImplicit},
	OpAdd:    {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultLeft, FlagSameType | FlagImplicit},
	OpSub:    {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultLeft, FlagSameType | FlagImplicit},
	OpMul:    {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultLeft, FlagSameType | FlagImplicit},
	OpDiv:    {FamilyInteger, FamilyInteger, ResultLeft, FlagSameType},
	OpRem:    {FamilyInteger, FamilyInteger, ResultLeft, FlagSameType},
	OpEq:     {FamilyBits | FamilyInteger | FamilyText, FamilyBits | FamilyInteger | FamilyText, ResultBit, FlagSameType | FlagImplicit},
	OpNe:     {FamilyBits | FamilyInteger | FamilyText, FamilyBits | FamilyInteger | FamilyText, ResultBit, FlagSameType | FlagImplicit},
	OpLt:     {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultBit, FlagSameType | FlagImplicit},
	OpLe:     {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultBit, FlagSameType | FlagImplicit},
	OpGt:     {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultBit, FlagSameType | FlagImplicit},
	OpGe:     {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultBit, FlagSameType | FlagImplicit},
	OpShl:    {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultLeft, 0},
	OpShr:    {FamilyVector | FamilyInteger, FamilyVector | FamilyInteger, ResultLeft, 0},
	OpConcat: {FamilyBits | FamilyText, FamilyBits | FamilyText, ResultConcat, 0},
}

// Spec returns the operand specification of op.
func Spec(op BinaryOp) (BinarySpec, bool) {
	s, ok := binarySpecs[op]
	return s, ok
}

// AllowsImplicit reports whether an integer operand of op is converted to
// the type of the other operand. Shifts and concatenation never convert.
func AllowsImplicit(op BinaryOp) bool {
	return binarySpecs[op].Flags&FlagImplicit != 0
}

// BinaryResult types l op r after implicit conversion. An Unknown operand
// yields Unknown and ok. ok is false when the operands are invalid for op.
func BinaryResult(op BinaryOp, l, r Type) (Type, bool) {
	if l.IsUnknown() || r.IsUnknown() {
		return Unknown(), true
	}
	spec, found := binarySpecs[op]
	if !found || familyOf(l)&spec.Left == 0 || familyOf(r)&spec.Right == 0 {
		return Unknown(), false
	}
	if spec.Flags&FlagSameType != 0 && l != r {
		return Unknown(), false
	}
	switch spec.Result {
	case ResultBit:
		return Bit(), true
	case ResultConcat:
		if l.Kind == KindText || r.Kind == KindText {
			if l.Kind == KindText && r.Kind == KindText {
				return Text(), true
			}
			return Unknown(), false
		}
		w := l.Width() + r.Width()
		if w > MaxVectorSize {
			return Unknown(), false
		}
		return Vector(w), true
	default:
		return l, true
	}
}

// UnaryResult types a prefix operator application.
func UnaryResult(op UnaryOp, x Type) (Type, bool) {
	if x.IsUnknown() {
		return Unknown(), true
	}
	switch op {
	case OpNot:
		return x, x.IsBits()
	case OpNeg, OpPlus:
		return x, x.Kind == KindVector || x.Kind == KindInteger
	}
	return Unknown(), false
}
