package constant

import "errors"

var (
	ErrIncompatible       = errors.New("incompatible types")
	ErrDoesNotFit         = errors.New("value does not fit")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrShiftRange         = errors.New("shift amount out of range")
	ErrIndexRange         = errors.New("index out of range")
	ErrMalformedLiteral   = errors.New("malformed literal")
	ErrZeroSize           = errors.New("vector size must be positive")
	ErrLiteralOverflow    = errors.New("literal does not fit its size")
	ErrInvalidEscape      = errors.New("unsupported escape sequence")
	ErrUnterminatedEscape = errors.New("unterminated escape sequence")
)
