package lexer

import (
	"mahdl/internal/diag"
	"mahdl/internal/token"
)

// scanNumber группирует символы числового литерала:
//   - [0-9]+                         — IntLit
//   - [0-9]+[bodh][A-Za-z0-9]*       — VectorLit (размер, основание, цифры)
//
// Цифры вектора здесь не проверяются: это делает вычислитель констант,
// у которого есть размер и основание.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpWhile(isDec)

	b := lx.cursor.Peek()
	if !isIdentStartByte(b) || b == '_' {
		return lx.emit(token.IntLit, start)
	}

	kind := token.VectorLit
	if !isRadix(b) {
		kind = token.Invalid
	}
	lx.cursor.Bump()
	lx.cursor.BumpWhile(isAlnum)

	tok := lx.emit(kind, start)
	if kind == token.Invalid {
		lx.errLex(diag.LexBadNumber, tok.Span, "invalid vector radix, expected one of b, o, d, h")
	}
	return tok
}
