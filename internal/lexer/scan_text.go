package lexer

import (
	"mahdl/internal/diag"
	"mahdl/internal/token"
)

// scanText сканирует "..." целиком, вместе с кавычками.
// Escape-последовательность пропускается парой байт, чтобы \" не закрывал литерал;
// проверяет её вычислитель констант. Перевод строки внутри литерала — ошибка.
func (lx *Lexer) scanText() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.TextLit, start)
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
				continue
			}
			lx.cursor.Bump()
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedText, tok.Span, "newline in text literal")
			return tok
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedText, tok.Span, "unterminated text literal")
	return tok
}
