package lexer

import (
	"strconv"
	"unicode/utf8"
)

func quoteRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return strconv.QuoteRune(r)
}

// ===== Классификаторы =====

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isAlnum(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isRadix(b byte) bool {
	switch b {
	case 'b', 'o', 'd', 'h':
		return true
	}
	return false
}

// try2 пробует "съесть" 2 байта, если совпадает.
func (lx *Lexer) try2(a, b byte) bool {
	return lx.cursor.EatPair(a, b)
}
