package constant

import (
	"fmt"
	"math/big"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"mahdl/internal/types"
)

// ParseInteger decodes a decimal integer literal.
func ParseInteger(text string) (Integer, error) {
	v, ok := new(big.Int).SetString(text, 10)
	if !ok || strings.ContainsAny(text, "+-") {
		return Integer{}, fmt.Errorf("%w: %q", ErrMalformedLiteral, text)
	}
	return Integer{V: v}, nil
}

var radixOf = map[byte]int{'b': 2, 'o': 8, 'd': 10, 'h': 16}

// ParseVector decodes <size><radix><digits>, e.g. 8h1F. The digits must
// be valid for the radix and the value must fit in size bits.
func ParseVector(text string) (Vector, error) {
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(text) {
		return Vector{}, fmt.Errorf("%w: %q", ErrMalformedLiteral, text)
	}
	radix, ok := radixOf[text[i]]
	if !ok {
		return Vector{}, fmt.Errorf("%w: unknown radix %q in %q", ErrMalformedLiteral, text[i], text)
	}
	size, ok := new(big.Int).SetString(text[:i], 10)
	if !ok {
		return Vector{}, fmt.Errorf("%w: %q", ErrMalformedLiteral, text)
	}
	if size.Sign() == 0 {
		return Vector{}, fmt.Errorf("%w: %q", ErrZeroSize, text)
	}
	if !size.IsInt64() || size.Int64() > types.MaxVectorSize {
		return Vector{}, fmt.Errorf("%w: size of %q exceeds %d", ErrMalformedLiteral, text, types.MaxVectorSize)
	}
	n, err := safecast.Conv[int](size.Int64())
	if err != nil {
		return Vector{}, fmt.Errorf("%w: %w", ErrMalformedLiteral, err)
	}
	digits := text[i+1:]
	bits, ok := new(big.Int).SetString(digits, radix)
	if !ok || strings.ContainsAny(digits, "+-_") {
		return Vector{}, fmt.Errorf("%w: digits %q are not base %d", ErrMalformedLiteral, digits, radix)
	}
	if bits.BitLen() > n {
		return Vector{}, fmt.Errorf("%w: %s needs %d bits, have %d", ErrLiteralOverflow, text, bits.BitLen(), n)
	}
	return Vector{Size: n, Bits: bits}, nil
}

// ParseText decodes a double-quoted literal. The only escapes are \" and
// \; the decoded string is NFC-normalized.
func ParseText(text string) (Text, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", fmt.Errorf("%w: %s", ErrMalformedLiteral, text)
	}
	body := text[1 : len(text)-1]
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(body) {
			return "", ErrUnterminatedEscape
		}
		i++
		switch body[i] {
		case '"', '\\':
			sb.WriteByte(body[i])
		default:
			return "", fmt.Errorf("%w: \\%c", ErrInvalidEscape, body[i])
		}
	}
	return Text(norm.NFC.String(sb.String())), nil
}
