package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mahdl/internal/constant"
	"mahdl/internal/source"
	"mahdl/internal/token"
)

// TokenOutput is one entry of `mahdl tokenize --format json`.
type TokenOutput struct {
	Kind     string      `json:"kind"`
	Category string      `json:"category"`
	Text     string      `json:"text,omitempty"`
	Type     string      `json:"type,omitempty"`
	Span     source.Span `json:"span"`
	Leading  []string    `json:"leading,omitempty"`
}

// TokenCategory groups a kind the way the dump shows it: keyword, ident,
// literal, operator, invalid or eof.
func TokenCategory(k token.Kind) string {
	switch {
	case k == token.EOF:
		return "eof"
	case k == token.Invalid:
		return "invalid"
	case k == token.Ident:
		return "ident"
	case k.IsKeyword():
		return "keyword"
	case k.IsOperator():
		return "operator"
	case token.Token{Kind: k}.IsLiteral():
		return "literal"
	}
	return "other"
}

// literalType names the MaHDL type a literal would evaluate to, or "" when
// the token is not a literal or does not decode. Vector widths come from the
// size prefix, so "8h1F" is vector[8].
func literalType(tok token.Token) string {
	switch tok.Kind {
	case token.IntLit:
		return "integer"
	case token.TextLit:
		return "text"
	case token.VectorLit:
		v, err := constant.ParseVector(tok.Text)
		if err != nil {
			return ""
		}
		return v.Type().String()
	}
	return ""
}

func leadingKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	out := make([]string, 0, len(tok.Leading))
	for _, tr := range tok.Leading {
		out = append(out, tr.Kind.String())
	}
	return out
}

// FormatTokensPretty печатает по строке на токен:
//
//	  3: keyword  KwInterface "interface" at 1:11-1:20 (leading: Space)
//	  7: literal  VectorLit   "8h1F" vector[8] at 2:5-2:9
//
// Вывод обрывается на первом EOF.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-8s %-12s", i+1, TokenCategory(tok.Kind), tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		if typ := literalType(tok); typ != "" {
			b.WriteString(" " + typ)
		}
		fmt.Fprintf(&b, " at %s-%s", start, end)
		if lead := leadingKinds(tok); lead != nil {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(lead, ", "))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes the same dump as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:     tok.Kind.String(),
			Category: TokenCategory(tok.Kind),
			Text:     tok.Text,
			Type:     literalType(tok),
			Span:     tok.Span,
			Leading:  leadingKinds(tok),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
