package token_test

import (
	"testing"

	"mahdl/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"module":   token.KwModule,
		"native":   token.KwNative,
		"register": token.KwRegister,
		"do":       token.KwDo,
		"memory":   token.KwMemory,
		"text":     token.KwText,
	}
	for lexeme, want := range cases {
		got, ok := token.LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v,%v, want %v", lexeme, got, ok, want)
		}
	}
	// регистр важен
	for _, s := range []string{"Module", "SIGNAL", "wire", "reg", "_"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true", s)
		}
	}
}

func TestKindNamesComplete(t *testing.T) {
	seen := map[string]token.Kind{}
	for _, k := range token.Kinds() {
		name := k.String()
		if name == "" || name == "Kind(?)" {
			t.Fatalf("kind %d has no name", k)
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("kinds %d and %d share name %q", prev, k, name)
		}
		seen[name] = k
	}
}

func TestDescribe(t *testing.T) {
	if got := token.KwModule.Describe(); got != "module" {
		t.Fatalf("KwModule.Describe() = %q", got)
	}
	if got := token.Semicolon.Describe(); got != ";" {
		t.Fatalf("Semicolon.Describe() = %q", got)
	}
	if got := token.Ident.Describe(); got != "identifier" {
		t.Fatalf("Ident.Describe() = %q", got)
	}
}

func TestTokenClassifiers(t *testing.T) {
	if !(token.Token{Kind: token.VectorLit}).IsLiteral() {
		t.Fatalf("VectorLit must be a literal")
	}
	if (token.Token{Kind: token.Ident}).IsPunctOrOp() {
		t.Fatalf("Ident is not an operator")
	}
	if !(token.Token{Kind: token.Underscore}).IsPunctOrOp() {
		t.Fatalf("Underscore is the concatenation operator")
	}
	if !(token.Token{Kind: token.KwElse}).IsKeyword() {
		t.Fatalf("else is a keyword")
	}
}
