// Package token defines lexical token kinds and trivia for the MaHDL compiler.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Keywords are lowercase and case-sensitive; everything else that looks
//     like a word is an Ident.
//   - A lone '_' is the concatenation operator (Underscore), never an Ident.
//   - Comments and whitespace are leading Trivia of the following token and
//     never appear in the main token stream.
package token
