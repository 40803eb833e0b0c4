package fuzztests

import (
	"testing"

	"mahdl/internal/diag"
	"mahdl/internal/lexer"
	"mahdl/internal/source"
	"mahdl/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = append([]byte(nil), input[:maxFuzzInput]...)
		} else {
			input = append([]byte(nil), input...)
		}

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.mahdl", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		reporter := diag.BagReporter{Bag: bag}
		lx := lexer.New(file, lexer.Options{Reporter: reporter})
		var last uint32
		for {
			tok := lx.Next()
			if tok.Span.Start < last || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %s span %v goes backwards (last end %d)", tok.Kind, tok.Span, last)
			}
			last = tok.Span.End
			if tok.Kind == token.EOF {
				break
			}
		}
	})
}
