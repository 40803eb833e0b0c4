package fuzztests

import (
	"context"
	"testing"
	"time"

	"mahdl/internal/diag"
	"mahdl/internal/parser"
	"mahdl/internal/source"
	"mahdl/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsTree(f *testing.F) {
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

		bag := diag.NewBag(128)
		res := parser.ParseFile(context.Background(), file, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if res.Root == nil {
			t.Fatalf("parser returned no tree")
		}
		if err := testkit.CheckSpanInvariants(res.Root, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
// It uses a timeout to detect infinite loops that could be caused by
// malformed input or edge cases in error recovery.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// Recovery edge cases
	f.Add([]byte("module M; interface { in bit a } do (*) b = a"))  // missing semicolons
	f.Add([]byte("module M; interface { } do (*) { { { { } } } }")) // deeply nested blocks
	f.Add([]byte("module M; interface { } do (*) switch (a) { }"))  // empty switch
	f.Add([]byte("module M; interface { } do (*) x = ((((((a;"))    // unbalanced parens
	f.Add([]byte("interface { in bit a; }"))                        // no header
	f.Add([]byte("module ;;;;;;;;"))

	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = append([]byte(nil), input[:maxFuzzInput]...)
		} else {
			input = append([]byte(nil), input...)
		}

		// Create a context with timeout to detect hangs
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		// Run parser in a goroutine
		done := make(chan struct{})
		go func() {
			defer close(done)

			fs := source.NewFileSet()
			fileID := fs.AddVirtual("fuzz.mahdl", input)
			bag := diag.NewBag(128)
			_ = parser.ParseFile(ctx, fs.Get(fileID), parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()

		// Wait for completion or timeout
		select {
		case <-done:
			// Parser completed successfully
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
