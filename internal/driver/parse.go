package driver

import (
	"context"

	"fortio.org/safecast"

	"mahdl/internal/diag"
	"mahdl/internal/parser"
	"mahdl/internal/source"
	"mahdl/internal/syntax"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Root    *syntax.Node
	Fatal   bool
	Bag     *diag.Bag
}

// Parse loads path and parses it; lexical and syntax diagnostics share Bag.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(bagLimit(maxDiagnostics))
	opts, err := parseOptions(diag.BagReporter{Bag: bag}, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	result := parser.ParseFile(ctx, file, opts)

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Root:    result.Root,
		Fatal:   result.Fatal,
		Bag:     bag,
	}, nil
}

func parseOptions(rep diag.Reporter, maxDiagnostics int) (parser.Options, error) {
	var maxErrors uint
	if maxDiagnostics > 0 {
		var err error
		maxErrors, err = safecast.Conv[uint](maxDiagnostics)
		if err != nil {
			return parser.Options{}, err
		}
	}
	return parser.Options{Reporter: rep, MaxErrors: maxErrors}, nil
}
