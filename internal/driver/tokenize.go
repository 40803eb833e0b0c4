package driver

import (
	"mahdl/internal/diag"
	"mahdl/internal/lexer"
	"mahdl/internal/source"
	"mahdl/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and lexes it. The token slice ends with EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(bagLimit(maxDiagnostics))
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

// bagLimit maps a user limit to a bag capacity; 0 and below mean no limit.
func bagLimit(maxDiagnostics int) int {
	if maxDiagnostics <= 0 {
		return int(^uint16(0))
	}
	return maxDiagnostics
}
