package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addSnippetSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	// добавляем хотя бы один минимальный пример на случай пустого testdata
	f.Add([]byte{})
	f.Add([]byte("module M; interface { in bit a; out bit b; } do (*) b = a;\n"))
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.mahdl файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".mahdl" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// snippetSeeds cover constructs the testdata modules do not: recovery
// paths, native modules and the rarer expression forms.
var snippetSeeds = []string{
	"native module lib.Ram;\ninterface { in bit clk; in vector[4] addr; out vector[8] q; }\n",
	"module E; interface { } constant integer N = 3; signal vector[N] v = repeat(N, 1); do (*) { }\n",
	"module C; interface { in vector[2] s; out bit y; } do (*) switch (s) { case 0, 1: y = 0; default: y = 1; }\n",
	"module R; interface { in bit a; out vector[4] b; } do (*) b = a ? 4h3 : -4d1 << 1;\n",
	"module Bad interface { in bit ; } do (*) { x = ; }\n",
	"module M; interface { out text t; } do (*) t = \"a\\\"b\";\n",
	"module ;;;; } { ) (",
}

func addSnippetSeeds(f *testing.F) {
	for _, s := range snippetSeeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
