package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrManifestExists is returned by Scaffold when dir already has a manifest.
var ErrManifestExists = errors.New(ManifestName + " already exists")

const manifestTemplate = `[project]
name = %q
sources = "rtl"
out = "out"

[build]
jobs = 0
max_diagnostics = 100

[lint]
enabled = true
`

const exampleModule = `module Blink;
interface {
    in bit clk;
    out bit led;
}

register vector[24] counter = 0;
register bit state = 0;

do (clk) {
    counter = counter + 1;
    if (counter == 24hFFFFFF) {
        state = !state;
    }
}

do (*) {
    led = state;
}
`

// Scaffold writes mahdl.toml and an example module into dir. It returns the
// written paths.
func Scaffold(dir, name string) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
		}
		name = sanitizeName(filepath.Base(abs))
	}
	if err := os.MkdirAll(filepath.Join(dir, "rtl"), 0o755); err != nil {
		return nil, err
	}
	manifest := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(manifest); err == nil {
		return nil, fmt.Errorf("%s: %w", manifest, ErrManifestExists)
	}
	if err := os.WriteFile(manifest, fmt.Appendf(nil, manifestTemplate, name), 0o644); err != nil {
		return nil, err
	}
	written := []string{manifest}
	example := filepath.Join(dir, "rtl", "Blink.mahdl")
	if _, err := os.Stat(example); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(example, []byte(exampleModule), 0o644); err != nil {
			return written, err
		}
		written = append(written, example)
	}
	return written, nil
}

func sanitizeName(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "design"
	}
	return sb.String()
}
