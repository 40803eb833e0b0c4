package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults used when mahdl.toml omits a key.
const (
	DefaultSources        = "."
	DefaultOut            = "out"
	DefaultMaxDiagnostics = 100
)

var (
	// ErrProjectSectionMissing indicates that [project] is missing.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrProjectNameMissing indicates that [project].name is missing.
	ErrProjectNameMissing = errors.New("missing [project].name")
)

// Manifest is a decoded mahdl.toml. Paths are absolute after Load.
type Manifest struct {
	Path string
	Root string

	Name    string
	Sources string
	Out     string

	Jobs           int
	MaxDiagnostics int // 0 — без лимита

	LintEnabled bool

	defined map[string]bool
}

type manifestFile struct {
	Project struct {
		Name    string `toml:"name"`
		Sources string `toml:"sources"`
		Out     string `toml:"out"`
	} `toml:"project"`
	Build struct {
		Jobs           int `toml:"jobs"`
		MaxDiagnostics int `toml:"max_diagnostics"`
	} `toml:"build"`
	Lint struct {
		Enabled bool `toml:"enabled"`
	} `toml:"lint"`
}

// Load parses and validates a mahdl.toml.
func Load(path string) (*Manifest, error) {
	var raw map[string]any
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	if !meta.IsDefined("project", "name") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	// схема раньше структуры: так ошибки типов приходят с путём ключа
	if err := ValidateManifest(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var cfg manifestFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	root := filepath.Dir(path)
	m := &Manifest{
		Path:           path,
		Root:           root,
		Name:           cfg.Project.Name,
		Sources:        resolve(root, cfg.Project.Sources, DefaultSources),
		Out:            resolve(root, cfg.Project.Out, DefaultOut),
		Jobs:           cfg.Build.Jobs,
		MaxDiagnostics: DefaultMaxDiagnostics,
		LintEnabled:    cfg.Lint.Enabled,
		defined:        make(map[string]bool),
	}
	if meta.IsDefined("build", "max_diagnostics") {
		m.MaxDiagnostics = cfg.Build.MaxDiagnostics
	}
	for _, key := range meta.Keys() {
		m.defined[key.String()] = true
	}
	return m, nil
}

// LoadFrom finds mahdl.toml above startDir and loads it. ok is false when
// there is no manifest.
func LoadFrom(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Defined reports whether the manifest sets the dotted key, e.g. "build.jobs".
// CLI flags use it to decide who wins.
func (m *Manifest) Defined(key string) bool {
	return m != nil && m.defined[key]
}

func resolve(root, p, def string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
