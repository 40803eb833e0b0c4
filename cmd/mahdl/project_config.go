package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mahdl/internal/project"
)

const noManifestMessage = "no " + project.ManifestName + " found\nplease specify the sources explicitly, e.g.:\n  mahdl build path/to/rtl"

// projectConfig is the compilation target after merging the manifest and
// positional arguments.
type projectConfig struct {
	target     string
	baseDir    string
	sourceRoot string
	outDir     string
	lint       bool
	manifest   *project.Manifest
}

// resolveProjectConfig picks the target: the positional argument when given,
// otherwise the sources of the enclosing project. A manifest found above the
// target contributes the source root and defaults.
func resolveProjectConfig(cmd *cobra.Command, args []string) (projectConfig, error) {
	var cfg projectConfig
	start := "."
	if len(args) == 1 && filepath.Clean(args[0]) != "." {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return cfg, fmt.Errorf("failed to resolve %q: %w", args[0], err)
		}
		st, err := os.Stat(abs)
		if err != nil {
			return cfg, fmt.Errorf("failed to stat path: %w", err)
		}
		cfg.target = abs
		start = abs
		if !st.IsDir() {
			start = filepath.Dir(abs)
		}
	}

	manifest, found, err := project.LoadFrom(start)
	if err != nil {
		return cfg, err
	}
	if !found {
		if cfg.target == "" {
			if len(args) == 1 {
				return cfg, resolveCwdTarget(&cfg)
			}
			return cfg, errors.New(noManifestMessage)
		}
		return cfg, nil
	}

	cfg.manifest = manifest
	cfg.lint = manifest.LintEnabled
	cfg.outDir = manifest.Out
	if cfg.target == "" {
		cfg.target = manifest.Sources
	}
	if within(manifest.Sources, cfg.target) {
		cfg.sourceRoot = manifest.Sources
		cfg.baseDir = manifest.Root
	}
	if _, err := os.Stat(cfg.target); err != nil {
		return cfg, fmt.Errorf("%s: sources: %w", manifest.Path, err)
	}
	if !quietFlag(cmd) && len(args) == 0 {
		fmt.Fprintf(os.Stderr, "using %s\n", manifest.Path)
	}
	return cfg, nil
}

// resolveCwdTarget handles an explicit "." outside of any project.
func resolveCwdTarget(cfg *projectConfig) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg.target = wd
	return nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}
