package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mahdl/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new MaHDL project",
	Long: `Initialize a new MaHDL project by creating a project manifest (mahdl.toml)
and an example module (rtl/Blink.mahdl). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "project name (default: directory name)")
}

// runInit resolves the target directory, creates it when missing and writes
// the manifest and the example module there.
func runInit(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	written, err := project.Scaffold(target, name)
	if err != nil {
		if errors.Is(err, project.ErrManifestExists) {
			return fmt.Errorf("project already initialized: %w", err)
		}
		return err
	}

	rel := target
	if r, relErr := filepath.Rel(wd, target); relErr == nil {
		rel = r
	}
	fmt.Fprintf(os.Stdout, "Initialized MaHDL project in %s\n", rel)
	for _, path := range written {
		fmt.Fprintf(os.Stdout, "  - %s\n", formatPathForOutput(target, path))
	}
	return nil
}
