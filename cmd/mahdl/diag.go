package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mahdl/internal/buildpipeline"
	"mahdl/internal/diag"
	"mahdl/internal/diagfmt"
	"mahdl/internal/driver"
	"mahdl/internal/version"
)

var errDiagnosticsFound = errors.New("diagnostics reported errors")

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.mahdl|directory]",
	Short: "Run diagnostics on a MaHDL source file or directory",
	Long: `Run diagnostics to find syntax, semantic and project issues in MaHDL
source files. Without an argument the sources of the enclosing mahdl.toml
project are checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagnose,
}

// init registers CLI flags for the diag command used by runDiagnose.
func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|golden|json|sarif)")
	diagCmd.Flags().Bool("lint", false, "evaluate lint rules")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Bool("disk-cache", false, "reuse cached results of unchanged modules")
}

// runDiagnose checks the target, prints diagnostics in the chosen format and
// fails when any error was reported.
func runDiagnose(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	lintFlag, err := cmd.Flags().GetBool("lint")
	if err != nil {
		return fmt.Errorf("failed to get lint flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	switch format {
	case "pretty", "short", "golden", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	cfg, err := resolveProjectConfig(cmd, args)
	if err != nil {
		return err
	}
	req := buildpipeline.CompileRequest{
		TargetPath:            cfg.target,
		BaseDir:               cfg.baseDir,
		SourceRoot:            cfg.sourceRoot,
		MaxDiagnostics:        maxDiagnostics,
		Jobs:                  jobs,
		Lint:                  lintFlag || cfg.lint,
		EnableTimings:         showTimings,
		AllowDiagnosticsError: true,
	}
	if cfg.manifest != nil {
		if !cmd.Root().PersistentFlags().Changed("max-diagnostics") && cfg.manifest.Defined("build.max_diagnostics") {
			req.MaxDiagnostics = cfg.manifest.MaxDiagnostics
		}
		if !cmd.Flags().Changed("jobs") && cfg.manifest.Defined("build.jobs") {
			req.Jobs = cfg.manifest.Jobs
		}
	}
	if diskCache {
		req.Cache, err = driver.OpenDiskCache("mahdl")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	res, err := buildpipeline.Compile(cmd.Context(), &req)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	result := res.Result
	bag := result.Bag()

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch format {
	case "pretty":
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stdout, bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "short":
		diagfmt.Short(os.Stdout, bag, result.FileSet, pathMode)
	case "golden":
		// стабильный порядок для сравнения с эталонами
		mode := "relative"
		if fullPath {
			mode = "absolute"
		}
		if out := diag.FormatShortDiagnostics(bag.Items(), result.FileSet, withNotes, mode); out != "" {
			_, err = fmt.Fprintln(os.Stdout, out)
		}
	case "json":
		err = diagfmt.JSON(os.Stdout, bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
	case "sarif":
		err = diagfmt.Sarif(os.Stdout, bag, result.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "mahdl",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	}
	if err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if showTimings {
		printStageTimings(os.Stderr, res.Timings, false)
	}
	if n := result.ErrorCount(); n > 0 {
		return fmt.Errorf("%s: %d error(s): %w", filepath.Base(cfg.target), n, errDiagnosticsFound)
	}
	return nil
}
