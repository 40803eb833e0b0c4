package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mahdl/internal/buildpipeline"
	"mahdl/internal/diagfmt"
	"mahdl/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Translate MaHDL modules to Verilog",
	Long: `Build checks MaHDL sources and writes one Verilog file per generated
module. Without [path] the sources of the enclosing mahdl.toml are built.`,
	Args: cobra.MaximumNArgs(1),
	RunE: buildExecution,
}

func init() {
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().StringP("out", "o", "", "output directory (default: [project].out or ./out)")
	buildCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	buildCmd.Flags().Bool("lint", false, "evaluate lint rules")
	buildCmd.Flags().Bool("no-cache", false, "disable the persistent Verilog cache")
	buildCmd.Flags().Bool("clean-cache", false, "drop the persistent cache before building")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	outFlag, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	lintFlag, err := cmd.Flags().GetBool("lint")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	cleanCache, err := cmd.Flags().GetBool("clean-cache")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	cfg, err := resolveProjectConfig(cmd, args)
	if err != nil {
		return err
	}

	compileReq := buildpipeline.CompileRequest{
		TargetPath:     cfg.target,
		BaseDir:        cfg.baseDir,
		SourceRoot:     cfg.sourceRoot,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Lint:           lintFlag || cfg.lint,
		EnableTimings:  showTimings,
	}
	// флаги сильнее манифеста
	if m := cfg.manifest; m != nil {
		if !cmd.Root().PersistentFlags().Changed("max-diagnostics") && m.Defined("build.max_diagnostics") {
			compileReq.MaxDiagnostics = m.MaxDiagnostics
		}
		if !cmd.Flags().Changed("jobs") && m.Defined("build.jobs") {
			compileReq.Jobs = m.Jobs
		}
		if cmd.Flags().Changed("lint") {
			compileReq.Lint = lintFlag
		}
	}
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("mahdl")
		if cacheErr != nil {
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", cacheErr)
		} else {
			if cleanCache {
				if err := cache.DropAll(); err != nil {
					return fmt.Errorf("failed to drop cache: %w", err)
				}
			}
			compileReq.Cache = cache
		}
	}

	outputDir := cfg.outDir
	if outFlag != "" {
		outputDir, err = filepath.Abs(outFlag)
		if err != nil {
			return err
		}
	}
	buildReq := buildpipeline.BuildRequest{CompileRequest: compileReq, OutputDir: outputDir}

	var (
		buildRes buildpipeline.BuildResult
		files    []string
	)
	if shouldUseTUI(uiModeValue, quietFlag(cmd)) {
		files, err = buildpipeline.ProgressFiles(cfg.target, cfg.baseDir)
		if err != nil {
			return err
		}
	}
	if len(files) > 0 {
		buildReq.Files = files
		buildRes, err = runBuildWithUI(cmd.Context(), "mahdl build", files, &buildReq)
	} else {
		buildRes, err = buildpipeline.Build(cmd.Context(), &buildReq)
	}

	if buildRes.Compile != nil && buildRes.Compile.Bag().Len() > 0 {
		color, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(os.Stderr, buildRes.Compile.Bag(), buildRes.Compile.FileSet, diagfmt.PrettyOpts{Color: color, Context: 2})
	}
	if showTimings {
		printStageTimings(os.Stdout, buildRes.Timings, true)
	}
	if err != nil {
		if errors.Is(err, buildpipeline.ErrDiagnostics) {
			return fmt.Errorf("build failed: %w", err)
		}
		return err
	}

	if quietFlag(cmd) {
		return nil
	}
	root := cfg.baseDir
	if root == "" {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			root = wd
		}
	}
	for _, out := range buildRes.Outputs {
		suffix := ""
		if out.Cached {
			suffix = " (cached)"
		}
		if _, err := fmt.Fprintf(os.Stdout, "built %s -> %s%s\n", out.Module, formatPathForOutput(root, out.Path), suffix); err != nil {
			return err
		}
	}
	return nil
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
