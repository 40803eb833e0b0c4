package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mahdl/internal/diagfmt"
	"mahdl/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.mahdl|directory>",
	Short: "Parse a MaHDL source file or directory and output the syntax tree",
	Long:  `Parse analyzes a MaHDL source file or all *.mahdl files in a directory and outputs their syntax trees`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runParse(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "tree":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	// Проверяем, файл это или директория
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	paths := []string{target}
	if st.IsDir() {
		paths, err = driver.ListSourceFiles(target)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		if len(paths) == 0 {
			return fmt.Errorf("%s: %w", target, driver.ErrNoSources)
		}
	}

	results := make([]*driver.ParseResult, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			res, err := driver.Parse(ctx, path, maxDiagnostics)
			if err != nil {
				return fmt.Errorf("parsing failed: %w", err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	prettyOpts := diagfmt.PrettyOpts{Color: color, Context: 2}
	for _, r := range results {
		if r.Bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, r.Bag, r.FileSet, prettyOpts)
		}
	}

	if format == "json" {
		if !st.IsDir() {
			return diagfmt.FormatSyntaxJSON(os.Stdout, results[0].Root, results[0].FileSet)
		}
		output := make(map[string]*diagfmt.SyntaxJSON, len(results))
		for _, r := range results {
			output[r.File.FormatPath("auto", r.FileSet.BaseDir())] = diagfmt.BuildSyntaxJSON(r.Root, r.FileSet)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	for idx, r := range results {
		if st.IsDir() && !quiet {
			if _, err := fmt.Fprintf(os.Stdout, "== %s ==\n", r.File.FormatPath("auto", r.FileSet.BaseDir())); err != nil {
				return err
			}
		}
		if format == "tree" {
			err = diagfmt.FormatSyntaxTree(os.Stdout, r.Root)
		} else {
			err = diagfmt.FormatSyntaxPretty(os.Stdout, r.Root, r.FileSet)
		}
		if err != nil {
			return err
		}
		if st.IsDir() && !quiet && idx < len(results)-1 {
			if _, err := fmt.Fprintln(os.Stdout); err != nil {
				return err
			}
		}
	}
	return nil
}
