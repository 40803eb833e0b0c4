package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"mahdl/internal/diag"
	"mahdl/internal/source"
	"mahdl/internal/trace"
)

// ErrNoSources is returned by CompileDir for a directory without sources.
var ErrNoSources = errors.New("no " + SourceExt + " files found")

// ListSourceFiles возвращает отсортированный список всех *.mahdl файлов в
// директории. Скрытые каталоги пропускаются.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CompileDir compiles every source file under dir. Files are parsed in
// parallel, indexed by module name and then checked in parallel against
// that index.
func CompileDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSources)
	}
	if opts.SourceRoot == "" {
		opts.SourceRoot = dir
	}

	// FileSet не потокобезопасен на запись: всё грузим заранее
	fileSet := source.NewFileSetWithBase(dir)
	c, err := newCompiler(ctx, opts, fileSet)
	if err != nil {
		return nil, err
	}
	span := trace.Begin(c.tracer, trace.ScopeDriver, "compile-dir", trace.ParentOf(ctx))
	span.WithExtra("files", fmt.Sprint(len(files)))
	ctx = trace.WithParent(ctx, span)

	results := make([]*FileResult, len(files))
	for i, path := range files {
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			// пустой виртуальный файл, чтобы диагностике было куда указывать
			id = fileSet.AddVirtual(path, nil)
		}
		results[i] = c.newFile(path, id, ExpectedModuleName(opts.SourceRoot, path))
		if loadErr != nil {
			results[i].Aborted = true
			diag.ReportError(results[i].Reporter(), diag.IOLoadFileError, source.Span{File: id},
				"failed to load file: "+loadErr.Error()).Emit()
		}
	}
	res := &Result{Dir: dir, FileSet: fileSet, Files: results, Timer: c.timer}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	limit := min(jobs, len(files))

	// Результаты пишутся по индексу, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, r := range results {
		if r.Aborted {
			continue
		}
		g.Go(func() error { return c.parse(gctx, r) })
	}
	if err := g.Wait(); err != nil {
		span.End("cancelled")
		return res, err
	}

	index := newIndexResolver()
	res.Roots = c.hierarchy(results, index)
	resolver := chainResolver{index, opts.Resolver}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, r := range results {
		g.Go(func() error {
			defer c.finish(r)
			return c.check(gctx, r, resolver)
		})
	}
	err = g.Wait()
	span.WithExtra("errors", fmt.Sprint(res.ErrorCount())).End(dir)
	return res, err
}
