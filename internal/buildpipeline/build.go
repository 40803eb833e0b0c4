// Package buildpipeline orchestrates the compilation process.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mahdl/internal/diag"
	"mahdl/internal/driver"
	"mahdl/internal/source"
)

// BuildRequest configures output generation for a compilation.
type BuildRequest struct {
	CompileRequest
	// OutputDir receives one <ModuleName>.v per generated module.
	OutputDir string
}

// Output is one written Verilog file.
type Output struct {
	Module string
	Path   string
	Cached bool
}

// BuildResult captures build artefacts and timings.
type BuildResult struct {
	Compile *driver.Result
	Outputs []Output
	Timings Timings
}

// Build compiles the target and writes the generated Verilog. Modules with
// errors produce no output; a write failure is reported as IO diagnostic on
// the file and returned.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy
	req.Generate = true

	if req.OutputDir == "" {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			cwd = "."
		}
		req.OutputDir = filepath.Join(cwd, "out")
	}

	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.Compile = compileRes.Result
	result.Timings = compileRes.Timings
	if err != nil {
		return result, err
	}

	if err := os.MkdirAll(req.OutputDir, 0o750); err != nil {
		err = fmt.Errorf("failed to create output dir: %w", err)
		emitStage(req.Progress, nil, StageWrite, StatusError, err, 0)
		return result, err
	}

	writeStart := time.Now()
	var errs []error
	for _, f := range compileRes.Result.Files {
		if !f.Generated || f.Verilog == "" {
			continue
		}
		name := displayPath(f.Path, req.BaseDir)
		emitFile(req.Progress, name, StageWrite, StatusWorking, nil, 0)
		start := time.Now()

		outPath := filepath.Join(req.OutputDir, f.ModuleName+".v")
		// #nosec G306 -- generated sources are read by other tools
		if werr := os.WriteFile(outPath, []byte(f.Verilog), 0o644); werr != nil {
			diag.ReportError(f.Reporter(), diag.IOWriteError, source.Span{File: f.FileID},
				fmt.Sprintf("failed to write %s: %v", outPath, werr)).Emit()
			emitFile(req.Progress, name, StageWrite, StatusError, werr, time.Since(start))
			errs = append(errs, fmt.Errorf("write %s: %w", outPath, werr))
			continue
		}
		result.Outputs = append(result.Outputs, Output{Module: f.ModuleName, Path: outPath, Cached: f.Cached})
		emitFile(req.Progress, name, StageWrite, StatusDone, nil, time.Since(start))
	}
	result.Timings.Set(StageWrite, time.Since(writeStart))

	if err := errors.Join(errs...); err != nil {
		emitStage(req.Progress, nil, StageWrite, StatusError, err, 0)
		return result, err
	}
	emitStage(req.Progress, nil, StageWrite, StatusDone, nil, result.Timings.Duration(StageWrite))
	return result, nil
}

func emitFile(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
