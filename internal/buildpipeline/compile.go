package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"mahdl/internal/driver"
	"mahdl/internal/observ"
	"mahdl/internal/sema"
)

// ErrDiagnostics is returned when compilation reported errors.
var ErrDiagnostics = errors.New("diagnostics reported errors")

// CompileRequest configures the shared compilation pipeline.
type CompileRequest struct {
	// TargetPath is a source file or a directory of sources.
	TargetPath string
	// BaseDir makes progress file names relative; empty keeps them as is.
	BaseDir string
	// SourceRoot anchors module names, see driver.Options.
	SourceRoot string

	MaxDiagnostics int
	Jobs           int
	Lint           bool
	Generate       bool
	Cache          *driver.DiskCache
	Resolver       sema.Resolver
	EnableTimings  bool

	// AllowDiagnosticsError keeps Compile from failing on error diagnostics.
	AllowDiagnosticsError bool
	Progress              ProgressSink
	Files                 []string
}

// CompileResult captures the driver result and stage timings.
type CompileResult struct {
	Result  *driver.Result
	Timings Timings
}

// Compile runs the driver over a file or a directory and streams progress
// events. Errors reported as diagnostics yield ErrDiagnostics.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	if req.TargetPath == "" {
		return result, fmt.Errorf("missing target path")
	}
	info, err := os.Stat(req.TargetPath)
	if err != nil {
		return result, err
	}

	if req.Progress != nil && len(req.Files) == 0 {
		req.Files = progressFiles(req.TargetPath, info.IsDir(), req.BaseDir)
	}
	emitQueued(req.Progress, req.Files)

	phases := &phaseObserver{sink: req.Progress, baseDir: req.BaseDir}
	opts := driver.Options{
		MaxDiagnostics: req.MaxDiagnostics,
		Jobs:           req.Jobs,
		Generate:       req.Generate,
		Lint:           req.Lint,
		Cache:          req.Cache,
		Resolver:       req.Resolver,
		SourceRoot:     req.SourceRoot,
		EnableTimings:  req.EnableTimings,
		PhaseObserver:  phases.OnPhase,
	}

	var res *driver.Result
	if info.IsDir() {
		res, err = driver.CompileDir(ctx, req.TargetPath, opts)
	} else {
		res, err = driver.CompileFile(ctx, req.TargetPath, opts)
	}
	result.Result = res
	if res != nil {
		recordTimings(&result.Timings, res.Timer.Report())
	}
	if err != nil {
		emitStage(req.Progress, nil, StageCheck, StatusError, err, 0)
		return result, err
	}

	if n := res.ErrorCount(); n > 0 && !req.AllowDiagnosticsError {
		err = fmt.Errorf("%d error(s): %w", n, ErrDiagnostics)
		emitStage(req.Progress, nil, StageCheck, StatusError, err, 0)
		return result, err
	}
	return result, nil
}

// phaseObserver turns driver phase events into progress events.
// It keeps no state, so concurrent file jobs can share it.
type phaseObserver struct {
	sink    ProgressSink
	baseDir string
}

var phaseStages = map[string]Stage{
	driver.PhaseParse:    StageParse,
	driver.PhaseCheck:    StageCheck,
	driver.PhaseGenerate: StageGenerate,
}

var phaseStatuses = map[driver.PhaseStatus]Status{
	driver.PhaseStart:  StatusWorking,
	driver.PhaseEnd:    StatusDone,
	driver.PhaseFailed: StatusError,
	driver.PhaseCached: StatusCached,
}

// OnPhase updates the progress UI based on compiler phase events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p == nil || p.sink == nil {
		return
	}
	stage, ok := phaseStages[ev.Name]
	if !ok {
		return
	}
	status, ok := phaseStatuses[ev.Status]
	if !ok {
		return
	}
	p.sink.OnEvent(Event{
		File:    displayPath(ev.File, p.baseDir),
		Stage:   stage,
		Status:  status,
		Elapsed: ev.Elapsed,
	})
}

// recordTimings folds the phase report into stage timings. Per-file
// phases are summed, so on a directory they exceed the wall time.
func recordTimings(t *Timings, report observ.Report) {
	if len(report.Phases) == 0 {
		return
	}
	t.Set(StageParse, sumPhases(report, driver.PhaseParse))
	t.Set(StageCheck, sumPhases(report, driver.PhaseCheck, driver.PhaseLint))
	t.Set(StageGenerate, sumPhases(report, driver.PhaseGenerate))
}

func sumPhases(report observ.Report, names ...string) time.Duration {
	if len(report.Phases) == 0 || len(names) == 0 {
		return 0
	}
	nameSet := make(map[string]struct{}, len(names))
	for _, name := range names {
		nameSet[name] = struct{}{}
	}
	var total time.Duration
	for _, phase := range report.Phases {
		if _, ok := nameSet[phase.Name]; !ok {
			continue
		}
		total += durationFromMillis(phase.DurationMS)
	}
	return total
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
