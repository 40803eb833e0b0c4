package main

import (
	"fmt"
	"io"
	"time"

	"mahdl/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings, includeWrite bool) {
	if out == nil {
		return
	}
	stages := []struct {
		stage buildpipeline.Stage
		label string
	}{
		{buildpipeline.StageParse, "parsed"},
		{buildpipeline.StageCheck, "checked"},
		{buildpipeline.StageGenerate, "generated"},
	}
	for _, s := range stages {
		if !timings.Has(s.stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", s.label, toMillis(timings.Duration(s.stage))); err != nil {
			panic(err)
		}
	}
	if includeWrite && timings.Has(buildpipeline.StageWrite) {
		if _, err := fmt.Fprintf(out, "wrote %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageWrite))); err != nil {
			panic(err)
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
