package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
	// PhaseFailed ends a phase that aborted the file.
	PhaseFailed
	// PhaseCached ends a phase that was served from the disk cache.
	PhaseCached
)

// Phase names reported to observers.
const (
	PhaseParse    = "parse"
	PhaseCheck    = "check"
	PhaseLint     = "lint"
	PhaseGenerate = "generate"
)

// PhaseEvent describes a timing phase boundary of one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events. Directory builds call it from
// several goroutines.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(file, name string, status PhaseStatus, elapsed time.Duration) {
	if o == nil {
		return
	}
	o(PhaseEvent{File: file, Name: name, Status: status, Elapsed: elapsed})
}
