package driver

import "time"

// Phase names a step of directory extraction.
type Phase string

const (
	PhaseParse   Phase = "parse"
	PhaseAliases Phase = "aliases"
	PhaseExtract Phase = "extract"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that work on a file (or the whole phase) has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
	// PhaseCached: результат взят из кэша, извлечение пропущено.
	PhaseCached
	PhaseFailed
)

// PhaseEvent describes a phase boundary for one file, or for the whole run
// when Path is empty.
type PhaseEvent struct {
	Path    string
	Phase   Phase
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events emitted during ExtractDir. It is
// called from worker goroutines and must be safe for concurrent use.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
