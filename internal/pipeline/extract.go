// Package pipeline runs directory extraction for the CLI: it turns driver
// phase events into progress events for the UI and records stage timings.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mimic/internal/driver"
)

// ExtractRequest configures one extraction run.
type ExtractRequest struct {
	Root string
	// BaseDir is what display paths are relative to; defaults to Root (or
	// its directory when Root is a file).
	BaseDir  string
	Options  driver.ExtractOptions
	Progress ProgressSink
}

// ExtractResult carries the driver result plus what the CLI shows around it.
type ExtractResult struct {
	Result  *driver.ExtractResult
	Files   []string // display paths in discovery order
	Timings Timings
}

func (req *ExtractRequest) baseDir() string {
	if req.BaseDir != "" {
		return req.BaseDir
	}
	if st, err := os.Stat(req.Root); err == nil && !st.IsDir() {
		return filepath.Dir(req.Root)
	}
	return req.Root
}

// Files lists the files req will process, as display paths. The UI needs
// them before the run starts.
func Files(req *ExtractRequest) ([]string, error) {
	if req == nil {
		return nil, fmt.Errorf("missing extract request")
	}
	files, err := driver.Discover(req.Root, req.Options.Include, req.Options.Exclude)
	if err != nil {
		return nil, err
	}
	return displayPaths(files, req.baseDir()), nil
}

// Extract discovers, parses and extracts. Progress goes to req.Progress when set.
func Extract(ctx context.Context, req *ExtractRequest) (ExtractResult, error) {
	var result ExtractResult
	if req == nil {
		return result, fmt.Errorf("missing extract request")
	}

	started := time.Now()
	files, err := Files(req)
	result.Timings.Set(StageDiscover, time.Since(started))
	if err != nil {
		emitStage(req.Progress, StageDiscover, StatusError, err, 0)
		return result, err
	}
	result.Files = files
	for _, f := range files {
		emit(req.Progress, Event{File: f, Stage: StageParse, Status: StatusQueued})
	}

	obs := &phaseObserver{sink: req.Progress, base: req.baseDir(), timings: &result.Timings, begun: map[driver.Phase]time.Time{}}
	opts := req.Options
	opts.Observer = chainObservers(opts.Observer, obs.OnPhase)

	res, err := driver.ExtractDir(ctx, req.Root, opts)
	result.Result = res
	if err != nil {
		emitStage(req.Progress, StageExtract, StatusError, err, 0)
		return result, err
	}
	emitStage(req.Progress, StageExtract, StatusDone, nil, time.Since(started))
	return result, nil
}

var stageOf = map[driver.Phase]Stage{
	driver.PhaseParse:   StageParse,
	driver.PhaseAliases: StageAliases,
	driver.PhaseExtract: StageExtract,
}

type phaseObserver struct {
	sink    ProgressSink
	base    string
	mu      sync.Mutex
	timings *Timings
	begun   map[driver.Phase]time.Time
}

// OnPhase maps driver events onto progress events. Per-file parse end is
// not reported: the file still has extraction ahead of it.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	stage := stageOf[ev.Phase]
	if ev.Path == "" {
		p.onStage(stage, ev)
		return
	}
	file := DisplayPath(ev.Path, p.base)
	switch ev.Status {
	case driver.PhaseStart:
		emit(p.sink, Event{File: file, Stage: stage, Status: StatusWorking})
	case driver.PhaseEnd:
		if ev.Phase == driver.PhaseExtract {
			emit(p.sink, Event{File: file, Stage: stage, Status: StatusDone, Elapsed: ev.Elapsed})
		}
	case driver.PhaseCached:
		emit(p.sink, Event{File: file, Stage: stage, Status: StatusCached, Elapsed: ev.Elapsed})
	case driver.PhaseFailed:
		emit(p.sink, Event{File: file, Stage: stage, Status: StatusError, Err: ev.Err, Elapsed: ev.Elapsed})
	}
}

func (p *phaseObserver) onStage(stage Stage, ev driver.PhaseEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch ev.Status {
	case driver.PhaseStart:
		p.begun[ev.Phase] = time.Now()
		emitStage(p.sink, stage, StatusWorking, nil, 0)
	case driver.PhaseEnd:
		elapsed := ev.Elapsed
		if t, ok := p.begun[ev.Phase]; ok && elapsed == 0 {
			elapsed = time.Since(t)
		}
		p.timings.Set(stage, elapsed)
	}
}

func chainObservers(a, b driver.PhaseObserver) driver.PhaseObserver {
	if a == nil {
		return b
	}
	return func(ev driver.PhaseEvent) {
		a(ev)
		b(ev)
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

func emitStage(sink ProgressSink, stage Stage, status Status, err error, elapsed time.Duration) {
	emit(sink, Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
