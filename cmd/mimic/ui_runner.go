package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"mimic/internal/pipeline"
	"mimic/internal/ui"
)

type extractOutcome struct {
	result pipeline.ExtractResult
	err    error
}

// runExtractWithUI runs the extraction in the background and renders its
// progress events to w until it finishes.
func runExtractWithUI(ctx context.Context, title string, files []string, req *pipeline.ExtractRequest, w io.Writer) (pipeline.ExtractResult, error) {
	if req == nil {
		return pipeline.ExtractResult{}, fmt.Errorf("missing extract request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan extractOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Extract(ctx, &reqCopy)
		outcomeCh <- extractOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(w), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// UI мог выйти раньше времени: дочитываем события, чтобы Extract не встал
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
