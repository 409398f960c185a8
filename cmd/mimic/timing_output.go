package main

import (
	"fmt"
	"io"
	"time"

	"mimic/internal/pipeline"
)

var timedStages = []pipeline.Stage{
	pipeline.StageDiscover,
	pipeline.StageParse,
	pipeline.StageAliases,
	pipeline.StageExtract,
}

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range timedStages {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-8s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	fmt.Fprintf(out, "%-8s %.1f ms\n", "total", toMillis(timings.Total()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
