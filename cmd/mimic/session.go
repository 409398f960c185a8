package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mimic/internal/config"
	"mimic/internal/diag"
	"mimic/internal/diagfmt"
	"mimic/internal/prof"
	"mimic/internal/source"
	"mimic/internal/trace"
)

// session holds what PersistentPreRunE resolved for the running command.
type session struct {
	cfg    *config.Config
	cfgFS  *source.FileSet
	tracer trace.Tracer
	format trace.Format
	prof   *prof.Session
}

func rootString(cmd *cobra.Command, name string) string {
	v, err := cmd.Root().PersistentFlags().GetString(name)
	if err != nil {
		panic(fmt.Errorf("flag %s: %w", name, err))
	}
	return v
}

func rootInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Root().PersistentFlags().GetInt(name)
	if err != nil {
		panic(fmt.Errorf("flag %s: %w", name, err))
	}
	return v
}

func rootBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Root().PersistentFlags().GetBool(name)
	if err != nil {
		panic(fmt.Errorf("flag %s: %w", name, err))
	}
	return v
}

func rootChanged(cmd *cobra.Command, name string) bool {
	return cmd.Root().PersistentFlags().Changed(name)
}

func (s *session) useDefaults() {
	s.cfg = config.Default()
	s.cfgFS = source.NewFileSet()
}

// loadConfig reads --config or discovers mimic.toml from the first argument
// upwards, then validates its patterns.
func (s *session) loadConfig(cmd *cobra.Command, args []string) error {
	s.cfgFS = source.NewFileSet()
	var (
		cfg *config.Config
		err error
	)
	if explicit := rootString(cmd, "config"); explicit != "" {
		cfg, err = config.Load(s.cfgFS, explicit)
	} else {
		cfg, err = config.Discover(s.cfgFS, startDir(args))
		if errors.Is(err, config.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		return err
	}
	s.cfg = cfg

	bag := diag.NewBag(rootInt(cmd, "max-diagnostics"))
	if !cfg.Validate(diag.BagReporter{Bag: bag}) {
		if err := printDiagnostics(cmd, bag, s.cfgFS); err != nil {
			return err
		}
		return errReported
	}
	return nil
}

func startDir(args []string) string {
	if len(args) == 0 {
		return "."
	}
	if st, err := os.Stat(args[0]); err == nil && st.IsDir() {
		return args[0]
	}
	return filepath.Dir(args[0])
}

// setupTracing builds the tracer from [trace] and the trace flags; flags
// given explicitly win over the config.
func (s *session) setupTracing(cmd *cobra.Command) error {
	levelStr := s.cfg.Trace.Level
	if rootChanged(cmd, "trace-level") {
		levelStr = rootString(cmd, "trace-level")
	}
	output := s.cfg.Trace.Output
	if rootChanged(cmd, "trace") {
		output = rootString(cmd, "trace")
	}
	formatStr := s.cfg.Trace.Format
	if rootChanged(cmd, "trace-format") {
		formatStr = rootString(cmd, "trace-format")
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" && !rootChanged(cmd, "trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		s.tracer = trace.Nop
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	mode, err := trace.ParseMode(rootString(cmd, "trace-mode"))
	if err != nil {
		return fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return fmt.Errorf("invalid trace format: %w", err)
	}
	if output != "" && output != "-" && !filepath.IsAbs(output) && s.cfg.Root != "" && !rootChanged(cmd, "trace") {
		output = filepath.Join(s.cfg.Root, output)
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   rootInt(cmd, "trace-ring-size"),
	}
	if output == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tracer
	s.format = format

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
	return nil
}

// closeTracer flushes and closes the tracer; after a failure the ring
// buffer is written to w first.
func (s *session) closeTracer(w io.Writer, failed bool) {
	if s.tracer == nil {
		return
	}
	if failed {
		if ring, ok := trace.Ring(s.tracer); ok {
			fmt.Fprintln(w, "trace: last events before failure:")
			if err := ring.Dump(w, s.format); err != nil {
				fmt.Fprintf(w, "trace: dump error: %v\n", err)
			}
		}
	}
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(w, "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(w, "trace: close error: %v\n", err)
	}
	s.tracer = nil
}

// printDiagnostics writes bag to stderr in the --diag-format form.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	mode, err := diagfmt.ParsePathMode(rootString(cmd, "path-mode"))
	if err != nil {
		return err
	}
	w := cmd.ErrOrStderr()
	switch format := rootString(cmd, "diag-format"); format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         mode,
			Max:              rootInt(cmd, "max-diagnostics"),
			IncludeNotes:     true,
		})
	case "short":
		if out := diag.FormatShortDiagnostics(bag.Items(), fs, !rootBool(cmd, "quiet")); out != "" {
			_, err := io.WriteString(w, out+"\n")
			return err
		}
		return nil
	case "pretty", "":
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     colorEnabled(cmd, w),
			Context:   1,
			PathMode:  mode,
			ShowNotes: !rootBool(cmd, "quiet"),
		})
		return nil
	default:
		return fmt.Errorf("unknown diagnostics format %q (expected pretty|short|json)", format)
	}
}

// finishDiagnostics prints bag and turns errors in it into errReported.
func finishDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if err := printDiagnostics(cmd, bag, fs); err != nil {
		return err
	}
	if bag != nil && bag.HasErrors() {
		return errReported
	}
	return nil
}

func (s *session) startProfiling(cmd *cobra.Command) error {
	opts := prof.Options{
		CPU:     rootString(cmd, "cpuprofile"),
		Mem:     rootString(cmd, "memprofile"),
		Runtime: rootString(cmd, "runtime-trace"),
	}
	if !opts.Enabled() {
		return nil
	}
	p, err := prof.Start(opts)
	if err != nil {
		return err
	}
	s.prof = p
	return nil
}

func (s *session) stopProfiling(w io.Writer) {
	if err := s.prof.Stop(); err != nil {
		fmt.Fprintf(w, "profile: %v\n", err)
	}
	s.prof = nil
}
