package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mimic/internal/version"
)

// errReported means diagnostics were already printed; main only sets the exit code.
var errReported = errors.New("errors reported")

// skipConfig marks commands that run without mimic.toml.
const skipConfig = "mimic/skip-config"

type app struct {
	root *cobra.Command
	sess *session
}

func newApp() *app {
	sess := &session{}
	root := &cobra.Command{
		Use:           "mimic",
		Short:         "Structural parser and member extractor for Swift sources",
		Long:          `mimic parses Swift declarations and extracts the members of protocols and types with resolved types`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("diag-format", "pretty", "diagnostics format (pretty|short|json)")
	pf.String("path-mode", "auto", "how paths are shown (auto|relative|absolute|basename)")
	pf.String("config", "", "path to mimic.toml (default: search upwards from the input)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] == "" {
			if err := sess.loadConfig(cmd, args); err != nil {
				return err
			}
		} else {
			sess.useDefaults()
		}
		if err := sess.setupTracing(cmd); err != nil {
			return err
		}
		return sess.startProfiling(cmd)
	}

	root.AddCommand(
		newTokenizeCmd(),
		newParseCmd(sess),
		newExtractCmd(sess),
		newInitCmd(),
		newConfigCmd(sess),
		newCacheCmd(sess),
		newVersionCmd(),
	)
	return &app{root: root, sess: sess}
}

// run executes args, then stops profiling and closes the tracer. On failure
// the trace ring, if any, is dumped to stderr.
func (a *app) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a.root.SetArgs(args)
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	err := a.root.ExecuteContext(ctx)
	a.sess.stopProfiling(stderr)
	a.sess.closeTracer(stderr, err != nil)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp().run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "mimic: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves --color for output going to w.
func colorEnabled(cmd *cobra.Command, w io.Writer) bool {
	switch flag := rootString(cmd, "color"); flag {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		return isTerminal(w)
	}
}
