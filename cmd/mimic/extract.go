package main

import (
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/cobra"

	"mimic/internal/diag"
	"mimic/internal/diagfmt"
	"mimic/internal/driver"
	"mimic/internal/pipeline"
)

func newExtractCmd(sess *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [flags] <file.swift|directory>",
		Short: "Extract the members of type declarations",
		Long: `Parse the sources, build one alias table from every typealias found and
print a member model (initializers, properties, methods) per type declaration.`,
		Args: cobra.ExactArgs(1),
	}
	f := cmd.Flags()
	f.String("format", "json", "output format (json|pretty)")
	f.String("type", "", "only extract this type (Name or Outer.Name)")
	f.Bool("nested", false, "collect members of nested types into the outer model")
	f.StringArray("alias", nil, "extra alias Name=Type (repeatable)")
	f.StringArray("bind", nil, "generic binding T=Type (repeatable)")
	f.StringSlice("include", nil, "include glob patterns (default from mimic.toml)")
	f.StringSlice("exclude", nil, "exclude glob patterns")
	f.Int("jobs", 0, "max parallel workers (0=auto)")
	f.Bool("no-cache", false, "do not read or write the model cache")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.Bool("show-original", false, "pretty: show the written type next to the resolved one")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "json" && format != "pretty" {
			return fmt.Errorf("unknown format: %s", format)
		}
		uiFlag, _ := cmd.Flags().GetString("ui")
		mode, err := readUIMode(uiFlag)
		if err != nil {
			return err
		}
		opts, err := extractOptions(cmd, sess)
		if err != nil {
			return err
		}

		req := &pipeline.ExtractRequest{Root: args[0], Options: opts}
		var res pipeline.ExtractResult
		errOut := cmd.ErrOrStderr()
		if shouldUseTUI(mode, errOut) && !rootBool(cmd, "quiet") {
			files, ferr := pipeline.Files(req)
			if ferr != nil {
				return fmt.Errorf("extract failed: %w", ferr)
			}
			res, err = runExtractWithUI(cmd.Context(), "extracting "+args[0], files, req, errOut)
		} else {
			res, err = pipeline.Extract(cmd.Context(), req)
		}
		if err != nil {
			return fmt.Errorf("extract failed: %w", err)
		}

		out := cmd.OutOrStdout()
		models := res.Result.Models()
		if format == "json" {
			err = diagfmt.FormatModelsJSON(out, models)
		} else {
			showOriginal, _ := cmd.Flags().GetBool("show-original")
			err = diagfmt.FormatModelsPretty(out, models, diagfmt.ModelOpts{
				Color:        colorEnabled(cmd, out),
				ShowOriginal: showOriginal,
			})
		}
		if err != nil {
			return err
		}

		if rootBool(cmd, "timings") {
			printStageTimings(errOut, res.Timings)
		}
		return finishDiagnostics(cmd, collectDiagnostics(res.Result, opts.MaxDiagnostics), res.Result.FileSet)
	}
	return cmd
}

// extractOptions starts from mimic.toml and applies the flags given on the
// command line over it.
func extractOptions(cmd *cobra.Command, sess *session) (driver.ExtractOptions, error) {
	var opts driver.ExtractOptions
	sess.cfg.Apply(&opts)
	opts.MaxDiagnostics = rootInt(cmd, "max-diagnostics")

	f := cmd.Flags()
	if f.Changed("include") {
		opts.Include, _ = f.GetStringSlice("include")
	}
	if f.Changed("exclude") {
		opts.Exclude, _ = f.GetStringSlice("exclude")
	}
	if f.Changed("nested") {
		opts.Nested, _ = f.GetBool("nested")
	}
	if f.Changed("jobs") {
		opts.Jobs, _ = f.GetInt("jobs")
	}
	opts.TypeName, _ = f.GetString("type")

	aliases, _ := f.GetStringArray("alias")
	extra, err := parseAssignments("--alias", aliases)
	if err != nil {
		return opts, err
	}
	opts.Aliases = mergeAssignments(opts.Aliases, extra)

	binds, _ := f.GetStringArray("bind")
	extra, err = parseAssignments("--bind", binds)
	if err != nil {
		return opts, err
	}
	opts.Bindings = mergeAssignments(opts.Bindings, extra)

	if noCache, _ := f.GetBool("no-cache"); !noCache {
		cache, err := sess.cfg.OpenCache()
		if err != nil {
			return opts, err
		}
		opts.Cache = cache
	}
	return opts, nil
}

// parseAssignments разбирает значения вида Name=Type
func parseAssignments(flag string, values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, v := range values {
		name, typ, ok := strings.Cut(v, "=")
		name, typ = strings.TrimSpace(name), strings.TrimSpace(typ)
		if !ok || name == "" || typ == "" {
			return nil, fmt.Errorf("invalid %s value %q (expected Name=Type)", flag, v)
		}
		out[name] = typ
	}
	return out, nil
}

// mergeAssignments returns base overlaid with extra. Neither map is modified.
func mergeAssignments(base, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}

// collectDiagnostics merges the project bag with every file bag in a
// stable order.
func collectDiagnostics(res *driver.ExtractResult, limit int) *diag.Bag {
	bag := diag.NewBag(limit)
	if res == nil {
		return bag
	}
	for _, f := range res.Files {
		bag.Merge(f.Bag)
	}
	bag.Merge(res.Bag)
	bag.Sort()
	return bag
}
