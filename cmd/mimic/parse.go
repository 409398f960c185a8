package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mimic/internal/diag"
	"mimic/internal/diagfmt"
	"mimic/internal/driver"
	"mimic/internal/pipeline"
)

func newParseCmd(sess *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.swift|directory>",
		Short: "Parse source files and print the declaration tree",
		Long: `Parse a file or every source under a directory and print the declaration tree.
Offsets and lengths are in UTF-16 code units.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		if format != "pretty" && format != "json" {
			return fmt.Errorf("unknown format: %s", format)
		}
		st, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("parse failed: %w", err)
		}
		if st.IsDir() {
			return parseDir(cmd, sess, args[0], format)
		}

		res, err := driver.Parse(cmd.Context(), args[0], rootInt(cmd, "max-diagnostics"))
		if err != nil {
			return fmt.Errorf("parse failed: %w", err)
		}
		out := cmd.OutOrStdout()
		if format == "json" {
			err = diagfmt.FormatTreeJSON(out, res.AST)
		} else {
			err = diagfmt.FormatTreePretty(out, res.AST, res.FileSet)
		}
		if err != nil {
			return err
		}
		return finishDiagnostics(cmd, res.Bag, res.FileSet)
	}
	return cmd
}

func parseDir(cmd *cobra.Command, sess *session, root, format string) error {
	opts := driver.ParseDirOptions{
		Include:        sess.cfg.Extract.Include,
		Exclude:        sess.cfg.Extract.Exclude,
		MaxDiagnostics: rootInt(cmd, "max-diagnostics"),
		Jobs:           sess.cfg.Extract.Jobs,
	}
	if cmd.Flags().Changed("jobs") {
		opts.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	fileSet, files, err := driver.ParseDir(cmd.Context(), root, opts)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	out := cmd.OutOrStdout()
	bag := diag.NewBag(opts.MaxDiagnostics)
	trees := make(map[string]diagfmt.TreeNodeJSON, len(files))
	quiet := rootBool(cmd, "quiet")
	for i, f := range files {
		bag.Merge(f.Bag)
		if f.AST == nil {
			continue
		}
		display := pipeline.DisplayPath(f.Path, fileSet.BaseDir())
		if format == "json" {
			trees[display] = diagfmt.BuildTree(f.AST.Node())
			continue
		}
		if !quiet {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s ==\n", display)
		}
		if err := diagfmt.FormatTreePretty(out, f.AST, fileSet); err != nil {
			return err
		}
	}
	if format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(trees); err != nil {
			return err
		}
	}
	bag.Sort()
	return finishDiagnostics(cmd, bag, fileSet)
}
