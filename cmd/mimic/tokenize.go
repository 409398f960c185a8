package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mimic/internal/diagfmt"
	"mimic/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.swift>",
		Short: "Tokenize a source file",
		Long:  "Tokenize a source file and output tokens with their leading trivia",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		res, err := driver.Tokenize(args[0], rootInt(cmd, "max-diagnostics"))
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}

		out := cmd.OutOrStdout()
		switch format {
		case "pretty":
			err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
		case "json":
			err = diagfmt.FormatTokensJSON(out, res.Tokens, res.FileSet)
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
		if err != nil {
			return err
		}

		return finishDiagnostics(cmd, res.Bag, res.FileSet)
	}
	return cmd
}
