package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mimic/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a mimic.toml with default settings",
		Long: `Create mimic.toml in [dir] (the current directory by default).
The directory is created when missing; an existing mimic.toml is never overwritten.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			if st, err := os.Stat(target); err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				if err := os.MkdirAll(target, 0o755); err != nil {
					return fmt.Errorf("failed to create directory %q: %w", target, err)
				}
			} else if !st.IsDir() {
				return fmt.Errorf("%q is not a directory", target)
			}

			path, err := config.WriteTemplate(target)
			if err != nil {
				return err
			}
			if !rootBool(cmd, "quiet") {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			}
			return nil
		},
	}
}
