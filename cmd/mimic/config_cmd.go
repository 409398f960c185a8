package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func newConfigCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "Print the effective configuration",
		Long: `Print the configuration that commands started from [path] would use:
the nearest mimic.toml merged over the defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if sess.cfg.Path != "" {
				fmt.Fprintf(out, "# %s\n", sess.cfg.Path)
			} else {
				fmt.Fprintln(out, "# defaults (no mimic.toml found)")
			}
			return toml.NewEncoder(out).Encode(sess.cfg)
		},
	}
}
