package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(sess *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the extraction cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean [path]",
		Short: "Remove every cached model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *sess.cfg
			// чистим даже при cache = false в конфиге
			cfg.Extract.Cache = true
			cache, err := cfg.OpenCache()
			if err != nil {
				return err
			}
			if err := cache.Disk().DropAll(); err != nil {
				return fmt.Errorf("failed to clean cache: %w", err)
			}
			if !rootBool(cmd, "quiet") {
				fmt.Fprintf(cmd.OutOrStdout(), "removed cached models in %s\n", cache.Disk().Dir())
			}
			return nil
		},
	})
	return cmd
}
