package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okalvert/stilt/internal/config"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [site-dir]",
		Short: "Remove generated output and cache directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteDir, err := siteDirFromArgs(args)
			if err != nil {
				return err
			}
			cfg, err := config.Load(siteDir, cfgFile)
			if err != nil {
				return err
			}

			for _, dir := range []string{cfg.OutputDir, cfg.CacheDir} {
				full := filepath.Join(siteDir, dir)
				if err := os.RemoveAll(full); err != nil {
					return fmt.Errorf("failed to remove %s: %w", full, err)
				}
				cmd.Printf("removed %s\n", full)
			}
			return nil
		},
	}
}
