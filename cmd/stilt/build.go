package main

import (
	"github.com/spf13/cobra"

	"github.com/okalvert/stilt/internal/build"
	"github.com/okalvert/stilt/internal/config"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [site-dir]",
		Short: "Build the minified production site",
		Long: `build renders every published page into the output directory. Draft and
future-dated pages are excluded; HTML, CSS, and JS output is minified.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteDir, err := siteDirFromArgs(args)
			if err != nil {
				return err
			}
			cfg, err := config.Load(siteDir, cfgFile)
			if err != nil {
				return err
			}
			builder := build.New(siteDir, cfg, loadSite(siteDir, cfg))
			return builder.Run(build.Options{Minify: true})
		},
	}
}
