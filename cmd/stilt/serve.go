package main

import (
	"github.com/spf13/cobra"

	"github.com/okalvert/stilt/internal/build"
	"github.com/okalvert/stilt/internal/config"
	"github.com/okalvert/stilt/internal/server"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [site-dir]",
		Short: "Preview the site locally with drafts visible",
		Long: `serve performs a development build with draft pages included, then
starts a local web server over the output directory. Content, layout, and
static changes trigger a rebuild.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, port, build.Options{Drafts: true})
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to serve on (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string, port int, opts build.Options) error {
	siteDir, err := siteDirFromArgs(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(siteDir, cfgFile)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}

	builder := build.New(siteDir, cfg, loadSite(siteDir, cfg))
	rebuild := func() error { return builder.Run(opts) }

	if err := rebuild(); err != nil {
		return err
	}
	return server.New(siteDir, cfg, rebuild).Run()
}
