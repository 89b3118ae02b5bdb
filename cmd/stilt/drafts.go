package main

import (
	"github.com/spf13/cobra"

	"github.com/okalvert/stilt/internal/build"
)

func newDraftsCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "drafts [site-dir]",
		Short: "Preview the site including future-dated content",
		Long: `drafts behaves like serve but additionally includes pages whose date
lies in the future, so scheduled content can be reviewed early.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, port, build.Options{Drafts: true, Future: true})
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to serve on (default from config)")
	return cmd
}
