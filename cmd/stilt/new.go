package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okalvert/stilt/internal/config"
	"github.com/okalvert/stilt/internal/scaffold"
)

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <path>",
		Short: "Scaffold a new content file",
		Long: `new creates a content file at the given path, relative to the content
directory, from the archetype: titled after the file name, dated now, and
flagged as a draft.`,
		Example: "stilt new questions/channel-axioms.md",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing path is usage guidance, not a failure.
			if len(args) == 0 {
				cmd.Println("Usage: stilt new <path>")
				cmd.Println("Example: stilt new questions/channel-axioms.md")
				return nil
			}

			siteDir, err := siteDirFromArgs(nil)
			if err != nil {
				return err
			}
			cfg, err := config.Load(siteDir, cfgFile)
			if err != nil {
				return err
			}

			out, err := scaffold.Create(filepath.Join(siteDir, cfg.ContentDir), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("created %s\n", out)
			return nil
		},
	}
}
