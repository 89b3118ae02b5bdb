// Package main implements the stilt documentation site generator CLI.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/okalvert/stilt/internal/config"
	"github.com/okalvert/stilt/internal/frontmatter"
	"github.com/okalvert/stilt/internal/pathfilter"
	"github.com/okalvert/stilt/internal/site"
	"github.com/okalvert/stilt/internal/types"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "stilt",
		Short: "Static documentation site generator",
		Long: `stilt turns a tree of Markdown files with front matter into a static
HTML site. Content lives under content/, optional layout overrides under
layouts/, static assets under static/. stilt build writes the rendered
site to public/; stilt serve previews it with drafts visible.`,
		Example: "stilt serve ~/sites/go-interview-questions",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <site-dir>/stilt.yaml)")
	root.AddCommand(
		newBuildCmd(),
		newServeCmd(),
		newDraftsCmd(),
		newCleanCmd(),
		newNewCmd(),
		newMCPCmd(),
	)

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

// siteDirFromArgs resolves the optional positional site directory,
// defaulting to the working directory.
func siteDirFromArgs(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}

// loadSite builds the content service for a site, with the output and
// cache directories excluded from content walks.
func loadSite(siteDir string, cfg config.Config) *site.Service {
	pf := pathfilter.New(&types.PathFilterConfig{
		IgnoredPatterns: []string{
			cfg.OutputDir + "/**",
			cfg.CacheDir + "/**",
		},
	})
	return site.New(siteDir, cfg.ContentDir, pf, frontmatter.New())
}
