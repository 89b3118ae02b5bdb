package main

import (
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/okalvert/stilt/internal/config"
	"github.com/okalvert/stilt/internal/frontmatter"
	"github.com/okalvert/stilt/internal/pathfilter"
	"github.com/okalvert/stilt/internal/search"
	"github.com/okalvert/stilt/internal/site"
	"github.com/okalvert/stilt/internal/types"
)

var (
	pages         *site.Service
	searchService *search.Service
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp [site-dir]",
		Short: "Serve the content tree over MCP stdio",
		Long: `mcp runs a read-only Model Context Protocol server over the site's
content directory, so MCP-compatible AI harnesses can read, list, and
search pages while authors work on the site.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMCPServer,
	}
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	siteDir, err := siteDirFromArgs(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(siteDir, cfgFile)
	if err != nil {
		return err
	}

	pf := pathfilter.New(&types.PathFilterConfig{
		IgnoredPatterns: []string{cfg.OutputDir + "/**", cfg.CacheDir + "/**"},
	})
	pages = site.New(siteDir, cfg.ContentDir, pf, frontmatter.New())
	searchService = search.New(filepath.Join(siteDir, cfg.ContentDir), pf)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "stilt",
		Version: version,
	}, nil)

	registerTools(server)

	if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("error running server: %w", err)
	}
	return nil
}
