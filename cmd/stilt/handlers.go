package main

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okalvert/stilt/internal/site"
	"github.com/okalvert/stilt/internal/types"
)

func handleReadPage(ctx context.Context, req *mcp.CallToolRequest, input ReadPageInput) (*mcp.CallToolResult, ReadPageOutput, error) {
	path := strings.TrimSpace(input.Path)
	pg, err := pages.ReadPage(path)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ReadPageOutput{}, err
	}

	return nil, ReadPageOutput{
		Title:     pg.Meta.Title,
		Permalink: pg.Permalink,
		Draft:     pg.Meta.Draft,
		Weight:    pg.Meta.Weight,
		Date:      pg.Meta.Date,
		Extra:     pg.Extra,
		Content:   pg.Content,
	}, nil
}

func handleListPages(ctx context.Context, req *mcp.CallToolRequest, input ListPagesInput) (*mcp.CallToolResult, ListPagesOutput, error) {
	// Authors browse everything; drafts and future pages are only hidden
	// on request.
	scope := site.Scope{Drafts: true, Future: true}
	if input.PublishedOnly {
		scope = site.Scope{}
	}

	all, err := pages.LoadAll(scope)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ListPagesOutput{}, err
	}

	out := ListPagesOutput{Pages: []PageSummary{}}
	for _, pg := range all {
		if input.Section != "" && pg.Section != input.Section {
			continue
		}
		out.Pages = append(out.Pages, PageSummary{
			Path:      pg.Path,
			Title:     pg.Meta.Title,
			Section:   pg.Section,
			Permalink: pg.Permalink,
			Draft:     pg.Meta.Draft,
			Weight:    pg.Meta.Weight,
			Date:      pg.Meta.Date,
		})
	}
	out.Total = len(out.Pages)
	return nil, out, nil
}

func handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	results, totalFiles, err := searchService.Search(types.SearchParams{
		Query:         strings.TrimSpace(input.Query),
		UseRegex:      input.UseRegex,
		CaseSensitive: input.CaseSensitive,
		ContextLines:  input.ContextLines,
		Limit:         input.Limit,
		Offset:        input.Offset,
	})
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, SearchOutput{}, err
	}

	out := SearchOutput{
		Results:    make([]SearchResultItem, 0, len(results)),
		TotalFiles: totalFiles,
	}
	for _, r := range results {
		item := SearchResultItem{Path: r.Path}
		for _, m := range r.Matches {
			item.Matches = append(item.Matches, SearchMatch{Line: m.Line, Context: m.Context})
		}
		out.Results = append(out.Results, item)
	}

	offset := max(input.Offset, 0)
	out.HasMore = offset+len(results) < totalFiles
	return nil, out, nil
}
