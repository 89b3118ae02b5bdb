package main

import "github.com/modelcontextprotocol/go-sdk/mcp"

type (
	// ReadPageInput contains parameters for reading a page.
	ReadPageInput struct {
		Path string `json:"path" jsonschema:"Path to the page relative to the content directory"`
	}

	// ReadPageOutput contains the result of reading a page.
	ReadPageOutput struct {
		Title     string         `json:"title"`
		Permalink string         `json:"permalink"`
		Draft     bool           `json:"draft,omitempty"`
		Weight    int            `json:"weight,omitempty"`
		Date      string         `json:"date,omitempty"`
		Extra     map[string]any `json:"extra,omitempty"`
		Content   string         `json:"content"`
	}

	// ListPagesInput contains parameters for listing pages.
	ListPagesInput struct {
		Section       string `json:"section,omitempty" jsonschema:"Only list pages in this section"`
		PublishedOnly bool   `json:"publishedOnly,omitempty" jsonschema:"Exclude draft and future-dated pages (default: false)"`
	}

	// PageSummary describes one page in a listing.
	PageSummary struct {
		Path      string `json:"path"`
		Title     string `json:"title"`
		Section   string `json:"section,omitempty"`
		Permalink string `json:"permalink"`
		Draft     bool   `json:"draft,omitempty"`
		Weight    int    `json:"weight,omitempty"`
		Date      string `json:"date,omitempty"`
	}

	// ListPagesOutput contains the ordered page listing.
	ListPagesOutput struct {
		Pages []PageSummary `json:"pages"`
		Total int           `json:"total"`
	}

	// SearchInput contains parameters for searching page content.
	SearchInput struct {
		Query         string `json:"query" jsonschema:"Search query (plain text or regex if useRegex=true)"`
		UseRegex      bool   `json:"useRegex,omitempty" jsonschema:"Treat query as regex pattern (default: false)"`
		CaseSensitive bool   `json:"caseSensitive,omitempty" jsonschema:"Case sensitive search (default: false)"`
		ContextLines  int    `json:"contextLines,omitempty" jsonschema:"Lines of context before/after match (default: 2)"`
		Limit         int    `json:"limit,omitempty" jsonschema:"Maximum results (default: 15)"`
		Offset        int    `json:"offset,omitempty" jsonschema:"Skip first N results for pagination (default: 0)"`
	}

	// SearchMatch represents a single match within a page.
	SearchMatch struct {
		Line    int    `json:"line"`
		Context string `json:"context"`
	}

	// SearchResultItem represents search results for a single page.
	SearchResultItem struct {
		Path    string        `json:"path"`
		Matches []SearchMatch `json:"matches"`
	}

	// SearchOutput contains search results.
	SearchOutput struct {
		Results    []SearchResultItem `json:"results"`
		TotalFiles int                `json:"totalFiles"`
		HasMore    bool               `json:"hasMore,omitempty"`
	}
)

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_page",
		Description: "Read a page from the site. Returns front matter fields and the markdown body.",
	}, handleReadPage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_pages",
		Description: "List pages in navigation order, optionally restricted to a section.",
	}, handleListPages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Search page content with plain text or regex. Returns matches with context lines.",
	}, handleSearch)
}
