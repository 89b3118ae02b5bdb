package types

type (
	// SearchParams contains parameters for searching content files.
	SearchParams struct {
		Query         string `json:"query"`
		UseRegex      bool   `json:"useRegex,omitempty"`
		CaseSensitive bool   `json:"caseSensitive,omitempty"`
		ContextLines  int    `json:"contextLines,omitempty"`
		Limit         int    `json:"limit,omitempty"`
		Offset        int    `json:"offset,omitempty"`
	}

	// SearchMatch represents a single match within a file.
	SearchMatch struct {
		Line    int    `json:"line"`
		Context string `json:"context"`
	}

	// SearchResult represents search results for a single file.
	SearchResult struct {
		Path    string        `json:"path"`
		Matches []SearchMatch `json:"matches"`
	}
)
