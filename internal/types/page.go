// Package types defines the data structures shared across the generator.
package types

type (
	// PageMeta is the typed front matter carried by every content file.
	PageMeta struct {
		Title  string   `yaml:"title" json:"title"`
		Date   string   `yaml:"date,omitempty" json:"date,omitempty"`
		Draft  bool     `yaml:"draft,omitempty" json:"draft,omitempty"`
		Slug   string   `yaml:"slug,omitempty" json:"slug,omitempty"`
		Weight int      `yaml:"weight,omitempty" json:"weight,omitempty"`
		Tags   []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	}

	// ParsedPage is a content file split into metadata and body.
	ParsedPage struct {
		Meta            PageMeta       `json:"meta"`
		Extra           map[string]any `json:"extra,omitempty"`
		Content         string         `json:"content"`
		OriginalContent string         `json:"originalContent"`
	}
)
