// Package frontmatter handles front matter parsing and stringification.
package frontmatter

import (
	"fmt"
	"maps"
	"strings"
	"time"

	adrg "github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/okalvert/stilt/internal/types"
)

// metaKeys are the front matter fields the generator interprets itself.
// Everything else is preserved in the page's Extra map.
var metaKeys = map[string]bool{
	"title":  true,
	"date":   true,
	"draft":  true,
	"slug":   true,
	"weight": true,
	"tags":   true,
}

// dateFormats are accepted in order. RFC3339 first since that is what
// the scaffold archetype writes.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Handler parses and validates page front matter.
type Handler struct{}

// New creates a new front matter Handler.
func New() *Handler {
	return &Handler{}
}

// Parse splits a page into typed metadata, extra keys, and body. Content
// without a metadata block comes back unchanged with zero-value metadata.
func (h *Handler) Parse(content string) types.ParsedPage {
	result := types.ParsedPage{
		Extra:           make(map[string]any),
		Content:         content,
		OriginalContent: content,
	}

	var meta types.PageMeta
	body, err := adrg.Parse(strings.NewReader(content), &meta)
	if err != nil {
		// Malformed metadata block: treat the whole file as body so the
		// caller can still surface the page, and let Validate flag it.
		return result
	}

	var raw map[string]any
	if _, err := adrg.Parse(strings.NewReader(content), &raw); err == nil {
		for k, v := range raw {
			if !metaKeys[k] {
				result.Extra[k] = v
			}
		}
	}

	result.Meta = meta
	result.Content = string(body)
	return result
}

// Stringify rebuilds a content file from metadata and body.
func (h *Handler) Stringify(meta types.PageMeta, extra map[string]any, content string) (string, error) {
	doc := make(map[string]any)
	maps.Copy(doc, extra)

	doc["title"] = meta.Title
	if meta.Date != "" {
		doc["date"] = meta.Date
	}
	if meta.Draft {
		doc["draft"] = true
	}
	if meta.Slug != "" {
		doc["slug"] = meta.Slug
	}
	if meta.Weight != 0 {
		doc["weight"] = meta.Weight
	}
	if len(meta.Tags) > 0 {
		doc["tags"] = meta.Tags
	}

	yamlBytes, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to stringify front matter: %w", err)
	}

	return "---\n" + string(yamlBytes) + "---\n\n" + content, nil
}

// Validate checks a parsed page against the content contract: a title is
// required, dates must parse, and weights must not be negative.
func (h *Handler) Validate(page types.ParsedPage) types.ValidationResult {
	result := types.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	// A failed parse leaves the whole file in the body.
	if strings.HasPrefix(page.OriginalContent, "---") && page.Content == page.OriginalContent {
		result.IsValid = false
		result.Errors = append(result.Errors, "malformed front matter block")
	}

	if strings.TrimSpace(page.Meta.Title) == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "missing required field: title")
	}

	if page.Meta.Date != "" {
		if _, err := ParseDate(page.Meta.Date); err != nil {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("unparseable date %q", page.Meta.Date))
		}
	}

	if page.Meta.Weight < 0 {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("negative weight %d", page.Meta.Weight))
	} else if page.Meta.Weight == 0 {
		result.Warnings = append(result.Warnings, "no weight set; page sorts after weighted pages")
	}

	if strings.Contains(page.Meta.Slug, "/") {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("slug %q must be a single path segment", page.Meta.Slug))
	}

	return result
}

// ParseDate parses a front matter date in any of the accepted formats.
func ParseDate(s string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}
