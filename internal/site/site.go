// Package site loads, filters, and orders the content tree.
package site

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/okalvert/stilt/internal/frontmatter"
	"github.com/okalvert/stilt/internal/pathfilter"
	"github.com/okalvert/stilt/internal/types"
)

// Scope selects which pages a load includes. The zero value is the
// production scope: published, non-future pages only.
type Scope struct {
	Drafts bool
	Future bool
	Now    time.Time
}

// Page is a content file with parsed metadata and derived addressing.
type Page struct {
	Path      string // relative to the content dir, forward slashes
	Section   string // first path element, "" for root pages
	Permalink string // escaped URL path, always /.../ shaped
	OutDir    string // output directory relative to the site root, "" for home
	Meta       types.PageMeta
	Extra      map[string]any
	Date       time.Time
	Content    string // markdown body
	Validation types.ValidationResult
}

// Service reads pages from a site's content directory.
type Service struct {
	siteDir    string
	contentDir string
	filter     *pathfilter.PathFilter
	fm         *frontmatter.Handler
}

// New creates a content Service rooted at siteDir/contentDir.
func New(siteDir, contentDir string, pf *pathfilter.PathFilter, fm *frontmatter.Handler) *Service {
	absSite, _ := filepath.Abs(siteDir)
	if pf == nil {
		pf = pathfilter.New(nil)
	}
	if fm == nil {
		fm = frontmatter.New()
	}
	return &Service{
		siteDir:    absSite,
		contentDir: filepath.Join(absSite, contentDir),
		filter:     pf,
		fm:         fm,
	}
}

// ContentDir returns the absolute content directory path.
func (s *Service) ContentDir() string {
	return s.contentDir
}

// ResolvePath resolves a relative content path and rejects traversal
// outside the content directory.
func (s *Service) ResolvePath(relativePath string) (string, error) {
	relativePath = strings.TrimSpace(relativePath)
	relativePath = strings.TrimPrefix(relativePath, "/")

	absPath, err := filepath.Abs(filepath.Join(s.contentDir, relativePath))
	if err != nil {
		return "", err
	}

	relPath, err := filepath.Rel(s.contentDir, absPath)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed: %s", relativePath)
	}

	return absPath, nil
}

// ReadPage reads and parses a single page by content-relative path.
func (s *Service) ReadPage(relativePath string) (*Page, error) {
	fullPath, err := s.ResolvePath(relativePath)
	if err != nil {
		return nil, err
	}

	rel := path.Clean(filepath.ToSlash(strings.TrimPrefix(relativePath, "/")))
	if !s.filter.IsAllowedFile(rel) {
		return nil, fmt.Errorf("access denied: %s", relativePath)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("page not found: %s", relativePath)
		}
		return nil, fmt.Errorf("failed to read page %s: %w", relativePath, err)
	}

	parsed := s.fm.Parse(string(content))

	pg := &Page{
		Path:       rel,
		Section:    section(rel),
		Meta:       parsed.Meta,
		Extra:      parsed.Extra,
		Content:    parsed.Content,
		Validation: s.fm.Validate(parsed),
	}
	if parsed.Meta.Date != "" {
		if date, err := frontmatter.ParseDate(parsed.Meta.Date); err == nil {
			pg.Date = date
		}
	}
	pg.OutDir, pg.Permalink = address(rel, parsed.Meta)

	return pg, nil
}

// LoadAll walks the content directory and returns the pages in scope,
// ordered for navigation.
func (s *Service) LoadAll(scope Scope) ([]*Page, error) {
	if _, err := os.Stat(s.contentDir); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("content directory %s not found", s.contentDir)
	}

	var pages []*Page
	err := filepath.WalkDir(s.contentDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(s.contentDir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && !s.filter.IsAllowed(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}
		if !s.filter.IsAllowedFile(rel) {
			return nil
		}
		pg, readErr := s.ReadPage(rel)
		if readErr != nil {
			return readErr
		}
		if Included(scope, pg) {
			pages = append(pages, pg)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk content directory: %w", err)
	}

	SortPages(pages)
	return pages, nil
}

// Included reports whether a page falls inside the scope. Draft pages need
// Drafts; pages dated after Now need Future.
func Included(scope Scope, pg *Page) bool {
	if pg.Meta.Draft && !scope.Drafts {
		return false
	}
	now := scope.Now
	if now.IsZero() {
		now = time.Now()
	}
	if !pg.Date.IsZero() && pg.Date.After(now) && !scope.Future {
		return false
	}
	return true
}

// SortPages orders pages for navigation: weight ascending with zero
// weight last, then newest first, then path.
func SortPages(pages []*Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		a, b := pages[i], pages[j]
		if a.Meta.Weight != b.Meta.Weight {
			if a.Meta.Weight == 0 {
				return false
			}
			if b.Meta.Weight == 0 {
				return true
			}
			return a.Meta.Weight < b.Meta.Weight
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Path < b.Path
	})
}

// section returns the first path element of a content-relative path.
func section(rel string) string {
	if idx := strings.Index(rel, "/"); idx != -1 {
		return rel[:idx]
	}
	return ""
}

// address derives a page's output directory and escaped permalink from
// its path and front matter. A slug overrides the file stem; index pages
// address their directory.
func address(rel string, meta types.PageMeta) (outDir, permalink string) {
	stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))

	name := meta.Slug
	if name == "" {
		name = stem
	}
	if normalized, err := slug.Normalize(name); err == nil && normalized != "" {
		name = normalized
	}

	var segments []string
	if dir := path.Dir(rel); dir != "." {
		segments = strings.Split(dir, "/")
	}
	if !strings.EqualFold(stem, "index") && !strings.EqualFold(stem, "_index") {
		segments = append(segments, name)
	}

	if len(segments) == 0 {
		return "", "/"
	}

	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/"), "/" + strings.Join(escaped, "/") + "/"
}
