// Package search provides content search for the site tree.
package search

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/okalvert/stilt/internal/pathfilter"
	"github.com/okalvert/stilt/internal/types"
)

// Service searches the content files of a site.
type Service struct {
	contentDir string
	pathFilter *pathfilter.PathFilter
}

// New creates a search Service over contentDir.
func New(contentDir string, pf *pathfilter.PathFilter) *Service {
	absPath, _ := filepath.Abs(contentDir)
	if pf == nil {
		pf = pathfilter.New(nil)
	}
	return &Service{
		contentDir: absPath,
		pathFilter: pf,
	}
}

// Error is a search failure caused by the query.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Search scans content files for the query with context lines. Results are
// ordered by path; totalFiles counts every matching file for pagination.
func (s *Service) Search(params types.SearchParams) ([]types.SearchResult, int, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, 0, &Error{Message: "search query cannot be empty"}
	}

	contextLines := params.ContextLines
	if contextLines <= 0 {
		contextLines = 2
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 15
	}
	offset := max(params.Offset, 0)

	pattern, err := compileQuery(query, params.UseRegex, params.CaseSensitive)
	if err != nil {
		return nil, 0, err
	}

	files, err := s.findContentFiles()
	if err != nil {
		return nil, 0, err
	}
	sort.Strings(files)

	numWorkers := max(min(runtime.NumCPU(), len(files)), 1)

	type indexedResult struct {
		idx    int
		result *types.SearchResult
	}

	resultsCh := make(chan indexedResult, len(files))
	fileCh := make(chan struct {
		idx  int
		path string
	}, len(files))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for file := range fileCh {
				rel := strings.ReplaceAll(file.path[len(s.contentDir)+1:], "\\", "/")
				if !s.pathFilter.IsAllowed(rel) {
					continue
				}

				content, err := os.ReadFile(file.path)
				if err != nil {
					continue
				}

				lines := strings.Split(string(content), "\n")
				var matches []types.SearchMatch
				for lineNum, line := range lines {
					if !pattern.MatchString(line) {
						continue
					}
					startLine := max(lineNum-contextLines, 0)
					endLine := min(lineNum+contextLines+1, len(lines))
					matches = append(matches, types.SearchMatch{
						Line:    lineNum + 1,
						Context: strings.Join(lines[startLine:endLine], "\n"),
					})
				}

				if len(matches) > 0 {
					resultsCh <- indexedResult{
						idx:    file.idx,
						result: &types.SearchResult{Path: rel, Matches: matches},
					}
				}
			}
		})
	}

	for i, path := range files {
		fileCh <- struct {
			idx  int
			path string
		}{i, path}
	}
	close(fileCh)

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var indexed []indexedResult
	for r := range resultsCh {
		indexed = append(indexed, r)
	}
	sort.Slice(indexed, func(i, j int) bool {
		return indexed[i].idx < indexed[j].idx
	})

	all := make([]types.SearchResult, 0, len(indexed))
	for _, ir := range indexed {
		all = append(all, *ir.result)
	}

	totalFiles := len(all)
	if offset >= len(all) {
		return []types.SearchResult{}, totalFiles, nil
	}
	return all[offset:min(offset+limit, len(all))], totalFiles, nil
}

func compileQuery(query string, useRegex, caseSensitive bool) (*regexp.Regexp, error) {
	expr := query
	if !useRegex {
		expr = regexp.QuoteMeta(query)
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, &Error{Message: "invalid search pattern: " + err.Error()}
	}
	return pattern, nil
}

// findContentFiles walks the content dir for markdown files.
func (s *Service) findContentFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.contentDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".md" || ext == ".markdown" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
