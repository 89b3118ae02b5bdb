// Package scaffold creates new content files from the embedded archetype.
package scaffold

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultWeight is the weight written into scaffolded pages so new
// content sorts after hand-ordered pages until the author picks a spot.
const DefaultWeight = 100

//go:embed archetype.md.tmpl
var archetype string

var archetypeTmpl = template.Must(template.New("archetype").Parse(archetype))

type archetypeData struct {
	Title  string
	Date   string
	Weight int
}

// Create scaffolds a content file at relPath below contentDir. The title
// is derived from the file name; the page starts as a dated draft.
// An existing file is never overwritten.
func Create(contentDir, relPath string) (string, error) {
	relPath = filepath.FromSlash(strings.TrimSpace(relPath))
	if relPath == "" || relPath == "." {
		return "", fmt.Errorf("content path must not be empty")
	}
	if filepath.Ext(relPath) == "" {
		relPath += ".md"
	}

	outPath := filepath.Join(contentDir, relPath)
	if _, err := os.Stat(outPath); err == nil {
		return "", fmt.Errorf("content file %s already exists", outPath)
	}

	data := archetypeData{
		Title:  titleFromFilename(relPath),
		Date:   time.Now().Format(time.RFC3339),
		Weight: DefaultWeight,
	}

	var buf bytes.Buffer
	if err := archetypeTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute archetype template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create content directory: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}

	return outPath, nil
}

// titleFromFilename turns "channel-axioms.md" into "Channel Axioms".
func titleFromFilename(relPath string) string {
	stem := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	words := strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return cases.Title(language.English).String(words)
}
