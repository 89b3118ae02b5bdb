package build

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// Default layouts ship with the binary; files in the site's layouts
// directory override them by name.
//
//go:embed layouts/*.html
var defaultLayouts embed.FS

func (b *Builder) loadLayouts() (*template.Template, error) {
	tmpl, err := template.ParseFS(defaultLayouts, "layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse default layouts: %w", err)
	}

	layoutsDir := filepath.Join(b.siteDir, b.cfg.LayoutsDir)
	entries, err := os.ReadDir(layoutsDir)
	if err != nil {
		// No layouts directory means defaults only.
		return tmpl, nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(layoutsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read layout %s: %w", entry.Name(), err)
		}
		if _, err := tmpl.New(entry.Name()).Parse(string(raw)); err != nil {
			return nil, fmt.Errorf("failed to parse layout %s: %w", entry.Name(), err)
		}
	}

	return tmpl, nil
}
