// Package build renders the content tree into a static site.
package build

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/okalvert/stilt/internal/config"
	"github.com/okalvert/stilt/internal/site"
)

// Options select what a build includes and how output is written.
type Options struct {
	Drafts bool
	Future bool
	Minify bool
}

// SiteData is the template context shared by every rendered document.
type SiteData struct {
	Title   string
	BaseURL string
	Pages   []*PageView
}

// PageView is a rendered page as the layouts see it.
type PageView struct {
	Title     string
	Permalink string
	Section   string
	Date      time.Time
	Weight    int
	Draft     bool
	Content   template.HTML
}

// Builder renders a site directory into its output directory.
type Builder struct {
	siteDir string
	cfg     config.Config
	pages   *site.Service
	md      goldmark.Markdown
	min     *minify.M
	cache   *renderCache
}

// New creates a Builder for the given site.
func New(siteDir string, cfg config.Config, pages *site.Service) *Builder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	m := minify.New()
	m.AddFunc("text/html", mhtml.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	return &Builder{
		siteDir: siteDir,
		cfg:     cfg,
		pages:   pages,
		md:      md,
		min:     m,
		cache:   newRenderCache(filepath.Join(siteDir, cfg.CacheDir, "render")),
	}
}

// Run loads the in-scope pages and writes the rendered site.
func (b *Builder) Run(opts Options) error {
	start := time.Now()

	pages, err := b.pages.LoadAll(site.Scope{
		Drafts: opts.Drafts,
		Future: opts.Future,
		Now:    start,
	})
	if err != nil {
		return err
	}

	// Refuse to publish pages that break the content contract. Failing
	// before the output directory is cleared keeps the previous build
	// intact for the preview server.
	for _, pg := range pages {
		if !pg.Validation.IsValid {
			return fmt.Errorf("invalid front matter in %s: %s",
				pg.Path, strings.Join(pg.Validation.Errors, "; "))
		}
	}

	outputDir := filepath.Join(b.siteDir, b.cfg.OutputDir)
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpl, err := b.loadLayouts()
	if err != nil {
		return err
	}

	staticDir := filepath.Join(b.siteDir, b.cfg.StaticDir)
	if _, err := os.Stat(staticDir); err == nil {
		if err := os.CopyFS(outputDir, os.DirFS(staticDir)); err != nil {
			return fmt.Errorf("failed to copy static assets: %w", err)
		}
	}

	siteData := &SiteData{Title: b.cfg.Title, BaseURL: b.cfg.BaseURL}

	views := make([]*PageView, 0, len(pages))
	taken := make(map[string]bool) // output dirs claimed by content pages
	sections := make(map[string][]*PageView)
	var sectionOrder []string

	for _, pg := range pages {
		html, err := b.renderMarkdown(pg)
		if err != nil {
			return err
		}
		view := &PageView{
			Title:     pg.Meta.Title,
			Permalink: pg.Permalink,
			Section:   pg.Section,
			Date:      pg.Date,
			Weight:    pg.Meta.Weight,
			Draft:     pg.Meta.Draft,
			Content:   html,
		}
		views = append(views, view)
		taken[pg.OutDir] = true
		if pg.Section != "" {
			if _, ok := sections[pg.Section]; !ok {
				sectionOrder = append(sectionOrder, pg.Section)
			}
			sections[pg.Section] = append(sections[pg.Section], view)
		}
	}
	siteData.Pages = views

	for i, pg := range pages {
		data := struct {
			Site *SiteData
			Page *PageView
		}{siteData, views[i]}
		if err := b.writeDocument(tmpl, "single.html", outputDir, pg.OutDir, data, opts); err != nil {
			return err
		}
	}

	for _, name := range sectionOrder {
		if taken[name] {
			// Section has its own _index page.
			continue
		}
		data := struct {
			Site    *SiteData
			Section string
			Pages   []*PageView
		}{siteData, name, sections[name]}
		if err := b.writeDocument(tmpl, "list.html", outputDir, name, data, opts); err != nil {
			return err
		}
	}

	if !taken[""] {
		data := struct{ Site *SiteData }{siteData}
		if err := b.writeDocument(tmpl, "home.html", outputDir, "", data, opts); err != nil {
			return err
		}
	}

	if opts.Minify {
		if err := b.minifyAssets(outputDir); err != nil {
			return err
		}
	}

	slog.Info("site built",
		"pages", len(pages),
		"output", outputDir,
		"minified", opts.Minify,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// renderMarkdown converts a page body to HTML, reusing the render cache
// when the source is unchanged.
func (b *Builder) renderMarkdown(pg *site.Page) (template.HTML, error) {
	if cached, ok := b.cache.get(pg.Content); ok {
		return template.HTML(cached), nil
	}

	var buf bytes.Buffer
	if err := b.md.Convert([]byte(pg.Content), &buf); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", pg.Path, err)
	}

	b.cache.put(pg.Content, buf.Bytes())
	return template.HTML(buf.String()), nil
}

// writeDocument executes a layout into outputDir/outDir/index.html,
// minifying the HTML for production builds.
func (b *Builder) writeDocument(tmpl *template.Template, layout, outputDir, outDir string, data any, opts Options) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layout, data); err != nil {
		return fmt.Errorf("failed to execute layout %s: %w", layout, err)
	}

	out := buf.Bytes()
	if opts.Minify {
		minified, err := b.min.Bytes("text/html", out)
		if err != nil {
			return fmt.Errorf("failed to minify %s output: %w", layout, err)
		}
		out = minified
	}

	dir := filepath.Join(outputDir, filepath.FromSlash(outDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Join(dir, "index.html"), err)
	}
	return nil
}

// minifyAssets minifies copied CSS and JS files in place.
func (b *Builder) minifyAssets(outputDir string) error {
	return filepath.WalkDir(outputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		var mediatype string
		switch filepath.Ext(path) {
		case ".css":
			mediatype = "text/css"
		case ".js":
			mediatype = "application/javascript"
		default:
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out, err := b.min.Bytes(mediatype, src)
		if err != nil {
			return fmt.Errorf("failed to minify %s: %w", path, err)
		}
		return os.WriteFile(path, out, 0o644)
	})
}
