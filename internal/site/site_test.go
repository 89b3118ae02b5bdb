package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okalvert/stilt/internal/types"
)

func writePage(t *testing.T, contentDir, rel, body string) {
	t.Helper()
	full := filepath.Join(contentDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func setupTestSite(t *testing.T) (string, *Service) {
	t.Helper()
	siteDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(siteDir, "content"), 0o755); err != nil {
		t.Fatalf("mkdir content: %v", err)
	}
	return siteDir, New(siteDir, "content", nil, nil)
}

func TestService_ReadPage(t *testing.T) {
	siteDir, svc := setupTestSite(t)

	writePage(t, filepath.Join(siteDir, "content"), "questions/goroutines.md", `---
title: Goroutines
date: 2024-01-15
weight: 10
---

Body text.`)

	pg, err := svc.ReadPage("questions/goroutines.md")
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}

	if pg.Meta.Title != "Goroutines" {
		t.Errorf("Meta.Title = %q, want %q", pg.Meta.Title, "Goroutines")
	}
	if pg.Section != "questions" {
		t.Errorf("Section = %q, want %q", pg.Section, "questions")
	}
	if pg.Permalink != "/questions/goroutines/" {
		t.Errorf("Permalink = %q, want %q", pg.Permalink, "/questions/goroutines/")
	}
	if pg.OutDir != "questions/goroutines" {
		t.Errorf("OutDir = %q, want %q", pg.OutDir, "questions/goroutines")
	}
	if pg.Date.IsZero() {
		t.Error("Date should be parsed from front matter")
	}
	if !strings.Contains(pg.Content, "Body text.") {
		t.Errorf("Content = %q, want the markdown body", pg.Content)
	}
}

func TestService_ReadPageSlugOverride(t *testing.T) {
	siteDir, svc := setupTestSite(t)

	writePage(t, filepath.Join(siteDir, "content"), "questions/q-042.md", `---
title: Select Statement
slug: Select Statement Basics
---
Body.`)

	pg, err := svc.ReadPage("questions/q-042.md")
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}
	if pg.Permalink != "/questions/select-statement-basics/" {
		t.Errorf("Permalink = %q, want normalized slug path", pg.Permalink)
	}
}

func TestService_ReadPageIndexAddressesDirectory(t *testing.T) {
	siteDir, svc := setupTestSite(t)

	writePage(t, filepath.Join(siteDir, "content"), "questions/_index.md", `---
title: Questions
---
Section intro.`)

	pg, err := svc.ReadPage("questions/_index.md")
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}
	if pg.Permalink != "/questions/" {
		t.Errorf("Permalink = %q, want %q", pg.Permalink, "/questions/")
	}
}

func TestService_ResolvePathRejectsTraversal(t *testing.T) {
	_, svc := setupTestSite(t)

	if _, err := svc.ResolvePath("../stilt.yaml"); err == nil {
		t.Error("ResolvePath(../) error = nil, want traversal error")
	}
	if _, err := svc.ReadPage("../../etc/passwd.md"); err == nil {
		t.Error("ReadPage(traversal) error = nil, want error")
	}
}

func TestService_LoadAllScopes(t *testing.T) {
	siteDir, svc := setupTestSite(t)
	contentDir := filepath.Join(siteDir, "content")

	writePage(t, contentDir, "published.md", "---\ntitle: Published\ndate: 2024-01-01\n---\nok")
	writePage(t, contentDir, "draft.md", "---\ntitle: Draft\ndraft: true\n---\nwip")
	writePage(t, contentDir, "future.md", "---\ntitle: Future\ndate: 2999-01-01\n---\nsoon")

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	production, err := svc.LoadAll(Scope{Now: now})
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(production) != 1 || production[0].Meta.Title != "Published" {
		t.Errorf("production scope = %v pages, want only Published", titles(production))
	}

	preview, err := svc.LoadAll(Scope{Drafts: true, Now: now})
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(preview) != 2 {
		t.Errorf("draft scope = %v, want Published and Draft", titles(preview))
	}

	all, err := svc.LoadAll(Scope{Drafts: true, Future: true, Now: now})
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("full scope = %v, want all three pages", titles(all))
	}
}

func TestService_LoadAllSkipsNonContent(t *testing.T) {
	siteDir, svc := setupTestSite(t)
	contentDir := filepath.Join(siteDir, "content")

	writePage(t, contentDir, "page.md", "---\ntitle: Page\n---\nok")
	writePage(t, contentDir, "notes.txt", "not content")
	writePage(t, contentDir, "LICENSE", "plain text, no extension")
	writePage(t, contentDir, ".git/config.md", "---\ntitle: Hidden\n---\nno")
	writePage(t, contentDir, ".vscode/settings.md", "---\ntitle: Editor\n---\nno")

	pages, err := svc.LoadAll(Scope{Drafts: true, Future: true})
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(pages) != 1 || pages[0].Path != "page.md" {
		t.Errorf("LoadAll() = %v, want only page.md", titles(pages))
	}

	if _, err := svc.ReadPage("LICENSE"); err == nil {
		t.Error("ReadPage(LICENSE) error = nil, want non-content rejection")
	}
}

func TestService_ReadPageValidation(t *testing.T) {
	siteDir, svc := setupTestSite(t)
	contentDir := filepath.Join(siteDir, "content")

	writePage(t, contentDir, "good.md", "---\ntitle: Good\nweight: 1\n---\nok")
	writePage(t, contentDir, "broken.md", "---\ntitle: [unclosed\n---\nno")

	good, err := svc.ReadPage("good.md")
	if err != nil {
		t.Fatalf("ReadPage(good) error = %v", err)
	}
	if !good.Validation.IsValid {
		t.Errorf("Validation.IsValid = false, want true. Errors: %v", good.Validation.Errors)
	}

	broken, err := svc.ReadPage("broken.md")
	if err != nil {
		t.Fatalf("ReadPage(broken) error = %v", err)
	}
	if broken.Validation.IsValid {
		t.Error("Validation.IsValid = true, want false for a malformed block")
	}
}

func TestSortPages(t *testing.T) {
	mk := func(path string, weight int, date string) *Page {
		pg := &Page{Path: path, Meta: types.PageMeta{Weight: weight}}
		if date != "" {
			d, err := time.Parse("2006-01-02", date)
			if err != nil {
				t.Fatalf("parse date: %v", err)
			}
			pg.Date = d
		}
		return pg
	}

	pages := []*Page{
		mk("unweighted-old.md", 0, "2020-01-01"),
		mk("heavy.md", 30, ""),
		mk("unweighted-new.md", 0, "2024-01-01"),
		mk("light.md", 10, ""),
		mk("also-light-b.md", 10, ""),
	}

	SortPages(pages)

	want := []string{"also-light-b.md", "light.md", "heavy.md", "unweighted-new.md", "unweighted-old.md"}
	for i, w := range want {
		if pages[i].Path != w {
			t.Fatalf("SortPages()[%d] = %s, want %s (full order: %v)", i, pages[i].Path, w, titles(pages))
		}
	}
}

func titles(pages []*Page) []string {
	out := make([]string, len(pages))
	for i, pg := range pages {
		out[i] = pg.Path
	}
	return out
}
