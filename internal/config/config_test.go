package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ContentDir != "content" {
		t.Errorf("ContentDir = %q, want %q", cfg.ContentDir, "content")
	}
	if cfg.OutputDir != "public" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "public")
	}
	if cfg.CacheDir != ".stilt" {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, ".stilt")
	}
	if cfg.Port != 1313 {
		t.Errorf("Port = %d, want 1313", cfg.Port)
	}
}

func TestLoad_SiteFile(t *testing.T) {
	siteDir := t.TempDir()
	yaml := "title: Go Interview Questions\noutputDir: dist\nport: 8080\n"
	if err := os.WriteFile(filepath.Join(siteDir, "stilt.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(siteDir, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Title != "Go Interview Questions" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Go Interview Questions")
	}
	if cfg.OutputDir != "dist" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "dist")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	// Unset keys keep their defaults.
	if cfg.ContentDir != "content" {
		t.Errorf("ContentDir = %q, want default %q", cfg.ContentDir, "content")
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("contentDir: pages\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(t.TempDir(), cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContentDir != "pages" {
		t.Errorf("ContentDir = %q, want %q", cfg.ContentDir, "pages")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	siteDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(siteDir, "stilt.yaml"), []byte("title: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(siteDir, ""); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}
