package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"

	"github.com/okalvert/stilt/internal/config"
)

func TestNoCacheHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := noCache(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if got := rec.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Errorf("Cache-Control = %q, want no-store directives", got)
	}
	if got := rec.Header().Get("Pragma"); got != "no-cache" {
		t.Errorf("Pragma = %q, want %q", got, "no-cache")
	}
}

func TestWatchRecursive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "questions", "advanced"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer watcher.Close()

	if err := watchRecursive(watcher, dir); err != nil {
		t.Fatalf("watchRecursive() error = %v", err)
	}

	wl := watcher.WatchList()
	if len(wl) < 3 {
		t.Errorf("WatchList() = %d entries, want root and both subdirectories", len(wl))
	}
}

func TestWatchDebouncesRebuilds(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		t.Fatalf("watch dir: %v", err)
	}

	var rebuilds atomic.Int32
	s := New(dir, config.Config{}, func() error {
		rebuilds.Add(1)
		return nil
	})
	go s.watch(watcher)

	// A burst of writes should collapse into a single rebuild.
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for rebuilds.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if rebuilds.Load() == 0 {
		t.Fatal("rebuild never triggered after file writes")
	}

	// No further events, so the count must settle at one.
	time.Sleep(2 * debounce)
	if got := rebuilds.Load(); got != 1 {
		t.Errorf("rebuilds = %d, want 1 debounced rebuild", got)
	}
}

func TestWatchAddsNewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		t.Fatalf("watch dir: %v", err)
	}

	s := New(dir, config.Config{}, func() error { return nil })
	go s.watch(watcher)

	sub := filepath.Join(dir, "questions")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, watched := range watcher.WatchList() {
			if watched == sub {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("WatchList() = %v, want new subdirectory %s", watcher.WatchList(), sub)
}
