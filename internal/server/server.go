// Package server runs the local preview server and rebuild watcher.
package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/okalvert/stilt/internal/config"
)

const debounce = 500 * time.Millisecond

// Server serves the built output tree and rebuilds it on source changes.
type Server struct {
	siteDir string
	cfg     config.Config
	rebuild func() error
}

// New creates a preview Server. rebuild is invoked, debounced, whenever a
// watched file changes.
func New(siteDir string, cfg config.Config, rebuild func() error) *Server {
	return &Server{siteDir: siteDir, cfg: cfg, rebuild: rebuild}
}

// Run starts the watcher and blocks serving HTTP until the process exits
// or the listener fails.
func (s *Server) Run() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range []string{s.cfg.ContentDir, s.cfg.LayoutsDir, s.cfg.StaticDir} {
		root := filepath.Join(s.siteDir, dir)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		if err := watchRecursive(watcher, root); err != nil {
			return err
		}
	}

	go s.watch(watcher)

	outputDir := filepath.Join(s.siteDir, s.cfg.OutputDir)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger())
	e.Use(noCache)
	e.Static("/", outputDir)

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	slog.Info("serving site", "dir", outputDir, "url", fmt.Sprintf("http://localhost%s", addr))
	return e.Start(addr)
}

// noCache disables browser caching so edits show up on refresh.
func noCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		return next(c)
	}
}

func (s *Server) watch(watcher *fsnotify.Watcher) {
	var timer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						slog.Warn("failed to watch new directory", "path", event.Name, "err", err)
					}
				}
			}

			if timer != nil {
				timer.Stop()
			}
			name := event.Name
			timer = time.AfterFunc(debounce, func() {
				slog.Info("change detected, rebuilding", "path", name)
				if err := s.rebuild(); err != nil {
					slog.Error("rebuild failed", "err", err)
					return
				}
				slog.Info("site rebuilt")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "err", err)
		}
	}
}

// watchRecursive adds root and every directory below it to the watcher.
func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
