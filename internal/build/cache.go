package build

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// renderCache stores rendered markdown fragments keyed by source hash so
// unchanged pages skip conversion on rebuilds. Cache failures are never
// fatal; a miss just re-renders.
type renderCache struct {
	dir string
}

func newRenderCache(dir string) *renderCache {
	return &renderCache{dir: dir}
}

func (c *renderCache) key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func (c *renderCache) get(source string) ([]byte, bool) {
	fragment, err := os.ReadFile(filepath.Join(c.dir, c.key(source)+".html"))
	if err != nil {
		return nil, false
	}
	return fragment, true
}

func (c *renderCache) put(source string, fragment []byte) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(c.dir, c.key(source)+".html"), fragment, 0o644)
}
