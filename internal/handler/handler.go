// Package handler provides the vault-level file operations the commands
// build on: enumerate, read, and write note files.
package handler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sorenpeters/nota/internal/pathutil"
)

type FileHandler struct {
	vaultDir string
}

func NewFileHandler(vaultDir string) *FileHandler {
	return &FileHandler{vaultDir: pathutil.NormalizePath(vaultDir)}
}

// VaultDir returns the vault root this handler operates on.
func (h *FileHandler) VaultDir() string {
	return h.vaultDir
}

// WalkNotes lists every note file under the vault, skipping dot directories
// and the provided exclusions. Unreadable subtrees are logged and skipped
// rather than failing the walk.
func (h *FileHandler) WalkNotes(excludeDirs []string) ([]string, error) {
	var files []string

	excluded := make(map[string]struct{}, len(excludeDirs))
	for _, d := range excludeDirs {
		excluded[strings.ToLower(d)] = struct{}{}
	}

	err := filepath.Walk(
		h.vaultDir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if path == h.vaultDir {
					return err
				}
				log.Printf("walk %s: %v", path, err)
				return nil
			}

			name := info.Name()
			if info.IsDir() {
				if path == h.vaultDir {
					return nil
				}
				if strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				if _, skip := excluded[strings.ToLower(name)]; skip {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") {
				return nil
			}
			if strings.EqualFold(filepath.Ext(name), ".md") {
				files = append(files, path)
			}
			return nil
		},
	)
	return files, err
}

// ReadNote returns the raw bytes of a note addressed relative to the vault
// or absolutely.
func (h *FileHandler) ReadNote(path string) ([]byte, error) {
	return os.ReadFile(h.abs(path))
}

// WriteNote writes content to a note, creating parent directories as
// needed.
func (h *FileHandler) WriteNote(path string, content []byte) error {
	abs := h.abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return os.WriteFile(abs, content, 0o644)
}

// CreateNote writes content to a new note and fails if the file already
// exists.
func (h *FileHandler) CreateNote(path string, content []byte) error {
	abs := h.abs(path)
	if _, err := os.Stat(abs); err == nil {
		return fmt.Errorf("note already exists: %s", abs)
	}
	return h.WriteNote(abs, content)
}

func (h *FileHandler) abs(path string) string {
	normalized := pathutil.NormalizePath(path)
	if filepath.IsAbs(normalized) {
		return normalized
	}
	return filepath.Join(h.vaultDir, normalized)
}
