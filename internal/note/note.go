// Package note creates vault notes from templates and backs the
// follow-wiki-link flow with create-on-missing semantics.
package note

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sorenpeters/nota/internal/pathutil"
	"github.com/sorenpeters/nota/internal/templater"
)

// Note describes a note to be created inside the vault.
type Note struct {
	VaultDir string
	SubDir   string
	// Filename is the note name without extension.
	Filename string
	Tags     []string
}

// New creates a Note instance.
func New(vaultDir, subDir, filename string, tags []string) *Note {
	return &Note{
		VaultDir: vaultDir,
		SubDir:   subDir,
		Filename: strings.TrimSpace(filename),
		Tags:     tags,
	}
}

// GetFilepath returns the on-disk path of the note.
func (n *Note) GetFilepath() string {
	name := pathutil.EnsureExtension(n.Filename, ".md")
	return filepath.Join(n.VaultDir, n.SubDir, name)
}

// EnsurePath creates the directory structure for the note file.
func (n *Note) EnsurePath() (string, error) {
	path := n.GetFilepath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// FileExists checks whether the note file already exists.
func (n *Note) FileExists() (bool, string, error) {
	path := n.GetFilepath()
	_, err := os.Stat(path)
	if err == nil {
		return true, path, nil
	}
	if os.IsNotExist(err) {
		return false, path, nil
	}
	return false, path, err
}

// Create renders the named template and writes the note. It fails when the
// file already exists and cleans up partially created directories on
// failure.
func (n *Note) Create(tmplName string, t *templater.Templater, content string) (string, error) {
	if n.Filename == "" {
		return "", fmt.Errorf("note name cannot be empty")
	}

	exists, path, err := n.FileExists()
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("note already exists: %s", path)
	}

	if _, err := n.EnsurePath(); err != nil {
		return "", err
	}

	data := templater.TemplateData{
		Title:   n.Filename,
		Content: content,
		Tags:    n.Tags,
	}
	if tmplName == "daily" {
		daily := templater.DailyData(time.Now())
		daily.Content = content
		daily.Tags = append(daily.Tags, n.Tags...)
		data = daily
	}

	output, err := t.Execute(tmplName, data)
	if err != nil {
		removeCreatedArtifacts(path, n.VaultDir)
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		removeCreatedArtifacts(path, n.VaultDir)
		return "", fmt.Errorf("failed to write note: %w", err)
	}
	return path, nil
}

// CreateIfMissing resolves a wiki-link target to a path inside the vault,
// creating an empty-template note when none exists yet. The boolean reports
// whether a new file was created.
func CreateIfMissing(vaultDir string, t *templater.Templater, name string) (string, bool, error) {
	n := New(vaultDir, "", name, nil)

	exists, path, err := n.FileExists()
	if err != nil {
		return "", false, err
	}
	if exists {
		return path, false, nil
	}

	path, err = n.Create(templater.DefaultTemplate, t, "")
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// removeCreatedArtifacts deletes a partially created note and any empty
// directories left behind between it and the vault root.
func removeCreatedArtifacts(filePath, vaultDir string) {
	if filePath == "" {
		return
	}

	_ = os.Remove(filePath)

	vault := filepath.Clean(vaultDir)
	dir := filepath.Dir(filePath)
	for {
		if dir == vault {
			break
		}
		rel, err := filepath.Rel(vault, dir)
		if err != nil || strings.HasPrefix(rel, "..") || rel == "." {
			break
		}
		if err := os.Remove(dir); err != nil {
			break
		}
		dir = filepath.Dir(dir)
	}
}
