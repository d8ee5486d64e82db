// Package templater renders the built-in and user-provided note templates.
package templater

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

//go:embed templates
var embeddedTemplates embed.FS

// DefaultTemplate is used when note creation does not name one.
const DefaultTemplate = "empty"

// TemplateData is the structure passed to templates during rendering.
type TemplateData struct {
	Title   string
	Date    string
	Content string
	Tags    []string
}

// Templater holds the loaded template set. User templates from
// ~/.nota/templates take precedence over the embedded ones.
type Templater struct {
	templates map[string]string
}

// NewTemplater loads user templates first, then fills in the embedded set.
func NewTemplater() (*Templater, error) {
	templates := make(map[string]string)

	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	userTemplateDir := filepath.Join(userHomeDir, ".nota", "templates")
	if _, statErr := os.Stat(userTemplateDir); statErr == nil {
		if err := loadUserTemplates(templates, userTemplateDir); err != nil {
			return nil, err
		}
	}

	if err := loadEmbeddedTemplates(templates); err != nil {
		return nil, err
	}
	return &Templater{templates: templates}, nil
}

// Names lists the available template names, sorted.
func (t *Templater) Names() []string {
	names := make([]string, 0, len(t.templates))
	for name := range t.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a template with the given name is loaded.
func (t *Templater) Has(name string) bool {
	_, ok := t.templates[name]
	return ok
}

// Execute renders the named template with the provided data.
func (t *Templater) Execute(name string, data TemplateData) (string, error) {
	content, ok := t.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return "", err
	}

	if data.Date == "" {
		data.Date = time.Now().Format("2006-01-02")
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// DailyData builds the canonical data for a daily note: the date as title
// plus weekday and hour tags.
func DailyData(now time.Time) TemplateData {
	day := strings.ToLower(now.Weekday().String())
	hour := fmt.Sprintf("%02dh", now.Hour())
	return TemplateData{
		Title: now.Format("2006-01-02"),
		Date:  now.Format("2006-01-02"),
		Tags:  []string{"daily", day, hour},
	}
}

func loadEmbeddedTemplates(templates map[string]string) error {
	return fs.WalkDir(
		embeddedTemplates,
		"templates",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			if _, exists := templates[name]; exists {
				return nil
			}
			data, err := fs.ReadFile(embeddedTemplates, path)
			if err != nil {
				return err
			}
			templates[name] = string(data)
			return nil
		},
	)
}

func loadUserTemplates(templates map[string]string, dirPath string) error {
	return filepath.Walk(
		dirPath,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".tmpl" {
				return nil
			}

			name := strings.TrimSuffix(info.Name(), filepath.Ext(info.Name()))
			if _, exists := templates[name]; exists {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			templates[name] = string(data)
			return nil
		},
	)
}
