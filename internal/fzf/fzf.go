// Package fzf wraps the interactive fuzzy finder used by `nota find`,
// listing indexed notes with a rendered Markdown preview.
package fzf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/sorenpeters/nota/internal/cache"
	"github.com/sorenpeters/nota/internal/search"
)

// ErrNoSelection is returned when the picker is dismissed without a choice.
var ErrNoSelection = errors.New("no note selected")

type previewKey struct {
	path string
	wrap int
}

// FuzzyFinder drives interactive selection over an index snapshot.
type FuzzyFinder struct {
	Header   string
	entries  []search.Entry
	previews *cache.LRU[previewKey, string]
}

// NewFuzzyFinder builds a finder over the entries of an index snapshot.
func NewFuzzyFinder(idx *search.Index, header string) *FuzzyFinder {
	return &FuzzyFinder{
		Header:   header,
		entries:  idx.Entries(),
		previews: cache.New[previewKey, string](128),
	}
}

// Run opens the picker, optionally pre-filled with a query, and returns the
// selected note path.
func (f *FuzzyFinder) Run(query string) (string, error) {
	if len(f.entries) == 0 {
		return "", ErrNoSelection
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := fuzzyfinder.Find(f.entries, func(i int) string {
		return f.label(i)
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrNoSelection
		}
		return "", fmt.Errorf("select note: %w", err)
	}

	return f.entries[idx].Path, nil
}

func (f *FuzzyFinder) label(i int) string {
	entry := f.entries[i]
	if len(entry.Tags) == 0 {
		return fmt.Sprintf("%s [No tags]", entry.Title)
	}
	return fmt.Sprintf("%s [Tags: %s]", entry.Title, strings.Join(entry.Tags, ", "))
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	wrap := w
	if wrap <= 0 || wrap > 100 {
		wrap = 100
	}

	// Rendering is memoized per picker session so scrolling back over an
	// entry does not re-run glamour.
	key := previewKey{path: f.entries[i].Path, wrap: wrap}
	if rendered, ok := f.previews.Get(key); ok {
		return rendered
	}

	content, err := os.ReadFile(f.entries[i].Path)
	if err != nil {
		return "Error reading file"
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	markdown, err := r.Render(string(content))
	if err != nil {
		return "Error rendering markdown"
	}
	f.previews.Put(key, markdown)
	return markdown
}
