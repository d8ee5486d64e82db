package search

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchKind records which part of a note a search result matched on.
// Filename matches always rank above content matches regardless of score.
type MatchKind int

const (
	MatchFilename MatchKind = iota
	MatchContent
	MatchTag
)

func (k MatchKind) String() string {
	switch k {
	case MatchFilename:
		return "filename"
	case MatchContent:
		return "content"
	case MatchTag:
		return "tag"
	default:
		return "unknown"
	}
}

// SearchResult is one ranked hit for a query.
type SearchResult struct {
	Path  string
	Title string
	Kind  MatchKind
	Score int
	// MatchedIndexes are rune offsets of the matched characters, used for
	// highlighting: into the workspace-relative path for filename matches,
	// into the title-plus-tokens text for content matches. Tag matches are
	// exact and carry none.
	MatchedIndexes []int
}

// Search ranks the indexed notes against a fuzzy query. Every entry gets a
// filename pass first and a content pass second; an entry appears at most
// once, under its best kind. Queries starting with '#' switch to tag
// filtering instead. An empty query yields no results.
func (idx *Index) Search(query string) []SearchResult {
	term := strings.TrimSpace(query)
	if term == "" || len(idx.entries) == 0 {
		return nil
	}

	if strings.HasPrefix(term, "#") {
		return idx.searchByTag(strings.TrimPrefix(term, "#"))
	}

	results := make([]SearchResult, 0, len(idx.entries))
	for path, entry := range idx.entries {
		rel := idx.relPath(path)

		if matches := fuzzy.Find(term, []string{rel}); len(matches) > 0 {
			results = append(results, SearchResult{
				Path:           path,
				Title:          entry.Title,
				Kind:           MatchFilename,
				Score:          matches[0].Score,
				MatchedIndexes: append([]int(nil), matches[0].MatchedIndexes...),
			})
			continue
		}

		if !idx.cfg.EnableBody {
			continue
		}
		if matches := fuzzy.Find(term, []string{entry.searchableText()}); len(matches) > 0 {
			results = append(results, SearchResult{
				Path:           path,
				Title:          entry.Title,
				Kind:           MatchContent,
				Score:          matches[0].Score,
				MatchedIndexes: append([]int(nil), matches[0].MatchedIndexes...),
			})
		}
	}

	sortResults(results)
	return results
}

func (idx *Index) searchByTag(tag string) []SearchResult {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}

	var results []SearchResult
	for path, entry := range idx.entries {
		for _, candidate := range entry.Tags {
			if strings.EqualFold(candidate, tag) {
				results = append(results, SearchResult{
					Path:  path,
					Title: entry.Title,
					Kind:  MatchTag,
				})
				break
			}
		}
	}

	sortResults(results)
	return results
}

// sortResults orders by kind first, then score descending, then path so
// equal scores still produce a deterministic listing.
func sortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Kind != results[j].Kind {
			return results[i].Kind < results[j].Kind
		}
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Path < results[j].Path
	})
}

func (idx *Index) relPath(path string) string {
	rel, err := filepath.Rel(idx.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (e Entry) searchableText() string {
	parts := make([]string, 0, 1+len(e.Tokens))
	parts = append(parts, e.Title)
	parts = append(parts, e.Tokens...)
	return strings.Join(parts, " ")
}
