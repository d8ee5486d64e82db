package parser

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	tagPattern      = regexp.MustCompile(`(^|\s)#([a-zA-Z][a-zA-Z0-9_-]*)`)
	wikiLinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	headingPattern  = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*$`)
	tokenPattern    = regexp.MustCompile(`[a-zA-Z0-9]+`)
)

const fenceMarker = "```"

// Note is the parsed, derived representation of one Markdown file: the data
// the workspace index keeps per entry.
type Note struct {
	// Title is the first ATX heading outside code fences, else the file stem.
	Title string
	// Tokens are the normalized (lowercased) words of the body, deduplicated.
	Tokens []string
	// Tags are inline #tag identifiers outside fenced code blocks, merged
	// with front matter tags, without the leading hash.
	Tags []string
	// Links are the [[Name]] wiki-link targets referenced by the note.
	Links []string
	// Tasks are checkbox list items in file order.
	Tasks []Task
}

// ParseNote derives a Note from raw file content. Malformed constructs are
// simply not recognized; parsing itself never fails.
func ParseNote(path string, source []byte) Note {
	fm, body := splitFrontMatter(source)

	note := Note{
		Tags:  parseFrontMatterTags(fm),
		Tasks: extractTasks(source),
	}

	lines := strings.Split(string(body), "\n")
	fenced := fencedLines(lines)

	tokens := make(map[string]struct{})
	tags := make(map[string]struct{})
	for _, t := range note.Tags {
		tags[t] = struct{}{}
	}
	links := make(map[string]struct{})

	for i, line := range lines {
		if fenced[i] {
			continue
		}

		if note.Title == "" {
			if m := headingPattern.FindStringSubmatch(line); m != nil {
				note.Title = m[1]
			}
		}

		for _, m := range tagPattern.FindAllStringSubmatch(line, -1) {
			tags[m[2]] = struct{}{}
		}
		for _, m := range wikiLinkPattern.FindAllStringSubmatch(line, -1) {
			target := strings.TrimSpace(m[1])
			if target != "" {
				links[target] = struct{}{}
			}
		}
		for _, tok := range tokenPattern.FindAllString(line, -1) {
			tokens[strings.ToLower(tok)] = struct{}{}
		}
	}

	if note.Title == "" {
		note.Title = Stem(path)
	}

	note.Tokens = setToSortedSlice(tokens)
	note.Tags = setToSortedSlice(tags)
	note.Links = setToSortedSlice(links)
	return note
}

// Stem returns the file name without directory or extension, used as the
// fallback note title and for wiki-link resolution.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// fencedLines marks which lines fall inside triple-backtick code fences.
// The fence marker lines themselves count as fenced so their content is
// never tokenized.
func fencedLines(lines []string) []bool {
	fenced := make([]bool, len(lines))
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, fenceMarker) {
			fenced[i] = true
			inFence = !inFence
			continue
		}
		fenced[i] = inFence
	}
	return fenced
}

func setToSortedSlice(values map[string]struct{}) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
