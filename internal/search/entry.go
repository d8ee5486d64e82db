package search

import (
	"sort"
	"time"

	"github.com/sorenpeters/nota/internal/parser"
)

// Entry is the indexed representation of one note file: its parsed metadata
// plus bookkeeping the index needs for resolution and snapshots.
type Entry struct {
	// Path is the canonical on-disk path of the note.
	Path string
	// Title is the note's first heading, else its filename stem.
	Title  string
	Tokens []string
	Tags   []string
	// Links holds the raw wiki-link targets referenced by the note.
	Links []string
	Tasks []parser.Task
	// Warning is non-empty when the file could not be read during a scan;
	// the entry is then empty but still present so the path stays known.
	Warning    string
	ModifiedAt time.Time
}

func (e Entry) clone() Entry {
	cloned := e
	cloned.Tokens = append([]string(nil), e.Tokens...)
	cloned.Tags = append([]string(nil), e.Tags...)
	cloned.Links = append([]string(nil), e.Links...)
	cloned.Tasks = append([]parser.Task(nil), e.Tasks...)
	return cloned
}

// TaskRef locates one unchecked task inside the workspace.
type TaskRef struct {
	Path string
	// Line is the 1-based line number of the task inside its file.
	Line     int
	Text     string
	Metadata parser.TaskMetadata
}

func sortTaskRefs(refs []TaskRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Path != refs[j].Path {
			return refs[i].Path < refs[j].Path
		}
		return refs[i].Line < refs[j].Line
	})
}
