package parser

import (
	"testing"
	"time"
)

func TestParseNoteRoundTrip(t *testing.T) {
	t.Parallel()

	source := []byte("# Groceries\n\nRemember #work items.\n\n- [ ] buy milk\n\nSee [[Other Note]].\n")
	note := ParseNote("groceries.md", source)

	if note.Title != "Groceries" {
		t.Fatalf("unexpected title: %q", note.Title)
	}
	if !contains(note.Tags, "work") {
		t.Fatalf("expected tag 'work', got %v", note.Tags)
	}
	if len(note.Tasks) != 1 || note.Tasks[0].Text != "buy milk" || note.Tasks[0].Checked {
		t.Fatalf("unexpected tasks: %+v", note.Tasks)
	}
	if len(note.Links) != 1 || note.Links[0] != "Other Note" {
		t.Fatalf("unexpected links: %v", note.Links)
	}
}

func TestParseNoteTitleFallsBackToStem(t *testing.T) {
	t.Parallel()

	note := ParseNote("notes/daily standup.md", []byte("no heading here\n"))
	if note.Title != "daily standup" {
		t.Fatalf("expected stem title, got %q", note.Title)
	}
}

func TestParseNoteIgnoresFencedCodeBlocks(t *testing.T) {
	t.Parallel()

	source := []byte("# Snippets\n\n#real tag\n\n```sh\necho #fake\ngrep pattern\n```\n\ndone\n")
	note := ParseNote("snippets.md", source)

	if !contains(note.Tags, "real") {
		t.Fatalf("expected #real to be extracted, got %v", note.Tags)
	}
	if contains(note.Tags, "fake") {
		t.Fatalf("expected #fake inside fence to be ignored, got %v", note.Tags)
	}
	if contains(note.Tokens, "grep") {
		t.Fatalf("expected fenced content to be skipped for tokens, got %v", note.Tokens)
	}
	if !contains(note.Tokens, "done") {
		t.Fatalf("expected body tokens, got %v", note.Tokens)
	}
}

func TestParseNoteTaskLineNumbersAndStatus(t *testing.T) {
	t.Parallel()

	source := []byte("# Tasks\n\n- [ ] first\n- [x] second\n  - [ ] nested\n")
	note := ParseNote("tasks.md", source)

	if len(note.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %+v", note.Tasks)
	}

	want := []struct {
		line    int
		text    string
		checked bool
	}{
		{3, "first", false},
		{4, "second", true},
		{5, "nested", false},
	}
	for i, w := range want {
		task := note.Tasks[i]
		if task.Line != w.line || task.Text != w.text || task.Checked != w.checked {
			t.Fatalf("task %d = %+v, want %+v", i, task, w)
		}
	}
}

func TestParseNoteFrontMatterTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		source string
		want   []string
	}{
		{
			"sequence form",
			"---\ntags:\n  - alpha\n  - beta\n---\nbody\n",
			[]string{"alpha", "beta"},
		},
		{
			"scalar form",
			"---\ntags: alpha, beta\n---\nbody\n",
			[]string{"alpha", "beta"},
		},
		{
			"merged with inline tags",
			"---\ntags: [alpha]\n---\nbody with #beta\n",
			[]string{"alpha", "beta"},
		},
		{
			"invalid yaml degrades",
			"---\ntags: [unclosed\n: bad\n---\nbody with #gamma\n",
			[]string{"gamma"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			note := ParseNote("note.md", []byte(tc.source))
			for _, tag := range tc.want {
				if !contains(note.Tags, tag) {
					t.Fatalf("expected tag %q in %v", tag, note.Tags)
				}
			}
		})
	}
}

func TestParseNoteMalformedConstructsDegrade(t *testing.T) {
	t.Parallel()

	source := []byte("[[unclosed link\n- [?] not a task\n#9starts-with-digit\n")
	note := ParseNote("odd.md", source)

	if len(note.Links) != 0 {
		t.Fatalf("expected no links, got %v", note.Links)
	}
	if len(note.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %+v", note.Tasks)
	}
	if len(note.Tags) != 0 {
		t.Fatalf("expected no tags, got %v", note.Tags)
	}
}

func TestExtractTaskMetadata(t *testing.T) {
	t.Parallel()

	cleaned, meta := ExtractTaskMetadata("review draft @due(2024-03-01) @priority(High) @owner(sam) [[Plan]]")

	if cleaned != "review draft" {
		t.Fatalf("unexpected cleaned text: %q", cleaned)
	}
	if meta.DueDate == nil || !meta.DueDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", meta.DueDate)
	}
	if meta.Priority != "high" {
		t.Fatalf("unexpected priority: %q", meta.Priority)
	}
	if meta.Owner != "sam" {
		t.Fatalf("unexpected owner: %q", meta.Owner)
	}
	if len(meta.References) != 1 || meta.References[0] != "Plan" {
		t.Fatalf("unexpected references: %v", meta.References)
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
