package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileReturnsNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.md"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadThenSaveIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	content := "# Title\n\nbody line\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.Dirty() {
		t.Fatalf("expected freshly loaded document to be clean")
	}

	if err := doc.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if doc.Dirty() {
		t.Fatalf("expected document to stay clean after save")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != content {
		t.Fatalf("expected file bytes unchanged, got %q want %q", got, content)
	}
}

func TestInsertTextRepositionsCursorAndMarksDirty(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"hello world"})
	doc.InsertText(Position{Row: 0, Col: 5}, ",")

	if got := doc.Line(0); got != "hello, world" {
		t.Fatalf("unexpected line after insert: %q", got)
	}
	if got := doc.Cursor(); got != (Position{Row: 0, Col: 6}) {
		t.Fatalf("expected cursor after inserted text, got %+v", got)
	}
	if !doc.Dirty() {
		t.Fatalf("expected dirty flag after insert")
	}
}

func TestInsertTextSpanningLines(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"headtail"})
	doc.InsertText(Position{Row: 0, Col: 4}, "one\ntwo")

	want := []string{"headone", "twotail"}
	if got := doc.Lines(); !equalLines(got, want) {
		t.Fatalf("unexpected lines: %v want %v", got, want)
	}
	if got := doc.Cursor(); got != (Position{Row: 1, Col: 3}) {
		t.Fatalf("unexpected cursor: %+v", got)
	}
}

func TestDeleteRangeAcrossLines(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"alpha", "beta", "gamma"})
	doc.DeleteRange(Position{Row: 0, Col: 3}, Position{Row: 2, Col: 2})

	if got := doc.Lines(); !equalLines(got, []string{"alpmma"}) {
		t.Fatalf("unexpected lines after delete: %v", got)
	}
	if got := doc.Cursor(); got != (Position{Row: 0, Col: 3}) {
		t.Fatalf("expected cursor at range start, got %+v", got)
	}
}

func TestDeleteRangeClampsAndNormalizes(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"short"})
	// Reversed and out-of-range bounds clamp rather than error.
	doc.DeleteRange(Position{Row: 9, Col: 9}, Position{Row: 0, Col: 2})

	if got := doc.Line(0); got != "sh" {
		t.Fatalf("unexpected line after clamped delete: %q", got)
	}
}

func TestSplitAndJoinLine(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"hello world"})
	doc.SplitLine(Position{Row: 0, Col: 5})
	if got := doc.Lines(); !equalLines(got, []string{"hello", " world"}) {
		t.Fatalf("unexpected lines after split: %v", got)
	}
	if got := doc.Cursor(); got != (Position{Row: 1, Col: 0}) {
		t.Fatalf("unexpected cursor after split: %+v", got)
	}

	doc.JoinLine(0)
	if got := doc.Lines(); !equalLines(got, []string{"hello world"}) {
		t.Fatalf("unexpected lines after join: %v", got)
	}
}

func TestJoinLastLineIsNoOp(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"only"})
	doc.JoinLine(0)
	if got := doc.Lines(); !equalLines(got, []string{"only"}) {
		t.Fatalf("expected join on last line to be a no-op, got %v", got)
	}
	if doc.Dirty() {
		t.Fatalf("no-op join should not dirty the buffer")
	}
}

func TestUndoRedoSingleOps(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"abc"})
	doc.InsertText(Position{Row: 0, Col: 3}, "def")
	doc.SplitLine(Position{Row: 0, Col: 3})

	if err := doc.Undo(); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if got := doc.Lines(); !equalLines(got, []string{"abcdef"}) {
		t.Fatalf("unexpected lines after first undo: %v", got)
	}

	if err := doc.Undo(); err != nil {
		t.Fatalf("second Undo returned error: %v", err)
	}
	if got := doc.Lines(); !equalLines(got, []string{"abc"}) {
		t.Fatalf("unexpected lines after second undo: %v", got)
	}

	if err := doc.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}

	if err := doc.Redo(); err != nil {
		t.Fatalf("Redo returned error: %v", err)
	}
	if err := doc.Redo(); err != nil {
		t.Fatalf("second Redo returned error: %v", err)
	}
	if got := doc.Lines(); !equalLines(got, []string{"abc", "def"}) {
		t.Fatalf("unexpected lines after redo: %v", got)
	}

	if err := doc.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestGroupedEditsUndoAsOneUnit(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{""})
	doc.BeginGroup()
	for _, r := range "hello" {
		cur := doc.Cursor()
		doc.InsertText(cur, string(r))
	}
	doc.SplitLine(doc.Cursor())
	for _, r := range "world" {
		doc.InsertText(doc.Cursor(), string(r))
	}
	if !doc.CommitGroup() {
		t.Fatalf("expected CommitGroup to push a group")
	}

	if got := doc.Lines(); !equalLines(got, []string{"hello", "world"}) {
		t.Fatalf("unexpected lines before undo: %v", got)
	}

	if err := doc.Undo(); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if got := doc.Lines(); !equalLines(got, []string{""}) {
		t.Fatalf("expected single undo to revert the whole group, got %v", got)
	}
	if got := doc.Cursor(); got != (Position{Row: 0, Col: 0}) {
		t.Fatalf("expected cursor restored to group start, got %+v", got)
	}

	if err := doc.Redo(); err != nil {
		t.Fatalf("Redo returned error: %v", err)
	}
	if got := doc.Lines(); !equalLines(got, []string{"hello", "world"}) {
		t.Fatalf("expected redo to restore the whole group, got %v", got)
	}
	if got := doc.Cursor(); got != (Position{Row: 1, Col: 5}) {
		t.Fatalf("expected cursor restored past group end, got %+v", got)
	}
}

func TestEmptyGroupCommitsNothing(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"abc"})
	doc.BeginGroup()
	if doc.CommitGroup() {
		t.Fatalf("expected empty group to be discarded")
	}
	if err := doc.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo after empty group, got %v", err)
	}
}

func TestMutationClearsRedoStack(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"abc"})
	doc.InsertText(Position{Row: 0, Col: 3}, "x")
	if err := doc.Undo(); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}

	doc.InsertText(Position{Row: 0, Col: 0}, "y")
	if err := doc.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("expected new edit to clear redo stack, got %v", err)
	}
}

func TestSetCursorClampsToBounds(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"ab", "cdef"})
	cases := []struct {
		in   Position
		want Position
	}{
		{Position{Row: -5, Col: -5}, Position{Row: 0, Col: 0}},
		{Position{Row: 0, Col: 99}, Position{Row: 0, Col: 2}},
		{Position{Row: 99, Col: 1}, Position{Row: 1, Col: 1}},
		{Position{Row: 1, Col: 4}, Position{Row: 1, Col: 4}},
	}
	for _, tc := range cases {
		doc.SetCursor(tc.in)
		if got := doc.Cursor(); got != tc.want {
			t.Fatalf("SetCursor(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestTextRoundTripsThroughUndo(t *testing.T) {
	t.Parallel()

	doc := New("test.md", []string{"alpha", "beta", "gamma"})
	original := strings.Join(doc.Lines(), "\n")

	doc.DeleteRange(Position{Row: 0, Col: 2}, Position{Row: 2, Col: 3})
	if err := doc.Undo(); err != nil {
		t.Fatalf("Undo returned error: %v", err)
	}
	if got := strings.Join(doc.Lines(), "\n"); got != original {
		t.Fatalf("expected undo to restore original content, got %q", got)
	}
}

func equalLines(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
