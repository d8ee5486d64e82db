package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/sorenpeters/nota/internal/buffer"
)

func newEditor(lines ...string) *Editor {
	return New(buffer.New("test.md", lines))
}

func typeString(e *Editor, s string) {
	for _, r := range s {
		if r == '\n' {
			e.InsertNewline()
			continue
		}
		e.TypeRune(r)
	}
}

func TestInsertCycleCommitsOneUndoGroup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		typed string
		want  []string
	}{
		{"single word", "hello", []string{"hello"}},
		{"with newline", "one\ntwo", []string{"one", "two"}},
		{"empty insert", "", []string{""}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := newEditor("")
			if err := e.Dispatch(ActionEnterInsert); err != nil {
				t.Fatalf("enter insert: %v", err)
			}
			typeString(e, tc.typed)
			if err := e.Dispatch(ActionEscape); err != nil {
				t.Fatalf("escape: %v", err)
			}
			if e.Mode() != ModeNormal {
				t.Fatalf("expected Normal mode after escape, got %v", e.Mode())
			}

			got := e.Document().Lines()
			if strings.Join(got, "\n") != strings.Join(tc.want, "\n") {
				t.Fatalf("unexpected content: %v want %v", got, tc.want)
			}

			err := e.Dispatch(ActionUndo)
			if tc.typed == "" {
				if !errors.Is(err, buffer.ErrNothingToUndo) {
					t.Fatalf("expected no group for empty insert, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("undo: %v", err)
			}
			if got := e.Document().Lines(); strings.Join(got, "\n") != "" {
				t.Fatalf("expected single undo to revert whole insert, got %v", got)
			}
			if cur := e.Document().Cursor(); cur != (buffer.Position{}) {
				t.Fatalf("expected cursor at pre-insert position, got %+v", cur)
			}

			if err := e.Dispatch(ActionRedo); err != nil {
				t.Fatalf("redo: %v", err)
			}
			if got := e.Document().Lines(); strings.Join(got, "\n") != strings.Join(tc.want, "\n") {
				t.Fatalf("expected redo to restore insert, got %v", got)
			}
		})
	}
}

func TestEnterInsertAppendAdvancesCursor(t *testing.T) {
	t.Parallel()

	e := newEditor("ab")
	if err := e.Dispatch(ActionEnterInsertAppend); err != nil {
		t.Fatalf("append: %v", err)
	}
	if cur := e.Document().Cursor(); cur != (buffer.Position{Row: 0, Col: 1}) {
		t.Fatalf("expected cursor advanced one column, got %+v", cur)
	}

	// Append at line end clamps to line length.
	e2 := newEditor("ab")
	e2.Document().SetCursor(buffer.Position{Row: 0, Col: 2})
	if err := e2.Dispatch(ActionEnterInsertAppend); err != nil {
		t.Fatalf("append at end: %v", err)
	}
	if cur := e2.Document().Cursor(); cur != (buffer.Position{Row: 0, Col: 2}) {
		t.Fatalf("expected clamped cursor, got %+v", cur)
	}
}

func TestEscapeMovesCursorBackUnlessAtLineStart(t *testing.T) {
	t.Parallel()

	e := newEditor("")
	e.Dispatch(ActionEnterInsert)
	typeString(e, "ab")
	e.Dispatch(ActionEscape)
	if cur := e.Document().Cursor(); cur != (buffer.Position{Row: 0, Col: 1}) {
		t.Fatalf("expected cursor back one column, got %+v", cur)
	}

	e2 := newEditor("", "x")
	e2.Dispatch(ActionEnterInsert)
	e2.Dispatch(ActionEscape)
	if cur := e2.Document().Cursor(); cur != (buffer.Position{Row: 0, Col: 0}) {
		t.Fatalf("expected cursor kept at line start, got %+v", cur)
	}
}

func TestMotionsClampWithinBounds(t *testing.T) {
	t.Parallel()

	e := newEditor("ab", "cdef")
	motions := []Action{
		ActionMoveLeft, ActionMoveUp, ActionMoveLeft, ActionMoveUp,
		ActionMoveDown, ActionMoveDown, ActionMoveDown,
		ActionMoveRight, ActionMoveRight, ActionMoveRight,
		ActionMoveRight, ActionMoveRight, ActionMoveRight,
		ActionLineEnd, ActionLineStart, ActionWordForward, ActionWordBack,
	}
	for _, m := range motions {
		if err := e.Dispatch(m); err != nil {
			t.Fatalf("motion %d returned error: %v", m, err)
		}
		cur := e.Document().Cursor()
		if cur.Row < 0 || cur.Row >= e.Document().LineCount() {
			t.Fatalf("row out of bounds after motion %d: %+v", m, cur)
		}
		if cur.Col < 0 || cur.Col > len(e.Document().Line(cur.Row)) {
			t.Fatalf("col out of bounds after motion %d: %+v", m, cur)
		}
	}
}

func TestWordMotions(t *testing.T) {
	t.Parallel()

	e := newEditor("foo bar-baz", "next")

	e.Dispatch(ActionWordForward)
	if cur := e.Document().Cursor(); cur != (buffer.Position{Row: 0, Col: 4}) {
		t.Fatalf("expected start of second word, got %+v", cur)
	}
	e.Dispatch(ActionWordForward)
	if cur := e.Document().Cursor(); cur != (buffer.Position{Row: 0, Col: 8}) {
		t.Fatalf("expected start of third word, got %+v", cur)
	}
	e.Dispatch(ActionWordForward)
	if cur := e.Document().Cursor(); cur != (buffer.Position{Row: 1, Col: 0}) {
		t.Fatalf("expected wrap to next line, got %+v", cur)
	}
	e.Dispatch(ActionWordBack)
	if cur := e.Document().Cursor(); cur != (buffer.Position{Row: 0, Col: 8}) {
		t.Fatalf("expected back to previous word start, got %+v", cur)
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	t.Parallel()

	e := newEditor("ab", "cd")
	e.Document().SetCursor(buffer.Position{Row: 1, Col: 0})
	e.Dispatch(ActionEnterInsert)
	e.Backspace()

	if got := strings.Join(e.Document().Lines(), "|"); got != "abcd" {
		t.Fatalf("expected backspace at line start to join lines, got %q", got)
	}
	if cur := e.Document().Cursor(); cur != (buffer.Position{Row: 0, Col: 2}) {
		t.Fatalf("expected cursor at join point, got %+v", cur)
	}
}

func TestDeleteCharClampsAtLineEnd(t *testing.T) {
	t.Parallel()

	e := newEditor("ab")
	e.Dispatch(ActionDeleteChar)
	if got := e.Document().Line(0); got != "b" {
		t.Fatalf("expected first rune removed, got %q", got)
	}

	e.Dispatch(ActionDeleteChar)
	if got := e.Document().Line(0); got != "" {
		t.Fatalf("expected line emptied, got %q", got)
	}

	// Deleting on an empty line clamps to a no-op.
	e.Dispatch(ActionDeleteChar)
	if got := e.Document().Line(0); got != "" {
		t.Fatalf("expected no-op on empty line, got %q", got)
	}
}

func TestToggleCheckbox(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line string
		want string
	}{
		{"check", "- [ ] buy milk", "- [x] buy milk"},
		{"uncheck", "  - [x] done", "  - [ ] done"},
		{"star marker", "* [ ] starred", "* [x] starred"},
		{"plain line untouched", "no checkbox here", "no checkbox here"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := newEditor(tc.line)
			e.Dispatch(ActionToggleCheckbox)
			if got := e.Document().Line(0); got != tc.want {
				t.Fatalf("toggle on %q = %q, want %q", tc.line, got, tc.want)
			}
		})
	}
}

func TestToggleCheckboxIsOneUndoGroup(t *testing.T) {
	t.Parallel()

	e := newEditor("- [ ] task")
	e.Dispatch(ActionToggleCheckbox)
	if err := e.Dispatch(ActionUndo); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := e.Document().Line(0); got != "- [ ] task" {
		t.Fatalf("expected single undo to revert toggle, got %q", got)
	}
}

func TestWikiLinkAt(t *testing.T) {
	t.Parallel()

	e := newEditor("see [[Other Note]] for details")
	e.Document().SetCursor(buffer.Position{Row: 0, Col: 8})
	link, ok := e.WikiLinkAt()
	if !ok || link != "Other Note" {
		t.Fatalf("expected wiki link under cursor, got %q ok=%v", link, ok)
	}

	e.Document().SetCursor(buffer.Position{Row: 0, Col: 0})
	if _, ok := e.WikiLinkAt(); ok {
		t.Fatalf("expected no link at column 0")
	}
}
