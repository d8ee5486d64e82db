package editor

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sorenpeters/nota/internal/buffer"
)

// Mode is the editor's modal state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// Action is an abstract editing command. Keybinding strings are resolved to
// Actions by the keymap package so the editor never parses input descriptors.
type Action int

const (
	ActionNone Action = iota
	ActionEnterInsert
	ActionEnterInsertAppend
	ActionEscape
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionWordForward
	ActionWordBack
	ActionLineStart
	ActionLineEnd
	ActionDeleteChar
	ActionJoinLines
	ActionToggleCheckbox
	ActionUndo
	ActionRedo
	ActionSave
	ActionLeave
)

var (
	uncheckedRe = regexp.MustCompile(`^(\s*[-*]\s+)\[\s?\]`)
	checkedRe   = regexp.MustCompile(`^(\s*[-*]\s+)\[[xX]\]`)
)

// Editor drives a single Document through a Normal/Insert state machine,
// translating Actions into buffer mutations and grouping insert-mode edits
// into one undo unit per Normal->Insert->Normal cycle.
type Editor struct {
	doc  *buffer.Document
	mode Mode
}

// New wraps a document in an editor starting in Normal mode.
func New(doc *buffer.Document) *Editor {
	return &Editor{doc: doc, mode: ModeNormal}
}

// Document exposes the underlying document for read access and persistence.
func (e *Editor) Document() *buffer.Document { return e.doc }

// Mode returns the current modal state.
func (e *Editor) Mode() Mode { return e.mode }

// Dispatch applies an abstract action. Motions and mode transitions never
// fail; only save-backed actions surface errors.
func (e *Editor) Dispatch(action Action) error {
	switch action {
	case ActionEnterInsert:
		e.enterInsert(false)
	case ActionEnterInsertAppend:
		e.enterInsert(true)
	case ActionEscape:
		e.escape()
	case ActionMoveLeft:
		e.moveCursor(0, -1)
	case ActionMoveRight:
		e.moveCursor(0, 1)
	case ActionMoveUp:
		e.moveCursor(-1, 0)
	case ActionMoveDown:
		e.moveCursor(1, 0)
	case ActionWordForward:
		e.wordForward()
	case ActionWordBack:
		e.wordBack()
	case ActionLineStart:
		cur := e.doc.Cursor()
		e.doc.SetCursor(buffer.Position{Row: cur.Row, Col: 0})
	case ActionLineEnd:
		cur := e.doc.Cursor()
		line := e.doc.Line(cur.Row)
		e.doc.SetCursor(buffer.Position{Row: cur.Row, Col: len([]rune(line))})
	case ActionDeleteChar:
		e.deleteChar()
	case ActionJoinLines:
		e.doc.JoinLine(e.doc.Cursor().Row)
	case ActionToggleCheckbox:
		e.toggleCheckbox()
	case ActionUndo:
		return e.doc.Undo()
	case ActionRedo:
		return e.doc.Redo()
	case ActionSave:
		return e.doc.Save()
	case ActionLeave:
		return e.Leave()
	}
	return nil
}

// TypeRune inserts a character while in Insert mode. Outside Insert mode the
// input is ignored.
func (e *Editor) TypeRune(r rune) {
	if e.mode != ModeInsert {
		return
	}
	e.doc.InsertText(e.doc.Cursor(), string(r))
}

// InsertNewline splits the current line at the cursor in Insert mode.
func (e *Editor) InsertNewline() {
	if e.mode != ModeInsert {
		return
	}
	e.doc.SplitLine(e.doc.Cursor())
}

// Backspace removes the rune before the cursor in Insert mode, joining with
// the previous line at column zero. At the buffer start it does nothing.
func (e *Editor) Backspace() {
	if e.mode != ModeInsert {
		return
	}
	cur := e.doc.Cursor()
	if cur.Col > 0 {
		e.doc.DeleteRange(buffer.Position{Row: cur.Row, Col: cur.Col - 1}, cur)
		return
	}
	if cur.Row == 0 {
		return
	}
	prevLen := len([]rune(e.doc.Line(cur.Row - 1)))
	e.doc.JoinLine(cur.Row - 1)
	e.doc.SetCursor(buffer.Position{Row: cur.Row - 1, Col: prevLen})
}

// Leave exits the editing session, saving first when the buffer is dirty.
// Save failures propagate to the caller rather than discarding edits.
func (e *Editor) Leave() error {
	if e.mode == ModeInsert {
		e.escape()
	}
	if e.doc.Dirty() {
		return e.doc.Save()
	}
	return nil
}

func (e *Editor) enterInsert(after bool) {
	if e.mode == ModeInsert {
		return
	}
	if after {
		cur := e.doc.Cursor()
		e.doc.SetCursor(buffer.Position{Row: cur.Row, Col: cur.Col + 1})
	}
	e.doc.BeginGroup()
	e.mode = ModeInsert
}

func (e *Editor) escape() {
	if e.mode != ModeInsert {
		return
	}
	e.doc.CommitGroup()
	e.mode = ModeNormal
	cur := e.doc.Cursor()
	if cur.Col > 0 {
		e.doc.SetCursor(buffer.Position{Row: cur.Row, Col: cur.Col - 1})
	}
}

func (e *Editor) moveCursor(dRow, dCol int) {
	cur := e.doc.Cursor()
	e.doc.SetCursor(buffer.Position{Row: cur.Row + dRow, Col: cur.Col + dCol})
}

// wordForward advances to the start of the next word, wrapping to following
// lines and clamping at the end of the buffer.
func (e *Editor) wordForward() {
	cur := e.doc.Cursor()
	line := []rune(e.doc.Line(cur.Row))
	col := cur.Col

	// Skip the rest of the current word, then any separators.
	for col < len(line) && isWordRune(line[col]) {
		col++
	}
	for col < len(line) && !isWordRune(line[col]) {
		col++
	}
	if col < len(line) {
		e.doc.SetCursor(buffer.Position{Row: cur.Row, Col: col})
		return
	}

	for row := cur.Row + 1; row < e.doc.LineCount(); row++ {
		next := []rune(e.doc.Line(row))
		for i, r := range next {
			if isWordRune(r) {
				e.doc.SetCursor(buffer.Position{Row: row, Col: i})
				return
			}
		}
	}
	e.doc.SetCursor(buffer.Position{Row: cur.Row, Col: len(line)})
}

// wordBack moves to the start of the previous word, wrapping to earlier
// lines and clamping at the start of the buffer.
func (e *Editor) wordBack() {
	cur := e.doc.Cursor()
	row, col := cur.Row, cur.Col

	for {
		line := []rune(e.doc.Line(row))
		if col > len(line) {
			col = len(line)
		}
		// Step over separators before the cursor.
		for col > 0 && !isWordRune(line[col-1]) {
			col--
		}
		if col > 0 {
			for col > 0 && isWordRune(line[col-1]) {
				col--
			}
			e.doc.SetCursor(buffer.Position{Row: row, Col: col})
			return
		}
		if row == 0 {
			e.doc.SetCursor(buffer.Position{Row: 0, Col: 0})
			return
		}
		row--
		col = len([]rune(e.doc.Line(row)))
	}
}

// deleteChar removes the rune under the cursor, clamping at line end.
func (e *Editor) deleteChar() {
	cur := e.doc.Cursor()
	line := []rune(e.doc.Line(cur.Row))
	if cur.Col >= len(line) {
		return
	}
	e.doc.DeleteRange(cur, buffer.Position{Row: cur.Row, Col: cur.Col + 1})
	e.doc.SetCursor(cur)
}

// toggleCheckbox flips a `- [ ]` / `- [x]` marker on the cursor line. Lines
// without a checkbox are left untouched.
func (e *Editor) toggleCheckbox() {
	cur := e.doc.Cursor()
	line := e.doc.Line(cur.Row)

	var replaced string
	switch {
	case uncheckedRe.MatchString(line):
		replaced = uncheckedRe.ReplaceAllString(line, "${1}[x]")
	case checkedRe.MatchString(line):
		replaced = checkedRe.ReplaceAllString(line, "${1}[ ]")
	default:
		return
	}

	e.doc.BeginGroup()
	e.doc.DeleteRange(
		buffer.Position{Row: cur.Row, Col: 0},
		buffer.Position{Row: cur.Row, Col: len([]rune(line))},
	)
	e.doc.InsertText(buffer.Position{Row: cur.Row, Col: 0}, replaced)
	e.doc.CommitGroup()
	e.doc.SetCursor(cur)
}

// WikiLinkAt returns the `[[Name]]` target covering the cursor column on the
// cursor line, if any.
func (e *Editor) WikiLinkAt() (string, bool) {
	cur := e.doc.Cursor()
	line := e.doc.Line(cur.Row)
	for _, loc := range wikiLinkRe.FindAllStringSubmatchIndex(line, -1) {
		start := len([]rune(line[:loc[0]]))
		end := len([]rune(line[:loc[1]]))
		if cur.Col >= start && cur.Col <= end {
			return strings.TrimSpace(line[loc[2]:loc[3]]), true
		}
	}
	return "", false
}

var wikiLinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
