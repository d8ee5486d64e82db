package buffer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ErrNotFound signals that the requested note file does not exist.
var ErrNotFound = errors.New("note file not found")

// ErrNothingToUndo indicates an empty undo stack. Benign; callers may surface
// it as a status message or ignore it.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo indicates an empty redo stack.
var ErrNothingToRedo = errors.New("nothing to redo")

// Document is the in-memory editable representation of one open note file.
// It owns the line buffer, cursor, dirty flag, and the undo/redo log. A
// Document is single-owner: exactly one editor pane mutates it.
type Document struct {
	path   string
	lines  []string
	cursor Position
	dirty  bool

	undo []UndoGroup
	redo []UndoGroup
	// open buffers ops for the group in progress (insert mode). Nil when no
	// group is open; mutations then commit as singleton groups.
	open *UndoGroup
}

// New constructs a Document from raw lines. An empty slice becomes a single
// empty line so the cursor invariant always holds.
func New(path string, lines []string) *Document {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Document{path: path, lines: lines}
}

// Load reads the file at path into a Document. Missing files map to
// ErrNotFound; other read failures are wrapped I/O errors.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(path, strings.Split(string(data), "\n")), nil
}

// Save writes the line buffer back to the document's path and clears the
// dirty flag. Failures are returned to the caller and never retried here.
func (d *Document) Save() error {
	content := strings.Join(d.lines, "\n")
	if err := os.WriteFile(d.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	d.dirty = false
	return nil
}

// Path returns the backing file path.
func (d *Document) Path() string { return d.path }

// Dirty reports whether the buffer has unsaved edits.
func (d *Document) Dirty() bool { return d.dirty }

// LineCount returns the number of lines in the buffer, always at least one.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the content of the given row, or the empty string when the
// row is out of bounds.
func (d *Document) Line(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return d.lines[row]
}

// Lines returns a copy of the line buffer for rendering. Callers never see a
// live reference that could observe a mutation mid-edit.
func (d *Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// Cursor returns the current cursor position.
func (d *Document) Cursor() Position { return d.cursor }

// SetCursor moves the cursor, clamping to buffer bounds. Motions never fail.
func (d *Document) SetCursor(pos Position) {
	d.cursor = d.clamp(pos)
}

func (d *Document) clamp(pos Position) Position {
	if pos.Row < 0 {
		pos.Row = 0
	}
	if pos.Row >= len(d.lines) {
		pos.Row = len(d.lines) - 1
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	if max := len([]rune(d.lines[pos.Row])); pos.Col > max {
		pos.Col = max
	}
	return pos
}

// BeginGroup opens a new undo group. Subsequent mutations buffer into it
// until CommitGroup. An already-open group is committed first.
func (d *Document) BeginGroup() {
	d.CommitGroup()
	d.open = &UndoGroup{before: d.cursor}
}

// CommitGroup closes the open group, pushing it onto the undo stack as a
// single entry. A group with no ops is discarded. Reports whether a group
// was pushed.
func (d *Document) CommitGroup() bool {
	g := d.open
	d.open = nil
	if g == nil || len(g.ops) == 0 {
		return false
	}
	g.after = d.cursor
	d.undo = append(d.undo, *g)
	return true
}

// GroupOpen reports whether an undo group is currently buffering edits.
// Auto-save must not fire while this is true.
func (d *Document) GroupOpen() bool { return d.open != nil }

// InsertText inserts text (possibly spanning lines) at pos and leaves the
// cursor immediately after the inserted runes.
func (d *Document) InsertText(pos Position, text string) {
	if text == "" {
		return
	}
	pos = d.clamp(pos)
	prev := d.cursor
	d.applyInsert(pos, text)
	d.record(EditOp{kind: opInsert, pos: pos, text: text}, prev)
}

// DeleteRange removes the runes between start and end. Reversed bounds are
// normalized and out-of-range positions clamp rather than error. The cursor
// lands on start.
func (d *Document) DeleteRange(start, end Position) {
	start = d.clamp(start)
	end = d.clamp(end)
	if end.Less(start) {
		start, end = end, start
	}
	if start == end {
		return
	}
	prev := d.cursor
	removed := d.textInRange(start, end)
	d.applyDelete(start, removed)
	d.record(EditOp{kind: opDelete, pos: start, text: removed}, prev)
}

// SplitLine breaks the line at pos in two, moving the cursor to the start of
// the new line.
func (d *Document) SplitLine(pos Position) {
	pos = d.clamp(pos)
	prev := d.cursor
	d.applySplit(pos)
	d.record(EditOp{kind: opSplit, pos: pos}, prev)
}

// JoinLine appends line row+1 onto row. Joining the last line is a no-op.
func (d *Document) JoinLine(row int) {
	if row < 0 || row+1 >= len(d.lines) {
		return
	}
	prev := d.cursor
	pos := Position{Row: row, Col: len([]rune(d.lines[row]))}
	d.applyJoin(pos)
	d.record(EditOp{kind: opJoin, pos: pos}, prev)
}

// Undo reverses the most recent undo group, moving it to the redo stack and
// restoring the cursor to its pre-group position.
func (d *Document) Undo() error {
	d.CommitGroup()
	if len(d.undo) == 0 {
		return ErrNothingToUndo
	}
	g := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	for i := len(g.ops) - 1; i >= 0; i-- {
		d.invert(g.ops[i])
	}
	d.cursor = d.clamp(g.before)
	d.redo = append(d.redo, g)
	d.dirty = true
	return nil
}

// Redo reapplies the most recent undone group.
func (d *Document) Redo() error {
	if len(d.redo) == 0 {
		return ErrNothingToRedo
	}
	g := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	for _, op := range g.ops {
		d.apply(op)
	}
	d.cursor = d.clamp(g.after)
	d.undo = append(d.undo, g)
	d.dirty = true
	return nil
}

// record books an applied op into the open group, or commits it as a
// singleton group when none is open. Any redoable history is invalidated.
func (d *Document) record(op EditOp, before Position) {
	d.redo = nil
	d.dirty = true
	if d.open != nil {
		d.open.ops = append(d.open.ops, op)
		return
	}
	d.undo = append(d.undo, UndoGroup{
		ops:    []EditOp{op},
		before: before,
		after:  d.cursor,
	})
}

func (d *Document) apply(op EditOp) {
	switch op.kind {
	case opInsert:
		d.applyInsert(op.pos, op.text)
	case opDelete:
		d.applyDelete(op.pos, op.text)
	case opSplit:
		d.applySplit(op.pos)
	case opJoin:
		d.applyJoin(op.pos)
	}
}

func (d *Document) invert(op EditOp) {
	switch op.kind {
	case opInsert:
		d.applyDelete(op.pos, op.text)
	case opDelete:
		d.applyInsert(op.pos, op.text)
	case opSplit:
		d.applyJoin(op.pos)
	case opJoin:
		d.applySplit(op.pos)
	}
}

func (d *Document) applyInsert(pos Position, text string) {
	line := []rune(d.lines[pos.Row])
	head := string(line[:pos.Col])
	tail := string(line[pos.Col:])

	segments := strings.Split(text, "\n")
	if len(segments) == 1 {
		d.lines[pos.Row] = head + text + tail
	} else {
		inserted := make([]string, len(segments))
		copy(inserted, segments)
		inserted[0] = head + inserted[0]
		inserted[len(inserted)-1] += tail

		rebuilt := make([]string, 0, len(d.lines)+len(inserted)-1)
		rebuilt = append(rebuilt, d.lines[:pos.Row]...)
		rebuilt = append(rebuilt, inserted...)
		rebuilt = append(rebuilt, d.lines[pos.Row+1:]...)
		d.lines = rebuilt
	}
	d.cursor = endOf(pos, text)
}

func (d *Document) applyDelete(start Position, text string) {
	end := endOf(start, text)
	startLine := []rune(d.lines[start.Row])
	endLine := []rune(d.lines[end.Row])
	head := string(startLine[:start.Col])
	tail := string(endLine[end.Col:])

	rebuilt := make([]string, 0, len(d.lines)-(end.Row-start.Row))
	rebuilt = append(rebuilt, d.lines[:start.Row]...)
	rebuilt = append(rebuilt, head+tail)
	rebuilt = append(rebuilt, d.lines[end.Row+1:]...)
	d.lines = rebuilt
	d.cursor = start
}

func (d *Document) applySplit(pos Position) {
	line := []rune(d.lines[pos.Row])
	head := string(line[:pos.Col])
	tail := string(line[pos.Col:])

	rebuilt := make([]string, 0, len(d.lines)+1)
	rebuilt = append(rebuilt, d.lines[:pos.Row]...)
	rebuilt = append(rebuilt, head, tail)
	rebuilt = append(rebuilt, d.lines[pos.Row+1:]...)
	d.lines = rebuilt
	d.cursor = Position{Row: pos.Row + 1, Col: 0}
}

func (d *Document) applyJoin(pos Position) {
	rebuilt := make([]string, 0, len(d.lines)-1)
	rebuilt = append(rebuilt, d.lines[:pos.Row]...)
	rebuilt = append(rebuilt, d.lines[pos.Row]+d.lines[pos.Row+1])
	rebuilt = append(rebuilt, d.lines[pos.Row+2:]...)
	d.lines = rebuilt
	d.cursor = pos
}

// textInRange extracts the runes between start and end, with "\n" separating
// lines. Bounds are assumed normalized and clamped.
func (d *Document) textInRange(start, end Position) string {
	if start.Row == end.Row {
		line := []rune(d.lines[start.Row])
		return string(line[start.Col:end.Col])
	}

	var b strings.Builder
	first := []rune(d.lines[start.Row])
	b.WriteString(string(first[start.Col:]))
	for row := start.Row + 1; row < end.Row; row++ {
		b.WriteString("\n")
		b.WriteString(d.lines[row])
	}
	last := []rune(d.lines[end.Row])
	b.WriteString("\n")
	b.WriteString(string(last[:end.Col]))
	return b.String()
}
