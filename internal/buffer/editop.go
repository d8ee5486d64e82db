package buffer

import "strings"

// Position addresses a rune offset within the document as a row/column pair.
// Col is measured in runes from the start of the line and may equal the line
// length (cursor past the last rune).
type Position struct {
	Row int
	Col int
}

// Less reports whether p precedes q in document order.
func (p Position) Less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

type opKind int

const (
	opInsert opKind = iota
	opDelete
	opSplit
	opJoin
)

// EditOp is a single invertible mutation of the line buffer. Ops are plain
// value records kept in a flat log so undo and redo are slice operations.
type EditOp struct {
	kind opKind
	pos  Position
	// text holds the inserted or removed runes for opInsert/opDelete. It may
	// span lines, with "\n" separating the segments.
	text string
}

// UndoGroup is an ordered run of EditOps committed as one undo/redo unit,
// along with the cursor positions bracketing the group.
type UndoGroup struct {
	ops    []EditOp
	before Position
	after  Position
}

// Len returns the number of ops in the group.
func (g UndoGroup) Len() int { return len(g.ops) }

// endOf computes the position immediately after text inserted at pos.
func endOf(pos Position, text string) Position {
	segments := strings.Split(text, "\n")
	if len(segments) == 1 {
		return Position{Row: pos.Row, Col: pos.Col + len([]rune(text))}
	}
	last := segments[len(segments)-1]
	return Position{
		Row: pos.Row + len(segments) - 1,
		Col: len([]rune(last)),
	}
}
