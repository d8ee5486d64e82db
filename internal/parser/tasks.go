package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Task is a checkbox list item extracted from a note.
type Task struct {
	// Line is the 1-based line number of the list item.
	Line     int
	Text     string
	Checked  bool
	Metadata TaskMetadata
}

// extractTasks walks the Markdown AST and collects checkbox list items.
// Indentation and list nesting do not matter; only the exact `[ ]` / `[x]`
// markers at the start of a list item are recognized.
func extractTasks(source []byte) []Task {
	parser := goldmark.DefaultParser()
	reader := text.NewReader(source)
	document := parser.Parse(reader)

	var tasks []Task

	ast.Walk(
		document,
		func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			item, ok := n.(*ast.ListItem)
			if !ok {
				return ast.WalkContinue, nil
			}

			segment, ok := firstLineSegment(item)
			if !ok {
				return ast.WalkContinue, nil
			}

			// Only the item's own first line carries the marker; nested list
			// items are visited separately by the walk.
			content := strings.TrimSpace(string(source[segment.Start:segment.Stop]))
			checked := false
			switch {
			case strings.HasPrefix(content, "[ ]"):
			case strings.HasPrefix(content, "[x]"), strings.HasPrefix(content, "[X]"):
				checked = true
			default:
				return ast.WalkContinue, nil
			}

			body := strings.TrimSpace(content[3:])
			if body == "" {
				return ast.WalkContinue, nil
			}

			cleaned, metadata := ExtractTaskMetadata(body)
			if cleaned == "" {
				return ast.WalkContinue, nil
			}

			tasks = append(tasks, Task{
				Line:     1 + bytes.Count(source[:segment.Start], []byte("\n")),
				Text:     cleaned,
				Checked:  checked,
				Metadata: metadata,
			})
			return ast.WalkContinue, nil
		},
	)

	return tasks
}

// firstLineSegment returns the source segment of the list item's first text
// line, looking through the leading block child when the item itself carries
// no line information.
func firstLineSegment(item *ast.ListItem) (text.Segment, bool) {
	if lines := item.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0), true
	}
	if child := item.FirstChild(); child != nil {
		if clines := child.Lines(); clines != nil && clines.Len() > 0 {
			return clines.At(0), true
		}
	}
	return text.Segment{}, false
}
