// Package edit is the terminal shell around the modal editor: it translates
// key events into editor actions, keeps the viewport on the cursor, and
// drives idle auto-save.
package edit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sorenpeters/nota/internal/buffer"
	"github.com/sorenpeters/nota/internal/editor"
	"github.com/sorenpeters/nota/internal/keymap"
	"github.com/sorenpeters/nota/internal/note"
	"github.com/sorenpeters/nota/internal/pathutil"
	"github.com/sorenpeters/nota/internal/templater"
)

type autoSaveTickMsg time.Time

// Options carries the configuration slice the editor shell needs.
type Options struct {
	VaultDir         string
	TabWidth         int
	AutoSaveInterval time.Duration
}

// Model is the bubbletea model for an editing session.
type Model struct {
	ed   *editor.Editor
	keys *keymap.Map
	tmpl *templater.Templater
	opts Options

	lastEdit  time.Time
	status    string
	statusErr bool
	width     int
	height    int
	offset    int
	quitting  bool
}

// NewModel wraps an open document in the editing shell.
func NewModel(doc *buffer.Document, keys *keymap.Map, tmpl *templater.Templater, opts Options) Model {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	return Model{
		ed:       editor.New(doc),
		keys:     keys,
		tmpl:     tmpl,
		opts:     opts,
		lastEdit: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	if m.opts.AutoSaveInterval <= 0 {
		return nil
	}
	return m.tickAutoSave()
}

func (m Model) tickAutoSave() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return autoSaveTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollToCursor()
		return m, nil

	case autoSaveTickMsg:
		m.maybeAutoSave()
		return m, m.tickAutoSave()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.ed.Mode() == editor.ModeInsert {
			return m.updateInsert(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateInsert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.report(m.ed.Dispatch(editor.ActionEscape))
	case "enter":
		m.ed.InsertNewline()
		m.touch()
	case "backspace":
		m.ed.Backspace()
		m.touch()
	case "tab":
		for i := 0; i < m.opts.TabWidth; i++ {
			m.ed.TypeRune(' ')
		}
		m.touch()
	default:
		if msg.Type == tea.KeyRunes && !msg.Alt {
			for _, r := range msg.Runes {
				m.ed.TypeRune(r)
			}
			m.touch()
		}
		if msg.Type == tea.KeySpace {
			m.ed.TypeRune(' ')
			m.touch()
		}
	}
	m.scrollToCursor()
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "enter" {
		m.followLink()
		m.scrollToCursor()
		return m, nil
	}

	action, bound := m.keys.Lookup(key)
	if !bound {
		return m, nil
	}

	switch action {
	case editor.ActionLeave:
		if err := m.ed.Leave(); err != nil {
			m.report(err)
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case editor.ActionSave:
		if err := m.ed.Dispatch(action); err != nil {
			m.report(err)
		} else {
			m.setStatus("saved", false)
		}
	default:
		m.report(m.ed.Dispatch(action))
		m.touchOnEdit(action)
	}

	m.scrollToCursor()
	return m, nil
}

// followLink opens the wiki-link target under the cursor, creating the note
// first when it does not exist yet. The current buffer is saved before
// switching so no edits are lost.
func (m *Model) followLink() {
	name, ok := m.ed.WikiLinkAt()
	if !ok {
		m.setStatus("no link under cursor", false)
		return
	}

	doc := m.ed.Document()
	if doc.Dirty() {
		if err := doc.Save(); err != nil {
			m.report(err)
			return
		}
	}

	path, created, err := note.CreateIfMissing(m.opts.VaultDir, m.tmpl, name)
	if err != nil {
		m.report(err)
		return
	}

	next, err := buffer.Load(path)
	if err != nil {
		m.report(err)
		return
	}

	m.ed = editor.New(next)
	m.offset = 0
	if created {
		m.setStatus(fmt.Sprintf("created %s", name), false)
	} else {
		m.setStatus(fmt.Sprintf("opened %s", name), false)
	}
}

// maybeAutoSave flushes a dirty buffer after the idle interval. It never
// fires while an insert-mode edit group is open.
func (m *Model) maybeAutoSave() {
	doc := m.ed.Document()
	if !doc.Dirty() || doc.GroupOpen() {
		return
	}
	if time.Since(m.lastEdit) < m.opts.AutoSaveInterval {
		return
	}
	if err := doc.Save(); err != nil {
		m.report(err)
		return
	}
	m.setStatus("autosaved", false)
}

func (m *Model) touch() {
	m.lastEdit = time.Now()
}

func (m *Model) touchOnEdit(action editor.Action) {
	switch action {
	case editor.ActionDeleteChar, editor.ActionJoinLines,
		editor.ActionToggleCheckbox, editor.ActionUndo, editor.ActionRedo:
		m.touch()
	}
}

func (m *Model) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, buffer.ErrNothingToUndo) || errors.Is(err, buffer.ErrNothingToRedo) {
		m.setStatus(err.Error(), false)
		return
	}
	m.setStatus(err.Error(), true)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) scrollToCursor() {
	visible := m.textHeight()
	if visible <= 0 {
		return
	}
	row := m.ed.Document().Cursor().Row
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+visible {
		m.offset = row - visible + 1
	}
}

func (m Model) textHeight() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	doc := m.ed.Document()
	cursor := doc.Cursor()

	visible := m.textHeight()
	for i := 0; i < visible; i++ {
		row := m.offset + i
		if row >= doc.LineCount() {
			b.WriteString("~\n")
			continue
		}

		line := doc.Line(row)
		if row == cursor.Row {
			b.WriteString(renderCursorLine(line, cursor.Col))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())
	return b.String()
}

func renderCursorLine(line string, col int) string {
	runes := []rune(line)
	if col > len(runes) {
		col = len(runes)
	}

	before := string(runes[:col])
	under := " "
	after := ""
	if col < len(runes) {
		under = string(runes[col])
		after = string(runes[col+1:])
	}
	return before + cursorStyle.Render(under) + after
}

func (m Model) statusBar() string {
	doc := m.ed.Document()
	cursor := doc.Cursor()

	mode := normalModeStyle.Render("NORMAL")
	if m.ed.Mode() == editor.ModeInsert {
		mode = insertModeStyle.Render("INSERT")
	}

	name := doc.Path()
	if rel, err := pathutil.VaultRelative(m.opts.VaultDir, name); err == nil && !strings.HasPrefix(rel, "..") {
		name = rel
	}
	if doc.Dirty() {
		name += " " + dirtyStyle.Render("[+]")
	}

	message := ""
	if m.status != "" {
		if m.statusErr {
			message = errorStyle.Render(m.status)
		} else {
			message = messageStyle.Render(m.status)
		}
	}

	position := fmt.Sprintf("%d:%d", cursor.Row+1, cursor.Col+1)
	left := lipgloss.JoinHorizontal(lipgloss.Top, mode, statusBarStyle.Render(name), message)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(position) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + position
}
