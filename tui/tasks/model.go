// Package tasks implements the interactive task browser: every open
// checkbox in the vault in a filterable list, with in-place toggling.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sorenpeters/nota/internal/pathutil"
	"github.com/sorenpeters/nota/internal/search"
	tasksvc "github.com/sorenpeters/nota/internal/services/tasks"
)

type dueMode int

const (
	dueAll dueMode = iota
	dueOverdue
	dueToday
	dueUpcoming
	dueUnscheduled
)

type keyMap struct {
	toggle   key.Binding
	refresh  key.Binding
	cycleDue key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		cycleDue: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cycle due filter"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type listItem struct {
	ref   search.TaskRef
	vault string
}

func (i listItem) Title() string {
	if badge := dueBadge(i.ref.Metadata.DueDate); badge != "" {
		return fmt.Sprintf("[ ] %s %s", badge, i.ref.Text)
	}
	return "[ ] " + i.ref.Text
}

func (i listItem) Description() string {
	rel := i.ref.Path
	if r, err := pathutil.VaultRelative(i.vault, i.ref.Path); err == nil {
		rel = r
	}

	parts := []string{fmt.Sprintf("%s:%d", rel, i.ref.Line)}
	if i.ref.Metadata.Owner != "" {
		parts = append(parts, "owner "+i.ref.Metadata.Owner)
	}
	if i.ref.Metadata.Priority != "" {
		parts = append(parts, "priority "+i.ref.Metadata.Priority)
	}
	if i.ref.Metadata.Project != "" {
		parts = append(parts, "project "+i.ref.Metadata.Project)
	}
	return strings.Join(parts, " | ")
}

func (i listItem) FilterValue() string {
	fields := []string{i.ref.Text, i.ref.Metadata.Owner, i.ref.Metadata.Project}
	return strings.Join(append(fields, i.ref.Metadata.References...), " ")
}

type Model struct {
	service *tasksvc.Service
	vault   string
	list    list.Model
	keys    keyMap
	status  string
	tasks   []search.TaskRef
	due     dueMode
	width   int
	height  int
}

func NewModel(service *tasksvc.Service, vault string) (*Model, error) {
	tasks, err := service.List()
	if err != nil {
		return nil, err
	}

	lm := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	lm.Title = "Open tasks"
	lm.DisableQuitKeybindings()

	m := &Model{
		service: service,
		vault:   vault,
		list:    lm,
		keys:    newKeyMap(),
	}
	m.setTasks(tasks)
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.toggle):
			m.toggleSelected()
			return m, nil
		case key.Matches(msg, m.keys.refresh):
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.cycleDue):
			m.due++
			if m.due > dueUnscheduled {
				m.due = dueAll
			}
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	view := m.list.View()

	var footer []string
	if summary := m.filterSummary(); summary != "" {
		footer = append(footer, summary)
	}
	if m.status != "" {
		footer = append(footer, m.status)
	}
	if len(footer) > 0 {
		return view + "\n" + strings.Join(footer, "\n")
	}
	return view
}

func (m *Model) toggleSelected() {
	item, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return
	}

	if _, err := m.service.Toggle(item.ref.Path, item.ref.Line); err != nil {
		m.status = fmt.Sprintf("toggle failed: %v", err)
		return
	}
	m.status = "marked complete"
	m.refresh()
}

func (m *Model) refresh() {
	tasks, err := m.service.List()
	if err != nil {
		m.status = fmt.Sprintf("refresh failed: %v", err)
		return
	}
	m.setTasks(tasks)
}

func (m *Model) setTasks(tasks []search.TaskRef) {
	m.tasks = tasks
	m.applyFilter()
}

func (m *Model) applyFilter() {
	now := time.Now()
	filtered := make([]list.Item, 0, len(m.tasks))
	for _, ref := range m.tasks {
		if !matchesDue(m.due, ref.Metadata.DueDate, now) {
			continue
		}
		filtered = append(filtered, listItem{ref: ref, vault: m.vault})
	}
	m.list.SetItems(filtered)
}

func (m *Model) filterSummary() string {
	switch m.due {
	case dueOverdue:
		return "due: overdue"
	case dueToday:
		return "due: today"
	case dueUpcoming:
		return "due: upcoming"
	case dueUnscheduled:
		return "due: unscheduled"
	default:
		return ""
	}
}

func matchesDue(mode dueMode, due *time.Time, now time.Time) bool {
	switch mode {
	case dueAll:
		return true
	case dueUnscheduled:
		return due == nil
	}
	if due == nil {
		return false
	}

	today := truncateToDay(now)
	day := truncateToDay(due.In(now.Location()))
	switch mode {
	case dueOverdue:
		return day.Before(today)
	case dueToday:
		return day.Equal(today)
	case dueUpcoming:
		return day.After(today)
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dueBadge(due *time.Time) string {
	if due == nil {
		return ""
	}

	local := due.In(time.Now().Location())
	today := truncateToDay(time.Now())
	switch {
	case truncateToDay(local).Before(today):
		return "(overdue)"
	case truncateToDay(local).Equal(today):
		return "(due today)"
	default:
		return fmt.Sprintf("(due %s)", local.Format("Jan 02"))
	}
}
