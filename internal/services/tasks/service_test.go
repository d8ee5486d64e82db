package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sorenpeters/nota/internal/handler"
	"github.com/sorenpeters/nota/internal/search"
	indexsvc "github.com/sorenpeters/nota/internal/services/index"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	vault := t.TempDir()
	note := filepath.Join(vault, "todo.md")
	content := "# Todo\n\n- [ ] water plants @due(2026-09-01)\n- [x] done already\n"
	if err := os.WriteFile(note, []byte(content), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	idx := indexsvc.NewService(vault, search.Config{})
	t.Cleanup(func() { idx.Close() })

	return NewService(handler.NewFileHandler(vault), idx), note
}

func TestListReturnsOpenTasks(t *testing.T) {
	svc, _ := newTestService(t)

	tasks, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 open task, got %d", len(tasks))
	}
	if tasks[0].Text != "water plants" {
		t.Fatalf("unexpected task text %q", tasks[0].Text)
	}
	if tasks[0].Line != 3 {
		t.Fatalf("expected line 3, got %d", tasks[0].Line)
	}
}

func TestToggleCompletesAndReopens(t *testing.T) {
	svc, note := newTestService(t)

	completed, err := svc.Toggle(note, 3)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !completed {
		t.Fatal("expected task to be completed")
	}

	data, err := os.ReadFile(note)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(string(data), "- [x] water plants") {
		t.Fatalf("checkbox not flipped:\n%s", data)
	}

	tasks, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no open tasks after toggle, got %d", len(tasks))
	}

	completed, err = svc.Toggle(note, 3)
	if err != nil {
		t.Fatalf("Toggle back: %v", err)
	}
	if completed {
		t.Fatal("expected task to be reopened")
	}
}

func TestToggleRejectsNonTaskLines(t *testing.T) {
	svc, note := newTestService(t)

	if _, err := svc.Toggle(note, 1); err == nil {
		t.Fatal("expected error on heading line")
	}
	if _, err := svc.Toggle(note, 99); err == nil {
		t.Fatal("expected error on out-of-range line")
	}
}

func TestToggleOnlyFlipsTheMarker(t *testing.T) {
	svc, _ := newTestService(t)

	vault := svc.handler.VaultDir()
	note := filepath.Join(vault, "tricky.md")
	content := "prose mentioning [ ] is not a task\n- [ ] fill the [ ] blanks\n"
	if err := os.WriteFile(note, []byte(content), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	if _, err := svc.Toggle(note, 1); err == nil {
		t.Fatal("expected error on prose line containing the token")
	}

	completed, err := svc.Toggle(note, 2)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !completed {
		t.Fatal("expected task to be completed")
	}

	data, err := os.ReadFile(note)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(string(data), "- [x] fill the [ ] blanks") {
		t.Fatalf("marker not flipped cleanly:\n%s", data)
	}
	if !strings.Contains(string(data), "prose mentioning [ ] is not a task") {
		t.Fatalf("prose line changed:\n%s", data)
	}
}
