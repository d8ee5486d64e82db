// Package tasks exposes vault-wide task operations on top of the shared
// index: listing open tasks and toggling checkboxes in place.
package tasks

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sorenpeters/nota/internal/handler"
	"github.com/sorenpeters/nota/internal/pathutil"
	"github.com/sorenpeters/nota/internal/search"
)

var (
	uncheckedRe = regexp.MustCompile(`^(\s*[-*]\s+)\[\s?\]`)
	checkedRe   = regexp.MustCompile(`^(\s*[-*]\s+)\[[xX]\]`)
)

// Snapshotter is the slice of the index service the task service needs:
// pull a snapshot, and report files it rewrote.
type Snapshotter interface {
	AcquireSnapshot() (*search.Index, error)
	QueueUpdate(rel string)
}

type Service struct {
	handler *handler.FileHandler
	index   Snapshotter
}

func NewService(h *handler.FileHandler, idx Snapshotter) *Service {
	return &Service{handler: h, index: idx}
}

// List returns every unchecked task in the vault, ordered by path then
// line.
func (s *Service) List() ([]search.TaskRef, error) {
	if s == nil || s.index == nil {
		return nil, errors.New("task service is not configured")
	}

	snapshot, err := s.index.AcquireSnapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Tasks(), nil
}

// Toggle flips the checkbox on the given 1-based line of a note and
// reports the new completed state. The index is told about the rewrite.
func (s *Service) Toggle(path string, line int) (bool, error) {
	if s == nil || s.handler == nil {
		return false, errors.New("task service is not configured")
	}

	data, err := s.handler.ReadNote(path)
	if err != nil {
		return false, err
	}

	lines := strings.Split(string(data), "\n")
	if line <= 0 || line > len(lines) {
		return false, fmt.Errorf("line %d out of range", line)
	}

	target := lines[line-1]
	var completed bool
	switch {
	case uncheckedRe.MatchString(target):
		lines[line-1] = uncheckedRe.ReplaceAllString(target, "${1}[x]")
		completed = true
	case checkedRe.MatchString(target):
		lines[line-1] = checkedRe.ReplaceAllString(target, "${1}[ ]")
	default:
		return false, fmt.Errorf("no task found on line %d", line)
	}

	if err := s.handler.WriteNote(path, []byte(strings.Join(lines, "\n"))); err != nil {
		return false, err
	}

	if rel, err := pathutil.VaultRelative(s.handler.VaultDir(), path); err == nil {
		s.index.QueueUpdate(rel)
	}
	return completed, nil
}
