package watcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/sorenpeters/nota/internal/pathutil"
)

// Event reports one changed note. Path is vault-relative with forward
// slashes; consumers queue it into the index service, which decides whether
// the change is an update or a deletion.
type Event struct {
	Path string
}

// VaultWatcher watches a vault directory tree and emits change events for
// note files. Directories created while watching are picked up recursively.
type VaultWatcher struct {
	fsw    *fsnotify.Watcher
	vault  string
	events chan Event
	errs   chan error
	done   chan struct{}
	once   sync.Once
}

// New constructs a watcher over the vault and starts its event loop.
func New(vault string) (*VaultWatcher, error) {
	normalized := pathutil.NormalizePath(vault)
	if normalized == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &VaultWatcher{
		fsw:    fsw,
		vault:  normalized,
		events: make(chan Event, 64),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}

	if err := w.addRecursive(normalized); err != nil {
		_ = w.Close()
		return nil, err
	}

	go w.loop()
	return w, nil
}

// Events returns the channel of note change events.
func (w *VaultWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher failures.
func (w *VaultWatcher) Errors() <-chan error {
	return w.errs
}

// Close shuts the watcher down. Safe to call more than once.
func (w *VaultWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.fsw.Close()
	})
	return closeErr
}

func (w *VaultWatcher) loop() {
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
					continue
				}
			}

			rel, ok := w.relevantPath(event)
			if !ok {
				continue
			}

			select {
			case w.events <- Event{Path: rel}:
			case <-w.done:
				return
			default:
				// A stalled consumer drops the oldest-style guarantee; the
				// periodic index rebuild catches anything missed here.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				select {
				case w.errs <- err:
				default:
				}
			}
		}
	}
}

func (w *VaultWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != normalized {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *VaultWatcher) relevantPath(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}

	rel, err := pathutil.VaultRelative(w.vault, event.Name)
	if err != nil {
		return "", false
	}
	if rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(rel), ".md") {
		return "", false
	}
	return rel, true
}
