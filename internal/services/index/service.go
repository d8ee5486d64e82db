package index

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sorenpeters/nota/internal/pathutil"
	"github.com/sorenpeters/nota/internal/search"
)

// ErrClosed signals that the index service has been shut down and cannot be
// used to produce new snapshots.
var ErrClosed = errors.New("index service closed")

// ErrUnavailable indicates that the workspace index has not been built yet.
var ErrUnavailable = errors.New("workspace index unavailable")

// Stats captures lightweight instrumentation about the shared index.
type Stats struct {
	LastRebuild time.Time
	Pending     int
	Notes       int
}

// Service owns the shared workspace index and coordinates incremental
// updates coming from the vault watcher. It is the sole writer; readers
// only ever see clones, so a search in progress is unaffected by a
// concurrent change.
type Service struct {
	mu          sync.RWMutex
	vault       string
	config      search.Config
	index       *search.Index
	pending     map[string]struct{}
	lastRebuild time.Time
	closed      bool

	now    func() time.Time
	maxAge time.Duration
}

// NewService constructs a workspace-scoped index service rooted at the vault.
func NewService(vault string, cfg search.Config) *Service {
	return &Service{
		vault:   pathutil.NormalizePath(vault),
		config:  cfg,
		pending: make(map[string]struct{}),
		now:     time.Now,
		maxAge:  time.Hour,
	}
}

// Warm kicks off the initial build in the background so the first
// interactive snapshot request does not pay the full scan cost.
func (s *Service) Warm() {
	if s == nil {
		return
	}
	go func() {
		if err := s.ensureFresh(); err != nil && !errors.Is(err, ErrClosed) {
			log.Printf("index warmup: %v", err)
		}
	}()
}

// AcquireSnapshot returns an immutable snapshot of the workspace index,
// rebuilding or applying pending updates first as needed. The clone is
// fully built before it is handed out, so callers never observe partial
// state.
func (s *Service) AcquireSnapshot() (*search.Index, error) {
	if s == nil {
		return nil, ErrUnavailable
	}

	if err := s.ensureFresh(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.index == nil {
		return nil, ErrUnavailable
	}
	return s.index.Clone(), nil
}

// QueueUpdate schedules a vault-relative path for incremental reindexing.
// The change is applied on the next snapshot acquisition.
func (s *Service) QueueUpdate(rel string) {
	if s == nil {
		return
	}

	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return
	}
	normalized := filepath.ToSlash(trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.pending == nil {
		s.pending = make(map[string]struct{})
	}
	s.pending[normalized] = struct{}{}
}

// Stats returns instrumentation about the index lifecycle.
func (s *Service) Stats() Stats {
	if s == nil {
		return Stats{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{LastRebuild: s.lastRebuild, Pending: len(s.pending)}
	if s.index != nil {
		st.Notes = s.index.Len()
	}
	return st
}

// Close releases the service. Subsequent snapshot requests return ErrClosed.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.index = nil
	s.pending = nil
	return nil
}

func (s *Service) ensureFresh() error {
	s.mu.RLock()
	closed := s.closed
	needsRebuild := s.index == nil
	if !needsRebuild && s.maxAge > 0 {
		needsRebuild = s.now().Sub(s.lastRebuild) > s.maxAge
	}
	hasPending := len(s.pending) > 0
	s.mu.RUnlock()

	if closed {
		return ErrClosed
	}

	if needsRebuild {
		if err := s.rebuild(); err != nil {
			return err
		}
		return nil
	}
	if hasPending {
		return s.applyPending()
	}
	return nil
}

func (s *Service) rebuild() error {
	paths, err := s.collectNotePaths()
	if err != nil {
		return err
	}

	idx := search.NewIndex(s.vault, s.config)
	idx.Build(paths)
	for _, warning := range idx.Warnings() {
		log.Printf("index: %s", warning)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.index = idx
	s.lastRebuild = s.now()
	s.pending = make(map[string]struct{})
	return nil
}

func (s *Service) applyPending() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.index == nil {
		return ErrUnavailable
	}

	pending := s.pending
	s.pending = make(map[string]struct{})

	for rel := range pending {
		abs := pathutil.NormalizePath(filepath.Join(s.vault, filepath.FromSlash(rel)))
		if abs == "" {
			continue
		}
		if err := s.index.Update(abs); err != nil {
			return err
		}
	}
	return nil
}

// collectNotePaths enumerates every note under the vault. Only a missing or
// unreadable root fails; per-file problems surface later as index warnings.
func (s *Service) collectNotePaths() ([]string, error) {
	if s.vault == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	ignored := make(map[string]struct{}, len(s.config.IgnoredFolders))
	for _, dir := range s.config.IgnoredFolders {
		ignored[strings.ToLower(dir)] = struct{}{}
	}

	var paths []string
	err := filepath.WalkDir(s.vault, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.vault {
				return err
			}
			log.Printf("index scan: %v", err)
			return nil
		}

		if d.IsDir() {
			name := strings.ToLower(d.Name())
			if strings.HasPrefix(name, ".") && path != s.vault {
				return filepath.SkipDir
			}
			if _, skip := ignored[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
