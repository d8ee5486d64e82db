package search

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sorenpeters/nota/internal/parser"
)

// ErrNotFound is returned when a name resolves to no indexed note. Callers
// typically react by creating the note and registering it via Update.
var ErrNotFound = errors.New("note not found")

// Index maintains the per-file entries for a workspace of notes along with
// the alias and backlink maps derived from them. It is not safe for
// concurrent mutation; the index service serializes writers and hands
// clones to readers.
type Index struct {
	root    string
	cfg     Config
	entries map[string]Entry
	// aliases maps lowercase note identifiers (relative paths, basenames,
	// stems, and titles) to their canonical on-disk path.
	aliases   map[string]string
	backlinks map[string][]string
}

// NewIndex constructs an empty index rooted at the provided directory.
func NewIndex(root string, cfg Config) *Index {
	return &Index{
		root:      filepath.Clean(root),
		cfg:       cfg,
		entries:   make(map[string]Entry),
		aliases:   make(map[string]string),
		backlinks: make(map[string][]string),
	}
}

// Root returns the workspace directory the index was built over.
func (idx *Index) Root() string {
	return idx.root
}

// Build replaces the index contents using the provided note paths. A file
// that cannot be read is recorded as an empty entry carrying a warning and
// the build continues; Build itself never fails.
func (idx *Index) Build(paths []string) {
	idx.entries = make(map[string]Entry, len(paths))
	idx.aliases = make(map[string]string)
	idx.backlinks = make(map[string][]string)

	for _, p := range paths {
		canonical := idx.normalize(p)
		if canonical == "" || idx.shouldIgnore(canonical) {
			continue
		}
		idx.entries[canonical] = idx.loadEntry(canonical)
	}
	idx.refreshMetadata()
}

// Update refreshes the indexed representation of the provided path. Files
// that have gone missing are removed, so a single Update call covers both
// halves of a change notification.
func (idx *Index) Update(path string) error {
	if idx == nil {
		return nil
	}

	canonical := idx.normalize(path)
	if canonical == "" {
		return nil
	}
	if idx.shouldIgnore(canonical) {
		idx.Remove(canonical)
		return nil
	}

	info, err := os.Stat(canonical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			idx.Remove(canonical)
			return nil
		}
		return fmt.Errorf("search: stat %s: %w", canonical, err)
	}
	if info.IsDir() {
		idx.Remove(canonical)
		return nil
	}

	if idx.entries == nil {
		idx.entries = make(map[string]Entry)
	}
	idx.entries[canonical] = idx.loadEntry(canonical)
	idx.refreshMetadata()
	return nil
}

// Remove deletes the provided path from the index if present, along with
// any backlink references to it.
func (idx *Index) Remove(path string) {
	if idx == nil || len(idx.entries) == 0 {
		return
	}

	canonical := idx.normalize(path)
	if canonical == "" {
		return
	}
	if _, ok := idx.entries[canonical]; !ok {
		return
	}

	delete(idx.entries, canonical)
	idx.refreshMetadata()
}

// Clone returns a deep copy of the index. Readers operate on clones so a
// concurrent writer can never expose them to partial state.
func (idx *Index) Clone() *Index {
	cloned := &Index{
		root:      idx.root,
		cfg:       idx.cfg,
		entries:   make(map[string]Entry, len(idx.entries)),
		aliases:   make(map[string]string, len(idx.aliases)),
		backlinks: make(map[string][]string, len(idx.backlinks)),
	}
	for path, entry := range idx.entries {
		cloned.entries[path] = entry.clone()
	}
	for alias, path := range idx.aliases {
		cloned.aliases[alias] = path
	}
	for path, refs := range idx.backlinks {
		cloned.backlinks[path] = append([]string(nil), refs...)
	}
	return cloned
}

// Len reports how many notes the index currently tracks.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entry returns the indexed entry for a path, resolving aliases so relative
// paths and stems work too.
func (idx *Index) Entry(path string) (Entry, bool) {
	canonical := idx.normalize(path)
	if resolved := idx.resolveAlias(path); resolved != "" {
		canonical = resolved
	}
	entry, ok := idx.entries[canonical]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Entries returns the indexed entries ordered by path.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, 0, len(idx.entries))
	for _, entry := range idx.entries {
		out = append(out, entry.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

// Warnings lists the paths that could not be read during the last build,
// one message per degraded entry.
func (idx *Index) Warnings() []string {
	var out []string
	for _, entry := range idx.Entries() {
		if entry.Warning != "" {
			out = append(out, fmt.Sprintf("%s: %s", entry.Path, entry.Warning))
		}
	}
	return out
}

// Resolve looks up a note by name: title, filename stem, basename, or
// workspace-relative path, case-insensitively and ignoring surrounding
// whitespace. It returns ErrNotFound when nothing matches.
func (idx *Index) Resolve(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("search: resolve %q: %w", name, ErrNotFound)
	}
	if resolved := idx.resolveAlias(trimmed); resolved != "" {
		return resolved, nil
	}
	return "", fmt.Errorf("search: resolve %q: %w", name, ErrNotFound)
}

// Backlinks returns the paths of notes whose wiki-links resolve to the
// provided note. The result is empty, never an error, when there are none.
func (idx *Index) Backlinks(path string) []string {
	canonical := idx.normalize(path)
	if resolved := idx.resolveAlias(path); resolved != "" {
		canonical = resolved
	}
	refs, ok := idx.backlinks[canonical]
	if !ok {
		return nil
	}
	return append([]string(nil), refs...)
}

// Tasks collects every unchecked task in the workspace, ordered by path
// then line number. The listing is recomputed from the entries on demand.
func (idx *Index) Tasks() []TaskRef {
	var refs []TaskRef
	for path, entry := range idx.entries {
		for _, task := range entry.Tasks {
			if task.Checked {
				continue
			}
			refs = append(refs, TaskRef{
				Path:     path,
				Line:     task.Line,
				Text:     task.Text,
				Metadata: task.Metadata,
			})
		}
	}
	sortTaskRefs(refs)
	return refs
}

// Tags returns every tag in the workspace with the number of notes that
// carry it.
func (idx *Index) Tags() map[string]int {
	counts := make(map[string]int)
	for _, entry := range idx.entries {
		for _, tag := range entry.Tags {
			counts[tag]++
		}
	}
	return counts
}

func (idx *Index) loadEntry(path string) Entry {
	entry := Entry{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		entry.Title = parser.Stem(path)
		entry.Warning = err.Error()
		return entry
	}

	note := parser.ParseNote(path, data)
	entry.Title = note.Title
	entry.Tokens = note.Tokens
	entry.Tags = note.Tags
	entry.Links = note.Links
	entry.Tasks = note.Tasks

	if info, err := os.Stat(path); err == nil {
		entry.ModifiedAt = info.ModTime().UTC()
	}
	return entry
}

func (idx *Index) refreshMetadata() {
	idx.aliases = idx.buildAliases()
	idx.computeBacklinks()
}

func (idx *Index) normalize(path string) string {
	cleaned := filepath.Clean(path)
	if cleaned == "." || cleaned == "" {
		return ""
	}
	if filepath.IsAbs(cleaned) {
		return cleaned
	}
	return filepath.Clean(filepath.Join(idx.root, cleaned))
}

func (idx *Index) shouldIgnore(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), idx.cfg.extension()) {
		return true
	}
	rel, err := filepath.Rel(idx.root, path)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		for _, ignored := range idx.cfg.IgnoredFolders {
			if ignored != "" && strings.EqualFold(segment, ignored) {
				return true
			}
		}
	}
	return false
}

func (idx *Index) buildAliases() map[string]string {
	aliases := make(map[string]string, len(idx.entries)*4)
	for path, entry := range idx.entries {
		canonical := filepath.Clean(path)

		if rel, err := filepath.Rel(idx.root, canonical); err == nil {
			addAlias(aliases, rel, canonical)
		}
		addAlias(aliases, filepath.Base(canonical), canonical)
		addAlias(aliases, entry.Title, canonical)
	}
	return aliases
}

func addAlias(aliases map[string]string, candidate, path string) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return
	}
	normalized := strings.ToLower(filepath.ToSlash(candidate))
	aliases[normalized] = path

	if ext := filepath.Ext(normalized); ext != "" {
		if stem := strings.TrimSuffix(normalized, ext); stem != "" {
			aliases[stem] = path
		}
	}
}

func (idx *Index) resolveAlias(name string) string {
	if len(idx.aliases) == 0 {
		return ""
	}
	normalized := strings.ToLower(filepath.ToSlash(strings.TrimSpace(name)))
	if normalized == "" {
		return ""
	}
	if resolved, ok := idx.aliases[normalized]; ok {
		return resolved
	}
	if ext := filepath.Ext(normalized); ext != "" {
		if resolved, ok := idx.aliases[strings.TrimSuffix(normalized, ext)]; ok {
			return resolved
		}
	}
	return ""
}

// computeBacklinks resolves every entry's wiki-links against the alias map
// and inverts the edges. Links to unknown pages simply have no edge yet;
// they gain one when the target note is created and indexed.
func (idx *Index) computeBacklinks() {
	backlinks := make(map[string]map[string]struct{}, len(idx.entries))

	for path, entry := range idx.entries {
		for _, raw := range entry.Links {
			target := idx.resolveLink(raw)
			if target == "" || target == path {
				continue
			}
			if _, ok := backlinks[target]; !ok {
				backlinks[target] = make(map[string]struct{})
			}
			backlinks[target][path] = struct{}{}
		}
	}

	idx.backlinks = make(map[string][]string, len(backlinks))
	for path, sources := range backlinks {
		idx.backlinks[path] = setToSortedSlice(sources)
	}
}

func (idx *Index) resolveLink(link string) string {
	cleaned := strings.TrimSpace(link)
	if cleaned == "" {
		return ""
	}

	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if hash := strings.Index(cleaned, "#"); hash >= 0 {
		cleaned = cleaned[:hash]
	}
	cleaned = strings.Trim(cleaned, "/")
	if cleaned == "" {
		return ""
	}

	lowered := strings.ToLower(cleaned)
	if strings.Contains(lowered, "://") || strings.HasPrefix(lowered, "mailto:") {
		return ""
	}
	return idx.resolveAlias(cleaned)
}

func setToSortedSlice(values map[string]struct{}) []string {
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
