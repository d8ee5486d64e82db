package search

// Config describes index behavior.
type Config struct {
	// EnableBody controls whether search considers note content in addition
	// to filenames.
	EnableBody bool
	// IgnoredFolders contains directory names that should be skipped when
	// indexing. Paths containing any of these folders will not be indexed.
	IgnoredFolders []string
	// NoteExtension is the file extension recognized as a note. Defaults to
	// ".md" when empty.
	NoteExtension string
}

func (c Config) extension() string {
	if c.NoteExtension == "" {
		return ".md"
	}
	return c.NoteExtension
}
