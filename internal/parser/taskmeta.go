package parser

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var metadataPattern = regexp.MustCompile(`@([a-zA-Z0-9_-]+)\(([^)]+)\)`)

// TaskMetadata carries the inline @key(value) annotations of a task body.
type TaskMetadata struct {
	DueDate       *time.Time
	ScheduledDate *time.Time
	Priority      string
	Owner         string
	Project       string
	References    []string
	RawTokens     map[string]string
}

// ExtractTaskMetadata strips @key(value) tokens and [[references]] from a
// task body, returning the cleaned text and the collected metadata.
// Supported keys: due, scheduled/schedule/start, priority, owner/assignee/
// responsible, project/group. Unknown keys are kept in RawTokens.
func ExtractTaskMetadata(content string) (string, TaskMetadata) {
	metadata := TaskMetadata{RawTokens: make(map[string]string)}
	trimmed := strings.TrimSpace(content)

	cleaned := metadataPattern.ReplaceAllStringFunc(trimmed, func(match string) string {
		sub := metadataPattern.FindStringSubmatch(match)
		if len(sub) < 3 {
			return ""
		}

		key := strings.ToLower(strings.TrimSpace(sub[1]))
		value := strings.TrimSpace(sub[2])
		if value == "" {
			return ""
		}

		metadata.RawTokens[key] = value

		switch key {
		case "due":
			if t, ok := parseDate(value); ok {
				metadata.DueDate = &t
			}
		case "scheduled", "schedule", "start":
			if t, ok := parseDate(value); ok {
				metadata.ScheduledDate = &t
			}
		case "priority":
			metadata.Priority = strings.ToLower(value)
		case "owner", "assignee", "responsible":
			metadata.Owner = value
		case "project", "group":
			metadata.Project = value
		}

		return ""
	})

	refs := wikiLinkPattern.FindAllStringSubmatch(trimmed, -1)
	if len(refs) > 0 {
		seen := make(map[string]struct{})
		for _, r := range refs {
			if len(r) < 2 {
				continue
			}
			ref := strings.TrimSpace(r[1])
			if ref == "" {
				continue
			}
			if _, exists := seen[ref]; exists {
				continue
			}
			seen[ref] = struct{}{}
			metadata.References = append(metadata.References, ref)
		}
		sort.Strings(metadata.References)
	}

	cleaned = wikiLinkPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	return cleaned, metadata
}

// parseDate resolves relative shortcuts first, then defers to dateparse for
// everything else so common formats all work.
func parseDate(value string) (time.Time, bool) {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return time.Time{}, false
	}

	switch strings.ToLower(normalized) {
	case "today":
		now := time.Now().Local()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case "tomorrow":
		now := time.Now().Local().Add(24 * time.Hour)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	}

	parsed, err := dateparse.ParseAny(normalized)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
