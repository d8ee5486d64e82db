package state

import (
	"fmt"
	"strings"
	"time"
)

// StatusLine summarizes the index lifecycle for the status command.
func (s *State) StatusLine() string {
	if s == nil || s.Index == nil {
		return ""
	}

	stats := s.Index.Stats()
	parts := []string{
		fmt.Sprintf("notes %d", stats.Notes),
		fmt.Sprintf("pending %d", stats.Pending),
	}
	if !stats.LastRebuild.IsZero() {
		parts = append(parts, fmt.Sprintf("rebuilt %s", formatRebuildTime(stats.LastRebuild)))
	}
	return strings.Join(parts, " · ")
}

func formatRebuildTime(t time.Time) string {
	return t.Local().Format("15:04")
}
