// Package status parses and classifies git porcelain status output.
package status

import (
	"strings"

	"github.com/brady-zip/changed-filter/internal/models"
)

// Parse converts raw `git status --porcelain` output into change entries.
// It is line-oriented and tolerant: malformed lines are dropped rather
// than failing the whole parse, so a partially readable status stream
// still produces a usable menu. Parse never returns an error.
func Parse(raw string) []models.ChangeEntry {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var entries []models.ChangeEntry
	for line := range strings.SplitSeq(raw, "\n") {
		if entry, ok := parseLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// parseLine parses a single porcelain v1 line: two status characters, a
// space, then the path. Renames and copies carry "old -> new"; only the
// new path is kept.
func parseLine(line string) (models.ChangeEntry, bool) {
	line = strings.TrimRight(line, "\r")
	if len(line) < 4 {
		return models.ChangeEntry{}, false
	}

	index := line[0]
	worktree := line[1]
	if line[2] != ' ' {
		return models.ChangeEntry{}, false
	}
	// A code of two blanks would mean "no change"; git never emits it.
	if index == ' ' && worktree == ' ' {
		return models.ChangeEntry{}, false
	}

	path := line[3:]
	if index == 'R' || index == 'C' || worktree == 'R' || worktree == 'C' {
		if _, newPath, ok := strings.Cut(path, " -> "); ok {
			path = newPath
		}
	}
	path = unquotePath(path)
	if path == "" {
		return models.ChangeEntry{}, false
	}

	return models.ChangeEntry{Path: path, Index: index, Worktree: worktree}, true
}

// unquotePath strips the surrounding quotes git adds for paths containing
// spaces or special characters.
func unquotePath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 && strings.HasPrefix(path, `"`) && strings.HasSuffix(path, `"`) {
		path = path[1 : len(path)-1]
	}
	return path
}

// Classified holds the three category sequences. Each sequence preserves
// the original parse order (a stable partition, never re-sorted), which
// matches git's own output ordering.
type Classified struct {
	All      []models.ChangeEntry
	Staged   []models.ChangeEntry
	Unstaged []models.ChangeEntry
}

// Classify partitions entries into the three overlapping categories.
func Classify(entries []models.ChangeEntry) Classified {
	var c Classified
	for _, entry := range entries {
		c.All = append(c.All, entry)
		if entry.IsStaged() {
			c.Staged = append(c.Staged, entry)
		}
		if entry.IsUnstaged() {
			c.Unstaged = append(c.Unstaged, entry)
		}
	}
	return c
}

// ForCategory returns the entry sequence for a category.
func (c Classified) ForCategory(cat models.Category) []models.ChangeEntry {
	switch cat {
	case models.CategoryStaged:
		return c.Staged
	case models.CategoryUnstaged:
		return c.Unstaged
	default:
		return c.All
	}
}

// Count returns the number of entries in a category.
func (c Classified) Count(cat models.Category) int {
	return len(c.ForCategory(cat))
}

// Empty reports whether no changes were parsed at all.
func (c Classified) Empty() bool {
	return len(c.All) == 0
}
