// Package models defines the data types shared across changed-filter.
package models

// ChangeEntry is one changed file as reported by git status --porcelain.
// Index and Worktree hold the two columns of the status code; untracked
// files carry '?' in both. Entries are rebuilt on every status read and
// never mutated.
type ChangeEntry struct {
	Path     string
	Index    byte
	Worktree byte
}

// Code returns the two-character porcelain status code, e.g. "M " or "??".
func (e ChangeEntry) Code() string {
	return string([]byte{e.Index, e.Worktree})
}

// IsUntracked reports whether the entry is an untracked file.
func (e ChangeEntry) IsUntracked() bool {
	return e.Index == '?' && e.Worktree == '?'
}

// IsStaged reports whether the entry has changes recorded in the index.
func (e ChangeEntry) IsStaged() bool {
	return e.Index != ' ' && e.Index != '?'
}

// IsUnstaged reports whether the entry has working-tree changes.
// Untracked files count as unstaged.
func (e ChangeEntry) IsUnstaged() bool {
	return e.Worktree != ' '
}

// Category is a staging-state filter over change entries. A single entry
// may belong to several categories at once (e.g. "MM" is in all three).
type Category int

// The three fixed categories, in menu order.
const (
	CategoryAll Category = iota
	CategoryStaged
	CategoryUnstaged
)

// Categories lists all categories in menu order.
func Categories() []Category {
	return []Category{CategoryAll, CategoryStaged, CategoryUnstaged}
}

// String returns the display name used on the category panel.
func (c Category) String() string {
	switch c {
	case CategoryStaged:
		return "Staged Only"
	case CategoryUnstaged:
		return "Unstaged Only"
	default:
		return "All Changes"
	}
}

// ID returns the stable identifier used for CLI flags and menu values.
func (c Category) ID() string {
	switch c {
	case CategoryStaged:
		return "staged"
	case CategoryUnstaged:
		return "unstaged"
	default:
		return "all"
	}
}

// CategoryFromID maps a flag value back to a category.
func CategoryFromID(id string) (Category, bool) {
	switch id {
	case "all":
		return CategoryAll, true
	case "staged":
		return CategoryStaged, true
	case "unstaged":
		return CategoryUnstaged, true
	}
	return CategoryAll, false
}
