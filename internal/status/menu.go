package status

import (
	"fmt"
	"path/filepath"

	"github.com/brady-zip/changed-filter/internal/models"
)

// MenuItem is one selectable row in a quick panel. Label is what the user
// sees; Value is the opaque payload resolved on selection (a category ID
// on the category panel, an absolute path on the file panel).
type MenuItem struct {
	Label       string
	Description string
	Value       string
}

// categoryDescriptions is the help text shown next to each category.
var categoryDescriptions = map[models.Category]string{
	models.CategoryAll:      "Show all staged and unstaged files",
	models.CategoryStaged:   "Show only files in the staging area",
	models.CategoryUnstaged: "Show only unstaged changes and untracked files",
}

// BuildCategoryMenu returns the three category items in fixed order with
// live counts. Zero-count categories are kept visible with a "no files"
// label so navigation stays predictable.
func BuildCategoryMenu(c Classified) []MenuItem {
	items := make([]MenuItem, 0, 3)
	for _, cat := range models.Categories() {
		items = append(items, MenuItem{
			Label:       fmt.Sprintf("%s (%s)", cat, countLabel(c.Count(cat))),
			Description: categoryDescriptions[cat],
			Value:       cat.ID(),
		})
	}
	return items
}

func countLabel(n int) string {
	switch n {
	case 0:
		return "no files"
	case 1:
		return "1 file"
	default:
		return fmt.Sprintf("%d files", n)
	}
}

// BuildFileMenu returns one item per entry, in category order. The label
// is the repository-relative path, the description the status code, and
// the value the resolved absolute path.
func BuildFileMenu(root string, entries []models.ChangeEntry) []MenuItem {
	items := make([]MenuItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, MenuItem{
			Label:       entry.Path,
			Description: entry.Code(),
			Value:       filepath.Join(root, entry.Path),
		})
	}
	return items
}
