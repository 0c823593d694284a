package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/brady-zip/changed-filter/internal/status"
	"github.com/brady-zip/changed-filter/internal/theme"
)

// panelAction is the outcome of feeding a key to a quick panel.
type panelAction int

const (
	panelNone panelAction = iota
	panelSelect
	panelCancel
)

// quickPanel is a filterable selection list rendered as a centered box.
// It owns cursor, scroll, and filter state; the model decides what a
// selection or cancel means for the current step.
type quickPanel struct {
	Items    []status.MenuItem
	Filtered []status.MenuItem

	FilterInput  textinput.Model
	FilterActive bool
	Cursor       int
	ScrollOffset int
	Width        int
	Height       int
	Title        string
	NoResults    string
	ShowIcons    bool
	Thm          *theme.Theme
}

func newQuickPanel(title, noResults string, items []status.MenuItem, thm *theme.Theme, showIcons bool) *quickPanel {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 100
	ti.Prompt = "> "
	ti.Blur()

	cursor := 0
	if len(items) == 0 {
		cursor = -1
	}
	if noResults == "" {
		noResults = "No results found."
	}

	p := &quickPanel{
		Items:       items,
		Filtered:    items,
		FilterInput: ti,
		Cursor:      cursor,
		Title:       title,
		NoResults:   noResults,
		ShowIcons:   showIcons,
		Thm:         thm,
	}
	p.SetSize(80, 24)
	return p
}

// SetSize resizes the panel box to 80% of the terminal, with minimums
// so the list stays usable on small windows.
func (p *quickPanel) SetSize(termWidth, termHeight int) {
	width := int(float64(termWidth) * 0.8)
	height := int(float64(termHeight) * 0.8)
	if width < 48 {
		width = 48
	}
	if height < 12 {
		height = 12
	}
	p.Width = width
	p.Height = height
	p.FilterInput.Width = width - 4
}

// SetItems replaces the item list, reapplying the active filter and
// keeping the cursor on the same row index when it still exists.
func (p *quickPanel) SetItems(items []status.MenuItem) {
	cursor := p.Cursor
	p.Items = items
	p.applyFilter()
	if cursor >= 0 && cursor < len(p.Filtered) {
		p.Cursor = cursor
		if p.Cursor >= p.ScrollOffset+p.maxVisible() {
			p.ScrollOffset = p.Cursor - p.maxVisible() + 1
		}
	}
}

// Selected returns the item under the cursor, if any.
func (p *quickPanel) Selected() (status.MenuItem, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.Filtered) {
		return status.MenuItem{}, false
	}
	return p.Filtered[p.Cursor], true
}

// Update handles one key press. panelSelect means the returned item was
// chosen; panelCancel means esc was pressed outside filter mode.
func (p *quickPanel) Update(msg tea.KeyMsg) (panelAction, status.MenuItem, tea.Cmd) {
	keyStr := msg.String()

	if !p.FilterActive {
		switch keyStr {
		case "f", "/":
			p.FilterActive = true
			p.FilterInput.Focus()
			return panelNone, status.MenuItem{}, textinput.Blink
		case "enter":
			if item, ok := p.Selected(); ok {
				return panelSelect, item, nil
			}
			return panelNone, status.MenuItem{}, nil
		case "esc", "q":
			return panelCancel, status.MenuItem{}, nil
		case "up", "k", "ctrl+k":
			p.moveCursor(-1)
			return panelNone, status.MenuItem{}, nil
		case "down", "j", "ctrl+j":
			p.moveCursor(1)
			return panelNone, status.MenuItem{}, nil
		case "home", "g":
			p.Cursor = 0
			p.ScrollOffset = 0
			if len(p.Filtered) == 0 {
				p.Cursor = -1
			}
			return panelNone, status.MenuItem{}, nil
		case "end", "G":
			if n := len(p.Filtered); n > 0 {
				p.Cursor = n - 1
				if p.Cursor >= p.ScrollOffset+p.maxVisible() {
					p.ScrollOffset = p.Cursor - p.maxVisible() + 1
				}
			}
			return panelNone, status.MenuItem{}, nil
		}
		return panelNone, status.MenuItem{}, nil
	}

	switch keyStr {
	case "esc":
		p.FilterActive = false
		p.FilterInput.Blur()
		return panelNone, status.MenuItem{}, nil
	case "enter":
		if item, ok := p.Selected(); ok {
			return panelSelect, item, nil
		}
		return panelNone, status.MenuItem{}, nil
	case "up", "ctrl+k":
		p.moveCursor(-1)
		return panelNone, status.MenuItem{}, nil
	case "down", "ctrl+j":
		p.moveCursor(1)
		return panelNone, status.MenuItem{}, nil
	}

	var cmd tea.Cmd
	p.FilterInput, cmd = p.FilterInput.Update(msg)
	p.applyFilter()
	return panelNone, status.MenuItem{}, cmd
}

func (p *quickPanel) moveCursor(delta int) {
	if delta < 0 {
		if p.Cursor > 0 {
			p.Cursor--
			if p.Cursor < p.ScrollOffset {
				p.ScrollOffset = p.Cursor
			}
		}
		return
	}
	if p.Cursor < len(p.Filtered)-1 {
		p.Cursor++
		if p.Cursor >= p.ScrollOffset+p.maxVisible() {
			p.ScrollOffset = p.Cursor - p.maxVisible() + 1
		}
	}
}

// View renders the panel box.
func (p *quickPanel) View() string {
	maxVisible := p.maxVisible()

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Thm.Accent).
		Width(p.Width).
		Padding(0)

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Thm.Accent).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.Thm.BorderDim).
		Width(p.Width-2).
		Padding(0, 1).
		Render(p.Title)

	inputStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Width(p.Width - 2).
		Foreground(p.Thm.TextFg)

	itemStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Width(p.Width - 2)

	selectedStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Width(p.Width - 2).
		Background(p.Thm.Accent).
		Foreground(p.Thm.AccentFg).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(p.Thm.MutedFg)

	noResultsStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Width(p.Width - 2).
		Foreground(p.Thm.MutedFg).
		Italic(true)

	end := p.ScrollOffset + maxVisible
	if end > len(p.Filtered) {
		end = len(p.Filtered)
	}
	start := p.ScrollOffset
	if start > end {
		start = end
	}

	var itemViews []string
	for i := start; i < end; i++ {
		item := p.Filtered[i]
		label := p.itemLabel(item)
		if item.Description != "" {
			label = fmt.Sprintf("%s  %s", label, descStyle.Render(item.Description))
		}
		label = truncate.StringWithTail(label, uint(p.Width-4), "…") //nolint:gosec

		var line string
		if i == p.Cursor {
			line = selectedStyle.Render(ansi.Strip(label))
		} else {
			line = itemStyle.Render(label)
		}
		itemViews = append(itemViews, line)
	}

	if len(p.Filtered) == 0 {
		itemViews = append(itemViews, noResultsStyle.Render(p.NoResults))
	}

	separator := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.Thm.BorderDim).
		Width(p.Width - 2).
		Render("")

	footerStyle := lipgloss.NewStyle().
		Foreground(p.Thm.MutedFg).
		Align(lipgloss.Right).
		Width(p.Width - 2).
		PaddingTop(1)
	footerText := "j/k to move • f to filter • Enter to select • Esc to go back"
	if p.FilterActive {
		footerText = "Esc to return • Enter to select"
	}
	footer := footerStyle.Render(footerText)

	contentLines := []string{titleStyle}
	if p.FilterActive {
		contentLines = append(contentLines, inputStyle.Render(p.FilterInput.View()), separator)
	}
	contentLines = append(contentLines, strings.Join(itemViews, "\n"), footer)

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, contentLines...))
}

func (p *quickPanel) itemLabel(item status.MenuItem) string {
	if !p.ShowIcons {
		return item.Label
	}
	return fmt.Sprintf("%s %s", iconForPath(item.Label), item.Label)
}

func (p *quickPanel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(p.FilterInput.Value()))
	if query == "" {
		p.Filtered = p.Items
	} else {
		p.Filtered = []status.MenuItem{}
		for _, item := range p.Items {
			if strings.Contains(strings.ToLower(item.Label), query) ||
				strings.Contains(strings.ToLower(item.Description), query) {
				p.Filtered = append(p.Filtered, item)
			}
		}
	}

	if len(p.Filtered) == 0 {
		p.Cursor = -1
	} else if p.Cursor >= len(p.Filtered) || p.Cursor < 0 {
		p.Cursor = 0
	}
	p.ScrollOffset = 0
}

func (p *quickPanel) maxVisible() int {
	maxVisible := p.Height - 6
	if !p.FilterActive {
		maxVisible += 2
	}
	if maxVisible < 1 {
		maxVisible = 1
	}
	return maxVisible
}
