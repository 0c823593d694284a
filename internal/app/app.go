// Package app implements the interactive changed-filter panels.
//
// The session walks a small state machine: a category panel, then a
// file panel for the chosen category, with a notice step for empty
// categories. Selecting a file quits the program loop and leaves the
// absolute path on the model for the caller.
package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brady-zip/changed-filter/internal/config"
	"github.com/brady-zip/changed-filter/internal/log"
	"github.com/brady-zip/changed-filter/internal/models"
	"github.com/brady-zip/changed-filter/internal/status"
	"github.com/brady-zip/changed-filter/internal/theme"
)

type step int

const (
	stepCategory step = iota
	stepFile
	stepNotice
)

// StatusSource reads raw porcelain status output for a repository root.
// git.Runner satisfies it; tests substitute a stub.
type StatusSource interface {
	ReadStatus(ctx context.Context, root string) (string, error)
}

type statusReloadedMsg struct {
	classified status.Classified
	err        error
}

type watchFiredMsg struct{}

// Model is the bubbletea model for a changed-filter session.
type Model struct {
	cfg    *config.AppConfig
	thm    *theme.Theme
	source StatusSource
	root   string

	classified status.Classified
	step       step
	category   models.Category
	catPanel   *quickPanel
	filePanel  *quickPanel
	notice     string

	watcher *StatusWatcher

	width  int
	height int

	selectedPath string
	quitting     bool
	err          error

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds the session model. commonDir enables auto refresh when the
// config asks for it; pass "" to disable watching. When initial is
// non-nil the category panel is skipped and the session opens directly
// on that category's file panel.
func New(cfg *config.AppConfig, thm *theme.Theme, source StatusSource, root, commonDir string, classified status.Classified, initial *models.Category) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		cfg:        cfg,
		thm:        thm,
		source:     source,
		root:       root,
		classified: classified,
		ctx:        ctx,
		cancel:     cancel,
	}
	m.catPanel = newQuickPanel("Changed Files", "", status.BuildCategoryMenu(classified), thm, false)
	if cfg.AutoRefresh && commonDir != "" {
		m.watcher = NewStatusWatcher(commonDir)
	}
	if initial != nil {
		m.enterCategory(*initial)
	}
	return m
}

// SelectedPath returns the absolute path of the chosen file, or "" when
// the session was cancelled.
func (m *Model) SelectedPath() string { return m.selectedPath }

// Err returns the error that aborted the session, if any.
func (m *Model) Err() error { return m.err }

// Close releases the watcher and the session context.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.cancel()
}

// Init starts the auto-refresh watcher.
func (m *Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	started, err := m.watcher.Start()
	if err != nil {
		log.Printf("auto refresh disabled: %v", err)
		m.watcher = nil
		return nil
	}
	if !started {
		m.watcher = nil
		return nil
	}
	return m.waitForWatch()
}

func (m *Model) waitForWatch() tea.Cmd {
	watcher := m.watcher
	return func() tea.Msg {
		if !watcher.Wait() {
			return nil
		}
		return watchFiredMsg{}
	}
}

func (m *Model) reloadStatus() tea.Cmd {
	return func() tea.Msg {
		raw, err := m.source.ReadStatus(m.ctx, m.root)
		if err != nil {
			return statusReloadedMsg{err: err}
		}
		return statusReloadedMsg{classified: status.Classify(status.Parse(raw))}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.catPanel.SetSize(msg.Width, msg.Height)
		if m.filePanel != nil {
			m.filePanel.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case watchFiredMsg:
		cmds := []tea.Cmd{m.waitForWatch()}
		if m.watcher != nil && m.watcher.ShouldRefresh(time.Now()) {
			cmds = append(cmds, m.reloadStatus())
		}
		return m, tea.Batch(cmds...)

	case statusReloadedMsg:
		return m.applyReload(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applyReload(msg statusReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	m.classified = msg.classified
	m.catPanel.SetItems(status.BuildCategoryMenu(m.classified))
	if m.step != stepFile {
		return m, nil
	}

	entries := m.classified.ForCategory(m.category)
	if len(entries) == 0 {
		m.filePanel = nil
		m.notice = fmt.Sprintf("No files left in %s.", m.category)
		m.step = stepNotice
		return m, nil
	}
	m.filePanel.SetItems(status.BuildFileMenu(m.root, entries))
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.cancelSession()
	}

	if m.step == stepNotice {
		m.notice = ""
		m.step = stepCategory
		return m, nil
	}

	panel := m.catPanel
	if m.step == stepFile {
		panel = m.filePanel
	}

	if msg.String() == "r" && !panel.FilterActive {
		return m, m.reloadStatus()
	}

	action, item, cmd := panel.Update(msg)
	switch action {
	case panelSelect:
		if m.step == stepCategory {
			if cat, ok := models.CategoryFromID(item.Value); ok {
				m.enterCategory(cat)
			}
			return m, nil
		}
		m.selectedPath = item.Value
		m.quitting = true
		return m, tea.Quit

	case panelCancel:
		if m.step == stepFile {
			m.filePanel = nil
			m.step = stepCategory
			return m, nil
		}
		return m.cancelSession()
	}
	return m, cmd
}

func (m *Model) cancelSession() (tea.Model, tea.Cmd) {
	m.selectedPath = ""
	m.quitting = true
	return m, tea.Quit
}

// enterCategory moves to the file panel for cat, or to the empty-
// category notice when it has no entries.
func (m *Model) enterCategory(cat models.Category) {
	m.category = cat
	entries := m.classified.ForCategory(cat)
	if len(entries) == 0 {
		m.notice = fmt.Sprintf("No files in %s.", cat)
		m.step = stepNotice
		return
	}
	m.filePanel = newQuickPanel(cat.String(), "No matching files.", status.BuildFileMenu(m.root, entries), m.thm, m.cfg.ShowIcons)
	if m.width > 0 {
		m.filePanel.SetSize(m.width, m.height)
	}
	m.step = stepFile
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.step {
	case stepNotice:
		content = m.noticeView()
	case stepFile:
		content = m.filePanel.View()
	default:
		content = m.catPanel.View()
	}

	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) noticeView() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.thm.WarnFg).
		Padding(0, 2)
	msgStyle := lipgloss.NewStyle().Foreground(m.thm.WarnFg).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(m.thm.MutedFg)

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		msgStyle.Render(m.notice),
		hintStyle.Render("Press any key to go back"),
	))
}
