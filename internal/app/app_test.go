package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brady-zip/changed-filter/internal/config"
	"github.com/brady-zip/changed-filter/internal/models"
	"github.com/brady-zip/changed-filter/internal/status"
	"github.com/brady-zip/changed-filter/internal/theme"
)

type stubSource struct {
	raw   string
	err   error
	calls int
}

func (s *stubSource) ReadStatus(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.raw, s.err
}

const mixedStatus = "M  staged.go\n M unstaged.go\n?? untracked.txt\n"

func newTestModel(t *testing.T, raw string, initial *models.Category) (*Model, *stubSource) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.AutoRefresh = false
	cfg.ShowIcons = false
	source := &stubSource{raw: raw}
	classified := status.Classify(status.Parse(raw))
	m := New(cfg, theme.Dracula(), source, "/repo", "", classified, initial)
	t.Cleanup(m.Close)
	return m, source
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestCategoryThenFileSelection(t *testing.T) {
	m, _ := newTestModel(t, mixedStatus, nil)
	require.Equal(t, stepCategory, m.step)

	// All Changes is the first category.
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stepFile, m.step)
	require.NotNil(t, m.filePanel)
	assert.Equal(t, "All Changes", m.filePanel.Title)

	send(m, keyRunes("j"))
	cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.quitting)
	assert.Equal(t, filepath.Join("/repo", "unstaged.go"), m.SelectedPath())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStagedCategoryFiltersFiles(t *testing.T) {
	m, _ := newTestModel(t, mixedStatus, nil)

	send(m, keyRunes("j"))
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, stepFile, m.step)
	require.Len(t, m.filePanel.Items, 1)
	assert.Equal(t, "staged.go", m.filePanel.Items[0].Label)
}

func TestEmptyCategoryShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, "?? untracked.txt\n", nil)

	// Staged Only has no entries here.
	send(m, keyRunes("j"))
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, stepNotice, m.step)
	assert.Contains(t, m.notice, "Staged Only")
	assert.Contains(t, m.View(), "Staged Only")
	assert.False(t, m.quitting)

	// Any key returns to the category panel.
	send(m, keyRunes("x"))
	assert.Equal(t, stepCategory, m.step)
	assert.Empty(t, m.notice)
}

func TestEscOnFilePanelReturnsToCategories(t *testing.T) {
	m, _ := newTestModel(t, mixedStatus, nil)
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stepFile, m.step)

	send(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, stepCategory, m.step)
	assert.Nil(t, m.filePanel)
	assert.False(t, m.quitting)
	assert.Empty(t, m.SelectedPath())
}

func TestEscOnCategoryPanelCancels(t *testing.T) {
	m, _ := newTestModel(t, mixedStatus, nil)

	cmd := send(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, m.quitting)
	assert.Empty(t, m.SelectedPath())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCtrlCCancelsAnywhere(t *testing.T) {
	m, _ := newTestModel(t, mixedStatus, nil)
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stepFile, m.step)

	cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, m.quitting)
	assert.Empty(t, m.SelectedPath())
	require.NotNil(t, cmd)
}

func TestInitialCategorySkipsMenu(t *testing.T) {
	cat := models.CategoryUnstaged
	m, _ := newTestModel(t, mixedStatus, &cat)

	require.Equal(t, stepFile, m.step)
	require.Len(t, m.filePanel.Items, 2)
	assert.Equal(t, "unstaged.go", m.filePanel.Items[0].Label)
	assert.Equal(t, "untracked.txt", m.filePanel.Items[1].Label)

	// Esc still lands on the category panel.
	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stepCategory, m.step)
}

func TestInitialEmptyCategoryShowsNotice(t *testing.T) {
	cat := models.CategoryStaged
	m, _ := newTestModel(t, "?? untracked.txt\n", &cat)

	assert.Equal(t, stepNotice, m.step)
}

func TestRefreshKeyReloadsStatus(t *testing.T) {
	m, source := newTestModel(t, mixedStatus, nil)

	cmd := send(m, keyRunes("r"))
	require.NotNil(t, cmd)

	source.raw = mixedStatus + "A  added.go\n"
	msg := cmd()
	require.IsType(t, statusReloadedMsg{}, msg)
	send(m, msg)

	assert.Equal(t, 4, m.classified.Count(models.CategoryAll))
	assert.Contains(t, m.catPanel.Items[0].Label, "4 files")
}

func TestRefreshWhileFilteringIsTyping(t *testing.T) {
	m, source := newTestModel(t, mixedStatus, nil)
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	send(m, keyRunes("f"))

	send(m, keyRunes("r"))

	assert.Zero(t, source.calls)
	assert.Equal(t, "r", m.filePanel.FilterInput.Value())
}

func TestReloadUpdatesOpenFilePanel(t *testing.T) {
	m, _ := newTestModel(t, mixedStatus, nil)
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.filePanel.Items, 3)

	reloaded := status.Classify(status.Parse("M  staged.go\n"))
	send(m, statusReloadedMsg{classified: reloaded})

	require.Equal(t, stepFile, m.step)
	assert.Len(t, m.filePanel.Items, 1)
}

func TestReloadEmptyCategoryFallsBackToNotice(t *testing.T) {
	m, _ := newTestModel(t, "M  staged.go\n", nil)
	send(m, keyRunes("j"))
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stepFile, m.step)

	reloaded := status.Classify(status.Parse("?? untracked.txt\n"))
	send(m, statusReloadedMsg{classified: reloaded})

	assert.Equal(t, stepNotice, m.step)
	assert.Nil(t, m.filePanel)
}

func TestReloadErrorAbortsSession(t *testing.T) {
	m, _ := newTestModel(t, mixedStatus, nil)

	readErr := errors.New("status read failed")
	cmd := send(m, statusReloadedMsg{err: readErr})

	assert.True(t, m.quitting)
	assert.ErrorIs(t, m.Err(), readErr)
	require.NotNil(t, cmd)
}

func TestViewRendersCategoryCounts(t *testing.T) {
	m, _ := newTestModel(t, mixedStatus, nil)
	send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	assert.Contains(t, view, "All Changes (3 files)")
	assert.Contains(t, view, "Staged Only (1 file)")
	assert.Contains(t, view, "Unstaged Only (2 files)")
}
