package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/histkit/replan/internal/config"
	"github.com/histkit/replan/internal/rewrite"
	"github.com/histkit/replan/models"
)

type stubExecutor struct{ err error }

func (s *stubExecutor) ExecuteRewrite(ctx context.Context, upstream, todo string, messages map[string]string) error {
	return s.err
}

func testConfig() config.AppConfig {
	return config.AppConfig{
		Repo: config.RepoConfig{Path: "/repo", Upstream: "main"},
		Plan: config.PlanConfig{AbbrevLength: 7},
		UI:   config.UIConfig{ConfirmSubmit: false},
	}
}

func newTestDialog(exec rewrite.Executor, cfg config.AppConfig) DialogModel {
	commits := []models.Commit{
		{ID: "aaaa1111111", ShortID: "aaaa111", Summary: "Add feature"},
		{ID: "bbbb2222222", ShortID: "bbbb222", Summary: "fixup! Add feature"},
		{ID: "cccc3333333", ShortID: "cccc333", Summary: "Another commit"},
	}
	ctrl := rewrite.NewController("/repo", "main", commits, exec, nil)
	return NewDialogModel(ctrl, "main", cfg)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m DialogModel, msg tea.Msg) (DialogModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	dm, ok := next.(DialogModel)
	require.True(t, ok)
	return dm, cmd
}

func TestDialog_ActionKeysAssignActions(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())

	m, _ = update(t, m, key("d"))

	e, _ := m.Ctrl.Plan().Entry("aaaa1111111")
	assert.Equal(t, models.ActionDrop, e.Action)
}

func TestDialog_MoveKeysReorderAndFollowCursor(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())

	m, _ = update(t, m, key("J"))

	entries := m.Ctrl.Plan().Entries()
	assert.Equal(t, "bbbb2222222", entries[0].Commit.ID)
	assert.Equal(t, "aaaa1111111", entries[1].Commit.ID)
	assert.Equal(t, 1, m.Cursor)
}

func TestDialog_AutosquashKey(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())
	require.True(t, m.Ctrl.Plan().PendingAutosquash())

	m, _ = update(t, m, key("a"))

	assert.False(t, m.Ctrl.Plan().PendingAutosquash())
	e, _ := m.Ctrl.Plan().Entry("bbbb2222222")
	assert.Equal(t, models.ActionFixup, e.Action)
}

func TestDialog_AutosquashOnOpen(t *testing.T) {
	cfg := testConfig()
	cfg.Plan.AutosquashOnOpen = true

	m := newTestDialog(&stubExecutor{}, cfg)

	assert.False(t, m.Ctrl.Plan().PendingAutosquash())
}

func TestDialog_RewordFlowSeedsAndAppliesText(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())

	m, _ = update(t, m, key("r"))
	require.Equal(t, ModeReword, m.Mode)
	assert.Equal(t, "Add feature", m.Input.Value())

	m.Input.SetValue("Updated message")
	m, _ = update(t, m, key("enter"))

	assert.Equal(t, ModeList, m.Mode)
	e, _ := m.Ctrl.Plan().Entry("aaaa1111111")
	assert.Equal(t, models.ActionReword, e.Action)
	assert.Equal(t, "Updated message", e.RewordText)
}

func TestDialog_RewordEscRevertsToPick(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())

	m, _ = update(t, m, key("r"))
	m, _ = update(t, m, key("esc"))

	assert.Equal(t, ModeList, m.Mode)
	e, _ := m.Ctrl.Plan().Entry("aaaa1111111")
	assert.Equal(t, models.ActionPick, e.Action)
	assert.Empty(t, e.RewordText)
}

func TestDialog_SubmitBlockedWhileInvalid(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())
	require.NoError(t, m.Ctrl.SetAction("aaaa1111111", models.ActionSquash))

	m, cmd := update(t, m, key("enter"))

	assert.Equal(t, ModeList, m.Mode)
	assert.Nil(t, cmd)
}

func TestDialog_SubmitSuccessQuits(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())

	m, cmd := update(t, m, key("enter"))
	require.Equal(t, ModeSubmitting, m.Mode)
	require.NotNil(t, cmd)

	// Run the controller submission the Cmd would have performed.
	require.NoError(t, m.Ctrl.Submit(context.Background()))

	m, _ = update(t, m, MsgSubmitResult{Err: nil})
	assert.Equal(t, ModeDone, m.Mode)
	assert.True(t, m.Succeeded)
}

func TestDialog_SubmitFailureReturnsToList(t *testing.T) {
	exec := &stubExecutor{err: errors.New("conflicts detected")}
	m := newTestDialog(exec, testConfig())

	m, _ = update(t, m, key("enter"))
	require.Equal(t, ModeSubmitting, m.Mode)

	// Ignore edits while submitting.
	m, _ = update(t, m, key("d"))
	e, _ := m.Ctrl.Plan().Entry("aaaa1111111")
	assert.Equal(t, models.ActionPick, e.Action)

	m, _ = update(t, m, MsgSubmitResult{Err: exec.err})
	assert.Equal(t, ModeList, m.Mode)
	assert.False(t, m.Succeeded)
}

func TestDialog_ConfirmGateBeforeSubmit(t *testing.T) {
	cfg := testConfig()
	cfg.UI.ConfirmSubmit = true
	m := newTestDialog(&stubExecutor{}, cfg)

	m, _ = update(t, m, key("enter"))
	require.Equal(t, ModeConfirm, m.Mode)

	m, _ = update(t, m, key("n"))
	assert.Equal(t, ModeList, m.Mode)

	m, _ = update(t, m, key("enter"))
	m, cmd := update(t, m, key("y"))
	assert.Equal(t, ModeSubmitting, m.Mode)
	assert.NotNil(t, cmd)
}

func TestDialog_QuitCancelsController(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())

	m, cmd := update(t, m, key("q"))

	assert.True(t, m.Cancelled)
	assert.Equal(t, rewrite.StateCancelled, m.Ctrl.State())
	assert.NotNil(t, cmd)
}

func TestDialog_ViewShowsOrphanMarker(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())
	require.NoError(t, m.Ctrl.SetAction("aaaa1111111", models.ActionFixup))

	view := m.View()

	assert.Contains(t, view, "no commit to fold into")
	assert.Contains(t, view, "resolve the marked entries")
}

func TestDialog_ViewShowsAutosquashBanner(t *testing.T) {
	m := newTestDialog(&stubExecutor{}, testConfig())

	view := m.View()
	assert.Contains(t, view, "autosquash")

	m, _ = update(t, m, key("a"))
	assert.NotContains(t, m.View(), "Press 'a' to autosquash")
}
