// Package ui renders the interactive rewrite plan dialog. All plan
// semantics live in internal/plan and internal/rewrite; this package only
// translates key presses into controller calls and state into a view.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/histkit/replan/internal/config"
	"github.com/histkit/replan/internal/plan"
	"github.com/histkit/replan/internal/rewrite"
	"github.com/histkit/replan/models"
)

// DialogMode is the dialog's input mode, layered on top of the controller's
// lifecycle state.
type DialogMode int

const (
	ModeList DialogMode = iota
	ModeReword
	ModeConfirm
	ModeSubmitting
	ModeDone
)

// MsgSubmitResult carries the executor outcome back into the update loop.
type MsgSubmitResult struct {
	Err error
}

// DialogModel is the bubbletea model for one plan dialog.
type DialogModel struct {
	Ctrl *rewrite.Controller
	Cfg  config.AppConfig

	Mode     DialogMode
	Cursor   int
	Input    textinput.Model
	Spinner  spinner.Model
	Width    int
	Upstream string

	// Outcome, once the dialog is finished.
	Cancelled bool
	Succeeded bool
}

// NewDialogModel builds the dialog over an already-loaded controller.
func NewDialogModel(ctrl *rewrite.Controller, upstream string, cfg config.AppConfig) DialogModel {
	input := textinput.New()
	input.CharLimit = 0
	input.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StylePrimary

	m := DialogModel{
		Ctrl:     ctrl,
		Cfg:      cfg,
		Input:    input,
		Spinner:  sp,
		Upstream: upstream,
	}
	if cfg.Plan.AutosquashOnOpen {
		_ = ctrl.ApplyAutosquash()
	}
	return m
}

// Init implements tea.Model.
func (m DialogModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m DialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil

	case MsgSubmitResult:
		if msg.Err != nil {
			// Controller holds the message; back to the list for fixes.
			m.Mode = ModeList
			return m, nil
		}
		m.Mode = ModeDone
		m.Succeeded = true
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Mode == ModeSubmitting {
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.Mode {
		case ModeList:
			return m.updateList(msg)
		case ModeReword:
			return m.updateReword(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeSubmitting:
			// Submission disables every control, including quit.
			return m, nil
		}
	}
	return m, nil
}

func (m DialogModel) entries() []models.PlanEntry {
	return m.Ctrl.Plan().Entries()
}

func (m DialogModel) cursorEntry() (models.PlanEntry, bool) {
	entries := m.entries()
	if m.Cursor < 0 || m.Cursor >= len(entries) {
		return models.PlanEntry{}, false
	}
	return entries[m.Cursor], true
}

func (m DialogModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.entries()
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(entries)-1 {
			m.Cursor++
		}
	case "shift+up", "K":
		if e, ok := m.cursorEntry(); ok && m.Cursor > 0 {
			_ = m.Ctrl.Reorder(e.ID(), m.Cursor-1)
			m.Cursor--
		}
	case "shift+down", "J":
		if e, ok := m.cursorEntry(); ok && m.Cursor < len(entries)-1 {
			_ = m.Ctrl.Reorder(e.ID(), m.Cursor+1)
			m.Cursor++
		}
	case "p", "e", "s", "f", "d":
		if e, ok := m.cursorEntry(); ok {
			_ = m.Ctrl.SetAction(e.ID(), actionForKey(msg.String()))
		}
	case "r":
		if e, ok := m.cursorEntry(); ok {
			_ = m.Ctrl.SetAction(e.ID(), models.ActionReword)
			// SetAction seeded the text with the original summary.
			reworded, _ := m.Ctrl.Plan().Entry(e.ID())
			m.Input.SetValue(reworded.RewordText)
			m.Input.CursorEnd()
			m.Input.Focus()
			m.Mode = ModeReword
			return m, textinput.Blink
		}
	case "a":
		_ = m.Ctrl.ApplyAutosquash()
	case "enter":
		if !m.Ctrl.Plan().Submittable() {
			return m, nil
		}
		if m.Cfg.UI.ConfirmSubmit {
			m.Mode = ModeConfirm
			return m, nil
		}
		return m.submit()
	case "q", "esc", "ctrl+c":
		if m.Ctrl.Cancel() == nil {
			m.Cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DialogModel) updateReword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if e, ok := m.cursorEntry(); ok {
			_ = m.Ctrl.SetRewordText(e.ID(), m.Input.Value())
		}
		m.Input.Blur()
		m.Mode = ModeList
		return m, nil
	case "esc":
		// Abandon the reword entirely, not just the text edit.
		if e, ok := m.cursorEntry(); ok {
			_ = m.Ctrl.SetAction(e.ID(), models.ActionPick)
		}
		m.Input.Blur()
		m.Mode = ModeList
		return m, nil
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m DialogModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m.submit()
	case "n", "esc":
		m.Mode = ModeList
	}
	return m, nil
}

func (m DialogModel) submit() (tea.Model, tea.Cmd) {
	m.Mode = ModeSubmitting
	ctrl := m.Ctrl
	return m, tea.Batch(
		m.Spinner.Tick,
		func() tea.Msg {
			return MsgSubmitResult{Err: ctrl.Submit(context.Background())}
		},
	)
}

func actionForKey(key string) models.Action {
	switch key {
	case "p":
		return models.ActionPick
	case "r":
		return models.ActionReword
	case "e":
		return models.ActionEdit
	case "s":
		return models.ActionSquash
	case "f":
		return models.ActionFixup
	case "d":
		return models.ActionDrop
	default:
		return models.ActionPick
	}
}

// View implements tea.Model.
func (m DialogModel) View() string {
	var b strings.Builder

	b.WriteString(StyleHeader.Render(fmt.Sprintf("Rewrite history onto %s", m.Upstream)))
	b.WriteString("\n\n")

	p := m.Ctrl.Plan()
	if p.PendingAutosquash() {
		b.WriteString(StyleBanner.Render("fixup!/squash! commits detected. Press 'a' to autosquash."))
		b.WriteString("\n")
	}

	orphans := p.Orphans()
	for i, e := range p.Entries() {
		cursor := "  "
		if i == m.Cursor && m.Mode != ModeSubmitting {
			cursor = StyleSelected.Render("> ")
		}
		keyword := ActionStyle(e.Action).Render(fmt.Sprintf("%-6s", string(e.Action)))
		summary := e.Commit.Summary
		if e.Action == models.ActionReword && e.RewordText != "" {
			summary = e.RewordText
		}
		line := fmt.Sprintf("%s%s %s %s", cursor, keyword, StyleSubtle.Render(m.abbrev(e.Commit)), summary)
		if orphans[e.ID()] {
			line += StyleError.Render("  ← no commit to fold into")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.previewView())

	if failure := m.Ctrl.Failure(); failure != "" && m.Mode != ModeSubmitting {
		b.WriteString("\n")
		b.WriteString(StyleError.Render("rewrite failed: " + failure))
		b.WriteString("\n")
	}

	switch m.Mode {
	case ModeReword:
		b.WriteString("\n")
		b.WriteString(StyleInputBox.Render(m.Input.View()))
		b.WriteString("\n")
		b.WriteString(StyleSubtle.Render("enter: apply message  esc: cancel reword"))
	case ModeConfirm:
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render("Rewrite history now? (y/n)"))
	case ModeSubmitting:
		b.WriteString("\n")
		b.WriteString(m.Spinner.View() + " Rewriting history...")
	case ModeDone:
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render("History rewritten."))
	default:
		b.WriteString("\n")
		b.WriteString(m.helpView(p))
	}
	b.WriteByte('\n')
	return b.String()
}

func (m DialogModel) abbrev(c models.Commit) string {
	id := c.ShortID
	if n := m.Cfg.Plan.AbbrevLength; n > 0 && len(c.ID) >= n {
		id = c.ID[:n]
	}
	return id
}

func (m DialogModel) previewView() string {
	p := m.Ctrl.Plan()
	groups, stats := p.Preview()

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Result"))
	b.WriteByte('\n')
	for _, g := range groups {
		switch {
		case g.HeadID == "":
			b.WriteString(StyleError.Render("  ✗ fold without a target"))
		case g.Errored:
			b.WriteString(StyleError.Render(fmt.Sprintf("  ✗ %s", g.Message)))
		case g.FoldedCount > 0:
			b.WriteString(fmt.Sprintf("  • %s %s", g.Message,
				StyleSubtle.Render(fmt.Sprintf("(+%d folded)", g.FoldedCount))))
		default:
			b.WriteString("  • " + g.Message)
		}
		b.WriteByte('\n')
	}
	b.WriteString(StyleSubtle.Render(fmt.Sprintf(
		"%d commits → %d  (%d removed, %d reworded)",
		p.Len(), stats.Resulting, stats.Removed, stats.Reworded)))
	b.WriteByte('\n')
	return b.String()
}

func (m DialogModel) helpView(p plan.Plan) string {
	help := StyleSubtle.Render("p/r/e/s/f/d: action  J/K: move  a: autosquash  enter: rewrite  q: cancel")
	if !p.Submittable() {
		return StyleError.Render("resolve the marked entries to enable rewrite") + "\n" + help
	}
	return help
}
