// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main conversation interface.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/planwise-tui/internal/orchestrator"
	"github.com/jeranaias/planwise-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateChangedMsg:
		return m.handleStateChange()

	case requestDoneMsg:
		return m.handleRequestDone(msg)

	case noticeMsg:
		m.statusBar.SetNotice(msg.text)
		return m, nil

	case clearNoticeMsg:
		m.statusBar.SetNotice("")
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg.Cfg)
		m.refreshViewport()
		return m, noticeCmd("configuration reloaded")
	}

	// Everything else (spinner ticks, blink) goes to the widgets.
	return m.updateWidgets(msg)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.statusBar.SetWidth(msg.Width)

	// Header and status bar take one line each; the input area three.
	vpHeight := msg.Height - 5
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.SetWidth(msg.Width - 4)

	m.ready = true
	m.refreshViewport()
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.focus {
	case components.ModeTree:
		return m.handleTreeKey(msg)
	case components.ModeForm:
		return m.handleFormKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Send):
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.ctrl.Loading() {
			return m, nil
		}
		m.input.Reset()
		return m, tea.Batch(m.spinner.Start(), m.sendCmd(text))

	case key.Matches(msg, m.keys.FocusTree):
		if active := m.activeTreeMessage(); active != nil {
			m.focus = components.ModeTree
			m.treeMsgID = active.ID
			m.treeCursor = 0
			m.input.Blur()
			m.refreshViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.EditForm):
		if form := m.ctrl.PinnedForm(); form != nil {
			m.openFormEditor(form)
			return m, nil
		}
		if id := m.latestEditableFormID(); id != "" {
			m.ctrl.EditForm(id)
			if form := m.ctrl.PinnedForm(); form != nil {
				m.openFormEditor(form)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if !m.ctrl.CanRetry() || m.ctrl.Loading() {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Start(), m.retryCmd())

	case key.Matches(msg, m.keys.NewConv):
		m.ctrl.Reset()
		m.cartState.Reset()
		m.focus = components.ModeInput
		m.treeMsgID = ""
		m.refreshViewport()
		return m, noticeCmd("new conversation")

	case key.Matches(msg, m.keys.Save):
		return m, m.saveConversation()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.exitTreeFocus()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.treeCursor > 0 {
			m.treeCursor--
		}
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.treeCursor < len(m.treeRows())-1 {
			m.treeCursor++
		}
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		rows := m.treeRows()
		if m.treeCursor < len(rows) && !rows[m.treeCursor].IsSubmit {
			row := rows[m.treeCursor]
			m.ctrl.ToggleSelection(m.treeMsgID, row.Path, row.InitialSelected)
			m.refreshViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		rows := m.treeRows()
		if m.treeCursor >= len(rows) {
			return m, nil
		}
		row := rows[m.treeCursor]
		switch {
		case row.IsSubmit:
			m.exitTreeFocus()
			return m, tea.Batch(m.spinner.Start(), m.submitTreeCmd(m.treeMsgID))
		case row.HasChildren:
			m.ctrl.ToggleExpansion(m.treeMsgID, row.Path, row.InitialSelected)
			m.clampTreeCursor()
			m.refreshViewport()
		default:
			m.ctrl.ToggleSelection(m.treeMsgID, row.Path, row.InitialSelected)
			m.refreshViewport()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeFormEditor()
		return m, nil

	case key.Matches(msg, m.keys.Send):
		values := m.formValues()
		m.closeFormEditor()
		return m, tea.Batch(m.spinner.Start(), m.submitFormCmd(values))

	case key.Matches(msg, m.keys.NextField):
		m.moveFormFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.moveFormFocus(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) moveFormFocus(delta int) {
	m.formInputs[m.formIndex].Blur()
	m.formIndex = (m.formIndex + delta + formFieldCount) % formFieldCount
	m.formInputs[m.formIndex].Focus()
}

func (m *Model) exitTreeFocus() {
	m.focus = components.ModeInput
	m.treeMsgID = ""
	m.treeCursor = 0
	m.input.Focus()
	m.refreshViewport()
}

// =============================================================================
// CONTROLLER EVENTS
// =============================================================================

func (m *Model) handleStateChange() (tea.Model, tea.Cmd) {
	// If the focused tree's message got retired, tree focus is stale.
	if m.focus == components.ModeTree {
		if active := m.activeTreeMessage(); active == nil || active.ID != m.treeMsgID {
			m.exitTreeFocus()
		} else {
			m.clampTreeCursor()
		}
	}

	m.refreshViewport()

	var cmd tea.Cmd
	if m.ctrl.Loading() && !m.spinner.IsActive() {
		cmd = m.spinner.Start()
	}

	return m, tea.Batch(cmd, m.waitForChange())
}

func (m *Model) handleRequestDone(msg requestDoneMsg) (tea.Model, tea.Cmd) {
	m.spinner.Stop()
	m.refreshViewport()

	if errors.Is(msg.err, orchestrator.ErrRequestInFlight) {
		return m, noticeCmd("a request is already running")
	}
	// Other failures already surface as error chunks in the transcript.
	return m, nil
}

func (m *Model) updateWidgets(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	if m.focus == components.ModeInput {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// REQUEST COMMANDS
// =============================================================================

func (m *Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return requestDoneMsg{err: m.ctrl.Send(context.Background(), text)}
	}
}

func (m *Model) retryCmd() tea.Cmd {
	return func() tea.Msg {
		return requestDoneMsg{err: m.ctrl.Retry(context.Background())}
	}
}

func (m *Model) submitTreeCmd(messageID string) tea.Cmd {
	return func() tea.Msg {
		return requestDoneMsg{err: m.ctrl.SubmitTree(context.Background(), messageID)}
	}
}

func (m *Model) submitFormCmd(values orchestrator.FormValues) tea.Cmd {
	return func() tea.Msg {
		return requestDoneMsg{err: m.ctrl.SubmitForm(context.Background(), values)}
	}
}
