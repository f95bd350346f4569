// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main conversation interface.
package chat

import (
	"strings"

	"github.com/jeranaias/planwise-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full interface: header, transcript, commerce panel,
// input area (or form editor), and status bar.
func (m *Model) View() string {
	if !m.ready {
		return "Starting planwise..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.focus == components.ModeForm {
		b.WriteString(m.renderFormEditor())
	} else {
		b.WriteString(m.renderInputArea())
	}
	b.WriteString("\n")

	m.syncStatusBar()
	b.WriteString(m.statusBar.View())

	return b.String()
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("planwise")
	subtitle := m.theme.HeaderSubtitle.Render("event planning assistant")
	return m.theme.Header.Width(m.width).Render(title + " " + subtitle)
}

func (m *Model) renderInputArea() string {
	var spin string
	if m.spinner.IsActive() {
		spin = m.spinner.View() + "\n"
	}
	return spin + m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m *Model) renderFormEditor() string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render("Event details"))
	b.WriteString("\n")

	for i := range m.formInputs {
		label := m.theme.FormLabel.Render(m.formLabels[i] + ":")
		field := m.formInputs[i].View()
		if i == m.formIndex {
			field = m.theme.FormFieldFocused.Render(field)
		}
		b.WriteString(label + " " + field + "\n")
	}

	return m.theme.FormCard.Width(m.width - 2).Render(strings.TrimRight(b.String(), "\n"))
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshViewport re-renders the transcript into the viewport and follows
// the tail.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderConversation())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderConversation() string {
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		return m.theme.ThinkingText.Render("Tell me about the event you're planning.")
	}

	view := components.MessageView{
		Theme:       m.theme,
		Markdown:    m.markdown,
		ShowEmoji:   m.cfg == nil || m.cfg.UI.ShowEmoji,
		FocusedTree: m.treeMsgID,
		TreeCursor:  m.treeCursor,
	}

	var parts []string
	for _, msg := range msgs {
		if rendered := view.Render(msg, m.ctrl); rendered != "" {
			parts = append(parts, rendered)
		}
	}

	panel := components.CommercePanel{Theme: m.theme, Width: m.width}
	if commerce := panel.Render(m.cartState); commerce != "" {
		parts = append(parts, commerce)
	}

	return strings.Join(parts, "\n\n")
}

// =============================================================================
// STATUS BAR SYNC
// =============================================================================

func (m *Model) syncStatusBar() {
	m.statusBar.SetMode(m.focus)
	m.statusBar.SetStreaming(m.ctrl.Loading())
	m.statusBar.SetBuffering(m.ctrl.Buffering())
	m.statusBar.SetCart(len(m.cartState.Items()), m.cartState.Price())
	m.statusBar.SetOffers(len(m.cartState.Offers()))
}
