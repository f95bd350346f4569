// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the planwise TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/planwise-tui/internal/chunk"
	"github.com/jeranaias/planwise-tui/internal/model"
	"github.com/jeranaias/planwise-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// MessageView renders one conversation message: the bubble, its text, and
// any embedded trees or forms. TreeCursor applies only when FocusedTree
// matches the message ID, so only the active tree shows a cursor.
type MessageView struct {
	Theme       *styles.Theme
	Markdown    *glamour.TermRenderer
	ShowEmoji   bool
	FocusedTree string // message ID whose tree currently has focus
	TreeCursor  int
}

// Render produces the full display block for a message.
func (v MessageView) Render(msg *model.Message, states StateReader) string {
	if msg == nil {
		return ""
	}

	var parts []string
	var text strings.Builder

	flushText := func() {
		if text.Len() == 0 {
			return
		}
		parts = append(parts, v.renderText(msg, text.String()))
		text.Reset()
	}

	for _, c := range msg.Chunks {
		switch c.Type {
		case chunk.TypeText:
			if c.Text != nil {
				text.WriteString(c.Text.Content)
			}
		case chunk.TypeTree:
			flushText()
			parts = append(parts, v.renderTree(msg, c.Tree, states))
		case chunk.TypeTextForm:
			flushText()
			parts = append(parts, v.renderForm(c.Form))
		case chunk.TypeError:
			flushText()
			if c.Error != nil {
				parts = append(parts, v.Theme.ErrorBox.Render(
					styles.StatusIndicators.Error+" "+c.Error.Message))
			}
		}
		// Diverted chunk types never reach the log; anything else is
		// skipped silently.
	}
	flushText()

	if len(parts) == 0 {
		return ""
	}

	body := strings.Join(parts, "\n")
	header := v.renderHeader(msg)
	return header + "\n" + body
}

func (v MessageView) renderHeader(msg *model.Message) string {
	name := msg.Sender.DisplayName()
	ts := msg.Timestamp.Format("15:04")
	if msg.Sender == model.SenderUser {
		return v.Theme.InputPrompt.Render(name) + " " + v.Theme.SessionMeta.Render(ts)
	}
	return v.Theme.HeaderTitle.Render(name) + " " + v.Theme.SessionMeta.Render(ts)
}

func (v MessageView) renderText(msg *model.Message, text string) string {
	bubble := v.bubbleStyle(msg)

	rendered := text
	if msg.Sender == model.SenderAgent && v.Markdown != nil {
		if out, err := v.Markdown.Render(text); err == nil {
			rendered = strings.TrimRight(out, "\n")
		}
	}

	return bubble.MaxWidth(v.Theme.BubbleWidth()).Render(rendered)
}

func (v MessageView) bubbleStyle(msg *model.Message) lipgloss.Style {
	switch {
	case msg.Sender == model.SenderUser:
		return v.Theme.UserBubble
	case msg.Disabled:
		return v.Theme.DisabledBubble
	default:
		return v.Theme.AgentBubble
	}
}

func (v MessageView) renderTree(msg *model.Message, tree *chunk.Tree, states StateReader) string {
	cursor := -1
	if msg.ID == v.FocusedTree {
		cursor = v.TreeCursor
	}
	tv := TreeView{
		Theme:     v.Theme,
		Cursor:    cursor,
		Disabled:  msg.Disabled,
		ShowEmoji: v.ShowEmoji,
	}
	return tv.Render(msg.ID, tree, states)
}

func (v MessageView) renderForm(form *chunk.TextForm) string {
	if form == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.Theme.FormTitle.Render("Event details"))
	b.WriteString("\n")

	for _, f := range []chunk.TextField{form.Address, form.Budget, form.Date, form.Duration, form.Attendees} {
		value := f.Content
		if value == "" {
			value = "-"
		}
		b.WriteString(fmt.Sprintf("%s %s\n",
			v.Theme.FormLabel.Render(f.Label+":"),
			v.Theme.FormValue.Render(value)))
	}

	return v.Theme.FormCard.Render(strings.TrimRight(b.String(), "\n"))
}
