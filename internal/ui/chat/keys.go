// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main conversation interface.
package chat

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines all keybindings for the chat interface.
type KeyMap struct {
	// Global
	Quit    key.Binding
	Send    key.Binding
	Escape  key.Binding
	Retry   key.Binding
	NewConv key.Binding
	Save    key.Binding

	// Focus switching
	FocusTree key.Binding
	EditForm  key.Binding

	// Tree navigation
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Enter  key.Binding

	// Form editing
	NextField key.Binding
	PrevField key.Binding

	// Scrolling
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to chat"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "retry last send"),
		),
		NewConv: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new conversation"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save conversation"),
		),
		FocusTree: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus option tree"),
		),
		EditForm: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit event details"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous option"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next option"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle selection"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "expand / submit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// ShortHelp returns the condensed help shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.FocusTree, k.Quit}
}

// FullHelp returns the complete help grouped by concern.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Retry, k.NewConv, k.Save},
		{k.FocusTree, k.Up, k.Down, k.Toggle, k.Enter},
		{k.EditForm, k.NextField, k.PrevField},
		{k.PageUp, k.PageDown, k.Escape, k.Quit},
	}
}
