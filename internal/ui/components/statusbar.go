// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the planwise TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/planwise-tui/internal/ui/styles"
	"github.com/jeranaias/planwise-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Mode is the interaction mode shown on the left of the status bar.
type Mode int

const (
	ModeInput Mode = iota // Typing in the message box
	ModeTree              // Navigating an option tree
	ModeForm              // Editing the event details form
)

// String returns the display label for the mode.
func (m Mode) String() string {
	switch m {
	case ModeTree:
		return "TREE"
	case ModeForm:
		return "FORM"
	default:
		return "CHAT"
	}
}

// StatusBar renders the single-line footer: interaction mode, stream state,
// cart summary, and key hints.
type StatusBar struct {
	theme *styles.Theme
	width int

	mode      Mode
	streaming bool
	buffering bool
	cartItems int
	cartTotal float64
	offers    int
	notice    string
}

// NewStatusBar creates a status bar bound to the theme.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetWidth updates the render width.
func (b *StatusBar) SetWidth(width int) {
	b.width = width
}

// SetMode sets the interaction mode indicator.
func (b *StatusBar) SetMode(mode Mode) {
	b.mode = mode
}

// SetStreaming sets the streaming indicator.
func (b *StatusBar) SetStreaming(streaming bool) {
	b.streaming = streaming
}

// SetBuffering sets the buffered-content indicator.
func (b *StatusBar) SetBuffering(buffering bool) {
	b.buffering = buffering
}

// SetCart updates the cart summary shown on the right.
func (b *StatusBar) SetCart(items int, total float64) {
	b.cartItems = items
	b.cartTotal = total
}

// SetOffers updates the count of active retailer offers.
func (b *StatusBar) SetOffers(count int) {
	b.offers = count
}

// SetNotice sets a transient message (save confirmations, errors) that
// replaces the key hints until cleared.
func (b *StatusBar) SetNotice(notice string) {
	b.notice = notice
}

// View renders the status bar.
func (b StatusBar) View() string {
	var left []string

	left = append(left, b.theme.ShortcutKey.Render(b.mode.String()))

	switch {
	case b.streaming:
		left = append(left, b.theme.WarningStyle.Render(styles.StatusIndicators.Pending+" streaming"))
	case b.buffering:
		left = append(left, b.theme.InfoStyle.Render(styles.StatusIndicators.Info+" more after submit"))
	default:
		left = append(left, b.theme.SuccessStyle.Render(styles.StatusIndicators.Active+" ready"))
	}

	var right []string
	if b.cartItems > 0 {
		right = append(right, b.theme.CartTotal.Render(
			fmt.Sprintf("cart %d / $%.2f", b.cartItems, b.cartTotal)))
	}
	if b.offers > 0 {
		right = append(right, b.theme.OfferBadge.Render(fmt.Sprintf("%d offers", b.offers)))
	}
	if b.notice != "" {
		right = append(right, b.theme.ShortcutDesc.Render(b.notice))
	} else {
		right = append(right, b.hints())
	}

	leftStr := strings.Join(left, " ")
	rightStr := strings.Join(right, "  ")

	gap := b.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
		rightStr = util.TruncateWidth(rightStr, b.width-lipgloss.Width(leftStr)-3)
	}

	return b.theme.StatusBar.Width(b.width).Render(
		leftStr + strings.Repeat(" ", gap) + rightStr)
}

// hints returns the key hints for the current mode.
func (b StatusBar) hints() string {
	var pairs [][2]string
	switch b.mode {
	case ModeTree:
		pairs = [][2]string{{"space", "select"}, {"enter", "expand/submit"}, {"esc", "back"}}
	case ModeForm:
		pairs = [][2]string{{"tab", "next field"}, {"enter", "submit"}, {"esc", "cancel"}}
	default:
		pairs = [][2]string{{"enter", "send"}, {"tab", "tree"}, {"ctrl+c", "quit"}}
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, b.theme.ShortcutKey.Render(p[0])+" "+b.theme.ShortcutDesc.Render(p[1]))
	}
	return strings.Join(parts, "  ")
}
