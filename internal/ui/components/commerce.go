// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the planwise TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/planwise-tui/internal/cart"
	"github.com/jeranaias/planwise-tui/internal/ui/styles"
)

// =============================================================================
// COMMERCE PANEL
// =============================================================================

// CommercePanel renders the shopping cart and retailer offers sidebar fed by
// diverted commerce chunks.
type CommercePanel struct {
	Theme *styles.Theme
	Width int
}

// Render produces the panel, or an empty string when there is nothing to show.
func (p CommercePanel) Render(state *cart.State) string {
	if state == nil {
		return ""
	}

	items := state.Items()
	offers := state.Offers()
	if len(items) == 0 && len(offers) == 0 && !state.Loading() {
		return ""
	}

	var b strings.Builder

	if state.Loading() {
		b.WriteString(p.Theme.ThinkingText.Render("Checking retailers..."))
		b.WriteString("\n")
	}

	if len(items) > 0 {
		b.WriteString(p.Theme.CartTotal.Render("Cart"))
		b.WriteString("\n")
		for _, item := range items {
			line := fmt.Sprintf("%dx %s  $%.2f", item.Quantity, item.Name, item.Price)
			b.WriteString(p.Theme.CartItem.Render(line))
			b.WriteString("\n")
		}
		b.WriteString(p.Theme.CartTotal.Render(fmt.Sprintf("Total $%.2f", state.Price())))
		b.WriteString("\n")
	}

	if len(offers) > 0 {
		if len(items) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Theme.CartTotal.Render("Offers"))
		b.WriteString("\n")
		for _, offer := range offers {
			line := fmt.Sprintf("%s: %s $%.2f", offer.Retailer, offer.Item, offer.Price)
			b.WriteString(p.Theme.CartItem.Render(line))
			b.WriteString("\n")
		}
	}

	return p.Theme.CartPanel.Render(strings.TrimRight(b.String(), "\n"))
}
