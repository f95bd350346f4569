// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cart holds the commerce state forwarded out of the chunk stream.
package cart

import (
	"sync"

	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// CART STATE
// =============================================================================

// State is the shopping-cart side of the conversation: cart contents,
// retailer offers, and a loading flag toggled around commerce-bound
// submissions. The orchestrator pushes updates fire-and-forget; readers get
// copies, never live slices.
type State struct {
	mu sync.Mutex

	items   []chunk.CartItem
	price   float64
	offers  []chunk.Offer
	loading bool
}

// NewState creates an empty cart state.
func NewState() *State {
	return &State{}
}

// =============================================================================
// WRITE OPERATIONS (orchestrator-facing)
// =============================================================================

// SetCartFromChunk replaces the cart contents with a forwarded cart chunk.
func (s *State) SetCartFromChunk(data *chunk.CartData) {
	if data == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]chunk.CartItem, len(data.Items))
	copy(s.items, data.Items)
	s.price = data.Price
}

// SetRetailerOffers replaces the current offer list.
func (s *State) SetRetailerOffers(offers []chunk.Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offers = make([]chunk.Offer, len(offers))
	copy(s.offers, offers)
}

// SetLoading toggles the commerce loading indicator.
func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Reset clears all commerce state.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.price = 0
	s.offers = nil
	s.loading = false
}

// =============================================================================
// READ OPERATIONS (renderer-facing)
// =============================================================================

// Items returns a copy of the cart lines.
func (s *State) Items() []chunk.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chunk.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Price returns the cart total.
func (s *State) Price() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.price
}

// Offers returns a copy of the current retailer offers.
func (s *State) Offers() []chunk.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chunk.Offer, len(s.offers))
	copy(out, s.offers)
	return out
}

// Loading reports whether a commerce-bound request is in flight.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
