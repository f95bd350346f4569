// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package buffer gates incoming chunks behind unresolved tree interactions.
package buffer

import (
	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// ADMISSION RESULT
// =============================================================================

// Admission is the outcome of admitting one chunk. At most one of the
// divert fields is set; Display lists the chunks (in order) the caller
// should fold into the conversation log.
type Admission struct {
	// Display holds chunks to apply to the conversation log, in order.
	Display []chunk.Chunk

	// PinForm is set when the chunk becomes the pinned form.
	PinForm *chunk.TextForm

	// Cart is set when the chunk carries cart data for the commerce
	// collaborator.
	Cart *chunk.CartData

	// Offers is set when the chunk carries retailer offers for the
	// commerce collaborator.
	Offers *chunk.RetailerOffers

	// Buffered reports that the chunk was withheld in the queue.
	Buffered bool
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine decides, chunk by chunk, what is shown immediately and what is
// withheld. Once a tree chunk arrives everything after it is queued until
// the user submits that tree and Release lets the next batch through. The
// queue and the gating flag are scoped to one buffered sequence: starting a
// new top-level send or submitting a form calls Reset and discards any
// unfinished buffering.
type Engine struct {
	queue              []chunk.Chunk
	bufferingAfterTree bool
}

// NewEngine creates an engine with an empty queue.
func NewEngine() *Engine {
	return &Engine{}
}

// Admit processes one incoming chunk in strict arrival order.
//
// Priority order per chunk:
//  1. While gated behind an unsubmitted tree, everything queues.
//  2. Forms become the pinned form (replacing an unsubmitted one).
//  3. Cart data and retailer offers divert to the commerce collaborator.
//  4. Items chunks are intermediate signals and are dropped.
//  5. Tree chunks display and close the gate behind themselves.
//  6. Anything else displays immediately.
//
// None of these steps fail: chunk types outside the taxonomy flow through
// as display content.
func (e *Engine) Admit(c chunk.Chunk) Admission {
	if e.bufferingAfterTree {
		e.queue = append(e.queue, c)
		return Admission{Buffered: true}
	}

	switch c.Type {
	case chunk.TypeTextForm:
		return Admission{PinForm: c.Form}

	case chunk.TypeCartData:
		return Admission{Cart: c.Cart}

	case chunk.TypeRetailerOffers:
		return Admission{Offers: c.Offers}

	case chunk.TypeItems:
		return Admission{}

	case chunk.TypeTree:
		e.bufferingAfterTree = true
		return Admission{Display: []chunk.Chunk{c}}

	default:
		return Admission{Display: []chunk.Chunk{c}}
	}
}

// =============================================================================
// RELEASE
// =============================================================================

// Release returns the next batch of queued chunks: everything from the
// front of the queue up to and including the first tree, or the whole queue
// if no tree remains. The gate stays closed only when the released batch
// ends in another tree.
//
// Released chunks still carry their original admission semantics (forms
// pin, cart data diverts); callers re-dispatch them through Redispatch.
func (e *Engine) Release() []chunk.Chunk {
	if len(e.queue) == 0 {
		e.bufferingAfterTree = false
		return nil
	}

	cut := len(e.queue)
	sawTree := false
	for i, c := range e.queue {
		if c.Type == chunk.TypeTree {
			cut = i + 1
			sawTree = true
			break
		}
	}

	released := make([]chunk.Chunk, cut)
	copy(released, e.queue[:cut])
	e.queue = e.queue[cut:]
	e.bufferingAfterTree = sawTree

	return released
}

// Redispatch runs one released chunk through admission semantics without
// the gate: the chunk was already past the queue, so only the divert and
// display classification applies. A released tree re-closes the gate for
// whatever is still queued behind it.
func (e *Engine) Redispatch(c chunk.Chunk) Admission {
	switch c.Type {
	case chunk.TypeTextForm:
		return Admission{PinForm: c.Form}

	case chunk.TypeCartData:
		return Admission{Cart: c.Cart}

	case chunk.TypeRetailerOffers:
		return Admission{Offers: c.Offers}

	case chunk.TypeItems:
		return Admission{}

	default:
		return Admission{Display: []chunk.Chunk{c}}
	}
}

// =============================================================================
// STATE
// =============================================================================

// Buffering reports whether the gate is currently closed behind a tree.
func (e *Engine) Buffering() bool {
	return e.bufferingAfterTree
}

// Pending returns the number of queued chunks.
func (e *Engine) Pending() int {
	return len(e.queue)
}

// Reset discards the queue and opens the gate. Every new top-level send and
// every form submission starts a fresh sequence through here.
func (e *Engine) Reset() {
	e.queue = nil
	e.bufferingAfterTree = false
}
