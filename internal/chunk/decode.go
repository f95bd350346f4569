// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chunk defines the typed content units streamed by the planner backend.
package chunk

import (
	"encoding/json"
	"errors"
)

// ErrEmptyLine is returned when a stream line holds no payload.
var ErrEmptyLine = errors.New("empty chunk line")

// wireChunk mirrors the backend's flat NDJSON chunk objects. The backend
// tags every object with a "type" field and inlines the variant payload.
type wireChunk struct {
	Type string `json:"type"`

	// text / error
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`

	// people_tree / place_tree
	RootLabel     string     `json:"root_label,omitempty"`
	RootEmoji     string     `json:"root_emoji,omitempty"`
	Subcategories []Category `json:"subcategories,omitempty"`

	// text_form
	Address   *TextField `json:"address,omitempty"`
	Budget    *TextField `json:"budget,omitempty"`
	Date      *TextField `json:"date,omitempty"`
	Duration  *TextField `json:"durationOfEvent,omitempty"`
	Attendees *TextField `json:"numberOfAttendees,omitempty"`

	// retailer_offers
	Offers []Offer `json:"offers,omitempty"`

	// cart_data
	Items []json.RawMessage `json:"items,omitempty"`
	Price float64           `json:"price,omitempty"`

	// retailer_call
	Retailer string `json:"retailer,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Decode parses a single NDJSON line into a Chunk. Chunk types outside the
// known taxonomy decode into an Unknown chunk carrying the raw payload;
// only malformed JSON is an error.
func Decode(line []byte) (Chunk, error) {
	if len(line) == 0 {
		return Chunk{}, ErrEmptyLine
	}

	var w wireChunk
	if err := json.Unmarshal(line, &w); err != nil {
		return Chunk{}, err
	}

	switch w.Type {
	case "text":
		return NewText(w.Content), nil

	case "people_tree":
		return decodeTree(w, TreePeople), nil

	case "place_tree":
		return decodeTree(w, TreePlace), nil

	case "text_form":
		form := &TextForm{}
		assignField(&form.Address, w.Address, "Address")
		assignField(&form.Budget, w.Budget, "Budget")
		assignField(&form.Date, w.Date, "Date")
		assignField(&form.Duration, w.Duration, "Duration of event")
		assignField(&form.Attendees, w.Attendees, "Number of attendees")
		return Chunk{Type: TypeTextForm, Form: form}, nil

	case "retailer_offers":
		return Chunk{
			Type:   TypeRetailerOffers,
			Offers: &RetailerOffers{Offers: w.Offers},
		}, nil

	case "cart_data":
		cart := &CartData{Price: w.Price}
		for _, raw := range w.Items {
			var item CartItem
			if err := json.Unmarshal(raw, &item); err != nil {
				continue // Skip malformed cart lines
			}
			cart.Items = append(cart.Items, item)
		}
		return Chunk{Type: TypeCartData, Cart: cart}, nil

	case "items":
		items := &Items{}
		for _, raw := range w.Items {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				items.Items = append(items.Items, s)
			}
		}
		return Chunk{Type: TypeItems, Items: items}, nil

	case "retailer_call":
		return Chunk{
			Type: TypeRetailerCall,
			Call: &RetailerCall{Retailer: w.Retailer, Status: w.Status},
		}, nil

	case "error":
		return NewError(w.Message), nil

	default:
		raw := make(json.RawMessage, len(line))
		copy(raw, line)
		return Chunk{Type: TypeUnknown, Raw: raw}, nil
	}
}

// decodeTree builds a Tree chunk from a people_tree or place_tree object.
func decodeTree(w wireChunk, tt TreeType) Chunk {
	tree := &Tree{
		RootLabel:     w.RootLabel,
		RootEmoji:     w.RootEmoji,
		Type:          tt,
		Subcategories: w.Subcategories,
	}
	if tree.RootLabel == "" {
		// Backends that omit the root label get a stable default so the
		// label path (root/child/...) stays well-formed.
		if tt == TreePeople {
			tree.RootLabel = "People"
		} else {
			tree.RootLabel = "Place"
		}
	}
	return Chunk{Type: TypeTree, Tree: tree}
}

// assignField copies a wire form field, falling back to a default label for
// fields the backend left out entirely.
func assignField(dst *TextField, src *TextField, defaultLabel string) {
	if src != nil {
		*dst = *src
		if dst.Label == "" {
			dst.Label = defaultLabel
		}
		return
	}
	dst.Label = defaultLabel
}
