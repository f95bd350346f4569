// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chunk defines the typed content units streamed by the planner backend.
package chunk

import "encoding/json"

// =============================================================================
// CHUNK TYPE
// =============================================================================

// Type identifies the variant of a streamed chunk.
type Type string

const (
	TypeText           Type = "text"
	TypeTree           Type = "tree"
	TypeTextForm       Type = "text_form"
	TypeRetailerOffers Type = "retailer_offers"
	TypeCartData       Type = "cart_data"
	TypeItems          Type = "items"
	TypeRetailerCall   Type = "retailer_call"
	TypeError          Type = "error"

	// TypeUnknown covers chunk types outside the known taxonomy.
	// Unknown chunks are carried through the pipeline as ordinary
	// display content instead of being dropped.
	TypeUnknown Type = "unknown"
)

// String returns the string representation of the chunk type.
func (t Type) String() string {
	return string(t)
}

// =============================================================================
// TREE TYPES
// =============================================================================

// TreeType distinguishes the two selectable hierarchies the backend emits.
type TreeType string

const (
	TreePeople TreeType = "people"
	TreePlace  TreeType = "place"
)

// =============================================================================
// CHUNK
// =============================================================================

// Chunk is one typed unit of streamed content. Exactly one variant field is
// populated, matching Type. Chunks are immutable once received; the single
// exception is the live-growing Text chunk at the tail of the conversation
// log, which is replaced wholesale rather than mutated.
type Chunk struct {
	Type Type `json:"type"`

	Text   *Text           `json:"text,omitempty"`
	Tree   *Tree           `json:"tree,omitempty"`
	Form   *TextForm       `json:"form,omitempty"`
	Offers *RetailerOffers `json:"offers,omitempty"`
	Cart   *CartData       `json:"cart,omitempty"`
	Items  *Items          `json:"items,omitempty"`
	Call   *RetailerCall   `json:"call,omitempty"`
	Error  *Error          `json:"error,omitempty"`
	Raw    json.RawMessage `json:"raw,omitempty"` // Original payload for unknown chunks
}

// Text is incremental natural-language content.
type Text struct {
	Content string `json:"content"`
}

// Tree is a selectable hierarchy of categories.
type Tree struct {
	RootLabel     string     `json:"root_label"`
	RootEmoji     string     `json:"root_emoji"`
	Type          TreeType   `json:"tree_type"`
	Subcategories []Category `json:"subcategories"`
}

// Category is one immutable, backend-supplied node of a tree. A node has no
// explicit ID; its identity is positional (label plus ancestor path).
type Category struct {
	Emoji           string     `json:"emoji"`
	Label           string     `json:"label"`
	InitialSelected bool       `json:"initial_selected"`
	Subcategories   []Category `json:"subcategories,omitempty"`
}

// TextField is one field of a structured form.
type TextField struct {
	Label   string `json:"label"`
	Content string `json:"content,omitempty"`
}

// TextForm is the structured event-details form. Field names follow the
// backend's emit_form tool schema.
type TextForm struct {
	Address   TextField `json:"address"`
	Budget    TextField `json:"budget"`
	Date      TextField `json:"date"`
	Duration  TextField `json:"durationOfEvent"`
	Attendees TextField `json:"numberOfAttendees"`
}

// Offer is a single retailer offer.
type Offer struct {
	Retailer string  `json:"retailer"`
	Item     string  `json:"item"`
	Price    float64 `json:"price"`
	LogoURL  string  `json:"logo_url,omitempty"`
}

// RetailerOffers carries a batch of offers for the commerce collaborator.
type RetailerOffers struct {
	Offers []Offer `json:"offers"`
}

// CartItem is one line of the shopping cart.
type CartItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CartData carries the current cart contents for the commerce collaborator.
type CartData struct {
	Items []CartItem `json:"items"`
	Price float64    `json:"price"`
}

// Items is an intermediate backend signal. It is never displayed.
type Items struct {
	Items []string `json:"items"`
}

// RetailerCall marks progress of a retailer lookup during shopping turns.
type RetailerCall struct {
	Retailer string `json:"retailer"`
	Status   string `json:"status"`
}

// Error is a backend or transport failure surfaced into the conversation.
type Error struct {
	Message string `json:"message"`
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewText creates a Text chunk.
func NewText(content string) Chunk {
	return Chunk{Type: TypeText, Text: &Text{Content: content}}
}

// NewError creates an Error chunk.
func NewError(message string) Chunk {
	return Chunk{Type: TypeError, Error: &Error{Message: message}}
}

// =============================================================================
// CHUNK METHODS
// =============================================================================

// IsDiverted reports whether a chunk is routed away from the conversation
// log during admission: forms are pinned, cart and offer chunks go to the
// commerce collaborator, and items chunks are discarded.
func (c Chunk) IsDiverted() bool {
	switch c.Type {
	case TypeTextForm, TypeCartData, TypeRetailerOffers, TypeItems:
		return true
	}
	return false
}

// TextContent returns the chunk's text content, or "" for non-text chunks.
func (c Chunk) TextContent() string {
	if c.Type == TypeText && c.Text != nil {
		return c.Text.Content
	}
	return ""
}

// =============================================================================
// SUBMISSION SHAPE
// =============================================================================

// SerializedNode is the backend-bound shape of one category node, produced
// by walking a tree against the current selection state. It matches the
// backend's recursive TreeNode schema.
type SerializedNode struct {
	Emoji    string           `json:"emoji"`
	Label    string           `json:"label"`
	Selected bool             `json:"selected"`
	Children []SerializedNode `json:"children"`
}
