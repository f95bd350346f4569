// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation log.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender represents the author of a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAgent:
		return "Planner"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of the conversation log. Agent messages accumulate
// chunks while a stream turn is open; user messages hold exactly the content
// they were created with. Once Disabled is set the message's interactive
// elements (trees, forms) are permanently read-only.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Chunks []chunk.Chunk `json:"chunks"`

	// Interaction state
	Disabled bool `json:"disabled,omitempty"`
}

// NewUserMessage creates a user message holding a single text chunk.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Sender:    SenderUser,
		Timestamp: time.Now(),
		Chunks:    []chunk.Chunk{chunk.NewText(content)},
	}
}

// NewUserFormMessage creates a user message holding a submitted form.
// Submitted forms are read-only from the moment they are logged.
func NewUserFormMessage(form chunk.TextForm) *Message {
	f := form
	return &Message{
		ID:        generateMessageID(),
		Sender:    SenderUser,
		Timestamp: time.Now(),
		Chunks:    []chunk.Chunk{{Type: chunk.TypeTextForm, Form: &f}},
		Disabled:  true,
	}
}

// NewAgentMessage creates an empty agent message ready to accumulate chunks.
func NewAgentMessage() *Message {
	return &Message{
		ID:        generateMessageID(),
		Sender:    SenderAgent,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// LastChunk returns the message's final chunk, or nil if the message is empty.
func (m *Message) LastChunk() *chunk.Chunk {
	if len(m.Chunks) == 0 {
		return nil
	}
	return &m.Chunks[len(m.Chunks)-1]
}

// Append adds a chunk to the message.
func (m *Message) Append(c chunk.Chunk) {
	m.Chunks = append(m.Chunks, c)
}

// ContainsTree reports whether any chunk of the message is a tree.
func (m *Message) ContainsTree() bool {
	for _, c := range m.Chunks {
		if c.Type == chunk.TypeTree {
			return true
		}
	}
	return false
}

// Trees returns all tree chunks of the message in order.
func (m *Message) Trees() []*chunk.Tree {
	var trees []*chunk.Tree
	for _, c := range m.Chunks {
		if c.Type == chunk.TypeTree && c.Tree != nil {
			trees = append(trees, c.Tree)
		}
	}
	return trees
}

// IsErrorOnly reports whether the message holds exactly one error chunk.
// Retry uses this to identify the failure marker it may remove.
func (m *Message) IsErrorOnly() bool {
	return len(m.Chunks) == 1 && m.Chunks[0].Type == chunk.TypeError
}

// TextContent concatenates the message's text chunks for display previews.
func (m *Message) TextContent() string {
	out := ""
	for _, c := range m.Chunks {
		out += c.TextContent()
	}
	return out
}

// Preview returns a truncated preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := m.TextContent()
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen-3]) + "..."
}

// Clone creates a copy of the message with its own chunk slice.
func (m *Message) Clone() *Message {
	cp := *m
	cp.Chunks = make([]chunk.Chunk, len(m.Chunks))
	copy(cp.Chunks, m.Chunks)
	return &cp
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
