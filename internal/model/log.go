// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation log.
package model

import (
	"time"

	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// CONVERSATION LOG
// =============================================================================

// Log is the ordered, mostly-append-only list of messages shown to the
// rendering layer. The only in-place mutation it performs is live text
// growth: an incoming text chunk merges into the trailing text chunk of an
// open agent message by replacement.
type Log struct {
	Messages  []*Message `json:"messages"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{
		Messages:  make([]*Message, 0),
		UpdatedAt: time.Now(),
	}
}

// =============================================================================
// APPEND OPERATIONS
// =============================================================================

// AppendUser appends a user text message and returns it.
func (l *Log) AppendUser(content string) *Message {
	msg := NewUserMessage(content)
	l.append(msg)
	return msg
}

// AppendUserForm appends a submitted form as a read-only user message.
func (l *Log) AppendUserForm(form chunk.TextForm) *Message {
	msg := NewUserFormMessage(form)
	l.append(msg)
	return msg
}

// AppendAgentError appends a fresh agent message holding exactly one error
// chunk. Stream failures surface through here so Retry can recognize and
// remove the marker later.
func (l *Log) AppendAgentError(message string) *Message {
	msg := NewAgentMessage()
	msg.Append(chunk.NewError(message))
	l.append(msg)
	return msg
}

// ApplyAgentChunk folds one displayable agent chunk into the log:
//
//   - Tree chunks first disable every earlier agent message that contains a
//     tree, then open a fresh agent message when the current one is closed.
//   - Text chunks merge into the trailing text chunk of an open agent
//     message, replacing it with the concatenated content.
//   - Everything else is appended to the open agent message, or starts a
//     new one.
//
// A message counts as open only while it is the last log entry, was sent by
// the agent, and has not been disabled.
func (l *Log) ApplyAgentChunk(c chunk.Chunk) *Message {
	l.UpdatedAt = time.Now()

	switch c.Type {
	case chunk.TypeTree:
		l.DisableTreeMessages()
		msg := l.openAgentMessage()
		msg.Append(c)
		return msg

	case chunk.TypeText:
		if last := l.openAgent(); last != nil {
			if lc := last.LastChunk(); lc != nil && lc.Type == chunk.TypeText {
				merged := chunk.NewText(lc.TextContent() + c.TextContent())
				last.Chunks[len(last.Chunks)-1] = merged
				return last
			}
			last.Append(c)
			return last
		}
		msg := l.openAgentMessage()
		msg.Append(c)
		return msg

	default:
		msg := l.openAgentMessage()
		msg.Append(c)
		return msg
	}
}

// append adds a message to the log.
func (l *Log) append(msg *Message) {
	l.Messages = append(l.Messages, msg)
	l.UpdatedAt = time.Now()
}

// openAgent returns the currently open agent message, or nil.
func (l *Log) openAgent() *Message {
	last := l.Last()
	if last != nil && last.Sender == SenderAgent && !last.Disabled {
		return last
	}
	return nil
}

// openAgentMessage returns the open agent message, creating one if needed.
func (l *Log) openAgentMessage() *Message {
	if msg := l.openAgent(); msg != nil {
		return msg
	}
	msg := NewAgentMessage()
	l.append(msg)
	return msg
}

// =============================================================================
// LOOKUP OPERATIONS
// =============================================================================

// Last returns the most recent message, or nil if the log is empty.
func (l *Log) Last() *Message {
	if len(l.Messages) == 0 {
		return nil
	}
	return l.Messages[len(l.Messages)-1]
}

// Get returns a message by ID, or nil.
func (l *Log) Get(id string) *Message {
	for _, msg := range l.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// Len returns the number of messages.
func (l *Log) Len() int {
	return len(l.Messages)
}

// IsEmpty reports whether the log has no messages.
func (l *Log) IsEmpty() bool {
	return len(l.Messages) == 0
}

// =============================================================================
// MUTATING OPERATIONS
// =============================================================================

// RemoveLast removes and returns the most recent message, or nil.
func (l *Log) RemoveLast() *Message {
	if len(l.Messages) == 0 {
		return nil
	}
	last := l.Messages[len(l.Messages)-1]
	l.Messages = l.Messages[:len(l.Messages)-1]
	l.UpdatedAt = time.Now()
	return last
}

// MarkDisabled permanently disables a message's interactive elements.
// Returns false if the message does not exist.
func (l *Log) MarkDisabled(id string) bool {
	msg := l.Get(id)
	if msg == nil {
		return false
	}
	msg.Disabled = true
	l.UpdatedAt = time.Now()
	return true
}

// DisableTreeMessages disables every agent message that contains a tree.
// New trees call this so that only the newest tree stays interactive.
func (l *Log) DisableTreeMessages() {
	for _, msg := range l.Messages {
		if msg.Sender == SenderAgent && msg.ContainsTree() {
			msg.Disabled = true
		}
	}
}

// Reset clears the log back to its initial empty state.
func (l *Log) Reset() {
	l.Messages = make([]*Message, 0)
	l.UpdatedAt = time.Now()
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Snapshot returns a deep copy of the messages for the rendering layer.
// The renderer never sees the live slices the orchestrator mutates.
func (l *Log) Snapshot() []*Message {
	out := make([]*Message, len(l.Messages))
	for i, msg := range l.Messages {
		out[i] = msg.Clone()
	}
	return out
}
