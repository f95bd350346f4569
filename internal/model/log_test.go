// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation log.
package model

import (
	"testing"

	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// TEXT MERGE TESTS
// =============================================================================

func TestLog_TextChunksMergeIntoOpenAgentMessage(t *testing.T) {
	log := NewLog()
	log.AppendUser("hi")

	log.ApplyAgentChunk(chunk.NewText("Hello"))
	log.ApplyAgentChunk(chunk.NewText(", world"))

	if log.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", log.Len())
	}
	agent := log.Last()
	if agent.Sender != SenderAgent {
		t.Fatalf("last sender = %q, want agent", agent.Sender)
	}
	if len(agent.Chunks) != 1 {
		t.Fatalf("agent chunks = %d, want 1 merged chunk", len(agent.Chunks))
	}
	if got := agent.TextContent(); got != "Hello, world" {
		t.Errorf("merged content = %q, want %q", got, "Hello, world")
	}
}

func TestLog_TextAfterUserMessageOpensNewAgentMessage(t *testing.T) {
	log := NewLog()
	log.ApplyAgentChunk(chunk.NewText("first turn"))
	log.AppendUser("next question")
	log.ApplyAgentChunk(chunk.NewText("second turn"))

	if log.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", log.Len())
	}
	if got := log.Messages[0].TextContent(); got != "first turn" {
		t.Errorf("first agent message = %q, want untouched", got)
	}
	if got := log.Last().TextContent(); got != "second turn" {
		t.Errorf("second agent message = %q", got)
	}
}

func TestLog_TextDoesNotMergeIntoDisabledMessage(t *testing.T) {
	log := NewLog()
	msg := log.ApplyAgentChunk(chunk.NewText("submitted"))
	log.MarkDisabled(msg.ID)

	log.ApplyAgentChunk(chunk.NewText("fresh"))

	if log.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (disabled message is closed)", log.Len())
	}
	if got := log.Messages[0].TextContent(); got != "submitted" {
		t.Errorf("disabled message content = %q, want untouched", got)
	}
}

func TestLog_TextAfterTreeAppendsToSameMessage(t *testing.T) {
	log := NewLog()
	log.ApplyAgentChunk(treeChunk(chunk.TreePeople))
	log.ApplyAgentChunk(chunk.NewText("pick what fits"))

	if log.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", log.Len())
	}
	if len(log.Last().Chunks) != 2 {
		t.Errorf("chunks = %d, want tree + text", len(log.Last().Chunks))
	}
}

// =============================================================================
// TREE DISABLING TESTS
// =============================================================================

func TestLog_NewTreeDisablesPriorTreeMessages(t *testing.T) {
	log := NewLog()
	first := log.ApplyAgentChunk(treeChunk(chunk.TreePeople))
	log.AppendUser("ok")
	second := log.ApplyAgentChunk(treeChunk(chunk.TreePlace))

	if !first.Disabled {
		t.Error("first tree message should be disabled after a new tree arrives")
	}
	if second.Disabled {
		t.Error("newest tree message must stay interactive")
	}
	if first.ID == second.ID {
		t.Error("trees should live in distinct messages")
	}
}

func TestLog_SecondTreeOpensFreshMessage(t *testing.T) {
	// Two trees in the same turn: disabling the first closes its message,
	// so the second tree must not land inside a disabled message.
	log := NewLog()
	first := log.ApplyAgentChunk(treeChunk(chunk.TreePeople))
	second := log.ApplyAgentChunk(treeChunk(chunk.TreePlace))

	if first == second {
		t.Fatal("second tree merged into the first tree's message")
	}
	if second.Disabled {
		t.Error("second tree message should be enabled")
	}
}

func TestLog_DisableTreeMessagesSkipsNonTreeMessages(t *testing.T) {
	log := NewLog()
	plain := log.ApplyAgentChunk(chunk.NewText("no trees here"))
	log.DisableTreeMessages()

	if plain.Disabled {
		t.Error("plain text message should not be disabled")
	}
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestLog_SnapshotIsIsolatedFromLiveLog(t *testing.T) {
	log := NewLog()
	log.ApplyAgentChunk(chunk.NewText("before"))

	snap := log.Snapshot()
	log.ApplyAgentChunk(chunk.NewText(" after"))

	if got := snap[0].TextContent(); got != "before" {
		t.Errorf("snapshot content = %q, want %q", got, "before")
	}
	if got := log.Last().TextContent(); got != "before after" {
		t.Errorf("live content = %q, want %q", got, "before after")
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestLog_RemoveLast(t *testing.T) {
	log := NewLog()
	log.AppendUser("one")
	log.AppendUser("two")

	removed := log.RemoveLast()
	if removed == nil || removed.TextContent() != "two" {
		t.Fatalf("RemoveLast() = %v, want the newest message", removed)
	}
	if log.Len() != 1 {
		t.Errorf("Len() = %d, want 1", log.Len())
	}

	log.RemoveLast()
	if log.RemoveLast() != nil {
		t.Error("RemoveLast() on empty log should return nil")
	}
}

func TestLog_Reset(t *testing.T) {
	log := NewLog()
	log.AppendUser("hello")
	log.ApplyAgentChunk(chunk.NewText("world"))

	log.Reset()

	if !log.IsEmpty() {
		t.Errorf("log should be empty after Reset, has %d messages", log.Len())
	}
}

func TestMessage_IsErrorOnly(t *testing.T) {
	log := NewLog()
	errMsg := log.ApplyAgentChunk(chunk.NewError("stream failed"))
	if !errMsg.IsErrorOnly() {
		t.Error("single error chunk message should report IsErrorOnly")
	}

	log.ApplyAgentChunk(chunk.NewText("more"))
	if errMsg.IsErrorOnly() {
		t.Error("message with extra chunks should not report IsErrorOnly")
	}
}

func TestNewUserFormMessage_IsDisabled(t *testing.T) {
	msg := NewUserFormMessage(chunk.TextForm{})
	if !msg.Disabled {
		t.Error("submitted form messages must be permanently read-only")
	}
	if msg.Sender != SenderUser {
		t.Errorf("sender = %q, want user", msg.Sender)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// treeChunk builds a minimal tree chunk for log tests.
func treeChunk(tt chunk.TreeType) chunk.Chunk {
	return chunk.Chunk{
		Type: chunk.TypeTree,
		Tree: &chunk.Tree{
			RootLabel: string(tt),
			Type:      tt,
			Subcategories: []chunk.Category{
				{Emoji: "🍕", Label: "Food"},
			},
		},
	}
}
