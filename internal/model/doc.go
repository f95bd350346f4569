// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation log.
//
// This package defines the domain types for the chat transcript: messages
// built from typed chunks, the sender enumeration, and the Log that the
// orchestrator mutates and the rendering layer reads through snapshots.
//
// # Key Types
//
//   - Log: ordered conversation transcript with live text merging
//   - Message: single user or agent message holding ordered chunks
//   - Sender: message author enumeration (user, agent)
//
// # Usage
//
// Build a transcript chunk by chunk:
//
//	log := model.NewLog()
//	log.AppendUser("Plan a birthday party")
//	log.ApplyAgentChunk(chunk.NewText("On it"))
//	log.ApplyAgentChunk(chunk.NewText(" — gathering ideas."))
//
// The two text chunks above merge into a single growing text chunk on the
// open agent message.
package model
