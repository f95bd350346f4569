// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for planwise TUI.
//
// This package handles saving and loading planning sessions to/from disk,
// with support for search, listing, and session management. Messages are
// persisted with their full typed chunk payloads so trees and forms survive
// a reload instead of collapsing to plain text.
//
// # Key Types
//
//   - ConversationStore: Main storage interface for conversations
//   - StoredConversation: Serializable conversation with metadata
//   - ConversationMeta: Lightweight metadata for listing
//
// # Usage
//
// Create a store and save a conversation:
//
//	store, err := storage.NewConversationStoreWithDir(dataDir)
//	id, err := store.Save(&storage.StoredConversation{
//		Messages: storage.FromMessages(controller.Messages()),
//	})
//
// List and load conversations:
//
//	metas, err := store.List()
//	conv, err := store.Load(metas[0].ID)
//
// Search conversations:
//
//	results, err := store.Search("query text")
//
// # Storage Location
//
// Conversations are stored in ~/.planwise/conversations/ as JSON files.
package storage
