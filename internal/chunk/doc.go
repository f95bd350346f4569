// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chunk defines the typed content units streamed by the planner backend.
//
// The backend answers every request with an NDJSON stream: one JSON object
// per line, each tagged with a "type" field. This package models that wire
// taxonomy as a closed tagged union (Chunk) and provides Decode for turning
// raw stream lines into typed chunks.
//
// # Key Types
//
//   - Chunk: tagged union of all streamed content variants
//   - Tree / Category: a selectable category hierarchy
//   - TextForm / TextField: the structured event-details form
//   - SerializedNode: the backend-bound shape of a submitted category node
//
// Unknown chunk types decode into Chunk{Type: TypeUnknown} carrying the raw
// payload, so forward-compatible streams pass through instead of failing.
package chunk
