// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport provides the HTTP client for the planner backend's chunk streams.
//
// The backend exposes three streaming endpoints, all answering with NDJSON
// chunk objects (one JSON object per line):
//
//   - POST /chat               {message, conversation_id}
//   - POST /submit-selections  {people_tree, place_tree, conversation_id}
//   - POST /submit-form        {form, conversation_id}
//
// Client wraps them behind callback-style streaming methods that decode
// each line via the chunk package and deliver chunks in strict arrival
// order. Errors use the same typed taxonomy pattern as the rest of the
// codebase: ClientError with an ErrorType, plus sentinels (ErrBackendDown,
// ErrTimeout) for errors.Is checks. Request starts are paced by a token
// bucket so a misbehaving UI cannot hammer the backend.
package transport
