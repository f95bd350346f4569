// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cart holds the commerce state forwarded out of the chunk stream.
//
// Cart-data and retailer-offer chunks never enter the conversation log; the
// orchestrator diverts them here during admission. State is a plain
// mutex-guarded holder: writes are one-way notifications from the
// orchestrator, reads return copies for the rendering layer. Nothing in
// this package calls back into conversation state.
package cart
