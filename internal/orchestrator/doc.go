// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator drives the streaming conversation lifecycle.
//
// The Controller is the single owner of mutable conversation state. It
// composes the conversation log (internal/model), the selection store
// (internal/treestate) and the gating engine (internal/buffer), consumes
// each backend stream chunk by chunk in strict order, and decides when a
// tree submission merely releases buffered chunks versus when it carries
// the accumulated selections to the backend in one combined payload.
//
// Concurrency model: one logical thread of control per conversation. At
// most one backend request is in flight (guarded by an in-flight flag);
// chunk consumption is a sequential pull with a notify hook fired after
// every applied chunk so a cooperative renderer paints intermediate state.
// External collaborators (Transport, Commerce) never call back into the
// controller.
package orchestrator
