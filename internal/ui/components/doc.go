// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the planwise TUI application.

This package contains styled components built on top of the Bubble Tea and
Lip Gloss libraries, consistent with the planwise design language.

# Components

MessageView (message.go) - Renders one conversation message: text bubbles
(agent text through Glamour markdown), embedded option trees, event details
forms, and error boxes.

TreeView / FlattenTree (tree.go) - Flattens a category tree into navigable
rows (respecting per-node expansion state) and renders selection pills with
an optional cursor. Disabled trees render muted with no submit button.

CommercePanel (commerce.go) - Cart contents and retailer offers sidebar fed
by diverted commerce chunks.

StatusBar (statusbar.go) - Bottom status bar with interaction mode, stream
state, cart summary, and key hints.

Spinner (spinner.go) - Animated ASCII spinner with elapsed-time display for
streaming turns.

# Design Principles

Components read state; they never mutate it. Selection and expansion changes
flow through the orchestrator controller, which owns the interaction rules
(disabled messages, cascade clears, submission gating). Views take a
StateReader and render whatever it reports.
*/
package components
