// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package buffer gates incoming chunks behind unresolved tree interactions.
//
// A single backend turn may carry several sequential interaction steps: a
// people tree, explanatory text, a place tree, then a form. The user has to
// resolve each tree before seeing the next step, so the Engine withholds
// everything that arrives after a tree until the tree is submitted. The
// submission then calls Release, which lets queued chunks through up to and
// including the next tree (re-closing the gate) or drains the queue
// entirely (leaving the gate open for the final backend submission).
//
// The Engine only classifies and queues; folding released chunks into the
// conversation log is the caller's job.
package buffer
