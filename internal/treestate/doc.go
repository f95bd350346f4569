// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package treestate tracks per-message selection state for category trees.
//
// Backend-supplied categories are immutable and carry no IDs, so node
// identity is positional: the "/"-joined path of ancestor labels, rooted at
// the tree's own root label ("People/Food/Salads"). The Store maps
// (messageID, path) to a small mutable NodeState and implements the two
// interaction rules that keep submissions honest:
//
//   - selecting a node auto-expands it, and
//   - deselecting a node collapses it and clears its entire subtree,
//     however deep, so no hidden selections sneak into a later submission.
//
// Serialize rebuilds the backend's recursive node shape from a tree chunk
// plus the current state, ready for submission.
package treestate
