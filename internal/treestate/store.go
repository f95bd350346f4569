// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package treestate tracks per-message selection state for category trees.
package treestate

import (
	"strings"

	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// NODE STATE
// =============================================================================

// NodeState is the mutable interaction state of one category node. The
// backend-supplied Category objects stay immutable; all selection and
// expansion lives here, keyed by the node's label path.
type NodeState struct {
	Selected bool
	Expanded bool
}

// stateKey identifies a node: the owning message plus the node's label path.
// The path is the "/"-join of ancestor labels including the tree's root
// label, so two nodes with the same label under different parents never
// collide.
type stateKey struct {
	MessageID string
	Path      string
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the selection and expansion state for every tree node the
// conversation has shown. Entries are created lazily on first read, seeded
// from the category's backend-supplied initial selection, and live until
// the conversation is reset.
type Store struct {
	nodes map[stateKey]*NodeState

	// disabled guards mutations: when it reports true for a message, the
	// message's trees are read-only and toggles become no-ops. Wired by
	// the orchestrator; nil means nothing is disabled.
	disabled func(messageID string) bool
}

// NewStore creates an empty selection store.
func NewStore() *Store {
	return &Store{
		nodes: make(map[stateKey]*NodeState),
	}
}

// SetDisabledGuard installs the callback used to refuse mutations on
// disabled messages.
func (s *Store) SetDisabledGuard(guard func(messageID string) bool) {
	s.disabled = guard
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Get returns the state for a node, creating it on first read seeded from
// the backend's initial selection.
func (s *Store) Get(messageID, path string, initialSelected bool) NodeState {
	return *s.getOrCreate(messageID, path, initialSelected)
}

// getOrCreate is the lazy get-or-create used by reads and mutators alike.
func (s *Store) getOrCreate(messageID, path string, initialSelected bool) *NodeState {
	key := stateKey{MessageID: messageID, Path: path}
	if st, ok := s.nodes[key]; ok {
		return st
	}
	st := &NodeState{Selected: initialSelected}
	s.nodes[key] = st
	return st
}

// Len returns the number of tracked nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// =============================================================================
// MUTATORS
// =============================================================================

// ToggleSelection flips a node's selection. Selecting a node forces it
// expanded so the user sees what they are committing to. Deselecting
// collapses it and clears both flags on every descendant, however deep and
// whether or not the descendant is currently visible, so no ghost
// selections survive inside a dropped branch.
func (s *Store) ToggleSelection(messageID, path string, initialSelected bool) {
	if s.isDisabled(messageID) {
		return
	}

	st := s.getOrCreate(messageID, path, initialSelected)
	st.Selected = !st.Selected

	if st.Selected {
		st.Expanded = true
		return
	}

	st.Expanded = false
	s.clearDescendants(messageID, path)
}

// ToggleExpansion flips a node's expansion only. It never cascades.
func (s *Store) ToggleExpansion(messageID, path string, initialSelected bool) {
	if s.isDisabled(messageID) {
		return
	}

	st := s.getOrCreate(messageID, path, initialSelected)
	st.Expanded = !st.Expanded
}

// clearDescendants wipes both flags on every node strictly below path.
func (s *Store) clearDescendants(messageID, path string) {
	prefix := path + "/"
	for key, st := range s.nodes {
		if key.MessageID == messageID && strings.HasPrefix(key.Path, prefix) {
			st.Selected = false
			st.Expanded = false
		}
	}
}

// isDisabled consults the orchestrator-supplied guard.
func (s *Store) isDisabled(messageID string) bool {
	return s.disabled != nil && s.disabled(messageID)
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize walks a tree depth-first and builds the backend-bound node list
// from the current selection state. The label path of every node includes
// the tree's root label, matching the paths the renderer reads.
func (s *Store) Serialize(messageID string, tree *chunk.Tree) []chunk.SerializedNode {
	if tree == nil {
		return nil
	}
	return s.serializeLevel(messageID, tree.RootLabel, tree.Subcategories)
}

// serializeLevel serializes one sibling group under parentPath.
func (s *Store) serializeLevel(messageID, parentPath string, cats []chunk.Category) []chunk.SerializedNode {
	nodes := make([]chunk.SerializedNode, 0, len(cats))
	for _, cat := range cats {
		path := JoinPath(parentPath, cat.Label)
		st := s.Get(messageID, path, cat.InitialSelected)
		nodes = append(nodes, chunk.SerializedNode{
			Emoji:    cat.Emoji,
			Label:    cat.Label,
			Selected: st.Selected,
			Children: s.serializeLevel(messageID, path, cat.Subcategories),
		})
	}
	return nodes
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Reset drops all tracked state. Called on full conversation reset only.
func (s *Store) Reset() {
	s.nodes = make(map[stateKey]*NodeState)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// JoinPath appends a label to a parent path with the "/" separator.
func JoinPath(parent, label string) string {
	if parent == "" {
		return label
	}
	return parent + "/" + label
}
