// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the planwise TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/planwise-tui/internal/chunk"
	"github.com/jeranaias/planwise-tui/internal/treestate"
	"github.com/jeranaias/planwise-tui/internal/ui/styles"
)

// =============================================================================
// TREE ROWS
// =============================================================================

// TreeRow is one navigable line of a rendered category tree: either a
// category node or the trailing submit button.
type TreeRow struct {
	// Path is the node's full label path ("People/Food/Pizza"); empty for
	// the submit row.
	Path string

	Label       string
	Emoji       string
	Depth       int
	Selected    bool
	Expanded    bool
	HasChildren bool

	// InitialSelected is the backend-supplied seed for this node, needed
	// when toggling so the store can lazily create state.
	InitialSelected bool

	// IsSubmit marks the submit button row.
	IsSubmit bool
}

// StateReader resolves interaction state for tree nodes. Satisfied by the
// orchestrator controller.
type StateReader interface {
	NodeState(messageID, path string, initialSelected bool) treestate.NodeState
}

// FlattenTree converts a tree chunk into the list of currently visible rows:
// depth-first, children shown only under expanded parents, with a submit
// button appended. The caller navigates and toggles by row index.
func FlattenTree(messageID string, tree *chunk.Tree, states StateReader) []TreeRow {
	if tree == nil {
		return nil
	}
	rows := flattenLevel(messageID, tree.RootLabel, tree.Subcategories, 0, states)
	rows = append(rows, TreeRow{Label: "Submit", IsSubmit: true})
	return rows
}

func flattenLevel(messageID, parentPath string, cats []chunk.Category, depth int, states StateReader) []TreeRow {
	var rows []TreeRow
	for _, cat := range cats {
		path := treestate.JoinPath(parentPath, cat.Label)
		st := states.NodeState(messageID, path, cat.InitialSelected)
		rows = append(rows, TreeRow{
			Path:            path,
			Label:           cat.Label,
			Emoji:           cat.Emoji,
			Depth:           depth,
			Selected:        st.Selected,
			Expanded:        st.Expanded,
			HasChildren:     len(cat.Subcategories) > 0,
			InitialSelected: cat.InitialSelected,
		})
		if st.Expanded && len(cat.Subcategories) > 0 {
			rows = append(rows, flattenLevel(messageID, path, cat.Subcategories, depth+1, states)...)
		}
	}
	return rows
}

// =============================================================================
// TREE RENDERING
// =============================================================================

// TreeView renders a category tree below its message. Cursor is the index
// into the flattened rows of the focused row, or -1 when the tree is not
// focused. Disabled trees render muted with no cursor or submit button.
type TreeView struct {
	Theme     *styles.Theme
	Cursor    int
	Disabled  bool
	ShowEmoji bool
}

// Render produces the multi-line tree display for one tree chunk.
func (v TreeView) Render(messageID string, tree *chunk.Tree, states StateReader) string {
	if tree == nil {
		return ""
	}

	var b strings.Builder

	rootStyle := v.Theme.TreeRoot
	if v.Disabled {
		rootStyle = v.Theme.TreeRootDisabled
	}
	root := tree.RootLabel
	if v.ShowEmoji && tree.RootEmoji != "" {
		root = tree.RootEmoji + " " + root
	}
	b.WriteString(rootStyle.Render(root))
	b.WriteString("\n")

	rows := FlattenTree(messageID, tree, states)
	for i, row := range rows {
		if row.IsSubmit {
			if v.Disabled {
				continue
			}
			b.WriteString("\n")
			if i == v.Cursor {
				b.WriteString(v.Theme.SubmitCursor.Render(row.Label))
			} else {
				b.WriteString(v.Theme.SubmitButton.Render(row.Label))
			}
			b.WriteString("\n")
			continue
		}
		b.WriteString(v.renderNode(row, i == v.Cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v TreeView) renderNode(row TreeRow, focused bool) string {
	indent := strings.Repeat("  ", row.Depth+1)

	marker := "[ ]"
	if row.Selected {
		marker = "[x]"
	}

	expand := "  "
	if row.HasChildren {
		if row.Expanded {
			expand = "v "
		} else {
			expand = "> "
		}
	}

	label := row.Label
	if v.ShowEmoji && row.Emoji != "" {
		label = row.Emoji + " " + label
	}

	var pill lipgloss.Style
	switch {
	case v.Disabled:
		pill = v.Theme.PillDisabled
	case focused:
		pill = v.Theme.PillCursor
	case row.Selected:
		pill = v.Theme.PillSelected
	default:
		pill = v.Theme.Pill
	}

	return indent + expand + pill.Render(marker+" "+label)
}
