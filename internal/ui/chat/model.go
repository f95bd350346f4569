// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main conversation interface.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/planwise-tui/internal/cart"
	"github.com/jeranaias/planwise-tui/internal/chunk"
	"github.com/jeranaias/planwise-tui/internal/config"
	"github.com/jeranaias/planwise-tui/internal/model"
	"github.com/jeranaias/planwise-tui/internal/orchestrator"
	"github.com/jeranaias/planwise-tui/internal/storage"
	"github.com/jeranaias/planwise-tui/internal/ui/components"
	"github.com/jeranaias/planwise-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// formFieldCount is the number of editable event-details fields.
const formFieldCount = 5

// Model is the Bubble Tea model for the conversation interface. It owns no
// conversation state itself: the orchestrator controller is the single
// source of truth, and the model re-reads it on every state change.
type Model struct {
	ctrl      *orchestrator.Controller
	cartState *cart.State
	store     *storage.ConversationStore
	cfg       *config.Config

	theme *styles.Theme
	keys  KeyMap

	// Widgets
	viewport  viewport.Model
	input     textarea.Model
	spinner   components.Spinner
	statusBar components.StatusBar
	markdown  *glamour.TermRenderer

	// Focus state
	focus components.Mode

	// Tree navigation: the focused tree's message ID and cursor index into
	// its flattened rows.
	treeMsgID  string
	treeCursor int

	// Form editing
	formInputs [formFieldCount]textinput.Model
	formLabels [formFieldCount]string
	formIndex  int

	// notify collapses controller change bursts into single repaints. The
	// controller's notify hook does a non-blocking send; Update re-arms a
	// read after every stateChangedMsg.
	notify chan struct{}

	width  int
	height int
	ready  bool
}

// New creates the chat model wired to the controller and its collaborators.
func New(ctrl *orchestrator.Controller, cartState *cart.State, store *storage.ConversationStore, cfg *config.Config) *Model {
	theme := styles.NewTheme()

	input := textarea.New()
	input.Placeholder = "Describe the event you're planning..."
	input.ShowLineNumbers = false
	input.SetHeight(1)
	input.CharLimit = 4000
	input.Focus()

	vp := viewport.New(80, 20)

	m := &Model{
		ctrl:      ctrl,
		cartState: cartState,
		store:     store,
		cfg:       cfg,
		theme:     theme,
		keys:      DefaultKeyMap(),
		viewport:  vp,
		input:     input,
		spinner:   components.NewPlanningSpinner(),
		statusBar: components.NewStatusBar(theme),
		markdown:  newMarkdownRenderer(cfg),
		notify:    make(chan struct{}, 1),
	}

	ctrl.SetNotify(func() {
		select {
		case m.notify <- struct{}{}:
		default:
		}
	})

	return m
}

// Init starts the cursor blink and arms the controller change listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForChange())
}

// newMarkdownRenderer builds the glamour renderer, or returns nil when
// markdown rendering is disabled or the renderer can't be constructed.
func newMarkdownRenderer(cfg *config.Config) *glamour.TermRenderer {
	if cfg != nil && !cfg.UI.RenderMarkdown {
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		return nil
	}
	return r
}

// applyConfig swaps in a reloaded configuration and rebuilds everything
// derived from it. View code reads m.cfg on every frame, so display flags
// take effect on the next repaint.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.markdown = newMarkdownRenderer(cfg)
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForChange blocks until the controller reports a state change.
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.notify
		return stateChangedMsg{}
	}
}

// noticeCmd schedules a transient status bar message and its expiry.
func noticeCmd(text string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return noticeMsg{text} },
		tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearNoticeMsg{} }),
	)
}

// =============================================================================
// TREE HELPERS
// =============================================================================

// activeTreeMessage returns the newest enabled agent message holding a tree,
// or nil when no tree is interactive.
func (m *Model) activeTreeMessage() *model.Message {
	msgs := m.ctrl.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if msg.Sender == model.SenderAgent && !msg.Disabled && msg.ContainsTree() {
			return msg
		}
	}
	return nil
}

// treeRows flattens the focused tree into its current navigable rows.
func (m *Model) treeRows() []components.TreeRow {
	msgs := m.ctrl.Messages()
	for _, msg := range msgs {
		if msg.ID != m.treeMsgID {
			continue
		}
		trees := msg.Trees()
		if len(trees) == 0 {
			return nil
		}
		return components.FlattenTree(msg.ID, trees[0], m.ctrl)
	}
	return nil
}

// clampTreeCursor keeps the cursor inside the flattened row range after
// expansion toggles change the row count.
func (m *Model) clampTreeCursor() {
	rows := m.treeRows()
	if len(rows) == 0 {
		m.treeCursor = 0
		return
	}
	if m.treeCursor >= len(rows) {
		m.treeCursor = len(rows) - 1
	}
	if m.treeCursor < 0 {
		m.treeCursor = 0
	}
}

// =============================================================================
// FORM HELPERS
// =============================================================================

// openFormEditor populates the form inputs from the pinned form and moves
// focus to the first field.
func (m *Model) openFormEditor(form *chunk.TextForm) {
	fields := []chunk.TextField{form.Address, form.Budget, form.Date, form.Duration, form.Attendees}
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Label
		ti.SetValue(f.Content)
		ti.CharLimit = 200
		m.formInputs[i] = ti
		m.formLabels[i] = f.Label
	}
	m.formIndex = 0
	m.formInputs[0].Focus()
	m.focus = components.ModeForm
	m.input.Blur()
}

// closeFormEditor returns focus to the message input.
func (m *Model) closeFormEditor() {
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.focus = components.ModeInput
	m.input.Focus()
}

// formValues collects the editor's current contents.
func (m *Model) formValues() orchestrator.FormValues {
	return orchestrator.FormValues{
		Address:   m.formInputs[0].Value(),
		Budget:    m.formInputs[1].Value(),
		Date:      m.formInputs[2].Value(),
		Duration:  m.formInputs[3].Value(),
		Attendees: m.formInputs[4].Value(),
	}
}

// latestEditableFormID finds the newest user form message whose edit
// affordance is still available.
func (m *Model) latestEditableFormID() string {
	msgs := m.ctrl.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if msg.Sender != model.SenderUser {
			continue
		}
		for _, c := range msg.Chunks {
			if c.Type == chunk.TypeTextForm && !m.ctrl.FormEdited(msg.ID) {
				return msg.ID
			}
		}
	}
	return ""
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// saveConversation persists the current log and returns a status notice.
func (m *Model) saveConversation() tea.Cmd {
	if m.store == nil {
		return noticeCmd("storage unavailable")
	}
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		return noticeCmd("nothing to save")
	}
	conv := &storage.StoredConversation{
		Messages: storage.FromMessages(msgs),
	}
	if _, err := m.store.Save(conv); err != nil {
		return noticeCmd("save failed: " + err.Error())
	}
	return noticeCmd("conversation saved")
}
