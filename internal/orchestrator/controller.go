// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator drives the streaming conversation lifecycle.
package orchestrator

import (
	"context"
	"sync"

	"github.com/jeranaias/planwise-tui/internal/buffer"
	"github.com/jeranaias/planwise-tui/internal/chunk"
	"github.com/jeranaias/planwise-tui/internal/model"
	"github.com/jeranaias/planwise-tui/internal/transport"
	"github.com/jeranaias/planwise-tui/internal/treestate"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Transport streams backend responses for the three request kinds. Chunk
// order must be preserved; a mid-stream failure surfaces as the returned
// error after any already-delivered chunks.
type Transport interface {
	Send(ctx context.Context, text string, fn transport.StreamFunc) error
	SubmitTreeSelections(ctx context.Context, people, place []chunk.SerializedNode, fn transport.StreamFunc) error
	SubmitForm(ctx context.Context, form chunk.TextForm, fn transport.StreamFunc) error
}

// Commerce receives cart and offer data diverted out of the chunk stream.
// All calls are one-way notifications; implementations must not call back
// into the controller.
type Commerce interface {
	SetCartFromChunk(data *chunk.CartData)
	SetRetailerOffers(offers []chunk.Offer)
	SetLoading(loading bool)
}

// =============================================================================
// ERRORS
// =============================================================================

// ControllerError represents an orchestration-level error.
type ControllerError struct {
	Message string
}

func (e *ControllerError) Error() string {
	return e.Message
}

// ErrRequestInFlight is returned when a new request is issued while one is
// still streaming. At most one backend request is outstanding at a time.
var ErrRequestInFlight = &ControllerError{Message: "a request is already in flight"}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns every piece of mutable conversation state: the log, the
// selection store, the gating engine, the pinned form, and the pending tree
// selections. The rendering layer reads snapshots and issues intents; the
// backend is reached only through the Transport. One Controller serves one
// conversation session and is torn down by Reset.
type Controller struct {
	mu sync.Mutex

	// Composed state
	log     *model.Log
	store   *treestate.Store
	engine  *buffer.Engine
	pinned  *chunk.TextForm
	pending map[chunk.TreeType][]chunk.SerializedNode

	// Lifecycle
	inFlight     bool
	lastSendText string
	editedForms  map[string]bool

	// Collaborators
	transport Transport
	commerce  Commerce

	// notify is invoked after every visibly-applied chunk so a cooperative
	// renderer can paint intermediate state before the next chunk lands.
	// Called without the lock held.
	notify func()
}

// New creates a controller for a fresh conversation session.
func New(t Transport, c Commerce) *Controller {
	ctrl := &Controller{
		log:         model.NewLog(),
		store:       treestate.NewStore(),
		engine:      buffer.NewEngine(),
		pending:     make(map[chunk.TreeType][]chunk.SerializedNode),
		editedForms: make(map[string]bool),
		transport:   t,
		commerce:    c,
	}

	ctrl.store.SetDisabledGuard(func(messageID string) bool {
		msg := ctrl.log.Get(messageID)
		return msg == nil || msg.Disabled
	})

	return ctrl
}

// SetNotify installs the per-chunk repaint hook.
func (c *Controller) SetNotify(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// =============================================================================
// SEND / RETRY
// =============================================================================

// Send issues a new top-level user message and streams the response.
// A new send always abandons any unfinished buffered sequence: the queue,
// the gate, and the pending selections are discarded before the request.
func (c *Controller) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	c.inFlight = true
	c.lastSendText = text
	c.log.AppendUser(text)
	c.engine.Reset()
	c.pending = make(map[chunk.TreeType][]chunk.SerializedNode)
	c.mu.Unlock()
	c.fireNotify()

	err := c.transport.Send(ctx, text, c.consumeChunk)
	c.finishStream(err)
	return err
}

// Retry removes the error marker from a failed turn and reissues the
// original send. The failing agent message (exactly one error chunk) is
// removed, and so is the triggering user message directly before it, so
// the reissued send reproduces the original transcript shape.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	text := c.lastSendText
	if text == "" {
		c.mu.Unlock()
		return nil
	}

	if last := c.log.Last(); last != nil && last.Sender == model.SenderAgent && last.IsErrorOnly() {
		c.log.RemoveLast()
		if prev := c.log.Last(); prev != nil && prev.Sender == model.SenderUser && prev.TextContent() == text {
			c.log.RemoveLast()
		}
	}
	c.mu.Unlock()
	c.fireNotify()

	return c.Send(ctx, text)
}

// CanRetry reports whether the transcript currently ends in a retryable
// error marker.
func (c *Controller) CanRetry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	last := c.log.Last()
	return c.lastSendText != "" && last != nil &&
		last.Sender == model.SenderAgent && last.IsErrorOnly()
}

// =============================================================================
// TREE INTERACTION
// =============================================================================

// ToggleSelection flips a node's selection on an enabled tree message.
func (c *Controller) ToggleSelection(messageID, path string, initialSelected bool) {
	c.mu.Lock()
	c.store.ToggleSelection(messageID, path, initialSelected)
	c.mu.Unlock()
	c.fireNotify()
}

// ToggleExpansion flips a node's expansion on an enabled tree message.
func (c *Controller) ToggleExpansion(messageID, path string, initialSelected bool) {
	c.mu.Lock()
	c.store.ToggleExpansion(messageID, path, initialSelected)
	c.mu.Unlock()
	c.fireNotify()
}

// NodeState returns a node's current interaction state, lazily seeded.
func (c *Controller) NodeState(messageID, path string, initialSelected bool) treestate.NodeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Get(messageID, path, initialSelected)
}

// SubmitTree resolves one tree interaction step. The message is disabled
// and its selections serialized into the pending accumulator (overwriting a
// prior entry of the same tree type). If chunks are still queued behind the
// tree they are released instead of contacting the backend; only when the
// queue is empty does the accumulated payload go out, exactly once, with
// missing tree types defaulting to empty lists.
func (c *Controller) SubmitTree(ctx context.Context, messageID string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}

	msg := c.log.Get(messageID)
	if msg == nil || msg.Disabled {
		c.mu.Unlock()
		return nil
	}
	c.log.MarkDisabled(messageID)

	for _, tree := range msg.Trees() {
		c.pending[tree.Type] = c.store.Serialize(messageID, tree)
	}

	if c.engine.Pending() > 0 {
		released := c.engine.Release()
		c.mu.Unlock()
		c.fireNotify()

		for _, rc := range released {
			c.mu.Lock()
			c.applyAdmission(c.engine.Redispatch(rc))
			c.mu.Unlock()
			c.fireNotify()
		}
		return nil
	}

	// Last tree of the sequence: open the gate and contact the backend.
	c.engine.Release()
	people := c.pending[chunk.TreePeople]
	place := c.pending[chunk.TreePlace]
	if people == nil {
		people = []chunk.SerializedNode{}
	}
	if place == nil {
		place = []chunk.SerializedNode{}
	}
	c.pending = make(map[chunk.TreeType][]chunk.SerializedNode)
	c.inFlight = true
	c.mu.Unlock()
	c.fireNotify()

	err := c.transport.SubmitTreeSelections(ctx, people, place, c.consumeChunk)
	c.finishStream(err)
	return err
}

// =============================================================================
// FORM INTERACTION
// =============================================================================

// FormValues carries the user's edits to the pinned form.
type FormValues struct {
	Address   string
	Budget    string
	Date      string
	Duration  string
	Attendees string
}

// PinnedForm returns a copy of the currently pinned form, or nil.
func (c *Controller) PinnedForm() *chunk.TextForm {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pinned == nil {
		return nil
	}
	cp := *c.pinned
	return &cp
}

// SubmitForm merges the edited values into the pinned form, logs the result
// as a read-only user message, and streams the backend's next turn. Form
// submission starts a fresh buffered sequence.
func (c *Controller) SubmitForm(ctx context.Context, values FormValues) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}

	form := mergeForm(c.pinned, values)
	c.log.AppendUserForm(form)
	c.pinned = nil
	c.engine.Reset()
	c.pending = make(map[chunk.TreeType][]chunk.SerializedNode)
	c.inFlight = true
	c.mu.Unlock()
	c.fireNotify()

	c.commerce.SetLoading(true)
	err := c.transport.SubmitForm(ctx, form, c.consumeChunk)
	c.commerce.SetLoading(false)
	c.finishStream(err)
	return err
}

// EditForm re-pins a historical form message's content for editing and
// retires that message's edit affordance. Nothing is sent to the backend.
func (c *Controller) EditForm(messageID string) {
	c.mu.Lock()
	msg := c.log.Get(messageID)
	if msg == nil || c.editedForms[messageID] {
		c.mu.Unlock()
		return
	}

	var form *chunk.TextForm
	for _, ch := range msg.Chunks {
		if ch.Type == chunk.TypeTextForm && ch.Form != nil {
			form = ch.Form
			break
		}
	}
	if form == nil {
		c.mu.Unlock()
		return
	}

	cp := *form
	c.pinned = &cp
	c.editedForms[messageID] = true
	c.mu.Unlock()
	c.fireNotify()
}

// FormEdited reports whether a form message's edit affordance is spent.
func (c *Controller) FormEdited(messageID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editedForms[messageID]
}

// mergeForm folds edited values into the pinned form. Empty edits keep the
// pinned content; a missing pin yields a form with default labels.
func mergeForm(pinned *chunk.TextForm, values FormValues) chunk.TextForm {
	form := chunk.TextForm{
		Address:   chunk.TextField{Label: "Address"},
		Budget:    chunk.TextField{Label: "Budget"},
		Date:      chunk.TextField{Label: "Date"},
		Duration:  chunk.TextField{Label: "Duration of event"},
		Attendees: chunk.TextField{Label: "Number of attendees"},
	}
	if pinned != nil {
		form = *pinned
	}

	if values.Address != "" {
		form.Address.Content = values.Address
	}
	if values.Budget != "" {
		form.Budget.Content = values.Budget
	}
	if values.Date != "" {
		form.Date.Content = values.Date
	}
	if values.Duration != "" {
		form.Duration.Content = values.Duration
	}
	if values.Attendees != "" {
		form.Attendees.Content = values.Attendees
	}
	return form
}

// =============================================================================
// CHUNK CONSUMPTION
// =============================================================================

// consumeChunk is the single admission point for every streamed chunk, in
// strict arrival order. The notify hook fires after each chunk so the
// renderer sees intermediate state, never a batched final result.
func (c *Controller) consumeChunk(ch chunk.Chunk) error {
	c.mu.Lock()
	c.applyAdmission(c.engine.Admit(ch))
	c.mu.Unlock()
	c.fireNotify()
	return nil
}

// applyAdmission folds one admission result into conversation state.
// Callers hold the lock.
func (c *Controller) applyAdmission(adm buffer.Admission) {
	for _, ch := range adm.Display {
		c.log.ApplyAgentChunk(ch)
	}
	if adm.PinForm != nil {
		cp := *adm.PinForm
		c.pinned = &cp
	}
	if adm.Cart != nil {
		c.commerce.SetCartFromChunk(adm.Cart)
	}
	if adm.Offers != nil {
		c.commerce.SetRetailerOffers(adm.Offers.Offers)
	}
}

// finishStream clears the in-flight flag and, on failure, surfaces one
// error chunk as a new agent message. Chunks admitted before the failure
// stay; only the retry path rolls the transcript back.
func (c *Controller) finishStream(err error) {
	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.log.AppendAgentError(err.Error())
	}
	c.mu.Unlock()
	c.fireNotify()
}

// fireNotify invokes the repaint hook outside the lock.
func (c *Controller) fireNotify() {
	c.mu.Lock()
	fn := c.notify
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// SNAPSHOTS & LIFECYCLE
// =============================================================================

// Messages returns a deep copy of the conversation log for rendering.
func (c *Controller) Messages() []*model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Snapshot()
}

// Loading reports whether a backend request is streaming.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Buffering reports whether chunks are currently being withheld.
func (c *Controller) Buffering() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Buffering()
}

// Reset tears the session down to its initial empty state: log, selection
// store, buffer queue, pinned form, pending selections and retry state.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.log.Reset()
	c.store.Reset()
	c.engine.Reset()
	c.pinned = nil
	c.pending = make(map[chunk.TreeType][]chunk.SerializedNode)
	c.editedForms = make(map[string]bool)
	c.lastSendText = ""
	c.mu.Unlock()
	c.fireNotify()
}
