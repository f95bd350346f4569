// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat implements the main conversation interface for planwise.

The package is a Bubble Tea model composed from bubbles widgets (viewport,
textarea, textinput, spinner) and the components package renderers. It owns
no conversation state: the orchestrator controller is the single source of
truth, and the view re-reads it after every change.

# Focus Modes

The interface has three interaction modes, shown in the status bar:

  - CHAT - typing in the message box; enter sends, tab moves focus to the
    newest live option tree, ctrl+e opens the event details form.
  - TREE - navigating an option tree; space toggles selection, enter
    expands a parent or presses the submit button, esc returns to chat.
  - FORM - editing the event details form; tab cycles fields, enter
    submits, esc cancels.

# Repaint Flow

The controller calls the notify hook on every conversation mutation. The
hook does a non-blocking send into a one-slot channel; a pending
waitForChange command turns that into a stateChangedMsg, and Update re-arms
the listener. Chunk bursts therefore collapse into however many repaints
the event loop can actually service, without a separate frame-rate timer.

Backend requests (send, retry, submissions) run as Bubble Tea commands and
report back through requestDoneMsg. Failures surface as error chunks in the
transcript via the controller, so the UI only handles the in-flight
rejection case specially.
*/
package chat
