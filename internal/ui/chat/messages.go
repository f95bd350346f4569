// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main conversation interface.
package chat

import "github.com/jeranaias/planwise-tui/internal/config"

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// stateChangedMsg signals that the controller mutated the conversation
// (a chunk arrived, a submission started or finished). Bursts of chunk
// notifications collapse into a single message through the notify channel.
type stateChangedMsg struct{}

// requestDoneMsg carries the terminal result of a background request
// (Send, Retry, SubmitTree, SubmitForm).
type requestDoneMsg struct {
	err error
}

// noticeMsg shows a transient message in the status bar.
type noticeMsg struct {
	text string
}

// clearNoticeMsg removes the transient status bar message.
type clearNoticeMsg struct{}

// ConfigReloadedMsg delivers a freshly loaded configuration to the running
// model. The file watcher in main sends it through the program so UI flags
// take effect without a restart.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}
