// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the planwise TUI.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/planwise-tui/internal/ui/styles"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeInput, "CHAT"},
		{ModeTree, "TREE"},
		{ModeForm, "FORM"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestStatusBarIdleShowsReady(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(100)

	out := bar.View()
	if !strings.Contains(out, "ready") {
		t.Error("idle status bar should show ready")
	}
	if !strings.Contains(out, "CHAT") {
		t.Error("status bar should show the interaction mode")
	}
}

func TestStatusBarStreamingAndBuffering(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(100)

	bar.SetStreaming(true)
	if !strings.Contains(bar.View(), "streaming") {
		t.Error("streaming indicator missing")
	}

	bar.SetStreaming(false)
	bar.SetBuffering(true)
	if !strings.Contains(bar.View(), "more after submit") {
		t.Error("buffered-content indicator missing")
	}
}

func TestStatusBarCartSummary(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(120)
	bar.SetCart(3, 149.97)
	bar.SetOffers(2)

	out := bar.View()
	if !strings.Contains(out, "cart 3 / $149.97") {
		t.Error("cart summary missing")
	}
	if !strings.Contains(out, "2 offers") {
		t.Error("offer count missing")
	}
}

func TestStatusBarNoticeReplacesHints(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(100)
	bar.SetNotice("conversation saved")

	out := bar.View()
	if !strings.Contains(out, "conversation saved") {
		t.Error("notice missing")
	}
	if strings.Contains(out, "ctrl+c") {
		t.Error("hints should be replaced while a notice is shown")
	}
}
