// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the planwise TUI.
package components

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SPINNER STATE TESTS
// =============================================================================

func TestSpinnerStartStop(t *testing.T) {
	s := NewSpinner()
	if s.IsActive() {
		t.Error("new spinner should be inactive")
	}

	cmd := s.Start()
	if cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner should be active after Start")
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
}

func TestSpinnerViewInactiveIsEmpty(t *testing.T) {
	s := NewSpinner()
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}
}

func TestSpinnerViewContainsMessage(t *testing.T) {
	s := NewPlanningSpinner()
	s.Start()
	if !strings.Contains(s.View(), "Planning") {
		t.Error("spinner view should contain its message")
	}

	s.SetMessage("Checking retailers")
	if !strings.Contains(s.View(), "Checking retailers") {
		t.Error("spinner view should reflect updated message")
	}
}

func TestSpinnerElapsed(t *testing.T) {
	s := NewSpinner()
	if s.GetElapsed() != 0 {
		t.Error("elapsed should be zero before start")
	}
	s.Start()
	if s.GetElapsed() < 0 {
		t.Error("elapsed should be non-negative after start")
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"sub-second", 500 * time.Millisecond, "0.5s"},
		{"seconds", 12 * time.Second, "12.0s"},
		{"minutes", 95 * time.Second, "1m35s"},
		{"padded seconds", 61 * time.Second, "1m01s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatElapsed(tt.d); got != tt.want {
				t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
