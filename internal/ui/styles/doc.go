// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the planwise TUI application.

This package defines the color palette and Lip Gloss styles used throughout
the application. All colors use AdaptiveColor for automatic light/dark
terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Purple - Primary accent for agent messages and tree roots
  - Cyan - Brand color for user highlights and the cursor
  - Emerald - Selected tree options, cart totals, submit buttons
  - Amber - Event details form, offers, pending states
  - Rose - Errors

## Message Bubbles

	UserBubbleBg  - Background for user messages
	UserBubbleFg  - Text color for user messages
	AgentBubbleBg - Background for agent messages
	AgentBubbleFg - Text color for agent messages

Retired option trees and forms render with muted text so the transcript
makes clear which interactive elements are still live.

# Theme (theme.go)

The Theme struct bundles every style the views need, initialized once at
startup from the detected terminal capabilities. Views receive a *Theme
and never construct lipgloss styles ad hoc.

# Accessibility

Status helpers (RenderSuccess, RenderError, RenderWarning, RenderInfo)
pair high-contrast colors with ASCII shape indicators so state changes
remain legible for colorblind users and dumb terminals.
*/
package styles
