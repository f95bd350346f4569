// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for planwise TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble     lipgloss.Style
	AgentBubble    lipgloss.Style
	DisabledBubble lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// OPTION TREE STYLES
	// ==========================================================================

	TreeRoot         lipgloss.Style
	TreeRootDisabled lipgloss.Style
	Pill             lipgloss.Style
	PillSelected     lipgloss.Style
	PillCursor       lipgloss.Style
	PillDisabled     lipgloss.Style
	SubmitButton     lipgloss.Style
	SubmitCursor     lipgloss.Style

	// ==========================================================================
	// EVENT DETAILS FORM STYLES
	// ==========================================================================

	FormCard         lipgloss.Style
	FormTitle        lipgloss.Style
	FormLabel        lipgloss.Style
	FormValue        lipgloss.Style
	FormFieldFocused lipgloss.Style

	// ==========================================================================
	// COMMERCE PANEL STYLES
	// ==========================================================================

	CartPanel  lipgloss.Style
	CartItem   lipgloss.Style
	CartTotal  lipgloss.Style
	OfferBadge lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// ERROR BOX STYLES
	// ==========================================================================

	ErrorBox     lipgloss.Style
	ErrorMessage lipgloss.Style

	// ==========================================================================
	// SESSION LIST STYLES
	// ==========================================================================

	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	// Detect terminal capabilities
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AgentBubble = lipgloss.NewStyle().
		Foreground(AgentBubbleFg).
		Background(AgentBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AgentBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.DisabledBubble = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 2).
		MarginRight(4)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Option trees
	t.TreeRoot = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.TreeRootDisabled = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextMuted)

	t.Pill = lipgloss.NewStyle().
		Foreground(PillFg).
		Background(PillBg).
		Padding(0, 1)

	t.PillSelected = lipgloss.NewStyle().
		Foreground(PillSelectedFg).
		Background(PillSelectedBg).
		Bold(true).
		Padding(0, 1)

	t.PillCursor = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true).
		Padding(0, 1)

	t.PillDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.SubmitButton = lipgloss.NewStyle().
		Foreground(Emerald).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Emerald).
		Padding(0, 2)

	t.SubmitCursor = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Bold(true).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Emerald).
		Padding(0, 2)

	// Event details form
	t.FormCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 2)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.FormFieldFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg)

	// Commerce panels
	t.CartPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Emerald).
		PaddingLeft(2)

	t.CartItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CartTotal = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.OfferBadge = lipgloss.NewStyle().
		Foreground(AmberDeep).
		Background(Amber).
		Padding(0, 1)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Error box
	t.ErrorBox = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Rose).
		PaddingLeft(2)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(Rose)

	// Session list
	t.SessionItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SessionItemSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 1)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Accessibility status styles
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth returns the maximum content width for a message bubble.
func (t *Theme) BubbleWidth() int {
	if t.Width <= 0 {
		return 76
	}
	w := t.Width - 10
	if w < 20 {
		w = 20
	}
	return w
}
