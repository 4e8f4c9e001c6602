package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors
var (
	primaryColor   = lipgloss.Color("#6366F1") // Indigo 500
	secondaryColor = lipgloss.Color("#0EA5E9") // Sky 500
	accentColor    = lipgloss.Color("#F59E0B") // Amber 500
	successColor   = lipgloss.Color("#10B981") // Emerald 500
	errorColor     = lipgloss.Color("#EF4444") // Red 500
	mutedColor     = lipgloss.Color("#64748B") // Slate 500

	bgDark   = lipgloss.Color("#1E293B") // Slate 800
	bgDarker = lipgloss.Color("#020617") // Slate 950

	textPrimary   = lipgloss.Color("#F8FAFC") // Slate 50
	textSecondary = lipgloss.Color("#94A3B8") // Slate 400
	textMuted     = lipgloss.Color("#475569") // Slate 600
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textPrimary).
			Background(primaryColor).
			Padding(0, 2).
			MarginBottom(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textSecondary).
			Background(bgDark).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	assistantTextStyle = lipgloss.NewStyle().
				Foreground(textPrimary)

	systemMsgStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorMsgStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	dividerStyle = lipgloss.NewStyle().
			Foreground(bgDark)

	cursorGlyphStyle = lipgloss.NewStyle().
				Foreground(primaryColor)

	// Badges
	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	idleBadgeStyle = badgeStyle.Copy().
			Background(textMuted).
			Foreground(textPrimary)

	requestingBadgeStyle = badgeStyle.Copy().
				Background(accentColor).
				Foreground(bgDarker)

	errorBadgeStyle = badgeStyle.Copy().
			Background(errorColor).
			Foreground(textPrimary)

	modelInfoStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	statusTextStyle = lipgloss.NewStyle().
			Foreground(textSecondary).
			Faint(true)
)
