package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("63")
	muted  = lipgloss.Color("245")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(muted)
	helpStyle    = lipgloss.NewStyle().Foreground(muted)
	statusStyle  = lipgloss.NewStyle().Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	focusedStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	emptyStyle   = lipgloss.NewStyle().Foreground(muted).Padding(1, 2)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("231")).Background(accent)

	cardStyle         = lipgloss.NewStyle().Bold(true)
	selectedCardStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	descStyle         = lipgloss.NewStyle()
	metaStyle         = lipgloss.NewStyle().Foreground(muted)

	activeBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	inactiveBadge = lipgloss.NewStyle().Foreground(muted)

	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).Padding(1, 2)
	buttonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).
			Foreground(lipgloss.Color("231")).Background(accent)
	disabledButtonStyle = lipgloss.NewStyle().Padding(0, 2).
				Foreground(muted).Background(lipgloss.Color("237"))
)
