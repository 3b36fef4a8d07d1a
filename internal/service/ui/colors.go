package ui

import "github.com/charmbracelet/lipgloss"

// ANSI palette indexes so that the help output follows the terminal theme.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	// Descriptions stay dim next to command names.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)
