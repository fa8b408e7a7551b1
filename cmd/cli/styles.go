package main

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#8BC34A")
	info   = lipgloss.Color("#2196F3")
	muted  = lipgloss.Color("#8A94A6")
	danger = lipgloss.Color("#E53935")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(info)
	botStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	errorStyle  = lipgloss.NewStyle().Foreground(danger)
	promptStyle = lipgloss.NewStyle().Foreground(info)
)
