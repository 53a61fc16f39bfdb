package ui

import "github.com/charmbracelet/lipgloss"

var (
	Title = lipgloss.NewStyle().Inline(true).Bold(true).Foreground(lipgloss.Color("252")).Render
	Help  = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("241")).Render
	Value = lipgloss.NewStyle().Inline(true).Bold(true).Foreground(lipgloss.Color("86")).Render
	Error = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("203")).Render

	Spinner = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)
