package main

import "github.com/charmbracelet/lipgloss"

// Compile progress line styles.
var (
	styleCopy      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b96ab"))
	styleSkip      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	styleDirective = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
)
