package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	HeadingColor = lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"}
	PathColor    = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#A0A8B0"}
	LibraryColor = lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#ADB5BD", Dark: "#6C757D"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Width(12)

	PathStyle = lipgloss.NewStyle().
			Foreground(PathColor).
			Italic(true)

	LibraryStyle = lipgloss.NewStyle().
			Foreground(LibraryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// Operation indicators
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
)
