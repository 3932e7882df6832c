package report

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	successColor = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(mutedColor).Width(10)
	okStyle    = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)
