package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rpggio/calmmind/internal/assistant"
)

const (
	IconCalm     = "🌿"
	IconChart    = "📊"
	IconClock    = "⏰"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconDone     = "✅"
	IconCalendar = "📅"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("36")  // teal
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// LevelStyle colors a stress label: green, orange or red.
func LevelStyle(level assistant.Level) lipgloss.Style {
	switch level {
	case assistant.LevelHigh:
		return Bad
	case assistant.LevelModerate:
		return Warn
	default:
		return Good
	}
}

// LevelText renders a stress label in its color.
func LevelText(level assistant.Level) string {
	return LevelStyle(level).Render(string(level))
}

// Meter draws a width-cell bar filled to percent (0-100).
func Meter(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = math.Max(0, math.Min(100, percent))
	filled := int(math.Round(percent / 100 * float64(width)))
	level := assistant.Classify(percent, 0, 0)
	return LevelStyle(level).Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

// StatusText colors a derived task status.
func StatusText(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed":
		return Good.Render("completed")
	case "done_late":
		return Warn.Render("done late")
	case "missing":
		return Bad.Render("missing")
	case "in_progress":
		return H2.Render("in progress")
	default:
		return Muted.Render(status)
	}
}
