// Package tuistyles holds the palette and styles shared by the TUI and its
// components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/output"
	"github.com/shopspring/decimal"
)

var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorSecondary = lipgloss.Color("#5A4FCF")
	ColorAccent    = lipgloss.Color("#F2B134")
	ColorSuccess   = lipgloss.Color("#3FB950")
	ColorWarning   = lipgloss.Color("#D29922")
	ColorDanger    = lipgloss.Color("#F85149")
	ColorInfo      = lipgloss.Color("#58A6FF")
	ColorMuted     = lipgloss.Color("#8B949E")
	ColorBorder    = lipgloss.Color("#30363D")
)

var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginTop(1)

	MetricLabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricValueStyle = lipgloss.NewStyle().Bold(true)

	ParameterLabelStyle = lipgloss.NewStyle().Width(24)
	ParameterValueStyle = lipgloss.NewStyle().Bold(true).Width(12).Align(lipgloss.Right)

	SliderTrackStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	SliderThumbStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	ChartBarStyle = lipgloss.NewStyle().Foreground(ColorInfo)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	InfoStyle  = lipgloss.NewStyle().Foreground(ColorInfo)
)

// ReadinessStyle colours a readiness classification.
func ReadinessStyle(r domain.Readiness) lipgloss.Style {
	switch r {
	case domain.ReadinessOnTrack:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	case domain.ReadinessNeedsImprovement:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	}
}

// SuccessRateStyle colours a Monte Carlo success fraction.
func SuccessRateStyle(rate decimal.Decimal) lipgloss.Style {
	switch {
	case rate.GreaterThanOrEqual(decimal.RequireFromString("0.85")):
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case rate.GreaterThanOrEqual(decimal.RequireFromString("0.70")):
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorDanger)
	}
}

// TrendIndicator returns an arrow for the sign of a change.
func TrendIndicator(delta decimal.Decimal) string {
	switch delta.Sign() {
	case 1:
		return "▲"
	case -1:
		return "▼"
	default:
		return "•"
	}
}

// MetricTrendStyle colours a change by its sign.
func MetricTrendStyle(delta decimal.Decimal) lipgloss.Style {
	switch delta.Sign() {
	case 1:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case -1:
		return lipgloss.NewStyle().Foreground(ColorDanger)
	default:
		return lipgloss.NewStyle().Foreground(ColorMuted)
	}
}

var (
	FormatCurrency   = output.FormatCurrency
	FormatPercentage = output.FormatPercentage
)
