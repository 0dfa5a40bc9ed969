package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ParameterSlider is an adjustable plan input with a bounded range and a
// fixed step. Values are decimals so stepping never accumulates float error.
type ParameterSlider struct {
	Label       string
	Value       decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	Step        decimal.Decimal
	Format      func(decimal.Decimal) string
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider clamped to [min, max].
func NewParameterSlider(label string, value, min, max, step decimal.Decimal) *ParameterSlider {
	p := &ParameterSlider{
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: func(d decimal.Decimal) string { return d.String() },
		Width:  30,
	}
	p.SetValue(value)
	return p
}

func (p *ParameterSlider) WithFormat(format func(decimal.Decimal) string) *ParameterSlider {
	p.Format = format
	return p
}

func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// Increment raises the value by one step and reports whether it moved.
func (p *ParameterSlider) Increment() bool {
	return p.SetValue(p.Value.Add(p.Step))
}

// Decrement lowers the value by one step and reports whether it moved.
func (p *ParameterSlider) Decrement() bool {
	return p.SetValue(p.Value.Sub(p.Step))
}

// SetValue clamps value into range and reports whether it changed.
func (p *ParameterSlider) SetValue(value decimal.Decimal) bool {
	clamped := decimal.Max(p.Min, decimal.Min(p.Max, value))
	if clamped.Equal(p.Value) {
		return false
	}
	p.Value = clamped
	return true
}

// IntValue returns the value truncated to an integer, for age sliders.
func (p *ParameterSlider) IntValue() int {
	return int(p.Value.IntPart())
}

// Fraction returns the position of the value within the range, 0..1.
func (p *ParameterSlider) Fraction() float64 {
	span := p.Max.Sub(p.Min)
	if !span.IsPositive() {
		return 0
	}
	return p.Value.Sub(p.Min).Div(span).InexactFloat64()
}

// Render returns the slider as one line: label, value and bar.
func (p *ParameterSlider) Render() string {
	label := tuistyles.ParameterLabelStyle
	value := tuistyles.ParameterValueStyle
	cursor := "  "
	if p.IsFocused {
		label = label.Foreground(tuistyles.ColorPrimary).Bold(true)
		value = value.Foreground(tuistyles.ColorAccent)
		cursor = "▸ "
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		cursor,
		label.Render(p.Label),
		value.Render(p.Format(p.Value)),
		"  ",
		p.renderBar(),
	)
	if p.IsFocused && p.Description != "" {
		line += "\n    " + tuistyles.SubtitleStyle.Render(p.Description)
	}
	return line
}

func (p *ParameterSlider) renderBar() string {
	filled := int(math.Round(float64(p.Width-1) * p.Fraction()))
	if filled < 0 {
		filled = 0
	}
	if filled > p.Width-1 {
		filled = p.Width - 1
	}

	thumb := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumb = thumb.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(thumb.Render(strings.Repeat("━", filled)))
	bar.WriteString(thumb.Render("●"))
	bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", p.Width-1-filled)))
	bar.WriteString("]")
	return bar.String()
}
