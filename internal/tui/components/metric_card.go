package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard shows one headline number, optionally with its change from
// the loaded plan.
type MetricCard struct {
	Label      string
	Value      string
	ValueStyle *lipgloss.Style
	Delta      *decimal.Decimal
	DeltaText  string
	Width      int
}

func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 24}
}

// WithDelta attaches a signed change; text is its display form.
func (m *MetricCard) WithDelta(delta decimal.Decimal, text string) *MetricCard {
	m.Delta = &delta
	m.DeltaText = text
	return m
}

func (m *MetricCard) WithStyle(style lipgloss.Style) *MetricCard {
	m.ValueStyle = &style
	return m
}

func (m *MetricCard) Render() string {
	valueStyle := tuistyles.MetricValueStyle
	if m.ValueStyle != nil {
		valueStyle = *m.ValueStyle
	}
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Delta != nil {
		content += "\n" + tuistyles.MetricTrendStyle(*m.Delta).
			Render(tuistyles.TrendIndicator(*m.Delta)+" "+m.DeltaText)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid lays cards out in rows of the given width.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}
	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := start + columns
		if end > len(cards) {
			end = len(cards)
		}
		rendered := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			rendered = append(rendered, c.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
