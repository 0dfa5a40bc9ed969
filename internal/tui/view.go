package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/finplan/internal/tui/components"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(tuistyles.TitleStyle.Render("finplan · retirement planner"))
	b.WriteString("\n")
	status := "loaded plan"
	if m.calculating {
		status = "recalculating…"
	}
	b.WriteString(tuistyles.SubtitleStyle.Render(status))
	b.WriteString("\n\n")

	for _, s := range m.sliders {
		b.WriteString(s.Render())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(tuistyles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderMetrics())
	b.WriteString("\n")

	if len(m.yearly) > 0 {
		b.WriteString(m.renderChart())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return tuistyles.AppStyle.Render(b.String())
}

func (m Model) renderMetrics() string {
	p := m.projection
	if p == nil {
		return ""
	}

	balanceDelta := p.ProjectedBalance.Sub(m.baseProjection.ProjectedBalance)
	incomeDelta := p.MonthlyIncome.Sub(m.baseProjection.MonthlyIncome)

	cards := []*components.MetricCard{
		components.NewMetricCard("Projected Balance", tuistyles.FormatCurrency(p.ProjectedBalance)).
			WithDelta(balanceDelta, signed(tuistyles.FormatCurrency(balanceDelta), balanceDelta.IsPositive())),
		components.NewMetricCard("Monthly Income", tuistyles.FormatCurrency(p.MonthlyIncome)).
			WithDelta(incomeDelta, signed(tuistyles.FormatCurrency(incomeDelta), incomeDelta.IsPositive())),
		components.NewMetricCard("Required Income", tuistyles.FormatCurrency(p.RequiredMonthlyIncome)),
		components.NewMetricCard("Readiness", string(p.Readiness)).
			WithStyle(tuistyles.ReadinessStyle(p.Readiness)),
	}
	if m.simulation != nil {
		cards = append(cards,
			components.NewMetricCard("Success Rate", tuistyles.FormatPercentage(m.simulation.SuccessRate)).
				WithStyle(tuistyles.SuccessRateStyle(m.simulation.SuccessRate)),
			components.NewMetricCard("Value at Risk (P5)", tuistyles.FormatCurrency(m.simulation.Risk.ValueAtRisk)),
		)
	}

	columns := 3
	if m.width < 80 {
		columns = 2
	}
	return components.MetricGrid(cards, columns)
}

func (m Model) renderChart() string {
	values := make([]decimal.Decimal, 0, len(m.yearly))
	labels := make([]string, 0, len(m.yearly))
	for _, row := range m.yearly {
		values = append(values, row.TotalBalance)
		labels = append(labels, strconv.Itoa(row.Age))
	}
	chart := components.NewBalanceChart("Balance by age", values).WithLabels(labels)
	return lipgloss.NewStyle().MarginTop(1).Render(chart.Render())
}

func signed(s string, positive bool) string {
	if positive {
		return "+" + s
	}
	return s
}
