package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("RETIREMENT WHAT-IF COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %4s %*s %*s %*s\n",
		nameWidth, "Scenario",
		"Age",
		numWidth, "Balance",
		numWidth, "Income/mo",
		numWidth+6, "Readiness"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Comparison details (deltas from base)
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}
			sb.WriteString(fmt.Sprintf("  Balance:  %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.BalanceDiffFromBase),
				tf.formatDecimal(alt.BalanceDiffFromBase.Abs()),
				alt.BalancePctFromBase.Mul(decimal.NewFromInt(100)).StringFixed(1)))
			sb.WriteString(fmt.Sprintf("  Income:   %s$%s/mo (%s%%)\n",
				tf.deltaSymbol(alt.IncomeDiffFromBase),
				alt.IncomeDiffFromBase.Abs().StringFixed(2),
				alt.IncomePctFromBase.Mul(decimal.NewFromInt(100)).StringFixed(1)))
		}
		sb.WriteString("\n")

		s := compSet.Summary
		sb.WriteString("SUMMARY\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("  Best:   %-24s $%s\n", orBase(s.BestScenario), tf.formatDecimal(s.BestBalance)))
		sb.WriteString(fmt.Sprintf("  Worst:  %-24s $%s\n", orBase(s.WorstScenario), tf.formatDecimal(s.WorstBalance)))
		sb.WriteString(fmt.Sprintf("  Range:  $%s\n", tf.formatDecimal(s.BalanceRange)))
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func orBase(name string) string {
	if name == "" {
		return BaseScenarioName
	}
	return name
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ScenarioResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %4d %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		result.RetirementAge,
		numWidth, "$"+tf.formatDecimal(result.ProjectedBalance),
		numWidth, "$"+result.MonthlyIncome.StringFixed(0),
		numWidth+6, string(result.Readiness))
}

// formatDecimal formats a decimal for display (in thousands or millions)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns the sign prefix for a delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.BalanceDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+$%s", tf.formatDecimal(alt.BalanceDiffFromBase))
		} else if alt.BalanceDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-$%s", tf.formatDecimal(alt.BalanceDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
