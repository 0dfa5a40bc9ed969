package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a solver result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Target:              %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLVED PARAMETER\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalContribution != nil {
		sb.WriteString(fmt.Sprintf("Monthly Contribution: $%s (%s$%s vs today)\n",
			tf.formatCurrency(*result.OptimalContribution),
			tf.deltaSymbol(result.ChangeFromBase),
			tf.formatCurrency(result.ChangeFromBase.Abs())))
	}
	if result.OptimalRetirementAge != nil {
		sb.WriteString(fmt.Sprintf("Retirement Age:       %d (%s%s years vs plan)\n",
			*result.OptimalRetirementAge,
			tf.deltaSymbol(result.ChangeFromBase),
			result.ChangeFromBase.Abs().String()))
	}
	if result.OptimalExtraPayment != nil {
		sb.WriteString(fmt.Sprintf("Extra Debt Payment:   $%s/month\n", tf.formatCurrency(*result.OptimalExtraPayment)))
	}
	sb.WriteString("\n")

	if result.Projection != nil {
		sb.WriteString("PROJECTED RESULTS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("%-24s %15s %15s\n", "", "Solved", "Current Plan"))
		tf.writeProjectionRow(&sb, "Projected Balance", result.Projection, result.BaseProjection, func(p *domain.ProjectionResult) string {
			return "$" + tf.formatShort(p.ProjectedBalance)
		})
		tf.writeProjectionRow(&sb, "Monthly Income", result.Projection, result.BaseProjection, func(p *domain.ProjectionResult) string {
			return "$" + tf.formatCurrency(p.MonthlyIncome)
		})
		tf.writeProjectionRow(&sb, "Required Income", result.Projection, result.BaseProjection, func(p *domain.ProjectionResult) string {
			return "$" + tf.formatCurrency(p.RequiredMonthlyIncome)
		})
		tf.writeProjectionRow(&sb, "Readiness", result.Projection, result.BaseProjection, func(p *domain.ProjectionResult) string {
			return string(p.Readiness)
		})
		sb.WriteString("\n")
	}

	if result.OptimalExtraPayment != nil {
		sb.WriteString("DEBT PAYOFF\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Target Months:         %d\n", result.Request.Constraints.TargetPayoffMonths))
		sb.WriteString(fmt.Sprintf("Payoff Months:         %d\n", result.PayoffMonths))
		sb.WriteString(fmt.Sprintf("Total Interest:        $%s\n", tf.formatCurrency(result.TotalInterest)))
		if result.BasePayoffMonths > 0 {
			sb.WriteString(fmt.Sprintf("Minimums Only:         %d months, $%s interest\n",
				result.BasePayoffMonths, tf.formatCurrency(result.BaseTotalInterest)))
			sb.WriteString(fmt.Sprintf("Interest Saved:        $%s\n",
				tf.formatCurrency(result.BaseTotalInterest.Sub(result.TotalInterest))))
		} else {
			sb.WriteString("Minimums Only:         never paid off\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) writeProjectionRow(sb *strings.Builder, label string, solved, base *domain.ProjectionResult, value func(*domain.ProjectionResult) string) {
	baseValue := "-"
	if base != nil {
		baseValue = value(base)
	}
	sb.WriteString(fmt.Sprintf("%-24s %15s %15s\n", label, value(solved), baseValue))
}

// FormatMultiDimensional formats results from every solved target
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SOLVER SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-20s %-28s %12s %15s\n", "Target", "Solution", "Iterations", "Status"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		sb.WriteString(fmt.Sprintf("%-20s %-28s %12d %15s\n",
			tf.truncate(string(res.Request.Target), 20),
			tf.truncate(tf.solution(res), 28),
			res.Iterations,
			tf.formatStatus(res.Success)))
	}
	sb.WriteString("\n")

	if len(result.Failures) > 0 {
		sb.WriteString("UNREACHABLE TARGETS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, target := range []OptimizationTarget{OptimizeContribution, OptimizeRetirementAge, OptimizeExtraPayment} {
			if msg, ok := result.Failures[string(target)]; ok {
				sb.WriteString(fmt.Sprintf("%-20s %s\n", target, msg))
			}
		}
		sb.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) solution(res OptimizationResult) string {
	switch {
	case res.OptimalContribution != nil:
		return fmt.Sprintf("$%s/month", tf.formatCurrency(*res.OptimalContribution))
	case res.OptimalRetirementAge != nil:
		return fmt.Sprintf("retire at %d", *res.OptimalRetirementAge)
	case res.OptimalExtraPayment != nil:
		return fmt.Sprintf("+$%s/month, %d months", tf.formatCurrency(*res.OptimalExtraPayment), res.PayoffMonths)
	}
	return "-"
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-target results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
