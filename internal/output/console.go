package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/finplan/internal/breakeven"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const ruleWidth = 80

var (
	successGood = decimal.RequireFromString("0.85")
	successFair = decimal.RequireFromString("0.70")
)

// ConsoleFormatter renders human-readable reports for the terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(v any) ([]byte, error) {
	var buf bytes.Buffer

	switch r := v.(type) {
	case *domain.PayoffPlan:
		writePayoffPlan(&buf, r)
	case *domain.StrategyComparison:
		writeStrategyComparison(&buf, r)
	case *domain.ConsolidationReport:
		writeConsolidation(&buf, r)
	case *domain.PaymentComparison:
		writePaymentComparison(&buf, r)
	case *domain.WaterfallSchedule:
		writeWaterfall(&buf, r)
	case *domain.ProjectionResult:
		writeProjection(&buf, r)
	case []domain.YearlyProjectionRow:
		writeYearly(&buf, r)
	case *domain.SimulationResult:
		writeSimulation(&buf, r)
	case *domain.SensitivityReport:
		writeSensitivity(&buf, r)
	case *domain.PrioritizationMatrix:
		writeGoals(&buf, r)
	case *compare.ComparisonSet:
		buf.WriteString((&compare.TableFormatter{}).Format(r))
	case *breakeven.OptimizationResult:
		buf.WriteString((&breakeven.TableFormatter{}).Format(r))
	case *breakeven.MultiDimensionalResult:
		buf.WriteString((&breakeven.TableFormatter{}).FormatMultiDimensional(r))
	default:
		return nil, &UnsupportedTypeError{Format: "console", Value: v}
	}

	return buf.Bytes(), nil
}

func writeTitle(buf *bytes.Buffer, title string) {
	fmt.Fprintln(buf, strings.Repeat("=", ruleWidth))
	fmt.Fprintln(buf, titleStyle.Render(title))
	fmt.Fprintln(buf, strings.Repeat("=", ruleWidth))
}

func writeSection(buf *bytes.Buffer, section string) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, sectionStyle.Render(section))
	fmt.Fprintln(buf, strings.Repeat("-", ruleWidth))
}

func readinessText(r domain.Readiness) string {
	switch r {
	case domain.ReadinessOnTrack:
		return goodStyle.Render(string(r))
	case domain.ReadinessNeedsImprovement:
		return warnStyle.Render(string(r))
	default:
		return badStyle.Render(string(r))
	}
}

func priorityText(p domain.PriorityTier) string {
	switch p {
	case domain.PriorityHigh:
		return badStyle.Render(string(p))
	case domain.PriorityMedium:
		return warnStyle.Render(string(p))
	case domain.PriorityLow:
		return goodStyle.Render(string(p))
	default:
		return mutedStyle.Render(string(p))
	}
}

func loanName(id, name string) string {
	if name != "" {
		return name
	}
	return id
}

func writePayoffPlan(buf *bytes.Buffer, p *domain.PayoffPlan) {
	writeTitle(buf, fmt.Sprintf("DEBT PAYOFF PLAN (%s)", p.Strategy))
	fmt.Fprintf(buf, "Total Debt:           %s\n", FormatCurrency(p.TotalDebt))
	fmt.Fprintf(buf, "Minimum Payments:     %s/month\n", FormatCurrency(p.TotalMinimumPayments))
	fmt.Fprintf(buf, "Extra Payment:        %s/month\n", FormatCurrency(p.ExtraPayment))
	fmt.Fprintf(buf, "Debt-Free In:         %d months\n", p.PayoffMonths)
	fmt.Fprintf(buf, "Total Interest:       %s\n", FormatCurrency(p.TotalInterest))

	writeSection(buf, "PAYOFF ORDER")
	fmt.Fprintf(buf, "%-3s %-22s %14s %7s %12s %12s %7s %14s\n",
		"#", "Loan", "Balance", "Rate", "Minimum", "Assigned", "Months", "Interest")
	for _, e := range p.Entries {
		fmt.Fprintf(buf, "%-3d %-22s %14s %7s %12s %12s %7d %14s\n",
			e.PayoffOrder, truncate(loanName(e.LoanID, e.Name), 22), FormatCurrency(e.Balance),
			FormatRate(e.InterestRate), FormatCurrency(e.MinimumPayment), FormatCurrency(e.AssignedPayment),
			e.PayoffMonths, FormatCurrency(e.TotalInterest))
	}
}

func writeStrategyComparison(buf *bytes.Buffer, s *domain.StrategyComparison) {
	writeTitle(buf, "AVALANCHE VS SNOWBALL")
	fmt.Fprintf(buf, "%-12s %10s %16s\n", "Strategy", "Months", "Total Interest")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	for _, p := range []*domain.PayoffPlan{s.Avalanche, s.Snowball} {
		marker := " "
		if p.Strategy == s.RecommendedStrategy {
			marker = "*"
		}
		fmt.Fprintf(buf, "%-12s %10d %16s %s\n", p.Strategy, p.PayoffMonths, FormatCurrency(p.TotalInterest), marker)
	}

	writeSection(buf, "RECOMMENDATION")
	fmt.Fprintf(buf, "Interest Savings:     %s\n", FormatCurrency(s.InterestSavings))
	fmt.Fprintf(buf, "Months Difference:    %d\n", s.PayoffMonthsDelta)
	fmt.Fprintf(buf, "Recommended:          %s\n", goodStyle.Render(string(s.RecommendedStrategy)))
	if s.RecommendationReason != "" {
		fmt.Fprintf(buf, "• %s\n", s.RecommendationReason)
	}
}

func writeConsolidation(buf *bytes.Buffer, r *domain.ConsolidationReport) {
	writeTitle(buf, "DEBT CONSOLIDATION ANALYSIS")
	fmt.Fprintf(buf, "%-22s %16s %16s\n", "", "Current", "Consolidated")
	fmt.Fprintln(buf, strings.Repeat("-", 56))
	fmt.Fprintf(buf, "%-22s %16s %16s\n", "Balance", FormatCurrency(r.TotalCurrentDebt), FormatCurrency(r.ConsolidatedLoanAmount))
	fmt.Fprintf(buf, "%-22s %16s %16s\n", "Monthly Payment", FormatCurrency(r.TotalCurrentMinimumPayments), FormatCurrency(r.ConsolidatedMonthlyPayment))
	fmt.Fprintf(buf, "%-22s %16d %16d\n", "Payoff Months", r.CurrentPayoffMonths, r.ConsolidatedPayoffMonths)
	fmt.Fprintf(buf, "%-22s %16s %16s\n", "Total Interest", FormatCurrency(r.CurrentTotalInterest), FormatCurrency(r.ConsolidatedTotalInterest))
	fmt.Fprintf(buf, "%-22s %16s %16s\n", "Rate", "", FormatRate(r.ConsolidatedInterestRate))

	writeSection(buf, "RESULT")
	fmt.Fprintf(buf, "Interest Savings:     %s\n", FormatCurrency(r.TotalInterestSavings))
	fmt.Fprintf(buf, "Time Savings:         %d months\n", r.TimeSavingsMonths)
	verdict := badStyle.Render("Not beneficial")
	if r.IsConsolidationBeneficial {
		verdict = goodStyle.Render("Beneficial")
	}
	fmt.Fprintf(buf, "Verdict:              %s\n", verdict)
	if r.Recommendation != "" {
		fmt.Fprintf(buf, "• %s\n", r.Recommendation)
	}
	for _, b := range r.Benefits {
		fmt.Fprintf(buf, "  + %s\n", b)
	}
	for _, c := range r.Considerations {
		fmt.Fprintf(buf, "  - %s\n", c)
	}
}

func writePaymentComparison(buf *bytes.Buffer, r *domain.PaymentComparison) {
	writeTitle(buf, "ACCELERATED PAYMENT ANALYSIS")
	fmt.Fprintf(buf, "%-16s %14s %8s %16s %16s\n", "Scenario", "Payment", "Months", "Interest", "Total Paid")
	fmt.Fprintln(buf, strings.Repeat("-", 74))
	for _, s := range []domain.PaymentScenario{r.Minimum, r.Accelerated} {
		fmt.Fprintf(buf, "%-16s %14s %8d %16s %16s\n", truncate(s.Label, 16),
			FormatCurrency(s.MonthlyPayment), s.PayoffMonths, FormatCurrency(s.TotalInterest), FormatCurrency(s.TotalPaid))
	}

	writeSection(buf, "SAVINGS")
	fmt.Fprintf(buf, "Extra Payment:        %s/month\n", FormatCurrency(r.ExtraPayment))
	fmt.Fprintf(buf, "Interest Saved:       %s\n", FormatCurrency(r.InterestSavings))
	fmt.Fprintf(buf, "Months Saved:         %d\n", r.TimeSavingsMonths)
	fmt.Fprintf(buf, "Total Saved:          %s\n", FormatCurrency(r.TotalSavings))
	if r.Recommendation != "" {
		fmt.Fprintf(buf, "• %s\n", r.Recommendation)
	}
}

func writeWaterfall(buf *bytes.Buffer, w *domain.WaterfallSchedule) {
	writeTitle(buf, fmt.Sprintf("PAYMENT WATERFALL (%s)", w.Strategy))
	fmt.Fprintf(buf, "Monthly Budget:       %s\n", FormatCurrency(w.MonthlyBudget))
	fmt.Fprintf(buf, "Debt-Free In:         %d months\n", w.PayoffMonths)
	fmt.Fprintf(buf, "Total Interest:       %s\n", FormatCurrency(w.TotalInterest))

	writeSection(buf, "PAYOFF MILESTONES")
	for i, id := range w.Order {
		fmt.Fprintf(buf, "%d. %-24s month %d\n", i+1, id, w.LoanPayoff[id])
	}

	writeSection(buf, "SCHEDULE")
	fmt.Fprintf(buf, "%-6s %12s %12s", "Month", "Interest", "Paid")
	for _, id := range w.Order {
		fmt.Fprintf(buf, " %14s", truncate(id, 14))
	}
	fmt.Fprintln(buf)
	for _, m := range w.Months {
		fmt.Fprintf(buf, "%-6d %12s %12s", m.Month, FormatCurrency(m.Interest), FormatCurrency(m.Paid))
		for _, id := range w.Order {
			fmt.Fprintf(buf, " %14s", FormatCurrency(m.Balances[id]))
		}
		fmt.Fprintln(buf)
	}
}

func writeProjection(buf *bytes.Buffer, p *domain.ProjectionResult) {
	writeTitle(buf, "RETIREMENT PROJECTION")
	fmt.Fprintf(buf, "Years to Retirement:  %d\n", p.YearsToRetirement)
	fmt.Fprintf(buf, "Years in Retirement:  %d\n", p.RetirementYears)
	fmt.Fprintf(buf, "Readiness:            %s\n", readinessText(p.Readiness))

	writeSection(buf, "BALANCE AT RETIREMENT")
	fmt.Fprintf(buf, "Employer Plan:        %s\n", FormatCurrency(p.Breakdown.EmployerPlanBalance))
	fmt.Fprintf(buf, "Individual:           %s\n", FormatCurrency(p.Breakdown.IndividualBalance))
	fmt.Fprintf(buf, "Other:                %s\n", FormatCurrency(p.Breakdown.OtherBalance))
	fmt.Fprintf(buf, "Total:                %s\n", FormatCurrency(p.ProjectedBalance))
	fmt.Fprintf(buf, "Employer Match:       %s (%s/month)\n",
		FormatCurrency(p.Breakdown.TotalEmployerMatch), FormatCurrency(p.Breakdown.MonthlyEmployerMatch))

	writeSection(buf, "RETIREMENT INCOME")
	fmt.Fprintf(buf, "Withdrawal Rate:      %s\n", FormatPercentage(p.Breakdown.WithdrawalRate))
	fmt.Fprintf(buf, "Fixed Income:         %s/month\n", FormatCurrency(p.Breakdown.FixedMonthlyIncome))
	fmt.Fprintf(buf, "Monthly Income:       %s\n", FormatCurrency(p.MonthlyIncome))
	fmt.Fprintf(buf, "Required Income:      %s\n", FormatCurrency(p.RequiredMonthlyIncome))
	fmt.Fprintf(buf, "Replacement Ratio:    %s\n", FormatPercentage(p.ReplacementRatio))
	if p.IncomeShortfall.IsPositive() {
		fmt.Fprintf(buf, "Shortfall:            %s\n", badStyle.Render(FormatCurrency(p.IncomeShortfall)+"/month"))
		fmt.Fprintf(buf, "Recommended Savings:  %s/month\n", FormatCurrency(p.RecommendedMonthlySavings))
	}
}

func writeYearly(buf *bytes.Buffer, rows []domain.YearlyProjectionRow) {
	writeTitle(buf, "YEAR-BY-YEAR PROJECTION")
	fmt.Fprintf(buf, "%-5s %4s %15s %15s %15s %15s\n", "Year", "Age", "Employer Plan", "Individual", "Other", "Total")
	fmt.Fprintln(buf, strings.Repeat("-", ruleWidth))
	for _, r := range rows {
		fmt.Fprintf(buf, "%-5d %4d %15s %15s %15s %15s\n", r.Year, r.Age,
			FormatCurrency(r.EmployerPlanBalance), FormatCurrency(r.IndividualBalance),
			FormatCurrency(r.OtherBalance), FormatCurrency(r.TotalBalance))
	}
}

func writeSimulation(buf *bytes.Buffer, s *domain.SimulationResult) {
	writeTitle(buf, "MONTE CARLO SIMULATION")
	fmt.Fprintf(buf, "Trials:               %d (seed %d)\n", s.Trials, s.Seed)
	fmt.Fprintf(buf, "Volatility:           %s\n", FormatPercentage(s.Volatility))
	fmt.Fprintf(buf, "Target Income:        %s/month\n", FormatCurrency(s.TargetMonthlyIncome))

	rate := FormatPercentage(s.SuccessRate)
	switch {
	case s.SuccessRate.GreaterThanOrEqual(successGood):
		rate = goodStyle.Render(rate)
	case s.SuccessRate.GreaterThanOrEqual(successFair):
		rate = warnStyle.Render(rate)
	default:
		rate = badStyle.Render(rate)
	}
	fmt.Fprintf(buf, "Success Rate:         %s\n", rate)

	writeSection(buf, "ENDING BALANCE")
	fmt.Fprintf(buf, "Mean:                 %s\n", FormatCurrency(s.BalanceStats.Mean))
	fmt.Fprintf(buf, "Std Dev:              %s\n", FormatCurrency(s.BalanceStats.StdDev))
	fmt.Fprintf(buf, "Range:                %s to %s\n", FormatCurrency(s.BalanceStats.Min), FormatCurrency(s.BalanceStats.Max))
	for _, p := range s.Percentiles {
		fmt.Fprintf(buf, "P%-3d                  %s\n", p.Percentile, FormatCurrency(p.Value))
	}

	writeSection(buf, "RISK")
	fmt.Fprintf(buf, "Value at Risk (P5):   %s\n", FormatCurrency(s.Risk.ValueAtRisk))
	fmt.Fprintf(buf, "Shortfall Chance:     %s\n", FormatPercentage(s.Risk.ShortfallProbability))
	fmt.Fprintf(buf, "Average Shortfall:    %s/month\n", FormatCurrency(s.Risk.AverageShortfall))

	writeRecommendations(buf, s.Recommendations)
}

func writeSensitivity(buf *bytes.Buffer, r *domain.SensitivityReport) {
	writeTitle(buf, "SENSITIVITY ANALYSIS")
	fmt.Fprintf(buf, "Base Balance:         %s\n", FormatCurrency(r.BaseBalance))
	fmt.Fprintf(buf, "Most Sensitive:       %s\n", warnStyle.Render(string(r.MostSensitiveVariable)))

	for _, v := range r.Variables {
		writeSection(buf, strings.ToUpper(strings.ReplaceAll(string(v.Variable), "_", " ")))
		for _, p := range v.Points {
			change := FormatPercentage(p.RelativeChange)
			if p.RelativeChange.IsPositive() {
				change = "+" + change
			}
			fmt.Fprintf(buf, "%10s %18s %12s\n", FormatPercentage(p.Value), FormatCurrency(p.FinalBalance), change)
		}
		fmt.Fprintf(buf, "%s\n", mutedStyle.Render("spread "+FormatPercentage(v.Spread)))
	}
}

func writeGoals(buf *bytes.Buffer, m *domain.PrioritizationMatrix) {
	writeTitle(buf, "GOAL PRIORITIZATION")
	fmt.Fprintf(buf, "%-4s %-24s %-16s %5s %5s %5s %5s %7s  %s\n",
		"#", "Goal", "Category", "Urg", "Imp", "Feas", "Cost", "Score", "Priority")
	fmt.Fprintln(buf, strings.Repeat("-", ruleWidth))
	for i, g := range m.Goals {
		fmt.Fprintf(buf, "%-4d %-24s %-16s %5d %5d %5d %5d %7s  %s\n",
			i+1, truncate(loanName(g.ID, g.Name), 24), g.Category,
			g.UrgencyScore, g.ImpactScore, g.FeasibilityScore, g.CostScore,
			g.TotalScore.StringFixed(1), priorityText(g.Priority))
	}

	writeSection(buf, "TRADE-OFFS")
	fmt.Fprintf(buf, "Total Goal Amounts:   %s\n", FormatCurrency(m.TradeOffs.TotalFundingNeeded))
	fmt.Fprintf(buf, "Monthly Capacity:     %s/month\n", FormatCurrency(m.TradeOffs.TotalMonthlyCapacity))
	for _, c := range m.TradeOffs.Conflicts {
		fmt.Fprintf(buf, "⚠ %s\n", c)
	}

	writeRecommendations(buf, m.Recommendations)
}

func writeRecommendations(buf *bytes.Buffer, recs []string) {
	if len(recs) == 0 {
		return
	}
	writeSection(buf, "RECOMMENDATIONS")
	for _, r := range recs {
		fmt.Fprintf(buf, "• %s\n", r)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
