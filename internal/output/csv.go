package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/finplan/internal/breakeven"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVFormatter writes one table per result. Money is fixed to two places
// and rates stay fractions so the output reloads without parsing symbols.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(v any) ([]byte, error) {
	if cs, ok := v.(*compare.ComparisonSet); ok {
		s, err := (&compare.CSVFormatter{}).Format(cs)
		return []byte(s), err
	}

	records, err := c.records(v)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c CSVFormatter) records(v any) ([][]string, error) {
	switch r := v.(type) {
	case *domain.PayoffPlan:
		return payoffPlanRecords(r), nil
	case *domain.StrategyComparison:
		return [][]string{
			{"Strategy", "PayoffMonths", "TotalInterest", "Recommended"},
			strategyRow(r.Avalanche, r.RecommendedStrategy),
			strategyRow(r.Snowball, r.RecommendedStrategy),
		}, nil
	case *domain.ConsolidationReport:
		return [][]string{
			{"Option", "Amount", "MonthlyPayment", "PayoffMonths", "TotalInterest"},
			{"current", money2(r.TotalCurrentDebt), money2(r.TotalCurrentMinimumPayments), itoa(r.CurrentPayoffMonths), money2(r.CurrentTotalInterest)},
			{"consolidated", money2(r.ConsolidatedLoanAmount), money2(r.ConsolidatedMonthlyPayment), itoa(r.ConsolidatedPayoffMonths), money2(r.ConsolidatedTotalInterest)},
		}, nil
	case *domain.PaymentComparison:
		return [][]string{
			{"Scenario", "MonthlyPayment", "PayoffMonths", "TotalInterest", "TotalPaid"},
			paymentRow(r.Minimum),
			paymentRow(r.Accelerated),
		}, nil
	case *domain.WaterfallSchedule:
		return waterfallRecords(r), nil
	case *domain.ProjectionResult:
		return projectionRecords(r), nil
	case []domain.YearlyProjectionRow:
		return yearlyRecords(r), nil
	case *domain.SimulationResult:
		return simulationRecords(r), nil
	case *domain.SensitivityReport:
		return sensitivityRecords(r), nil
	case *domain.PrioritizationMatrix:
		return goalRecords(r.Goals), nil
	case []domain.ScoredGoal:
		return goalRecords(r), nil
	case *breakeven.OptimizationResult:
		return solverRecords(r), nil
	case *breakeven.MultiDimensionalResult:
		records := [][]string{{"Metric", "Value"}}
		for i := range r.Results {
			records = append(records, solverRecords(&r.Results[i])[1:]...)
		}
		return records, nil
	}
	return nil, &UnsupportedTypeError{Format: "csv", Value: v}
}

func money2(d decimal.Decimal) string { return d.StringFixed(2) }
func frac4(d decimal.Decimal) string  { return d.StringFixed(4) }
func itoa(i int) string               { return strconv.Itoa(i) }

func payoffPlanRecords(p *domain.PayoffPlan) [][]string {
	records := [][]string{{"Order", "Loan", "Balance", "InterestRate", "MinimumPayment", "AssignedPayment", "PayoffMonths", "TotalInterest"}}
	for _, e := range p.Entries {
		name := e.Name
		if name == "" {
			name = e.LoanID
		}
		records = append(records, []string{
			itoa(e.PayoffOrder), name, money2(e.Balance), frac4(e.InterestRate),
			money2(e.MinimumPayment), money2(e.AssignedPayment), itoa(e.PayoffMonths), money2(e.TotalInterest),
		})
	}
	return records
}

func strategyRow(p *domain.PayoffPlan, recommended domain.PayoffStrategy) []string {
	return []string{string(p.Strategy), itoa(p.PayoffMonths), money2(p.TotalInterest), strconv.FormatBool(p.Strategy == recommended)}
}

func paymentRow(s domain.PaymentScenario) []string {
	return []string{s.Label, money2(s.MonthlyPayment), itoa(s.PayoffMonths), money2(s.TotalInterest), money2(s.TotalPaid)}
}

func waterfallRecords(w *domain.WaterfallSchedule) [][]string {
	header := []string{"Month", "Interest", "Paid"}
	header = append(header, w.Order...)
	records := [][]string{header}
	for _, m := range w.Months {
		row := []string{itoa(m.Month), money2(m.Interest), money2(m.Paid)}
		for _, id := range w.Order {
			row = append(row, money2(m.Balances[id]))
		}
		records = append(records, row)
	}
	return records
}

func projectionRecords(p *domain.ProjectionResult) [][]string {
	return [][]string{
		{"Metric", "Value"},
		{"YearsToRetirement", itoa(p.YearsToRetirement)},
		{"RetirementYears", itoa(p.RetirementYears)},
		{"ProjectedBalance", money2(p.ProjectedBalance)},
		{"EmployerPlanBalance", money2(p.Breakdown.EmployerPlanBalance)},
		{"IndividualBalance", money2(p.Breakdown.IndividualBalance)},
		{"OtherBalance", money2(p.Breakdown.OtherBalance)},
		{"MonthlyIncome", money2(p.MonthlyIncome)},
		{"RequiredMonthlyIncome", money2(p.RequiredMonthlyIncome)},
		{"IncomeShortfall", money2(p.IncomeShortfall)},
		{"ReplacementRatio", frac4(p.ReplacementRatio)},
		{"WithdrawalRate", frac4(p.Breakdown.WithdrawalRate)},
		{"Readiness", string(p.Readiness)},
		{"RecommendedMonthlySavings", money2(p.RecommendedMonthlySavings)},
	}
}

func yearlyRecords(rows []domain.YearlyProjectionRow) [][]string {
	records := [][]string{{"Year", "Age", "EmployerPlan", "Individual", "Other", "Total", "AnnualContributions", "AnnualEmployerMatch"}}
	for _, r := range rows {
		records = append(records, []string{
			itoa(r.Year), itoa(r.Age), money2(r.EmployerPlanBalance), money2(r.IndividualBalance),
			money2(r.OtherBalance), money2(r.TotalBalance), money2(r.AnnualContributions), money2(r.AnnualEmployerMatch),
		})
	}
	return records
}

func simulationRecords(s *domain.SimulationResult) [][]string {
	records := [][]string{
		{"Metric", "Value"},
		{"Trials", itoa(s.Trials)},
		{"Seed", strconv.FormatInt(s.Seed, 10)},
		{"Volatility", frac4(s.Volatility)},
		{"TargetMonthlyIncome", money2(s.TargetMonthlyIncome)},
		{"SuccessRate", frac4(s.SuccessRate)},
		{"MeanBalance", money2(s.BalanceStats.Mean)},
		{"StdDevBalance", money2(s.BalanceStats.StdDev)},
		{"MinBalance", money2(s.BalanceStats.Min)},
		{"MaxBalance", money2(s.BalanceStats.Max)},
		{"MeanMonthlyIncome", money2(s.IncomeStats.Mean)},
	}
	for _, p := range s.Percentiles {
		records = append(records, []string{"P" + itoa(p.Percentile), money2(p.Value)})
	}
	return append(records,
		[]string{"ValueAtRisk", money2(s.Risk.ValueAtRisk)},
		[]string{"ShortfallProbability", frac4(s.Risk.ShortfallProbability)},
		[]string{"AverageShortfall", money2(s.Risk.AverageShortfall)},
	)
}

func sensitivityRecords(r *domain.SensitivityReport) [][]string {
	records := [][]string{{"Variable", "Value", "FinalBalance", "RelativeChange"}}
	for _, v := range r.Variables {
		for _, p := range v.Points {
			records = append(records, []string{string(v.Variable), frac4(p.Value), money2(p.FinalBalance), frac4(p.RelativeChange)})
		}
	}
	return records
}

func goalRecords(goals []domain.ScoredGoal) [][]string {
	records := [][]string{{"Rank", "Goal", "Category", "Urgency", "Impact", "Feasibility", "Cost", "TotalScore", "Priority"}}
	for i, g := range goals {
		name := g.Name
		if name == "" {
			name = g.ID
		}
		records = append(records, []string{
			itoa(i + 1), name, string(g.Category), itoa(g.UrgencyScore), itoa(g.ImpactScore),
			itoa(g.FeasibilityScore), itoa(g.CostScore), g.TotalScore.StringFixed(1), string(g.Priority),
		})
	}
	return records
}

func solverRecords(r *breakeven.OptimizationResult) [][]string {
	target := string(r.Request.Target)
	records := [][]string{
		{"Metric", "Value"},
		{target + ".success", strconv.FormatBool(r.Success)},
		{target + ".iterations", itoa(r.Iterations)},
	}
	if r.OptimalContribution != nil {
		records = append(records, []string{target + ".optimal_contribution", money2(*r.OptimalContribution)})
	}
	if r.OptimalRetirementAge != nil {
		records = append(records, []string{target + ".optimal_retirement_age", itoa(*r.OptimalRetirementAge)})
	}
	if r.OptimalExtraPayment != nil {
		records = append(records,
			[]string{target + ".optimal_extra_payment", money2(*r.OptimalExtraPayment)},
			[]string{target + ".payoff_months", itoa(r.PayoffMonths)},
			[]string{target + ".total_interest", money2(r.TotalInterest)},
		)
	}
	if r.Projection != nil {
		records = append(records,
			[]string{target + ".projected_balance", money2(r.Projection.ProjectedBalance)},
			[]string{target + ".monthly_income", money2(r.Projection.MonthlyIncome)},
			[]string{target + ".readiness", string(r.Projection.Readiness)},
		)
	}
	return records
}
