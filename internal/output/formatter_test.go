package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/finplan/internal/breakeven"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func samplePlan() *domain.PayoffPlan {
	return &domain.PayoffPlan{
		Strategy:             domain.StrategyAvalanche,
		TotalDebt:            d("15000"),
		TotalMinimumPayments: d("350"),
		ExtraPayment:         d("200"),
		PayoffMonths:         31,
		TotalInterest:        d("2104.37"),
		Entries: []domain.PayoffPlanEntry{
			{LoanID: "card", Name: "Credit Card", Balance: d("5000"), InterestRate: d("0.2"), MinimumPayment: d("150"),
				AssignedPayment: d("350"), PayoffOrder: 1, PayoffMonths: 17, TotalInterest: d("812.4")},
			{LoanID: "auto", Balance: d("10000"), InterestRate: d("0.06"), MinimumPayment: d("200"),
				AssignedPayment: d("200"), PayoffOrder: 2, PayoffMonths: 31, TotalInterest: d("1291.97")},
		},
	}
}

func sampleProjection() *domain.ProjectionResult {
	return &domain.ProjectionResult{
		YearsToRetirement:         25,
		RetirementYears:           25,
		ProjectedBalance:          d("1234567.891"),
		MonthlyIncome:             d("4115.23"),
		RequiredMonthlyIncome:     d("4000"),
		ReplacementRatio:          d("0.8230"),
		Readiness:                 domain.ReadinessOnTrack,
		RecommendedMonthlySavings: decimal.Zero,
		Breakdown: domain.ProjectionBreakdown{
			EmployerPlanBalance: d("1234567.891"),
			WithdrawalRate:      d("0.04"),
		},
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.567", "$1,234.57"},
		{"-1234.56", "-$1,234.56"},
		{"0", "$0.00"},
		{"0.005", "$0.01"},
		{"1000000", "$1,000,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(d(tt.in)), tt.in)
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "6.25%", FormatPercentage(d("0.0625")))
	assert.Equal(t, "100.00%", FormatPercentage(d("1")))
	assert.Equal(t, "19.9%", FormatRate(d("0.199")))
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"", "console", "TABLE", " json ", "csv"} {
		f, err := GetFormatterByName(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, f.Name())
	}

	f, err := GetFormatterByName("json")
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	_, err = GetFormatterByName("html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "console, json, csv")
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(sampleProjection())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(out), "\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "ON_TRACK", decoded["readiness"])
	assert.Equal(t, "0.04", decoded["breakdown"].(map[string]any)["withdrawalRate"])
}

func TestCSVFormatter_PayoffPlan(t *testing.T) {
	out, err := CSVFormatter{}.Format(samplePlan())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Order", records[0][0])
	assert.Equal(t, []string{"1", "Credit Card", "5000.00", "0.2000", "150.00", "350.00", "17", "812.40"}, records[1])
	assert.Equal(t, "auto", records[2][1], "name falls back to the loan id")
}

func TestCSVFormatter_Waterfall(t *testing.T) {
	w := &domain.WaterfallSchedule{
		Strategy: domain.StrategyAvalanche,
		Order:    []string{"card", "auto"},
		Months: []domain.WaterfallMonth{
			{Month: 1, Interest: d("133.33"), Paid: d("550"), Balances: map[string]decimal.Decimal{"card": d("4533.33"), "auto": d("9850")}},
			{Month: 2, Interest: d("125.5"), Paid: d("550"), Balances: map[string]decimal.Decimal{"card": d("4058.89")}},
		},
	}
	out, err := CSVFormatter{}.Format(w)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Month", "Interest", "Paid", "card", "auto"}, records[0])
	assert.Equal(t, []string{"1", "133.33", "550.00", "4533.33", "9850.00"}, records[1])
	assert.Equal(t, "0.00", records[2][4], "missing balances render as zero")
}

func TestCSVFormatter_Projection(t *testing.T) {
	out, err := CSVFormatter{}.Format(sampleProjection())
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "ProjectedBalance,1234567.89\n")
	assert.Contains(t, s, "ReplacementRatio,0.8230\n")
	assert.Contains(t, s, "Readiness,ON_TRACK\n")
}

func TestCSVFormatter_Solver(t *testing.T) {
	value := d("1731.62")
	result := &breakeven.OptimizationResult{
		Request:             breakeven.OptimizationRequest{Target: breakeven.OptimizeContribution},
		Success:             true,
		Iterations:          14,
		OptimalContribution: &value,
		Projection:          sampleProjection(),
	}
	out, err := CSVFormatter{}.Format(result)
	require.NoError(t, err)
	assert.Contains(t, string(out), "monthly_contribution.optimal_contribution,1731.62")
	assert.Contains(t, string(out), "monthly_contribution.readiness,ON_TRACK")
}

func TestConsoleFormatter(t *testing.T) {
	t.Run("payoff plan", func(t *testing.T) {
		out, err := ConsoleFormatter{}.Format(samplePlan())
		require.NoError(t, err)
		s := string(out)
		assert.Contains(t, s, "DEBT PAYOFF PLAN (AVALANCHE)")
		assert.Contains(t, s, "$15,000.00")
		assert.Contains(t, s, "Credit Card")
		assert.Contains(t, s, "20.0%")
	})

	t.Run("projection", func(t *testing.T) {
		out, err := ConsoleFormatter{}.Format(sampleProjection())
		require.NoError(t, err)
		s := string(out)
		assert.Contains(t, s, "RETIREMENT PROJECTION")
		assert.Contains(t, s, "$1,234,567.89")
		assert.Contains(t, s, "ON_TRACK")
		assert.Contains(t, s, "82.30%")
		assert.NotContains(t, s, "Shortfall:", "no shortfall line when income is met")
	})

	t.Run("goals", func(t *testing.T) {
		m := &domain.PrioritizationMatrix{
			Goals: []domain.ScoredGoal{{
				SavingsGoal: domain.SavingsGoal{ID: "ef", Name: "Emergency Fund", Category: domain.CategoryEmergencyFund},
				UrgencyScore: 90, ImpactScore: 80, FeasibilityScore: 70, CostScore: 60,
				TotalScore: d("78.5"), Priority: domain.PriorityHigh,
			}},
			Recommendations: []string{"Fund the emergency reserve first"},
		}
		out, err := ConsoleFormatter{}.Format(m)
		require.NoError(t, err)
		s := string(out)
		assert.Contains(t, s, "Emergency Fund")
		assert.Contains(t, s, "78.5")
		assert.Contains(t, s, "HIGH")
		assert.Contains(t, s, "• Fund the emergency reserve first")
	})
}

func TestFormatters_UnsupportedType(t *testing.T) {
	for _, f := range []Formatter{ConsoleFormatter{}, CSVFormatter{}} {
		_, err := f.Format(struct{}{})
		var ute *UnsupportedTypeError
		require.ErrorAs(t, err, &ute, f.Name())
		assert.Equal(t, f.Name(), ute.Format)
	}
}
