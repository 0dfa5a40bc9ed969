package calculation

import (
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptimizer() *DebtOptimizer {
	return NewDebtOptimizer(NewAmortizationEngine(domain.DefaultAmortizationOptions()), domain.DefaultRecommendationThresholds())
}

func exampleLoans() []domain.LoanAccount {
	return []domain.LoanAccount{
		{ID: "car", Name: "Car loan", Balance: d("15000"), InterestRate: d("0.12"), MinimumPayment: d("300")},
		{ID: "card", Name: "Credit card", Balance: d("5000"), InterestRate: d("0.18"), MinimumPayment: d("150")},
	}
}

// Two loans whose avalanche and snowball orders differ.
func divergentLoans() []domain.LoanAccount {
	return []domain.LoanAccount{
		{ID: "small", Balance: d("2000"), InterestRate: d("0.10"), MinimumPayment: d("50")},
		{ID: "big", Balance: d("8000"), InterestRate: d("0.22"), MinimumPayment: d("200")},
	}
}

func TestOptimize_AvalancheAssignsExtraToHighestRate(t *testing.T) {
	plan, err := testOptimizer().Optimize(exampleLoans(), d("200"), domain.StrategyAvalanche)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	first := plan.Entries[0]
	assert.Equal(t, "card", first.LoanID)
	assert.Equal(t, 1, first.PayoffOrder)
	assert.True(t, first.AssignedPayment.Equal(d("350")))

	second := plan.Entries[1]
	assert.Equal(t, "car", second.LoanID)
	assert.True(t, second.AssignedPayment.Equal(d("300")), "other loans get only their minimum")

	assert.True(t, plan.TotalDebt.Equal(d("20000")))
	assert.True(t, plan.TotalMinimumPayments.Equal(d("450")))
	assert.True(t, plan.TotalInterest.Equal(first.TotalInterest.Add(second.TotalInterest)))
}

func TestOptimize_AvalanchePermutationInvariant(t *testing.T) {
	loans := []domain.LoanAccount{
		{ID: "a", Balance: d("1000"), InterestRate: d("0.05"), MinimumPayment: d("50")},
		{ID: "b", Balance: d("3000"), InterestRate: d("0.24"), MinimumPayment: d("90")},
		{ID: "c", Balance: d("2000"), InterestRate: d("0.15"), MinimumPayment: d("60")},
		{ID: "d", Balance: d("4000"), InterestRate: d("0.15"), MinimumPayment: d("100")},
	}
	permutations := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}}

	for _, perm := range permutations {
		input := make([]domain.LoanAccount, len(loans))
		for i, idx := range perm {
			input[i] = loans[idx]
		}
		plan, err := testOptimizer().Optimize(input, d("100"), domain.StrategyAvalanche)
		require.NoError(t, err)

		ids := make([]string, len(plan.Entries))
		for i, e := range plan.Entries {
			ids[i] = e.LoanID
		}
		assert.Equal(t, []string{"b", "d", "c", "a"}, ids, "rate desc, ties by balance desc")
		assert.True(t, plan.Entries[0].AssignedPayment.Equal(d("190")))
	}
}

func TestOrderLoans_Snowball(t *testing.T) {
	loans := []domain.LoanAccount{
		{ID: "x", Balance: d("3000"), InterestRate: d("0.10")},
		{ID: "y", Balance: d("1000"), InterestRate: d("0.05")},
		{ID: "z", Balance: d("1000"), InterestRate: d("0.20")},
	}
	ordered := OrderLoans(loans, domain.StrategySnowball)
	assert.Equal(t, "z", ordered[0].ID, "balance ties broken by rate desc")
	assert.Equal(t, "y", ordered[1].ID)
	assert.Equal(t, "x", ordered[2].ID)
	assert.Equal(t, "x", loans[0].ID, "input must not be reordered")
}

func TestOptimize_SnowballAssignsExtraToSmallestBalance(t *testing.T) {
	plan, err := testOptimizer().Optimize(divergentLoans(), d("100"), domain.StrategySnowball)
	require.NoError(t, err)
	assert.Equal(t, "small", plan.Entries[0].LoanID)
	assert.True(t, plan.Entries[0].AssignedPayment.Equal(d("150")))
}

// The plan's payoff time is the running maximum of independent payoff times,
// not a month-indexed waterfall. This locks in that approximation.
func TestOptimize_PayoffMonthsIsRunningMaximum(t *testing.T) {
	opt := testOptimizer()
	plan, err := opt.Optimize(exampleLoans(), d("200"), domain.StrategyAvalanche)
	require.NoError(t, err)

	assert.Equal(t, 17, plan.Entries[0].PayoffMonths)
	assert.Equal(t, 70, plan.Entries[1].PayoffMonths, "the car loan never receives the card's freed payment")
	assert.Equal(t, 70, plan.PayoffMonths)

	waterfall, err := opt.SimulateWaterfall(exampleLoans(), d("200"), domain.StrategyAvalanche)
	require.NoError(t, err)
	assert.Less(t, waterfall.PayoffMonths, plan.PayoffMonths, "a true waterfall pays off sooner")
}

func TestOptimize_Errors(t *testing.T) {
	opt := testOptimizer()

	t.Run("no loans", func(t *testing.T) {
		_, err := opt.Optimize(nil, decimal.Zero, domain.StrategyAvalanche)
		var empty *domain.EmptyInputError
		assert.ErrorAs(t, err, &empty)
	})

	t.Run("only paid-off loans", func(t *testing.T) {
		loans := []domain.LoanAccount{{ID: "done", Balance: decimal.Zero, InterestRate: d("0.1"), MinimumPayment: d("10")}}
		_, err := opt.Optimize(loans, decimal.Zero, domain.StrategyAvalanche)
		var empty *domain.EmptyInputError
		assert.ErrorAs(t, err, &empty)
	})

	t.Run("negative extra", func(t *testing.T) {
		_, err := opt.Optimize(exampleLoans(), d("-1"), domain.StrategyAvalanche)
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := opt.Optimize(exampleLoans(), decimal.Zero, domain.PayoffStrategy("RANDOM"))
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("minimum below interest", func(t *testing.T) {
		loans := []domain.LoanAccount{{ID: "bad", Balance: d("10000"), InterestRate: d("0.24"), MinimumPayment: d("100")}}
		_, err := opt.Optimize(loans, decimal.Zero, domain.StrategyAvalanche)
		var tooLow *domain.PaymentTooLowError
		assert.ErrorAs(t, err, &tooLow)
		assert.Contains(t, err.Error(), "bad")
	})
}

func TestCompareStrategies(t *testing.T) {
	t.Run("identical orders recommend avalanche", func(t *testing.T) {
		cmp, err := testOptimizer().CompareStrategies(exampleLoans(), d("200"))
		require.NoError(t, err)
		assert.True(t, cmp.InterestSavings.IsZero())
		assert.Equal(t, 0, cmp.PayoffMonthsDelta)
		assert.Equal(t, domain.StrategyAvalanche, cmp.RecommendedStrategy)
		assert.Contains(t, cmp.RecommendationReason, "mathematically optimal")
	})

	t.Run("savings are snowball minus avalanche", func(t *testing.T) {
		cmp, err := testOptimizer().CompareStrategies(divergentLoans(), d("100"))
		require.NoError(t, err)
		assert.True(t, cmp.InterestSavings.Equal(cmp.Snowball.TotalInterest.Sub(cmp.Avalanche.TotalInterest)))
		assert.True(t, cmp.InterestSavings.IsPositive(), "avalanche pays less interest here")
	})

	t.Run("snowball for many debts", func(t *testing.T) {
		opt := testOptimizer()
		opt.Thresholds = domain.RecommendationThresholds{
			InterestSavings:      d("1000000"),
			PayoffMonthTolerance: intPtr(-1),
			SnowballMinDebts:     1,
		}
		cmp, err := opt.CompareStrategies(divergentLoans(), d("100"))
		require.NoError(t, err)
		assert.Equal(t, domain.StrategySnowball, cmp.RecommendedStrategy)
		assert.Contains(t, cmp.RecommendationReason, "psychological motivation")
	})

	t.Run("avalanche for few debts", func(t *testing.T) {
		opt := testOptimizer()
		opt.Thresholds = domain.RecommendationThresholds{
			InterestSavings:      d("1000000"),
			PayoffMonthTolerance: intPtr(-1),
			SnowballMinDebts:     3,
		}
		cmp, err := opt.CompareStrategies(divergentLoans(), d("100"))
		require.NoError(t, err)
		assert.Equal(t, domain.StrategyAvalanche, cmp.RecommendedStrategy)
		assert.Contains(t, cmp.RecommendationReason, "minimizes total interest")
	})
}

func TestAnalyzeConsolidation(t *testing.T) {
	opt := testOptimizer()

	t.Run("beneficial at a low rate", func(t *testing.T) {
		report, err := opt.AnalyzeConsolidation(exampleLoans(), d("0.06"))
		require.NoError(t, err)

		assert.True(t, report.TotalCurrentDebt.Equal(d("20000")))
		assert.True(t, report.ConsolidatedMonthlyPayment.Equal(d("450")))
		assert.Equal(t, 70, report.CurrentPayoffMonths)
		assert.Equal(t, 51, report.ConsolidatedPayoffMonths)
		assert.Equal(t, 19, report.TimeSavingsMonths)
		assert.True(t, report.TotalInterestSavings.IsPositive())
		assert.True(t, report.IsConsolidationBeneficial)
		assert.Len(t, report.Benefits, 4)
		assert.Contains(t, report.Benefits, "Pay off debt 19 months earlier")
		assert.Contains(t, report.Benefits, "Simplified payment management (one payment instead of 2)")
		assert.Len(t, report.Considerations, 4)
	})

	t.Run("not beneficial at a high rate", func(t *testing.T) {
		report, err := opt.AnalyzeConsolidation(exampleLoans(), d("0.17"))
		require.NoError(t, err)
		assert.False(t, report.IsConsolidationBeneficial)
		assert.True(t, report.TotalInterestSavings.IsNegative())
		assert.Empty(t, report.Benefits)
		assert.Len(t, report.Considerations, 6)
		assert.Contains(t, report.Recommendation, "may not be beneficial")
	})

	t.Run("consolidated payment too low", func(t *testing.T) {
		_, err := opt.AnalyzeConsolidation(exampleLoans(), d("0.30"))
		var tooLow *domain.PaymentTooLowError
		assert.ErrorAs(t, err, &tooLow)
	})

	t.Run("rate as percentage", func(t *testing.T) {
		_, err := opt.AnalyzeConsolidation(exampleLoans(), d("6"))
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestComparePaymentStrategies(t *testing.T) {
	opt := testOptimizer()

	cmp, err := opt.ComparePaymentStrategies(exampleLoans(), d("200"))
	require.NoError(t, err)
	assert.True(t, cmp.Minimum.MonthlyPayment.Equal(d("450")))
	assert.True(t, cmp.Accelerated.MonthlyPayment.Equal(d("650")))
	assert.Equal(t, 70, cmp.Minimum.PayoffMonths)
	assert.True(t, cmp.InterestSavings.GreaterThan(d("500")))
	assert.True(t, cmp.InterestSavings.Equal(cmp.Minimum.TotalInterest.Sub(cmp.Accelerated.TotalInterest)))
	assert.Contains(t, cmp.Recommendation, "Highly recommended")

	none, err := opt.ComparePaymentStrategies(exampleLoans(), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, none.InterestSavings.IsZero())
	assert.Contains(t, none.Recommendation, "emergency fund")
}

func TestSimulateWaterfall(t *testing.T) {
	opt := testOptimizer()

	schedule, err := opt.SimulateWaterfall(exampleLoans(), d("200"), domain.StrategyAvalanche)
	require.NoError(t, err)

	assert.Equal(t, []string{"card", "car"}, schedule.Order)
	assert.True(t, schedule.MonthlyBudget.Equal(d("650")))
	require.Len(t, schedule.Months, schedule.PayoffMonths)
	assert.Less(t, schedule.LoanPayoff["card"], schedule.LoanPayoff["car"])
	assert.Equal(t, schedule.PayoffMonths, schedule.LoanPayoff["car"])

	last := schedule.Months[len(schedule.Months)-1]
	for id, bal := range last.Balances {
		assert.True(t, bal.IsZero(), "%s should be paid off", id)
	}

	paid := decimal.Zero
	for _, m := range schedule.Months {
		paid = paid.Add(m.Paid)
		assert.True(t, m.Paid.LessThanOrEqual(schedule.MonthlyBudget))
	}
	assert.InDelta(t, 20000+schedule.TotalInterest.InexactFloat64(), paid.InexactFloat64(), 0.05)

	plan, err := opt.Optimize(exampleLoans(), d("200"), domain.StrategyAvalanche)
	require.NoError(t, err)
	assert.True(t, schedule.TotalInterest.LessThan(plan.TotalInterest))
}

func TestSimulateWaterfall_UnknownStrategy(t *testing.T) {
	_, err := testOptimizer().SimulateWaterfall(exampleLoans(), d("200"), domain.PayoffStrategy("RANDOM"))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "strategy", ve.Field)
}

func TestSimulateWaterfall_Horizon(t *testing.T) {
	opt := NewDebtOptimizer(NewAmortizationEngine(domain.AmortizationOptions{MaxMonths: 6}), domain.DefaultRecommendationThresholds())

	_, err := opt.SimulateWaterfall(exampleLoans(), d("200"), domain.StrategySnowball)
	var horizon *domain.PayoffHorizonExceededError
	require.ErrorAs(t, err, &horizon)
	assert.Equal(t, 6, horizon.MaxMonths)
}

func TestSimulateWaterfall_BudgetBelowInterest(t *testing.T) {
	loans := []domain.LoanAccount{{ID: "bad", Balance: d("10000"), InterestRate: d("0.24"), MinimumPayment: d("100")}}
	_, err := testOptimizer().SimulateWaterfall(loans, decimal.Zero, domain.StrategyAvalanche)
	var tooLow *domain.PaymentTooLowError
	assert.ErrorAs(t, err, &tooLow)
}
