package calculation

import (
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProjector() *GrowthProjector {
	return NewGrowthProjector(domain.DefaultWithdrawalPolicy())
}

func TestProjectBucket_Identities(t *testing.T) {
	gp := testProjector()

	t.Run("zero years is identity", func(t *testing.T) {
		for _, p := range []string{"0", "1234.567", "50000"} {
			got := gp.ProjectBucket(d(p), d("500"), d("0.07"), 0)
			assert.True(t, got.Equal(d(p)), "got %s want %s", got, p)
		}
	})

	t.Run("nothing grows to nothing", func(t *testing.T) {
		for _, years := range []int{1, 10, 40} {
			assert.True(t, gp.ProjectBucket(decimal.Zero, decimal.Zero, d("0.07"), years).IsZero())
		}
	})

	t.Run("zero return is a simple sum", func(t *testing.T) {
		got := gp.ProjectBucket(d("10000"), d("250"), decimal.Zero, 5)
		assert.True(t, got.Equal(d("25000")), "10000 + 250*60, got %s", got)
	})
}

func TestProjectBucket_Deterministic(t *testing.T) {
	gp := testProjector()

	first := gp.ProjectBucket(decimal.Zero, d("500"), d("0.07"), 25)
	for i := 0; i < 5; i++ {
		again := gp.ProjectBucket(decimal.Zero, d("500"), d("0.07"), 25)
		assert.Equal(t, first.String(), again.String())
	}
	assert.InDelta(t, 405036, first.InexactFloat64(), 500)
}

func TestEmployerMatch(t *testing.T) {
	p := domain.RetirementProfile{
		AnnualIncome:             d("80000"),
		EmployerPlanContribution: d("500"),
		EmployerMatchRate:        d("0.5"),
		EmployerMatchLimit:       d("0.06"),
	}
	assert.True(t, EmployerMatch(p).Equal(d("200")), "limited by 6%% of income")

	p.EmployerPlanContribution = d("300")
	assert.True(t, EmployerMatch(p).Equal(d("150")), "limited by the contribution")
}

func flatProfile(balance string) domain.RetirementProfile {
	return domain.RetirementProfile{
		CurrentAge:       55,
		RetirementAge:    65,
		LifeExpectancy:   85,
		AnnualIncome:     d("60000"),
		ReplacementRatio: d("0.8"),
		OtherBalance:     d(balance),
	}
}

func TestProjectPlan_Readiness(t *testing.T) {
	gp := testProjector()

	tests := []struct {
		name        string
		balance     string
		readiness   domain.Readiness
		income      string
		shortfall   string
		recommended string
	}{
		{"on track", "1200000", domain.ReadinessOnTrack, "4000", "0", "0"},
		{"needs improvement", "1000000", domain.ReadinessNeedsImprovement, "3333.33", "666.67", "1666.68"},
		{"behind", "500000", domain.ReadinessBehind, "1666.67", "2333.33", "5833.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := gp.ProjectPlan(flatProfile(tt.balance))
			require.NoError(t, err)

			assert.Equal(t, tt.readiness, result.Readiness)
			assert.True(t, result.RequiredMonthlyIncome.Equal(d("4000")))
			assert.True(t, result.MonthlyIncome.Equal(d(tt.income)), "income %s", result.MonthlyIncome)
			assert.True(t, result.IncomeShortfall.Equal(d(tt.shortfall)), "shortfall %s", result.IncomeShortfall)
			assert.True(t, result.RecommendedMonthlySavings.Equal(d(tt.recommended)), "recommended %s", result.RecommendedMonthlySavings)
		})
	}
}

func TestProjectPlan_BehindWithNegativeReturn(t *testing.T) {
	p := flatProfile("500000")
	p.ExpectedReturn = d("-0.01")

	result, err := testProjector().ProjectPlan(p)
	require.NoError(t, err)

	assert.Equal(t, domain.ReadinessBehind, result.Readiness)
	assert.True(t, result.IncomeShortfall.IsPositive())
	assert.True(t, result.RecommendedMonthlySavings.IsPositive(), "recommended %s", result.RecommendedMonthlySavings)
}

func TestProjectPlan_FixedIncomeAndReplacementRatio(t *testing.T) {
	p := flatProfile("600000")
	p.FixedMonthlyIncome = d("2000")

	result, err := testProjector().ProjectPlan(p)
	require.NoError(t, err)
	assert.True(t, result.MonthlyIncome.Equal(d("4000")))
	assert.Equal(t, domain.ReadinessOnTrack, result.Readiness)
	assert.True(t, result.ReplacementRatio.Equal(d("0.8")))
}

func TestProjectPlan_WithdrawalRate(t *testing.T) {
	p := flatProfile("1000000")
	result, err := testProjector().ProjectPlan(p)
	require.NoError(t, err)
	assert.True(t, result.Breakdown.WithdrawalRate.Equal(d("0.04")))

	p.LifeExpectancy = 100
	result, err = testProjector().ProjectPlan(p)
	require.NoError(t, err)
	assert.Equal(t, 35, result.RetirementYears)
	assert.True(t, result.Breakdown.WithdrawalRate.Equal(d("0.035")))
	assert.True(t, result.MonthlyIncome.Equal(d("2916.67")))
}

func TestProjectPlan_InflationAdjustedRequirement(t *testing.T) {
	p := flatProfile("0")
	p.InflationRate = d("0.03")

	result, err := testProjector().ProjectPlan(p)
	require.NoError(t, err)
	assert.True(t, result.Breakdown.InflationAdjustedIncome.Equal(d("80634.98")), "got %s", result.Breakdown.InflationAdjustedIncome)
	assert.True(t, result.RequiredMonthlyIncome.Equal(d("5375.67")), "got %s", result.RequiredMonthlyIncome)
	assert.Equal(t, domain.ReadinessBehind, result.Readiness)
}

func TestProjectPlan_EmployerMatchInBucket(t *testing.T) {
	p := domain.RetirementProfile{
		CurrentAge:               40,
		RetirementAge:            65,
		LifeExpectancy:           90,
		AnnualIncome:             d("80000"),
		ReplacementRatio:         d("0.8"),
		EmployerPlanBalance:      d("50000"),
		EmployerPlanContribution: d("500"),
		IndividualContribution:   d("100"),
		EmployerMatchRate:        d("0.5"),
		EmployerMatchLimit:       d("0.06"),
	}

	result, err := testProjector().ProjectPlan(p)
	require.NoError(t, err)
	assert.True(t, result.Breakdown.EmployerPlanBalance.Equal(d("260000")), "got %s", result.Breakdown.EmployerPlanBalance)
	assert.True(t, result.Breakdown.IndividualBalance.Equal(d("30000")))
	assert.True(t, result.Breakdown.MonthlyEmployerMatch.Equal(d("200")))
	assert.True(t, result.Breakdown.TotalEmployerMatch.Equal(d("60000")))
	assert.True(t, result.ProjectedBalance.Equal(d("290000")))

	rows := result.YearlyProjections
	require.Len(t, rows, 26)
	assert.Equal(t, 0, rows[0].Year)
	assert.Equal(t, 40, rows[0].Age)
	assert.True(t, rows[0].TotalBalance.Equal(d("50000")))
	assert.True(t, rows[1].EmployerPlanBalance.Equal(d("58400")))
	assert.True(t, rows[1].AnnualContributions.Equal(d("7200")))
	assert.True(t, rows[1].AnnualEmployerMatch.Equal(d("2400")))
	assert.Equal(t, 65, rows[25].Age)
	assert.True(t, rows[25].TotalBalance.Equal(result.ProjectedBalance))
}

func TestYearlyProjections(t *testing.T) {
	p := domain.RetirementProfile{
		CurrentAge:               30,
		RetirementAge:            60,
		LifeExpectancy:           90,
		AnnualIncome:             d("70000"),
		ReplacementRatio:         d("0.75"),
		EmployerPlanBalance:      d("20000"),
		IndividualBalance:        d("5000"),
		EmployerPlanContribution: d("400"),
		IndividualContribution:   d("200"),
		EmployerMatchRate:        d("1"),
		EmployerMatchLimit:       d("0.03"),
		ExpectedReturn:           d("0.06"),
		InflationRate:            d("0.025"),
	}
	gp := testProjector()

	rows, err := gp.YearlyProjections(p)
	require.NoError(t, err)
	require.Len(t, rows, 31)
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].TotalBalance.GreaterThan(rows[i-1].TotalBalance), "year %d should grow", i)
		assert.Equal(t, rows[i-1].Age+1, rows[i].Age)
	}

	again, err := gp.YearlyProjections(p)
	require.NoError(t, err)
	assert.Equal(t, rows, again)

	result, err := gp.ProjectPlan(p)
	require.NoError(t, err)
	assert.True(t, rows[30].TotalBalance.Equal(result.ProjectedBalance))
}

func TestProjectPlan_InvalidProfile(t *testing.T) {
	p := flatProfile("1000")
	p.RetirementAge = 50

	_, err := testProjector().ProjectPlan(p)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "retirement_age", ve.Field)

	_, err = testProjector().YearlyProjections(p)
	assert.ErrorAs(t, err, &ve)
}

func TestProjectPlan_AlreadyRetired(t *testing.T) {
	p := flatProfile("1200000")
	p.CurrentAge = 65

	result, err := testProjector().ProjectPlan(p)
	require.NoError(t, err)
	assert.Equal(t, 0, result.YearsToRetirement)
	assert.Len(t, result.YearlyProjections, 1)
	assert.True(t, result.RecommendedMonthlySavings.IsZero())
}

func TestClassifyReadiness(t *testing.T) {
	assert.Equal(t, domain.ReadinessOnTrack, ClassifyReadiness(d("100"), decimal.Zero))
	assert.Equal(t, domain.ReadinessOnTrack, ClassifyReadiness(d("100"), d("100")))
	assert.Equal(t, domain.ReadinessNeedsImprovement, ClassifyReadiness(d("80"), d("100")))
	assert.Equal(t, domain.ReadinessBehind, ClassifyReadiness(d("79.99"), d("100")))
}
