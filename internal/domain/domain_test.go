package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() RetirementProfile {
	return RetirementProfile{
		CurrentAge:               40,
		RetirementAge:            65,
		LifeExpectancy:           90,
		AnnualIncome:             decimal.NewFromInt(80000),
		ReplacementRatio:         decimal.NewFromFloat(0.8),
		EmployerPlanBalance:      decimal.NewFromInt(50000),
		EmployerPlanContribution: decimal.NewFromInt(500),
		EmployerMatchRate:        decimal.NewFromFloat(0.5),
		EmployerMatchLimit:       decimal.NewFromFloat(0.06),
		ExpectedReturn:           decimal.NewFromFloat(0.07),
		InflationRate:            decimal.NewFromFloat(0.03),
	}
}

func TestRetirementProfile_Horizons(t *testing.T) {
	p := sampleProfile()
	assert.Equal(t, 25, p.YearsToRetirement())
	assert.Equal(t, 25, p.RetirementYears())
}

func TestRetirementProfile_CopyIsIndependent(t *testing.T) {
	base := sampleProfile()
	modified := base
	modified.ExpectedReturn = decimal.NewFromFloat(0.10)
	modified.RetirementAge = 67

	assert.True(t, base.ExpectedReturn.Equal(decimal.NewFromFloat(0.07)))
	assert.Equal(t, 65, base.RetirementAge)
}

func TestRetirementProfile_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RetirementProfile)
		field  string
	}{
		{"valid", func(*RetirementProfile) {}, ""},
		{"zero current age", func(p *RetirementProfile) { p.CurrentAge = 0 }, "current_age"},
		{"retire before now", func(p *RetirementProfile) { p.RetirementAge = 30 }, "retirement_age"},
		{"die before retiring", func(p *RetirementProfile) { p.LifeExpectancy = 60 }, "life_expectancy"},
		{"negative balance", func(p *RetirementProfile) { p.OtherBalance = decimal.NewFromInt(-1) }, "other_balance"},
		{"percentage return", func(p *RetirementProfile) { p.ExpectedReturn = decimal.NewFromInt(7) }, "expected_return"},
		{"match limit over one", func(p *RetirementProfile) { p.EmployerMatchLimit = decimal.NewFromInt(6) }, "employer_match_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProfile()
			tt.mutate(&p)
			err := p.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoanAccount_Validate(t *testing.T) {
	loan := LoanAccount{
		ID:             "card",
		Balance:        decimal.NewFromInt(5000),
		InterestRate:   decimal.NewFromFloat(0.18),
		MinimumPayment: decimal.NewFromInt(150),
	}
	assert.NoError(t, loan.Validate())
	assert.Equal(t, "card", loan.Label())

	loan.Name = "Visa"
	assert.Equal(t, "Visa", loan.Label())

	loan.MinimumPayment = decimal.Zero
	var ve *ValidationError
	assert.ErrorAs(t, loan.Validate(), &ve)

	loan.MinimumPayment = decimal.NewFromInt(150)
	loan.InterestRate = decimal.NewFromInt(18)
	assert.ErrorAs(t, loan.Validate(), &ve)
	assert.Equal(t, "interest_rate", ve.Field)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("avalanche")
	require.NoError(t, err)
	assert.Equal(t, StrategyAvalanche, s)

	s, err = ParseStrategy(" Snowball ")
	require.NoError(t, err)
	assert.Equal(t, StrategySnowball, s)

	_, err = ParseStrategy("random")
	assert.Error(t, err)
}

func TestWithdrawalPolicy_RateFor(t *testing.T) {
	w := DefaultWithdrawalPolicy()
	assert.True(t, w.RateFor(25).Equal(decimal.NewFromFloat(0.04)))
	assert.True(t, w.RateFor(30).Equal(decimal.NewFromFloat(0.04)))
	assert.True(t, w.RateFor(31).Equal(decimal.NewFromFloat(0.035)))
}

func TestSettings_WithDefaults(t *testing.T) {
	s := Settings{}.WithDefaults()

	assert.Equal(t, 600, s.Amortization.MaxMonths)
	assert.Equal(t, 1000, s.MonteCarlo.Trials)
	require.NotNil(t, s.MonteCarlo.Volatility)
	assert.True(t, s.MonteCarlo.Volatility.Equal(decimal.NewFromFloat(0.15)))
	assert.Len(t, s.Sensitivity.Candidates(VariableReturnRate), 4)
	require.NotNil(t, s.DebtRecommendation.PayoffMonthTolerance)
	assert.Equal(t, 3, *s.DebtRecommendation.PayoffMonthTolerance)
	assert.Equal(t, 60, s.GoalScoring.DefaultTimelineMonths)
	assert.True(t, s.GoalScoring.Weights.Urgency.Equal(decimal.NewFromFloat(0.3)))
}

func TestSettings_WithDefaultsKeepsExplicitValues(t *testing.T) {
	zero := decimal.Zero
	noTolerance := 0
	s := Settings{
		Amortization:       AmortizationOptions{MaxMonths: 120},
		MonteCarlo:         MonteCarloSettings{Trials: 50, Volatility: &zero},
		Sensitivity:        SensitivityOptions{ReturnRates: []decimal.Decimal{decimal.NewFromFloat(0.05)}},
		DebtRecommendation: RecommendationThresholds{PayoffMonthTolerance: &noTolerance},
	}.WithDefaults()

	assert.Equal(t, 120, s.Amortization.MaxMonths)
	assert.Equal(t, 50, s.MonteCarlo.Trials)
	assert.True(t, s.MonteCarlo.Volatility.IsZero(), "explicit zero volatility must survive")
	assert.Len(t, s.Sensitivity.ReturnRates, 1)
	assert.Len(t, s.Sensitivity.InflationRates, 4)
	assert.Equal(t, 0, s.DebtRecommendation.MonthTolerance(), "explicit zero tolerance must survive")
}

func TestRecommendationThresholds_MonthTolerance(t *testing.T) {
	assert.Equal(t, 3, RecommendationThresholds{}.MonthTolerance())
	assert.Equal(t, 3, DefaultRecommendationThresholds().MonthTolerance())
}

func TestSimulationResult_Percentile(t *testing.T) {
	r := &SimulationResult{Percentiles: []PercentilePoint{
		{Percentile: 5, Value: decimal.NewFromInt(10)},
		{Percentile: 50, Value: decimal.NewFromInt(20)},
	}}
	v, ok := r.Percentile(50)
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(20)))

	_, ok = r.Percentile(99)
	assert.False(t, ok)
}

func TestConfiguration_ActiveLoans(t *testing.T) {
	c := &Configuration{Loans: []LoanAccount{
		{ID: "a", Balance: decimal.NewFromInt(100), MinimumPayment: decimal.NewFromInt(10)},
		{ID: "b", Balance: decimal.Zero, MinimumPayment: decimal.NewFromInt(10)},
	}}
	active := c.ActiveLoans()
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)
}

func TestErrorMessages(t *testing.T) {
	err := &PaymentTooLowError{
		Payment:  decimal.NewFromInt(50),
		Interest: decimal.NewFromInt(75),
		Balance:  decimal.NewFromInt(5000),
	}
	assert.Contains(t, err.Error(), "50.00")
	assert.Contains(t, err.Error(), "75.00")

	h := &PayoffHorizonExceededError{MaxMonths: 600, RemainingBalance: decimal.NewFromInt(12)}
	assert.Contains(t, h.Error(), "600")

	e := &EmptyInputError{Operation: "optimize", What: "active loans"}
	assert.Equal(t, "optimize: no active loans provided", e.Error())
}
