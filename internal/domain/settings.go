package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultMaxMonths is the amortization ceiling (50 years).
const DefaultMaxMonths = 600

// AmortizationOptions bounds the month-by-month payoff loop.
type AmortizationOptions struct {
	MaxMonths int `yaml:"max_months" json:"maxMonths"`
}

// DefaultAmortizationOptions returns the 600-month ceiling.
func DefaultAmortizationOptions() AmortizationOptions {
	return AmortizationOptions{MaxMonths: DefaultMaxMonths}
}

// WithdrawalPolicy converts a retirement balance into sustainable income.
type WithdrawalPolicy struct {
	BaseRate         decimal.Decimal `yaml:"base_rate" json:"baseRate"`
	LongHorizonRate  decimal.Decimal `yaml:"long_horizon_rate" json:"longHorizonRate"`
	LongHorizonYears int             `yaml:"long_horizon_years" json:"longHorizonYears"`
}

// DefaultWithdrawalPolicy is the 4% rule, reduced to 3.5% for retirements
// longer than 30 years.
func DefaultWithdrawalPolicy() WithdrawalPolicy {
	return WithdrawalPolicy{
		BaseRate:         decimal.NewFromFloat(0.04),
		LongHorizonRate:  decimal.NewFromFloat(0.035),
		LongHorizonYears: 30,
	}
}

// RateFor returns the withdrawal rate for a retirement of the given length.
func (w WithdrawalPolicy) RateFor(retirementYears int) decimal.Decimal {
	if retirementYears > w.LongHorizonYears {
		return w.LongHorizonRate
	}
	return w.BaseRate
}

// MonteCarloSettings are the file-configurable simulation parameters.
type MonteCarloSettings struct {
	Trials     int              `yaml:"trials" json:"trials"`
	Volatility *decimal.Decimal `yaml:"volatility,omitempty" json:"volatility,omitempty"`
	Seed       *int64           `yaml:"seed,omitempty" json:"seed,omitempty"`
	Workers    int              `yaml:"workers" json:"workers"`
}

// DefaultVolatility is the annual return standard deviation.
var DefaultVolatility = decimal.NewFromFloat(0.15)

// SensitivityOptions holds the candidate values swept for each variable.
type SensitivityOptions struct {
	ReturnRates       []decimal.Decimal `yaml:"return_rate" json:"returnRate"`
	ContributionRates []decimal.Decimal `yaml:"contribution_rate" json:"contributionRate"`
	InflationRates    []decimal.Decimal `yaml:"inflation_rate" json:"inflationRate"`
}

// DefaultSensitivityOptions returns the standard candidate lists.
func DefaultSensitivityOptions() SensitivityOptions {
	return SensitivityOptions{
		ReturnRates:       fractions("0.04", "0.06", "0.08", "0.10"),
		ContributionRates: fractions("0.05", "0.10", "0.15", "0.20"),
		InflationRates:    fractions("0.02", "0.025", "0.03", "0.035"),
	}
}

// Candidates returns the values swept for v.
func (o SensitivityOptions) Candidates(v SensitivityVariable) []decimal.Decimal {
	switch v {
	case VariableReturnRate:
		return o.ReturnRates
	case VariableContributionRate:
		return o.ContributionRates
	case VariableInflationRate:
		return o.InflationRates
	}
	return nil
}

// RecommendationThresholds drive the debt strategy and payment
// recommendations.
type RecommendationThresholds struct {
	InterestSavings             decimal.Decimal `yaml:"interest_savings" json:"interestSavings"`
	PayoffMonthTolerance        *int            `yaml:"payoff_month_tolerance,omitempty" json:"payoffMonthTolerance,omitempty"`
	SnowballMinDebts            int             `yaml:"snowball_min_debts" json:"snowballMinDebts"` // snowball when more debts than this
	AccelerateHighlyRecommended decimal.Decimal `yaml:"accelerate_highly_recommended" json:"accelerateHighlyRecommended"`
}

const defaultPayoffMonthTolerance = 3

// DefaultRecommendationThresholds returns $1,000 / 3 months / 3 debts / $500.
func DefaultRecommendationThresholds() RecommendationThresholds {
	tolerance := defaultPayoffMonthTolerance
	return RecommendationThresholds{
		InterestSavings:             decimal.NewFromInt(1000),
		PayoffMonthTolerance:        &tolerance,
		SnowballMinDebts:            3,
		AccelerateHighlyRecommended: decimal.NewFromInt(500),
	}
}

// MonthTolerance returns the payoff month tolerance, or the default when
// none is set. Zero is a valid explicit tolerance.
func (t RecommendationThresholds) MonthTolerance() int {
	if t.PayoffMonthTolerance == nil {
		return defaultPayoffMonthTolerance
	}
	return *t.PayoffMonthTolerance
}

// GoalWeights weight the four goal sub-scores. They should sum to 1.
type GoalWeights struct {
	Urgency     decimal.Decimal `yaml:"urgency" json:"urgency"`
	Impact      decimal.Decimal `yaml:"impact" json:"impact"`
	Feasibility decimal.Decimal `yaml:"feasibility" json:"feasibility"`
	Cost        decimal.Decimal `yaml:"cost" json:"cost"`
}

// GoalCutoffs are the minimum total scores of each tier.
type GoalCutoffs struct {
	High   decimal.Decimal `yaml:"high" json:"high"`
	Medium decimal.Decimal `yaml:"medium" json:"medium"`
	Low    decimal.Decimal `yaml:"low" json:"low"`
}

// GoalScoringOptions configures goal prioritization.
type GoalScoringOptions struct {
	Weights               GoalWeights `yaml:"weights" json:"weights"`
	Cutoffs               GoalCutoffs `yaml:"cutoffs" json:"cutoffs"`
	DefaultTimelineMonths int         `yaml:"default_timeline_months" json:"defaultTimelineMonths"`
}

// DefaultGoalScoringOptions returns weights 0.30/0.30/0.25/0.15 and
// cutoffs 80/60/40.
func DefaultGoalScoringOptions() GoalScoringOptions {
	return GoalScoringOptions{
		Weights: GoalWeights{
			Urgency:     decimal.NewFromFloat(0.30),
			Impact:      decimal.NewFromFloat(0.30),
			Feasibility: decimal.NewFromFloat(0.25),
			Cost:        decimal.NewFromFloat(0.15),
		},
		Cutoffs: GoalCutoffs{
			High:   decimal.NewFromInt(80),
			Medium: decimal.NewFromInt(60),
			Low:    decimal.NewFromInt(40),
		},
		DefaultTimelineMonths: 60,
	}
}

// Settings groups every engine option that can be set from an input file.
// Zero values mean "use the default".
type Settings struct {
	Amortization       AmortizationOptions      `yaml:"amortization" json:"amortization"`
	Withdrawal         WithdrawalPolicy         `yaml:"withdrawal" json:"withdrawal"`
	MonteCarlo         MonteCarloSettings       `yaml:"monte_carlo" json:"monteCarlo"`
	Sensitivity        SensitivityOptions       `yaml:"sensitivity" json:"sensitivity"`
	DebtRecommendation RecommendationThresholds `yaml:"debt_recommendation" json:"debtRecommendation"`
	GoalScoring        GoalScoringOptions       `yaml:"goal_scoring" json:"goalScoring"`
}

// WithDefaults returns a copy of s with unset fields filled in.
func (s Settings) WithDefaults() Settings {
	out := s

	if out.Amortization.MaxMonths <= 0 {
		out.Amortization = DefaultAmortizationOptions()
	}

	dw := DefaultWithdrawalPolicy()
	if out.Withdrawal.BaseRate.IsZero() {
		out.Withdrawal.BaseRate = dw.BaseRate
	}
	if out.Withdrawal.LongHorizonRate.IsZero() {
		out.Withdrawal.LongHorizonRate = dw.LongHorizonRate
	}
	if out.Withdrawal.LongHorizonYears <= 0 {
		out.Withdrawal.LongHorizonYears = dw.LongHorizonYears
	}

	if out.MonteCarlo.Trials <= 0 {
		out.MonteCarlo.Trials = 1000
	}
	if out.MonteCarlo.Volatility == nil {
		v := DefaultVolatility
		out.MonteCarlo.Volatility = &v
	}

	ds := DefaultSensitivityOptions()
	if len(out.Sensitivity.ReturnRates) == 0 {
		out.Sensitivity.ReturnRates = ds.ReturnRates
	}
	if len(out.Sensitivity.ContributionRates) == 0 {
		out.Sensitivity.ContributionRates = ds.ContributionRates
	}
	if len(out.Sensitivity.InflationRates) == 0 {
		out.Sensitivity.InflationRates = ds.InflationRates
	}

	dt := DefaultRecommendationThresholds()
	if out.DebtRecommendation.InterestSavings.IsZero() {
		out.DebtRecommendation.InterestSavings = dt.InterestSavings
	}
	if out.DebtRecommendation.PayoffMonthTolerance == nil {
		out.DebtRecommendation.PayoffMonthTolerance = dt.PayoffMonthTolerance
	}
	if out.DebtRecommendation.SnowballMinDebts <= 0 {
		out.DebtRecommendation.SnowballMinDebts = dt.SnowballMinDebts
	}
	if out.DebtRecommendation.AccelerateHighlyRecommended.IsZero() {
		out.DebtRecommendation.AccelerateHighlyRecommended = dt.AccelerateHighlyRecommended
	}

	dg := DefaultGoalScoringOptions()
	w := out.GoalScoring.Weights
	if w.Urgency.IsZero() && w.Impact.IsZero() && w.Feasibility.IsZero() && w.Cost.IsZero() {
		out.GoalScoring.Weights = dg.Weights
	}
	c := out.GoalScoring.Cutoffs
	if c.High.IsZero() && c.Medium.IsZero() && c.Low.IsZero() {
		out.GoalScoring.Cutoffs = dg.Cutoffs
	}
	if out.GoalScoring.DefaultTimelineMonths <= 0 {
		out.GoalScoring.DefaultTimelineMonths = dg.DefaultTimelineMonths
	}
	return out
}

func fractions(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}
