package domain

import (
	"github.com/shopspring/decimal"
)

// RetirementProfile describes one saver. It is a value type: copying it
// yields an independent profile, and modified scenarios are built by copying
// and overriding fields, never by mutating the caller's value.
//
// The three buckets are the employer-sponsored plan (pre-tax, receives the
// employer match), the individual account (tax-advantaged) and other savings.
type RetirementProfile struct {
	CurrentAge       int             `yaml:"current_age" json:"currentAge"`
	RetirementAge    int             `yaml:"retirement_age" json:"retirementAge"`
	LifeExpectancy   int             `yaml:"life_expectancy" json:"lifeExpectancy"`
	AnnualIncome     decimal.Decimal `yaml:"annual_income" json:"annualIncome"`
	ReplacementRatio decimal.Decimal `yaml:"replacement_ratio" json:"replacementRatio"`

	EmployerPlanBalance decimal.Decimal `yaml:"employer_plan_balance" json:"employerPlanBalance"`
	IndividualBalance   decimal.Decimal `yaml:"individual_balance" json:"individualBalance"`
	OtherBalance        decimal.Decimal `yaml:"other_balance" json:"otherBalance"`

	EmployerPlanContribution decimal.Decimal `yaml:"employer_plan_contribution" json:"employerPlanContribution"` // monthly
	IndividualContribution   decimal.Decimal `yaml:"individual_contribution" json:"individualContribution"`     // monthly
	OtherContribution        decimal.Decimal `yaml:"other_contribution" json:"otherContribution"`               // monthly

	EmployerMatchRate  decimal.Decimal `yaml:"employer_match_rate" json:"employerMatchRate"`
	EmployerMatchLimit decimal.Decimal `yaml:"employer_match_limit" json:"employerMatchLimit"` // fraction of income

	ExpectedReturn     decimal.Decimal `yaml:"expected_return" json:"expectedReturn"`
	InflationRate      decimal.Decimal `yaml:"inflation_rate" json:"inflationRate"`
	FixedMonthlyIncome decimal.Decimal `yaml:"fixed_monthly_income" json:"fixedMonthlyIncome"` // pension, social security
}

// YearsToRetirement returns the accumulation horizon in whole years.
func (p RetirementProfile) YearsToRetirement() int {
	return p.RetirementAge - p.CurrentAge
}

// RetirementYears returns the expected length of retirement in years.
func (p RetirementProfile) RetirementYears() int {
	return p.LifeExpectancy - p.RetirementAge
}

// Validate checks ages, non-negative money and fractional rates.
func (p RetirementProfile) Validate() error {
	if p.CurrentAge <= 0 {
		return NewValidationError("current_age", "must be positive, got %d", p.CurrentAge)
	}
	if p.RetirementAge < p.CurrentAge {
		return NewValidationError("retirement_age", "%d is before current age %d", p.RetirementAge, p.CurrentAge)
	}
	if p.LifeExpectancy < p.RetirementAge {
		return NewValidationError("life_expectancy", "%d is before retirement age %d", p.LifeExpectancy, p.RetirementAge)
	}

	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"annual_income", p.AnnualIncome},
		{"replacement_ratio", p.ReplacementRatio},
		{"employer_plan_balance", p.EmployerPlanBalance},
		{"individual_balance", p.IndividualBalance},
		{"other_balance", p.OtherBalance},
		{"employer_plan_contribution", p.EmployerPlanContribution},
		{"individual_contribution", p.IndividualContribution},
		{"other_contribution", p.OtherContribution},
		{"employer_match_rate", p.EmployerMatchRate},
		{"employer_match_limit", p.EmployerMatchLimit},
		{"fixed_monthly_income", p.FixedMonthlyIncome},
	}
	for _, f := range nonNegative {
		if f.value.IsNegative() {
			return NewValidationError(f.field, "must not be negative, got %s", f.value.String())
		}
	}

	// Rates are fractions, not percentages.
	one := decimal.NewFromInt(1)
	if p.ExpectedReturn.Abs().GreaterThan(one) {
		return NewValidationError("expected_return", "must be a fraction, got %s", p.ExpectedReturn.String())
	}
	if p.InflationRate.Abs().GreaterThan(one) {
		return NewValidationError("inflation_rate", "must be a fraction, got %s", p.InflationRate.String())
	}
	if p.EmployerMatchLimit.GreaterThan(one) {
		return NewValidationError("employer_match_limit", "must be a fraction of income, got %s", p.EmployerMatchLimit.String())
	}
	return nil
}

// Readiness classifies projected income against the requirement.
type Readiness string

const (
	ReadinessOnTrack          Readiness = "ON_TRACK"
	ReadinessNeedsImprovement Readiness = "NEEDS_IMPROVEMENT"
	ReadinessBehind           Readiness = "BEHIND"
)

// YearlyProjectionRow is one year of the deterministic projection.
type YearlyProjectionRow struct {
	Year                int             `json:"year"`
	Age                 int             `json:"age"`
	EmployerPlanBalance decimal.Decimal `json:"employerPlanBalance"`
	IndividualBalance   decimal.Decimal `json:"individualBalance"`
	OtherBalance        decimal.Decimal `json:"otherBalance"`
	TotalBalance        decimal.Decimal `json:"totalBalance"`
	AnnualContributions decimal.Decimal `json:"annualContributions"`
	AnnualEmployerMatch decimal.Decimal `json:"annualEmployerMatch"`
}

// ProjectionBreakdown details the components of a projection.
type ProjectionBreakdown struct {
	EmployerPlanBalance     decimal.Decimal `json:"employerPlanBalance"`
	IndividualBalance       decimal.Decimal `json:"individualBalance"`
	OtherBalance            decimal.Decimal `json:"otherBalance"`
	MonthlyEmployerMatch    decimal.Decimal `json:"monthlyEmployerMatch"`
	TotalEmployerMatch      decimal.Decimal `json:"totalEmployerMatch"`
	FixedMonthlyIncome      decimal.Decimal `json:"fixedMonthlyIncome"`
	InflationAdjustedIncome decimal.Decimal `json:"inflationAdjustedIncome"`
	WithdrawalRate          decimal.Decimal `json:"withdrawalRate"`
}

// ProjectionResult is the deterministic retirement projection.
type ProjectionResult struct {
	YearsToRetirement         int                   `json:"yearsToRetirement"`
	RetirementYears           int                   `json:"retirementYears"`
	ProjectedBalance          decimal.Decimal       `json:"projectedBalance"`
	MonthlyIncome             decimal.Decimal       `json:"monthlyIncome"`
	RequiredMonthlyIncome     decimal.Decimal       `json:"requiredMonthlyIncome"`
	IncomeShortfall           decimal.Decimal       `json:"incomeShortfall"`
	ReplacementRatio          decimal.Decimal       `json:"replacementRatio"`
	Readiness                 Readiness             `json:"readiness"`
	RecommendedMonthlySavings decimal.Decimal       `json:"recommendedMonthlySavings"`
	Breakdown                 ProjectionBreakdown   `json:"breakdown"`
	YearlyProjections         []YearlyProjectionRow `json:"yearlyProjections"`
}
