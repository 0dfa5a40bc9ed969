package calculation

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// GrowthProjector computes deterministic retirement projections.
type GrowthProjector struct {
	Withdrawal domain.WithdrawalPolicy
	Logger     Logger
}

// NewGrowthProjector creates a projector using the given withdrawal policy.
func NewGrowthProjector(policy domain.WithdrawalPolicy) *GrowthProjector {
	return &GrowthProjector{Withdrawal: policy, Logger: NopLogger{}}
}

// ProjectBucket returns the value of startingBalance plus a monthly
// contribution stream after the given number of years, compounded monthly.
func (gp *GrowthProjector) ProjectBucket(startingBalance, monthlyContribution, annualReturn decimal.Decimal, years int) decimal.Decimal {
	months := years * 12
	if months <= 0 {
		return startingBalance
	}
	n := decimal.NewFromInt(int64(months))
	r := MonthlyRate(annualReturn)
	if r.IsZero() {
		return startingBalance.Add(monthlyContribution.Mul(n))
	}
	lump := FutureValueLumpSum(startingBalance, r, months)
	annuity := FutureValueAnnuity(monthlyContribution, r, months)
	return RoundMoney(lump.Add(annuity))
}

// StepMonth advances a balance by one month: growth at monthlyRate, then the
// contribution at month end.
func StepMonth(balance, monthlyRate, contribution decimal.Decimal) decimal.Decimal {
	return balance.Mul(one.Add(monthlyRate)).Add(contribution).Round(workingScale)
}

// EmployerMatch is min(contribution, income/12 × matchLimit) × matchRate.
func EmployerMatch(p domain.RetirementProfile) decimal.Decimal {
	eligible := p.AnnualIncome.DivRound(twelve, workingScale).Mul(p.EmployerMatchLimit)
	return RoundMoney(decimal.Min(p.EmployerPlanContribution, eligible).Mul(p.EmployerMatchRate))
}

// InflationAdjustedIncome is the current annual income grown by inflation
// to the retirement date.
func InflationAdjustedIncome(p domain.RetirementProfile) decimal.Decimal {
	return RoundMoney(p.AnnualIncome.Mul(GrowthFactor(p.InflationRate, p.YearsToRetirement())))
}

// RequiredMonthlyIncome is the inflation-adjusted monthly income needed at
// retirement to meet the replacement ratio.
func RequiredMonthlyIncome(p domain.RetirementProfile) decimal.Decimal {
	return RoundMoney(InflationAdjustedIncome(p).Mul(p.ReplacementRatio).DivRound(twelve, workingScale))
}

// MonthlyContributions returns each bucket's monthly inflow, the employer
// match included in the employer plan.
func MonthlyContributions(p domain.RetirementProfile) (employerPlan, individual, other decimal.Decimal) {
	return p.EmployerPlanContribution.Add(EmployerMatch(p)), p.IndividualContribution, p.OtherContribution
}

func (gp *GrowthProjector) bucketsAt(p domain.RetirementProfile, years int) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	empContrib, indContrib, otherContrib := MonthlyContributions(p)
	return gp.ProjectBucket(p.EmployerPlanBalance, empContrib, p.ExpectedReturn, years),
		gp.ProjectBucket(p.IndividualBalance, indContrib, p.ExpectedReturn, years),
		gp.ProjectBucket(p.OtherBalance, otherContrib, p.ExpectedReturn, years)
}

// ProjectPlan projects every bucket to the retirement age and compares the
// sustainable income with the inflation-adjusted requirement.
func (gp *GrowthProjector) ProjectPlan(p domain.RetirementProfile) (*domain.ProjectionResult, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retirement profile: %w", err)
	}

	years := p.YearsToRetirement()
	emp, ind, other := gp.bucketsAt(p, years)
	total := emp.Add(ind).Add(other)

	withdrawalRate := gp.Withdrawal.RateFor(p.RetirementYears())
	monthlyIncome := RoundMoney(total.Mul(withdrawalRate).DivRound(twelve, workingScale).Add(p.FixedMonthlyIncome))
	inflationAdjusted := InflationAdjustedIncome(p)
	required := RequiredMonthlyIncome(p)
	shortfall := decimal.Max(decimal.Zero, required.Sub(monthlyIncome))

	replacement := decimal.Zero
	if inflationAdjusted.IsPositive() {
		replacement = monthlyIncome.Mul(twelve).DivRound(inflationAdjusted, 4)
	}

	match := EmployerMatch(p)
	result := &domain.ProjectionResult{
		YearsToRetirement:     years,
		RetirementYears:       p.RetirementYears(),
		ProjectedBalance:      total,
		MonthlyIncome:         monthlyIncome,
		RequiredMonthlyIncome: required,
		IncomeShortfall:       shortfall,
		ReplacementRatio:      replacement,
		Readiness:             ClassifyReadiness(monthlyIncome, required),
		Breakdown: domain.ProjectionBreakdown{
			EmployerPlanBalance:     emp,
			IndividualBalance:       ind,
			OtherBalance:            other,
			MonthlyEmployerMatch:    match,
			TotalEmployerMatch:      match.Mul(decimal.NewFromInt(int64(years * 12))),
			FixedMonthlyIncome:      p.FixedMonthlyIncome,
			InflationAdjustedIncome: inflationAdjusted,
			WithdrawalRate:          withdrawalRate,
		},
		RecommendedMonthlySavings: gp.RecommendedMonthlySavings(shortfall, withdrawalRate, p.ExpectedReturn, years),
		YearlyProjections:         gp.yearlyRows(p),
	}

	gp.Logger.Debugf("projection: balance %s, income %s/mo, required %s/mo, %s",
		total.StringFixed(2), monthlyIncome.StringFixed(2), required.StringFixed(2), result.Readiness)
	return result, nil
}

// ClassifyReadiness compares projected and required monthly income:
// ON_TRACK at or above 100%, NEEDS_IMPROVEMENT at or above 80%, else BEHIND.
func ClassifyReadiness(monthlyIncome, required decimal.Decimal) domain.Readiness {
	switch {
	case monthlyIncome.GreaterThanOrEqual(required):
		return domain.ReadinessOnTrack
	case monthlyIncome.GreaterThanOrEqual(required.Mul(decimal.NewFromFloat(0.8))):
		return domain.ReadinessNeedsImprovement
	default:
		return domain.ReadinessBehind
	}
}

// RecommendedMonthlySavings is the level monthly saving that accumulates,
// by the retirement date, the lump sum whose withdrawals cover the monthly
// shortfall.
func (gp *GrowthProjector) RecommendedMonthlySavings(shortfall, withdrawalRate, annualReturn decimal.Decimal, years int) decimal.Decimal {
	if !shortfall.IsPositive() || years <= 0 || !withdrawalRate.IsPositive() {
		return decimal.Zero
	}
	lumpSum := shortfall.Mul(twelve).DivRound(withdrawalRate, workingScale)
	return RoundMoney(AnnuityPayment(lumpSum, MonthlyRate(annualReturn), years*12))
}

// YearlyProjections returns one row per year from now (year 0) through the
// retirement year.
func (gp *GrowthProjector) YearlyProjections(p domain.RetirementProfile) ([]domain.YearlyProjectionRow, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retirement profile: %w", err)
	}
	return gp.yearlyRows(p), nil
}

func (gp *GrowthProjector) yearlyRows(p domain.RetirementProfile) []domain.YearlyProjectionRow {
	years := p.YearsToRetirement()
	match := EmployerMatch(p)
	annualContributions := p.EmployerPlanContribution.Add(p.IndividualContribution).Add(p.OtherContribution).Mul(twelve)
	annualMatch := match.Mul(twelve)

	rows := make([]domain.YearlyProjectionRow, 0, years+1)
	for y := 0; y <= years; y++ {
		emp, ind, other := gp.bucketsAt(p, y)
		rows = append(rows, domain.YearlyProjectionRow{
			Year:                y,
			Age:                 p.CurrentAge + y,
			EmployerPlanBalance: emp,
			IndividualBalance:   ind,
			OtherBalance:        other,
			TotalBalance:        emp.Add(ind).Add(other),
			AnnualContributions: annualContributions,
			AnnualEmployerMatch: annualMatch,
		})
	}
	return rows
}
