package transform

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Contribution buckets addressed by SetMonthlyContribution.
const (
	BucketEmployerPlan = "employer_plan"
	BucketIndividual   = "individual"
	BucketOther        = "other"
)

var maxContributionRate = decimal.NewFromFloat(0.50)

// SetContributionRate sets the employer-plan contribution to a fraction of
// monthly income.
type SetContributionRate struct {
	Rate decimal.Decimal
}

func (sc *SetContributionRate) Name() string {
	return "set_contribution_rate"
}

func (sc *SetContributionRate) Description() string {
	return fmt.Sprintf("Contribute %s%% of income to the employer plan", percent(sc.Rate))
}

func (sc *SetContributionRate) Validate(base domain.RetirementProfile) error {
	if sc.Rate.IsNegative() || sc.Rate.GreaterThan(maxContributionRate) {
		return NewTransformError(sc.Name(), "validate",
			fmt.Sprintf("contribution rate must be between 0 and %s, got %s", maxContributionRate, sc.Rate), nil)
	}
	if !base.AnnualIncome.IsPositive() {
		return NewTransformError(sc.Name(), "validate", "profile has no annual income", nil)
	}
	return nil
}

func (sc *SetContributionRate) Apply(base domain.RetirementProfile) (domain.RetirementProfile, error) {
	modified := base
	monthlyIncome := base.AnnualIncome.DivRound(decimal.NewFromInt(12), 16)
	modified.EmployerPlanContribution = monthlyIncome.Mul(sc.Rate).Round(2)
	return modified, nil
}

// SetMonthlyContribution sets one bucket's monthly contribution in dollars.
type SetMonthlyContribution struct {
	Bucket string // employer_plan, individual or other
	Amount decimal.Decimal
}

func (sm *SetMonthlyContribution) Name() string {
	return "set_contribution"
}

func (sm *SetMonthlyContribution) Description() string {
	return fmt.Sprintf("Contribute $%s/month to %s", sm.Amount.StringFixed(2), sm.Bucket)
}

func (sm *SetMonthlyContribution) Validate(domain.RetirementProfile) error {
	switch sm.Bucket {
	case BucketEmployerPlan, BucketIndividual, BucketOther:
	default:
		return NewTransformError(sm.Name(), "validate", fmt.Sprintf("unknown bucket %q", sm.Bucket), nil)
	}
	if sm.Amount.IsNegative() {
		return NewTransformError(sm.Name(), "validate",
			fmt.Sprintf("amount must be non-negative, got %s", sm.Amount.StringFixed(2)), nil)
	}
	return nil
}

func (sm *SetMonthlyContribution) Apply(base domain.RetirementProfile) (domain.RetirementProfile, error) {
	modified := base
	switch sm.Bucket {
	case BucketEmployerPlan:
		modified.EmployerPlanContribution = sm.Amount
	case BucketIndividual:
		modified.IndividualContribution = sm.Amount
	case BucketOther:
		modified.OtherContribution = sm.Amount
	default:
		return base, NewTransformError(sm.Name(), "apply", fmt.Sprintf("unknown bucket %q", sm.Bucket), nil)
	}
	return modified, nil
}

// SetFixedIncome sets the guaranteed monthly income in retirement (pension,
// social insurance benefit).
type SetFixedIncome struct {
	Amount decimal.Decimal
}

func (sf *SetFixedIncome) Name() string {
	return "set_fixed_income"
}

func (sf *SetFixedIncome) Description() string {
	return fmt.Sprintf("Set fixed retirement income to $%s/month", sf.Amount.StringFixed(2))
}

func (sf *SetFixedIncome) Validate(domain.RetirementProfile) error {
	if sf.Amount.IsNegative() {
		return NewTransformError(sf.Name(), "validate",
			fmt.Sprintf("amount must be non-negative, got %s", sf.Amount.StringFixed(2)), nil)
	}
	return nil
}

func (sf *SetFixedIncome) Apply(base domain.RetirementProfile) (domain.RetirementProfile, error) {
	modified := base
	modified.FixedMonthlyIncome = sf.Amount
	return modified, nil
}
