package calculation

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer re-runs the projection with one input perturbed at a
// time and ranks inputs by their effect on the projected balance.
type SensitivityAnalyzer struct {
	projector *GrowthProjector
	Options   domain.SensitivityOptions
	Logger    Logger
}

// NewSensitivityAnalyzer creates an analyzer sweeping the given candidates.
func NewSensitivityAnalyzer(projector *GrowthProjector, opts domain.SensitivityOptions) *SensitivityAnalyzer {
	if projector == nil {
		projector = NewGrowthProjector(domain.DefaultWithdrawalPolicy())
	}
	return &SensitivityAnalyzer{projector: projector, Options: opts, Logger: NopLogger{}}
}

// WithVariable returns a copy of p with one variable overridden. The
// contribution rate sets the employer-plan contribution to that fraction of
// monthly income.
func WithVariable(p domain.RetirementProfile, v domain.SensitivityVariable, value decimal.Decimal) (domain.RetirementProfile, error) {
	modified := p
	switch v {
	case domain.VariableReturnRate:
		modified.ExpectedReturn = value
	case domain.VariableContributionRate:
		modified.EmployerPlanContribution = RoundMoney(p.AnnualIncome.DivRound(twelve, workingScale).Mul(value))
	case domain.VariableInflationRate:
		modified.InflationRate = value
	default:
		return p, domain.NewValidationError("variable", "unknown sensitivity variable %q", v)
	}
	return modified, nil
}

// Analyze sweeps every tracked variable over its candidate list.
func (sa *SensitivityAnalyzer) Analyze(p domain.RetirementProfile) (*domain.SensitivityReport, error) {
	base, err := sa.projector.ProjectPlan(p)
	if err != nil {
		return nil, fmt.Errorf("failed to project base plan: %w", err)
	}

	report := &domain.SensitivityReport{
		BaseBalance: base.ProjectedBalance,
		Variables:   make([]domain.VariableSensitivity, 0, len(domain.SensitivityVariables)),
	}
	bestSpread := decimal.Zero

	for _, v := range domain.SensitivityVariables {
		vs := domain.VariableSensitivity{Variable: v, Spread: decimal.Zero}
		var lo, hi decimal.Decimal

		for i, value := range sa.Options.Candidates(v) {
			modified, err := WithVariable(p, v, value)
			if err != nil {
				return nil, err
			}
			projection, err := sa.projector.ProjectPlan(modified)
			if err != nil {
				return nil, fmt.Errorf("failed to project %s=%s: %w", v, value.String(), err)
			}

			change := RelativeChange(base.ProjectedBalance, projection.ProjectedBalance)
			vs.Points = append(vs.Points, domain.SensitivityPoint{
				Value:          value,
				FinalBalance:   projection.ProjectedBalance,
				RelativeChange: change,
			})
			if i == 0 {
				lo, hi = change, change
			} else {
				lo = decimal.Min(lo, change)
				hi = decimal.Max(hi, change)
			}
		}

		if len(vs.Points) > 0 {
			vs.Spread = hi.Sub(lo)
		}
		if vs.Spread.GreaterThan(bestSpread) {
			bestSpread = vs.Spread
			report.MostSensitiveVariable = v
		}
		report.Variables = append(report.Variables, vs)
	}

	sa.Logger.Debugf("sensitivity: most sensitive variable %q (spread %s)", report.MostSensitiveVariable, bestSpread.String())
	return report, nil
}

// RelativeChange is (scenario − base)/base to four places, or zero when the
// base is zero.
func RelativeChange(base, scenario decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return scenario.Sub(base).DivRound(base, 4)
}
