package transform

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	maxReturnRate    = decimal.NewFromFloat(0.30)
	minReturnRate    = decimal.NewFromFloat(-0.50)
	maxInflationRate = decimal.NewFromFloat(0.20)
)

// SetReturnRate changes the expected annual return assumption.
type SetReturnRate struct {
	Rate decimal.Decimal // e.g., 0.06 for 6%
}

func (sr *SetReturnRate) Name() string {
	return "set_return"
}

func (sr *SetReturnRate) Description() string {
	return fmt.Sprintf("Change expected return to %s%%", percent(sr.Rate))
}

func (sr *SetReturnRate) Validate(domain.RetirementProfile) error {
	if sr.Rate.LessThan(minReturnRate) || sr.Rate.GreaterThan(maxReturnRate) {
		return NewTransformError(sr.Name(), "validate",
			fmt.Sprintf("return rate must be between %s and %s, got %s", minReturnRate, maxReturnRate, sr.Rate), nil)
	}
	return nil
}

func (sr *SetReturnRate) Apply(base domain.RetirementProfile) (domain.RetirementProfile, error) {
	modified := base
	modified.ExpectedReturn = sr.Rate
	return modified, nil
}

// SetInflationRate changes the general inflation rate assumption. This
// moves the required retirement income, not the projected balance.
type SetInflationRate struct {
	Rate decimal.Decimal
}

func (si *SetInflationRate) Name() string {
	return "set_inflation"
}

func (si *SetInflationRate) Description() string {
	return fmt.Sprintf("Change inflation rate to %s%%", percent(si.Rate))
}

func (si *SetInflationRate) Validate(domain.RetirementProfile) error {
	if si.Rate.IsNegative() || si.Rate.GreaterThan(maxInflationRate) {
		return NewTransformError(si.Name(), "validate",
			fmt.Sprintf("inflation rate must be between 0 and %s, got %s", maxInflationRate, si.Rate), nil)
	}
	return nil
}

func (si *SetInflationRate) Apply(base domain.RetirementProfile) (domain.RetirementProfile, error) {
	modified := base
	modified.InflationRate = si.Rate
	return modified, nil
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(1)
}
