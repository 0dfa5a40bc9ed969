package transform

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// PostponeRetirement delays retirement by a number of years.
// This is useful for exploring "work one more year" scenarios.
type PostponeRetirement struct {
	Years int // Number of years to postpone (non-negative)
}

func (pt *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (pt *PostponeRetirement) Description() string {
	return fmt.Sprintf("Postpone retirement by %d years", pt.Years)
}

func (pt *PostponeRetirement) Validate(base domain.RetirementProfile) error {
	if pt.Years < 0 {
		return NewTransformError(pt.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", pt.Years), nil)
	}

	if base.RetirementAge+pt.Years > base.LifeExpectancy {
		return NewTransformError(pt.Name(), "validate",
			fmt.Sprintf("retirement age %d would exceed life expectancy %d", base.RetirementAge+pt.Years, base.LifeExpectancy), nil)
	}

	return nil
}

func (pt *PostponeRetirement) Apply(base domain.RetirementProfile) (domain.RetirementProfile, error) {
	modified := base
	modified.RetirementAge += pt.Years
	return modified, nil
}

// SetRetirementAge sets the retirement age to an absolute value.
// Unlike PostponeRetirement which is relative, this sets an exact age.
type SetRetirementAge struct {
	Age int
}

func (sra *SetRetirementAge) Name() string {
	return "set_retirement_age"
}

func (sra *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at age %d", sra.Age)
}

func (sra *SetRetirementAge) Validate(base domain.RetirementProfile) error {
	if sra.Age < base.CurrentAge {
		return NewTransformError(sra.Name(), "validate",
			fmt.Sprintf("age %d is before current age %d", sra.Age, base.CurrentAge), nil)
	}

	if sra.Age > base.LifeExpectancy {
		return NewTransformError(sra.Name(), "validate",
			fmt.Sprintf("age %d is after life expectancy %d", sra.Age, base.LifeExpectancy), nil)
	}

	return nil
}

func (sra *SetRetirementAge) Apply(base domain.RetirementProfile) (domain.RetirementProfile, error) {
	modified := base
	modified.RetirementAge = sra.Age
	return modified, nil
}
