package breakeven

import (
	"errors"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to solve for
type OptimizationTarget string

const (
	OptimizeContribution  OptimizationTarget = "monthly_contribution"
	OptimizeRetirementAge OptimizationTarget = "retirement_age"
	OptimizeExtraPayment  OptimizationTarget = "extra_payment"
	OptimizeAll           OptimizationTarget = "all"
)

// ParseTarget accepts a target name as used on the command line.
func ParseTarget(s string) (OptimizationTarget, error) {
	switch t := OptimizationTarget(s); t {
	case OptimizeContribution, OptimizeRetirementAge, OptimizeExtraPayment, OptimizeAll:
		return t, nil
	}
	return "", &BreakEvenError{
		Operation: "parse_target",
		Message:   "unknown optimization target " + s,
	}
}

// ErrTargetUnreachable is wrapped when no value inside the search bounds
// satisfies the goal.
var ErrTargetUnreachable = errors.New("target not reachable within bounds")

// Constraints define bounds for the solved parameter
type Constraints struct {
	// Monthly employer-plan contribution bounds
	MinContribution *decimal.Decimal `json:"min_contribution,omitempty"`
	MaxContribution *decimal.Decimal `json:"max_contribution,omitempty"`

	// Retirement age bounds, defaulting to current age and life expectancy
	MinRetirementAge *int `json:"min_retirement_age,omitempty"`
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`

	// Extra monthly debt payment ceiling, defaulting to 110% of the total debt
	MaxExtraPayment *decimal.Decimal `json:"max_extra_payment,omitempty"`

	// Months within which the avalanche waterfall must finish
	TargetPayoffMonths int `json:"target_payoff_months,omitempty"`
}

// DefaultConstraints returns sensible default constraints
func DefaultConstraints() Constraints {
	minContribution := decimal.Zero
	maxContribution := decimal.NewFromInt(10000)

	return Constraints{
		MinContribution: &minContribution,
		MaxContribution: &maxContribution,
	}
}

// OptimizationRequest defines the parameters for a solver run
type OptimizationRequest struct {
	Profile       domain.RetirementProfile `json:"-"`
	Loans         []domain.LoanAccount     `json:"-"`
	Target        OptimizationTarget       `json:"target"`
	Constraints   Constraints              `json:"constraints"`
	MaxIterations int                      `json:"max_iterations"`
	Tolerance     decimal.Decimal          `json:"tolerance"` // dollars
}

// OptimizationResult contains the results of a solver run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	// Solved parameters
	OptimalContribution  *decimal.Decimal `json:"optimal_contribution,omitempty"`
	OptimalRetirementAge *int             `json:"optimal_retirement_age,omitempty"`
	OptimalExtraPayment  *decimal.Decimal `json:"optimal_extra_payment,omitempty"`

	// Retirement results at the solved parameter
	Projection     *domain.ProjectionResult `json:"projection,omitempty"`
	BaseProjection *domain.ProjectionResult `json:"base_projection,omitempty"`
	ChangeFromBase decimal.Decimal          `json:"change_from_base"` // dollars or years, per target

	// Debt results at the solved parameter
	PayoffMonths      int             `json:"payoff_months,omitempty"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	BasePayoffMonths  int             `json:"base_payoff_months,omitempty"` // 0 when minimums never pay off
	BaseTotalInterest decimal.Decimal `json:"base_total_interest"`
}

// MultiDimensionalResult contains results when solving every target
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	Failures        map[string]string    `json:"failures,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the search
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance in dollars
	MaxIterations int             // Maximum binary search iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1), // $1 tolerance
		MaxIterations: 50,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinContribution != nil && c.MinContribution.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_contribution cannot be negative",
		}
	}
	if c.MinContribution != nil && c.MaxContribution != nil {
		if c.MinContribution.GreaterThan(*c.MaxContribution) {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "min_contribution cannot be greater than max_contribution",
			}
		}
	}

	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil {
		if *c.MinRetirementAge > *c.MaxRetirementAge {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "min_retirement_age cannot be greater than max_retirement_age",
			}
		}
	}

	if c.MaxExtraPayment != nil && c.MaxExtraPayment.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_extra_payment cannot be negative",
		}
	}
	if c.TargetPayoffMonths < 0 {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "target_payoff_months cannot be negative",
		}
	}

	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
