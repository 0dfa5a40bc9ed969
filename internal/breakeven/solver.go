package breakeven

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver searches for the smallest change that reaches a goal
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations <= 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = s.Options.Tolerance
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch req.Target {
	case OptimizeContribution:
		return s.optimizeContribution(ctx, req)
	case OptimizeRetirementAge:
		return s.optimizeRetirementAge(ctx, req)
	case OptimizeExtraPayment:
		return s.optimizeExtraPayment(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
}

// optimizeContribution finds the smallest monthly employer-plan
// contribution that makes the plan ON_TRACK
func (s *Solver) optimizeContribution(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	base, err := s.CalcEngine.Growth.ProjectPlan(req.Profile)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize_contribution",
			Message:   "failed to project base plan",
			Cause:     err,
		}
	}

	low := decimal.Zero
	high := decimal.NewFromInt(10000)
	if req.Constraints.MinContribution != nil {
		low = *req.Constraints.MinContribution
	}
	if req.Constraints.MaxContribution != nil {
		high = *req.Constraints.MaxContribution
	}

	onTrack := func(amount decimal.Decimal) (bool, error) {
		projection, err := s.projectWithContribution(req.Profile, amount)
		if err != nil {
			return false, err
		}
		return projection.Readiness == domain.ReadinessOnTrack, nil
	}

	value, iterations, converged, err := s.searchMinimum(ctx, "optimize_contribution", low, high, req, onTrack)
	if err != nil {
		return nil, err
	}

	projection, err := s.projectWithContribution(req.Profile, value)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize_contribution",
			Message:   "failed to project solved plan",
			Cause:     err,
		}
	}

	result := &OptimizationResult{
		Request:             req,
		Success:             converged,
		Iterations:          iterations,
		OptimalContribution: &value,
		Projection:          projection,
		BaseProjection:      base,
		ChangeFromBase:      value.Sub(req.Profile.EmployerPlanContribution),
	}
	result.ConvergenceInfo = convergenceInfo(converged, req)

	s.CalcEngine.Logger.Debugf("solver: contribution %s/mo reaches ON_TRACK after %d iterations", value.StringFixed(2), iterations)
	return result, nil
}

func (s *Solver) projectWithContribution(profile domain.RetirementProfile, amount decimal.Decimal) (*domain.ProjectionResult, error) {
	modified, err := transform.ApplyTransforms(profile, []transform.ProfileTransform{
		&transform.SetMonthlyContribution{Bucket: transform.BucketEmployerPlan, Amount: amount},
	})
	if err != nil {
		return nil, err
	}
	return s.CalcEngine.Growth.ProjectPlan(modified)
}

// optimizeRetirementAge scans ages upward and returns the first that is
// ON_TRACK
func (s *Solver) optimizeRetirementAge(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	base, err := s.CalcEngine.Growth.ProjectPlan(req.Profile)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize_retirement_age",
			Message:   "failed to project base plan",
			Cause:     err,
		}
	}

	minAge := req.Profile.CurrentAge
	maxAge := req.Profile.LifeExpectancy
	if req.Constraints.MinRetirementAge != nil {
		minAge = *req.Constraints.MinRetirementAge
	}
	if req.Constraints.MaxRetirementAge != nil {
		maxAge = *req.Constraints.MaxRetirementAge
	}
	if minAge < req.Profile.CurrentAge || maxAge > req.Profile.LifeExpectancy {
		return nil, &BreakEvenError{
			Operation: "optimize_retirement_age",
			Message: fmt.Sprintf("age range %d-%d must lie between current age %d and life expectancy %d",
				minAge, maxAge, req.Profile.CurrentAge, req.Profile.LifeExpectancy),
		}
	}

	iterations := 0
	for age := minAge; age <= maxAge; age++ {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		modified, err := transform.ApplyTransforms(req.Profile, []transform.ProfileTransform{
			&transform.SetRetirementAge{Age: age},
		})
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "optimize_retirement_age",
				Message:   "failed to apply age transform",
				Cause:     err,
			}
		}

		projection, err := s.CalcEngine.Growth.ProjectPlan(modified)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "optimize_retirement_age",
				Message:   fmt.Sprintf("failed to project retirement at %d", age),
				Cause:     err,
			}
		}

		if projection.Readiness == domain.ReadinessOnTrack {
			optimal := age
			s.CalcEngine.Logger.Debugf("solver: retirement at %d reaches ON_TRACK", age)
			return &OptimizationResult{
				Request:              req,
				Success:              true,
				Iterations:           iterations,
				ConvergenceInfo:      fmt.Sprintf("Evaluated %d retirement ages", iterations),
				OptimalRetirementAge: &optimal,
				Projection:           projection,
				BaseProjection:       base,
				ChangeFromBase:       decimal.NewFromInt(int64(age - req.Profile.RetirementAge)),
			}, nil
		}
	}

	return nil, &BreakEvenError{
		Operation: "optimize_retirement_age",
		Message:   fmt.Sprintf("no retirement age from %d to %d reaches ON_TRACK", minAge, maxAge),
		Cause:     ErrTargetUnreachable,
	}
}

// optimizeExtraPayment finds the smallest extra monthly payment for which
// the avalanche waterfall is debt-free within the target months
func (s *Solver) optimizeExtraPayment(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	target := req.Constraints.TargetPayoffMonths
	if target <= 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_extra_payment",
			Message:   "target_payoff_months is required",
		}
	}

	base, err := s.waterfall(req.Loans, decimal.Zero)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "optimize_extra_payment",
			Message:   "failed to simulate minimum payments",
			Cause:     err,
		}
	}

	high := req.Constraints.MaxExtraPayment
	if high == nil {
		total := decimal.Zero
		for _, loan := range req.Loans {
			total = total.Add(loan.Balance)
		}
		ceiling := calculation.RoundMoney(total.Mul(decimal.NewFromFloat(1.1)))
		high = &ceiling
	}

	paidInTime := func(extra decimal.Decimal) (bool, error) {
		schedule, err := s.waterfall(req.Loans, extra)
		if err != nil {
			return false, err
		}
		return schedule != nil && schedule.PayoffMonths <= target, nil
	}

	value, iterations, converged, err := s.searchMinimum(ctx, "optimize_extra_payment", decimal.Zero, *high, req, paidInTime)
	if err != nil {
		return nil, err
	}

	schedule, err := s.waterfall(req.Loans, value)
	if err != nil || schedule == nil {
		return nil, &BreakEvenError{
			Operation: "optimize_extra_payment",
			Message:   "failed to simulate solved payment",
			Cause:     err,
		}
	}

	result := &OptimizationResult{
		Request:             req,
		Success:             converged,
		Iterations:          iterations,
		ConvergenceInfo:     convergenceInfo(converged, req),
		OptimalExtraPayment: &value,
		ChangeFromBase:      value,
		PayoffMonths:        schedule.PayoffMonths,
		TotalInterest:       schedule.TotalInterest,
	}
	if base != nil {
		result.BasePayoffMonths = base.PayoffMonths
		result.BaseTotalInterest = base.TotalInterest
	}

	s.CalcEngine.Logger.Debugf("solver: extra %s/mo pays off in %d months", value.StringFixed(2), schedule.PayoffMonths)
	return result, nil
}

// waterfall runs the avalanche simulation. A nil schedule with a nil error
// means the budget never pays the debts off.
func (s *Solver) waterfall(loans []domain.LoanAccount, extra decimal.Decimal) (*domain.WaterfallSchedule, error) {
	schedule, err := s.CalcEngine.Debts.SimulateWaterfall(loans, extra, domain.StrategyAvalanche)
	if err != nil {
		var tooLow *domain.PaymentTooLowError
		var horizon *domain.PayoffHorizonExceededError
		if errors.As(err, &tooLow) || errors.As(err, &horizon) {
			return nil, nil
		}
		return nil, err
	}
	return schedule, nil
}

// searchMinimum binary searches [low, high] at cent resolution for the
// smallest amount satisfying ok, which must be monotone in the amount.
// converged is false when the iteration cap stopped the search early; the
// returned amount still satisfies ok.
func (s *Solver) searchMinimum(
	ctx context.Context,
	operation string,
	low, high decimal.Decimal,
	req OptimizationRequest,
	ok func(decimal.Decimal) (bool, error),
) (decimal.Decimal, int, bool, error) {
	iterations := 1
	met, err := ok(low)
	if err != nil {
		return decimal.Zero, iterations, false, &BreakEvenError{Operation: operation, Message: "failed to evaluate lower bound", Cause: err}
	}
	if met {
		return low, iterations, true, nil
	}

	iterations++
	met, err = ok(high)
	if err != nil {
		return decimal.Zero, iterations, false, &BreakEvenError{Operation: operation, Message: "failed to evaluate upper bound", Cause: err}
	}
	if !met {
		return decimal.Zero, iterations, false, &BreakEvenError{
			Operation: operation,
			Message:   fmt.Sprintf("no amount up to $%s meets the goal", high.StringFixed(2)),
			Cause:     ErrTargetUnreachable,
		}
	}

	for high.Sub(low).GreaterThan(req.Tolerance) {
		if iterations >= req.MaxIterations {
			return high, iterations, false, nil
		}

		select {
		case <-ctx.Done():
			return decimal.Zero, iterations, false, ctx.Err()
		default:
		}

		mid := low.Add(high).Div(two).Round(2)
		if mid.Equal(low) || mid.Equal(high) {
			break
		}

		iterations++
		met, err := ok(mid)
		if err != nil {
			return decimal.Zero, iterations, false, &BreakEvenError{Operation: operation, Message: "failed to evaluate candidate", Cause: err}
		}
		if met {
			high = mid
		} else {
			low = mid
		}
	}

	return high, iterations, true, nil
}

func convergenceInfo(converged bool, req OptimizationRequest) string {
	if converged {
		return fmt.Sprintf("Converged within $%s", req.Tolerance.StringFixed(2))
	}
	return fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
}
