package breakeven

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// OptimizeAll solves every applicable target and collects the results. The
// extra-payment target runs only when loans and a payoff target are given.
// A target that cannot be reached is recorded in Failures instead of
// aborting the run.
func (s *Solver) OptimizeAll(
	ctx context.Context,
	profile domain.RetirementProfile,
	loans []domain.LoanAccount,
	constraints Constraints,
) (*MultiDimensionalResult, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	targets := []OptimizationTarget{
		OptimizeContribution,
		OptimizeRetirementAge,
	}
	if len(loans) > 0 && constraints.TargetPayoffMonths > 0 {
		targets = append(targets, OptimizeExtraPayment)
	}

	mdResult := &MultiDimensionalResult{}

	for _, target := range targets {
		req := OptimizationRequest{
			Profile:       profile,
			Loans:         loans,
			Target:        target,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}

		result, err := s.Optimize(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if mdResult.Failures == nil {
				mdResult.Failures = make(map[string]string)
			}
			mdResult.Failures[string(target)] = err.Error()
			s.CalcEngine.Logger.Warnf("solver: %s failed: %v", target, err)
			continue
		}
		mdResult.Results = append(mdResult.Results, *result)
	}

	if len(mdResult.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_all",
			Message:   "no successful optimizations found",
			Cause:     ErrTargetUnreachable,
		}
	}

	mdResult.Recommendations = s.generateRecommendations(mdResult)
	return mdResult, nil
}

// generateRecommendations creates one line per solved target
func (s *Solver) generateRecommendations(result *MultiDimensionalResult) []string {
	var recommendations []string

	for _, res := range result.Results {
		switch {
		case res.OptimalContribution != nil:
			if res.ChangeFromBase.IsPositive() {
				recommendations = append(recommendations,
					fmt.Sprintf("Contribute $%s/month to the employer plan ($%s more than today) to reach ON_TRACK",
						res.OptimalContribution.StringFixed(2), res.ChangeFromBase.StringFixed(2)))
			} else {
				recommendations = append(recommendations,
					fmt.Sprintf("Current contributions already reach ON_TRACK; the minimum is $%s/month",
						res.OptimalContribution.StringFixed(2)))
			}
		case res.OptimalRetirementAge != nil:
			years := res.ChangeFromBase.IntPart()
			switch {
			case years > 0:
				recommendations = append(recommendations,
					fmt.Sprintf("Retire at %d (%d years later than planned) to reach ON_TRACK", *res.OptimalRetirementAge, years))
			case years < 0:
				recommendations = append(recommendations,
					fmt.Sprintf("The plan stays ON_TRACK retiring as early as %d (%d years sooner)", *res.OptimalRetirementAge, -years))
			default:
				recommendations = append(recommendations,
					fmt.Sprintf("Retiring at %d is the earliest ON_TRACK age", *res.OptimalRetirementAge))
			}
		case res.OptimalExtraPayment != nil:
			rec := fmt.Sprintf("Pay $%s/month extra toward debt to be debt-free in %d months",
				res.OptimalExtraPayment.StringFixed(2), res.PayoffMonths)
			if res.BasePayoffMonths > 0 {
				saved := res.BaseTotalInterest.Sub(res.TotalInterest)
				if saved.IsPositive() {
					rec += fmt.Sprintf(", saving $%s in interest", saved.StringFixed(2))
				}
			}
			recommendations = append(recommendations, rec)
		}
	}

	return recommendations
}
