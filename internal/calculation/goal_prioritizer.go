package calculation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// GoalPrioritizer scores and ranks independent savings goals.
type GoalPrioritizer struct {
	Options domain.GoalScoringOptions
}

// NewGoalPrioritizer creates a prioritizer with the given weights and cutoffs.
// All-zero weights or cutoffs fall back to the defaults.
func NewGoalPrioritizer(opts domain.GoalScoringOptions) *GoalPrioritizer {
	defaults := domain.DefaultGoalScoringOptions()
	w := opts.Weights
	if w.Urgency.IsZero() && w.Impact.IsZero() && w.Feasibility.IsZero() && w.Cost.IsZero() {
		opts.Weights = defaults.Weights
	}
	c := opts.Cutoffs
	if c.High.IsZero() && c.Medium.IsZero() && c.Low.IsZero() {
		opts.Cutoffs = defaults.Cutoffs
	}
	if opts.DefaultTimelineMonths <= 0 {
		opts.DefaultTimelineMonths = defaults.DefaultTimelineMonths
	}
	return &GoalPrioritizer{Options: opts}
}

var categoryImpact = map[domain.GoalCategory]int{
	domain.CategoryEmergencyFund: 100,
	domain.CategoryRetirement:    90,
	domain.CategoryDebtPayoff:    85,
	domain.CategoryHomePurchase:  75,
	domain.CategoryEducation:     70,
	domain.CategoryVacation:      30,
}

func (gp *GoalPrioritizer) timeline(g domain.SavingsGoal) int {
	if g.TimelineMonths > 0 {
		return g.TimelineMonths
	}
	return gp.Options.DefaultTimelineMonths
}

// UrgencyScore is higher for shorter timelines.
func (gp *GoalPrioritizer) UrgencyScore(g domain.SavingsGoal) int {
	switch t := gp.timeline(g); {
	case t <= 12:
		return 100
	case t <= 24:
		return 80
	case t <= 36:
		return 60
	case t <= 60:
		return 40
	default:
		return 20
	}
}

// ImpactScore is the category base score, raised for goals above $100,000
// and lowered for goals below $10,000.
func (gp *GoalPrioritizer) ImpactScore(g domain.SavingsGoal) int {
	score, ok := categoryImpact[domain.GoalCategory(strings.ToLower(string(g.Category)))]
	if !ok {
		score = 50
	}
	switch {
	case g.TargetAmount.GreaterThan(decimal.NewFromInt(100000)):
		score += 10
	case g.TargetAmount.LessThan(decimal.NewFromInt(10000)):
		score -= 10
	}
	return ClampInt(score, 0, 100)
}

// FeasibilityScore compares monthly capacity with the monthly amount needed
// to reach the goal on time.
func (gp *GoalPrioritizer) FeasibilityScore(g domain.SavingsGoal) int {
	if !g.MonthlyCapacity.IsPositive() {
		return 0
	}
	required := g.TargetAmount.DivRound(decimal.NewFromInt(int64(gp.timeline(g))), workingScale)
	if !required.IsPositive() {
		return 100
	}
	ratio := g.MonthlyCapacity.DivRound(required, 4)
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(1.5)):
		return 100
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(1.2)):
		return 80
	case ratio.GreaterThanOrEqual(one):
		return 60
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(0.8)):
		return 40
	default:
		return 20
	}
}

// CostScore is higher for smaller goals.
func (gp *GoalPrioritizer) CostScore(g domain.SavingsGoal) int {
	switch a := g.TargetAmount; {
	case a.LessThanOrEqual(decimal.NewFromInt(5000)):
		return 100
	case a.LessThanOrEqual(decimal.NewFromInt(25000)):
		return 80
	case a.LessThanOrEqual(decimal.NewFromInt(100000)):
		return 60
	case a.LessThanOrEqual(decimal.NewFromInt(500000)):
		return 40
	default:
		return 20
	}
}

// Tier maps a total score to its priority tier.
func (gp *GoalPrioritizer) Tier(total decimal.Decimal) domain.PriorityTier {
	c := gp.Options.Cutoffs
	switch {
	case total.GreaterThanOrEqual(c.High):
		return domain.PriorityHigh
	case total.GreaterThanOrEqual(c.Medium):
		return domain.PriorityMedium
	case total.GreaterThanOrEqual(c.Low):
		return domain.PriorityLow
	default:
		return domain.PriorityVeryLow
	}
}

// Score computes the sub-scores, weighted total and tier of one goal.
func (gp *GoalPrioritizer) Score(g domain.SavingsGoal) domain.ScoredGoal {
	sg := domain.ScoredGoal{
		SavingsGoal:      g,
		UrgencyScore:     gp.UrgencyScore(g),
		ImpactScore:      gp.ImpactScore(g),
		FeasibilityScore: gp.FeasibilityScore(g),
		CostScore:        gp.CostScore(g),
	}
	w := gp.Options.Weights
	sg.TotalScore = decimal.NewFromInt(int64(sg.UrgencyScore)).Mul(w.Urgency).
		Add(decimal.NewFromInt(int64(sg.ImpactScore)).Mul(w.Impact)).
		Add(decimal.NewFromInt(int64(sg.FeasibilityScore)).Mul(w.Feasibility)).
		Add(decimal.NewFromInt(int64(sg.CostScore)).Mul(w.Cost)).
		Round(2)
	sg.Priority = gp.Tier(sg.TotalScore)
	return sg
}

// Prioritize scores every goal and sorts by total score, highest first.
// Goals with equal scores keep their input order.
func (gp *GoalPrioritizer) Prioritize(goals []domain.SavingsGoal) ([]domain.ScoredGoal, error) {
	if len(goals) == 0 {
		return nil, &domain.EmptyInputError{Operation: "prioritize", What: "goals"}
	}
	scored := make([]domain.ScoredGoal, 0, len(goals))
	for i, g := range goals {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("goal %d (%s): %w", i, g.Name, err)
		}
		scored = append(scored, gp.Score(g))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore.GreaterThan(scored[j].TotalScore)
	})
	return scored, nil
}

// BuildMatrix ranks the goals and adds recommendations and a trade-off
// analysis.
func (gp *GoalPrioritizer) BuildMatrix(goals []domain.SavingsGoal) (*domain.PrioritizationMatrix, error) {
	scored, err := gp.Prioritize(goals)
	if err != nil {
		return nil, err
	}

	high := 0
	hasEmergencyFund := false
	tradeOffs := domain.TradeOffAnalysis{TotalFundingNeeded: decimal.Zero, TotalMonthlyCapacity: decimal.Zero}
	for _, g := range scored {
		if g.Priority == domain.PriorityHigh {
			high++
		}
		if strings.EqualFold(string(g.Category), string(domain.CategoryEmergencyFund)) {
			hasEmergencyFund = true
		}
		tradeOffs.TotalFundingNeeded = tradeOffs.TotalFundingNeeded.Add(g.TargetAmount)
		tradeOffs.TotalMonthlyCapacity = tradeOffs.TotalMonthlyCapacity.Add(g.MonthlyCapacity)
	}

	var recs []string
	if high > 3 {
		recs = append(recs, "You have many high-priority goals. Consider focusing on the top 2-3 to avoid spreading resources too thin.")
	}
	recs = append(recs,
		"Start with emergency fund if not already established - it enables all other goals.",
		"Consider automating savings for your top priority goals to ensure consistent progress.",
		"Review and adjust goal priorities quarterly as circumstances change.",
	)

	if len(scored) > 5 {
		tradeOffs.Conflicts = append(tradeOffs.Conflicts, "Too many simultaneous goals may reduce focus and effectiveness")
	}
	if !hasEmergencyFund {
		tradeOffs.Conflicts = append(tradeOffs.Conflicts, "No emergency fund goal detected - this should be prioritized first")
	}

	return &domain.PrioritizationMatrix{Goals: scored, Recommendations: recs, TradeOffs: tradeOffs}, nil
}
