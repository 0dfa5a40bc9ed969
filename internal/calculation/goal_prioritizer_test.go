package calculation

import (
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGoals() []domain.SavingsGoal {
	return []domain.SavingsGoal{
		{ID: "vac", Name: "Vacation", Category: domain.CategoryVacation, TargetAmount: d("3000"), TimelineMonths: 6, MonthlyCapacity: d("100")},
		{ID: "ret", Name: "Retirement", Category: domain.CategoryRetirement, TargetAmount: d("600000"), MonthlyCapacity: d("0")},
		{ID: "home", Name: "House", Category: domain.CategoryHomePurchase, TargetAmount: d("60000"), TimelineMonths: 48, MonthlyCapacity: d("1500")},
		{ID: "ef", Name: "Emergency Fund", Category: domain.CategoryEmergencyFund, TargetAmount: d("10000"), TimelineMonths: 12, MonthlyCapacity: d("1000")},
	}
}

func testPrioritizer() *GoalPrioritizer {
	return NewGoalPrioritizer(domain.DefaultGoalScoringOptions())
}

func TestGoalPrioritizer_Score(t *testing.T) {
	gp := testPrioritizer()

	tests := []struct {
		id                                  string
		urgency, impact, feasibility, cost int
		total                               string
		tier                                domain.PriorityTier
	}{
		{"ef", 100, 100, 80, 80, "92", domain.PriorityHigh},
		{"home", 40, 75, 80, 60, "63.5", domain.PriorityMedium},
		{"vac", 100, 20, 20, 100, "56", domain.PriorityLow},
		{"ret", 40, 100, 0, 20, "45", domain.PriorityLow},
	}
	goals := map[string]domain.SavingsGoal{}
	for _, g := range testGoals() {
		goals[g.ID] = g
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			sg := gp.Score(goals[tt.id])
			assert.Equal(t, tt.urgency, sg.UrgencyScore, "urgency")
			assert.Equal(t, tt.impact, sg.ImpactScore, "impact")
			assert.Equal(t, tt.feasibility, sg.FeasibilityScore, "feasibility")
			assert.Equal(t, tt.cost, sg.CostScore, "cost")
			assert.True(t, sg.TotalScore.Equal(d(tt.total)), "total %s", sg.TotalScore)
			assert.Equal(t, tt.tier, sg.Priority)
		})
	}
}

func TestNewGoalPrioritizer_ZeroOptionsUseDefaults(t *testing.T) {
	gp := NewGoalPrioritizer(domain.GoalScoringOptions{})
	defaults := domain.DefaultGoalScoringOptions()

	assert.Equal(t, defaults.Weights, gp.Options.Weights)
	assert.Equal(t, defaults.Cutoffs, gp.Options.Cutoffs)
	assert.Equal(t, 60, gp.Options.DefaultTimelineMonths)

	for _, g := range testGoals() {
		if g.ID == "ef" {
			assert.Equal(t, domain.PriorityHigh, gp.Score(g).Priority)
		}
	}
}

func TestGoalPrioritizer_Prioritize(t *testing.T) {
	scored, err := testPrioritizer().Prioritize(testGoals())
	require.NoError(t, err)

	ids := make([]string, len(scored))
	for i, sg := range scored {
		ids[i] = sg.ID
	}
	assert.Equal(t, []string{"ef", "home", "vac", "ret"}, ids)
	for i := 1; i < len(scored); i++ {
		assert.True(t, scored[i].TotalScore.LessThanOrEqual(scored[i-1].TotalScore))
	}
}

func TestGoalPrioritizer_StableTies(t *testing.T) {
	goals := []domain.SavingsGoal{
		{ID: "first", Category: domain.CategoryEducation, TargetAmount: d("20000"), TimelineMonths: 24, MonthlyCapacity: d("900")},
		{ID: "second", Category: domain.CategoryEducation, TargetAmount: d("20000"), TimelineMonths: 24, MonthlyCapacity: d("900")},
		{ID: "third", Category: domain.CategoryEducation, TargetAmount: d("20000"), TimelineMonths: 24, MonthlyCapacity: d("900")},
	}
	scored, err := testPrioritizer().Prioritize(goals)
	require.NoError(t, err)
	assert.Equal(t, "first", scored[0].ID)
	assert.Equal(t, "second", scored[1].ID)
	assert.Equal(t, "third", scored[2].ID)
}

func TestGoalPrioritizer_Errors(t *testing.T) {
	gp := testPrioritizer()

	_, err := gp.Prioritize(nil)
	var empty *domain.EmptyInputError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "goals", empty.What)

	_, err = gp.Prioritize([]domain.SavingsGoal{{Name: "bad", TargetAmount: d("-1")}})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "target_amount", ve.Field)
}

func TestGoalPrioritizer_SubScores(t *testing.T) {
	gp := testPrioritizer()

	t.Run("impact is clamped and case-insensitive", func(t *testing.T) {
		g := domain.SavingsGoal{Category: "EMERGENCY_FUND", TargetAmount: d("150000")}
		assert.Equal(t, 100, gp.ImpactScore(g))
		g.Category = "something_else"
		g.TargetAmount = d("5000")
		assert.Equal(t, 40, gp.ImpactScore(g))
	})

	t.Run("zero target is fully feasible", func(t *testing.T) {
		g := domain.SavingsGoal{TargetAmount: d("0"), MonthlyCapacity: d("10")}
		assert.Equal(t, 100, gp.FeasibilityScore(g))
	})

	t.Run("urgency bands", func(t *testing.T) {
		for months, want := range map[int]int{1: 100, 12: 100, 13: 80, 36: 60, 60: 40, 61: 20, 0: 40} {
			assert.Equal(t, want, gp.UrgencyScore(domain.SavingsGoal{TimelineMonths: months}), "%d months", months)
		}
	})

	t.Run("tiers", func(t *testing.T) {
		assert.Equal(t, domain.PriorityHigh, gp.Tier(d("80")))
		assert.Equal(t, domain.PriorityMedium, gp.Tier(d("79.99")))
		assert.Equal(t, domain.PriorityLow, gp.Tier(d("40")))
		assert.Equal(t, domain.PriorityVeryLow, gp.Tier(d("39.99")))
	})
}

func TestGoalPrioritizer_BuildMatrix(t *testing.T) {
	gp := testPrioritizer()

	matrix, err := gp.BuildMatrix(testGoals())
	require.NoError(t, err)
	assert.Len(t, matrix.Goals, 4)
	assert.Len(t, matrix.Recommendations, 3)
	assert.Empty(t, matrix.TradeOffs.Conflicts)
	assert.True(t, matrix.TradeOffs.TotalFundingNeeded.Equal(d("673000")))
	assert.True(t, matrix.TradeOffs.TotalMonthlyCapacity.Equal(d("2600")))

	var many []domain.SavingsGoal
	for i := 0; i < 6; i++ {
		many = append(many, domain.SavingsGoal{
			Name: "trip", Category: domain.CategoryEmergencyFund, TargetAmount: d("4000"), TimelineMonths: 6, MonthlyCapacity: d("2000"),
		})
	}
	matrix, err = gp.BuildMatrix(many)
	require.NoError(t, err)
	require.Len(t, matrix.Recommendations, 4)
	assert.Contains(t, matrix.Recommendations[0], "many high-priority goals")
	assert.Equal(t, []string{"Too many simultaneous goals may reduce focus and effectiveness"}, matrix.TradeOffs.Conflicts)

	matrix, err = gp.BuildMatrix(testGoals()[:3])
	require.NoError(t, err)
	assert.Equal(t, []string{"No emergency fund goal detected - this should be prioritized first"}, matrix.TradeOffs.Conflicts)
}
