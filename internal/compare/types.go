package compare

import (
	"fmt"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
	"github.com/shopspring/decimal"
)

// Scenario is a named set of transforms applied to the base profile.
type Scenario struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description,omitempty"`
	Transforms  []transform.ProfileTransform `json:"-"`
}

// ScenarioResult represents a single projected scenario with its comparison
// to the base
type ScenarioResult struct {
	ScenarioName string `json:"scenarioName"`
	Description  string `json:"description,omitempty"`

	// Key Metrics
	RetirementAge         int              `json:"retirementAge"`
	ProjectedBalance      decimal.Decimal  `json:"projectedBalance"`
	MonthlyIncome         decimal.Decimal  `json:"monthlyIncome"`
	RequiredMonthlyIncome decimal.Decimal  `json:"requiredMonthlyIncome"`
	Readiness             domain.Readiness `json:"readiness"`

	// Comparison to Base; percentages are fractions
	BalanceDiffFromBase decimal.Decimal `json:"balanceDiffFromBase"`
	BalancePctFromBase  decimal.Decimal `json:"balancePctFromBase"`
	IncomeDiffFromBase  decimal.Decimal `json:"incomeDiffFromBase"`
	IncomePctFromBase   decimal.Decimal `json:"incomePctFromBase"`
}

// Summary names the best and worst scenarios by projected balance. A name
// is empty when no alternative beats (or trails) the base.
type Summary struct {
	BestScenario  string          `json:"bestScenario,omitempty"`
	WorstScenario string          `json:"worstScenario,omitempty"`
	BestBalance   decimal.Decimal `json:"bestBalance"`
	WorstBalance  decimal.Decimal `json:"worstBalance"`
	BalanceRange  decimal.Decimal `json:"balanceRange"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string           `json:"baseScenarioName"`
	BaseResult         *ScenarioResult  `json:"baseResult"`
	AlternativeResults []ScenarioResult `json:"alternativeResults"`
	Summary            Summary          `json:"summary"`
	Recommendations    []string         `json:"recommendations"`
	ConfigPath         string           `json:"configPath,omitempty"`
}

// MetricsCalculator extracts key metrics from projections
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics builds the result row for one projected profile
func (mc *MetricsCalculator) CalculateMetrics(name, description string, profile domain.RetirementProfile, projection *domain.ProjectionResult) ScenarioResult {
	return ScenarioResult{
		ScenarioName:          name,
		Description:           description,
		RetirementAge:         profile.RetirementAge,
		ProjectedBalance:      projection.ProjectedBalance,
		MonthlyIncome:         projection.MonthlyIncome,
		RequiredMonthlyIncome: projection.RequiredMonthlyIncome,
		Readiness:             projection.Readiness,
	}
}

// CalculateComparison computes differences and fractional changes from base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ScenarioResult) ScenarioResult {
	scenario.BalanceDiffFromBase = scenario.ProjectedBalance.Sub(base.ProjectedBalance)
	scenario.BalancePctFromBase = fraction(scenario.BalanceDiffFromBase, base.ProjectedBalance)
	scenario.IncomeDiffFromBase = scenario.MonthlyIncome.Sub(base.MonthlyIncome)
	scenario.IncomePctFromBase = fraction(scenario.IncomeDiffFromBase, base.MonthlyIncome)
	return scenario
}

func fraction(diff, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return diff.DivRound(base, 4)
}

// Summarize finds the best and worst scenarios by projected balance
func Summarize(base *ScenarioResult, alternatives []ScenarioResult) Summary {
	s := Summary{BestBalance: base.ProjectedBalance, WorstBalance: base.ProjectedBalance}
	for _, alt := range alternatives {
		if alt.ProjectedBalance.GreaterThan(s.BestBalance) {
			s.BestScenario = alt.ScenarioName
			s.BestBalance = alt.ProjectedBalance
		}
		if alt.ProjectedBalance.LessThan(s.WorstBalance) {
			s.WorstScenario = alt.ScenarioName
			s.WorstBalance = alt.ProjectedBalance
		}
	}
	s.BalanceRange = s.BestBalance.Sub(s.WorstBalance)
	return s
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	if compSet.Summary.BestScenario != "" {
		recommendations = append(recommendations, fmt.Sprintf(
			"Best Balance: %s projects $%s more at retirement than the base plan",
			compSet.Summary.BestScenario, compSet.Summary.BestBalance.Sub(base.ProjectedBalance).StringFixed(0)))
	}

	// First scenario that fixes a shortfall in the base plan
	if base.Readiness != domain.ReadinessOnTrack {
		for _, alt := range compSet.AlternativeResults {
			if alt.Readiness == domain.ReadinessOnTrack {
				recommendations = append(recommendations, fmt.Sprintf(
					"On Track: %s closes the income gap (%s/month vs %s required)",
					alt.ScenarioName, alt.MonthlyIncome.StringFixed(2), alt.RequiredMonthlyIncome.StringFixed(2)))
				break
			}
		}
	}

	if compSet.Summary.WorstScenario != "" {
		recommendations = append(recommendations, fmt.Sprintf(
			"Largest Risk: %s projects $%s less than the base plan",
			compSet.Summary.WorstScenario, base.ProjectedBalance.Sub(compSet.Summary.WorstBalance).StringFixed(0)))
	}

	return recommendations
}
