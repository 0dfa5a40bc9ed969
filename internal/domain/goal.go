package domain

import (
	"github.com/shopspring/decimal"
)

// GoalCategory drives the impact score of a savings goal.
type GoalCategory string

const (
	CategoryEmergencyFund GoalCategory = "emergency_fund"
	CategoryRetirement    GoalCategory = "retirement"
	CategoryDebtPayoff    GoalCategory = "debt_payoff"
	CategoryHomePurchase  GoalCategory = "home_purchase"
	CategoryEducation     GoalCategory = "education"
	CategoryVacation      GoalCategory = "vacation"
	CategoryOther         GoalCategory = "other"
)

// SavingsGoal is an independent savings target.
type SavingsGoal struct {
	ID              string          `yaml:"id" json:"id"`
	Name            string          `yaml:"name" json:"name"`
	Category        GoalCategory    `yaml:"category" json:"category"`
	TargetAmount    decimal.Decimal `yaml:"target_amount" json:"targetAmount"`
	TimelineMonths  int             `yaml:"timeline_months" json:"timelineMonths"` // 0 means the default horizon
	MonthlyCapacity decimal.Decimal `yaml:"monthly_capacity" json:"monthlyCapacity"`
}

// Validate rejects negative amounts and timelines.
func (g SavingsGoal) Validate() error {
	if g.TargetAmount.IsNegative() {
		return NewValidationError("target_amount", "must not be negative, got %s", g.TargetAmount.StringFixed(2))
	}
	if g.MonthlyCapacity.IsNegative() {
		return NewValidationError("monthly_capacity", "must not be negative, got %s", g.MonthlyCapacity.StringFixed(2))
	}
	if g.TimelineMonths < 0 {
		return NewValidationError("timeline_months", "must not be negative, got %d", g.TimelineMonths)
	}
	return nil
}

// PriorityTier buckets a goal's weighted score.
type PriorityTier string

const (
	PriorityHigh    PriorityTier = "HIGH"
	PriorityMedium  PriorityTier = "MEDIUM"
	PriorityLow     PriorityTier = "LOW"
	PriorityVeryLow PriorityTier = "VERY_LOW"
)

// ScoredGoal is a goal with its four sub-scores, weighted total and tier.
type ScoredGoal struct {
	SavingsGoal
	UrgencyScore     int             `json:"urgencyScore"`
	ImpactScore      int             `json:"impactScore"`
	FeasibilityScore int             `json:"feasibilityScore"`
	CostScore        int             `json:"costScore"`
	TotalScore       decimal.Decimal `json:"totalScore"`
	Priority         PriorityTier    `json:"priority"`
}

// TradeOffAnalysis compares total funding against stated capacity.
type TradeOffAnalysis struct {
	TotalFundingNeeded   decimal.Decimal `json:"totalFundingNeeded"`
	TotalMonthlyCapacity decimal.Decimal `json:"totalMonthlyCapacity"`
	Conflicts            []string        `json:"conflicts"`
}

// PrioritizationMatrix is the full goal-ranking report.
type PrioritizationMatrix struct {
	Goals           []ScoredGoal     `json:"goals"`
	Recommendations []string         `json:"recommendations"`
	TradeOffs       TradeOffAnalysis `json:"tradeOffs"`
}
