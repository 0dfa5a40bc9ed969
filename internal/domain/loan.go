package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LoanAccount is a single debt as supplied by the caller. The engine never
// mutates it; balance changes are simulated only.
type LoanAccount struct {
	ID             string          `yaml:"id" json:"id"`
	Name           string          `yaml:"name" json:"name"`
	Balance        decimal.Decimal `yaml:"balance" json:"balance"`
	InterestRate   decimal.Decimal `yaml:"interest_rate" json:"interestRate"` // annual, as a fraction
	MinimumPayment decimal.Decimal `yaml:"minimum_payment" json:"minimumPayment"`
}

// Label returns the name if set, otherwise the ID.
func (l LoanAccount) Label() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Validate checks the loan's numeric fields.
func (l LoanAccount) Validate() error {
	if l.Balance.IsNegative() {
		return NewValidationError("balance", "must not be negative, got %s", l.Balance.StringFixed(2))
	}
	if l.InterestRate.IsNegative() || l.InterestRate.GreaterThan(decimal.NewFromInt(1)) {
		return NewValidationError("interest_rate", "must be a fraction between 0 and 1, got %s", l.InterestRate.String())
	}
	if !l.MinimumPayment.IsPositive() {
		return NewValidationError("minimum_payment", "must be positive, got %s", l.MinimumPayment.StringFixed(2))
	}
	return nil
}

// PayoffStrategy selects the order in which debts receive extra payments.
type PayoffStrategy string

const (
	StrategyAvalanche PayoffStrategy = "AVALANCHE" // highest interest rate first
	StrategySnowball  PayoffStrategy = "SNOWBALL"  // smallest balance first
)

// ParseStrategy accepts "avalanche" or "snowball" in any case.
func ParseStrategy(s string) (PayoffStrategy, error) {
	switch PayoffStrategy(strings.ToUpper(strings.TrimSpace(s))) {
	case StrategyAvalanche:
		return StrategyAvalanche, nil
	case StrategySnowball:
		return StrategySnowball, nil
	default:
		return "", NewValidationError("strategy", "unknown payoff strategy %q", s)
	}
}

// AmortizationResult summarizes a single loan's simulated payoff.
type AmortizationResult struct {
	Months        int             `json:"months"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
}

// PayoffPlanEntry is one loan's line in a payoff plan.
type PayoffPlanEntry struct {
	LoanID          string          `json:"loanId"`
	Name            string          `json:"name"`
	Balance         decimal.Decimal `json:"balance"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	MinimumPayment  decimal.Decimal `json:"minimumPayment"`
	AssignedPayment decimal.Decimal `json:"assignedPayment"`
	PayoffOrder     int             `json:"payoffOrder"`
	PayoffMonths    int             `json:"payoffMonths"`
	TotalInterest   decimal.Decimal `json:"totalInterest"`
}

// PayoffPlan is the result of ordering a debt set by strategy.
type PayoffPlan struct {
	Strategy             PayoffStrategy    `json:"strategy"`
	TotalDebt            decimal.Decimal   `json:"totalDebt"`
	TotalMinimumPayments decimal.Decimal   `json:"totalMinimumPayments"`
	ExtraPayment         decimal.Decimal   `json:"extraPayment"`
	PayoffMonths         int               `json:"payoffMonths"`
	TotalInterest        decimal.Decimal   `json:"totalInterest"`
	Entries              []PayoffPlanEntry `json:"entries"`
}

// StrategyComparison holds avalanche and snowball plans side by side.
type StrategyComparison struct {
	Avalanche            *PayoffPlan     `json:"avalanche"`
	Snowball             *PayoffPlan     `json:"snowball"`
	InterestSavings      decimal.Decimal `json:"interestSavings"` // snowball interest minus avalanche interest
	PayoffMonthsDelta    int             `json:"payoffMonthsDelta"`
	RecommendedStrategy  PayoffStrategy  `json:"recommendedStrategy"`
	RecommendationReason string          `json:"recommendationReason"`
}

// ConsolidationReport compares paying each debt separately against a single
// consolidated loan at the combined minimum payment.
type ConsolidationReport struct {
	TotalCurrentDebt            decimal.Decimal `json:"totalCurrentDebt"`
	TotalCurrentMinimumPayments decimal.Decimal `json:"totalCurrentMinimumPayments"`
	CurrentTotalInterest        decimal.Decimal `json:"currentTotalInterest"`
	CurrentPayoffMonths         int             `json:"currentPayoffMonths"`
	ConsolidatedLoanAmount      decimal.Decimal `json:"consolidatedLoanAmount"`
	ConsolidatedInterestRate    decimal.Decimal `json:"consolidatedInterestRate"`
	ConsolidatedMonthlyPayment  decimal.Decimal `json:"consolidatedMonthlyPayment"`
	ConsolidatedTotalInterest   decimal.Decimal `json:"consolidatedTotalInterest"`
	ConsolidatedPayoffMonths    int             `json:"consolidatedPayoffMonths"`
	TotalInterestSavings        decimal.Decimal `json:"totalInterestSavings"`
	TimeSavingsMonths           int             `json:"timeSavingsMonths"`
	IsConsolidationBeneficial   bool            `json:"isConsolidationBeneficial"`
	Recommendation              string          `json:"recommendation"`
	Benefits                    []string        `json:"benefits"`
	Considerations              []string        `json:"considerations"`
}

// PaymentScenario is one side of a minimum-versus-accelerated comparison.
type PaymentScenario struct {
	Label          string          `json:"label"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	PayoffMonths   int             `json:"payoffMonths"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
}

// PaymentComparison compares paying only minimums with paying extra.
type PaymentComparison struct {
	Minimum           PaymentScenario `json:"minimum"`
	Accelerated       PaymentScenario `json:"accelerated"`
	ExtraPayment      decimal.Decimal `json:"extraPayment"`
	InterestSavings   decimal.Decimal `json:"interestSavings"`
	TimeSavingsMonths int             `json:"timeSavingsMonths"`
	TotalSavings      decimal.Decimal `json:"totalSavings"`
	Recommendation    string          `json:"recommendation"`
}

// WaterfallMonth is one month of a joint payoff simulation.
type WaterfallMonth struct {
	Month    int                        `json:"month"`
	Interest decimal.Decimal            `json:"interest"`
	Paid     decimal.Decimal            `json:"paid"`
	Balances map[string]decimal.Decimal `json:"balances"` // loan ID -> end-of-month balance
}

// WaterfallSchedule is the month-by-month result of rolling freed payments
// into the next debt in priority order.
type WaterfallSchedule struct {
	Strategy      PayoffStrategy   `json:"strategy"`
	MonthlyBudget decimal.Decimal  `json:"monthlyBudget"`
	Order         []string         `json:"order"`
	PayoffMonths  int              `json:"payoffMonths"`
	TotalInterest decimal.Decimal  `json:"totalInterest"`
	LoanPayoff    map[string]int   `json:"loanPayoff"` // loan ID -> month it reached zero
	Months        []WaterfallMonth `json:"months"`
}

// String implements fmt.Stringer for log output.
func (p *PayoffPlan) String() string {
	return fmt.Sprintf("%s plan: %d debts, %d months, interest %s",
		p.Strategy, len(p.Entries), p.PayoffMonths, p.TotalInterest.StringFixed(2))
}
