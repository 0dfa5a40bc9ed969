package calculation

import (
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// AmortizationEngine simulates a single loan's payoff month by month.
type AmortizationEngine struct {
	Options domain.AmortizationOptions
	Logger  Logger
}

// NewAmortizationEngine creates an engine with the given ceiling. A
// non-positive MaxMonths falls back to the default of 600.
func NewAmortizationEngine(opts domain.AmortizationOptions) *AmortizationEngine {
	if opts.MaxMonths <= 0 {
		opts = domain.DefaultAmortizationOptions()
	}
	return &AmortizationEngine{Options: opts, Logger: NopLogger{}}
}

// Amortize pays principal down with a fixed monthly payment. Each month's
// interest is rounded to cents; the final principal portion is capped at the
// remaining balance.
func (ae *AmortizationEngine) Amortize(principal, annualRate, monthlyPayment decimal.Decimal) (*domain.AmortizationResult, error) {
	if !principal.IsPositive() {
		return nil, domain.NewValidationError("principal", "must be positive, got %s", principal.StringFixed(2))
	}
	if !monthlyPayment.IsPositive() {
		return nil, domain.NewValidationError("monthly_payment", "must be positive, got %s", monthlyPayment.StringFixed(2))
	}
	if annualRate.IsNegative() {
		return nil, domain.NewValidationError("interest_rate", "must not be negative, got %s", annualRate.String())
	}

	monthlyRate := MonthlyRate(annualRate)
	if firstInterest := principal.Mul(monthlyRate); monthlyPayment.LessThanOrEqual(firstInterest) {
		return nil, &domain.PaymentTooLowError{
			Payment:  monthlyPayment,
			Interest: RoundMoney(firstInterest),
			Balance:  principal,
		}
	}

	balance := principal
	totalInterest := decimal.Zero
	totalPaid := decimal.Zero
	months := 0

	for balance.GreaterThan(cent) && months < ae.Options.MaxMonths {
		interest := RoundMoney(balance.Mul(monthlyRate))
		principalPortion := monthlyPayment.Sub(interest)
		if !principalPortion.IsPositive() {
			return nil, &domain.PaymentTooLowError{Payment: monthlyPayment, Interest: interest, Balance: balance}
		}
		if principalPortion.GreaterThan(balance) {
			principalPortion = balance
		}

		balance = balance.Sub(principalPortion)
		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(principalPortion).Add(interest)
		months++
	}

	if balance.GreaterThan(cent) {
		ae.Logger.Warnf("amortization hit %d-month ceiling with %s remaining", ae.Options.MaxMonths, balance.StringFixed(2))
		return nil, &domain.PayoffHorizonExceededError{MaxMonths: ae.Options.MaxMonths, RemainingBalance: balance}
	}

	return &domain.AmortizationResult{
		Months:        months,
		TotalInterest: totalInterest,
		TotalPaid:     totalPaid,
	}, nil
}
