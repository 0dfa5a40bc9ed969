package calculation

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept for reported amounts.
const MoneyScale = 2

// workingScale bounds intermediate precision in compounding so repeated
// multiplication does not grow the digit count without limit.
const workingScale = 16

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
	cent    = decimal.NewFromFloat(0.01)
)

// RoundMoney rounds to cents, half away from zero (half-up for the
// non-negative amounts the engine works with).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// MonthlyRate converts an annual rate fraction to a monthly one.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	return annual.DivRound(twelve, workingScale)
}

// GrowthFactor returns (1+rate)^periods using exponentiation by squaring,
// rounding each product to the working scale.
func GrowthFactor(rate decimal.Decimal, periods int) decimal.Decimal {
	result := one
	base := one.Add(rate)
	for n := periods; n > 0; n >>= 1 {
		if n&1 == 1 {
			result = result.Mul(base).Round(workingScale)
		}
		base = base.Mul(base).Round(workingScale)
	}
	return result
}

// FutureValueLumpSum returns P·(1+r)^n.
func FutureValueLumpSum(principal, rate decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return principal
	}
	return principal.Mul(GrowthFactor(rate, periods))
}

// FutureValueAnnuity returns C·[((1+r)^n − 1)/r] for an ordinary annuity,
// or C·n when r is zero.
func FutureValueAnnuity(payment, rate decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 || payment.IsZero() {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(periods))
	if rate.IsZero() {
		return payment.Mul(n)
	}
	factor := GrowthFactor(rate, periods).Sub(one).DivRound(rate, workingScale)
	return payment.Mul(factor)
}

// AnnuityPayment solves the annuity future-value formula for the level
// payment that accumulates to target over periods.
func AnnuityPayment(target, rate decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 || !target.IsPositive() {
		return decimal.Zero
	}
	if rate.IsZero() {
		return target.DivRound(decimal.NewFromInt(int64(periods)), workingScale)
	}
	denominator := GrowthFactor(rate, periods).Sub(one)
	if denominator.IsZero() {
		return decimal.Zero
	}
	return target.Mul(rate).DivRound(denominator, workingScale)
}

// MaxInt returns the larger of a and b.
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
