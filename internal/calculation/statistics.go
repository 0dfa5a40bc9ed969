package calculation

import (
	"math"
	"sort"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultPercentilePoints are the percentiles reported for a simulation.
var DefaultPercentilePoints = []int{5, 10, 25, 50, 75, 90, 95}

// Summarize returns count, mean, population standard deviation, min and max.
func Summarize(values []decimal.Decimal) domain.DistributionStats {
	if len(values) == 0 {
		return domain.DistributionStats{}
	}
	n := decimal.NewFromInt(int64(len(values)))

	sum := decimal.Zero
	lo, hi := values[0], values[0]
	for _, v := range values {
		sum = sum.Add(v)
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
	}
	mean := sum.DivRound(n, workingScale)

	sq := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		sq = sq.Add(d.Mul(d))
	}
	variance := sq.DivRound(n, workingScale)

	return domain.DistributionStats{
		Count:  len(values),
		Mean:   RoundMoney(mean),
		StdDev: RoundMoney(sqrt(variance)),
		Min:    lo,
		Max:    hi,
	}
}

func sqrt(d decimal.Decimal) decimal.Decimal {
	if !d.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(d.InexactFloat64()))
}

// SortedCopy returns values sorted ascending without touching the input.
func SortedCopy(values []decimal.Decimal) []decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	return sorted
}

// PercentileOf returns the nearest-rank percentile of an ascending slice:
// the element at index ceil(p/100·n) − 1, clamped to the slice.
func PercentileOf(sorted []decimal.Decimal, p int) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	idx := (p*len(sorted)+99)/100 - 1
	return sorted[ClampInt(idx, 0, len(sorted)-1)]
}

// Percentiles computes the nearest-rank percentile table of values. The
// points are reported in the order given.
func Percentiles(values []decimal.Decimal, points []int) []domain.PercentilePoint {
	sorted := SortedCopy(values)
	table := make([]domain.PercentilePoint, len(points))
	for i, p := range points {
		table[i] = domain.PercentilePoint{Percentile: p, Value: PercentileOf(sorted, p)}
	}
	return table
}

// RiskMetrics computes value-at-risk (5th percentile of balances) and the
// probability and average size of an income shortfall against target.
func RiskMetrics(balances, incomes []decimal.Decimal, target decimal.Decimal) domain.RiskMetrics {
	acc := NewAccumulator(target)
	for _, income := range incomes {
		acc.Add(income)
	}
	return domain.RiskMetrics{
		ValueAtRisk:          PercentileOf(SortedCopy(balances), 5),
		ShortfallProbability: acc.ShortfallProbability(),
		AverageShortfall:     acc.AverageShortfall(),
	}
}

// Accumulator collects the reducible statistics of a sample: count, sum,
// sum of squares, min, max and shortfall against a target. Accumulators from
// disjoint partitions can be merged in any order.
type Accumulator struct {
	Target     decimal.Decimal
	Count      int
	Sum        decimal.Decimal
	SumSquares decimal.Decimal
	Min        decimal.Decimal
	Max        decimal.Decimal
	Shortfalls int
	DeficitSum decimal.Decimal
}

// NewAccumulator creates an empty accumulator measuring shortfall against target.
func NewAccumulator(target decimal.Decimal) *Accumulator {
	return &Accumulator{Target: target, Sum: decimal.Zero, SumSquares: decimal.Zero, DeficitSum: decimal.Zero}
}

// Add records one observation.
func (a *Accumulator) Add(v decimal.Decimal) {
	if a.Count == 0 {
		a.Min, a.Max = v, v
	} else {
		a.Min = decimal.Min(a.Min, v)
		a.Max = decimal.Max(a.Max, v)
	}
	a.Count++
	a.Sum = a.Sum.Add(v)
	a.SumSquares = a.SumSquares.Add(v.Mul(v))
	if v.LessThan(a.Target) {
		a.Shortfalls++
		a.DeficitSum = a.DeficitSum.Add(a.Target.Sub(v))
	}
}

// Merge folds other into a. Both must share the same target.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil || other.Count == 0 {
		return
	}
	if a.Count == 0 {
		a.Min, a.Max = other.Min, other.Max
	} else {
		a.Min = decimal.Min(a.Min, other.Min)
		a.Max = decimal.Max(a.Max, other.Max)
	}
	a.Count += other.Count
	a.Sum = a.Sum.Add(other.Sum)
	a.SumSquares = a.SumSquares.Add(other.SumSquares)
	a.Shortfalls += other.Shortfalls
	a.DeficitSum = a.DeficitSum.Add(other.DeficitSum)
}

// Stats returns the distribution statistics of everything added so far.
func (a *Accumulator) Stats() domain.DistributionStats {
	if a.Count == 0 {
		return domain.DistributionStats{}
	}
	n := decimal.NewFromInt(int64(a.Count))
	mean := a.Sum.DivRound(n, workingScale)
	variance := a.SumSquares.DivRound(n, workingScale).Sub(mean.Mul(mean))
	return domain.DistributionStats{
		Count:  a.Count,
		Mean:   RoundMoney(mean),
		StdDev: RoundMoney(sqrt(variance)),
		Min:    a.Min,
		Max:    a.Max,
	}
}

// ShortfallProbability is the fraction of observations below target, to
// four places.
func (a *Accumulator) ShortfallProbability() decimal.Decimal {
	if a.Count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(a.Shortfalls)).DivRound(decimal.NewFromInt(int64(a.Count)), 4)
}

// AverageShortfall is the mean deficit of the observations below target.
func (a *Accumulator) AverageShortfall() decimal.Decimal {
	if a.Shortfalls == 0 {
		return decimal.Zero
	}
	return RoundMoney(a.DeficitSum.DivRound(decimal.NewFromInt(int64(a.Shortfalls)), workingScale))
}
