package domain

import "github.com/shopspring/decimal"

// SimulationTrial is the outcome of one randomized trial. Trials are
// aggregated into a SimulationResult and then discarded.
type SimulationTrial struct {
	FinalBalance  decimal.Decimal `json:"finalBalance"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
}

// DistributionStats are the summary statistics of a sample.
type DistributionStats struct {
	Count  int             `json:"count"`
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"stdDev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
}

// PercentilePoint is one row of a percentile table.
type PercentilePoint struct {
	Percentile int             `json:"percentile"`
	Value      decimal.Decimal `json:"value"`
}

// RiskMetrics describes the downside of a simulated distribution.
type RiskMetrics struct {
	ValueAtRisk          decimal.Decimal `json:"valueAtRisk"`          // 5th percentile balance
	ShortfallProbability decimal.Decimal `json:"shortfallProbability"` // fraction of trials below target income
	AverageShortfall     decimal.Decimal `json:"averageShortfall"`     // mean monthly deficit of those trials
}

// SimulationResult aggregates a Monte Carlo run.
type SimulationResult struct {
	Trials              int               `json:"trials"`
	Seed                int64             `json:"seed"`
	Volatility          decimal.Decimal   `json:"volatility"`
	TargetMonthlyIncome decimal.Decimal   `json:"targetMonthlyIncome"`
	SuccessRate         decimal.Decimal   `json:"successRate"`
	BalanceStats        DistributionStats `json:"balanceStats"`
	IncomeStats         DistributionStats `json:"incomeStats"`
	Percentiles         []PercentilePoint `json:"percentiles"`
	Risk                RiskMetrics       `json:"risk"`
	Recommendations     []string          `json:"recommendations"`
}

// Percentile looks up a value in the percentile table.
func (r *SimulationResult) Percentile(p int) (decimal.Decimal, bool) {
	for _, pt := range r.Percentiles {
		if pt.Percentile == p {
			return pt.Value, true
		}
	}
	return decimal.Zero, false
}
