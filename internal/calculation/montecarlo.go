package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// MonteCarloConfig holds the simulation parameters.
type MonteCarloConfig struct {
	Volatility decimal.Decimal // standard deviation of the annual return
	Trials     int
	Seed       int64
	Source     rand.Source // master source for per-trial seeds; Seed is used when nil and not reported otherwise
	Workers    int
}

// DefaultMonteCarloConfig returns 1000 trials at 15% volatility.
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{
		Volatility: domain.DefaultVolatility,
		Trials:     1000,
		Seed:       1,
		Workers:    runtime.NumCPU(),
	}
}

// MonteCarloSimulator runs randomized trials of annual returns through the
// monthly growth model.
type MonteCarloSimulator struct {
	projector *GrowthProjector
	Config    MonteCarloConfig
	Logger    Logger
}

// NewMonteCarloSimulator creates a simulator on top of projector.
func NewMonteCarloSimulator(projector *GrowthProjector, config MonteCarloConfig) *MonteCarloSimulator {
	if projector == nil {
		projector = NewGrowthProjector(domain.DefaultWithdrawalPolicy())
	}
	return &MonteCarloSimulator{projector: projector, Config: config, Logger: NopLogger{}}
}

// NormalDraw returns a standard normal variate using the Box–Muller
// transform. u1 is taken from (0,1] so the logarithm is always finite.
func NormalDraw(rng *rand.Rand) float64 {
	u1 := 1 - rng.Float64()
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

type trialInputs struct {
	years        int
	startBalance decimal.Decimal
	contribution decimal.Decimal
	meanReturn   decimal.Decimal
	volatility   decimal.Decimal
	incomeRate   decimal.Decimal
	fixedIncome  decimal.Decimal
}

// runTrial draws one annual return per year and compounds monthly. The
// buckets share the draw, so their sum compounds as a single stream.
func runTrial(in trialInputs, rng *rand.Rand) domain.SimulationTrial {
	balance := in.startBalance
	floor := one.Neg()
	for y := 0; y < in.years; y++ {
		z := decimal.NewFromFloat(NormalDraw(rng)).Round(10)
		annual := decimal.Max(floor, in.meanReturn.Add(in.volatility.Mul(z)))
		r := MonthlyRate(annual)
		for m := 0; m < 12; m++ {
			balance = StepMonth(balance, r, in.contribution)
		}
	}
	balance = RoundMoney(balance)
	income := RoundMoney(balance.Mul(in.incomeRate).DivRound(twelve, workingScale).Add(in.fixedIncome))
	return domain.SimulationTrial{FinalBalance: balance, MonthlyIncome: income}
}

// seedCheckInterval is how many seeds are drawn between context checks.
const seedCheckInterval = 4096

// Simulate runs trials independent trials for the profile. A trials value of
// zero uses the configured count. Per-trial seeds are drawn up front from
// the master source, so results do not depend on the worker count.
func (mc *MonteCarloSimulator) Simulate(ctx context.Context, p domain.RetirementProfile, trials int) (*domain.SimulationResult, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retirement profile: %w", err)
	}
	if trials == 0 {
		trials = mc.Config.Trials
	}
	if trials <= 0 {
		return nil, domain.NewValidationError("trials", "must be positive, got %d", trials)
	}
	if mc.Config.Volatility.IsNegative() {
		return nil, domain.NewValidationError("volatility", "must not be negative, got %s", mc.Config.Volatility.String())
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("simulation cancelled: %w", err)
	}

	empC, indC, otherC := MonthlyContributions(p)
	in := trialInputs{
		years:        p.YearsToRetirement(),
		startBalance: p.EmployerPlanBalance.Add(p.IndividualBalance).Add(p.OtherBalance),
		contribution: empC.Add(indC).Add(otherC),
		meanReturn:   p.ExpectedReturn,
		volatility:   mc.Config.Volatility,
		incomeRate:   mc.projector.Withdrawal.BaseRate,
		fixedIncome:  p.FixedMonthlyIncome,
	}
	target := RequiredMonthlyIncome(p)

	source, seed := mc.Config.Source, int64(0)
	if source == nil {
		source, seed = rand.NewSource(mc.Config.Seed), mc.Config.Seed
	}
	master := rand.New(source)
	seeds := make([]int64, trials)
	for i := range seeds {
		if i%seedCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("simulation cancelled: %w", err)
			}
		}
		seeds[i] = master.Int63()
	}

	workers := mc.Config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > trials {
		workers = trials
	}

	mc.Logger.Infof("monte carlo: %d trials, %d workers, volatility %s", trials, workers, in.volatility.String())

	results := make([]domain.SimulationTrial, trials)
	accumulators := make([]*Accumulator, workers)
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		acc := NewAccumulator(target)
		accumulators[w] = acc
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				trial := runTrial(in, rand.New(rand.NewSource(seeds[i])))
				results[i] = trial
				acc.Add(trial.MonthlyIncome)
			}
		}()
	}

	var cancelled error
dispatch:
	for i := 0; i < trials; i++ {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if cancelled != nil {
		return nil, fmt.Errorf("simulation cancelled: %w", cancelled)
	}

	incomes := NewAccumulator(target)
	for _, acc := range accumulators {
		incomes.Merge(acc)
	}

	balances := make([]decimal.Decimal, trials)
	for i, t := range results {
		balances[i] = t.FinalBalance
	}

	successes := decimal.NewFromInt(int64(trials - incomes.Shortfalls))
	result := &domain.SimulationResult{
		Trials:              trials,
		Seed:                seed,
		Volatility:          in.volatility,
		TargetMonthlyIncome: target,
		SuccessRate:         successes.DivRound(decimal.NewFromInt(int64(trials)), 4),
		BalanceStats:        Summarize(balances),
		IncomeStats:         incomes.Stats(),
		Percentiles:         Percentiles(balances, DefaultPercentilePoints),
		Risk: domain.RiskMetrics{
			ValueAtRisk:          PercentileOf(SortedCopy(balances), 5),
			ShortfallProbability: incomes.ShortfallProbability(),
			AverageShortfall:     incomes.AverageShortfall(),
		},
	}
	result.Recommendations = SimulationRecommendations(result.SuccessRate, result.Risk.ShortfallProbability)
	return result, nil
}

// Recommendation thresholds, as fractions.
var (
	lowSuccessRate       = decimal.NewFromFloat(0.70)
	highShortfallRisk    = decimal.NewFromFloat(0.30)
	excellentSuccessRate = decimal.NewFromFloat(0.90)
)

// SimulationRecommendations turns success rate and shortfall probability
// into advice.
func SimulationRecommendations(successRate, shortfallProbability decimal.Decimal) []string {
	var recs []string
	if successRate.LessThan(lowSuccessRate) {
		recs = append(recs, "Consider increasing your retirement contributions to improve success rate")
	}
	if shortfallProbability.GreaterThan(highShortfallRisk) {
		recs = append(recs, "High shortfall risk detected - consider more conservative planning assumptions")
	}
	if successRate.GreaterThan(excellentSuccessRate) {
		recs = append(recs, "Excellent retirement readiness - consider optimizing for tax efficiency")
	}
	return append(recs, "Review and adjust your plan annually based on market conditions and life changes")
}
