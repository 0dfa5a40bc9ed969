package calculation

import (
	"runtime"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// CalculationEngine wires the engine components together with one set of
// settings. It holds no state between calls.
type CalculationEngine struct {
	Settings     domain.Settings
	Amortization *AmortizationEngine
	Debts        *DebtOptimizer
	Growth       *GrowthProjector
	MonteCarlo   *MonteCarloSimulator
	Sensitivity  *SensitivityAnalyzer
	Goals        *GoalPrioritizer
	Logger       Logger
}

// NewCalculationEngine creates an engine with default settings.
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithSettings(domain.Settings{})
}

// NewCalculationEngineWithSettings creates an engine from file settings.
// Unset fields take their defaults.
func NewCalculationEngineWithSettings(settings domain.Settings) *CalculationEngine {
	s := settings.WithDefaults()

	amortizer := NewAmortizationEngine(s.Amortization)
	growth := NewGrowthProjector(s.Withdrawal)
	ce := &CalculationEngine{
		Settings:     s,
		Amortization: amortizer,
		Debts:        NewDebtOptimizer(amortizer, s.DebtRecommendation),
		Growth:       growth,
		MonteCarlo:   NewMonteCarloSimulator(growth, MonteCarloConfigFromSettings(s.MonteCarlo)),
		Sensitivity:  NewSensitivityAnalyzer(growth, s.Sensitivity),
		Goals:        NewGoalPrioritizer(s.GoalScoring),
	}
	ce.SetLogger(nil)
	return ce
}

// MonteCarloConfigFromSettings converts file settings into a simulator
// config.
func MonteCarloConfigFromSettings(s domain.MonteCarloSettings) MonteCarloConfig {
	cfg := DefaultMonteCarloConfig()
	if s.Trials > 0 {
		cfg.Trials = s.Trials
	}
	if s.Volatility != nil {
		cfg.Volatility = *s.Volatility
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.Workers > 0 {
		cfg.Workers = s.Workers
	} else {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg
}

// SetLogger sets the logger on the engine and every component. A nil
// logger installs NopLogger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	l = orNop(l)
	ce.Logger = l
	ce.Amortization.Logger = l
	ce.Debts.Logger = l
	ce.Growth.Logger = l
	ce.MonteCarlo.Logger = l
	ce.Sensitivity.Logger = l
}
