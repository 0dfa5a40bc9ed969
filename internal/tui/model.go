package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
	"github.com/rgehrsitz/finplan/internal/tui/components"
	"github.com/rgehrsitz/finplan/internal/tui/tuistyles"
)

const (
	sliderReturn = iota
	sliderContribution
	sliderRetirementAge
	sliderVolatility
)

// DefaultTrials is the Monte Carlo trial count run on every slider change.
const DefaultTrials = 200

// Model is the interactive retirement planner. Each slider change
// re-projects the adjusted profile and re-runs a small seeded simulation.
type Model struct {
	base   domain.RetirementProfile
	engine *calculation.CalculationEngine
	trials int
	seed   int64

	sliders []*components.ParameterSlider
	initial []decimal.Decimal
	focused int

	seq            int
	calculating    bool
	baseProjection *domain.ProjectionResult
	projection     *domain.ProjectionResult
	yearly         []domain.YearlyProjectionRow
	simulation     *domain.SimulationResult
	err            error

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// NewModel builds the planner for a loaded profile. The loaded profile is
// projected once up front as the reference for every delta shown.
func NewModel(profile domain.RetirementProfile, settings domain.Settings) (Model, error) {
	engine := calculation.NewCalculationEngineWithSettings(settings)
	baseProjection, err := engine.Growth.ProjectPlan(profile)
	if err != nil {
		return Model{}, fmt.Errorf("failed to project loaded profile: %w", err)
	}

	m := Model{
		base:           profile,
		engine:         engine,
		trials:         DefaultTrials,
		seed:           engine.MonteCarlo.Config.Seed,
		baseProjection: baseProjection,
		projection:     baseProjection,
		keys:           defaultKeyMap(),
		help:           help.New(),
		width:          80,
		height:         24,
		seq:            1,
		calculating:    true,
	}
	m.sliders = buildSliders(profile, engine.MonteCarlo.Config.Volatility)
	for _, s := range m.sliders {
		m.initial = append(m.initial, s.Value)
	}
	m.sliders[m.focused].IsFocused = true
	return m, nil
}

func buildSliders(p domain.RetirementProfile, volatility decimal.Decimal) []*components.ParameterSlider {
	contributionMax := decimal.Max(decimal.NewFromInt(5000), p.EmployerPlanContribution.Mul(decimal.NewFromInt(2)))
	years := func(d decimal.Decimal) string { return d.String() + " yrs" }

	return []*components.ParameterSlider{
		sliderReturn: components.NewParameterSlider("Expected Return", p.ExpectedReturn,
			decimal.Zero, decimal.RequireFromString("0.12"), decimal.RequireFromString("0.005")).
			WithFormat(tuistyles.FormatPercentage).
			WithDescription("Average annual return before retirement"),
		sliderContribution: components.NewParameterSlider("Monthly Contribution", p.EmployerPlanContribution,
			decimal.Zero, contributionMax, decimal.NewFromInt(50)).
			WithFormat(tuistyles.FormatCurrency).
			WithDescription("Employee contribution to the employer plan"),
		sliderRetirementAge: components.NewParameterSlider("Retirement Age", decimal.NewFromInt(int64(p.RetirementAge)),
			decimal.NewFromInt(int64(p.CurrentAge)), decimal.NewFromInt(int64(p.LifeExpectancy)), decimal.NewFromInt(1)).
			WithFormat(years).
			WithDescription("Age contributions stop and withdrawals begin"),
		sliderVolatility: components.NewParameterSlider("Volatility", volatility,
			decimal.Zero, decimal.RequireFromString("0.40"), decimal.RequireFromString("0.01")).
			WithFormat(tuistyles.FormatPercentage).
			WithDescription("Standard deviation of annual returns in the simulation"),
	}
}

// Profile returns the loaded profile with the slider values applied.
func (m Model) Profile() (domain.RetirementProfile, error) {
	return transform.ApplyTransforms(m.base, []transform.ProfileTransform{
		&transform.SetReturnRate{Rate: m.sliders[sliderReturn].Value},
		&transform.SetMonthlyContribution{Bucket: transform.BucketEmployerPlan, Amount: m.sliders[sliderContribution].Value},
		&transform.SetRetirementAge{Age: m.sliders[sliderRetirementAge].IntValue()},
	})
}

func (m Model) Init() tea.Cmd {
	return m.calculateCmd()
}

// calculateCmd runs the engine for the current slider values off the
// update loop, tagged with the current sequence number.
func (m Model) calculateCmd() tea.Cmd {
	seq := m.seq
	profile, err := m.Profile()
	if err != nil {
		return func() tea.Msg { return recalculatedMsg{Seq: seq, Err: err} }
	}

	cfg := m.engine.MonteCarlo.Config
	cfg.Volatility = m.sliders[sliderVolatility].Value
	cfg.Trials = m.trials
	cfg.Seed = m.seed
	cfg.Source = nil
	growth := m.engine.Growth

	return func() tea.Msg {
		return calculate(seq, growth, cfg, profile)
	}
}

func calculate(seq int, growth *calculation.GrowthProjector, cfg calculation.MonteCarloConfig, p domain.RetirementProfile) recalculatedMsg {
	msg := recalculatedMsg{Seq: seq}
	if msg.Projection, msg.Err = growth.ProjectPlan(p); msg.Err != nil {
		return msg
	}
	if msg.Yearly, msg.Err = growth.YearlyProjections(p); msg.Err != nil {
		return msg
	}
	msg.Simulation, msg.Err = calculation.NewMonteCarloSimulator(growth, cfg).Simulate(context.Background(), p, cfg.Trials)
	return msg
}
