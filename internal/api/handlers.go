package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rgehrsitz/finplan/internal/breakeven"
	"github.com/rgehrsitz/finplan/internal/cache"
	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
	"github.com/shopspring/decimal"
)

type debtRequest struct {
	Loans             []domain.LoanAccount `json:"loans"`
	ExtraPayment      decimal.Decimal      `json:"extraPayment"`
	Strategy          string               `json:"strategy,omitempty"`
	ConsolidationRate decimal.Decimal      `json:"consolidationRate"`
	Settings          domain.Settings      `json:"settings"`
}

func (d debtRequest) strategy() (domain.PayoffStrategy, error) {
	if d.Strategy == "" {
		return domain.StrategyAvalanche, nil
	}
	return domain.ParseStrategy(d.Strategy)
}

type scenarioRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Transforms  []string `json:"transforms"` // "name:key=value,..." specs
}

type retirementRequest struct {
	Profile   *domain.RetirementProfile `json:"profile"`
	Settings  domain.Settings           `json:"settings"`
	Trials    int                       `json:"trials,omitempty"`
	Scenarios []scenarioRequest         `json:"scenarios,omitempty"`
	Templates []string                  `json:"templates,omitempty"`
}

func (rr retirementRequest) profile() (domain.RetirementProfile, error) {
	if rr.Profile == nil {
		return domain.RetirementProfile{}, domain.NewValidationError("profile", "is required")
	}
	return *rr.Profile, nil
}

type goalsRequest struct {
	Goals    []domain.SavingsGoal `json:"goals"`
	Settings domain.Settings      `json:"settings"`
}

type solveRequest struct {
	Profile       *domain.RetirementProfile `json:"profile"`
	Loans         []domain.LoanAccount      `json:"loans"`
	Target        string                    `json:"target"`
	Constraints   breakeven.Constraints     `json:"constraints"`
	MaxIterations int                       `json:"maxIterations,omitempty"`
	Tolerance     decimal.Decimal           `json:"tolerance"`
	Settings      domain.Settings           `json:"settings"`
}

func decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return domain.NewValidationError("body", "invalid request body: %v", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeDebt decodes a debt request and builds its engine.
func (s *Server) decodeDebt(w http.ResponseWriter, r *http.Request) (*debtRequest, *calculation.CalculationEngine, bool) {
	var req debtRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}
	return &req, s.engine(req.Settings, s.logEntry(r)), true
}

func (s *Server) handleDebtOptimize(w http.ResponseWriter, r *http.Request) {
	req, ce, ok := s.decodeDebt(w, r)
	if !ok {
		return
	}
	strategy, err := req.strategy()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := ce.Debts.Optimize(req.Loans, req.ExtraPayment, strategy)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDebtCompare(w http.ResponseWriter, r *http.Request) {
	req, ce, ok := s.decodeDebt(w, r)
	if !ok {
		return
	}
	comparison, err := ce.Debts.CompareStrategies(req.Loans, req.ExtraPayment)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) handleConsolidation(w http.ResponseWriter, r *http.Request) {
	req, ce, ok := s.decodeDebt(w, r)
	if !ok {
		return
	}
	report, err := ce.Debts.AnalyzeConsolidation(req.Loans, req.ConsolidationRate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAccelerate(w http.ResponseWriter, r *http.Request) {
	req, ce, ok := s.decodeDebt(w, r)
	if !ok {
		return
	}
	comparison, err := ce.Debts.ComparePaymentStrategies(req.Loans, req.ExtraPayment)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) handleWaterfall(w http.ResponseWriter, r *http.Request) {
	req, ce, ok := s.decodeDebt(w, r)
	if !ok {
		return
	}
	strategy, err := req.strategy()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	schedule, err := ce.Debts.SimulateWaterfall(req.Loans, req.ExtraPayment, strategy)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// decodeRetirement decodes a retirement request, requires a profile and
// builds the engine.
func (s *Server) decodeRetirement(w http.ResponseWriter, r *http.Request) (*retirementRequest, domain.RetirementProfile, *calculation.CalculationEngine, bool) {
	var req retirementRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return nil, domain.RetirementProfile{}, nil, false
	}
	profile, err := req.profile()
	if err != nil {
		s.fail(w, r, err)
		return nil, domain.RetirementProfile{}, nil, false
	}
	return &req, profile, s.engine(req.Settings, s.logEntry(r)), true
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	_, profile, ce, ok := s.decodeRetirement(w, r)
	if !ok {
		return
	}
	result, err := ce.Growth.ProjectPlan(profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleYearly(w http.ResponseWriter, r *http.Request) {
	_, profile, ce, ok := s.decodeRetirement(w, r)
	if !ok {
		return
	}
	rows, err := ce.Growth.YearlyProjections(profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleSimulation caches results only when the request pins a seed, since
// an unseeded run is not reproducible.
func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	req, profile, ce, ok := s.decodeRetirement(w, r)
	if !ok {
		return
	}
	log := s.logEntry(r)

	trials := req.Trials
	if trials == 0 {
		trials = ce.MonteCarlo.Config.Trials
	}
	if trials > s.maxTrials {
		s.fail(w, r, domain.NewValidationError("trials", "must not exceed %d, got %d", s.maxTrials, trials))
		return
	}

	var key string
	cacheable := s.cache != nil && req.Settings.MonteCarlo.Seed != nil
	if cacheable {
		k, err := cache.Key("simulation", req)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		key = k
		var cached domain.SimulationResult
		err = cache.GetJSON(r.Context(), s.cache, key, &cached)
		switch {
		case err == nil:
			log.WithField("key", key).Debug("simulation cache hit")
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, &cached)
			return
		case !errors.Is(err, cache.ErrMiss):
			log.WithError(err).Warn("simulation cache read failed")
		}
	}

	result, err := ce.MonteCarlo.Simulate(r.Context(), profile, req.Trials)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if cacheable {
		if err := cache.SetJSON(r.Context(), s.cache, key, result, s.cacheTTL); err != nil {
			log.WithError(err).Warn("simulation cache write failed")
		}
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	_, profile, ce, ok := s.decodeRetirement(w, r)
	if !ok {
		return
	}
	report, err := ce.Sensitivity.Analyze(profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	req, profile, ce, ok := s.decodeRetirement(w, r)
	if !ok {
		return
	}
	if len(req.Scenarios) == 0 && len(req.Templates) == 0 {
		s.fail(w, r, domain.NewValidationError("scenarios", "at least one scenario or template is required"))
		return
	}

	engine := compare.NewEngine(ce.Growth)
	engine.Logger = ce.Logger

	registry := transform.NewTransformRegistry()
	scenarios := make([]compare.Scenario, 0, len(req.Scenarios)+len(req.Templates))
	for _, sr := range req.Scenarios {
		transforms, err := registry.ParseTransformSpecs(sr.Transforms)
		if err != nil {
			s.fail(w, r, domain.NewValidationError("scenarios", "%s: %v", sr.Name, err))
			return
		}
		scenarios = append(scenarios, compare.Scenario{Name: sr.Name, Description: sr.Description, Transforms: transforms})
	}
	for _, name := range req.Templates {
		t, found := engine.TemplateRegistry.Get(name)
		if !found {
			s.fail(w, r, domain.NewValidationError("templates", "unknown template %q", name))
			return
		}
		scenarios = append(scenarios, compare.Scenario{Name: t.Name, Description: t.Description, Transforms: t.Transforms})
	}

	set, err := engine.WhatIf(r.Context(), profile, scenarios)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	target, err := breakeven.ParseTarget(req.Target)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	// Only the extra-payment search runs without a profile.
	if req.Profile == nil && target != breakeven.OptimizeExtraPayment {
		s.fail(w, r, domain.NewValidationError("profile", "is required"))
		return
	}

	solver := breakeven.NewDefaultSolver(s.engine(req.Settings, s.logEntry(r)))
	if target == breakeven.OptimizeAll {
		result, err := solver.OptimizeAll(r.Context(), *req.Profile, req.Loans, req.Constraints)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	optReq := breakeven.OptimizationRequest{
		Loans:         req.Loans,
		Target:        target,
		Constraints:   req.Constraints,
		MaxIterations: req.MaxIterations,
		Tolerance:     req.Tolerance,
	}
	if req.Profile != nil {
		optReq.Profile = *req.Profile
	}
	result, err := solver.Optimize(r.Context(), optReq)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePrioritize(w http.ResponseWriter, r *http.Request) {
	var req goalsRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	matrix, err := s.engine(req.Settings, s.logEntry(r)).Goals.BuildMatrix(req.Goals)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matrix)
}
