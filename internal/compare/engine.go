package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
)

// BaseScenarioName labels the unmodified profile in a comparison.
const BaseScenarioName = "base"

// Engine orchestrates what-if comparison
type Engine struct {
	Projector         *calculation.GrowthProjector
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	Logger            calculation.Logger
}

// NewEngine creates a new comparison engine
func NewEngine(projector *calculation.GrowthProjector) *Engine {
	if projector == nil {
		projector = calculation.NewGrowthProjector(domain.DefaultWithdrawalPolicy())
	}
	return &Engine{
		Projector:         projector,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		Logger:            calculation.NopLogger{},
	}
}

// WhatIf projects the base profile and every named scenario, and compares
// each scenario with the base. The base profile is never modified.
func (e *Engine) WhatIf(ctx context.Context, base domain.RetirementProfile, scenarios []Scenario) (*ComparisonSet, error) {
	baseProjection, err := e.Projector.ProjectPlan(base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := e.MetricsCalculator.CalculateMetrics(BaseScenarioName, "Current plan", base, baseProjection)

	alternatives := make([]ScenarioResult, 0, len(scenarios))
	seen := map[string]bool{BaseScenarioName: true}

	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("what-if cancelled: %w", err)
		}
		if scenario.Name == "" {
			return nil, domain.NewValidationError("scenario", "name is required")
		}
		if seen[scenario.Name] {
			return nil, domain.NewValidationError("scenario", "duplicate scenario name %q", scenario.Name)
		}
		seen[scenario.Name] = true

		modified, err := transform.ApplyTransforms(base, scenario.Transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply scenario %s: %w", scenario.Name, err)
		}

		projection, err := e.Projector.ProjectPlan(modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", scenario.Name, err)
		}

		description := scenario.Description
		if description == "" {
			description = transform.Describe(scenario.Transforms)
		}
		altResult := e.MetricsCalculator.CalculateMetrics(scenario.Name, description, modified, projection)
		alternatives = append(alternatives, e.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   BaseScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		Summary:            Summarize(&baseResult, alternatives),
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	e.Logger.Debugf("what-if: %d scenarios, best %q, worst %q", len(alternatives), compSet.Summary.BestScenario, compSet.Summary.WorstScenario)
	return compSet, nil
}

// CompareTemplates runs WhatIf with built-in templates as the scenarios
func (e *Engine) CompareTemplates(ctx context.Context, base domain.RetirementProfile, templateNames []string) (*ComparisonSet, error) {
	scenarios := make([]Scenario, 0, len(templateNames))
	for _, name := range templateNames {
		template, ok := e.TemplateRegistry.Get(name)
		if !ok {
			return nil, domain.NewValidationError("template", "template %s not found", name)
		}
		scenarios = append(scenarios, Scenario{
			Name:        template.Name,
			Description: template.Description,
			Transforms:  template.Transforms,
		})
	}
	return e.WhatIf(ctx, base, scenarios)
}
