package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ProfileTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common retirement what-ifs
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Retirement timing
	for _, years := range []int{1, 2, 3, 5} {
		registry.Register(Template{
			Name:        fmt.Sprintf("postpone_%dyr", years),
			Description: fmt.Sprintf("Postpone retirement by %d year(s)", years),
			Transforms:  []ProfileTransform{&PostponeRetirement{Years: years}},
		})
	}

	// Market assumptions
	registry.Register(Template{
		Name:        "market_pessimistic",
		Description: "Expected return of 4%",
		Transforms:  []ProfileTransform{&SetReturnRate{Rate: decimal.NewFromFloat(0.04)}},
	})
	registry.Register(Template{
		Name:        "market_optimistic",
		Description: "Expected return of 9%",
		Transforms:  []ProfileTransform{&SetReturnRate{Rate: decimal.NewFromFloat(0.09)}},
	})
	registry.Register(Template{
		Name:        "market_high_inflation",
		Description: "Inflation of 4%",
		Transforms:  []ProfileTransform{&SetInflationRate{Rate: decimal.NewFromFloat(0.04)}},
	})

	// Savings
	for _, pct := range []int64{10, 15, 20} {
		registry.Register(Template{
			Name:        fmt.Sprintf("save_%dpct", pct),
			Description: fmt.Sprintf("Contribute %d%% of income to the employer plan", pct),
			Transforms:  []ProfileTransform{&SetContributionRate{Rate: decimal.NewFromInt(pct).Div(decimal.NewFromInt(100))}},
		})
	}

	// Combination strategies
	registry.Register(Template{
		Name:        "conservative",
		Description: "Conservative: postpone 2 years, 5% return, 3.5% inflation",
		Transforms: []ProfileTransform{
			&PostponeRetirement{Years: 2},
			&SetReturnRate{Rate: decimal.NewFromFloat(0.05)},
			&SetInflationRate{Rate: decimal.NewFromFloat(0.035)},
		},
	})
	registry.Register(Template{
		Name:        "aggressive",
		Description: "Aggressive: save 15% of income, 8% return",
		Transforms: []ProfileTransform{
			&SetContributionRate{Rate: decimal.NewFromFloat(0.15)},
			&SetReturnRate{Rate: decimal.NewFromFloat(0.08)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base profile
func ApplyTemplate(base domain.RetirementProfile, template Template) (domain.RetirementProfile, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	order := []string{"Retirement Timing", "Market Assumptions", "Savings", "Combination Strategies"}
	categories := map[string][]Template{}

	for _, name := range registry.List() {
		template := registry.templates[name]
		switch {
		case strings.HasPrefix(name, "postpone_"):
			categories["Retirement Timing"] = append(categories["Retirement Timing"], template)
		case strings.HasPrefix(name, "market_"):
			categories["Market Assumptions"] = append(categories["Market Assumptions"], template)
		case strings.HasPrefix(name, "save_"):
			categories["Savings"] = append(categories["Savings"], template)
		default:
			categories["Combination Strategies"] = append(categories["Combination Strategies"], template)
		}
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  finplan retire whatif plan.yaml --template postpone_2yr,save_15pct\n")
	sb.WriteString("  finplan retire whatif plan.yaml --with set_return:rate=0.05\n")

	return sb.String()
}
