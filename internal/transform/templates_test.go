package transform

import (
	"strings"
	"testing"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
		Transforms:  []ProfileTransform{},
	}

	registry.Register(template)

	// Test exact match
	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	// Test case-insensitive
	if _, ok = registry.Get("TEST_TEMPLATE"); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}

	// Test not found
	if _, ok = registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestTemplateRegistry_List(t *testing.T) {
	registry := NewTemplateRegistry()

	registry.Register(Template{Name: "template2", Description: "Second"})
	registry.Register(Template{Name: "template1", Description: "First"})

	names := registry.List()
	if len(names) != 2 {
		t.Fatalf("Expected 2 templates, got %d", len(names))
	}
	if names[0] != "template1" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	expected := []string{
		"postpone_1yr", "postpone_2yr", "postpone_3yr", "postpone_5yr",
		"market_pessimistic", "market_optimistic", "market_high_inflation",
		"save_10pct", "save_15pct", "save_20pct",
		"conservative", "aggressive",
	}
	for _, name := range expected {
		template, ok := registry.Get(name)
		if !ok {
			t.Errorf("Expected built-in template %s", name)
			continue
		}
		if len(template.Transforms) == 0 {
			t.Errorf("Template %s has no transforms", name)
		}
	}

	if got := len(registry.List()); got != len(expected) {
		t.Errorf("Expected %d templates, got %d", len(expected), got)
	}
}

func TestApplyTemplate(t *testing.T) {
	base := createTestProfile()
	registry := CreateBuiltInTemplates()

	template, _ := registry.Get("postpone_2yr")
	result, err := ApplyTemplate(base, template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.RetirementAge != 67 {
		t.Errorf("Expected retirement age 67, got %d", result.RetirementAge)
	}
	if base.RetirementAge != 65 {
		t.Error("Base profile should not be modified")
	}
}

func TestApplyTemplate_Empty(t *testing.T) {
	base := createTestProfile()

	result, err := ApplyTemplate(base, Template{Name: "noop"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.RetirementAge != base.RetirementAge || !result.ExpectedReturn.Equal(base.ExpectedReturn) {
		t.Error("Empty template should return an unchanged copy")
	}
}

func TestBuiltInTemplate_Conservative(t *testing.T) {
	base := createTestProfile()
	template, _ := CreateBuiltInTemplates().Get("conservative")

	result, err := ApplyTemplate(base, template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.RetirementAge != 67 {
		t.Errorf("Expected retirement age 67, got %d", result.RetirementAge)
	}
	if !result.ExpectedReturn.Equal(dec("0.05")) {
		t.Errorf("Expected return 0.05, got %s", result.ExpectedReturn)
	}
	if !result.InflationRate.Equal(dec("0.035")) {
		t.Errorf("Expected inflation 0.035, got %s", result.InflationRate)
	}
}

func TestBuiltInTemplate_Aggressive(t *testing.T) {
	base := createTestProfile()
	template, _ := CreateBuiltInTemplates().Get("aggressive")

	result, err := ApplyTemplate(base, template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.EmployerPlanContribution.Equal(dec("900")) {
		t.Errorf("Expected employer contribution 900, got %s", result.EmployerPlanContribution)
	}
	if !result.ExpectedReturn.Equal(dec("0.08")) {
		t.Errorf("Expected return 0.08, got %s", result.ExpectedReturn)
	}
}

func TestParseTemplateList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"postpone_1yr", []string{"postpone_1yr"}},
		{"postpone_1yr, save_10pct", []string{"postpone_1yr", "save_10pct"}},
		{" a ,, b ,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := ParseTemplateList(tt.input)
		if len(got) != len(tt.expected) {
			t.Errorf("ParseTemplateList(%q) = %v, want %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("ParseTemplateList(%q)[%d] = %s, want %s", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	for _, want := range []string{
		"Available Templates:",
		"Retirement Timing:",
		"Market Assumptions:",
		"Savings:",
		"Combination Strategies:",
		"postpone_1yr",
		"conservative",
		"Usage:",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("Help text missing %q", want)
		}
	}

	if strings.Index(help, "Retirement Timing:") > strings.Index(help, "Savings:") {
		t.Error("Categories should be printed in a fixed order")
	}
}

func TestGetTemplateHelp_EmptyRegistry(t *testing.T) {
	if got := GetTemplateHelp(NewTemplateRegistry()); got != "No templates registered" {
		t.Errorf("Unexpected help for empty registry: %q", got)
	}
}
