package breakeven

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
)

func sampleContributionResult() *OptimizationResult {
	contribution := decimal.RequireFromString("1731.62")
	return &OptimizationResult{
		Request:             OptimizationRequest{Target: OptimizeContribution},
		Success:             true,
		Iterations:          21,
		ConvergenceInfo:     "Converged within $1.00",
		OptimalContribution: &contribution,
		ChangeFromBase:      decimal.RequireFromString("731.62"),
		Projection: &domain.ProjectionResult{
			ProjectedBalance:      decimal.NewFromInt(1200000),
			MonthlyIncome:         decimal.NewFromInt(4000),
			RequiredMonthlyIncome: decimal.NewFromInt(4000),
			Readiness:             domain.ReadinessOnTrack,
		},
		BaseProjection: &domain.ProjectionResult{
			ProjectedBalance:      decimal.NewFromInt(700000),
			MonthlyIncome:         decimal.RequireFromString("2333.33"),
			RequiredMonthlyIncome: decimal.NewFromInt(4000),
			Readiness:             domain.ReadinessBehind,
		},
	}
}

func TestTableFormatter_Format_Contribution(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleContributionResult())

	for _, want := range []string{
		"BREAK-EVEN SOLVER RESULTS",
		"Target:              monthly_contribution",
		"✓ Converged",
		"Iterations:          21",
		"Monthly Contribution: $1731.62 (+$731.62 vs today)",
		"$1.20M",
		"$700.0K",
		"$2333.33",
		"ON_TRACK",
		"BEHIND",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "DEBT PAYOFF") {
		t.Error("Did not expect debt section for a contribution result")
	}
}

func TestTableFormatter_Format_ExtraPayment(t *testing.T) {
	extra := decimal.NewFromInt(250)
	result := &OptimizationResult{
		Request:             OptimizationRequest{Target: OptimizeExtraPayment, Constraints: Constraints{TargetPayoffMonths: 24}},
		OptimalExtraPayment: &extra,
		PayoffMonths:        24,
		TotalInterest:       decimal.NewFromInt(1500),
		BasePayoffMonths:    52,
		BaseTotalInterest:   decimal.NewFromInt(3900),
	}

	out := (&TableFormatter{}).Format(result)
	for _, want := range []string{
		"⚠ Did not converge",
		"Extra Debt Payment:   $250.00/month",
		"Target Months:         24",
		"Minimums Only:         52 months, $3900.00 interest",
		"Interest Saved:        $2400.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	result.BasePayoffMonths = 0
	out = (&TableFormatter{}).Format(result)
	if !strings.Contains(out, "never paid off") {
		t.Errorf("Expected never-paid-off note:\n%s", out)
	}
}

func TestTableFormatter_FormatMultiDimensional(t *testing.T) {
	age := 67
	md := &MultiDimensionalResult{
		Results: []OptimizationResult{
			*sampleContributionResult(),
			{Request: OptimizationRequest{Target: OptimizeRetirementAge}, Success: true, Iterations: 28, OptimalRetirementAge: &age},
		},
		Failures:        map[string]string{"extra_payment": "no amount meets the goal"},
		Recommendations: []string{"Retire at 67 (2 years later than planned) to reach ON_TRACK"},
	}

	out := (&TableFormatter{}).FormatMultiDimensional(md)
	for _, want := range []string{
		"BREAK-EVEN SOLVER SUMMARY",
		"$1731.62/month",
		"retire at 67",
		"UNREACHABLE TARGETS",
		"no amount meets the goal",
		"• Retire at 67",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := (&JSONFormatter{Pretty: true}).Format(sampleContributionResult())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if decoded["optimal_contribution"] != "1731.62" {
		t.Errorf("Expected optimal_contribution \"1731.62\", got %v", decoded["optimal_contribution"])
	}
	if _, ok := decoded["optimal_retirement_age"]; ok {
		t.Error("Expected unset parameters to be omitted")
	}

	compact, err := (&JSONFormatter{}).FormatMultiDimensional(&MultiDimensionalResult{Recommendations: []string{"x"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(compact, "\n") {
		t.Error("Expected compact JSON")
	}
}
