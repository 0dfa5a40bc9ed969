package breakeven

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultConstraints(t *testing.T) {
	c := DefaultConstraints()

	if c.MinContribution == nil || !c.MinContribution.IsZero() {
		t.Errorf("Expected MinContribution 0, got %v", c.MinContribution)
	}
	if c.MaxContribution == nil || !c.MaxContribution.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected MaxContribution 10000, got %v", c.MaxContribution)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Expected default constraints to be valid, got %v", err)
	}
}

func TestConstraints_Validate(t *testing.T) {
	low := decimal.NewFromInt(500)
	high := decimal.NewFromInt(100)
	negative := decimal.NewFromInt(-1)
	sixty := 60
	fifty := 50

	tests := []struct {
		name    string
		c       Constraints
		wantErr bool
	}{
		{"empty", Constraints{}, false},
		{"contribution range inverted", Constraints{MinContribution: &low, MaxContribution: &high}, true},
		{"negative min contribution", Constraints{MinContribution: &negative}, true},
		{"age range inverted", Constraints{MinRetirementAge: &sixty, MaxRetirementAge: &fifty}, true},
		{"age range ok", Constraints{MinRetirementAge: &fifty, MaxRetirementAge: &sixty}, false},
		{"negative extra ceiling", Constraints{MaxExtraPayment: &negative}, true},
		{"negative payoff target", Constraints{TargetPayoffMonths: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(*BreakEvenError); !ok {
					t.Errorf("Expected BreakEvenError, got %T", err)
				}
			}
		})
	}
}

func TestDefaultSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()

	if !opts.Tolerance.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected $1 tolerance, got %s", opts.Tolerance)
	}
	if opts.MaxIterations != 50 {
		t.Errorf("Expected 50 iterations, got %d", opts.MaxIterations)
	}
}

func TestParseTarget(t *testing.T) {
	for _, name := range []string{"monthly_contribution", "retirement_age", "extra_payment", "all"} {
		target, err := ParseTarget(name)
		if err != nil {
			t.Errorf("ParseTarget(%q) unexpected error: %v", name, err)
		}
		if string(target) != name {
			t.Errorf("ParseTarget(%q) = %q", name, target)
		}
	}

	if _, err := ParseTarget("ss_age"); err == nil {
		t.Error("Expected error for unknown target")
	}
}

func TestBreakEvenError(t *testing.T) {
	err := &BreakEvenError{Operation: "test_op", Message: "test message"}
	if err.Error() != "test_op: test message" {
		t.Errorf("Unexpected error string: %s", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("Expected nil cause")
	}

	wrapped := &BreakEvenError{Operation: "test_op", Message: "test message", Cause: ErrTargetUnreachable}
	if wrapped.Error() != "test_op: test message: target not reachable within bounds" {
		t.Errorf("Unexpected error string: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, ErrTargetUnreachable) {
		t.Error("Expected wrapped error to match ErrTargetUnreachable")
	}
}
