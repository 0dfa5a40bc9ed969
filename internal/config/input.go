package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return config, nil
}

// Parse decodes and validates configuration bytes. Unknown keys are
// rejected so that a misspelled field does not silently fall back to zero.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationError("configuration", "input is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Loans) == 0 && config.Profile == nil && len(config.Goals) == 0 {
		return domain.NewValidationError("configuration", "must contain loans, a profile or goals")
	}

	if err := ip.validateLoans(config.Loans); err != nil {
		return err
	}

	if config.Profile != nil {
		if err := config.Profile.Validate(); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}

	for i, goal := range config.Goals {
		if err := goal.Validate(); err != nil {
			return fmt.Errorf("goal %d (%s): %w", i, goal.Name, err)
		}
	}

	if err := ip.validateSettings(&config.Settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// validateLoans validates every loan and rejects duplicate IDs
func (ip *InputParser) validateLoans(loans []domain.LoanAccount) error {
	seen := make(map[string]bool, len(loans))
	for i, loan := range loans {
		if err := loan.Validate(); err != nil {
			return fmt.Errorf("loan %d (%s): %w", i, loan.Label(), err)
		}
		if loan.ID == "" {
			continue
		}
		if seen[loan.ID] {
			return domain.NewValidationError("loans", "duplicate loan id %q", loan.ID)
		}
		seen[loan.ID] = true
	}
	return nil
}

// validateSettings checks the fields a user may set; zero values are left
// for Settings.WithDefaults
func (ip *InputParser) validateSettings(s *domain.Settings) error {
	if s.Amortization.MaxMonths < 0 {
		return domain.NewValidationError("amortization.max_months", "must not be negative, got %d", s.Amortization.MaxMonths)
	}

	one := decimal.NewFromInt(1)
	for _, r := range []struct {
		field string
		value decimal.Decimal
	}{
		{"withdrawal.base_rate", s.Withdrawal.BaseRate},
		{"withdrawal.long_horizon_rate", s.Withdrawal.LongHorizonRate},
	} {
		if r.value.IsNegative() || r.value.GreaterThan(one) {
			return domain.NewValidationError(r.field, "must be a fraction between 0 and 1, got %s", r.value.String())
		}
	}

	mc := s.MonteCarlo
	if mc.Trials < 0 {
		return domain.NewValidationError("monte_carlo.trials", "must not be negative, got %d", mc.Trials)
	}
	if mc.Workers < 0 {
		return domain.NewValidationError("monte_carlo.workers", "must not be negative, got %d", mc.Workers)
	}
	if mc.Volatility != nil && (mc.Volatility.IsNegative() || mc.Volatility.GreaterThan(one)) {
		return domain.NewValidationError("monte_carlo.volatility", "must be a fraction between 0 and 1, got %s", mc.Volatility.String())
	}

	w := s.GoalScoring.Weights
	sum := w.Urgency.Add(w.Impact).Add(w.Feasibility).Add(w.Cost)
	if !sum.IsZero() && !sum.Equal(one) {
		return domain.NewValidationError("goal_scoring.weights", "must sum to 1, got %s", sum.String())
	}
	if s.GoalScoring.DefaultTimelineMonths < 0 {
		return domain.NewValidationError("goal_scoring.default_timeline_months", "must not be negative, got %d", s.GoalScoring.DefaultTimelineMonths)
	}

	return nil
}
