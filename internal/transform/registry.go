package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI
// commands and request bodies.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ProfileTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("set_retirement_age", createSetRetirementAge)
	registry.Register("set_return", createSetReturnRate)
	registry.Register("set_inflation", createSetInflationRate)
	registry.Register("set_contribution_rate", createSetContributionRate)
	registry.Register("set_contribution", createSetMonthlyContribution)
	registry.Register("set_fixed_income", createSetFixedIncome)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ProfileTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_contribution:bucket=individual,amount=500"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ProfileTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses a list of specs in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]ProfileTransform, error) {
	transforms := make([]ProfileTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return transforms, nil
}

// Factory functions for each transform

func intParam(transform string, params map[string]string, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createPostponeRetirement(params map[string]string) (ProfileTransform, error) {
	years, err := intParam("postpone_retirement", params, "years")
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createSetRetirementAge(params map[string]string) (ProfileTransform, error) {
	age, err := intParam("set_retirement_age", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetRetirementAge{Age: age}, nil
}

func createSetReturnRate(params map[string]string) (ProfileTransform, error) {
	rate, err := decimalParam("set_return", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetReturnRate{Rate: rate}, nil
}

func createSetInflationRate(params map[string]string) (ProfileTransform, error) {
	rate, err := decimalParam("set_inflation", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetInflationRate{Rate: rate}, nil
}

func createSetContributionRate(params map[string]string) (ProfileTransform, error) {
	rate, err := decimalParam("set_contribution_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetContributionRate{Rate: rate}, nil
}

func createSetMonthlyContribution(params map[string]string) (ProfileTransform, error) {
	amount, err := decimalParam("set_contribution", params, "amount")
	if err != nil {
		return nil, err
	}
	bucket, ok := params["bucket"]
	if !ok {
		bucket = BucketEmployerPlan
	}
	return &SetMonthlyContribution{Bucket: bucket, Amount: amount}, nil
}

func createSetFixedIncome(params map[string]string) (ProfileTransform, error) {
	amount, err := decimalParam("set_fixed_income", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetFixedIncome{Amount: amount}, nil
}
