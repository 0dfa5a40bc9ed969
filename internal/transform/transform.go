package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/finplan/internal/domain"
)

// ProfileTransform defines the interface for all profile transformations.
// Transforms are composable operations that modify a retirement profile in
// predictable ways, enabling what-if comparison, the solver and the
// interactive explorer.
type ProfileTransform interface {
	// Apply returns a modified copy of base. base itself is never changed.
	Apply(base domain.RetirementProfile) (domain.RetirementProfile, error)

	// Name returns a short identifier for this transform (e.g., "postpone_retirement").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform parameters against base without applying it.
	Validate(base domain.RetirementProfile) error
}

// ApplyTransforms applies a sequence of transforms to a base profile.
// Transforms are applied in order, each receiving the output of the previous
// one. The returned profile is always a copy.
func ApplyTransforms(base domain.RetirementProfile, transforms []ProfileTransform) (domain.RetirementProfile, error) {
	current := base

	for i, t := range transforms {
		if t == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := t.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}

		next, err := t.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}

		current = next
	}

	return current, nil
}

// Describe joins the descriptions of a transform list.
func Describe(transforms []ProfileTransform) string {
	parts := make([]string, 0, len(transforms))
	for _, t := range transforms {
		parts = append(parts, t.Description())
	}
	return strings.Join(parts, "; ")
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
