package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostponeRetirement(t *testing.T) {
	base := createTestProfile()

	tests := []struct {
		name    string
		years   int
		wantAge int
		wantErr bool
	}{
		{"zero years", 0, 65, false},
		{"one year", 1, 66, false},
		{"up to life expectancy", 25, 90, false},
		{"past life expectancy", 26, 0, true},
		{"negative", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := &PostponeRetirement{Years: tt.years}
			err := pt.Validate(base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			result, err := pt.Apply(base)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAge, result.RetirementAge)
			assert.Equal(t, 65, base.RetirementAge)
		})
	}
}

func TestPostponeRetirement_Metadata(t *testing.T) {
	pt := &PostponeRetirement{Years: 3}
	assert.Equal(t, "postpone_retirement", pt.Name())
	assert.Equal(t, "Postpone retirement by 3 years", pt.Description())
}

func TestSetRetirementAge(t *testing.T) {
	base := createTestProfile()

	tests := []struct {
		name    string
		age     int
		wantErr bool
	}{
		{"earlier", 60, false},
		{"now", 40, false},
		{"before current age", 39, true},
		{"after life expectancy", 91, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sra := &SetRetirementAge{Age: tt.age}
			result, err := ApplyTransforms(base, []ProfileTransform{sra})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, base, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.age, result.RetirementAge)
			assert.NoError(t, result.Validate())
		})
	}

	assert.Equal(t, "set_retirement_age", (&SetRetirementAge{}).Name())
	assert.Equal(t, "Retire at age 62", (&SetRetirementAge{Age: 62}).Description())
}
