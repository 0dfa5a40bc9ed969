package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityVariable names a profile input swept by sensitivity analysis.
type SensitivityVariable string

const (
	VariableReturnRate       SensitivityVariable = "return_rate"
	VariableContributionRate SensitivityVariable = "contribution_rate"
	VariableInflationRate    SensitivityVariable = "inflation_rate"
)

// SensitivityVariables lists the tracked variables in report order.
var SensitivityVariables = []SensitivityVariable{
	VariableReturnRate,
	VariableContributionRate,
	VariableInflationRate,
}

// SensitivityPoint is the projection at one candidate value
type SensitivityPoint struct {
	Value          decimal.Decimal `json:"value"`
	FinalBalance   decimal.Decimal `json:"finalBalance"`
	RelativeChange decimal.Decimal `json:"relativeChange"` // fraction of the base balance
}

// VariableSensitivity holds the sweep for a single variable.
type VariableSensitivity struct {
	Variable SensitivityVariable `json:"variable"`
	Points   []SensitivityPoint  `json:"points"`
	Spread   decimal.Decimal     `json:"spread"` // max relative change minus min relative change
}

// SensitivityReport ranks the tracked variables by their effect on the
// projected balance.
type SensitivityReport struct {
	BaseBalance           decimal.Decimal       `json:"baseBalance"`
	Variables             []VariableSensitivity `json:"variables"`
	MostSensitiveVariable SensitivityVariable   `json:"mostSensitiveVariable"`
}

// Variable returns the sweep for v, or nil when v was not analyzed.
func (r *SensitivityReport) Variable(v SensitivityVariable) *VariableSensitivity {
	for i := range r.Variables {
		if r.Variables[i].Variable == v {
			return &r.Variables[i]
		}
	}
	return nil
}
