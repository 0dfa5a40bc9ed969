package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Age",
		"Projected Balance",
		"Monthly Income",
		"Required Monthly Income",
		"Readiness",
		"Balance Diff from Base",
		"Balance % Change",
		"Income Diff from Base",
		"Income % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a scenario result as a CSV row; changes stay fractions
func (cf *CSVFormatter) formatRow(result *ScenarioResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.RetirementAge),
		result.ProjectedBalance.StringFixed(2),
		result.MonthlyIncome.StringFixed(2),
		result.RequiredMonthlyIncome.StringFixed(2),
		string(result.Readiness),
		result.BalanceDiffFromBase.StringFixed(2),
		result.BalancePctFromBase.StringFixed(4),
		result.IncomeDiffFromBase.StringFixed(2),
		result.IncomePctFromBase.StringFixed(4),
	}
}
