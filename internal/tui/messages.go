package tui

import "github.com/rgehrsitz/finplan/internal/domain"

// recalculatedMsg carries the results of one recalculation. Seq lets the
// model drop results that a later slider change has superseded.
type recalculatedMsg struct {
	Seq        int
	Projection *domain.ProjectionResult
	Yearly     []domain.YearlyProjectionRow
	Simulation *domain.SimulationResult
	Err        error
}
