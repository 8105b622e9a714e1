package adherenceengine

import (
	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// EventStreamReportGenerator computes the per-event-stream adherence of a participant.
type EventStreamReportGenerator interface {
	Generate(state types.AdherenceState) (types.EventStreamReport, error)
}

// ProgressCalculator derives the overall progression of a participant from the event streams.
type ProgressCalculator func(state types.AdherenceState, streams []types.EventStream) types.Progression

// PercentageCalculator returns a 0-100 adherence score from the time windows of a grid.
type PercentageCalculator func(grid *types.DayGrid) int

// StaticEventStreamReport serves a per-event-stream report that was computed elsewhere.
type StaticEventStreamReport struct {
	Report types.EventStreamReport
}

func (s StaticEventStreamReport) Generate(_ types.AdherenceState) (types.EventStreamReport, error) {
	return s.Report, nil
}
