package adherenceengine

import (
	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// CalculateAdherencePercentage scores the completed windows against all windows that were
// (or still are) actionable. Windows that are not applicable or not yet available are ignored.
// A grid without any actionable window scores 100.
func CalculateAdherencePercentage(grid *types.DayGrid) int {
	if grid == nil {
		return 100
	}

	compliant := 0
	noncompliant := 0
	unknown := 0
	for _, days := range grid {
		for _, day := range days {
			for _, window := range day.TimeWindows {
				switch {
				case window.State.IsCompliant():
					compliant++
				case window.State.IsNoncompliant():
					noncompliant++
				case window.State.IsStillOpen():
					unknown++
				}
			}
		}
	}

	total := compliant + noncompliant + unknown
	if total == 0 {
		return 100
	}
	return (compliant * 100) / total
}

// CalculateProgress reports NO_SCHEDULE when no scheduled day carries an applicable window,
// UNSTARTED when nothing is available yet, IN_PROGRESS while anything is pending, and DONE otherwise.
func CalculateProgress(_ types.AdherenceState, streams []types.EventStream) types.Progression {
	applicable := 0
	notYetAvailable := 0
	pending := 0

	for _, stream := range streams {
		for _, days := range stream.ByDayEntries {
			for _, day := range days {
				if !day.IsScheduled() {
					continue
				}
				for _, window := range day.TimeWindows {
					if window.State == types.SESSION_STATE_NOT_APPLICABLE || window.State == "" {
						continue
					}
					applicable++
					if window.State == types.SESSION_STATE_NOT_YET_AVAILABLE {
						notYetAvailable++
						pending++
					} else if window.State.IsStillOpen() {
						pending++
					}
				}
			}
		}
	}

	switch {
	case applicable == 0:
		return types.PROGRESSION_NO_SCHEDULE
	case notYetAvailable == applicable:
		return types.PROGRESSION_UNSTARTED
	case pending > 0:
		return types.PROGRESSION_IN_PROGRESS
	default:
		return types.PROGRESSION_DONE
	}
}
