package adherenceengine

import (
	"slices"
	"time"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// studyTimeline is the unified, study-start anchored view of all event streams.
type studyTimeline struct {
	byOffset            map[int][]types.ScheduledDay
	unsetEventIDs       map[string]struct{}
	unscheduledSessions map[string]struct{}
	eventTimestamps     map[string]time.Time
	latestDate          *types.LocalDate
}

// resolveStudyStartDate prefers the canonical study start event, then the earliest event
// of the report. ok is false if neither ever fired.
func resolveStudyStartDate(state types.AdherenceState, report types.EventStreamReport) (startDate types.LocalDate, ok bool) {
	loc := state.Location()
	if ts, found := state.TimestampFor(state.StudyStartEventID); found {
		return types.LocalDateOf(ts, loc), true
	}
	if report.EarliestEventID == "" {
		return startDate, false
	}
	if ts, found := state.TimestampFor(report.EarliestEventID); found {
		return types.LocalDateOf(ts, loc), true
	}
	for _, stream := range report.Streams {
		if stream.StartEventID == report.EarliestEventID && stream.EventTimestamp != nil && !stream.EventTimestamp.IsZero() {
			return types.LocalDateOf(*stream.EventTimestamp, loc), true
		}
	}
	return startDate, false
}

// mergeTimeline projects every stream onto one day offset map. Days whose triggering event
// never fired are only recorded in the unset sets. With a nil studyStart no offsets are computed.
func mergeTimeline(state types.AdherenceState, report types.EventStreamReport, studyStart *types.LocalDate) *studyTimeline {
	tl := &studyTimeline{
		byOffset:            map[int][]types.ScheduledDay{},
		unsetEventIDs:       map[string]struct{}{},
		unscheduledSessions: map[string]struct{}{},
		eventTimestamps:     map[string]time.Time{},
	}

	for _, stream := range report.Streams {
		for _, streamOffset := range stream.SortedOffsets() {
			for _, entry := range stream.ByDayEntries[streamOffset] {
				day := entry.Copy()
				if day.StartEventID == "" {
					day.StartEventID = stream.StartEventID
				}

				if !day.IsScheduled() {
					tl.unsetEventIDs[day.StartEventID] = struct{}{}
					if day.SessionGuid != "" {
						tl.unscheduledSessions[day.SessionGuid] = struct{}{}
					}
					continue
				}

				if ts, ok := eventTimestampOf(state, stream, day.StartEventID); ok {
					tl.eventTimestamps[day.StartEventID] = ts.UTC()
				}
				if tl.latestDate == nil || day.StartDate.After(*tl.latestDate) {
					tl.latestDate = day.StartDate.Ptr()
				}

				if studyStart == nil {
					continue
				}
				offset := day.StartDate.DaysSince(*studyStart)
				day.StartDay = &offset
				tl.byOffset[offset] = append(tl.byOffset[offset], day)
			}
		}
	}
	return tl
}

func eventTimestampOf(state types.AdherenceState, stream types.EventStream, eventID string) (time.Time, bool) {
	if eventID == stream.StartEventID && stream.EventTimestamp != nil && !stream.EventTimestamp.IsZero() {
		return *stream.EventTimestamp, true
	}
	return state.TimestampFor(eventID)
}

func (tl *studyTimeline) sortedOffsets() []int {
	offsets := make([]int, 0, len(tl.byOffset))
	for offset := range tl.byOffset {
		offsets = append(offsets, offset)
	}
	slices.Sort(offsets)
	return offsets
}

// grid folds the whole timeline into one day-of-week grid for the overall score.
func (tl *studyTimeline) grid() *types.DayGrid {
	var grid types.DayGrid
	for _, offset := range tl.sortedOffsets() {
		dow := dayOfWeek(offset)
		grid[dow] = append(grid[dow], tl.byOffset[offset]...)
	}
	return &grid
}

func (tl *studyTimeline) sortedUnsetEventIDs() []string {
	return sortedKeys(tl.unsetEventIDs)
}

func (tl *studyTimeline) sortedUnscheduledSessions() []string {
	return sortedKeys(tl.unscheduledSessions)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
