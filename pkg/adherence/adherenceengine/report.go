package adherenceengine

import (
	"log/slog"
	"time"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// StudyAdherenceReportGenerator merges the event streams of a participant into the
// week-bucketed study adherence report. It holds no state between calls and is safe for
// concurrent use.
type StudyAdherenceReportGenerator struct {
	eventStreams EventStreamReportGenerator
	progress     ProgressCalculator
	percentage   PercentageCalculator
}

// NewStudyAdherenceReportGenerator uses the default calculators when progress or percentage is nil.
func NewStudyAdherenceReportGenerator(
	eventStreams EventStreamReportGenerator,
	progress ProgressCalculator,
	percentage PercentageCalculator,
) *StudyAdherenceReportGenerator {
	if progress == nil {
		progress = CalculateProgress
	}
	if percentage == nil {
		percentage = CalculateAdherencePercentage
	}
	return &StudyAdherenceReportGenerator{
		eventStreams: eventStreams,
		progress:     progress,
		percentage:   percentage,
	}
}

// Generate builds the report for the state. Errors of the event stream generator are returned
// unchanged. If the study start date cannot be resolved the result is an empty NO_SCHEDULE report.
func (g *StudyAdherenceReportGenerator) Generate(state types.AdherenceState) (*types.StudyAdherenceReport, error) {
	start := time.Now()

	eventReport, err := g.eventStreams.Generate(state)
	if err != nil {
		return nil, err
	}

	loc := state.Location()
	today := state.Today()

	report := &types.StudyAdherenceReport{
		Participant:    state.Participant,
		TestAccount:    state.TestAccount,
		ClientTimeZone: loc.String(),
		CreatedOn:      state.Now.In(loc),
		Timestamp:      state.Now.UTC(),
		Weeks:          []types.WeekBucket{},
	}

	studyStart, anchored := resolveStudyStartDate(state, eventReport)
	var anchor *types.LocalDate
	if anchored {
		anchor = studyStart.Ptr()
	}

	timeline := mergeTimeline(state, eventReport, anchor)
	report.UnsetEventIDs = timeline.sortedUnsetEventIDs()
	report.UnscheduledSessions = timeline.sortedUnscheduledSessions()
	report.EventTimestamps = timeline.eventTimestamps

	if !anchored {
		slog.Debug("study start date could not be resolved",
			slog.String("participantID", state.Participant.ParticipantID),
			slog.String("studyStartEventID", state.StudyStartEventID),
		)
		report.Progression = types.PROGRESSION_NO_SCHEDULE
		return report, nil
	}

	weeks := bucketWeeks(timeline, studyStart)
	for i := range weeks {
		padWeek(&weeks[i], today)
		if !weeks[i].StartDate.After(today) {
			score := g.percentage(&weeks[i].ByDayEntries)
			weeks[i].AdherencePercent = &score
		}
	}

	report.Progression = g.progress(state, eventReport.Streams)
	if report.Progression != types.PROGRESSION_NO_SCHEDULE {
		score := g.percentage(timeline.grid())
		report.AdherencePercent = &score
	}

	if _, ok := findCurrentWeek(weeks, today); !ok {
		report.NextActivity = findNextActivity(weeks, today)
	}
	snapshot := buildWeekSnapshot(weeks, studyStart, today, g.percentage)

	for i := range weeks {
		sanitizeWeek(&weeks[i], &today)
	}
	sanitizeWeek(&snapshot, nil)

	report.DateRange = studyDateRange(studyStart, eventReport, timeline)
	report.Weeks = weeks
	report.WeekReport = &snapshot

	slog.Debug("study adherence report generated",
		slog.String("participantID", state.Participant.ParticipantID),
		slog.Int("weeks", len(weeks)),
		slog.String("duration", time.Since(start).String()),
	)
	return report, nil
}

// sanitizeWeek removes day fields the consumer gets from the rows. Window identity is kept
// so the report can be matched back to persisted adherence records. With a non-nil today the
// today flag of every day is reset against it.
func sanitizeWeek(week *types.WeekBucket, today *types.LocalDate) {
	for dow := range week.ByDayEntries {
		for i := range week.ByDayEntries[dow] {
			day := &week.ByDayEntries[dow][i]
			day.StudyBurstID = ""
			day.StudyBurstNum = nil
			day.SessionName = ""
			day.Week = nil
			day.StartDay = nil
			for j := range day.TimeWindows {
				day.TimeWindows[j].EndDay = nil
			}
			if today != nil && day.IsScheduled() {
				day.Today = day.StartDate.Equal(*today)
			}
		}
	}
}

func studyDateRange(studyStart types.LocalDate, eventReport types.EventStreamReport, timeline *studyTimeline) *types.DateRange {
	var end *types.LocalDate
	if eventReport.DateRange != nil && !eventReport.DateRange.EndDate.IsZero() {
		end = eventReport.DateRange.EndDate.Ptr()
	} else if timeline.latestDate != nil {
		end = timeline.latestDate
	}
	if end == nil {
		return nil
	}
	return &types.DateRange{StartDate: studyStart, EndDate: *end}
}
