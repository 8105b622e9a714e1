package adherenceengine

import (
	"errors"
	"testing"
	"time"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

const testStudyStartEvent = "enrollment"

var testStudyStart = types.NewLocalDate(2024, time.January, 1)

func intPtr(v int) *int { return &v }

func timeOf(d types.LocalDate, hour int) time.Time {
	t, _ := time.Parse(types.LOCAL_DATE_LAYOUT, d.String())
	return t.Add(time.Duration(hour) * time.Hour)
}

func testDay(session string, event string, date *types.LocalDate, windows ...types.TimeWindow) types.ScheduledDay {
	return types.ScheduledDay{
		SessionGuid:  session,
		SessionName:  "Session " + session,
		StartEventID: event,
		StartDate:    date,
		TimeWindows:  windows,
	}
}

func testWindow(id string, state types.SessionCompletionState, endDate types.LocalDate) types.TimeWindow {
	return types.TimeWindow{
		SessionInstanceGuid: "instance-" + id,
		TimeWindowGuid:      "window-" + id,
		State:               state,
		EndDay:              intPtr(1),
		EndDate:             endDate.Ptr(),
	}
}

func testStream(event string, eventDate *types.LocalDate, days ...types.ScheduledDay) types.EventStream {
	s := types.EventStream{
		StartEventID: event,
		ByDayEntries: map[int][]types.ScheduledDay{},
	}
	if eventDate != nil {
		ts := timeOf(*eventDate, 9)
		s.EventTimestamp = &ts
	}
	for _, d := range days {
		offset := 0
		if d.StartDate != nil && eventDate != nil {
			offset = d.StartDate.DaysSince(*eventDate)
		}
		s.ByDayEntries[offset] = append(s.ByDayEntries[offset], d)
	}
	return s
}

func testState(today types.LocalDate, eventDates map[string]types.LocalDate) types.AdherenceState {
	timestamps := map[string]time.Time{}
	for event, date := range eventDates {
		timestamps[event] = timeOf(date, 9)
	}
	return types.AdherenceState{
		Participant:       types.ParticipantRef{ParticipantID: "p1", StudyKey: "study"},
		ClientTimeZone:    time.UTC,
		Now:               timeOf(today, 12),
		StudyStartEventID: testStudyStartEvent,
		EventTimestamps:   timestamps,
	}
}

func generateReport(t *testing.T, state types.AdherenceState, streams ...types.EventStream) *types.StudyAdherenceReport {
	t.Helper()
	g := NewStudyAdherenceReportGenerator(StaticEventStreamReport{Report: types.EventStreamReport{Streams: streams}}, nil, nil)
	report, err := g.Generate(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return report
}

type failingGenerator struct{}

var errGeneratorFailed = errors.New("generator failed")

func (failingGenerator) Generate(types.AdherenceState) (types.EventStreamReport, error) {
	return types.EventStreamReport{}, errGeneratorFailed
}

// checkWeekInvariants verifies the grid is dense and rows are unique.
func checkWeekInvariants(t *testing.T, week types.WeekBucket) {
	t.Helper()
	for dow, days := range week.ByDayEntries {
		if len(days) != len(week.Rows) {
			t.Errorf("week %d slot %d has %d entries for %d rows", week.WeekInStudy, dow, len(days), len(week.Rows))
		}
	}
	seen := map[[2]string]bool{}
	for _, r := range week.Rows {
		key := [2]string{r.SessionGuid, r.StartEventID}
		if seen[key] {
			t.Errorf("duplicate row %v in week %d", key, week.WeekInStudy)
		}
		seen[key] = true
	}
}
