package adherenceengine

import (
	"slices"
	"testing"
	"time"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

func TestWeekIndexAndDayOfWeek(t *testing.T) {
	tests := []struct {
		offset      int
		expectedIdx int
		expectedDow int
	}{
		{offset: 0, expectedIdx: 0, expectedDow: 0},
		{offset: 6, expectedIdx: 0, expectedDow: 6},
		{offset: 7, expectedIdx: 1, expectedDow: 0},
		{offset: 15, expectedIdx: 2, expectedDow: 1},
		{offset: -1, expectedIdx: -1, expectedDow: 1},
		{offset: -7, expectedIdx: -1, expectedDow: 0},
		{offset: -8, expectedIdx: -2, expectedDow: 1},
	}
	for _, test := range tests {
		if got := weekIndex(test.offset); got != test.expectedIdx {
			t.Errorf("weekIndex(%d) = %d, expected %d", test.offset, got, test.expectedIdx)
		}
		if got := dayOfWeek(test.offset); got != test.expectedDow {
			t.Errorf("dayOfWeek(%d) = %d, expected %d", test.offset, got, test.expectedDow)
		}
	}
}

func TestResolveStudyStartDate(t *testing.T) {
	canonical := types.NewLocalDate(2024, 3, 1)
	earliest := types.NewLocalDate(2024, 2, 20)

	t.Run("canonical event", func(t *testing.T) {
		state := testState(canonical, map[string]types.LocalDate{testStudyStartEvent: canonical, "e": earliest})
		d, ok := resolveStudyStartDate(state, types.EventStreamReport{EarliestEventID: "e"})
		if !ok || !d.Equal(canonical) {
			t.Errorf("expected %s, got %s (%v)", canonical, d, ok)
		}
	})

	t.Run("earliest event from state", func(t *testing.T) {
		state := testState(canonical, map[string]types.LocalDate{"e": earliest})
		d, ok := resolveStudyStartDate(state, types.EventStreamReport{EarliestEventID: "e"})
		if !ok || !d.Equal(earliest) {
			t.Errorf("expected %s, got %s (%v)", earliest, d, ok)
		}
	})

	t.Run("earliest event from stream", func(t *testing.T) {
		state := testState(canonical, nil)
		d, ok := resolveStudyStartDate(state, types.EventStreamReport{
			EarliestEventID: "e",
			Streams:         []types.EventStream{testStream("e", earliest.Ptr())},
		})
		if !ok || !d.Equal(earliest) {
			t.Errorf("expected %s, got %s (%v)", earliest, d, ok)
		}
	})

	t.Run("unresolvable", func(t *testing.T) {
		state := testState(canonical, nil)
		if _, ok := resolveStudyStartDate(state, types.EventStreamReport{EarliestEventID: "e"}); ok {
			t.Error("expected no study start date")
		}
	})

	t.Run("uses the client time zone", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		if err != nil {
			t.Skipf("time zone database not available: %v", err)
		}
		state := testState(canonical, nil)
		state.ClientTimeZone = tokyo
		state.EventTimestamps[testStudyStartEvent] = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
		d, ok := resolveStudyStartDate(state, types.EventStreamReport{})
		if !ok || !d.Equal(types.NewLocalDate(2024, 3, 2)) {
			t.Errorf("expected 2024-03-02, got %s (%v)", d, ok)
		}
	})
}

func TestMergeTimeline(t *testing.T) {
	second := testStudyStart.AddDays(10)
	state := testState(testStudyStart, map[string]types.LocalDate{testStudyStartEvent: testStudyStart, "e2": second})
	report := types.EventStreamReport{Streams: []types.EventStream{
		testStream(testStudyStartEvent, testStudyStart.Ptr(),
			testDay("s1", "", testStudyStart.AddDays(2).Ptr()),
		),
		testStream("e2", second.Ptr(),
			testDay("s1", "e2", second.Ptr()),
			testDay("s2", "e2", second.AddDays(1).Ptr()),
		),
		testStream("e3", nil,
			testDay("s3", "e3", nil),
			testDay("s4", "e3", nil),
		),
	}}

	tl := mergeTimeline(state, report, testStudyStart.Ptr())

	if !slices.Equal(tl.sortedOffsets(), []int{2, 10, 11}) {
		t.Errorf("unexpected offsets: %v", tl.sortedOffsets())
	}
	first := tl.byOffset[2][0]
	if first.StartEventID != testStudyStartEvent {
		t.Errorf("missing event id should be taken from the stream, got %q", first.StartEventID)
	}
	if first.StartDay == nil || *first.StartDay != 2 {
		t.Errorf("unexpected day offset: %v", first.StartDay)
	}
	if !slices.Equal(tl.sortedUnsetEventIDs(), []string{"e3"}) {
		t.Errorf("unexpected unset events: %v", tl.sortedUnsetEventIDs())
	}
	if !slices.Equal(tl.sortedUnscheduledSessions(), []string{"s3", "s4"}) {
		t.Errorf("unexpected unscheduled sessions: %v", tl.sortedUnscheduledSessions())
	}
	if len(tl.eventTimestamps) != 2 {
		t.Errorf("unexpected event timestamps: %v", tl.eventTimestamps)
	}
	if tl.latestDate == nil || !tl.latestDate.Equal(second.AddDays(1)) {
		t.Errorf("unexpected latest date: %v", tl.latestDate)
	}

	grid := tl.grid()
	if len(grid[2]) != 1 || len(grid[3]) != 1 || len(grid[4]) != 1 {
		t.Errorf("unexpected overall grid: %+v", grid)
	}
}

func TestMergeTimelineWithoutAnchor(t *testing.T) {
	state := testState(testStudyStart, nil)
	report := types.EventStreamReport{Streams: []types.EventStream{
		testStream("e1", testStudyStart.Ptr(), testDay("s1", "e1", testStudyStart.Ptr()), testDay("s2", "e1", nil)),
	}}

	tl := mergeTimeline(state, report, nil)
	if len(tl.byOffset) != 0 {
		t.Errorf("no offsets expected without study start, got %v", tl.sortedOffsets())
	}
	if !slices.Equal(tl.sortedUnscheduledSessions(), []string{"s2"}) {
		t.Errorf("unexpected unscheduled sessions: %v", tl.sortedUnscheduledSessions())
	}
}
