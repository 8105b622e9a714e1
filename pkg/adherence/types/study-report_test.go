package types

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func testWeek() WeekBucket {
	start := NewLocalDate(2024, time.January, 1)
	w := NewWeekBucket(1, start)
	w.AdherencePercent = intPtr(50)
	w.Rows = []Row{{
		Label:           "Daily / Week 1",
		SearchableLabel: ":Daily:Week 1:",
		SessionGuid:     "s1",
		SessionName:     "Daily",
		StartEventID:    "enrollment",
		WeekInStudy:     1,
	}}
	for i := range DAYS_PER_WEEK {
		w.ByDayEntries[i] = []ScheduledDay{NewPlaceholderDay(start.AddDays(i), false)}
	}
	w.ByDayEntries[0][0] = ScheduledDay{
		SessionGuid:  "s1",
		StartEventID: "enrollment",
		StartDate:    start.Ptr(),
		TimeWindows: []TimeWindow{
			{SessionInstanceGuid: "i1", TimeWindowGuid: "tw1", State: SESSION_STATE_COMPLETED, EndDate: start.AddDays(1).Ptr()},
		},
	}
	w.AddSearchableLabel(":Daily:Week 1:")
	return w
}

func TestWeekBucketCopy(t *testing.T) {
	t.Run("copy equals original", func(t *testing.T) {
		w := testWeek()
		c := w.Copy()
		if !reflect.DeepEqual(w, c) {
			t.Errorf("copy differs from original: %+v vs %+v", c, w)
		}
	})

	t.Run("mutating copy leaves original untouched", func(t *testing.T) {
		w := testWeek()
		c := w.Copy()
		c.ByDayEntries[0][0].TimeWindows[0].State = SESSION_STATE_EXPIRED
		c.ByDayEntries[1] = append(c.ByDayEntries[1], NewPlaceholderDay(w.StartDate, true))
		c.Rows[0].WeekInStudy = 3
		*c.AdherencePercent = 0
		newDate := NewLocalDate(2030, time.May, 5)
		*c.ByDayEntries[0][0].StartDate = newDate

		if w.ByDayEntries[0][0].TimeWindows[0].State != SESSION_STATE_COMPLETED {
			t.Error("window state of original changed")
		}
		if len(w.ByDayEntries[1]) != 1 {
			t.Errorf("slot 1 of original has %d entries", len(w.ByDayEntries[1]))
		}
		if w.Rows[0].WeekInStudy != 1 {
			t.Error("row of original changed")
		}
		if *w.AdherencePercent != 50 {
			t.Error("percentage of original changed")
		}
		if w.ByDayEntries[0][0].StartDate.Equal(newDate) {
			t.Error("date of original changed")
		}
	})
}

func TestWeekBucketJSON(t *testing.T) {
	t.Run("property order", func(t *testing.T) {
		data, err := json.Marshal(testWeek())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s := string(data)
		keys := []string{`"startDate"`, `"endDate"`, `"weekInStudy"`, `"adherencePercent"`, `"rows"`, `"byDayEntries"`}
		last := -1
		for _, k := range keys {
			idx := strings.Index(s, k)
			if idx <= last {
				t.Errorf("key %s out of order in %s", k, s)
			}
			last = idx
		}
		if !strings.Contains(s, `"endDate":"2024-01-07"`) {
			t.Errorf("end date missing: %s", s)
		}
		if strings.Contains(s, "searchableLabels") {
			t.Errorf("searchable labels should not be serialised: %s", s)
		}
	})

	t.Run("day grid has all keys in order", func(t *testing.T) {
		data, err := json.Marshal(DayGrid{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := `{"0":[],"1":[],"2":[],"3":[],"4":[],"5":[],"6":[]}`
		if string(data) != expected {
			t.Errorf("unexpected grid: %s", data)
		}
	})

	t.Run("future week has null percentage", func(t *testing.T) {
		w := NewWeekBucket(2, NewLocalDate(2024, time.January, 8))
		data, err := json.Marshal(w)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), `"adherencePercent":null`) {
			t.Errorf("unexpected json: %s", data)
		}
	})

	t.Run("decode", func(t *testing.T) {
		data, err := json.Marshal(testWeek())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded WeekBucket
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decoded.WeekInStudy != 1 || !decoded.StartDate.Equal(NewLocalDate(2024, time.January, 1)) {
			t.Errorf("unexpected week: %+v", decoded)
		}
		if len(decoded.SearchableLabels) != 1 || decoded.SearchableLabels[0] != ":Daily:Week 1:" {
			t.Errorf("labels not restored from rows: %v", decoded.SearchableLabels)
		}
	})

	t.Run("invalid day key", func(t *testing.T) {
		var g DayGrid
		if err := json.Unmarshal([]byte(`{"7":[]}`), &g); err == nil {
			t.Error("should produce error")
		}
	})
}

func TestAddSearchableLabel(t *testing.T) {
	w := NewWeekBucket(1, NewLocalDate(2024, time.January, 1))
	w.AddSearchableLabel(":b:")
	w.AddSearchableLabel(":a:")
	w.AddSearchableLabel(":b:")
	if !reflect.DeepEqual(w.SearchableLabels, []string{":a:", ":b:"}) {
		t.Errorf("unexpected labels: %v", w.SearchableLabels)
	}
}

func TestWeekBucketContains(t *testing.T) {
	w := NewWeekBucket(1, NewLocalDate(2024, time.January, 1))
	tests := []struct {
		date     LocalDate
		expected bool
	}{
		{NewLocalDate(2023, time.December, 31), false},
		{NewLocalDate(2024, time.January, 1), true},
		{NewLocalDate(2024, time.January, 7), true},
		{NewLocalDate(2024, time.January, 8), false},
	}
	for _, test := range tests {
		if got := w.Contains(test.date); got != test.expected {
			t.Errorf("Contains(%s) = %v, expected %v", test.date, got, test.expected)
		}
	}
}
