package adherenceengine

import (
	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// findCurrentWeek returns the position of the first week containing today.
func findCurrentWeek(weeks []types.WeekBucket, today types.LocalDate) (int, bool) {
	for i, week := range weeks {
		if week.Contains(today) {
			return i, true
		}
	}
	return -1, false
}

// findNextActivity returns the first day with time windows in a week starting after today.
func findNextActivity(weeks []types.WeekBucket, today types.LocalDate) *types.NextActivity {
	for _, week := range weeks {
		if !week.StartDate.After(today) {
			continue
		}
		for _, days := range week.ByDayEntries {
			for _, day := range days {
				if day.HasTimeWindows() {
					return types.NewNextActivity(day, week.WeekInStudy)
				}
			}
		}
	}
	return nil
}

// buildWeekSnapshot returns the week shown to the participant. Without a current week it is
// an empty week anchored where today would fall in the study.
func buildWeekSnapshot(
	weeks []types.WeekBucket,
	studyStart types.LocalDate,
	today types.LocalDate,
	percentage PercentageCalculator,
) types.WeekBucket {
	var snapshot types.WeekBucket
	if pos, ok := findCurrentWeek(weeks, today); ok {
		snapshot = weeks[pos].Copy()
	} else {
		weekInStudy := floorDiv(today.DaysSince(studyStart), types.DAYS_PER_WEEK) + 1
		snapshot = types.NewWeekBucket(weekInStudy, studyStart.AddDays((weekInStudy-1)*types.DAYS_PER_WEEK))
		for dow := range types.DAYS_PER_WEEK {
			snapshot.ByDayEntries[dow] = []types.ScheduledDay{}
		}
	}

	rollForwardOverdue(&snapshot, weeks, today, percentage)
	return snapshot
}

// rollForwardOverdue appends days of earlier weeks that still have an open window expiring on or
// after the snapshot start into slot 0 of the snapshot, each as a new row padded over the week.
// The snapshot score is recomputed after every appended day.
func rollForwardOverdue(
	snapshot *types.WeekBucket,
	weeks []types.WeekBucket,
	today types.LocalDate,
	percentage PercentageCalculator,
) {
	for _, week := range weeks {
		if !week.StartDate.Before(snapshot.StartDate) {
			break
		}
		for _, days := range week.ByDayEntries {
			for _, day := range days {
				if !isOverdue(day, snapshot.StartDate) {
					continue
				}

				rolled := day.Copy()
				rolled.Today = snapshot.StartDate.Equal(today)
				snapshot.ByDayEntries[0] = append(snapshot.ByDayEntries[0], rolled)

				row, ok := week.FindRow(day)
				if !ok {
					row = newRow(day, week.WeekInStudy)
				}
				row = row.Copy()
				row.WeekInStudy = snapshot.WeekInStudy
				snapshot.Rows = append(snapshot.Rows, row)
				snapshot.AddSearchableLabel(row.SearchableLabel)

				for dow := 1; dow < types.DAYS_PER_WEEK; dow++ {
					date := snapshot.StartDate.AddDays(dow)
					snapshot.ByDayEntries[dow] = append(snapshot.ByDayEntries[dow], types.NewPlaceholderDay(date, date.Equal(today)))
				}

				score := percentage(&snapshot.ByDayEntries)
				snapshot.AdherencePercent = &score
			}
		}
	}
}

// isOverdue reports whether a window of the day is still open and has not expired before cutoff.
func isOverdue(day types.ScheduledDay, cutoff types.LocalDate) bool {
	for _, window := range day.TimeWindows {
		if !window.State.IsStillOpen() || !window.HasEndDate() {
			continue
		}
		if !window.EndDate.Before(cutoff) {
			return true
		}
	}
	return false
}
