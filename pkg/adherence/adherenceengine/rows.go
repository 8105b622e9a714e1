package adherenceengine

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// rowLabels builds the display and searchable label of a row. Searchable labels are matched
// verbatim by report searches, their format must not change.
func rowLabels(day types.ScheduledDay, weekInStudy int) (label string, searchableLabel string) {
	if day.StudyBurstID != "" {
		burstNum := formatBurstNum(day.StudyBurstNum)
		searchableLabel = fmt.Sprintf(":%s:%s %s:Week %d:%s:", day.StudyBurstID, day.StudyBurstID, burstNum, weekInStudy, day.SessionName)
		label = fmt.Sprintf("%s %s / Week %d / %s", day.StudyBurstID, burstNum, weekInStudy, day.SessionName)
		return
	}
	searchableLabel = fmt.Sprintf(":%s:Week %d:", day.SessionName, weekInStudy)
	label = fmt.Sprintf("%s / Week %d", day.SessionName, weekInStudy)
	return
}

func formatBurstNum(num *int) string {
	if num == nil {
		return "null"
	}
	return strconv.Itoa(*num)
}

func newRow(day types.ScheduledDay, weekInStudy int) types.Row {
	label, searchableLabel := rowLabels(day, weekInStudy)
	d := day.Copy()
	return types.Row{
		Label:           label,
		SearchableLabel: searchableLabel,
		SessionGuid:     d.SessionGuid,
		SessionName:     d.SessionName,
		SessionSymbol:   d.SessionSymbol,
		StartEventID:    d.StartEventID,
		StudyBurstID:    d.StudyBurstID,
		StudyBurstNum:   d.StudyBurstNum,
		WeekInStudy:     weekInStudy,
	}
}

// compareNullsLast compares case-insensitively; empty values sort after everything else.
func compareNullsLast(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareRows(a, b types.Row) int {
	if c := compareNullsLast(a.StudyBurstID, b.StudyBurstID); c != 0 {
		return c
	}
	return compareNullsLast(a.Label, b.Label)
}

// collectRows returns one row per distinct (session, triggering event) pair of the week in display order.
func collectRows(week *types.WeekBucket) []types.Row {
	rows := []types.Row{}
	for _, days := range week.ByDayEntries {
		for _, day := range days {
			if day.IsPlaceholder() {
				continue
			}
			if slices.ContainsFunc(rows, func(r types.Row) bool { return r.Matches(day) }) {
				continue
			}
			rows = append(rows, newRow(day, week.WeekInStudy))
		}
	}
	slices.SortStableFunc(rows, compareRows)
	return rows
}

// padWeek densifies the grid of the week: every slot gets exactly one entry per row, in row order.
// Rows without a session on a day get a placeholder carrying only the date.
func padWeek(week *types.WeekBucket, today types.LocalDate) {
	rows := collectRows(week)

	var grid types.DayGrid
	for dow := range types.DAYS_PER_WEEK {
		date := week.StartDate.AddDays(dow)
		isToday := date.Equal(today)

		entries := make([]types.ScheduledDay, 0, len(rows))
		for _, row := range rows {
			idx := slices.IndexFunc(week.ByDayEntries[dow], row.Matches)
			if idx < 0 {
				entries = append(entries, types.NewPlaceholderDay(date, isToday))
				continue
			}
			day := week.ByDayEntries[dow][idx]
			day.StartDate = date.Ptr()
			day.Today = isToday
			entries = append(entries, day)
		}
		grid[dow] = entries
	}

	week.ByDayEntries = grid
	week.Rows = rows
	for _, row := range rows {
		week.AddSearchableLabel(row.SearchableLabel)
	}
}
