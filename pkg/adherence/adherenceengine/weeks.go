package adherenceengine

import (
	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// weekIndex floor-divides the offset, so day -1 falls into week -1.
func weekIndex(offset int) int {
	return floorDiv(offset, types.DAYS_PER_WEEK)
}

// dayOfWeek is the absolute value of the truncated remainder, not the mathematical modulo:
// day -1 maps to slot 1. Kept as is, changing it moves pre-study sessions to other weekdays.
func dayOfWeek(offset int) int {
	r := offset % types.DAYS_PER_WEEK
	if r < 0 {
		r = -r
	}
	return r
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// bucketWeeks groups the timeline into weeks, ascending by week index.
func bucketWeeks(tl *studyTimeline, studyStart types.LocalDate) []types.WeekBucket {
	weeks := []types.WeekBucket{}
	positions := map[int]int{}

	// offsets ascend, so week indexes are appended in ascending order
	for _, offset := range tl.sortedOffsets() {
		idx := weekIndex(offset)
		pos, ok := positions[idx]
		if !ok {
			weeks = append(weeks, types.NewWeekBucket(idx+1, studyStart.AddDays(idx*types.DAYS_PER_WEEK)))
			pos = len(weeks) - 1
			positions[idx] = pos
		}

		week := &weeks[pos]
		dow := dayOfWeek(offset)
		for _, d := range tl.byOffset[offset] {
			day := d.Copy()
			weekInStudy := week.WeekInStudy
			day.Week = &weekInStudy
			week.ByDayEntries[dow] = append(week.ByDayEntries[dow], day)
		}
	}
	return weeks
}
