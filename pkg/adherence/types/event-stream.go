package types

import (
	"fmt"
	"slices"
	"time"
)

// EventStreamReport is the per-event-stream adherence computation the study report is merged from.
type EventStreamReport struct {
	// event of the stream whose start event resolved earliest
	EarliestEventID string        `bson:"earliestEventId,omitempty" json:"earliestEventId,omitempty"`
	DateRange       *DateRange    `bson:"dateRange,omitempty" json:"dateRange,omitempty"`
	Streams         []EventStream `bson:"streams" json:"streams"`
}

// Validate rejects days without a session guid, since those are reserved for grid placeholders.
func (r EventStreamReport) Validate() error {
	for _, stream := range r.Streams {
		for _, offset := range stream.SortedOffsets() {
			for i, day := range stream.ByDayEntries[offset] {
				if day.SessionGuid == "" {
					return fmt.Errorf("stream '%s' day %d entry %d has no session guid", stream.StartEventID, offset, i)
				}
			}
		}
	}
	return nil
}

// EventStream groups the scheduled days computed relative to one triggering event.
type EventStream struct {
	StartEventID   string                 `bson:"startEventId" json:"startEventId"`
	EventTimestamp *time.Time             `bson:"eventTimestamp,omitempty" json:"eventTimestamp,omitempty"`
	ByDayEntries   map[int][]ScheduledDay `bson:"byDayEntries" json:"byDayEntries"`
}

type DateRange struct {
	StartDate LocalDate `bson:"startDate" json:"startDate"`
	EndDate   LocalDate `bson:"endDate" json:"endDate"`
}

// ScheduledDay is one session instance on one calendar day. A day without a session
// guid is a placeholder used to keep the weekly grid dense.
type ScheduledDay struct {
	SessionGuid   string       `bson:"sessionGuid,omitempty" json:"sessionGuid,omitempty"`
	SessionName   string       `bson:"sessionName,omitempty" json:"sessionName,omitempty"`
	SessionSymbol string       `bson:"sessionSymbol,omitempty" json:"sessionSymbol,omitempty"`
	StartEventID  string       `bson:"startEventId,omitempty" json:"startEventId,omitempty"`
	StudyBurstID  string       `bson:"studyBurstId,omitempty" json:"studyBurstId,omitempty"`
	StudyBurstNum *int         `bson:"studyBurstNum,omitempty" json:"studyBurstNum,omitempty"`
	Week          *int         `bson:"week,omitempty" json:"week,omitempty"`
	StartDay      *int         `bson:"startDay,omitempty" json:"startDay,omitempty"`
	StartDate     *LocalDate   `bson:"startDate" json:"startDate"` // nil if the triggering event never fired
	TimeWindows   []TimeWindow `bson:"timeWindows" json:"timeWindows"`
	Today         bool         `bson:"today,omitempty" json:"today,omitempty"`
}

type TimeWindow struct {
	SessionInstanceGuid string                 `bson:"sessionInstanceGuid" json:"sessionInstanceGuid"`
	TimeWindowGuid      string                 `bson:"timeWindowGuid" json:"timeWindowGuid"`
	State               SessionCompletionState `bson:"state" json:"state"`
	EndDay              *int                   `bson:"endDay,omitempty" json:"endDay,omitempty"`
	EndDate             *LocalDate             `bson:"endDate,omitempty" json:"endDate,omitempty"`
}

func (w TimeWindow) HasEndDate() bool {
	return w.EndDate != nil && !w.EndDate.IsZero()
}

// NewPlaceholderDay returns an empty day that only carries its date.
func NewPlaceholderDay(date LocalDate, today bool) ScheduledDay {
	return ScheduledDay{
		StartDate:   date.Ptr(),
		TimeWindows: []TimeWindow{},
		Today:       today,
	}
}

func (d ScheduledDay) IsPlaceholder() bool {
	return d.SessionGuid == ""
}

// IsScheduled reports whether the day resolved to a calendar date. Stored days of an event that
// never fired decode with a zero date instead of a nil one.
func (d ScheduledDay) IsScheduled() bool {
	return d.StartDate != nil && !d.StartDate.IsZero()
}

func (d ScheduledDay) HasTimeWindows() bool {
	return len(d.TimeWindows) > 0
}

// Copy returns a deep copy of the day.
func (d ScheduledDay) Copy() ScheduledDay {
	c := d
	c.StudyBurstNum = copyIntPtr(d.StudyBurstNum)
	c.Week = copyIntPtr(d.Week)
	c.StartDay = copyIntPtr(d.StartDay)
	if d.StartDate != nil {
		c.StartDate = d.StartDate.Ptr()
	}
	if d.TimeWindows != nil {
		c.TimeWindows = make([]TimeWindow, len(d.TimeWindows))
		for i, w := range d.TimeWindows {
			c.TimeWindows[i] = w.Copy()
		}
	}
	return c
}

func (w TimeWindow) Copy() TimeWindow {
	c := w
	c.EndDay = copyIntPtr(w.EndDay)
	if w.EndDate != nil {
		c.EndDate = w.EndDate.Ptr()
	}
	return c
}

// SortedOffsets returns the day offsets of the stream in ascending order.
func (s EventStream) SortedOffsets() []int {
	offsets := make([]int, 0, len(s.ByDayEntries))
	for offset := range s.ByDayEntries {
		offsets = append(offsets, offset)
	}
	slices.Sort(offsets)
	return offsets
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
