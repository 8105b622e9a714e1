package types

import (
	"encoding/json"
	"slices"
	"time"
)

// Row is one (session, triggering event) lane of a week. Two sessions that look the same
// but were triggered by different events are different rows.
type Row struct {
	Label           string `bson:"label" json:"label"`
	SearchableLabel string `bson:"searchableLabel" json:"searchableLabel"`
	SessionGuid     string `bson:"sessionGuid" json:"sessionGuid"`
	SessionName     string `bson:"sessionName" json:"sessionName"`
	SessionSymbol   string `bson:"sessionSymbol,omitempty" json:"sessionSymbol,omitempty"`
	StartEventID    string `bson:"startEventId" json:"startEventId"`
	StudyBurstID    string `bson:"studyBurstId,omitempty" json:"studyBurstId,omitempty"`
	StudyBurstNum   *int   `bson:"studyBurstNum,omitempty" json:"studyBurstNum,omitempty"`
	WeekInStudy     int    `bson:"weekInStudy" json:"weekInStudy"`
}

func (r Row) Matches(day ScheduledDay) bool {
	return r.SessionGuid == day.SessionGuid && r.StartEventID == day.StartEventID
}

func (r Row) Copy() Row {
	c := r
	c.StudyBurstNum = copyIntPtr(r.StudyBurstNum)
	return c
}

// WeekBucket is one calendar week of the study timeline.
type WeekBucket struct {
	StartDate        LocalDate `bson:"startDate"`
	WeekInStudy      int       `bson:"weekInStudy"`
	AdherencePercent *int      `bson:"adherencePercent,omitempty"` // nil for weeks starting after today
	Rows             []Row     `bson:"rows"`
	ByDayEntries     DayGrid   `bson:"byDayEntries"`
	SearchableLabels []string  `bson:"searchableLabels"`
}

// property order of this struct is part of the API contract
type weekBucketJSON struct {
	StartDate        LocalDate `json:"startDate"`
	EndDate          LocalDate `json:"endDate"`
	WeekInStudy      int       `json:"weekInStudy"`
	AdherencePercent *int      `json:"adherencePercent"`
	Rows             []Row     `json:"rows"`
	ByDayEntries     DayGrid   `json:"byDayEntries"`
}

func NewWeekBucket(weekInStudy int, startDate LocalDate) WeekBucket {
	return WeekBucket{
		StartDate:        startDate,
		WeekInStudy:      weekInStudy,
		Rows:             []Row{},
		SearchableLabels: []string{},
	}
}

func (w WeekBucket) EndDate() LocalDate {
	return w.StartDate.AddDays(DAYS_PER_WEEK - 1)
}

// Contains reports whether date falls within the week, both ends inclusive.
func (w WeekBucket) Contains(date LocalDate) bool {
	return !date.Before(w.StartDate) && !date.After(w.EndDate())
}

// FindRow returns the row of the week the day belongs to.
func (w WeekBucket) FindRow(day ScheduledDay) (Row, bool) {
	for _, r := range w.Rows {
		if r.Matches(day) {
			return r, true
		}
	}
	return Row{}, false
}

// AddSearchableLabel adds label to the label set of the week, keeping it sorted.
func (w *WeekBucket) AddSearchableLabel(label string) {
	i, found := slices.BinarySearch(w.SearchableLabels, label)
	if found {
		return
	}
	w.SearchableLabels = slices.Insert(w.SearchableLabels, i, label)
}

// Copy returns a deep copy; mutating the copy's grid or rows leaves w untouched.
func (w WeekBucket) Copy() WeekBucket {
	c := w
	c.AdherencePercent = copyIntPtr(w.AdherencePercent)
	c.Rows = make([]Row, len(w.Rows))
	for i, r := range w.Rows {
		c.Rows[i] = r.Copy()
	}
	c.ByDayEntries = w.ByDayEntries.Copy()
	c.SearchableLabels = slices.Clone(w.SearchableLabels)
	if c.SearchableLabels == nil {
		c.SearchableLabels = []string{}
	}
	return c
}

func (w WeekBucket) MarshalJSON() ([]byte, error) {
	rows := w.Rows
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(weekBucketJSON{
		StartDate:        w.StartDate,
		EndDate:          w.EndDate(),
		WeekInStudy:      w.WeekInStudy,
		AdherencePercent: w.AdherencePercent,
		Rows:             rows,
		ByDayEntries:     w.ByDayEntries,
	})
}

func (w *WeekBucket) UnmarshalJSON(data []byte) error {
	var raw weekBucketJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = NewWeekBucket(raw.WeekInStudy, raw.StartDate)
	w.AdherencePercent = raw.AdherencePercent
	if raw.Rows != nil {
		w.Rows = raw.Rows
	}
	w.ByDayEntries = raw.ByDayEntries
	for _, r := range w.Rows {
		w.AddSearchableLabel(r.SearchableLabel)
	}
	return nil
}

// NextActivity previews the next scheduled session when today is not inside any week.
type NextActivity struct {
	SessionGuid   string     `bson:"sessionGuid" json:"sessionGuid"`
	SessionName   string     `bson:"sessionName" json:"sessionName"`
	SessionSymbol string     `bson:"sessionSymbol,omitempty" json:"sessionSymbol,omitempty"`
	WeekInStudy   int        `bson:"weekInStudy" json:"weekInStudy"`
	StudyBurstID  string     `bson:"studyBurstId,omitempty" json:"studyBurstId,omitempty"`
	StudyBurstNum *int       `bson:"studyBurstNum,omitempty" json:"studyBurstNum,omitempty"`
	StartDate     *LocalDate `bson:"startDate,omitempty" json:"startDate,omitempty"`
}

func NewNextActivity(day ScheduledDay, weekInStudy int) *NextActivity {
	d := day.Copy()
	return &NextActivity{
		SessionGuid:   d.SessionGuid,
		SessionName:   d.SessionName,
		SessionSymbol: d.SessionSymbol,
		WeekInStudy:   weekInStudy,
		StudyBurstID:  d.StudyBurstID,
		StudyBurstNum: d.StudyBurstNum,
		StartDate:     d.StartDate,
	}
}

type ParticipantRef struct {
	ParticipantID string `bson:"participantID" json:"participantID"`
	StudyKey      string `bson:"studyKey" json:"studyKey"`
}

// StudyAdherenceReport is the week-bucketed adherence summary of one participant.
// Field order is the property order of the API response.
type StudyAdherenceReport struct {
	Participant         ParticipantRef       `bson:"participant" json:"participant"`
	TestAccount         bool                 `bson:"testAccount" json:"testAccount"`
	ClientTimeZone      string               `bson:"clientTimeZone" json:"clientTimeZone"`
	CreatedOn           time.Time            `bson:"createdOn" json:"createdOn"`
	Timestamp           time.Time            `bson:"timestamp" json:"timestamp"`
	AdherencePercent    *int                 `bson:"adherencePercent,omitempty" json:"adherencePercent"`
	Progression         Progression          `bson:"progression" json:"progression"`
	DateRange           *DateRange           `bson:"dateRange,omitempty" json:"dateRange"`
	Weeks               []WeekBucket         `bson:"weeks" json:"weeks"`
	UnsetEventIDs       []string             `bson:"unsetEventIds" json:"unsetEventIds"`
	UnscheduledSessions []string             `bson:"unscheduledSessions" json:"unscheduledSessions"`
	EventTimestamps     map[string]time.Time `bson:"eventTimestamps" json:"eventTimestamps"`
	WeekReport          *WeekBucket          `bson:"weekReport,omitempty" json:"weekReport"`
	NextActivity        *NextActivity        `bson:"nextActivity,omitempty" json:"nextActivity"`
}
