package types

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const LOCAL_DATE_LAYOUT = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// LocalDate is a calendar date without a time of day or zone.
// It is stored internally as midnight UTC, so day arithmetic never crosses a DST shift.
type LocalDate struct {
	t time.Time
}

func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// LocalDateOf returns the calendar date of ts as observed in loc (UTC if loc is nil).
func LocalDateOf(ts time.Time, loc *time.Location) LocalDate {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := ts.In(loc).Date()
	return NewLocalDate(y, m, d)
}

func ParseLocalDate(value string) (LocalDate, error) {
	t, err := time.Parse(LOCAL_DATE_LAYOUT, value)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid local date '%s': %w", value, err)
	}
	return LocalDate{t: t}, nil
}

func (d LocalDate) AddDays(days int) LocalDate {
	return LocalDate{t: d.t.AddDate(0, 0, days)}
}

// DaysSince returns the signed number of days from other to d.
func (d LocalDate) DaysSince(other LocalDate) int {
	return int((d.t.Unix() - other.t.Unix()) / secondsPerDay)
}

func (d LocalDate) Before(other LocalDate) bool { return d.t.Before(other.t) }
func (d LocalDate) After(other LocalDate) bool  { return d.t.After(other.t) }
func (d LocalDate) Equal(other LocalDate) bool  { return d.t.Equal(other.t) }
func (d LocalDate) IsZero() bool                { return d.t.IsZero() }

func (d LocalDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(LOCAL_DATE_LAYOUT)
}

// Ptr returns a pointer to a copy of d.
func (d LocalDate) Ptr() *LocalDate {
	return &d
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *LocalDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = LocalDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = LocalDate{}
		return nil
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d LocalDate) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.String())
}

func (d *LocalDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null || t == bsontype.Undefined {
		*d = LocalDate{}
		return nil
	}
	s, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("cannot decode %s into a local date", t)
	}
	if s == "" {
		*d = LocalDate{}
		return nil
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
