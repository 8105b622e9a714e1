package types

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestLocalDateArithmetic(t *testing.T) {
	start := NewLocalDate(2024, time.March, 28)

	tests := []struct {
		name     string
		days     int
		expected string
	}{
		{name: "same day", days: 0, expected: "2024-03-28"},
		{name: "across month end", days: 5, expected: "2024-04-02"},
		{name: "backwards", days: -29, expected: "2024-02-28"},
		{name: "leap day", days: -28, expected: "2024-02-29"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := start.AddDays(test.days)
			if d.String() != test.expected {
				t.Errorf("expected %s, got %s", test.expected, d)
			}
			if d.DaysSince(start) != test.days {
				t.Errorf("expected %d days, got %d", test.days, d.DaysSince(start))
			}
		})
	}
}

func TestLocalDateOf(t *testing.T) {
	ts := time.Date(2024, time.January, 1, 23, 30, 0, 0, time.UTC)
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("time zone database not available: %v", err)
	}

	if got := LocalDateOf(ts, nil).String(); got != "2024-01-01" {
		t.Errorf("unexpected utc date: %s", got)
	}
	if got := LocalDateOf(ts, berlin).String(); got != "2024-01-02" {
		t.Errorf("unexpected local date: %s", got)
	}
}

func TestLocalDateEncoding(t *testing.T) {
	d := NewLocalDate(2024, time.July, 4)

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `"2024-07-04"` {
			t.Errorf("unexpected json: %s", data)
		}
		var decoded LocalDate
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decoded.Equal(d) {
			t.Errorf("expected %s, got %s", d, decoded)
		}
	})

	t.Run("json invalid", func(t *testing.T) {
		var decoded LocalDate
		if err := json.Unmarshal([]byte(`"07/04/2024"`), &decoded); err == nil {
			t.Error("should produce error")
		}
	})

	t.Run("bson", func(t *testing.T) {
		type doc struct {
			Date    LocalDate  `bson:"date"`
			Missing *LocalDate `bson:"missing"`
		}
		data, err := bson.Marshal(doc{Date: d})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded doc
		if err := bson.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decoded.Date.Equal(d) {
			t.Errorf("expected %s, got %s", d, decoded.Date)
		}
		if decoded.Missing != nil {
			t.Errorf("expected nil date, got %s", decoded.Missing)
		}
	})
}
