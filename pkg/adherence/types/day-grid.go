package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const DAYS_PER_WEEK = 7

// DayGrid holds the scheduled days of one week, indexed by day of week (0-6).
// On the wire it is an object with the keys "0" to "6", always all of them.
type DayGrid [DAYS_PER_WEEK][]ScheduledDay

// Copy returns a grid with independent storage for every slot.
func (g DayGrid) Copy() DayGrid {
	var c DayGrid
	for i, days := range g {
		if days == nil {
			continue
		}
		c[i] = make([]ScheduledDay, len(days))
		for j, d := range days {
			c[i][j] = d.Copy()
		}
	}
	return c
}

// Days returns every entry of the grid in slot order.
func (g DayGrid) Days() []ScheduledDay {
	days := []ScheduledDay{}
	for _, slot := range g {
		days = append(days, slot...)
	}
	return days
}

func (g DayGrid) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, days := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		if days == nil {
			days = []ScheduledDay{}
		}
		encoded, err := json.Marshal(days)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"` + strconv.Itoa(i) + `":`)
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (g *DayGrid) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = DayGrid{}
		return nil
	}
	var raw map[string][]ScheduledDay
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var grid DayGrid
	for key, days := range raw {
		dow, err := strconv.Atoi(key)
		if err != nil || dow < 0 || dow >= DAYS_PER_WEEK {
			return fmt.Errorf("invalid day of week key: %s", key)
		}
		grid[dow] = days
	}
	*g = grid
	return nil
}
