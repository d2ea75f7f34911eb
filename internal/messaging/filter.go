package messaging

import (
	"fmt"
	"time"
)

// dayLayout is the wire and form format of a Day
const dayLayout = "2006-01-02"

// Day is a calendar date without a time of day
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay reads a YYYY-MM-DD date
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DayOf(t, time.UTC), nil
}

// DayOf returns the calendar day of t as seen in loc
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// FilterHistory keeps the entries sent on day in loc, in their original order.
// A nil day keeps everything. The input slice is never modified.
func FilterHistory(entries []HistoryEntry, day *Day, loc *time.Location) []HistoryEntry {
	if day == nil {
		out := make([]HistoryEntry, len(entries))
		copy(out, entries)
		return out
	}

	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.DateSent.IsZero() {
			continue
		}
		if DayOf(e.DateSent.Time, loc) == *day {
			out = append(out, e)
		}
	}
	return out
}
