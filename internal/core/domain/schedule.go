package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSchedule = errors.New("schedule must list at least one valid weekday")

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Weekday is a three-letter schedule token ("Mon" .. "Sun").
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

var mondayFirst = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

var fromTimeWeekday = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func (w Weekday) Valid() bool {
	_, ok := weekdayNames[w]
	return ok
}

// FullName returns the English weekday name, e.g. "Wednesday" for Wed.
func (w Weekday) FullName() string {
	return weekdayNames[w]
}

// WeekdayOf maps a date to its schedule token.
func WeekdayOf(date time.Time) Weekday {
	return fromTimeWeekday[date.Weekday()]
}

// Schedule is the set of weekdays a habit is due on. Membership is all
// that matters; Normalize canonicalizes order and duplicates.
type Schedule []Weekday

func (s Schedule) Validate() error {
	if len(s) == 0 {
		return ErrInvalidSchedule
	}
	for _, day := range s {
		if !day.Valid() {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, day)
		}
	}
	return nil
}

func (s Schedule) Contains(day Weekday) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}

// Normalize returns the schedule deduplicated and in Monday-first week
// order. Unknown tokens are dropped.
func (s Schedule) Normalize() Schedule {
	if len(s) == 0 {
		return nil
	}

	seen := make(map[Weekday]bool, len(s))
	for _, d := range s {
		seen[d] = true
	}

	normalized := make(Schedule, 0, len(seen))
	for _, d := range mondayFirst {
		if seen[d] {
			normalized = append(normalized, d)
		}
	}
	return normalized
}

// IsDue reports whether the schedule covers the date's weekday. Only the
// weekday matters: the same schedule gives the same answer one week on.
func (s Schedule) IsDue(date time.Time) bool {
	return s.Contains(WeekdayOf(date))
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// WeekDates returns the seven dates of the week containing date, Monday
// through Sunday.
func WeekDates(date time.Time) []time.Time {
	day := DateOf(date)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)

	week := make([]time.Time, 7)
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}
