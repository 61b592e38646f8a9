package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// Today returns the calendar day of now in loc (YYYY-MM-DD).
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(constants.DateFormat)
}

// ParseDay parses a calendar day (YYYY-MM-DD) at midnight in loc.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DayDiff returns the number of calendar days from a to b.
// The instants are local midnights, so the hour difference is rounded to
// absorb daylight saving shifts.
func DayDiff(a, b string) (int, error) {
	ta, err := ParseDay(a, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", a, err)
	}
	tb, err := ParseDay(b, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", b, err)
	}
	return int(math.Round(tb.Sub(ta).Hours() / 24)), nil
}

// LastNDays returns the n calendar days ending at today, oldest first.
func LastNDays(today string, n int) ([]string, error) {
	t, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []string{}, nil
	}
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, t.AddDate(0, 0, -i).Format(constants.DateFormat))
	}
	return days, nil
}

// FormatForDisplay renders a calendar day as "Jan 2, 2006".
// Unparseable input is returned unchanged.
func FormatForDisplay(day string) string {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return day
	}
	return t.Format(constants.DisplayDateFormat)
}

// ValidateDay checks if the string is a calendar day in the standard format.
func ValidateDay(day string) bool {
	_, err := time.Parse(constants.DateFormat, day)
	return err == nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
