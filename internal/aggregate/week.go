package aggregate

import (
	"fmt"
	"time"
)

// WeekOfYear numbers weeks Monday-first, with week 1 being the first week that
// has four or more days in the calendar year. Days before week 1 fall in week 0
// and days after the last such week in week 53; the year is never shifted.
func WeekOfYear(t time.Time) (year, week int) {
	year = t.Year()
	isoYear, isoWeek := t.ISOWeek()
	switch {
	case isoYear < year:
		return year, 0
	case isoYear > year:
		return year, 53
	default:
		return year, isoWeek
	}
}

// YearWeekOf formats the week bucket of t as YYYYWW.
func YearWeekOf(t time.Time) string {
	year, week := WeekOfYear(t)
	return fmt.Sprintf("%d%02d", year, week)
}

const (
	complaintWindowYear      = 2025
	complaintWindowPrevYear  = 2024
	complaintWindowFirstWeek = 7
)

// InComplaintWindow reports whether a ticket opened at t is considered at all:
// every ticket of 2025 and those of 2024 from week 7 on.
func InComplaintWindow(t time.Time) bool {
	year, week := WeekOfYear(t)
	if year == complaintWindowYear {
		return true
	}
	return year == complaintWindowPrevYear && week >= complaintWindowFirstWeek
}
