package chart

import (
	"fmt"
	"strconv"
	"time"
)

// Week describes one YearWeek bucket on the shared x axis.
type Week struct {
	YearWeek  string    `json:"yearWeek"`
	Year      int       `json:"year"`
	Week      int       `json:"week"`
	StartDate time.Time `json:"startDate"`
	MonthYear string    `json:"monthYear"`
	Month     string    `json:"month"`
}

// WeekInfo parses a YearWeek such as "202501". StartDate is the Monday of ISO
// week Week of Year; weeks 0 and 53 are extrapolated from week 1.
func WeekInfo(yearWeek string) (Week, error) {
	if len(yearWeek) < 5 {
		return Week{}, fmt.Errorf("malformed year week %q", yearWeek)
	}
	year, err := strconv.Atoi(yearWeek[:4])
	if err != nil {
		return Week{}, fmt.Errorf("malformed year week %q: %w", yearWeek, err)
	}
	week, err := strconv.Atoi(yearWeek[4:])
	if err != nil || week < 0 || week > 53 {
		return Week{}, fmt.Errorf("malformed year week %q", yearWeek)
	}

	start := isoWeekOneMonday(year).AddDate(0, 0, (week-1)*7)
	return Week{
		YearWeek:  yearWeek,
		Year:      year,
		Week:      week,
		StartDate: start,
		MonthYear: start.Format("Jan 2006"),
		Month:     start.Format("Jan"),
	}, nil
}

// isoWeekOneMonday returns the Monday of the week holding 4 January.
func isoWeekOneMonday(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset)
}

// TickLabels labels each week with its MonthYear at the first week of that
// month and leaves the rest blank.
func TickLabels(weeks []Week) []string {
	seen := make(map[string]bool, len(weeks))
	labels := make([]string, len(weeks))
	for i, w := range weeks {
		if seen[w.MonthYear] {
			continue
		}
		seen[w.MonthYear] = true
		labels[i] = w.MonthYear
	}
	return labels
}
