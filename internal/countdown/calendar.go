package countdown

import (
	"time"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
)

// HoursPerWorkDay converts work days into work hours.
const HoursPerWorkDay = 8

// CalendarMetrics are calendar-aware counts over the days between now and the
// target. WeekendCount counts Saturdays only; Sundays are neither work days
// nor weekend markers and are not exposed.
type CalendarMetrics struct {
	TotalDays    int `json:"totalDays"`
	WeekendCount int `json:"weekends"`
	WorkDays     int `json:"workDays"`
	WorkHours    int `json:"workHours"`
	Mondays      int `json:"mondays"`
	Fridays      int `json:"fridays"`
	Sleeps       int `json:"sleeps"`
	Sunrises     int `json:"sunrises"`
}

// ComputeCalendarMetrics counts calendar days from now's day to target's day,
// both floored to local midnight in now's location. When target's day is not
// after now's day every field is zero.
//
// TotalDays is a civil-date difference, not elapsed time divided by 24h: a
// range spanning a DST fall-back day still counts that day once.
//
// Full weeks are counted in closed form; only the trailing partial week
// (at most six days) is walked, so the cost does not grow with the range.
func ComputeCalendarMetrics(now, target time.Time) CalendarMetrics {
	loc := now.Location()
	start := clock.DayFloor(now, loc)
	end := clock.DayFloor(target, loc)

	// Civil-date difference: a 23h or 25h DST day still counts as one day.
	totalDays := clock.CivilDaysBetween(start, end)
	if totalDays <= 0 {
		return CalendarMetrics{}
	}

	fullWeeks := totalDays / 7
	remainder := totalDays % 7

	m := CalendarMetrics{
		TotalDays:    totalDays,
		WeekendCount: fullWeeks,
		WorkDays:     fullWeeks * 5,
		Mondays:      fullWeeks,
		Fridays:      fullWeeks,
	}

	// Trailing days begin on start's weekday since full weeks preserve it.
	first := start.Weekday()
	for i := 0; i < remainder; i++ {
		switch (first + time.Weekday(i)) % 7 {
		case time.Saturday:
			m.WeekendCount++
		case time.Sunday:
		case time.Monday:
			m.WorkDays++
			m.Mondays++
		case time.Friday:
			m.WorkDays++
			m.Fridays++
		default:
			m.WorkDays++
		}
	}

	m.WorkHours = m.WorkDays * HoursPerWorkDay
	m.Sleeps = totalDays
	m.Sunrises = m.Sleeps + 1
	return m
}
