package countdown

import (
	"math"
	"time"
)

// AverageMonthDays is the fixed month length used for the months figure.
// The approximation is intentional; display code expects it.
const AverageMonthDays = 30.44

// Snapshot is the remaining-time breakdown for one (now, target) pair.
// Hours, Minutes and Seconds are remainders, never raw totals.
type Snapshot struct {
	Days        int  `json:"days"`
	Hours       int  `json:"hours"`
	Minutes     int  `json:"minutes"`
	Seconds     int  `json:"seconds"`
	TotalHours  int  `json:"totalHours"`
	TotalWeeks  int  `json:"weeks"`
	TotalMonths int  `json:"months"`
	IsReached   bool `json:"reached"`
}

// ComputeCountdown breaks the time from now until target into whole units.
// All conversions truncate. A target at or before now yields IsReached with
// every numeric field zero; callers must switch to the completed view then.
func ComputeCountdown(now, target time.Time) Snapshot {
	// Sub saturates near 292 years; epoch milliseconds do not.
	diff := target.UnixMilli() - now.UnixMilli()
	if diff <= 0 {
		return Snapshot{IsReached: true}
	}

	seconds := diff / 1000
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	return Snapshot{
		Days:        int(days),
		Hours:       int(hours % 24),
		Minutes:     int(minutes % 60),
		Seconds:     int(seconds % 60),
		TotalHours:  int(hours),
		TotalWeeks:  int(days / 7),
		TotalMonths: int(math.Floor(float64(days) / AverageMonthDays)),
	}
}

// TotalSeconds returns the snapshot collapsed back into whole seconds.
func (s Snapshot) TotalSeconds() int64 {
	return int64(s.Days)*86400 + int64(s.Hours)*3600 + int64(s.Minutes)*60 + int64(s.Seconds)
}
