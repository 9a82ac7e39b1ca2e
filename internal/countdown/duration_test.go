package countdown

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestComputeCountdown_Breakdown(t *testing.T) {
	target := base.Add(26*time.Hour + 3*time.Minute + 4*time.Second + 500*time.Millisecond)

	s := ComputeCountdown(base, target)

	assert.False(t, s.IsReached)
	assert.Equal(t, 1, s.Days)
	assert.Equal(t, 2, s.Hours)
	assert.Equal(t, 3, s.Minutes)
	assert.Equal(t, 4, s.Seconds)
	assert.Equal(t, 26, s.TotalHours)
	assert.Equal(t, 0, s.TotalWeeks)
	assert.Equal(t, 0, s.TotalMonths)
}

func TestComputeCountdown_WeeksAndMonths(t *testing.T) {
	tests := []struct {
		days          int
		weeks, months int
	}{
		{days: 6, weeks: 0, months: 0},
		{days: 30, weeks: 4, months: 0},
		{days: 31, weeks: 4, months: 1},
		{days: 100, weeks: 14, months: 3},
		{days: 365, weeks: 52, months: 11},
		{days: 366, weeks: 52, months: 12},
	}
	for _, tt := range tests {
		s := ComputeCountdown(base, base.AddDate(0, 0, tt.days))
		assert.Equal(t, tt.days, s.Days, "days for %d", tt.days)
		assert.Equal(t, tt.weeks, s.TotalWeeks, "weeks for %d days", tt.days)
		assert.Equal(t, tt.months, s.TotalMonths, "months for %d days", tt.days)
		assert.Equal(t, tt.days*24, s.TotalHours)
	}
}

func TestComputeCountdown_Reached(t *testing.T) {
	assert.Equal(t, Snapshot{IsReached: true}, ComputeCountdown(base, base))
	assert.Equal(t, Snapshot{IsReached: true}, ComputeCountdown(base, base.Add(-time.Millisecond)))
	assert.Equal(t, Snapshot{IsReached: true}, ComputeCountdown(base, base.AddDate(-3, 0, 0)))
}

func TestComputeCountdown_SubSecond(t *testing.T) {
	s := ComputeCountdown(base, base.Add(999*time.Millisecond))
	assert.False(t, s.IsReached)
	assert.Zero(t, s.TotalSeconds())
}

func TestComputeCountdown_RemainderBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		diff := time.Duration(rng.Int63n(int64(50*365*24*time.Hour))) + time.Millisecond
		now := base.Add(time.Duration(rng.Int63n(int64(time.Hour))))
		target := now.Add(diff)

		s := ComputeCountdown(now, target)
		total := target.Sub(now).Milliseconds() / 1000

		if !assert.False(t, s.IsReached) {
			return
		}
		assert.True(t, s.TotalSeconds() <= total && total < s.TotalSeconds()+1,
			"breakdown %+v does not cover %d seconds", s, total)
		assert.True(t, s.Hours >= 0 && s.Hours < 24)
		assert.True(t, s.Minutes >= 0 && s.Minutes < 60)
		assert.True(t, s.Seconds >= 0 && s.Seconds < 60)
	}
}

func TestComputeCountdown_BeyondDurationRange(t *testing.T) {
	// 400 Gregorian years, past where time.Duration saturates.
	target := base.AddDate(400, 0, 0)

	s := ComputeCountdown(base, target)

	assert.False(t, s.IsReached)
	assert.Equal(t, 146097, s.Days)
	assert.Equal(t, 146097*24, s.TotalHours)
	assert.Equal(t, 20871, s.TotalWeeks)
	assert.Equal(t, (target.UnixMilli()-base.UnixMilli())/1000, s.TotalSeconds())
}

func TestComputeCountdown_Idempotent(t *testing.T) {
	target := base.Add(1234567 * time.Second)
	assert.Equal(t, ComputeCountdown(base, target), ComputeCountdown(base, target))
}
