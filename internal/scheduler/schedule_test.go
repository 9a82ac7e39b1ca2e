package scheduler

import (
	"testing"
	"time"
)

func TestIntervalSchedule(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Every(1 * time.Hour)
	next := s.Next(now)
	if !next.Equal(now.Add(1 * time.Hour)) {
		t.Errorf("Expected %v, got %v", now.Add(1*time.Hour), next)
	}
}

func TestDailySchedule(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// Case 1: Time is later today
	s1 := Daily(14, 30) // 14:30
	next1 := s1.Next(now)
	expected1 := time.Date(2025, 1, 1, 14, 30, 0, 0, time.UTC)
	if !next1.Equal(expected1) {
		t.Errorf("Case 1: Expected %v, got %v", expected1, next1)
	}

	// Case 2: Time has passed today, should be tomorrow
	s2 := Daily(8, 0) // 08:00
	next2 := s2.Next(now)
	expected2 := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	if !next2.Equal(expected2) {
		t.Errorf("Case 2: Expected %v, got %v", expected2, next2)
	}

	// Case 3: Exactly at the scheduled time rolls to tomorrow
	s3 := Daily(10, 0)
	next3 := s3.Next(now)
	expected3 := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	if !next3.Equal(expected3) {
		t.Errorf("Case 3: Expected %v, got %v", expected3, next3)
	}
}

func TestDailySchedule_Location(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	s := &DailySchedule{Hour: 0, Minute: 0, Location: loc}

	// 21:30 UTC is 23:30 at UTC+2, so local midnight is 30 minutes away.
	now := time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC)
	next := s.Next(now)
	if got := next.Sub(now); got != 30*time.Minute {
		t.Errorf("Expected next run in 30m, got %v (%v)", got, next)
	}
}

func TestDailySchedule_DST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// Night before spring-forward: the following midnight is 24h away,
	// but the one after that is only 23h later.
	s := &DailySchedule{Hour: 0, Minute: 0, Location: loc}
	now := time.Date(2025, 3, 8, 12, 0, 0, 0, loc)

	first := s.Next(now)
	second := s.Next(first)
	if first.Day() != 9 || first.Hour() != 0 {
		t.Errorf("Expected Mar 9 00:00, got %v", first)
	}
	if second.Day() != 10 || second.Hour() != 0 {
		t.Errorf("Expected Mar 10 00:00, got %v", second)
	}
	if d := second.Sub(first); d != 23*time.Hour {
		t.Errorf("Expected 23h across spring-forward, got %v", d)
	}
}
