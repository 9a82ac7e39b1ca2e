package countdown

import (
	"math"
	"time"
)

// Band is a qualitative bucket over the completion percentage.
type Band string

const (
	BandEarly        Band = "early"
	BandSteady       Band = "steady"
	BandPastMidpoint Band = "past-midpoint"
	BandNear         Band = "near"
	BandFinal        Band = "final"
)

// Band thresholds; each is the inclusive lower bound of the next band.
const (
	steadyThreshold       = 25.0
	pastMidpointThreshold = 50.0
	nearThreshold         = 75.0
	finalThreshold        = 90.0
)

// ProgressState is the completion percentage, clamped to [0,100], and its band.
type ProgressState struct {
	Percentage float64 `json:"percentage"`
	Band       Band    `json:"band"`
}

// ComputeProgress reports how far now lies between anchor and target.
// A target at or before the anchor is reported as complete.
func ComputeProgress(anchor, target, now time.Time) ProgressState {
	span := target.Sub(anchor)
	if span <= 0 {
		return ProgressState{Percentage: 100, Band: BandFinal}
	}

	raw := float64(now.Sub(anchor)) / float64(span) * 100
	pct := math.Max(0, math.Min(100, raw))

	return ProgressState{Percentage: pct, Band: BandFor(pct)}
}

// BandFor maps a percentage to its band. First match wins.
func BandFor(pct float64) Band {
	switch {
	case pct < steadyThreshold:
		return BandEarly
	case pct < pastMidpointThreshold:
		return BandSteady
	case pct < nearThreshold:
		return BandPastMidpoint
	case pct < finalThreshold:
		return BandNear
	default:
		return BandFinal
	}
}

// Description is the short status line shown next to the progress bar.
func (b Band) Description() string {
	switch b {
	case BandEarly:
		return "Just getting started"
	case BandSteady:
		return "Making steady progress"
	case BandPastMidpoint:
		return "Past the halfway mark"
	case BandNear:
		return "The finish line is in sight"
	case BandFinal:
		return "Final stretch"
	}
	return ""
}
