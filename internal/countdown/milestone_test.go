package countdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestone_StateAt(t *testing.T) {
	m := Milestone{ThresholdDays: 100, Label: "100 days to go"}

	tests := []struct {
		days int
		want MilestoneState
	}{
		{-5, MilestoneAchieved},
		{0, MilestoneAchieved},
		{99, MilestoneAchieved},
		{100, MilestoneAchieved},
		{101, MilestoneActive},
		{110, MilestoneActive},
		{130, MilestoneActive},
		{131, MilestoneLocked},
		{1000, MilestoneLocked},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.StateAt(tt.days), "daysRemaining=%d", tt.days)
	}
}

func TestEvaluateMilestones_PreservesOrder(t *testing.T) {
	ms := DefaultMilestones()
	statuses := EvaluateMilestones(ms, 120)

	require.Len(t, statuses, len(ms))
	for i, st := range statuses {
		assert.Equal(t, ms[i], st.Milestone)
	}

	want := []MilestoneState{
		MilestoneAchieved, // 730
		MilestoneAchieved, // 365
		MilestoneAchieved, // 180
		MilestoneActive,   // 100
		MilestoneLocked,   // 50
		MilestoneLocked,   // 30
		MilestoneLocked,   // 7
		MilestoneLocked,   // 1
	}
	for i, st := range statuses {
		assert.Equal(t, want[i], st.State, "threshold %d", st.Milestone.ThresholdDays)
	}
}

func TestEvaluateMilestones_Empty(t *testing.T) {
	assert.Empty(t, EvaluateMilestones(nil, 10))
}

func TestDefaultMilestones_Descending(t *testing.T) {
	ms := DefaultMilestones()
	require.Len(t, ms, 8)
	for i := 1; i < len(ms); i++ {
		assert.Greater(t, ms[i-1].ThresholdDays, ms[i].ThresholdDays)
	}

	// Callers get their own copy.
	ms[0].Label = "changed"
	assert.NotEqual(t, "changed", DefaultMilestones()[0].Label)
}
