package countdown

// ActiveWindowDays is how many days before a threshold a milestone turns active.
const ActiveWindowDays = 30

// MilestoneState is the derived state of a milestone.
type MilestoneState string

const (
	MilestoneAchieved MilestoneState = "achieved"
	MilestoneActive   MilestoneState = "active"
	MilestoneLocked   MilestoneState = "locked"
)

// Milestone is a fixed day-threshold with a display label.
type Milestone struct {
	ThresholdDays int    `json:"thresholdDays" yaml:"threshold_days"`
	Label         string `json:"label" yaml:"label"`
}

// MilestoneStatus pairs a milestone with its state for one evaluation.
type MilestoneStatus struct {
	Milestone Milestone      `json:"milestone"`
	State     MilestoneState `json:"state"`
}

// DefaultMilestones returns the stock milestone list, ordered by descending threshold.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{ThresholdDays: 730, Label: "Two years to go"},
		{ThresholdDays: 365, Label: "One year to go"},
		{ThresholdDays: 180, Label: "Six months to go"},
		{ThresholdDays: 100, Label: "100 days to go"},
		{ThresholdDays: 50, Label: "50 days to go"},
		{ThresholdDays: 30, Label: "One month to go"},
		{ThresholdDays: 7, Label: "One week to go"},
		{ThresholdDays: 1, Label: "Final day"},
	}
}

// StateAt returns the milestone's state with daysRemaining days left.
func (m Milestone) StateAt(daysRemaining int) MilestoneState {
	switch {
	case daysRemaining <= m.ThresholdDays:
		return MilestoneAchieved
	case daysRemaining <= m.ThresholdDays+ActiveWindowDays:
		return MilestoneActive
	default:
		return MilestoneLocked
	}
}

// EvaluateMilestones derives the state of every milestone, preserving order.
func EvaluateMilestones(milestones []Milestone, daysRemaining int) []MilestoneStatus {
	out := make([]MilestoneStatus, len(milestones))
	for i, m := range milestones {
		out[i] = MilestoneStatus{Milestone: m, State: m.StateAt(daysRemaining)}
	}
	return out
}
