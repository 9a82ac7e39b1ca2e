package runner

import "slices"

// DefaultCelebrationTriggers are the day counts that fire a milestone transition.
var DefaultCelebrationTriggers = []int{100, 50, 30, 7, 1}

// CrossedTrigger reports whether moving from prev to cur days remaining
// lands on a celebration trigger. Only a change onto a trigger value counts,
// so repeated ticks on the same day fire once.
func CrossedTrigger(prev, cur int) (int, bool) {
	if prev == cur {
		return 0, false
	}
	if slices.Contains(DefaultCelebrationTriggers, cur) {
		return cur, true
	}
	return 0, false
}
