package countdown

import "time"

// DisplayLayout is the human form of the target date.
const DisplayLayout = "Monday, January 2, 2006 at 3:04 PM"

// FormatTargetDisplay renders the target date in loc (nil keeps t's location).
func FormatTargetDisplay(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DisplayLayout)
}

// MessageRotation is how long each motivational message stays on screen.
const MessageRotation = 10 * time.Second

// DefaultMessages are the stock motivational messages.
var DefaultMessages = []string{
	"Every day is one step closer.",
	"Keep going, the finish line is waiting.",
	"Small steps add up to big journeys.",
	"Make today count.",
	"The best is yet to come.",
	"You have earned every one of these days.",
}

// Motivation picks messages[floor(epochMs/10000) mod len(messages)].
// It returns "" when there are no messages.
func Motivation(now time.Time, messages []string) string {
	n := int64(len(messages))
	if n == 0 {
		return ""
	}
	idx := (now.UnixMilli() / MessageRotation.Milliseconds()) % n
	if idx < 0 {
		idx += n
	}
	return messages[idx]
}
