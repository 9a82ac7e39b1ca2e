package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMotivation_Rotation(t *testing.T) {
	msgs := []string{"a", "b", "c"}

	assert.Equal(t, "a", Motivation(time.UnixMilli(0), msgs))
	assert.Equal(t, "a", Motivation(time.UnixMilli(9_999), msgs))
	assert.Equal(t, "b", Motivation(time.UnixMilli(10_000), msgs))
	assert.Equal(t, "c", Motivation(time.UnixMilli(29_999), msgs))
	assert.Equal(t, "a", Motivation(time.UnixMilli(30_000), msgs))
}

func TestMotivation_Empty(t *testing.T) {
	assert.Equal(t, "", Motivation(time.Now(), nil))
}

func TestMotivation_BeforeEpoch(t *testing.T) {
	got := Motivation(time.UnixMilli(-10_000), []string{"a", "b", "c"})
	assert.Contains(t, []string{"a", "b", "c"}, got)
}

func TestFormatTargetDisplay(t *testing.T) {
	target := time.Date(2030, 6, 28, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "Friday, June 28, 2030 at 5:00 PM", FormatTargetDisplay(target, nil))
	assert.Equal(t, "Friday, June 28, 2030 at 7:00 PM", FormatTargetDisplay(target, time.FixedZone("cest", 2*3600)))
}
