package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossedTrigger(t *testing.T) {
	tests := []struct {
		prev, cur int
		trigger   int
		ok        bool
	}{
		{101, 100, 100, true},
		{100, 100, 0, false},
		{51, 50, 50, true},
		{31, 30, 30, true},
		{8, 7, 7, true},
		{2, 1, 1, true},
		{1, 0, 0, false},
		{102, 101, 0, false},
		{120, 99, 0, false},
		{6, 7, 7, true},
	}

	for _, tt := range tests {
		trigger, ok := CrossedTrigger(tt.prev, tt.cur)
		assert.Equal(t, tt.ok, ok, "prev=%d cur=%d", tt.prev, tt.cur)
		assert.Equal(t, tt.trigger, trigger, "prev=%d cur=%d", tt.prev, tt.cur)
	}
}
