package tui

import (
	"math"
	"strings"
)

const (
	sandFull  = "▓"
	sandEmpty = "░"
)

func clampPercent(pct float64) float64 {
	switch {
	case math.IsNaN(pct), pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// Thermometer draws a vertical thermometer with height tube rows, filled
// from the bottom in proportion to pct.
func Thermometer(pct float64, height int) string {
	if height < 1 {
		height = 1
	}
	filled := int(math.Round(clampPercent(pct) / 100 * float64(height)))

	lines := make([]string, 0, height+4)
	lines = append(lines, " ╭─╮ ")
	for row := height; row >= 1; row-- {
		if row <= filled {
			lines = append(lines, " │█│ ")
		} else {
			lines = append(lines, " │ │ ")
		}
	}
	lines = append(lines, "╭┘█└╮", "│ ● │", "╰───╯")
	return strings.Join(lines, "\n")
}

// Hourglass draws an hourglass with rows rows per chamber. The sand in the
// bottom chamber is pct of the total; the rest is still in the top.
func Hourglass(pct float64, rows int) string {
	if rows < 1 {
		rows = 1
	}
	capacity := rows * rows // a chamber's rows are 1, 3, 5, ... cells wide
	bottom := int(math.Round(clampPercent(pct) / 100 * float64(capacity)))
	top := capacity - bottom

	width := 2*rows - 1
	lines := make([]string, 0, 2*rows+2)
	lines = append(lines, "═"+strings.Repeat("═", width)+"═")

	// Top chamber: wide to narrow. Sand rests at the neck, so fill the
	// narrow rows first.
	topRows := make([]string, rows)
	left := top
	for i := rows - 1; i >= 0; i-- {
		w := 2*(rows-i) - 1
		k := min(w, left)
		left -= k
		topRows[i] = hourglassRow(rows, w, k)
	}
	lines = append(lines, topRows...)

	// Bottom chamber: narrow to wide. Sand piles from the base up.
	bottomRows := make([]string, rows)
	left = bottom
	for i := rows - 1; i >= 0; i-- {
		w := 2*i + 1
		k := min(w, left)
		left -= k
		bottomRows[i] = hourglassRow(rows, w, k)
	}
	lines = append(lines, bottomRows...)

	lines = append(lines, "═"+strings.Repeat("═", width)+"═")
	return strings.Join(lines, "\n")
}

// hourglassRow renders a centred row of width w holding k grains.
func hourglassRow(rows, w, k int) string {
	indent := rows - (w+1)/2 + 1
	empty := w - k
	l := empty / 2
	r := empty - l
	return strings.Repeat(" ", indent) +
		strings.Repeat(sandEmpty, l) + strings.Repeat(sandFull, k) + strings.Repeat(sandEmpty, r)
}
