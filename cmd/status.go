package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/message"

	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
	"github.com/ShaKy8/CountdownToRetirement/internal/runner"
)

// RunStatus evaluates the countdown once and prints it.
func RunStatus(configFile string, asJSON bool) error {
	a, err := openApp(configFile, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	out := a.runner.Tick()
	if asJSON {
		return writeStatusJSON(os.Stdout, out)
	}
	printStatus(os.Stdout, Printer, out)
	return nil
}

func writeStatusJSON(w io.Writer, out runner.Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printStatus(w io.Writer, p *message.Printer, out runner.Output) {
	p.Fprintf(w, "%-12s %s\n", p.Sprintf("Target"), out.TargetDisplay)
	if out.IsReached {
		p.Fprintln(w, p.Sprintf("Target reached!"))
		return
	}

	p.Fprintf(w, "%-12s %s (%s)\n", p.Sprintf("Remaining"),
		p.Sprintf("%d days, %d hours, %d minutes, %d seconds", out.Days, out.Hours, out.Minutes, out.Seconds),
		humanize.RelTime(out.Target, out.GeneratedAt, "ago", "from now"))
	p.Fprintf(w, "%-12s %.1f%% (%s)\n", p.Sprintf("Progress"), out.Percentage, out.BandDescription)
	p.Fprintln(w)

	for _, row := range []struct {
		label string
		value int
	}{
		{"Work days", out.WorkDays},
		{"Weekends", out.WeekendCount},
		{"Sleeps", out.Sleeps},
		{"Sunrises", out.Sunrises},
		{"Mondays", out.Mondays},
		{"Fridays", out.Fridays},
		{"Weeks", out.TotalWeeks},
		{"Months", out.TotalMonths},
		{"Total hours", out.TotalHours},
	} {
		p.Fprintf(w, "  %-12s %d\n", p.Sprintf(row.label), row.value)
	}

	if len(out.Milestones) > 0 {
		p.Fprintln(w)
		p.Fprintln(w, p.Sprintf("Milestones"))
		for _, ms := range out.Milestones {
			p.Fprintf(w, "  %s %5d  %s\n", milestoneMark(ms.State), ms.Milestone.ThresholdDays, ms.Milestone.Label)
		}
	}

	if out.Motivation != "" {
		p.Fprintln(w)
		fmt.Fprintln(w, out.Motivation)
	}
}

func milestoneMark(s countdown.MilestoneState) string {
	switch s {
	case countdown.MilestoneAchieved:
		return "✓"
	case countdown.MilestoneActive:
		return "▶"
	}
	return "·"
}
