package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ShaKy8/CountdownToRetirement/internal/brand"
	"github.com/ShaKy8/CountdownToRetirement/internal/config"
)

// RunCheck validates the configuration file syntax and semantics.
func RunCheck(configFile string, verbose bool) error {
	return runCheck(os.Stdout, configFile, verbose)
}

func runCheck(w io.Writer, configFile string, verbose bool) error {
	if len(configFile) == 0 {
		return fmt.Errorf("usage: %s check [-v] <config-file>\nExample: %s check -v %s",
			brand.BinaryName, brand.BinaryName, brand.DefaultConfigPath())
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := config.Parse(data, configFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	findings := cfg.Validate()
	if findings.HasErrors() {
		printFindings(w, findings)
		return fmt.Errorf("configuration invalid: %d error(s)", len(findings.Errors()))
	}

	Printer.Fprintf(w, "Configuration valid!\n")
	Printer.Fprintf(w, "Schema Version: %s\n", cfg.SchemaVersion)
	Printer.Fprintf(w, "Default target: %s\n", cfg.Target.Default)
	Printer.Fprintf(w, "Milestones: %d\n", len(cfg.Milestones))
	if warnings := findings.Warnings(); len(warnings) > 0 {
		printFindings(w, warnings)
	}

	if verbose {
		printSummary(w, cfg)
	}
	return nil
}

func printFindings(w io.Writer, findings config.ValidationErrors) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range findings {
		severity := f.Severity
		if severity == "" {
			severity = "error"
		}
		Printer.Fprintf(tw, "%s\t%s\t%s\n", severity, f.Field, f.Message)
	}
	tw.Flush()
}

func printSummary(w io.Writer, cfg *config.Config) {
	Printer.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	zone := cfg.Timezone
	if zone == "" {
		zone = "local"
	}
	rows := [][2]string{
		{"Timezone", zone},
		{"Anchor", cfg.Target.Anchor},
		{"Tick interval", cfg.TickDuration().String()},
		{"State", cfg.State.Path},
		{"Listen", cfg.Server.Listen},
		{"Static dir", cfg.Server.StaticDir},
		{"Max conns", fmt.Sprint(cfg.Server.MaxConns)},
		{"Rate limit", fmt.Sprintf("%d / %s", cfg.Server.RateLimit.Requests, cfg.RateWindow())},
		{"Log level", cfg.Logging.Level},
	}
	for _, r := range rows {
		Printer.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	tw.Flush()

	milestones, err := cfg.MilestoneList()
	if err != nil {
		return
	}
	Printer.Fprintln(w)
	Printer.Fprintln(w, "Milestones:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, m := range milestones {
		Printer.Fprintf(tw, "  %d\t %s\t\n", m.ThresholdDays, m.Label)
	}
	tw.Flush()
}
