package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
)

// MinTickInterval bounds tick_interval from below.
const MinTickInterval = 10 * time.Millisecond

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field    string
	Message  string
	Severity string // "error" (default), "warning"
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any error-severity entries.
func (e ValidationErrors) HasErrors() bool {
	return len(e.Errors()) > 0
}

// Errors returns only the error-severity entries.
func (e ValidationErrors) Errors() ValidationErrors {
	return e.filter(false)
}

// Warnings returns only the warning-severity entries.
func (e ValidationErrors) Warnings() ValidationErrors {
	return e.filter(true)
}

func (e ValidationErrors) filter(warnings bool) ValidationErrors {
	var out ValidationErrors
	for _, v := range e {
		if (v.Severity == "warning") == warnings {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks the config and returns every problem found.
// Call ApplyDefaults first; missing blocks are reported as errors.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: "warning"})
	}

	if major, _, _ := strings.Cut(c.SchemaVersion, "."); major != "1" {
		add("schema_version", "unsupported version %q (current %s)", c.SchemaVersion, CurrentSchemaVersion)
	}

	loc, err := c.Location()
	if err != nil {
		add("timezone", "%v", err)
		loc = time.Local
	}

	if c.Target == nil {
		add("target", "block is required")
	} else {
		target, terr := c.DefaultTargetTime(loc)
		if terr != nil {
			add("target.default", "cannot parse %q", c.Target.Default)
		} else if target.After(time.Now().AddDate(countdown.MaxHorizonYears, 0, 0)) {
			add("target.default", "%q is more than %d years ahead", c.Target.Default, countdown.MaxHorizonYears)
		}
		anchor, aerr := c.AnchorTime(loc)
		if aerr != nil {
			add("target.anchor", "cannot parse %q", c.Target.Anchor)
		}
		if terr == nil && aerr == nil && !anchor.Before(target) {
			warn("target.anchor", "anchor %s is not before the default target; progress will read 100%%", c.Target.Anchor)
		}
	}

	seen := make(map[int]bool)
	for i, m := range c.Milestones {
		field := fmt.Sprintf("milestone[%d]", i)
		days, err := parseDays(m.Days)
		if err != nil {
			add(field, "%v", err)
			continue
		}
		if seen[days] {
			add(field, "duplicate threshold %d", days)
		}
		seen[days] = true
		if strings.TrimSpace(m.Label) == "" {
			add(field, "label is required")
		}
	}

	if d, err := time.ParseDuration(c.TickInterval); err != nil {
		add("tick_interval", "invalid duration %q", c.TickInterval)
	} else if d < MinTickInterval {
		add("tick_interval", "must be at least %s", MinTickInterval)
	}

	if c.State == nil || c.State.Path == "" {
		add("state.path", "is required")
	}

	if c.Server == nil {
		add("server", "block is required")
	} else {
		if c.Server.MaxConns < 0 {
			add("server.max_conns", "must not be negative")
		}
		if rl := c.Server.RateLimit; rl != nil {
			if rl.Requests < 0 {
				add("server.rate_limit.requests", "must not be negative")
			}
			if d, err := time.ParseDuration(rl.Interval); err != nil || d <= 0 {
				add("server.rate_limit.interval", "invalid duration %q", rl.Interval)
			}
		}
	}

	if c.Logging != nil {
		if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
			add("logging.level", "%v", err)
		}
	}

	if n := c.Notifications; n != nil {
		names := make(map[string]bool)
		for i, ch := range n.Channels {
			field := fmt.Sprintf("notifications.channel[%d]", i)
			if names[ch.Name] {
				add(field, "duplicate channel %q", ch.Name)
			}
			names[ch.Name] = true

			switch strings.ToLower(ch.Type) {
			case "webhook", "slack", "discord":
				if ch.WebhookURL == "" {
					add(field, "%s channel requires webhook_url", ch.Type)
				}
			case "ntfy":
				if ch.Topic == "" {
					add(field, "ntfy channel requires topic")
				}
			default:
				add(field, "unknown channel type %q", ch.Type)
			}

			switch strings.ToLower(ch.Level) {
			case "", "info", "important":
			default:
				add(field, "unknown level %q (want info or important)", ch.Level)
			}
			if !ch.Enabled {
				warn(field, "channel %q is disabled", ch.Name)
			}
		}
		if n.Enabled && len(n.Channels) == 0 {
			warn("notifications", "enabled with no channels")
		}
	}

	return errs
}

func parseDays(s string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("threshold %q must be a positive whole number of days", s)
	}
	return days, nil
}
