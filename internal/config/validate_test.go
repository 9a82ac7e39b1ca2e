package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string // expected error field; empty means valid
	}{
		{"defaults", func(c *Config) {}, ""},
		{"bad target", func(c *Config) { c.Target.Default = "someday" }, "target.default"},
		{"target too far ahead", func(c *Config) { c.Target.Default = "2500-01-01T00:00" }, "target.default"},
		{"bad anchor", func(c *Config) { c.Target.Anchor = "2024-13-01T00:00" }, "target.anchor"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad version", func(c *Config) { c.SchemaVersion = "2.0" }, "schema_version"},
		{"tick too fast", func(c *Config) { c.TickInterval = "1ms" }, "tick_interval"},
		{"bad tick", func(c *Config) { c.TickInterval = "often" }, "tick_interval"},
		{"negative conns", func(c *Config) { c.Server.MaxConns = -1 }, "server.max_conns"},
		{"bad rate interval", func(c *Config) { c.Server.RateLimit.Interval = "0s" }, "server.rate_limit.interval"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"no state path", func(c *Config) { c.State.Path = "" }, "state.path"},
		{"zero milestone", func(c *Config) {
			c.Milestones = []MilestoneConfig{{Days: "0", Label: "now"}}
		}, "milestone[0]"},
		{"duplicate milestone", func(c *Config) {
			c.Milestones = []MilestoneConfig{{Days: "7", Label: "a"}, {Days: "7", Label: "b"}}
		}, "milestone[1]"},
		{"unlabelled milestone", func(c *Config) {
			c.Milestones = []MilestoneConfig{{Days: "7", Label: " "}}
		}, "milestone[0]"},
		{"webhook channel", func(c *Config) {
			c.Notifications = &NotificationsConfig{Enabled: true, Channels: []NotificationChannel{
				{Name: "hook", Type: "webhook", Enabled: true, WebhookURL: "https://example.com/hook"},
				{Name: "phone", Type: "ntfy", Enabled: true, Topic: "countdown", Level: "important"},
			}}
		}, ""},
		{"webhook without url", func(c *Config) {
			c.Notifications = &NotificationsConfig{Channels: []NotificationChannel{{Name: "hook", Type: "slack", Enabled: true}}}
		}, "notifications.channel[0]"},
		{"ntfy without topic", func(c *Config) {
			c.Notifications = &NotificationsConfig{Channels: []NotificationChannel{{Name: "phone", Type: "ntfy", Enabled: true}}}
		}, "notifications.channel[0]"},
		{"unknown channel type", func(c *Config) {
			c.Notifications = &NotificationsConfig{Channels: []NotificationChannel{{Name: "pager", Type: "pager", Enabled: true}}}
		}, "notifications.channel[0]"},
		{"duplicate channel", func(c *Config) {
			c.Notifications = &NotificationsConfig{Channels: []NotificationChannel{
				{Name: "a", Type: "ntfy", Topic: "x", Enabled: true},
				{Name: "a", Type: "ntfy", Topic: "y", Enabled: true},
			}}
		}, "notifications.channel[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			errs := cfg.Validate().Errors()

			if tt.field == "" {
				if len(errs) != 0 {
					t.Fatalf("expected valid, got %v", errs)
				}
				return
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidate_AnchorAfterTargetWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target.Anchor = "2035-01-01T00:00"

	errs := cfg.Validate()
	if errs.HasErrors() {
		t.Fatalf("anchor after target should only warn, got %v", errs)
	}
	warnings := errs.Warnings()
	if len(warnings) != 1 || warnings[0].Field != "target.anchor" {
		t.Errorf("expected one target.anchor warning, got %v", warnings)
	}
	if !strings.Contains(warnings.Error(), "100%") {
		t.Errorf("warning should mention full progress: %q", warnings.Error())
	}
}
