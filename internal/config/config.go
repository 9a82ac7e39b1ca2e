package config

import (
	"fmt"
	"time"

	"github.com/ShaKy8/CountdownToRetirement/internal/brand"
	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
)

// CurrentSchemaVersion defines the current schema version of the configuration.
const CurrentSchemaVersion = "1.0"

// Defaults for the compiled-in countdown.
const (
	DefaultTarget       = "2030-06-30T17:00"
	DefaultAnchor       = "2024-01-01T00:00"
	DefaultTickInterval = "1s"
	DefaultListen       = ":8080"
	DefaultMaxConns     = 256
	DefaultRateRequests = 120
	DefaultRateInterval = "1m"
)

// Config is the top-level structure for the countdown configuration.
type Config struct {
	// Schema version for backward compatibility (e.g., "1.0")
	SchemaVersion string `hcl:"schema_version,optional" json:"schema_version,omitempty" yaml:"schema_version,omitempty"`

	Target       *TargetConfig     `hcl:"target,block" json:"target,omitempty" yaml:"target,omitempty"`
	Milestones   []MilestoneConfig `hcl:"milestone,block" json:"milestones,omitempty" yaml:"milestones,omitempty"`
	Motivation   []string          `hcl:"motivation,optional" json:"motivation,omitempty" yaml:"motivation,omitempty"`
	TickInterval string            `hcl:"tick_interval,optional" json:"tick_interval,omitempty" yaml:"tick_interval,omitempty"`

	// IANA zone the countdown is evaluated in; empty means the host's local zone.
	Timezone string `hcl:"timezone,optional" json:"timezone,omitempty" yaml:"timezone,omitempty"`

	State         *StateConfig         `hcl:"state,block" json:"state,omitempty" yaml:"state,omitempty"`
	Server        *ServerConfig        `hcl:"server,block" json:"server,omitempty" yaml:"server,omitempty"`
	Logging       *LoggingConfig       `hcl:"logging,block" json:"logging,omitempty" yaml:"logging,omitempty"`
	Notifications *NotificationsConfig `hcl:"notifications,block" json:"notifications,omitempty" yaml:"notifications,omitempty"`
}

// TargetConfig holds the compiled-in target and the progress anchor.
type TargetConfig struct {
	Default string `hcl:"default,optional" json:"default,omitempty" yaml:"default,omitempty"`
	Anchor  string `hcl:"anchor,optional" json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// MilestoneConfig is one labelled threshold. The HCL label is the day count.
type MilestoneConfig struct {
	Days  string `hcl:"days,label" json:"days" yaml:"days"`
	Label string `hcl:"label" json:"label" yaml:"label"`
}

// StateConfig configures the target date store.
type StateConfig struct {
	Path string `hcl:"path,optional" json:"path,omitempty" yaml:"path,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Listen    string           `hcl:"listen,optional" json:"listen,omitempty" yaml:"listen,omitempty"`
	StaticDir string           `hcl:"static_dir,optional" json:"static_dir,omitempty" yaml:"static_dir,omitempty"`
	MaxConns  int              `hcl:"max_conns,optional" json:"max_conns,omitempty" yaml:"max_conns,omitempty"`
	RateLimit *RateLimitConfig `hcl:"rate_limit,block" json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

// RateLimitConfig is a per-client fixed window. Requests = 0 disables limiting.
type RateLimitConfig struct {
	Requests int    `hcl:"requests,optional" json:"requests" yaml:"requests"`
	Interval string `hcl:"interval,optional" json:"interval,omitempty" yaml:"interval,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `hcl:"level,optional" json:"level,omitempty" yaml:"level,omitempty"`
	JSON  bool   `hcl:"json,optional" json:"json,omitempty" yaml:"json,omitempty"`
}

// NotificationsConfig configures where celebrations are pushed.
type NotificationsConfig struct {
	Enabled  bool                  `hcl:"enabled,optional" json:"enabled" yaml:"enabled"`
	Channels []NotificationChannel `hcl:"channel,block" json:"channels" yaml:"channels"`
}

// NotificationChannel defines a notification destination.
type NotificationChannel struct {
	Name    string `hcl:"name,label" json:"name" yaml:"name"`
	Type    string `hcl:"type" json:"type" yaml:"type"`                                 // webhook, slack, discord, ntfy
	Level   string `hcl:"level,optional" json:"level,omitempty" yaml:"level,omitempty"` // info, important
	Enabled bool   `hcl:"enabled,optional" json:"enabled" yaml:"enabled"`

	// Webhook/Slack/Discord settings
	WebhookURL string `hcl:"webhook_url,optional" json:"webhook_url,omitempty" yaml:"webhook_url,omitempty"`

	// ntfy settings
	Server string `hcl:"server,optional" json:"server,omitempty" yaml:"server,omitempty"`
	Topic  string `hcl:"topic,optional" json:"topic,omitempty" yaml:"topic,omitempty"`
	Token  string `hcl:"token,optional" json:"token,omitempty" yaml:"token,omitempty"`

	Headers map[string]string `hcl:"headers,optional" json:"headers,omitempty" yaml:"headers,omitempty"`
}

// DefaultConfig returns a fully populated configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.SchemaVersion == "" {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if c.Target == nil {
		c.Target = &TargetConfig{}
	}
	if c.Target.Default == "" {
		c.Target.Default = DefaultTarget
	}
	if c.Target.Anchor == "" {
		c.Target.Anchor = DefaultAnchor
	}
	if c.TickInterval == "" {
		c.TickInterval = DefaultTickInterval
	}
	if c.State == nil {
		c.State = &StateConfig{}
	}
	if c.State.Path == "" {
		c.State.Path = brand.DefaultStatePath()
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.MaxConns == 0 {
		c.Server.MaxConns = DefaultMaxConns
	}
	if c.Server.RateLimit == nil {
		c.Server.RateLimit = &RateLimitConfig{Requests: DefaultRateRequests}
	}
	if c.Server.RateLimit.Interval == "" {
		c.Server.RateLimit.Interval = DefaultRateInterval
	}
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Location returns the zone the countdown is evaluated in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DefaultTargetTime resolves target.default in loc.
func (c *Config) DefaultTargetTime(loc *time.Location) (time.Time, error) {
	return countdown.ParseTarget(c.Target.Default, loc)
}

// AnchorTime resolves target.anchor in loc.
func (c *Config) AnchorTime(loc *time.Location) (time.Time, error) {
	return countdown.ParseTarget(c.Target.Anchor, loc)
}

// TickDuration returns the parsed tick_interval.
func (c *Config) TickDuration() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// RateWindow returns the parsed rate limit interval.
func (c *Config) RateWindow() time.Duration {
	d, err := time.ParseDuration(c.Server.RateLimit.Interval)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// MilestoneList returns the configured milestones, or the defaults when none
// are configured. Order follows the file.
func (c *Config) MilestoneList() ([]countdown.Milestone, error) {
	if len(c.Milestones) == 0 {
		return countdown.DefaultMilestones(), nil
	}
	out := make([]countdown.Milestone, 0, len(c.Milestones))
	for _, m := range c.Milestones {
		days, err := parseDays(m.Days)
		if err != nil {
			return nil, err
		}
		out = append(out, countdown.Milestone{ThresholdDays: days, Label: m.Label})
	}
	return out, nil
}

// Messages returns the motivation rotation, or the built-in messages.
func (c *Config) Messages() []string {
	if len(c.Motivation) == 0 {
		return countdown.DefaultMessages
	}
	return c.Motivation
}
