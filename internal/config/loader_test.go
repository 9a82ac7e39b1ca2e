package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadHCL_FullConfig(t *testing.T) {
	src := `
schema_version = "1.0"
tick_interval  = "500ms"
timezone       = "UTC"
motivation     = ["one", "two"]

target {
  default = "2031-06-30T17:00"
  anchor  = "2025-01-01T00:00"
}

milestone "365" {
  label = "A year"
}

milestone "30" {
  label = "A month"
}

state {
  path = "/tmp/countdown.db"
}

server {
  listen    = "127.0.0.1:9090"
  max_conns = 32

  rate_limit {
    requests = 10
    interval = "30s"
  }
}

logging {
  level = "debug"
  json  = true
}
`
	cfg, err := Parse([]byte(src), "test.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("Validate() = %v", errs)
	}

	if cfg.TickDuration() != 500*time.Millisecond {
		t.Errorf("TickDuration() = %v", cfg.TickDuration())
	}
	if cfg.Server.Listen != "127.0.0.1:9090" || cfg.Server.MaxConns != 32 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.RateLimit.Requests != 10 || cfg.RateWindow() != 30*time.Second {
		t.Errorf("RateLimit = %+v", cfg.Server.RateLimit)
	}
	if !cfg.Logging.JSON || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	ms, err := cfg.MilestoneList()
	if err != nil {
		t.Fatalf("MilestoneList() error = %v", err)
	}
	if len(ms) != 2 || ms[0].ThresholdDays != 365 || ms[1].Label != "A month" {
		t.Errorf("MilestoneList() = %+v", ms)
	}

	if got := cfg.Messages(); len(got) != 2 || got[1] != "two" {
		t.Errorf("Messages() = %v", got)
	}

	loc, _ := cfg.Location()
	target, err := cfg.DefaultTargetTime(loc)
	if err != nil {
		t.Fatalf("DefaultTargetTime() error = %v", err)
	}
	want := time.Date(2031, 6, 30, 17, 0, 0, 0, time.UTC)
	if !target.Equal(want) {
		t.Errorf("DefaultTargetTime() = %v, want %v", target, want)
	}
}

func TestLoadHCL_EmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil, "empty.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if errs := cfg.Validate(); errs.HasErrors() {
		t.Fatalf("Validate() = %v", errs)
	}
	if cfg.Target.Default != DefaultTarget || cfg.Target.Anchor != DefaultAnchor {
		t.Errorf("Target = %+v", cfg.Target)
	}
	if cfg.Server.Listen != DefaultListen {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	ms, _ := cfg.MilestoneList()
	if len(ms) != 8 {
		t.Errorf("expected 8 default milestones, got %d", len(ms))
	}
}

func TestLoadHCL_EnvContext(t *testing.T) {
	t.Setenv("COUNTDOWN_TEST_DIR", "/srv/countdown")

	src := `
state {
  path = "${env.COUNTDOWN_TEST_DIR}/state.db"
}

logging {
  level = lower(getenv("COUNTDOWN_TEST_UNSET_LEVEL", "WARN"))
}
`
	cfg, err := Parse([]byte(src), "env.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.State.Path != "/srv/countdown/state.db" {
		t.Errorf("State.Path = %q", cfg.State.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadHCL_SyntaxError(t *testing.T) {
	if _, err := LoadHCL([]byte("target {"), "bad.hcl"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadHCL([]byte(`bogus = 1`), "bad.hcl"); err == nil {
		t.Error("expected decode error for unknown attribute")
	}
}

func TestLoadJSONAndYAML(t *testing.T) {
	jsonSrc := `{"target": {"default": "2032-01-01T09:00"}, "milestones": [{"days": "10", "label": "Ten"}]}`
	cfg, err := Parse([]byte(jsonSrc), "c.json")
	if err != nil {
		t.Fatalf("JSON Parse() error = %v", err)
	}
	if cfg.Target.Default != "2032-01-01T09:00" || len(cfg.Milestones) != 1 {
		t.Errorf("JSON config = %+v", cfg)
	}

	yamlSrc := "tick_interval: 2s\nserver:\n  listen: \":7000\"\n"
	cfg, err = Parse([]byte(yamlSrc), "c.yaml")
	if err != nil {
		t.Fatalf("YAML Parse() error = %v", err)
	}
	if cfg.TickDuration() != 2*time.Second || cfg.Server.Listen != ":7000" {
		t.Errorf("YAML config tick=%v listen=%q", cfg.TickDuration(), cfg.Server.Listen)
	}

	if _, err := Parse([]byte(`{"unknown": 1}`), "c.json"); err == nil {
		t.Error("expected error for unknown JSON field")
	}
	if _, err := Parse([]byte("unknown: 1\n"), "c.yml"); err == nil {
		t.Error("expected error for unknown YAML field")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.hcl")
	os.WriteFile(good, []byte(`tick_interval = "2s"`), 0o644)
	if _, err := LoadFile(good); err != nil {
		t.Errorf("LoadFile(good) error = %v", err)
	}

	bad := filepath.Join(dir, "bad.hcl")
	os.WriteFile(bad, []byte(`tick_interval = "soon"`), 0o644)
	_, err := LoadFile(bad)
	if err == nil || !strings.Contains(err.Error(), "tick_interval") {
		t.Errorf("LoadFile(bad) error = %v, want tick_interval error", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.hcl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRender_RoundTrip(t *testing.T) {
	starter := Starter()
	out := Render(starter)

	cfg, err := Parse(out, "rendered.hcl")
	if err != nil {
		t.Fatalf("Parse(Render()) error = %v\n%s", err, out)
	}
	if errs := cfg.Validate(); errs.HasErrors() {
		t.Fatalf("Validate() = %v", errs)
	}
	if len(cfg.Milestones) != len(starter.Milestones) {
		t.Errorf("milestones: got %d, want %d", len(cfg.Milestones), len(starter.Milestones))
	}
	if len(cfg.Motivation) != len(starter.Motivation) {
		t.Errorf("motivation: got %d, want %d", len(cfg.Motivation), len(starter.Motivation))
	}
	if cfg.Target.Default != DefaultTarget {
		t.Errorf("target.default = %q", cfg.Target.Default)
	}
}

func TestLoadHCL_Notifications(t *testing.T) {
	src := `
notifications {
  enabled = true

  channel "team" {
    type        = "slack"
    enabled     = true
    webhook_url = "https://hooks.example.com/T000"
  }

  channel "phone" {
    type    = "ntfy"
    enabled = true
    level   = "important"
    topic   = "countdown"
    headers = {
      "X-Priority" = "4"
    }
  }
}
`
	cfg, err := Parse([]byte(src), "notify.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("Validate() = %v", errs)
	}

	n := cfg.Notifications
	if n == nil || !n.Enabled || len(n.Channels) != 2 {
		t.Fatalf("Notifications = %+v", n)
	}
	if n.Channels[0].Name != "team" || n.Channels[0].WebhookURL != "https://hooks.example.com/T000" {
		t.Errorf("channel[0] = %+v", n.Channels[0])
	}
	if n.Channels[1].Headers["X-Priority"] != "4" || n.Channels[1].Level != "important" {
		t.Errorf("channel[1] = %+v", n.Channels[1])
	}
}
