package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/config"
	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
	"github.com/ShaKy8/CountdownToRetirement/internal/metrics"
	"github.com/ShaKy8/CountdownToRetirement/internal/notification"
	"github.com/ShaKy8/CountdownToRetirement/internal/ratelimit"
)

func TestCelebrate_LogsUntilClosed(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Output: &buf, JSON: true})

	ch := make(chan events.Event, 2)
	ch <- events.Event{Type: events.EventMilestoneTransition, Data: events.MilestoneData{Trigger: 30, DaysRemaining: 30}}
	ch <- events.Event{Type: events.EventTargetReached, Data: events.TargetData{}}
	close(ch)

	celebrate(context.Background(), ch, logger)

	out := buf.String()
	if !strings.Contains(out, Printer.Sprintf("%d days to go!", 30)) {
		t.Errorf("missing milestone log:\n%s", out)
	}
	if !strings.Contains(out, Printer.Sprintf("Target reached!")) {
		t.Errorf("missing reached log:\n%s", out)
	}
}

func TestCelebrate_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		celebrate(ctx, make(chan events.Event), logging.New(logging.Config{}))
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("celebrate did not return after cancel")
	}
}

func TestCleanupTask(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	l := ratelimit.NewLimiter(5, time.Minute, clk)
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")

	task := cleanupTask(l, time.Minute, logging.New(logging.Config{}))
	if err := task.Func(context.Background()); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 2 {
		t.Fatalf("fresh buckets removed: %d left", l.Len())
	}

	clk.Advance(3 * time.Minute)
	if err := task.Func(context.Background()); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 0 {
		t.Errorf("expired buckets kept: %d left", l.Len())
	}
}

func TestUptimeTask(t *testing.T) {
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(start)
	promReg := prometheus.NewRegistry()
	reg := metrics.NewRegistry(promReg)

	task := uptimeTask(reg, clk, start)
	clk.Advance(90 * time.Second)
	if err := task.Func(context.Background()); err != nil {
		t.Fatal(err)
	}

	families, err := promReg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() == "countdown_uptime_seconds" {
			if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 90 {
				t.Errorf("uptime = %v, want 90", got)
			}
			return
		}
	}
	t.Error("countdown_uptime_seconds not registered")
}

func TestSubscribePushes_DisabledLeavesNoSubscriber(t *testing.T) {
	hub := events.NewHub()
	quiet := logging.New(logging.Config{Output: io.Discard})

	off := notification.NewDispatcher(&config.NotificationsConfig{}, quiet)
	if ch := subscribePushes(hub, off); ch != nil {
		t.Fatal("subscribed while notifications are off")
	}
	for i := 0; i < 20; i++ {
		hub.EmitMilestoneTransition(31, 30, 30)
	}
	if _, dropped := hub.Stats(); dropped != 0 {
		t.Errorf("dropped = %d with notifications off, want 0", dropped)
	}

	on := notification.NewDispatcher(&config.NotificationsConfig{
		Enabled:  true,
		Channels: []config.NotificationChannel{{Name: "hook", Type: "webhook", Enabled: true, WebhookURL: "http://127.0.0.1:1"}},
	}, quiet)
	ch := subscribePushes(hub, on)
	if ch == nil {
		t.Fatal("not subscribed while notifications are on")
	}
	defer hub.Unsubscribe(ch)
	hub.Publish(events.Event{Type: events.EventTargetReached, Data: events.TargetData{}})
	select {
	case e := <-ch:
		if e.Type != events.EventTargetReached {
			t.Errorf("event type = %s", e.Type)
		}
	default:
		t.Error("celebration not delivered")
	}
}

func TestReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countdown.hcl")
	cfg := `
timezone = "UTC"

logging {
  level = "error"
}

notifications {
  enabled = true
  channel "phone" {
    type    = "ntfy"
    topic   = "countdown"
    enabled = true
  }
}
`
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf})
	notifier := notification.NewDispatcher(nil, logger)

	if err := reloadConfig(path, logger, notifier, false); err != nil {
		t.Fatalf("reloadConfig() error = %v", err)
	}
	if logger.GetLevel() != logging.LevelError {
		t.Errorf("level = %v, want error", logger.GetLevel())
	}
	if !notifier.Enabled() {
		t.Error("notification channels not applied")
	}
	if !strings.Contains(buf.String(), "log level changed") {
		t.Errorf("level change not logged:\n%s", buf.String())
	}
}

func TestReloadConfig_KeepsSettingsOnError(t *testing.T) {
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: io.Discard})
	notifier := notification.NewDispatcher(nil, logger)

	if err := reloadConfig(filepath.Join(t.TempDir(), "missing.hcl"), logger, notifier, false); err == nil {
		t.Fatal("reloadConfig() error = nil for a missing file")
	}
	if logger.GetLevel() != logging.LevelDebug {
		t.Errorf("level changed to %v after a failed reload", logger.GetLevel())
	}
}
