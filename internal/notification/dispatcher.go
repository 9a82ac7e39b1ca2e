// Package notification pushes countdown celebrations to external channels
// (generic webhooks, Slack, Discord and ntfy).
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/message"

	"github.com/ShaKy8/CountdownToRetirement/internal/brand"
	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/config"
	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
)

// Level constants
const (
	LevelInfo      = "info"
	LevelImportant = "important"
)

// ImportantWithinDays marks milestone crossings this close to the target
// as important.
const ImportantWithinDays = 7

// DefaultNtfyServer is used when an ntfy channel names no server.
const DefaultNtfyServer = "https://ntfy.sh"

// Notification represents a notification event
type Notification struct {
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Level     string         `json:"level"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient replaces the client used for every channel.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

// WithClock sets the clock used to stamp notifications.
func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// Dispatcher manages notification channels and dispatching
type Dispatcher struct {
	config *config.NotificationsConfig
	logger *logging.Logger
	client *http.Client
	clock  clock.Clock
	mu     sync.RWMutex
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(cfg *config.NotificationsConfig, logger *logging.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = logging.Default().WithComponent("notification")
	}
	d := &Dispatcher{
		config: cfg,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.clock = clock.OrReal(d.clock)
	return d
}

// UpdateConfig updates the dispatcher configuration
func (d *Dispatcher) UpdateConfig(cfg *config.NotificationsConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.config = cfg
}

// Enabled reports whether any notification would be sent.
func (d *Dispatcher) Enabled() bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config != nil && d.config.Enabled && len(d.config.Channels) > 0
}

// Send dispatches a notification to all enabled and relevant channels and
// waits for them. Failures are logged and returned joined.
func (d *Dispatcher) Send(ctx context.Context, n Notification) error {
	if !d.Enabled() {
		return nil
	}
	d.mu.RLock()
	channels := d.config.Channels
	d.mu.RUnlock()

	if n.Timestamp.IsZero() {
		n.Timestamp = d.clock.Now()
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, ch := range channels {
		if !ch.Enabled || !shouldSend(n.Level, ch.Level) {
			continue
		}

		wg.Add(1)
		go func(channel config.NotificationChannel) {
			defer wg.Done()
			if err := d.sendToChannel(ctx, channel, n); err != nil {
				d.logger.Error("failed to send notification",
					"channel", channel.Name,
					"type", channel.Type,
					"error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", channel.Name, err))
				mu.Unlock()
			}
		}(ch)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// FromEvent builds the notification for a celebration event. Events that
// are not celebrations return false.
func FromEvent(e events.Event, p *message.Printer) (Notification, bool) {
	n := Notification{Title: brand.Name, Timestamp: e.Timestamp}
	switch data := e.Data.(type) {
	case events.MilestoneData:
		n.Message = p.Sprintf("%d days to go!", data.Trigger)
		n.Level = LevelInfo
		if data.Trigger <= ImportantWithinDays {
			n.Level = LevelImportant
		}
		n.Data = map[string]any{"trigger": data.Trigger, "days": data.DaysRemaining}
	case events.TargetData:
		if e.Type != events.EventTargetReached {
			return Notification{}, false
		}
		n.Message = p.Sprintf("Target reached!")
		n.Level = LevelImportant
		n.Data = map[string]any{"target": data.Target}
	default:
		return Notification{}, false
	}
	return n, true
}

// Run forwards celebration events from ch until ctx is done or ch closes.
func (d *Dispatcher) Run(ctx context.Context, ch <-chan events.Event, p *message.Printer) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if n, ok := FromEvent(e, p); ok {
				_ = d.Send(ctx, n)
			}
		}
	}
}

// shouldSend checks if a message level meets the channel's minimum level
func shouldSend(msgLevel, chanLevel string) bool {
	// If channel has no level, accept all
	if chanLevel == "" {
		return true
	}

	levels := map[string]int{
		LevelInfo:      1,
		LevelImportant: 2,
	}
	return levels[strings.ToLower(msgLevel)] >= levels[strings.ToLower(chanLevel)]
}

func (d *Dispatcher) sendToChannel(ctx context.Context, ch config.NotificationChannel, n Notification) error {
	switch strings.ToLower(ch.Type) {
	case "webhook", "slack", "discord":
		return d.sendWebhook(ctx, ch, n)
	case "ntfy":
		return d.sendNtfy(ctx, ch, n)
	default:
		return fmt.Errorf("unknown channel type: %s", ch.Type)
	}
}

// Channel Implementations

func (d *Dispatcher) sendWebhook(ctx context.Context, ch config.NotificationChannel, n Notification) error {
	if ch.WebhookURL == "" {
		return fmt.Errorf("missing webhook_url")
	}

	var payload any = n
	switch strings.ToLower(ch.Type) {
	case "slack":
		payload = map[string]string{"text": fmt.Sprintf("*%s*\n%s", n.Title, n.Message)}
	case "discord":
		payload = map[string]string{"content": fmt.Sprintf("**%s**\n%s", n.Title, n.Message)}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ch.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return d.do(req, ch)
}

func (d *Dispatcher) sendNtfy(ctx context.Context, ch config.NotificationChannel, n Notification) error {
	if ch.Topic == "" {
		return fmt.Errorf("missing topic for ntfy")
	}
	url := ch.Server
	if url == "" {
		url = DefaultNtfyServer
	}
	url = strings.TrimSuffix(url, "/") + "/" + ch.Topic

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(n.Message))
	if err != nil {
		return err
	}
	req.Header.Set("Title", n.Title)

	// Map levels to tags/priorities
	switch n.Level {
	case LevelImportant:
		req.Header.Set("Priority", "high")
		req.Header.Set("Tags", "tada")
	default:
		req.Header.Set("Priority", "default")
		req.Header.Set("Tags", "calendar")
	}
	if ch.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ch.Token)
	}
	return d.do(req, ch)
}

func (d *Dispatcher) do(req *http.Request, ch config.NotificationChannel) error {
	for k, v := range ch.Headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s failed with status: %d", ch.Type, resp.StatusCode)
	}
	return nil
}
