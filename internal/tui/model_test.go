package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	_ "github.com/ShaKy8/CountdownToRetirement/internal/i18n" // German catalog
	"github.com/ShaKy8/CountdownToRetirement/internal/runner"
)

var tuiNow = time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

type fakeBackend struct {
	out       runner.Output
	ticks     int
	updates   []string
	updateErr error
}

func (f *fakeBackend) Tick() runner.Output {
	f.ticks++
	return f.out
}

func (f *fakeBackend) Update(candidate string) (time.Time, error) {
	f.updates = append(f.updates, candidate)
	if f.updateErr != nil {
		return time.Time{}, f.updateErr
	}
	return tuiNow.Add(24 * time.Hour), nil
}

func sampleOutput() runner.Output {
	target := time.Date(2030, 6, 30, 17, 0, 0, 0, time.UTC)
	return runner.Output{
		Snapshot:        countdown.ComputeCountdown(tuiNow, target),
		CalendarMetrics: countdown.ComputeCalendarMetrics(tuiNow, target),
		ProgressState:   countdown.ProgressState{Percentage: 62, Band: countdown.BandPastMidpoint},
		BandDescription: countdown.BandPastMidpoint.Description(),
		Target:          target,
		TargetDisplay:   countdown.FormatTargetDisplay(target, time.UTC),
		Milestones:      countdown.EvaluateMilestones(countdown.DefaultMilestones(), 180),
		Motivation:      "Make today count.",
		GeneratedAt:     tuiNow,
	}
}

func newTestModel(b *fakeBackend, ch <-chan events.Event) Model {
	return NewModel(Options{
		Backend:  b,
		Events:   ch,
		Interval: time.Second,
		Clock:    clock.NewMockClock(tuiNow),
		Location: time.UTC,
		Printer:  message.NewPrinter(language.English),
	})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestNewModel_TakesFirstReading(t *testing.T) {
	b := &fakeBackend{out: sampleOutput()}
	m := newTestModel(b, nil)

	assert.Equal(t, 1, b.ticks)
	assert.Equal(t, 180, m.Out.Days)
	assert.NotNil(t, m.Init())
}

func TestModel_TickRefreshes(t *testing.T) {
	b := &fakeBackend{out: sampleOutput()}
	m := newTestModel(b, nil)

	b.out.Days = 179
	m, cmd := update(t, m, tickMsg(tuiNow.Add(time.Second)))

	assert.Equal(t, 2, b.ticks)
	assert.Equal(t, 179, m.Out.Days)
	assert.NotNil(t, cmd, "tick must reschedule itself")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(&fakeBackend{out: sampleOutput()}, nil)
	_, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_SwitchViews(t *testing.T) {
	m := newTestModel(&fakeBackend{out: sampleOutput()}, nil)
	assert.Equal(t, ViewCountdown, m.ActiveView)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewMilestones, m.ActiveView)
	assert.Contains(t, m.View(), "Six months to go")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewCountdown, m.ActiveView)
}

func TestModel_CountdownView(t *testing.T) {
	m := newTestModel(&fakeBackend{out: sampleOutput()}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()

	assert.Contains(t, view, "180 days, 8 hours, 0 minutes, 0 seconds")
	assert.Contains(t, view, "Sunday, June 30, 2030 at 5:00 PM")
	assert.Contains(t, view, "Make today count.")
	assert.Contains(t, view, "Work days")
	assert.Contains(t, view, "62%")
}

func TestModel_ReachedView(t *testing.T) {
	out := sampleOutput()
	out.Snapshot = countdown.Snapshot{IsReached: true}
	m := newTestModel(&fakeBackend{out: out}, nil)

	view := m.View()
	assert.Contains(t, view, "Target reached!")
	assert.NotContains(t, view, "Work days")
}

func TestModel_MilestoneBanner(t *testing.T) {
	ch := make(chan events.Event, 1)
	m := newTestModel(&fakeBackend{out: sampleOutput()}, ch)

	m, cmd := update(t, m, eventMsg(events.Event{
		Type: events.EventMilestoneTransition,
		Data: events.MilestoneData{DaysRemaining: 50, PrevDaysRemaining: 51, Trigger: 50},
	}))
	assert.Equal(t, "50 days to go!", m.Banner)
	require.NotNil(t, cmd, "listener must be re-armed")

	ch <- events.Event{Type: events.EventTargetReached, Data: events.TargetData{}}
	msg := cmd()
	m, _ = update(t, m, msg)
	assert.Equal(t, "Target reached!", m.Banner)
	assert.Contains(t, m.View(), "Target reached!")
}

func TestModel_EditOpensAndEscCancels(t *testing.T) {
	b := &fakeBackend{out: sampleOutput()}
	m := newTestModel(b, nil)

	m, _ = update(t, m, keyRunes("e"))
	require.True(t, m.Editing)
	assert.Contains(t, m.View(), "New target date")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Editing)
	assert.Empty(t, b.updates)
}

func TestModel_ApplyTarget(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"accepted", nil, "Target updated"},
		{"not saved", fmt.Errorf("%w: disk full", runner.ErrStoreWrite), "could not be saved"},
		{"rejected", &countdown.ValidationError{Reason: countdown.ReasonNotFuture}, "must be in the future"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{out: sampleOutput(), updateErr: tt.err}
			m := newTestModel(b, nil)

			m.applyTarget("2031-01-01T00:00")

			assert.Equal(t, []string{"2031-01-01T00:00"}, b.updates)
			assert.Contains(t, m.Status, tt.want)
			assert.Equal(t, 2, b.ticks)
		})
	}
}

func TestValidator(t *testing.T) {
	clk := clock.NewMockClock(tuiNow)

	v := Validator(clk, time.UTC, message.NewPrinter(language.English))
	assert.NoError(t, v("2031-01-01T00:00"))
	assert.EqualError(t, v(""), "please enter a target date")
	assert.EqualError(t, v("2020-01-01T00:00"), "target date must be in the future")

	de := Validator(clk, time.UTC, message.NewPrinter(language.German))
	err := de("2020-01-01T00:00")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Das Zieldatum"), err.Error())
}
