package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/tui"
)

// RunTUI runs the live terminal view. Logs are discarded while the
// alternate screen is up.
func RunTUI(configFile string) error {
	hub := events.NewHub()
	a, err := openApp(configFile, appOptions{Hub: hub, LogOutput: io.Discard})
	if err != nil {
		return err
	}
	defer a.Close()

	celebrations := hub.Subscribe(8, events.EventMilestoneTransition, events.EventTargetReached)
	defer hub.Unsubscribe(celebrations)

	m := tui.NewModel(tui.Options{
		Backend:  a.runner,
		Events:   celebrations,
		Interval: a.cfg.TickDuration(),
		Clock:    a.clock,
		Location: a.loc,
		Printer:  Printer,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal view: %w", err)
	}
	return nil
}
