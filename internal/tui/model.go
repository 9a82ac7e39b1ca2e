// Package tui is the live terminal view of the countdown.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/ShaKy8/CountdownToRetirement/internal/brand"
	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/i18n"
	"github.com/ShaKy8/CountdownToRetirement/internal/runner"
)

// View is the active screen.
type View int

const (
	ViewCountdown View = iota
	ViewMilestones
	viewCount
)

// Backend is what the TUI drives. *runner.Runner satisfies it.
type Backend interface {
	Tick() runner.Output
	Update(candidate string) (time.Time, error)
}

// Options configures a Model.
type Options struct {
	Backend  Backend
	Events   <-chan events.Event // optional; celebrations are shown as a banner
	Interval time.Duration
	Clock    clock.Clock
	Location *time.Location
	Printer  *message.Printer
}

type tickMsg time.Time

type eventMsg events.Event

type keyMap struct {
	Quit    key.Binding
	Next    key.Binding
	Edit    key.Binding
	Refresh key.Binding
	Help    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Edit, k.Refresh}, {k.Help, k.Quit}}
}

var defaultKeys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit target")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
}

// Model is the bubbletea model.
type Model struct {
	backend  Backend
	events   <-chan events.Event
	interval time.Duration
	validate func(string) error
	printer  *message.Printer

	Out        runner.Output
	ActiveView View
	Banner     string
	Status     string
	Editing    bool
	Width      int
	Height     int

	bar   progress.Model
	table table.Model
	help  help.Model
	keys  keyMap
	form  *huh.Form
	draft *string // the form writes through this; Model is copied by value
}

// NewModel creates the model and takes a first reading.
func NewModel(opts Options) Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	p := opts.Printer
	if p == nil {
		p = i18n.NewCLIPrinter()
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Days", Width: 6},
			{Title: "Milestone", Width: 24},
			{Title: "State", Width: 10},
		}),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorDeep).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Foreground(ColorSky).Bold(false)
	t.SetStyles(s)

	m := Model{
		backend:  opts.Backend,
		events:   opts.Events,
		interval: interval,
		validate: Validator(opts.Clock, opts.Location, p),
		printer:  p,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		table:    t,
		help:     help.New(),
		keys:     defaultKeys,
	}
	m.setOutput(opts.Backend.Tick())
	return m
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

// Init starts the tick loop and the event listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.waitForEvent())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Editing {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		m.setOutput(m.backend.Tick())
		return m, m.tickCmd()

	case eventMsg:
		m.handleEvent(events.Event(msg))
		return m, m.waitForEvent()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.bar.Width = max(10, min(60, msg.Width-12))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.ActiveView = (m.ActiveView + 1) % viewCount
		case key.Matches(msg, m.keys.Refresh):
			m.setOutput(m.backend.Tick())
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Edit):
			m.Editing = true
			m.Status = ""
			m.draft = new(string)
			m.form = NewTargetForm(m.draft, m.validate)
			return m, m.form.Init()
		}
		if m.ActiveView == ViewMilestones {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Keep the clock running behind the form.
		m.setOutput(m.backend.Tick())
		return m, m.tickCmd()
	case eventMsg:
		m.handleEvent(events.Event(msg))
		return m, m.waitForEvent()
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			m.Editing, m.form = false, nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.Editing, m.form = false, nil
		m.applyTarget(strings.TrimSpace(*m.draft))
		return m, nil
	case huh.StateAborted:
		m.Editing, m.form = false, nil
		return m, nil
	}
	return m, cmd
}

func (m *Model) applyTarget(candidate string) {
	_, err := m.backend.Update(candidate)
	switch {
	case err == nil:
		m.Status = StyleStatusGood.Render(m.printer.Sprintf("Target updated"))
	case errors.Is(err, runner.ErrStoreWrite):
		m.Status = StyleStatusWarn.Render(m.printer.Sprintf("target date updated, but it could not be saved"))
	default:
		msg := err.Error()
		if reason, ok := countdown.ReasonOf(err); ok {
			msg = m.printer.Sprintf(reason.Message())
		}
		m.Status = StyleStatusBad.Render(msg)
	}
	m.setOutput(m.backend.Tick())
}

func (m *Model) handleEvent(e events.Event) {
	switch data := e.Data.(type) {
	case events.MilestoneData:
		m.Banner = m.printer.Sprintf("%d days to go!", data.Trigger)
	case events.TargetData:
		if e.Type == events.EventTargetReached {
			m.Banner = m.printer.Sprintf("Target reached!")
		}
	}
}

func (m *Model) setOutput(out runner.Output) {
	m.Out = out
	rows := make([]table.Row, len(out.Milestones))
	for i, ms := range out.Milestones {
		rows[i] = table.Row{
			strconv.Itoa(ms.Milestone.ThresholdDays),
			ms.Milestone.Label,
			string(ms.State),
		}
	}
	m.table.SetRows(rows)
}

// View renders the application.
func (m Model) View() string {
	doc := m.viewTopBar() + "\n"

	if m.Editing && m.form != nil {
		doc += m.form.View()
		return StyleApp.Render(doc)
	}

	if m.Banner != "" {
		doc += StyleBanner.Render(m.Banner) + "\n\n"
	}

	switch m.ActiveView {
	case ViewCountdown:
		doc += m.viewCountdown()
	case ViewMilestones:
		doc += StyleCard.Render(m.table.View())
	}

	if m.Status != "" {
		doc += "\n" + m.Status
	}
	doc += "\n\n" + m.help.View(m.keys)
	return StyleApp.Render(doc)
}

func (m Model) viewTopBar() string {
	items := []string{StyleTitle.Render(brand.Name)}
	for _, v := range []struct {
		view  View
		label string
	}{
		{ViewCountdown, "Countdown"},
		{ViewMilestones, m.printer.Sprintf("Milestones")},
	} {
		style := StyleMenuItem
		if v.view == m.ActiveView {
			style = StyleMenuItemActive
		}
		items = append(items, style.Render(v.label))
	}
	return StyleTopBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

func (m Model) viewCountdown() string {
	p := m.printer
	out := m.Out

	header := StyleLabel.Render(p.Sprintf("Target")) + " " + out.TargetDisplay

	if out.IsReached {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			StyleBanner.Render(p.Sprintf("Target reached!")),
		)
	}

	remaining := StyleBigNumber.Render(p.Sprintf("%d days, %d hours, %d minutes, %d seconds",
		out.Days, out.Hours, out.Minutes, out.Seconds))

	tint := lipgloss.NewStyle().Foreground(BandColor(out.Band))
	bar := lipgloss.JoinVertical(lipgloss.Left,
		StyleLabel.Render(p.Sprintf("Progress"))+" "+m.bar.ViewAs(out.Percentage/100),
		StyleSubtitle.Render(out.BandDescription),
	)

	graphics := lipgloss.JoinHorizontal(lipgloss.Bottom,
		StyleCard.Render(tint.Render(Thermometer(out.Percentage, 8))),
		StyleCard.Render(tint.Render(Hourglass(out.Percentage, 5))),
		StyleCard.Render(m.viewCalendar()),
	)

	parts := []string{
		header,
		StyleLabel.Render(p.Sprintf("Remaining")) + " " + remaining,
		"",
		bar,
		"",
		graphics,
	}
	if out.Motivation != "" {
		parts = append(parts, "", StyleSubtitle.Render(out.Motivation))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewCalendar() string {
	p := m.printer
	out := m.Out
	row := func(label string, v int) string {
		return fmt.Sprintf("%-12s %s", p.Sprintf(label), p.Sprintf("%d", v))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		row("Work days", out.WorkDays),
		row("Weekends", out.WeekendCount),
		row("Sleeps", out.Sleeps),
		row("Sunrises", out.Sunrises),
		row("Mondays", out.Mondays),
		row("Fridays", out.Fridays),
		row("Weeks", out.TotalWeeks),
		row("Months", out.TotalMonths),
		row("Total hours", out.TotalHours),
	)
}
