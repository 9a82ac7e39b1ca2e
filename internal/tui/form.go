package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/text/message"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
)

// Validator checks a candidate target date against the current time in
// loc. Rejections carry the reason's message, localized by p.
func Validator(clk clock.Clock, loc *time.Location, p *message.Printer) func(string) error {
	clk = clock.OrReal(clk)
	if loc == nil {
		loc = time.Local
	}
	return func(s string) error {
		_, err := countdown.Validate(s, clk.Now().In(loc))
		if reason, ok := countdown.ReasonOf(err); ok {
			if p != nil {
				return errors.New(p.Sprintf(reason.Message()))
			}
			return errors.New(reason.Message())
		}
		return err
	}
}

// NewTargetForm builds the target-date entry form. The entered text is
// written to value.
func NewTargetForm(value *string, validate func(string) error) *huh.Form {
	input := huh.NewInput().
		Key("target").
		Title("New target date").
		Description("Local time, YYYY-MM-DDTHH:mm").
		Placeholder("2030-06-30T17:00").
		Value(value).
		Validate(validate)

	return huh.NewForm(huh.NewGroup(input)).
		WithTheme(huh.ThemeBase16()).
		WithShowHelp(true)
}

// PromptTarget runs the form on the terminal and returns the entered date.
// It returns huh.ErrUserAborted when the user cancels.
func PromptTarget(initial string, validate func(string) error) (string, error) {
	value := initial
	if err := NewTargetForm(&value, validate).Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
