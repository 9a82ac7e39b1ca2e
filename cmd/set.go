package cmd

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
	"github.com/ShaKy8/CountdownToRetirement/internal/runner"
	"github.com/ShaKy8/CountdownToRetirement/internal/tui"
)

// ErrNoTarget is returned when set is given no date and cannot prompt for one.
var ErrNoTarget = errors.New("no target date given")

// RunSet validates candidate and stores it as the new target date. With an
// empty candidate on a terminal (or interactive set) the date is prompted for.
func RunSet(configFile, candidate string, interactive bool) error {
	a, err := openApp(configFile, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if candidate == "" {
		if !interactive && !isatty.IsTerminal(os.Stdin.Fd()) {
			return ErrNoTarget
		}
		current := a.runner.State().Target.In(a.loc).Format(countdown.InputLayout)
		candidate, err = tui.PromptTarget(current, tui.Validator(a.clock, a.loc, Printer))
		if err != nil {
			return err
		}
	}

	return applyTarget(a, candidate)
}

// applyTarget reports the outcome of an update. A target that could not
// be saved is still applied, so it is a warning rather than a failure.
func applyTarget(a *app, candidate string) error {
	t, err := a.runner.Update(candidate)
	if reason, ok := countdown.ReasonOf(err); ok {
		return errors.New(Printer.Sprintf(reason.Message()))
	}
	if errors.Is(err, runner.ErrStoreWrite) {
		Printer.Fprintf(os.Stderr, "%s: %v\n", Printer.Sprintf("target date updated, but it could not be saved"), err)
		return nil
	}
	if err != nil {
		return err
	}
	Printer.Printf("%s: %s\n", Printer.Sprintf("Target updated"), countdown.FormatTargetDisplay(t, a.loc))
	return nil
}

// RunClear removes the stored target so the configured default applies.
func RunClear(configFile string) error {
	a, err := openApp(configFile, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	err = a.runner.Clear()
	if err != nil && !errors.Is(err, runner.ErrStoreWrite) {
		return err
	}
	if err != nil {
		Printer.Fprintf(os.Stderr, "%v\n", err)
	}
	Printer.Printf("%s: %s\n", Printer.Sprintf("Target cleared"), a.runner.Snapshot().TargetDisplay)
	return nil
}
