// Package cmd implements the countdown's subcommands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ShaKy8/CountdownToRetirement/internal/brand"
	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/config"
	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/i18n"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
	"github.com/ShaKy8/CountdownToRetirement/internal/metrics"
	"github.com/ShaKy8/CountdownToRetirement/internal/runner"
	"github.com/ShaKy8/CountdownToRetirement/internal/state"
)

// Printer localizes CLI output for the user's locale.
var Printer = i18n.NewCLIPrinter()

// app is the wiring shared by every command that drives the countdown.
type app struct {
	cfg    *config.Config
	loc    *time.Location
	clock  clock.Clock
	logger *logging.Logger
	hub    *events.Hub
	runner *runner.Runner
	store  io.Closer
}

type appOptions struct {
	Clock     clock.Clock
	LogOutput io.Writer // defaults to stderr
	Metrics   *metrics.Registry
	Hub       *events.Hub
}

// loadConfig reads configFile. A missing file at the default location is
// not an error: the compiled-in defaults apply.
func loadConfig(configFile string) (*config.Config, error) {
	if configFile == "" {
		configFile = brand.DefaultConfigPath()
	}
	cfg, err := config.LoadFile(configFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && configFile == brand.DefaultConfigPath() {
		return config.DefaultConfig(), nil
	}
	return nil, err
}

func newLogger(cfg *config.Config, out io.Writer) *logging.Logger {
	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.New(logging.Config{
		Level:  level,
		Output: out,
		JSON:   cfg.Logging.JSON,
	})
	logging.SetDefault(logger)
	return logger
}

// openApp loads the config, opens the target store and builds the runner.
// Failing to open the store is logged and tolerated; the countdown then
// runs on the default target and reports every write as unsaved.
func openApp(configFile string, opts appOptions) (*app, error) {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := newLogger(cfg, out)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	target, err := cfg.DefaultTargetTime(loc)
	if err != nil {
		return nil, fmt.Errorf("target.default: %w", err)
	}
	anchor, err := cfg.AnchorTime(loc)
	if err != nil {
		return nil, fmt.Errorf("target.anchor: %w", err)
	}
	milestones, err := cfg.MilestoneList()
	if err != nil {
		return nil, err
	}

	clk := clock.OrReal(opts.Clock)
	a := &app{
		cfg:    cfg,
		loc:    loc,
		clock:  clk,
		logger: logger,
		hub:    opts.Hub,
	}

	store, closer := openStore(cfg.State.Path, clk, logger)
	a.store = closer

	a.runner = runner.New(runner.Options{
		Clock:         clk,
		Store:         store,
		DefaultTarget: target,
		Anchor:        anchor,
		Milestones:    milestones,
		Messages:      cfg.Messages(),
		Location:      loc,
		TickInterval:  cfg.TickDuration(),
		Hub:           opts.Hub,
		Logger:        logger.WithComponent("runner"),
		Metrics:       opts.Metrics,
	})
	return a, nil
}

func openStore(path string, clk clock.Clock, logger *logging.Logger) (runner.TargetStore, io.Closer) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			logger.Warn("state directory unavailable", "path", path, "error", err)
			return unavailableStore{err: err}, nil
		}
	}
	opts := state.DefaultOptions(path)
	opts.Clock = clk
	db, err := state.NewSQLiteStore(opts)
	if err != nil {
		logger.Warn("target store unavailable", "path", path, "error", err)
		return unavailableStore{err: err}, nil
	}
	bucket, err := state.NewTargetBucket(db)
	if err != nil {
		db.Close()
		logger.Warn("target store unavailable", "path", path, "error", err)
		return unavailableStore{err: err}, nil
	}
	return bucket, db
}

// Close releases the store.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// unavailableStore stands in for a store that could not be opened so the
// runner reports each operation as a store failure.
type unavailableStore struct {
	err error
}

func (s unavailableStore) GetTarget() (time.Time, error) { return time.Time{}, s.err }
func (s unavailableStore) SetTarget(time.Time) error { return s.err }
func (s unavailableStore) ClearTarget() error { return s.err }
