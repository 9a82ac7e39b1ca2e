package cmd

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ShaKy8/CountdownToRetirement/internal/api"
	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
	"github.com/ShaKy8/CountdownToRetirement/internal/metrics"
	"github.com/ShaKy8/CountdownToRetirement/internal/notification"
	"github.com/ShaKy8/CountdownToRetirement/internal/ratelimit"
	"github.com/ShaKy8/CountdownToRetirement/internal/scheduler"
)

// ServeOptions overrides config values from the command line.
type ServeOptions struct {
	Listen     string
	StaticDir  string
	TrustProxy bool
}

// RunServe runs the driving loop and the HTTP server until interrupted.
// assets is the embedded front end, used unless a static directory is set.
func RunServe(configFile string, assets fs.FS, opts ServeOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub()
	reg := metrics.Get()
	a, err := openApp(configFile, appOptions{Hub: hub, Metrics: reg})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.StaticDir != "" {
		cfg.Server.StaticDir = opts.StaticDir
	}
	if cfg.Server.StaticDir != "" {
		assets = os.DirFS(cfg.Server.StaticDir)
		a.logger.Info("serving front end from disk", "dir", cfg.Server.StaticDir)
	}

	window := cfg.RateWindow()
	limiter := ratelimit.NewLimiter(cfg.Server.RateLimit.Requests, window, a.clock)

	sched := scheduler.New(a.logger, scheduler.WithClock(a.clock))
	started := a.clock.Now()
	for _, task := range []*scheduler.Task{
		a.runner.Task(),
		a.runner.DigestTask(),
		cleanupTask(limiter, window, a.logger),
		uptimeTask(reg, a.clock, started),
	} {
		if err := sched.AddTask(task); err != nil {
			return err
		}
	}

	srv, err := api.NewServer(api.ServerOptions{
		Countdown:  a.runner,
		Hub:        hub,
		Assets:     assets,
		Logger:     a.logger.WithComponent("api"),
		Metrics:    reg,
		Limiter:    limiter,
		Tasks:      sched,
		Clock:      a.clock,
		MaxConns:   cfg.Server.MaxConns,
		TrustProxy: opts.TrustProxy,
	})
	if err != nil {
		return err
	}

	// Subscribe before the first tick so an immediate celebration is seen.
	celebrations := hub.Subscribe(8, events.EventMilestoneTransition, events.EventTargetReached)
	defer hub.Unsubscribe(celebrations)

	notifier := notification.NewDispatcher(cfg.Notifications, a.logger.WithComponent("notification"),
		notification.WithClock(a.clock))
	pushes := subscribePushes(hub, notifier)
	if pushes != nil {
		defer hub.Unsubscribe(pushes)
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	sched.Start()
	defer sched.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, cfg.Server.Listen)
	})
	g.Go(func() error {
		celebrate(gctx, celebrations, a.logger.WithComponent("celebrate"))
		return nil
	})
	if pushes != nil {
		g.Go(func() error {
			notifier.Run(gctx, pushes, Printer)
			return nil
		})
	}
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				if err := reloadConfig(configFile, a.logger, notifier, pushes != nil); err != nil {
					a.logger.Error("config reload failed", "error", err)
				}
			}
		}
	})

	err = g.Wait()
	a.logger.Info("shutdown complete")
	return err
}

// subscribePushes subscribes the notifier to celebrations. It returns nil
// when notifications are off so no undrained subscription is left behind.
func subscribePushes(hub *events.Hub, notifier *notification.Dispatcher) <-chan events.Event {
	if !notifier.Enabled() {
		return nil
	}
	return hub.Subscribe(8, events.EventMilestoneTransition, events.EventTargetReached)
}

// reloadConfig re-reads configFile and applies what can change without a
// restart: the log level and the notification channels. Turning
// notifications on from off still needs a restart.
func reloadConfig(configFile string, logger *logging.Logger, notifier *notification.Dispatcher, subscribed bool) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	if prev := logger.GetLevel(); prev != level {
		logger.Info("log level changed", "from", prev, "to", level)
		logger.SetLevel(level)
	}

	notifier.UpdateConfig(cfg.Notifications)
	if notifier.Enabled() && !subscribed {
		logger.Warn("notifications enabled by reload; restart to start sending")
	}
	logger.Info("config reloaded", "path", configFile)
	return nil
}

func cleanupTask(l *ratelimit.Limiter, window time.Duration, logger *logging.Logger) *scheduler.Task {
	return &scheduler.Task{
		ID:          "ratelimit-cleanup",
		Name:        "Rate Limit Cleanup",
		Description: "Forget clients whose window has long expired",
		Schedule:    scheduler.Every(window),
		Enabled:     true,
		Func: func(ctx context.Context) error {
			if n := l.CleanupExpired(window); n > 0 {
				logger.Debug("rate limit buckets expired", "removed", n, "tracked", l.Len())
			}
			return nil
		},
	}
}

func uptimeTask(reg *metrics.Registry, clk clock.Clock, started time.Time) *scheduler.Task {
	return &scheduler.Task{
		ID:         "uptime",
		Name:       "Uptime",
		Schedule:   scheduler.Every(15 * time.Second),
		Enabled:    true,
		RunOnStart: true,
		Func: func(ctx context.Context) error {
			reg.Uptime.Set(clk.Since(started).Seconds())
			return nil
		},
	}
}

// celebrate logs milestone crossings and the target being reached until
// ctx is done or the subscription closes.
func celebrate(ctx context.Context, ch <-chan events.Event, logger *logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			switch data := e.Data.(type) {
			case events.MilestoneData:
				logger.Info(Printer.Sprintf("%d days to go!", data.Trigger),
					"days", data.DaysRemaining, "previous", data.PrevDaysRemaining)
			case events.TargetData:
				logger.Info(Printer.Sprintf("Target reached!"), "target", data.Target)
			}
		}
	}
}
