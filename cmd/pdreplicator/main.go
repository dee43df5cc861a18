// cmd/pdreplicator/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/tamzrod/pd-replicator/internal/config"
	"github.com/tamzrod/pd-replicator/internal/logging"
	"github.com/tamzrod/pd-replicator/internal/poller"
	"github.com/tamzrod/pd-replicator/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: pdreplicator <config.yaml>")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	config.Normalize(cfg)

	log, err := logging.New(logging.Config{
		Level:       cfg.Replicator.Logging.Level,
		Development: cfg.Replicator.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	logging.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Writers are closed only after every unit loop has exited.
	var (
		wg      sync.WaitGroup
		closers []func() error
	)
	defer func() {
		stop()
		wg.Wait()
		for _, fn := range closers {
			_ = fn()
		}
	}()

	// --------------------
	// Build per-unit pipelines
	// --------------------

	for _, unit := range cfg.Replicator.Units {
		// ---- poller ----
		p, err := poller.Build(unit)
		if err != nil {
			return fmt.Errorf("poller build failed (unit=%s): %w", unit.ID, err)
		}

		// ---- writer plan ----
		plan, err := writer.BuildPlan(unit)
		if err != nil {
			_ = p.Close()
			return fmt.Errorf("writer plan failed (unit=%s): %w", unit.ID, err)
		}

		// ---- writer clients (DATA + STATUS) ----
		clients, closeWriters, err := writer.BuildEndpointClients(unit)
		if err != nil {
			_ = p.Close()
			return fmt.Errorf("writer clients failed (unit=%s): %w", unit.ID, err)
		}
		closers = append(closers, closeWriters)

		var sw writer.StatusWriter
		if w, ok := writer.NewDeviceStatusWriter(plan, clients); ok {
			sw = w
		}

		out := make(chan poller.PollResult)
		o := newOrchestrator(unit.ID, writer.New(plan, clients), sw, log)

		wg.Add(2)
		go func() {
			defer wg.Done()
			o.run(ctx, out)
		}()
		go func(unitID string) {
			defer wg.Done()
			runPoller(ctx, p, out, log.With(zap.String("unit", unitID)))
		}(unit.ID)

		log.Info("unit started",
			zap.String("unit", unit.ID),
			zap.Int("bus", unit.Source.Bus),
			zap.Uint8("address", unit.Source.Address),
			zap.Int("targets", len(plan.Targets)),
			zap.Bool("status", sw != nil),
		)
	}

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

// pollLoop is the poller as seen by the command.
type pollLoop interface {
	Run(ctx context.Context, out chan<- poller.PollResult)
	Close() error
}

// runPoller runs p until ctx is done and closes it from the same goroutine,
// so Close never races an in-flight poll.
func runPoller(ctx context.Context, p pollLoop, out chan<- poller.PollResult, log *zap.Logger) {
	p.Run(ctx, out)
	if err := p.Close(); err != nil {
		log.Warn("poller close failed", zap.Error(err))
	}
}
