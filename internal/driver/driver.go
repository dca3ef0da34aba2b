package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/game-loadsim/internal/dispatch"
	"github.com/angeloszaimis/game-loadsim/internal/metrics"
)

// State is the driver's lifecycle phase.
type State int32

const (
	StateIdle      State = iota // Not started yet
	StateRunning                // Issuing dispatches
	StateDraining               // All dispatches issued, waiting for completion
	StateCompleted              // Every issued dispatch has completed or failed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Summary describes a finished run.
type Summary struct {
	Dispatched int
	Failed     int
	Elapsed    time.Duration
}

// Config holds the driver's runtime settings. ConcurrencyLimit defaults to
// NumPlayers and is capped at it; a zero Timeout means no timeout.
type Config struct {
	NumPlayers       int
	ConcurrencyLimit int
	RequestInterval  time.Duration
	Timeout          time.Duration
}

// Flusher receives the drained records once the run has completed, for
// export to persistent output.
type Flusher interface {
	Flush(records []metrics.Record) error
}

// Driver generates player requests and dispatches them with bounded
// concurrency.
type Driver struct {
	logger     *slog.Logger
	dispatcher *dispatch.Dispatcher
	sink       *metrics.Sink
	flusher    Flusher
	cfg        Config
	state      atomic.Int32
}

func New(logger *slog.Logger, dispatcher *dispatch.Dispatcher, sink *metrics.Sink, flusher Flusher, cfg Config) (*Driver, error) {
	if cfg.NumPlayers < 0 {
		return nil, fmt.Errorf("number of players must not be negative, got %d", cfg.NumPlayers)
	}

	if cfg.ConcurrencyLimit <= 0 || cfg.ConcurrencyLimit > cfg.NumPlayers {
		cfg.ConcurrencyLimit = cfg.NumPlayers
	}
	if cfg.ConcurrencyLimit < 1 {
		cfg.ConcurrencyLimit = 1
	}

	return &Driver{
		logger:     logger,
		dispatcher: dispatcher,
		sink:       sink,
		flusher:    flusher,
		cfg:        cfg,
	}, nil
}

// State returns the driver's current lifecycle phase.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Run issues NumPlayers dispatches with at most ConcurrencyLimit in flight,
// waits for all of them, then flushes the sink. Each request is attempted
// exactly once; failed dispatches are counted, not retried. A sink write
// failure stops issuance, but in-flight dispatches always run to
// completion, as does a timeout.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	d.state.Store(int32(StateRunning))

	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	var (
		group      errgroup.Group
		dispatched atomic.Int64
		failed     atomic.Int64
		sinkFailed atomic.Bool
	)
	group.SetLimit(d.cfg.ConcurrencyLimit)

	for i := 1; i <= d.cfg.NumPlayers; i++ {
		if ctx.Err() != nil {
			d.logger.Warn("run cancelled, no further dispatches issued",
				slog.Int("issued", i-1),
				slog.Int("remaining", d.cfg.NumPlayers-i+1))
			break
		}
		if sinkFailed.Load() {
			break
		}

		playerID := fmt.Sprintf("player-%d", i)

		group.Go(func() error {
			_, err := d.dispatcher.Dispatch(playerID)
			if err == nil {
				dispatched.Add(1)
				return nil
			}

			failed.Add(1)

			var writeErr *metrics.WriteError
			if errors.As(err, &writeErr) {
				sinkFailed.Store(true)
				d.logger.Error("metrics sink failed, aborting remaining run", slog.Any("err", err))
				return err
			}

			d.logger.Error("dispatch failed", slog.String("player", playerID), slog.Any("err", err))
			return nil
		})

		if d.cfg.RequestInterval > 0 && i < d.cfg.NumPlayers {
			time.Sleep(d.cfg.RequestInterval)
		}
	}

	d.state.Store(int32(StateDraining))
	runErr := group.Wait()
	d.state.Store(int32(StateCompleted))

	summary := Summary{
		Dispatched: int(dispatched.Load()),
		Failed:     int(failed.Load()),
		Elapsed:    time.Since(start),
	}

	if runErr != nil {
		return summary, fmt.Errorf("run aborted: %w", runErr)
	}

	if err := d.flush(); err != nil {
		return summary, err
	}

	return summary, nil
}

func (d *Driver) flush() error {
	defer func() {
		if err := d.sink.Close(); err != nil {
			d.logger.Warn("failed to close metrics sink", slog.Any("err", err))
		}
	}()

	if d.flusher == nil {
		return nil
	}

	if err := d.flusher.Flush(d.sink.Drain()); err != nil {
		return fmt.Errorf("failed to flush metrics: %w", err)
	}

	return nil
}
