package dispatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/angeloszaimis/game-loadsim/internal/delay"
	"github.com/angeloszaimis/game-loadsim/internal/metrics"
	"github.com/angeloszaimis/game-loadsim/internal/pool"
	"github.com/angeloszaimis/game-loadsim/internal/strategy"
)

// Sink is where completed dispatch records go.
type Sink interface {
	Append(metrics.Record) error
}

// Error is a failed dispatch attributed to a single player request.
type Error struct {
	PlayerID string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dispatch for player %s failed: %v", e.PlayerID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Dispatcher runs one complete request lifecycle: server selection,
// simulated processing, counter update and metrics record.
type Dispatcher struct {
	logger   *slog.Logger
	selector strategy.Strategy
	pool     *pool.ServerPool
	sampler  delay.Sampler
	sink     Sink
}

func NewDispatcher(logger *slog.Logger, selector strategy.Strategy, serverPool *pool.ServerPool, sampler delay.Sampler, sink Sink) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		selector: selector,
		pool:     serverPool,
		sampler:  sampler,
		sink:     sink,
	}
}

// Dispatch routes one player request to the next server, waits out the
// sampled processing delay and commits the completion. The sink append and
// the counter update form one committed unit: the index is validated and
// the record appended before any counter is touched, and the counter update
// cannot fail after that, so either both happen or neither does.
func (d *Dispatcher) Dispatch(playerID string) (metrics.Record, error) {
	serverIndex := d.selector.Next()
	if serverIndex < 0 || serverIndex >= d.pool.Size() {
		return metrics.Record{}, &Error{
			PlayerID: playerID,
			Err:      fmt.Errorf("selector returned index %d outside pool of size %d", serverIndex, d.pool.Size()),
		}
	}

	start := time.Now()
	processingTime := d.sampler.Sample()

	// The delay happens outside every lock so concurrent dispatches
	// genuinely overlap.
	time.Sleep(processingTime)

	record := metrics.Record{
		Timestamp:    time.Now(),
		StartTime:    start,
		PlayerID:     playerID,
		ServerID:     serverIndex,
		ResponseTime: processingTime,
	}

	if err := d.sink.Append(record); err != nil {
		return metrics.Record{}, &Error{PlayerID: playerID, Err: err}
	}

	if err := d.pool.RecordCompletion(serverIndex, playerID, processingTime); err != nil {
		return metrics.Record{}, &Error{PlayerID: playerID, Err: err}
	}

	d.logger.Info("request dispatched",
		slog.String("player", playerID),
		slog.Int("server", serverIndex),
		slog.Float64("response_time", processingTime.Seconds()))

	return record, nil
}
