package dispatch_test

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/game-loadsim/internal/delay"
	"github.com/angeloszaimis/game-loadsim/internal/dispatch"
	"github.com/angeloszaimis/game-loadsim/internal/metrics"
	"github.com/angeloszaimis/game-loadsim/internal/pool"
	"github.com/angeloszaimis/game-loadsim/internal/strategy"
)

func TestDispatch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dispatch Suite")
}

type failingSink struct{}

func (failingSink) Append(metrics.Record) error {
	return &metrics.WriteError{Err: errors.New("storage unavailable")}
}

var _ = Describe("Dispatcher", func() {
	var (
		log        *slog.Logger
		serverPool *pool.ServerPool
		sink       *metrics.Sink
		sampler    delay.Sampler
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError, // Suppress logs in tests
		}))

		var err error
		serverPool, err = pool.New(3)
		Expect(err).NotTo(HaveOccurred())

		sink = metrics.NewSink()

		sampler, err = delay.NewFixed(time.Millisecond)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Dispatch", func() {
		It("should produce a record for the selected server", func() {
			d := dispatch.NewDispatcher(log, strategy.NewRoundRobinStrategy(3), serverPool, sampler, sink)

			record, err := d.Dispatch("player-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.PlayerID).To(Equal("player-1"))
			Expect(record.ServerID).To(Equal(0))
			Expect(record.ResponseTime).To(Equal(time.Millisecond))
			Expect(record.Timestamp).To(BeTemporally(">=", record.StartTime))
		})

		It("should commit counter update and sink append together", func() {
			d := dispatch.NewDispatcher(log, strategy.NewRoundRobinStrategy(3), serverPool, sampler, sink)

			_, err := d.Dispatch("player-1")
			Expect(err).NotTo(HaveOccurred())

			Expect(sink.Len()).To(Equal(1))
			stats := serverPool.Snapshot()
			Expect(stats[0].RequestsServed).To(Equal(uint64(1)))
			Expect(stats[0].TotalResponseTime).To(Equal(time.Millisecond))
		})

		It("should rotate deterministically over the pool", func() {
			d := dispatch.NewDispatcher(log, strategy.NewRoundRobinStrategy(3), serverPool, sampler, sink)

			for i := 1; i <= 9; i++ {
				_, err := d.Dispatch(fmt.Sprintf("player-%d", i))
				Expect(err).NotTo(HaveOccurred())
			}

			for _, s := range serverPool.Snapshot() {
				Expect(s.RequestsServed).To(Equal(uint64(3)))
				Expect(s.TotalResponseTime).To(Equal(3 * time.Millisecond))
			}
			Expect(sink.Len()).To(Equal(9))
		})

		Context("when the sink rejects the append", func() {
			It("should fail without touching any counter", func() {
				d := dispatch.NewDispatcher(log, strategy.NewRoundRobinStrategy(3), serverPool, sampler, failingSink{})

				_, err := d.Dispatch("player-1")
				Expect(err).To(HaveOccurred())

				var dispatchErr *dispatch.Error
				Expect(errors.As(err, &dispatchErr)).To(BeTrue())
				Expect(dispatchErr.PlayerID).To(Equal("player-1"))

				var writeErr *metrics.WriteError
				Expect(errors.As(err, &writeErr)).To(BeTrue())

				for _, s := range serverPool.Snapshot() {
					Expect(s.RequestsServed).To(BeZero())
					Expect(s.TotalResponseTime).To(BeZero())
				}
			})
		})
	})
})
