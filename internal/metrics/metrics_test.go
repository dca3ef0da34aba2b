package metrics_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/game-loadsim/internal/metrics"
)

func TestMetrics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Metrics Suite")
}

var _ = Describe("Sink", func() {
	var sink *metrics.Sink

	BeforeEach(func() {
		sink = metrics.NewSink()
	})

	Describe("Append", func() {
		It("should store records in append order", func() {
			for i := 0; i < 3; i++ {
				record := metrics.Record{
					PlayerID:     fmt.Sprintf("player-%d", i),
					ServerID:     i,
					ResponseTime: time.Duration(i) * time.Millisecond,
				}
				Expect(sink.Append(record)).To(Succeed())
			}

			records := sink.Drain()
			Expect(records).To(HaveLen(3))
			for i, r := range records {
				Expect(r.PlayerID).To(Equal(fmt.Sprintf("player-%d", i)))
			}
		})

		Context("under concurrent appends", func() {
			It("should not lose or duplicate any record", func() {
				const writers = 100

				var wg sync.WaitGroup
				wg.Add(writers)
				for i := 0; i < writers; i++ {
					go func(n int) {
						defer GinkgoRecover()
						defer wg.Done()
						Expect(sink.Append(metrics.Record{PlayerID: fmt.Sprintf("player-%d", n)})).To(Succeed())
					}(i)
				}
				wg.Wait()

				records := sink.Drain()
				Expect(records).To(HaveLen(writers))

				seen := make(map[string]bool, writers)
				for _, r := range records {
					Expect(seen[r.PlayerID]).To(BeFalse(), "record %s duplicated", r.PlayerID)
					seen[r.PlayerID] = true
				}
			})
		})

		Context("after Close", func() {
			It("should fail with a write error", func() {
				Expect(sink.Append(metrics.Record{PlayerID: "player-1"})).To(Succeed())
				Expect(sink.Close()).To(Succeed())

				err := sink.Append(metrics.Record{PlayerID: "player-2"})
				Expect(err).To(HaveOccurred())

				var writeErr *metrics.WriteError
				Expect(errors.As(err, &writeErr)).To(BeTrue())
			})

			It("should keep already-appended records drainable", func() {
				Expect(sink.Append(metrics.Record{PlayerID: "player-1"})).To(Succeed())
				Expect(sink.Close()).To(Succeed())

				Expect(sink.Drain()).To(HaveLen(1))
			})
		})
	})

	Describe("Drain", func() {
		It("should return the identical sequence when drained twice", func() {
			for i := 0; i < 5; i++ {
				Expect(sink.Append(metrics.Record{PlayerID: fmt.Sprintf("player-%d", i)})).To(Succeed())
			}

			first := sink.Drain()
			second := sink.Drain()
			Expect(second).To(Equal(first))
		})

		It("should return an empty slice for an empty sink", func() {
			Expect(sink.Drain()).To(BeEmpty())
			Expect(sink.Len()).To(BeZero())
		})

		It("should return a copy that later appends do not mutate", func() {
			Expect(sink.Append(metrics.Record{PlayerID: "player-1"})).To(Succeed())
			drained := sink.Drain()

			Expect(sink.Append(metrics.Record{PlayerID: "player-2"})).To(Succeed())
			Expect(drained).To(HaveLen(1))
		})
	})
})
