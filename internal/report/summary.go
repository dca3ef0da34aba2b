package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/angeloszaimis/game-loadsim/internal/metrics"
	"github.com/angeloszaimis/game-loadsim/internal/pool"
)

// ServerSummary aggregates one server's share of the run.
type ServerSummary struct {
	ServerID          int
	RequestsServed    uint64
	TotalResponseTime time.Duration
	AvgResponseTime   time.Duration
	EWMAResponseTime  time.Duration
	Players           []string
}

// RunSummary aggregates a completed run across all servers.
type RunSummary struct {
	Servers          []ServerSummary
	TotalRequests    uint64
	MeanResponseTime time.Duration
	P50ResponseTime  time.Duration
	P95ResponseTime  time.Duration
}

// Summarize folds the pool snapshot and the drained records into a run
// summary. Response time percentiles come from the per-record samples.
func Summarize(stats []pool.ServerStats, records []metrics.Record) RunSummary {
	summary := RunSummary{
		Servers: make([]ServerSummary, 0, len(stats)),
	}

	for _, s := range stats {
		ss := ServerSummary{
			ServerID:          s.ServerID,
			RequestsServed:    s.RequestsServed,
			TotalResponseTime: s.TotalResponseTime,
			EWMAResponseTime:  s.EWMAResponseTime,
			Players:           s.Players,
		}
		if s.RequestsServed > 0 {
			ss.AvgResponseTime = s.TotalResponseTime / time.Duration(s.RequestsServed)
		}

		summary.TotalRequests += s.RequestsServed
		summary.Servers = append(summary.Servers, ss)
	}

	if len(records) == 0 {
		return summary
	}

	samples := make([]float64, 0, len(records))
	for _, r := range records {
		samples = append(samples, float64(r.ResponseTime))
	}
	sort.Float64s(samples)

	summary.MeanResponseTime = time.Duration(stat.Mean(samples, nil))
	summary.P50ResponseTime = time.Duration(stat.Quantile(0.50, stat.Empirical, samples, nil))
	summary.P95ResponseTime = time.Duration(stat.Quantile(0.95, stat.Empirical, samples, nil))

	return summary
}

// WriteText renders the run summary as a human-readable report.
func WriteText(w io.Writer, summary RunSummary) error {
	var b strings.Builder

	b.WriteString("Final Server Statistics\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	for _, s := range summary.Servers {
		fmt.Fprintf(&b, "\nserver %d:\n", s.ServerID)
		fmt.Fprintf(&b, "  players handled: %d\n", s.RequestsServed)
		fmt.Fprintf(&b, "  average response time: %.3fs\n", s.AvgResponseTime.Seconds())
		fmt.Fprintf(&b, "  player list: %s\n", strings.Join(s.Players, ", "))
	}

	b.WriteString("\nOverall Statistics\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "total players connected: %d\n", summary.TotalRequests)
	fmt.Fprintf(&b, "mean response time: %.3fs\n", summary.MeanResponseTime.Seconds())
	fmt.Fprintf(&b, "p50 response time: %.3fs\n", summary.P50ResponseTime.Seconds())
	fmt.Fprintf(&b, "p95 response time: %.3fs\n", summary.P95ResponseTime.Seconds())

	_, err := io.WriteString(w, b.String())
	return err
}
