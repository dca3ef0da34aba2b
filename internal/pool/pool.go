package pool

import (
	"fmt"
	"time"
)

// ServerPool is a fixed ordered collection of servers. Its length is set at
// construction and never changes; valid indices are [0, Size()).
type ServerPool struct {
	servers []*Server
}

// ServerStats is a point-in-time view of one server's counters.
type ServerStats struct {
	ServerID          int
	RequestsServed    uint64
	TotalResponseTime time.Duration
	EWMAResponseTime  time.Duration
	Players           []string
}

// New creates a pool of serverCount servers. A non-positive count is a
// configuration error.
func New(serverCount int) (*ServerPool, error) {
	if serverCount <= 0 {
		return nil, fmt.Errorf("server count must be positive, got %d", serverCount)
	}

	servers := make([]*Server, serverCount)
	for i := range servers {
		servers[i] = newServer(i)
	}

	return &ServerPool{servers: servers}, nil
}

// Size returns the fixed number of servers in the pool.
func (p *ServerPool) Size() int {
	return len(p.servers)
}

// RecordCompletion records one completed request against the server at the
// given index. An out-of-range index leaves every counter untouched.
func (p *ServerPool) RecordCompletion(serverIndex int, playerID string, responseTime time.Duration) error {
	if serverIndex < 0 || serverIndex >= len(p.servers) {
		return fmt.Errorf("server index %d out of range [0,%d)", serverIndex, len(p.servers))
	}

	p.servers[serverIndex].RecordCompletion(playerID, responseTime)
	return nil
}

// Snapshot returns per-server stats in pool order. Each server's pair of
// counters is read consistently; the snapshot is not atomic across servers.
func (p *ServerPool) Snapshot() []ServerStats {
	stats := make([]ServerStats, 0, len(p.servers))
	for _, s := range p.servers {
		stats = append(stats, s.Stats())
	}

	return stats
}
