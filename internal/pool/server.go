package pool

import (
	"sync"
	"time"
)

// Server represents one simulated game server. Its counters are guarded by
// a mutex so the (requestsServed, totalResponseTime) pair is always updated
// and read as a single unit.
type Server struct {
	id                int
	mutex             sync.Mutex
	requestsServed    uint64
	totalResponseTime time.Duration
	ewmaResponseTime  time.Duration
	hasEWMA           bool
	players           []string
}

const ewmaAlpha = 0.2

// ID returns the server's index in the pool.
func (s *Server) ID() int {
	return s.id
}

// RecordCompletion adds one completed request to the server's counters and
// remembers which player it served.
func (s *Server) RecordCompletion(playerID string, responseTime time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.requestsServed++
	s.totalResponseTime += responseTime
	s.players = append(s.players, playerID)

	if !s.hasEWMA {
		s.ewmaResponseTime = responseTime
		s.hasEWMA = true
		return
	}
	//ewma = (1 - α) * ewma + α * latest
	s.ewmaResponseTime = time.Duration((1-ewmaAlpha)*float64(s.ewmaResponseTime) + ewmaAlpha*float64(responseTime))
}

// Stats returns the server's counters as a consistent pair.
func (s *Server) Stats() ServerStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	players := make([]string, len(s.players))
	copy(players, s.players)

	return ServerStats{
		ServerID:          s.id,
		RequestsServed:    s.requestsServed,
		TotalResponseTime: s.totalResponseTime,
		EWMAResponseTime:  s.ewmaResponseTime,
		Players:           players,
	}
}

func newServer(id int) *Server {
	return &Server{id: id}
}
