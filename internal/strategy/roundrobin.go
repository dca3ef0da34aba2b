package strategy

import (
	"sync/atomic"
)

type roundRobinStrategy struct {
	current  uint64
	poolSize uint64
}

func (rb *roundRobinStrategy) Next() int {
	n := atomic.AddUint64(&rb.current, 1)

	return int((n - 1) % rb.poolSize)
}

// NewRoundRobinStrategy returns a strategy that cycles through server
// indices 0..poolSize-1 in order. The cursor advances exactly once per
// call, so concurrent callers never receive a duplicated or skipped index.
// poolSize must be positive; the pool constructor enforces that.
func NewRoundRobinStrategy(poolSize int) Strategy {
	return &roundRobinStrategy{
		current:  0,
		poolSize: uint64(poolSize),
	}
}
