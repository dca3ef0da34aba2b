package delay

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Sampler produces simulated processing delays. Implementations must be
// safe for concurrent use.
type Sampler interface {
	Sample() time.Duration
}

type uniformSampler struct {
	min, max time.Duration
	mutex    sync.Mutex
	rng      *rand.Rand
}

func (u *uniformSampler) Sample() time.Duration {
	if u.min == u.max {
		return u.min
	}

	u.mutex.Lock()
	defer u.mutex.Unlock()
	return u.min + time.Duration(u.rng.Int63n(int64(u.max-u.min)+1))
}

// NewUniform returns a sampler drawing uniformly from [min, max] using the
// given seed. Negative or inverted bounds are a configuration error, never
// clamped.
func NewUniform(min, max time.Duration, seed int64) (Sampler, error) {
	if min < 0 {
		return nil, fmt.Errorf("minimum delay must not be negative, got %s", min)
	}
	if max < min {
		return nil, fmt.Errorf("maximum delay %s is below minimum %s", max, min)
	}

	return &uniformSampler{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

type fixedSampler struct {
	d time.Duration
}

func (f *fixedSampler) Sample() time.Duration {
	return f.d
}

// NewFixed returns a sampler that always yields d. Useful for reproducible
// runs and deterministic tests.
func NewFixed(d time.Duration) (Sampler, error) {
	if d < 0 {
		return nil, fmt.Errorf("fixed delay must not be negative, got %s", d)
	}

	return &fixedSampler{d: d}, nil
}
