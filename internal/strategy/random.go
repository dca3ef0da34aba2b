package strategy

import (
	"math/rand"
)

type randomStrategy struct {
	poolSize int
}

func (r *randomStrategy) Next() int {
	return rand.Intn(r.poolSize)
}

func NewRandomStrategy(poolSize int) Strategy {
	return &randomStrategy{poolSize: poolSize}
}
