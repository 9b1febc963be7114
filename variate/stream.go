// Package variate generates the random variates a simulation model consumes.
//
// All generators of a run draw from one Stream. The order in which a model
// draws is part of its reproducibility: the same seed and the same model logic
// produce the same sequence of variates.
package variate

import (
	"math/rand/v2"
)

// A Source produces uniformly distributed numbers in [0, 1).
type Source interface {
	Float64() float64
}

// A Stream is the shared random source of a run.
type Stream struct {
	src   Source
	draws uint64
}

// NewStream creates a stream backed by a PCG generator seeded with seed.
func NewStream(seed uint64) *Stream {
	return NewStreamFromSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewStreamFromSource wraps an arbitrary source.
func NewStreamFromSource(src Source) *Stream {
	return &Stream{src: src}
}

// Uniform01 returns a number drawn uniformly from the open interval (0, 1).
func (s *Stream) Uniform01() float64 {
	for {
		u := s.src.Float64()
		s.draws++

		if u > 0 && u < 1 {
			return u
		}
	}
}

// Draws returns how many numbers the stream consumed from its source.
func (s *Stream) Draws() uint64 {
	return s.draws
}
