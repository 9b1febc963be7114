package variate

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when a generator is created with parameters
// that do not describe a distribution.
var ErrInvalidParameter = errors.New("invalid distribution parameter")

// cumulativeTolerance is how far the last entry of a cumulative table may be
// from 1 before the table is rejected.
const cumulativeTolerance = 1e-6

// Exponential draws exponentially distributed variates by inverse transform.
type Exponential struct {
	Mean float64
}

// NewExponential creates an exponential generator. The mean must be positive.
func NewExponential(mean float64) (Exponential, error) {
	if !(mean > 0) || math.IsInf(mean, 0) {
		return Exponential{}, fmt.Errorf("%w: exponential mean %g must be > 0",
			ErrInvalidParameter, mean)
	}

	return Exponential{Mean: mean}, nil
}

// Draw returns -mean*ln(U).
func (e Exponential) Draw(s *Stream) float64 {
	return -e.Mean * math.Log(s.Uniform01())
}

// Uniform draws variates uniformly from [A, B].
type Uniform struct {
	A, B float64
}

// NewUniform creates a uniform generator. A must not be greater than B.
func NewUniform(a, b float64) (Uniform, error) {
	if math.IsNaN(a) || math.IsNaN(b) || a > b {
		return Uniform{}, fmt.Errorf("%w: uniform bounds [%g, %g]",
			ErrInvalidParameter, a, b)
	}

	return Uniform{A: a, B: b}, nil
}

// Draw returns A + (B-A)*U.
func (u Uniform) Draw(s *Stream) float64 {
	return u.A + (u.B-u.A)*s.Uniform01()
}

// Discrete draws outcomes 1..N from an empirical distribution given as a
// cumulative table.
type Discrete struct {
	cumulative []float64
}

// NewDiscrete creates a discrete generator. cumulative[i-1] is the probability
// that the outcome is at most i. The table must be non-decreasing, stay within
// [0, 1] and end at 1.
func NewDiscrete(cumulative []float64) (Discrete, error) {
	if len(cumulative) == 0 {
		return Discrete{}, fmt.Errorf("%w: empty cumulative table",
			ErrInvalidParameter)
	}

	prev := 0.0
	for i, p := range cumulative {
		if math.IsNaN(p) || p < prev || p > 1+cumulativeTolerance {
			return Discrete{}, fmt.Errorf(
				"%w: cumulative table entry %d (%g) is not a distribution function",
				ErrInvalidParameter, i+1, p)
		}
		prev = p
	}

	last := cumulative[len(cumulative)-1]
	if math.Abs(last-1) > cumulativeTolerance {
		return Discrete{}, fmt.Errorf(
			"%w: cumulative table ends at %g instead of 1",
			ErrInvalidParameter, last)
	}

	return Discrete{cumulative: append([]float64(nil), cumulative...)}, nil
}

// N returns the number of outcomes.
func (d Discrete) N() int {
	return len(d.cumulative)
}

// Draw returns the smallest i with U < cumulative[i]. If rounding leaves U at
// or above the last entry, the last outcome is returned.
func (d Discrete) Draw(s *Stream) int {
	u := s.Uniform01()

	for i, p := range d.cumulative {
		if u < p {
			return i + 1
		}
	}

	return len(d.cumulative)
}

// Cumulate turns a table of probabilities into the cumulative table Discrete
// expects.
func Cumulate(probabilities []float64) []float64 {
	cumulative := make([]float64, len(probabilities))

	sum := 0.0
	for i, p := range probabilities {
		sum += p
		cumulative[i] = sum
	}

	return cumulative
}
