package sim

import "fmt"

// A Quantity samples a state-dependent value of a model, such as the queue
// length or the inventory on hand.
type Quantity func() float64

type accumulator struct {
	name     string
	quantity Quantity
	area     float64
}

// Clock holds the current simulated time and integrates the tracked quantities
// over time.
type Clock struct {
	now        VTimeInSec
	lastUpdate VTimeInSec

	accumulators []*accumulator
	index        map[string]int
}

// NewClock creates a clock at time 0 with no tracked quantities.
func NewClock() *Clock {
	return &Clock{index: make(map[string]int)}
}

// Now returns the current simulated time.
func (c *Clock) Now() VTimeInSec {
	return c.now
}

// LastUpdate returns the time at which the accumulators were last updated.
func (c *Clock) LastUpdate() VTimeInSec {
	return c.lastUpdate
}

// Track registers a quantity whose time integral is accumulated under the
// given name. Tracking a name twice replaces the quantity and keeps the area.
func (c *Clock) Track(name string, q Quantity) {
	if i, ok := c.index[name]; ok {
		c.accumulators[i].quantity = q
		return
	}

	c.index[name] = len(c.accumulators)
	c.accumulators = append(c.accumulators, &accumulator{
		name:     name,
		quantity: q,
	})
}

// Reset moves the clock back to time 0, zeroes every accumulator and forgets
// all tracked quantities.
func (c *Clock) Reset() {
	c.now = 0
	c.lastUpdate = 0
	c.accumulators = nil
	c.index = make(map[string]int)
}

// AdvanceTo adds value*elapsed to every accumulator, using the values that held
// since the last update, and then moves the clock to t.
func (c *Clock) AdvanceTo(t VTimeInSec) error {
	if t < c.now {
		return fmt.Errorf("%w: from %g to %g", ErrTimeReversal, c.now, t)
	}

	elapsed := t - c.lastUpdate
	for _, a := range c.accumulators {
		a.area += a.quantity() * elapsed
	}

	c.now = t
	c.lastUpdate = t

	return nil
}

// Area returns the accumulated area of a tracked quantity.
func (c *Clock) Area(name string) (float64, bool) {
	i, ok := c.index[name]
	if !ok {
		return 0, false
	}

	return c.accumulators[i].area, true
}

// Areas returns a copy of all the accumulated areas keyed by name.
func (c *Clock) Areas() map[string]float64 {
	areas := make(map[string]float64, len(c.accumulators))
	for _, a := range c.accumulators {
		areas[a.name] = a.area
	}

	return areas
}
