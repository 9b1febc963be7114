package tracing

import (
	"github.com/sarchlab/nextevent/sim"
)

// EventCounter is a hook that counts the dispatched events of every kind.
type EventCounter struct {
	names  []string
	counts map[string]uint64
	total  uint64
}

// NewEventCounter creates a new EventCounter.
func NewEventCounter() *EventCounter {
	return &EventCounter{counts: make(map[string]uint64)}
}

// Func counts an event after the model handled it.
func (c *EventCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	d, ok := ctx.Item.(sim.Dispatch)
	if !ok {
		return
	}

	if _, seen := c.counts[d.Name]; !seen {
		c.names = append(c.names, d.Name)
	}

	c.counts[d.Name]++
	c.total++
}

// Names returns the event names seen so far, in order of first dispatch.
func (c *EventCounter) Names() []string {
	return c.names
}

// Count returns the number of dispatched events with the given name.
func (c *EventCounter) Count(name string) uint64 {
	return c.counts[name]
}

// Total returns the number of dispatched events.
func (c *EventCounter) Total() uint64 {
	return c.total
}

// Counts returns a copy of the per-name counts.
func (c *EventCounter) Counts() map[string]uint64 {
	counts := make(map[string]uint64, len(c.counts))
	for name, n := range c.counts {
		counts[name] = n
	}

	return counts
}
