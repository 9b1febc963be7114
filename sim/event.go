package sim

import "fmt"

// VTimeInSec defines the time in the simulated space. The unit is whatever the
// model says it is (minutes for the queue, months for the inventory system).
type VTimeInSec = float64

// Never is the scheduled time of an event kind that is not pending. It is
// larger than any time a simulation will reach.
const Never VTimeInSec = 1.0e+30

// An EventKind identifies one of the event kinds a model declares. The value is
// the position of the kind in the model's declaration list, so the
// first-declared kind has the lowest identifier.
type EventKind int

// A Dispatch describes one event that the engine hands to the model. It is the
// item carried by the hooks around every event.
type Dispatch struct {
	// Seq is the 1-based dispatch counter.
	Seq   uint64
	Time  VTimeInSec
	Kind  EventKind
	Name  string
	Notes []string
}

func (d Dispatch) String() string {
	return fmt.Sprintf("#%d %s @ %.6f", d.Seq, d.Name, d.Time)
}
