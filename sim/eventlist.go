package sim

import "fmt"

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	Now() VTimeInSec
}

// EventList keeps, for every event kind, the time the kind is next due. Each
// kind has at most one pending occurrence; scheduling a kind again overwrites
// the previous time.
type EventList struct {
	timeTeller TimeTeller
	names      []string
	times      []VTimeInSec
}

// NewEventList creates an event list for the given kinds. The kinds are
// identified by their position in names. All kinds start at Never.
func NewEventList(timeTeller TimeTeller, names ...string) *EventList {
	l := &EventList{
		timeTeller: timeTeller,
		names:      append([]string(nil), names...),
		times:      make([]VTimeInSec, len(names)),
	}

	l.Reset()

	return l
}

// Reset sets every kind back to Never.
func (l *EventList) Reset() {
	for i := range l.times {
		l.times[i] = Never
	}
}

// Len returns the number of declared kinds.
func (l *EventList) Len() int {
	return len(l.names)
}

// Name returns the declared name of a kind.
func (l *EventList) Name(kind EventKind) string {
	if !l.valid(kind) {
		return fmt.Sprintf("kind(%d)", int(kind))
	}

	return l.names[kind]
}

// Schedule sets the due time of a kind. The time must not be earlier than the
// current time unless it is Never.
func (l *EventList) Schedule(kind EventKind, t VTimeInSec) error {
	if !l.valid(kind) {
		return fmt.Errorf("%w: %d", ErrUnknownEventKind, int(kind))
	}

	now := l.timeTeller.Now()
	if t < now && t != Never {
		return fmt.Errorf("%w: %s @ %g, now %g",
			ErrSchedulingInPast, l.names[kind], t, now)
	}

	l.times[kind] = t

	return nil
}

// Cancel marks a kind as not pending.
func (l *EventList) Cancel(kind EventKind) {
	if l.valid(kind) {
		l.times[kind] = Never
	}
}

// TimeOf returns the time a kind is due, or Never.
func (l *EventList) TimeOf(kind EventKind) VTimeInSec {
	if !l.valid(kind) {
		return Never
	}

	return l.times[kind]
}

// Next returns the kind with the smallest due time. When several kinds share
// that time, the one declared first wins. If every kind is at Never, Next
// returns a fatal empty-event-list error.
func (l *EventList) Next() (EventKind, VTimeInSec, error) {
	next := EventKind(-1)
	minTime := Never

	for i, t := range l.times {
		if t < minTime {
			minTime = t
			next = EventKind(i)
		}
	}

	if next < 0 {
		now := l.timeTeller.Now()
		return next, Never, NewFatalError(FatalEmptyEventList, now,
			ErrEmptyEventList)
	}

	return next, minTime, nil
}

func (l *EventList) valid(kind EventKind) bool {
	return kind >= 0 && int(kind) < len(l.times)
}
