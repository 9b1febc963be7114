package sim

import (
	"github.com/sirupsen/logrus"
)

// EventLogger is a hook that logs every dispatched event at debug level.
type EventLogger struct {
	logger *logrus.Logger
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger *logrus.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAfterEvent {
		return
	}

	d, ok := ctx.Item.(Dispatch)
	if !ok {
		return
	}

	entry := h.logger.WithFields(logrus.Fields{
		"seq":      d.Seq,
		"sim_time": d.Time,
		"event":    d.Name,
	})
	if len(d.Notes) > 0 {
		entry = entry.WithField("notes", d.Notes)
	}

	entry.Debug("event dispatched")
}
