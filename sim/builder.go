package sim

import (
	"io"

	"github.com/sarchlab/nextevent/variate"
	"github.com/sirupsen/logrus"
)

// Builder can be used to build a SerialEngine.
type Builder struct {
	model  Model
	stream *variate.Stream
	hooks  []Hook
	logger *logrus.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithModel sets the model the engine drives.
func (b Builder) WithModel(m Model) Builder {
	b.model = m
	return b
}

// WithStream sets the random stream shared by the model's generators.
func (b Builder) WithStream(s *variate.Stream) Builder {
	b.stream = s
	return b
}

// WithSeed sets the random stream to a default stream seeded with seed.
func (b Builder) WithSeed(seed uint64) Builder {
	b.stream = variate.NewStream(seed)
	return b
}

// WithHook registers a hook on the engine.
func (b Builder) WithHook(h Hook) Builder {
	b.hooks = append(append([]Hook(nil), b.hooks...), h)
	return b
}

// WithLogger sets the logger for the engine lifecycle messages.
func (b Builder) WithLogger(l *logrus.Logger) Builder {
	b.logger = l
	return b
}

// Build builds the engine.
func (b Builder) Build() (*SerialEngine, error) {
	if b.model == nil {
		return nil, ErrNoModel
	}

	stream := b.stream
	if stream == nil {
		stream = variate.NewStream(1)
	}

	logger := b.logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	e := &SerialEngine{
		HookableBase: NewHookableBase(),
		model:        b.model,
		stream:       stream,
		clock:        NewClock(),
		logger:       logger,
	}
	e.events = NewEventList(e.clock, b.model.EventKinds()...)

	for _, h := range b.hooks {
		e.AcceptHook(h)
	}

	return e, nil
}
