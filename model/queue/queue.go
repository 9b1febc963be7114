// Package queue implements a single-server queueing system with exponential
// interarrival and service times and a FIFO waiting line.
package queue

import (
	"fmt"

	"github.com/sarchlab/nextevent/sim"
	"github.com/sarchlab/nextevent/variate"
)

// The event kinds of the queue, in declaration order. An arrival due at the
// same time as a departure is handled first.
const (
	Arrival sim.EventKind = iota
	Departure
)

// DefaultCapacity is the number of customers the waiting line can hold.
const DefaultCapacity = 100

// Config holds the parameters of a queue run.
type Config struct {
	MeanInterarrival float64 `mapstructure:"mean_interarrival" yaml:"mean_interarrival" json:"mean_interarrival"`
	MeanService      float64 `mapstructure:"mean_service" yaml:"mean_service" json:"mean_service"`
	DelaysRequired   int     `mapstructure:"delays_required" yaml:"delays_required" json:"delays_required"`
	Capacity         int     `mapstructure:"capacity" yaml:"capacity" json:"capacity"`
}

// DefaultConfig returns the textbook setting: one arrival per minute, half a
// minute of service and 1000 customers.
func DefaultConfig() Config {
	return Config{
		MeanInterarrival: 1.0,
		MeanService:      0.5,
		DelaysRequired:   1000,
		Capacity:         DefaultCapacity,
	}
}

// State is the domain state of the queue between two events.
type State struct {
	ServerBusy bool

	// Waiting holds the arrival times of the customers in line, oldest first.
	Waiting []sim.VTimeInSec

	NumDelayed    int
	TotalDelay    float64
	NumArrivals   int
	NumDepartures int
}

// Model is the single-server queue.
type Model struct {
	cfg          Config
	interarrival variate.Exponential
	service      variate.Exponential
	state        State
}

// New creates a queue model.
func New(cfg Config) (*Model, error) {
	interarrival, err := variate.NewExponential(cfg.MeanInterarrival)
	if err != nil {
		return nil, fmt.Errorf("%w: interarrival time: %w", sim.ErrInvalidInput, err)
	}

	service, err := variate.NewExponential(cfg.MeanService)
	if err != nil {
		return nil, fmt.Errorf("%w: service time: %w", sim.ErrInvalidInput, err)
	}

	if cfg.DelaysRequired < 1 {
		return nil, fmt.Errorf("%w: delays required %d must be at least 1",
			sim.ErrInvalidInput, cfg.DelaysRequired)
	}

	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}

	if cfg.Capacity < 0 {
		return nil, fmt.Errorf("%w: queue capacity %d must be positive",
			sim.ErrInvalidInput, cfg.Capacity)
	}

	return &Model{
		cfg:          cfg,
		interarrival: interarrival,
		service:      service,
	}, nil
}

// Config returns the parameters of the model.
func (m *Model) Config() Config {
	return m.cfg
}

// State returns the current domain state.
func (m *Model) State() State {
	return m.state
}

// EventKinds returns the names of the queue's event kinds.
func (m *Model) EventKinds() []string {
	return []string{"arrival", "departure"}
}

// Initialize empties the system and schedules the first arrival.
func (m *Model) Initialize(env sim.Env) error {
	m.state = State{}

	err := env.Track("num_in_queue", func() float64 {
		return float64(len(m.state.Waiting))
	})
	if err != nil {
		return err
	}

	err = env.Track("server_busy", func() float64 {
		if m.state.ServerBusy {
			return 1
		}
		return 0
	})
	if err != nil {
		return err
	}

	return env.Schedule(Arrival, env.Now()+m.interarrival.Draw(env.Stream()))
}

// Handle processes an arrival or a departure.
func (m *Model) Handle(env sim.Env, kind sim.EventKind) error {
	var (
		next State
		err  error
	)

	switch kind {
	case Arrival:
		next, err = m.arrive(env, m.state)
	case Departure:
		next, err = m.depart(env, m.state)
	default:
		return fmt.Errorf("%w: %d", sim.ErrUnknownEventKind, int(kind))
	}

	if err != nil {
		return err
	}

	m.state = next

	return nil
}

func (m *Model) arrive(env sim.Env, s State) (State, error) {
	now := env.Now()

	s.NumArrivals++
	env.Note("Customer %d Arrival", s.NumArrivals)

	err := env.Schedule(Arrival, now+m.interarrival.Draw(env.Stream()))
	if err != nil {
		return s, err
	}

	if s.ServerBusy {
		if len(s.Waiting) >= m.cfg.Capacity {
			return s, sim.Overflow("queue", m.cfg.Capacity, now)
		}

		s.Waiting = append(s.Waiting, now)

		return s, nil
	}

	s.ServerBusy = true
	s.NumDelayed++
	env.Note("No. of customers delayed: %d", s.NumDelayed)

	return s, env.Schedule(Departure, now+m.service.Draw(env.Stream()))
}

func (m *Model) depart(env sim.Env, s State) (State, error) {
	now := env.Now()

	s.NumDepartures++
	env.Note("Customer %d Departure", s.NumDepartures)

	if len(s.Waiting) == 0 {
		s.ServerBusy = false
		env.Cancel(Departure)

		return s, nil
	}

	s.TotalDelay += now - s.Waiting[0]
	s.Waiting = append(s.Waiting[:0:0], s.Waiting[1:]...)
	s.NumDelayed++
	env.Note("No. of customers delayed: %d", s.NumDelayed)

	return s, env.Schedule(Departure, now+m.service.Draw(env.Stream()))
}

// IsTerminal reports whether enough customers have started service.
func (m *Model) IsTerminal() bool {
	return m.state.NumDelayed >= m.cfg.DelaysRequired
}

// Report computes the measures of performance of a completed run.
func (m *Model) Report(stats sim.Stats) sim.Summary {
	avgDelay := 0.0
	if m.state.NumDelayed > 0 {
		avgDelay = m.state.TotalDelay / float64(m.state.NumDelayed)
	}

	avgInQueue, utilization := 0.0, 0.0
	if stats.Horizon > 0 {
		avgInQueue = stats.Areas["num_in_queue"] / stats.Horizon
		utilization = stats.Areas["server_busy"] / stats.Horizon
	}

	return sim.Summary{
		Title: "Single-Server Queueing System",
		Inputs: []sim.Field{
			{Name: "Mean inter-arrival time", Value: m.cfg.MeanInterarrival, Unit: "minutes"},
			{Name: "Mean service time", Value: m.cfg.MeanService, Unit: "minutes"},
			{Name: "Number of customers", Value: float64(m.cfg.DelaysRequired)},
		},
		Outputs: []sim.Field{
			{Name: AverageDelay, Value: avgDelay, Unit: "minutes"},
			{Name: AverageInQueue, Value: avgInQueue},
			{Name: Utilization, Value: utilization},
			{Name: TimeEnded, Value: stats.Horizon, Unit: "minutes"},
		},
	}
}

// Names of the summary outputs.
const (
	AverageDelay   = "Average delay in queue"
	AverageInQueue = "Average number in queue"
	Utilization    = "Server utilization"
	TimeEnded      = "Time simulation ended"
)
