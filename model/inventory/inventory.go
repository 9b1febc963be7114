// Package inventory implements a single-product inventory system run under an
// (s, S) ordering policy: at the beginning of every month the level is
// reviewed, and when it is below s an order brings it back up to S.
package inventory

import (
	"fmt"
	"math"

	"github.com/sarchlab/nextevent/sim"
	"github.com/sarchlab/nextevent/variate"
)

// The event kinds of the inventory system, in declaration order. The end of
// the simulation is declared before the monthly evaluation so that it wins
// when both fall on the last month boundary.
const (
	OrderArrival sim.EventKind = iota
	Demand
	EndSimulation
	Evaluate
)

// Policy is an (s, S) ordering policy.
type Policy struct {
	Small int `mapstructure:"small" yaml:"small" json:"small"`
	Big   int `mapstructure:"big" yaml:"big" json:"big"`
}

func (p Policy) String() string {
	return fmt.Sprintf("(%2d,%3d)", p.Small, p.Big)
}

// Config holds the parameters shared by every policy of a study.
type Config struct {
	InitialLevel    int     `mapstructure:"initial_level" yaml:"initial_level" json:"initial_level"`
	Months          int     `mapstructure:"months" yaml:"months" json:"months"`
	MeanInterdemand float64 `mapstructure:"mean_interdemand" yaml:"mean_interdemand" json:"mean_interdemand"`
	SetupCost       float64 `mapstructure:"setup_cost" yaml:"setup_cost" json:"setup_cost"`
	IncrementalCost float64 `mapstructure:"incremental_cost" yaml:"incremental_cost" json:"incremental_cost"`
	HoldingCost     float64 `mapstructure:"holding_cost" yaml:"holding_cost" json:"holding_cost"`
	ShortageCost    float64 `mapstructure:"shortage_cost" yaml:"shortage_cost" json:"shortage_cost"`
	MinLag          float64 `mapstructure:"min_lag" yaml:"min_lag" json:"min_lag"`
	MaxLag          float64 `mapstructure:"max_lag" yaml:"max_lag" json:"max_lag"`

	// DemandSizes is the cumulative distribution of the demand size: entry
	// i-1 is the probability that a demand asks for at most i items.
	DemandSizes []float64 `mapstructure:"demand_sizes" yaml:"demand_sizes" json:"demand_sizes"`

	Policies []Policy `mapstructure:"policies" yaml:"policies" json:"policies"`
}

// DefaultConfig returns the textbook study: 120 months, nine policies.
func DefaultConfig() Config {
	return Config{
		InitialLevel:    60,
		Months:          120,
		MeanInterdemand: 0.1,
		SetupCost:       32.0,
		IncrementalCost: 3.0,
		HoldingCost:     1.0,
		ShortageCost:    5.0,
		MinLag:          0.5,
		MaxLag:          1.0,
		DemandSizes:     []float64{0.167, 0.5, 0.833, 1.0},
		Policies: []Policy{
			{20, 40}, {20, 60}, {20, 80}, {20, 100},
			{40, 60}, {40, 80}, {40, 100},
			{60, 80}, {60, 100},
		},
	}
}

// State is the domain state of the inventory system between two events.
type State struct {
	Level int

	// Outstanding is the size of the order on its way, or 0.
	Outstanding int

	OrderingCost float64
	NumOrders    int
	NumDemands   int
	Ended        bool
}

// Model is the inventory system run under one policy.
type Model struct {
	cfg    Config
	policy Policy

	interdemand variate.Exponential
	demandSize  variate.Discrete
	lag         variate.Uniform

	state State
}

// New creates the inventory model for one policy.
func New(cfg Config, policy Policy) (*Model, error) {
	if cfg.Months < 1 {
		return nil, fmt.Errorf("%w: simulation length %d must be at least 1 month",
			sim.ErrInvalidInput, cfg.Months)
	}

	if policy.Small < 0 || policy.Small >= policy.Big {
		return nil, fmt.Errorf("%w: policy %s needs 0 <= s < S",
			sim.ErrInvalidInput, policy)
	}

	for name, c := range map[string]float64{
		"setup":       cfg.SetupCost,
		"incremental": cfg.IncrementalCost,
		"holding":     cfg.HoldingCost,
		"shortage":    cfg.ShortageCost,
	} {
		if c < 0 || math.IsNaN(c) {
			return nil, fmt.Errorf("%w: %s cost %g must not be negative",
				sim.ErrInvalidInput, name, c)
		}
	}

	interdemand, err := variate.NewExponential(cfg.MeanInterdemand)
	if err != nil {
		return nil, fmt.Errorf("%w: inter-demand time: %w", sim.ErrInvalidInput, err)
	}

	demandSize, err := variate.NewDiscrete(cfg.DemandSizes)
	if err != nil {
		return nil, fmt.Errorf("%w: demand sizes: %w", sim.ErrInvalidInput, err)
	}

	lag, err := variate.NewUniform(cfg.MinLag, cfg.MaxLag)
	if err != nil {
		return nil, fmt.Errorf("%w: delivery lag: %w", sim.ErrInvalidInput, err)
	}

	if cfg.MinLag < 0 {
		return nil, fmt.Errorf("%w: delivery lag %g must not be negative",
			sim.ErrInvalidInput, cfg.MinLag)
	}

	return &Model{
		cfg:         cfg,
		policy:      policy,
		interdemand: interdemand,
		demandSize:  demandSize,
		lag:         lag,
	}, nil
}

// Policy returns the policy the model runs under.
func (m *Model) Policy() Policy {
	return m.policy
}

// State returns the current domain state.
func (m *Model) State() State {
	return m.state
}

// EventKinds returns the names of the inventory event kinds.
func (m *Model) EventKinds() []string {
	return []string{"order-arrival", "demand", "end-simulation", "evaluate"}
}

// Initialize restores the initial level and schedules the first demand, the
// first evaluation at time 0 and the end of the simulation.
func (m *Model) Initialize(env sim.Env) error {
	m.state = State{Level: m.cfg.InitialLevel}

	err := env.Track("holding", func() float64 {
		return float64(max(m.state.Level, 0))
	})
	if err != nil {
		return err
	}

	err = env.Track("shortage", func() float64 {
		return float64(max(-m.state.Level, 0))
	})
	if err != nil {
		return err
	}

	now := env.Now()
	env.Cancel(OrderArrival)

	if err := env.Schedule(Demand, now+m.interdemand.Draw(env.Stream())); err != nil {
		return err
	}

	if err := env.Schedule(EndSimulation, now+float64(m.cfg.Months)); err != nil {
		return err
	}

	return env.Schedule(Evaluate, now)
}

// Handle processes one inventory event.
func (m *Model) Handle(env sim.Env, kind sim.EventKind) error {
	var (
		next State
		err  error
	)

	switch kind {
	case OrderArrival:
		next, err = m.receiveOrder(env, m.state)
	case Demand:
		next, err = m.demand(env, m.state)
	case EndSimulation:
		next, err = m.end(env, m.state)
	case Evaluate:
		next, err = m.evaluate(env, m.state)
	default:
		return fmt.Errorf("%w: %d", sim.ErrUnknownEventKind, int(kind))
	}

	if err != nil {
		return err
	}

	m.state = next

	return nil
}

func (m *Model) receiveOrder(env sim.Env, s State) (State, error) {
	s.Level += s.Outstanding
	env.Note("Order of %d items arrived, level %d", s.Outstanding, s.Level)
	s.Outstanding = 0
	env.Cancel(OrderArrival)

	return s, nil
}

func (m *Model) demand(env sim.Env, s State) (State, error) {
	size := m.demandSize.Draw(env.Stream())
	s.Level -= size
	s.NumDemands++
	env.Note("Demand of %d items, level %d", size, s.Level)

	return s, env.Schedule(Demand, env.Now()+m.interdemand.Draw(env.Stream()))
}

func (m *Model) evaluate(env sim.Env, s State) (State, error) {
	now := env.Now()

	if s.Level < m.policy.Small {
		amount := m.policy.Big - s.Level
		s.Outstanding = amount
		s.OrderingCost += m.cfg.SetupCost + m.cfg.IncrementalCost*float64(amount)
		s.NumOrders++
		env.Note("Order of %d items placed", amount)

		err := env.Schedule(OrderArrival, now+m.lag.Draw(env.Stream()))
		if err != nil {
			return s, err
		}
	}

	return s, env.Schedule(Evaluate, now+1)
}

func (m *Model) end(env sim.Env, s State) (State, error) {
	s.Ended = true
	env.Note("End of simulation after %d months", m.cfg.Months)

	return s, nil
}

// IsTerminal reports whether the end-of-simulation event has happened.
func (m *Model) IsTerminal() bool {
	return m.state.Ended
}

// Names of the summary outputs, all per month.
const (
	TotalCost    = "Average total cost"
	OrderingCost = "Average ordering cost"
	HoldingCost  = "Average holding cost"
	ShortageCost = "Average shortage cost"
)

// Report computes the average monthly costs of a completed run.
func (m *Model) Report(stats sim.Stats) sim.Summary {
	months := float64(m.cfg.Months)

	ordering := m.state.OrderingCost / months
	holding := m.cfg.HoldingCost * stats.Areas["holding"] / months
	shortage := m.cfg.ShortageCost * stats.Areas["shortage"] / months

	return sim.Summary{
		Title: "Single-Product Inventory System",
		Label: m.policy.String(),
		Inputs: []sim.Field{
			{Name: "Reorder point", Value: float64(m.policy.Small), Unit: "items"},
			{Name: "Order-up-to level", Value: float64(m.policy.Big), Unit: "items"},
			{Name: "Initial inventory level", Value: float64(m.cfg.InitialLevel), Unit: "items"},
			{Name: "Mean inter-demand time", Value: m.cfg.MeanInterdemand, Unit: "months"},
			{Name: "Length of simulation", Value: months, Unit: "months"},
			{Name: "Number of demand sizes", Value: float64(len(m.cfg.DemandSizes))},
			{Name: "Minimum delivery lag", Value: m.cfg.MinLag, Unit: "months"},
			{Name: "Maximum delivery lag", Value: m.cfg.MaxLag, Unit: "months"},
			{Name: "Setup cost (K)", Value: m.cfg.SetupCost},
			{Name: "Incremental cost (i)", Value: m.cfg.IncrementalCost},
			{Name: "Holding cost (h)", Value: m.cfg.HoldingCost},
			{Name: "Shortage cost (pi)", Value: m.cfg.ShortageCost},
		},
		Outputs: []sim.Field{
			{Name: TotalCost, Value: ordering + holding + shortage},
			{Name: OrderingCost, Value: ordering},
			{Name: HoldingCost, Value: holding},
			{Name: ShortageCost, Value: shortage},
		},
	}
}
