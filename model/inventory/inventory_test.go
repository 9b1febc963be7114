package inventory

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/nextevent/sim"
	"github.com/sarchlab/nextevent/variate"
)

// halfSource always draws 0.5: demands every ln2 months of 2 items, delivery
// lags of 0.75 months.
type halfSource struct{}

func (halfSource) Float64() float64 { return 0.5 }

type dispatchRecorder struct {
	dispatches []sim.Dispatch
}

func (r *dispatchRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos == sim.HookPosAfterEvent {
		r.dispatches = append(r.dispatches, ctx.Item.(sim.Dispatch))
	}
}

func (r *dispatchRecorder) names() []string {
	names := make([]string, 0, len(r.dispatches))
	for _, d := range r.dispatches {
		names = append(names, d.Name)
	}
	return names
}

func smallConfig() Config {
	return Config{
		InitialLevel:    30,
		Months:          2,
		MeanInterdemand: 1.0,
		SetupCost:       32,
		IncrementalCost: 3,
		HoldingCost:     1,
		ShortageCost:    5,
		MinLag:          0.5,
		MaxLag:          1.0,
		DemandSizes:     []float64{0.3, 0.8, 1.0},
	}
}

var _ = Describe("Inventory", func() {
	ln2 := math.Ln2

	run := func(cfg Config, p Policy, stream *variate.Stream, hooks ...sim.Hook) (
		*Model, sim.Summary, sim.Stats,
	) {
		m, err := New(cfg, p)
		Expect(err).NotTo(HaveOccurred())

		b := sim.MakeBuilder().WithModel(m).WithStream(stream)
		for _, h := range hooks {
			b = b.WithHook(h)
		}
		engine, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		summary, stats, err := engine.Run()
		Expect(err).NotTo(HaveOccurred())

		return m, summary, stats
	}

	It("should reject invalid parameters", func() {
		cfg := smallConfig()
		p := Policy{Small: 20, Big: 40}

		broken := []func(c *Config, p *Policy){
			func(c *Config, _ *Policy) { c.Months = 0 },
			func(c *Config, _ *Policy) { c.MeanInterdemand = 0 },
			func(c *Config, _ *Policy) { c.MinLag, c.MaxLag = 2, 1 },
			func(c *Config, _ *Policy) { c.MinLag = -1 },
			func(c *Config, _ *Policy) { c.DemandSizes = []float64{0.5, 0.4, 1} },
			func(c *Config, _ *Policy) { c.DemandSizes = []float64{0.5, 0.9} },
			func(c *Config, _ *Policy) { c.HoldingCost = -1 },
			func(_ *Config, p *Policy) { p.Small, p.Big = 40, 40 },
		}

		for _, breakIt := range broken {
			c := cfg
			c.DemandSizes = append([]float64(nil), cfg.DemandSizes...)
			q := p
			breakIt(&c, &q)

			_, err := New(c, q)
			Expect(err).To(MatchError(sim.ErrInvalidInput))
		}
	})

	It("should not order when the level stays above the reorder point", func() {
		recorder := &dispatchRecorder{}

		m, summary, stats := run(smallConfig(), Policy{Small: 20, Big: 40},
			variate.NewStreamFromSource(halfSource{}), recorder)

		Expect(recorder.names()).To(Equal([]string{
			"evaluate", "demand", "evaluate", "demand", "end-simulation",
		}))
		Expect(stats.Horizon).To(Equal(2.0))
		Expect(m.State().Level).To(Equal(26))
		Expect(m.State().NumOrders).To(BeZero())

		// 30 until ln2, 28 until 2ln2, 26 until 2
		holding, _ := summary.Output(HoldingCost)
		Expect(holding).To(BeNumerically("~", (6*ln2+52)/2, 1e-9))
		ordering, _ := summary.Output(OrderingCost)
		Expect(ordering).To(BeZero())
	})

	It("should place and receive an order below the reorder point", func() {
		recorder := &dispatchRecorder{}

		m, summary, _ := run(smallConfig(), Policy{Small: 29, Big: 40},
			variate.NewStreamFromSource(halfSource{}), recorder)

		Expect(recorder.names()).To(Equal([]string{
			"evaluate", "demand", "evaluate", "demand",
			"order-arrival", "end-simulation",
		}))
		Expect(recorder.dispatches[2].Notes).To(ContainElement("Order of 12 items placed"))
		Expect(recorder.dispatches[4].Time).To(BeNumerically("~", 1.75, 1e-12))
		Expect(m.State().Level).To(Equal(38))

		ordering, _ := summary.Output(OrderingCost)
		Expect(ordering).To(BeNumerically("~", (32.0+3*12)/2, 1e-9))
		holding, _ := summary.Output(HoldingCost)
		Expect(holding).To(BeNumerically("~", (6*ln2+55)/2, 1e-9))
		shortage, _ := summary.Output(ShortageCost)
		Expect(shortage).To(BeZero())
		total, _ := summary.Output(TotalCost)
		Expect(total).To(BeNumerically("~", ordering+holding, 1e-9))
	})

	It("should end before evaluating on the last month boundary", func() {
		cfg := DefaultConfig()
		cfg.Months = 12
		recorder := &dispatchRecorder{}

		run(cfg, Policy{Small: 20, Big: 40}, variate.NewStream(7), recorder)

		last := recorder.dispatches[len(recorder.dispatches)-1]
		Expect(last.Name).To(Equal("end-simulation"))
		Expect(last.Time).To(Equal(12.0))

		evaluations := 0
		for _, d := range recorder.dispatches {
			if d.Name == "evaluate" {
				evaluations++
				Expect(d.Time).To(BeNumerically("<", 12))
			}
		}
		Expect(evaluations).To(Equal(12))
	})

	It("should charge shortage for backlogged demand", func() {
		cfg := DefaultConfig()
		cfg.Months = 12
		cfg.InitialLevel = 0

		_, summary, stats := run(cfg, Policy{Small: 0, Big: 1}, variate.NewStream(3))

		Expect(stats.Areas["shortage"]).To(BeNumerically(">", 0))
		shortage, _ := summary.Output(ShortageCost)
		Expect(shortage).To(BeNumerically("~",
			cfg.ShortageCost*stats.Areas["shortage"]/12, 1e-9))
	})

	It("should reproduce the costs of a 12-month run with the same seed", func() {
		cfg := DefaultConfig()
		cfg.Months = 12
		p := Policy{Small: 20, Big: 60}

		_, a, _ := run(cfg, p, variate.NewStream(1973272912))
		_, b, _ := run(cfg, p, variate.NewStream(1973272912))
		_, c, _ := run(cfg, p, variate.NewLCGStream(1973272912))
		_, d, _ := run(cfg, p, variate.NewLCGStream(1973272912))

		Expect(a).To(Equal(b))
		Expect(c).To(Equal(d))
		total, _ := a.Output(TotalCost)
		Expect(total).To(BeNumerically(">", 0))
	})
})

type sweepRecorder struct {
	started []Policy
	done    int
}

func (r *sweepRecorder) PolicyStarted(p Policy) {
	r.started = append(r.started, p)
}

func (r *sweepRecorder) PolicyDone(Result) {
	r.done++
}

var _ = Describe("Sweep", func() {
	It("should run every policy in order", func() {
		cfg := DefaultConfig()
		cfg.Months = 12
		observer := &sweepRecorder{}

		results, err := Sweep(cfg, sim.MakeBuilder().WithSeed(11), observer)

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(cfg.Policies)))
		Expect(observer.started).To(Equal(cfg.Policies))
		Expect(observer.done).To(Equal(len(cfg.Policies)))
		for i, r := range results {
			Expect(r.Policy).To(Equal(cfg.Policies[i]))
			Expect(r.Summary.Label).To(Equal(cfg.Policies[i].String()))
			Expect(r.Stats.Horizon).To(Equal(12.0))
		}
	})

	It("should reproduce a sweep with the same seed", func() {
		cfg := DefaultConfig()
		cfg.Months = 12

		a, errA := Sweep(cfg, sim.MakeBuilder().WithSeed(5), nil)
		b, errB := Sweep(cfg, sim.MakeBuilder().WithSeed(5), nil)

		Expect(errA).NotTo(HaveOccurred())
		Expect(errB).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("should stop at the first invalid policy", func() {
		cfg := DefaultConfig()
		cfg.Months = 12
		cfg.Policies = []Policy{{20, 40}, {50, 10}, {20, 60}}

		results, err := Sweep(cfg, sim.MakeBuilder(), nil)

		Expect(err).To(MatchError(sim.ErrInvalidInput))
		Expect(results).To(HaveLen(1))
	})
})
