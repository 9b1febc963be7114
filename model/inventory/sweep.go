package inventory

import (
	"fmt"

	"github.com/sarchlab/nextevent/sim"
)

// A Result is the outcome of the run of one policy.
type Result struct {
	Policy  Policy
	Summary sim.Summary
	Stats   sim.Stats
}

// A SweepObserver is told when each policy run starts and completes.
type SweepObserver interface {
	PolicyStarted(p Policy)
	PolicyDone(r Result)
}

// Sweep runs the study once per policy, in policy order. Every policy gets a
// fresh model and a fresh engine built from b, so hooks, logger and random
// stream configured on b are shared by all runs. A shared stream continues
// where the previous policy left it. The observer may be nil.
//
// Sweep stops at the first failing policy and returns the results gathered so
// far together with the error.
func Sweep(cfg Config, b sim.Builder, observer SweepObserver) ([]Result, error) {
	results := make([]Result, 0, len(cfg.Policies))

	for _, p := range cfg.Policies {
		m, err := New(cfg, p)
		if err != nil {
			return results, err
		}

		engine, err := b.WithModel(m).Build()
		if err != nil {
			return results, err
		}

		if observer != nil {
			observer.PolicyStarted(p)
		}

		summary, stats, err := engine.Run()
		if err != nil {
			return results, fmt.Errorf("policy %s: %w", p, err)
		}

		r := Result{Policy: p, Summary: summary, Stats: stats}
		results = append(results, r)

		if observer != nil {
			observer.PolicyDone(r)
		}
	}

	return results, nil
}
