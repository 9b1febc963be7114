package config

import (
	"fmt"
	"io"
	"math"

	"github.com/sarchlab/nextevent/model/inventory"
	"github.com/sarchlab/nextevent/model/queue"
)

// ReadLegacyQueueInput parses the whitespace-separated queue input of the
// classic programs: mean interarrival time, mean service time and number of
// customers.
func ReadLegacyQueueInput(r io.Reader) (queue.Config, error) {
	cfg := queue.DefaultConfig()

	var delays float64
	_, err := fmt.Fscan(r, &cfg.MeanInterarrival, &cfg.MeanService, &delays)
	if err != nil {
		return queue.Config{}, fmt.Errorf("%w: legacy queue input: %w", ErrInvalid, err)
	}

	if delays != math.Trunc(delays) {
		return queue.Config{}, fmt.Errorf(
			"%w: legacy queue input: number of customers %g is not a whole number",
			ErrInvalid, delays)
	}

	cfg.DelaysRequired = int(delays)

	return cfg, nil
}

// ReadLegacyInventoryInput parses the whitespace-separated inventory input of
// the classic programs: initial level, months, number of policies, number of
// demand sizes, mean inter-demand time, the four costs, the delivery lag
// range, the cumulative demand-size table and then one (s, S) pair per
// policy.
func ReadLegacyInventoryInput(r io.Reader) (inventory.Config, error) {
	var (
		cfg         inventory.Config
		numPolicies int
		numSizes    int
	)

	fail := func(what string, err error) (inventory.Config, error) {
		return inventory.Config{}, fmt.Errorf("%w: legacy inventory input: %s: %w",
			ErrInvalid, what, err)
	}

	_, err := fmt.Fscan(r,
		&cfg.InitialLevel, &cfg.Months, &numPolicies,
		&numSizes, &cfg.MeanInterdemand,
		&cfg.SetupCost, &cfg.IncrementalCost, &cfg.HoldingCost, &cfg.ShortageCost,
		&cfg.MinLag, &cfg.MaxLag)
	if err != nil {
		return fail("header", err)
	}

	if numSizes < 1 || numPolicies < 1 {
		return fail("header", fmt.Errorf("%d demand sizes and %d policies",
			numSizes, numPolicies))
	}

	cfg.DemandSizes = make([]float64, numSizes)
	for i := range cfg.DemandSizes {
		if _, err := fmt.Fscan(r, &cfg.DemandSizes[i]); err != nil {
			return fail(fmt.Sprintf("demand size %d", i+1), err)
		}
	}

	cfg.Policies = make([]inventory.Policy, numPolicies)
	for i := range cfg.Policies {
		p := &cfg.Policies[i]
		if _, err := fmt.Fscan(r, &p.Small, &p.Big); err != nil {
			return fail(fmt.Sprintf("policy %d", i+1), err)
		}
	}

	return cfg, nil
}
