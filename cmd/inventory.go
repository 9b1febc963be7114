package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/nextevent/config"
	"github.com/sarchlab/nextevent/model/inventory"
	"github.com/sarchlab/nextevent/sim"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newInventoryCommand() *cobra.Command {
	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Simulate the single-product inventory system.",
		Long: "Simulate a single-product inventory under every configured " +
			"(s, S) policy and compare their average monthly costs.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			s, err := newStudy(c, "inventory", readLegacyInventory)
			if err != nil {
				return err
			}

			return s.run(c.Context(), simulateInventory)
		},
	}

	addStudyFlags(inventoryCmd)

	return inventoryCmd
}

func readLegacyInventory(cfg *config.Config, r io.Reader) error {
	inv, err := config.ReadLegacyInventoryInput(r)
	if err != nil {
		return err
	}

	cfg.Inventory = inv

	return nil
}

// sweepProgress labels the trace of every policy run and advances the
// progress bar when a policy completes.
type sweepProgress struct {
	study       *study
	bar         *progressbar.ProgressBar
	replication int
}

func (p *sweepProgress) PolicyStarted(policy inventory.Policy) {
	p.study.setRun(p.study.label(policy.String(), p.replication))
	p.bar.Describe("policy " + policy.String())
}

func (p *sweepProgress) PolicyDone(inventory.Result) {
	_ = p.bar.Add(1)
}

func simulateInventory(s *study) ([][]sim.Summary, error) {
	policies := s.cfg.Inventory.Policies
	groups := make([][]sim.Summary, len(policies))

	bar := progressbar.NewOptions(len(policies)*s.cfg.Replications,
		progressbar.OptionSetWriter(s.stderr),
		progressbar.OptionSetDescription("policies"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer func() { _ = bar.Finish() }()

	for i := 0; i < s.cfg.Replications; i++ {
		observer := &sweepProgress{study: s, bar: bar, replication: i}

		results, err := inventory.Sweep(s.cfg.Inventory, s.builder(i), observer)
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", i+1, err)
		}

		for j, r := range results {
			groups[j] = append(groups[j], r.Summary)
		}
	}

	return groups, nil
}
