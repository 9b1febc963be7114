package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/nextevent/config"
	"github.com/sarchlab/nextevent/model/queue"
	"github.com/sarchlab/nextevent/sim"
	"github.com/spf13/cobra"
)

func newQueueCommand() *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Simulate the single-server queueing system.",
		Long: "Simulate a single-server queue with exponential interarrival and " +
			"service times until the required number of customers have " +
			"completed their delays in queue.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			s, err := newStudy(c, "queue", readLegacyQueue)
			if err != nil {
				return err
			}

			return s.run(c.Context(), simulateQueue)
		},
	}

	addStudyFlags(queueCmd)

	return queueCmd
}

func readLegacyQueue(cfg *config.Config, r io.Reader) error {
	q, err := config.ReadLegacyQueueInput(r)
	if err != nil {
		return err
	}

	cfg.Queue = q

	return nil
}

func simulateQueue(s *study) ([][]sim.Summary, error) {
	summaries := make([]sim.Summary, 0, s.cfg.Replications)

	for i := 0; i < s.cfg.Replications; i++ {
		m, err := queue.New(s.cfg.Queue)
		if err != nil {
			return nil, err
		}

		engine, err := s.builder(i).WithModel(m).Build()
		if err != nil {
			return nil, err
		}

		s.setRun(s.label("", i))

		summary, _, err := engine.Run()
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", i+1, err)
		}

		summaries = append(summaries, summary)
	}

	return [][]sim.Summary{summaries}, nil
}
