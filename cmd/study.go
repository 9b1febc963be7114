package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/sarchlab/nextevent/config"
	"github.com/sarchlab/nextevent/report"
	"github.com/sarchlab/nextevent/sim"
	"github.com/sarchlab/nextevent/tracing"
	"github.com/sarchlab/nextevent/variate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// A study is one invocation of a model command: its configuration, its
// outputs and the replications it runs.
type study struct {
	model   string
	id      string
	cfg     *config.Config
	logger  *logrus.Logger
	tracer  *tracing.Tracer
	counter *tracing.EventCounter

	stdout io.Writer
	stderr io.Writer
}

// legacyReader replaces the model parameters of cfg with a classic input
// file.
type legacyReader func(cfg *config.Config, r io.Reader) error

func newStudy(c *cobra.Command, model string, readLegacy legacyReader) (*study, error) {
	v := viper.New()

	for name, key := range flagKeys {
		f := c.Flags().Lookup(name)
		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("%w: binding --%s: %w", config.ErrInvalid, name, err)
		}
	}

	configFile, _ := c.Flags().GetString("config")

	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}

	legacyFile, _ := c.Flags().GetString("legacy-input")
	if legacyFile != "" {
		if err := loadLegacy(cfg, legacyFile, readLegacy); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &study{
		model:   model,
		id:      xid.New().String(),
		cfg:     cfg,
		logger:  newLogger(cfg.Log, c.ErrOrStderr()),
		stdout:  c.OutOrStdout(),
		stderr:  c.ErrOrStderr(),
		counter: tracing.NewEventCounter(),
	}

	if s.logger.IsLevelEnabled(logrus.DebugLevel) {
		if dump, err := cfg.YAML(); err == nil {
			s.logger.WithField("run_id", s.id).Debugf("configuration:\n%s", dump)
		}
	}

	return s, nil
}

func loadLegacy(cfg *config.Config, path string, readLegacy legacyReader) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	defer f.Close()

	return readLegacy(cfg, f)
}

func newLogger(c config.Log, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	if level, err := logrus.ParseLevel(c.Level); err == nil {
		logger.SetLevel(level)
	}

	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

// simulateFunc runs every replication of a study and returns the summaries,
// grouped by configuration.
type simulateFunc func(s *study) ([][]sim.Summary, error)

func (s *study) run(ctx context.Context, simulate simulateFunc) error {
	s.logger.WithFields(logrus.Fields{
		"run_id":       s.id,
		"model":        s.model,
		"seed":         s.cfg.Seed,
		"generator":    s.cfg.Generator,
		"replications": s.cfg.Replications,
	}).Info("study started")

	if err := s.openTrace(ctx); err != nil {
		return err
	}

	groups, err := simulate(s)
	if cerr := s.closeTrace(); cerr != nil {
		return errors.Join(err, cerr)
	}

	if err != nil {
		return err
	}

	r, err := report.New(s.meta(), groups)
	if err != nil {
		return err
	}

	if err := s.publish(ctx, r); err != nil {
		return err
	}

	fields := logrus.Fields{"run_id": s.id, "events": s.counter.Total()}
	for name, n := range s.counter.Counts() {
		fields["events_"+name] = n
	}
	s.logger.WithFields(fields).Info("study completed")

	return nil
}

// closeTrace flushes the trace before the report goes out, so that a trace
// and a report sharing stdout do not interleave.
func (s *study) closeTrace() error {
	if s.tracer == nil {
		return nil
	}

	if err := s.tracer.Close(); err != nil {
		return fmt.Errorf("%w: trace: %w", ErrOutput, err)
	}

	return nil
}

func (s *study) meta() report.Meta {
	return report.Meta{
		ID:        s.id,
		Model:     s.model,
		Seed:      s.cfg.Seed,
		Generator: s.cfg.Generator,
	}
}

// stream returns the random stream of replication i. Replications use
// consecutive seeds.
func (s *study) stream(i int) *variate.Stream {
	seed := s.cfg.Seed + uint64(i)

	if s.cfg.Generator == config.GeneratorLCG {
		return variate.NewLCGStream(seed)
	}

	return variate.NewStream(seed)
}

// builder returns the engine builder of replication i, without a model.
func (s *study) builder(i int) sim.Builder {
	b := sim.MakeBuilder().
		WithStream(s.stream(i)).
		WithLogger(s.logger).
		WithHook(sim.NewEventLogger(s.logger)).
		WithHook(s.counter)

	if s.tracer != nil {
		b = b.WithHook(s.tracer)
	}

	return b
}

// label names a run in the trace. A single unlabeled run gets no header.
func (s *study) label(name string, i int) string {
	if s.cfg.Replications == 1 {
		return name
	}

	if name == "" {
		return fmt.Sprintf("replication %d", i+1)
	}

	return fmt.Sprintf("%s replication %d", name, i+1)
}

func (s *study) setRun(label string) {
	if s.tracer != nil {
		s.tracer.SetRun(label)
	}
}
