// Package report turns the summaries of completed runs into a report, renders
// it and publishes it.
package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/nextevent/sim"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNoRuns is returned when a report is built from no summaries.
var ErrNoRuns = errors.New("no completed runs to report")

// Confidence is the level of the confidence intervals of replicated outputs.
const Confidence = 0.95

// Meta identifies the study a report belongs to.
type Meta struct {
	ID        string `json:"id" yaml:"id"`
	Model     string `json:"model" yaml:"model"`
	Seed      uint64 `json:"seed" yaml:"seed"`
	Generator string `json:"generator" yaml:"generator"`
}

// A Statistic summarizes one output over the replications of a group.
type Statistic struct {
	Name string `json:"name" yaml:"name"`
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`

	// HalfWidth is the half-width of the Student-t confidence interval of
	// the mean. It is 0 for a single replication.
	HalfWidth float64   `json:"half_width" yaml:"half_width"`
	Values    []float64 `json:"values" yaml:"values,flow"`
}

// A Group gathers the replications of one configuration, for example one
// inventory policy.
type Group struct {
	Label   string      `json:"label,omitempty" yaml:"label,omitempty"`
	Inputs  []sim.Field `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []Statistic `json:"outputs" yaml:"outputs"`
}

// A Report is the outcome of a study.
type Report struct {
	Meta         `yaml:",inline"`
	Title        string      `json:"title" yaml:"title"`
	Replications int         `json:"replications" yaml:"replications"`
	Inputs       []sim.Field `json:"inputs" yaml:"inputs"`
	Groups       []Group     `json:"groups" yaml:"groups"`
}

// New builds a report. groups[i] holds the summaries of the replications of
// group i; every group must have the same number of replications and every
// summary the same outputs. Inputs shared by all groups are reported once.
func New(meta Meta, groups [][]sim.Summary) (*Report, error) {
	if len(groups) == 0 || len(groups[0]) == 0 {
		return nil, ErrNoRuns
	}

	first := groups[0][0]
	r := &Report{
		Meta:         meta,
		Title:        first.Title,
		Replications: len(groups[0]),
		Inputs:       commonInputs(groups),
	}

	for i, g := range groups {
		if len(g) != r.Replications {
			return nil, fmt.Errorf("group %d has %d replications, want %d",
				i, len(g), r.Replications)
		}

		group, err := summarize(g, first.Outputs)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}

		group.Inputs = ownInputs(g[0].Inputs, r.Inputs)
		r.Groups = append(r.Groups, group)
	}

	return r, nil
}

func summarize(replications []sim.Summary, layout []sim.Field) (Group, error) {
	group := Group{Label: replications[0].Label}

	for _, f := range layout {
		values := make([]float64, 0, len(replications))

		for _, s := range replications {
			v, ok := s.Output(f.Name)
			if !ok {
				return Group{}, fmt.Errorf("missing output %q", f.Name)
			}

			values = append(values, v)
		}

		group.Outputs = append(group.Outputs, describe(f, values))
	}

	return group, nil
}

func describe(f sim.Field, values []float64) Statistic {
	s := Statistic{
		Name:   f.Name,
		Unit:   f.Unit,
		Values: values,
	}

	if len(values) == 1 {
		s.Mean = values[0]
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	s.HalfWidth = HalfWidth(s.StdDev, len(values))

	return s
}

// HalfWidth returns the half-width of the Student-t confidence interval, at
// level Confidence, of the mean of n observations with sample standard
// deviation sd.
func HalfWidth(sd float64, n int) float64 {
	if n < 2 {
		return 0
	}

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}

	return t.Quantile(1-(1-Confidence)/2) * sd / math.Sqrt(float64(n))
}

func commonInputs(groups [][]sim.Summary) []sim.Field {
	var common []sim.Field

	for _, f := range groups[0][0].Inputs {
		shared := true

		for _, g := range groups[1:] {
			if !hasField(g[0].Inputs, f) {
				shared = false
				break
			}
		}

		if shared {
			common = append(common, f)
		}
	}

	return common
}

func ownInputs(inputs, common []sim.Field) []sim.Field {
	var own []sim.Field

	for _, f := range inputs {
		if !hasField(common, f) {
			own = append(own, f)
		}
	}

	return own
}

func hasField(fields []sim.Field, f sim.Field) bool {
	for _, g := range fields {
		if g == f {
			return true
		}
	}

	return false
}
