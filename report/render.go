package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for a format Render does not know.
var ErrUnknownFormat = errors.New("unknown report format")

// Render writes the report in the given format: text, yaml or json.
func Render(w io.Writer, r *Report, format string) error {
	switch format {
	case "text", "":
		return RenderText(w, r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

const rule = "--------------------------------------------------------------------------------------------------"

// RenderText writes the report the way the classic simulation programs print
// their results. A report with one unlabeled group lists the outputs one per
// line; labeled groups are laid out as a table with one row per group.
func RenderText(w io.Writer, r *Report) error {
	tw := &textWriter{w: w}

	tw.printf("------%s------\n\n", r.Title)

	for _, f := range r.Inputs {
		tw.printf("%s: %s\n", f.Name, withUnit(number(f.Value), f.Unit))
	}

	if len(r.Groups) == 1 && r.Groups[0].Label == "" {
		tw.renderList(r)
	} else {
		tw.renderTable(r)
	}

	if r.Replications > 1 {
		tw.printf("\nMeans over %d replications, +/- the half-width of the %g%% confidence interval.\n",
			r.Replications, Confidence*100)
	}

	return tw.err
}

type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}

	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) renderList(r *Report) {
	t.printf("\n")

	g := r.Groups[0]
	for _, f := range g.Inputs {
		t.printf("%s: %s\n", f.Name, withUnit(number(f.Value), f.Unit))
	}

	for _, s := range g.Outputs {
		t.printf("%s: %s\n", s.Name, withUnit(cell(s, "%g"), s.Unit))
	}
}

func (t *textWriter) renderTable(r *Report) {
	t.printf("\nNumber of policies: %d\n\nPolicies:\n", len(r.Groups))
	t.printf("%s\n", rule)

	labelWidth := len(" Policy")
	for _, g := range r.Groups {
		labelWidth = max(labelWidth, len(g.Label))
	}

	var header strings.Builder
	header.WriteString(fmt.Sprintf("%-*s", labelWidth, " Policy"))

	widths := make([]int, len(r.Groups[0].Outputs))
	cells := make([][]string, len(r.Groups))

	for i, g := range r.Groups {
		cells[i] = make([]string, len(g.Outputs))
		for j, s := range g.Outputs {
			cells[i][j] = cell(s, "%.2f")
			widths[j] = max(widths[j], len(cells[i][j]))
		}
	}

	for j, s := range r.Groups[0].Outputs {
		name := strings.ReplaceAll(strings.TrimPrefix(s.Name, "Average "), " ", "_")
		name = "Avg_" + name
		widths[j] = max(widths[j], len(name)) + 4
		header.WriteString(fmt.Sprintf("%*s", widths[j], name))
	}

	t.printf("%s\n%s\n", header.String(), rule)

	for i, g := range r.Groups {
		t.printf("%-*s", labelWidth, g.Label)
		for j := range g.Outputs {
			t.printf("%*s", widths[j], cells[i][j])
		}
		t.printf("\n")
	}

	t.printf("%s\n", rule)
}

func cell(s Statistic, format string) string {
	mean := fmt.Sprintf(format, s.Mean)
	if len(s.Values) < 2 {
		return mean
	}

	return mean + " +/- " + fmt.Sprintf(format, s.HalfWidth)
}

func number(v float64) string {
	return fmt.Sprintf("%g", v)
}

func withUnit(v, unit string) string {
	if unit == "" {
		return v
	}

	return v + " " + unit
}

// Rows flattens a report into one row per output of every group.
func Rows(r *Report) []Row {
	var rows []Row

	for _, g := range r.Groups {
		for _, s := range g.Outputs {
			rows = append(rows, Row{
				ReportID:     r.ID,
				Model:        r.Model,
				Label:        g.Label,
				Name:         s.Name,
				Unit:         s.Unit,
				Mean:         s.Mean,
				StdDev:       s.StdDev,
				HalfWidth:    s.HalfWidth,
				Replications: len(s.Values),
			})
		}
	}

	return rows
}

// A Row is one measure of one group of a report.
type Row struct {
	ReportID     string
	Model        string
	Label        string
	Name         string
	Unit         string
	Mean         float64
	StdDev       float64
	HalfWidth    float64
	Replications int
}
