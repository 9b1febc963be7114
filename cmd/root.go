// Package cmd provides the command-line interface of nextevent.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/nextevent/config"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the command tree. Reports and stdout traces go to
// stdout; logs and progress go to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nextevent",
		Short: "Run next-event discrete-event simulation studies.",
		Long: `nextevent runs the classic single-server queueing system and ` +
			`the single-product inventory system with a next-event time-advance ` +
			`engine, and reports their performance measures.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	})

	rootCmd.PersistentFlags().String("config", "",
		"configuration file (yaml, json or toml)")
	rootCmd.PersistentFlags().Uint64("seed", 1, "seed of the random stream")
	rootCmd.PersistentFlags().String("generator", config.GeneratorPCG,
		"random generator, pcg or lcg")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (panic, fatal, error, warn, info, debug, trace)")

	rootCmd.AddCommand(newQueueCommand(), newInventoryCommand())

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCommand(os.Stdout, os.Stderr)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	return ExitCode(err)
}

// addStudyFlags registers the flags shared by the model commands.
func addStudyFlags(c *cobra.Command) {
	c.Flags().Bool("trace", false, "record the event trace")
	c.Flags().String("trace-format", "text",
		"trace format (text, csv, parquet, kafka, sqlite)")
	c.Flags().String("trace-path", "",
		"trace destination; stdout for text and csv when empty")
	c.Flags().String("report-format", "text", "report format (text, yaml, json)")
	c.Flags().String("report-path", "", "report file; stdout when empty")
	c.Flags().Int("replications", 1, "number of independent replications")
	c.Flags().String("legacy-input", "",
		"read the model parameters from a classic whitespace-separated input file")
}

// flagKeys maps flags to the configuration keys they override.
var flagKeys = map[string]string{
	"seed":          "seed",
	"generator":     "generator",
	"log-level":     "log.level",
	"trace":         "trace.enabled",
	"trace-format":  "trace.format",
	"trace-path":    "trace.path",
	"report-format": "report.format",
	"report-path":   "report.path",
	"replications":  "replications",
}
