// Package config loads the parameters of a simulation study.
//
// Values come, in decreasing priority, from command-line flags bound by the
// caller, NEXTEVENT_* environment variables (a .env file in the working
// directory is honored), the configuration file and the defaults registered
// by SetDefaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sarchlab/nextevent/model/inventory"
	"github.com/sarchlab/nextevent/model/queue"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every error caused by a bad configuration.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is the prefix of the environment variables that override the
// configuration file.
const EnvPrefix = "NEXTEVENT"

// Random generator names.
const (
	GeneratorPCG = "pcg"
	GeneratorLCG = "lcg"
)

// Config is the whole configuration of a study.
type Config struct {
	Seed         uint64           `mapstructure:"seed" yaml:"seed"`
	Generator    string           `mapstructure:"generator" yaml:"generator"`
	Replications int              `mapstructure:"replications" yaml:"replications"`
	Queue        queue.Config     `mapstructure:"queue" yaml:"queue"`
	Inventory    inventory.Config `mapstructure:"inventory" yaml:"inventory"`
	Trace        Trace            `mapstructure:"trace" yaml:"trace"`
	Report       Report           `mapstructure:"report" yaml:"report"`
	Log          Log              `mapstructure:"log" yaml:"log"`
}

// Trace configures the event trace.
type Trace struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Format  string `mapstructure:"format" yaml:"format"`
	Path    string `mapstructure:"path" yaml:"path"`
	Kafka   Kafka  `mapstructure:"kafka" yaml:"kafka"`
}

// Kafka locates the topic the Kafka trace writer publishes to.
type Kafka struct {
	Brokers []string `mapstructure:"brokers" yaml:"brokers"`
	Topic   string   `mapstructure:"topic" yaml:"topic"`
}

// Report configures where the summary goes.
type Report struct {
	Format   string   `mapstructure:"format" yaml:"format"`
	Path     string   `mapstructure:"path" yaml:"path"`
	S3       S3       `mapstructure:"s3" yaml:"s3"`
	Postgres Postgres `mapstructure:"postgres" yaml:"postgres"`
	SQLite   SQLite   `mapstructure:"sqlite" yaml:"sqlite"`
}

// S3 locates the bucket reports are uploaded to. An empty bucket disables the
// upload.
type S3 struct {
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
	Region string `mapstructure:"region" yaml:"region"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// Postgres locates the database reports are stored in. An empty DSN disables
// it.
type Postgres struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// SQLite names the database file reports are stored in. An empty path
// disables it.
type SQLite struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("seed", 1)
	v.SetDefault("generator", GeneratorPCG)
	v.SetDefault("replications", 1)

	q := queue.DefaultConfig()
	v.SetDefault("queue.mean_interarrival", q.MeanInterarrival)
	v.SetDefault("queue.mean_service", q.MeanService)
	v.SetDefault("queue.delays_required", q.DelaysRequired)
	v.SetDefault("queue.capacity", q.Capacity)

	inv := inventory.DefaultConfig()
	policies := make([]map[string]any, 0, len(inv.Policies))
	for _, p := range inv.Policies {
		policies = append(policies, map[string]any{"small": p.Small, "big": p.Big})
	}
	v.SetDefault("inventory.initial_level", inv.InitialLevel)
	v.SetDefault("inventory.months", inv.Months)
	v.SetDefault("inventory.mean_interdemand", inv.MeanInterdemand)
	v.SetDefault("inventory.setup_cost", inv.SetupCost)
	v.SetDefault("inventory.incremental_cost", inv.IncrementalCost)
	v.SetDefault("inventory.holding_cost", inv.HoldingCost)
	v.SetDefault("inventory.shortage_cost", inv.ShortageCost)
	v.SetDefault("inventory.min_lag", inv.MinLag)
	v.SetDefault("inventory.max_lag", inv.MaxLag)
	v.SetDefault("inventory.demand_sizes", inv.DemandSizes)
	v.SetDefault("inventory.policies", policies)

	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.format", "text")
	v.SetDefault("trace.path", "")
	v.SetDefault("trace.kafka.brokers", []string{})
	v.SetDefault("trace.kafka.topic", "nextevent-trace")

	v.SetDefault("report.format", "text")
	v.SetDefault("report.path", "")
	v.SetDefault("report.s3.bucket", "")
	v.SetDefault("report.s3.region", "")
	v.SetDefault("report.s3.prefix", "reports/")
	v.SetDefault("report.postgres.dsn", "")
	v.SetDefault("report.sqlite.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration into v and decodes it. An empty file name
// skips the file. Flags must be bound to v before calling Load.
func Load(v *viper.Viper, file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: reading .env: %w", ErrInvalid, err)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalid, file, err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(
		func(dc *mapstructure.DecoderConfig) {
			dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
				dc.DecodeHook,
				mapstructure.StringToSliceHookFunc(","),
			)
		})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("%w: decoding: %w", ErrInvalid, err)
	}

	return &cfg, nil
}

// Validate checks every parameter. The returned error wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Generator {
	case GeneratorPCG, GeneratorLCG:
	default:
		errs = append(errs, fmt.Errorf("generator %q is not %s or %s",
			c.Generator, GeneratorPCG, GeneratorLCG))
	}

	if c.Replications < 1 {
		errs = append(errs, fmt.Errorf("replications %d must be at least 1",
			c.Replications))
	}

	if _, err := queue.New(c.Queue); err != nil {
		errs = append(errs, fmt.Errorf("queue: %w", err))
	}

	if len(c.Inventory.Policies) == 0 {
		errs = append(errs, errors.New("inventory: no policy to simulate"))
	}

	for _, p := range c.Inventory.Policies {
		if _, err := inventory.New(c.Inventory, p); err != nil {
			errs = append(errs, fmt.Errorf("inventory: %w", err))
			break
		}
	}

	errs = append(errs, c.Trace.validate()...)
	errs = append(errs, c.Report.validate()...)
	errs = append(errs, c.Log.validate()...)

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// TraceFormats lists the accepted trace formats.
var TraceFormats = []string{"text", "csv", "parquet", "kafka", "sqlite"}

// ReportFormats lists the accepted report formats.
var ReportFormats = []string{"text", "yaml", "json"}

func (t Trace) validate() []error {
	if !t.Enabled {
		return nil
	}

	if !oneOf(t.Format, TraceFormats) {
		return []error{fmt.Errorf("trace format %q is not one of %s",
			t.Format, strings.Join(TraceFormats, ", "))}
	}

	if t.Format == "kafka" {
		var errs []error
		if len(t.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("kafka trace needs at least one broker"))
		}
		if t.Kafka.Topic == "" {
			errs = append(errs, errors.New("kafka trace needs a topic"))
		}
		return errs
	}

	return nil
}

func (r Report) validate() []error {
	var errs []error

	if !oneOf(r.Format, ReportFormats) {
		errs = append(errs, fmt.Errorf("report format %q is not one of %s",
			r.Format, strings.Join(ReportFormats, ", ")))
	}

	if r.S3.Bucket != "" && r.S3.Region == "" {
		errs = append(errs, errors.New("report s3 bucket needs a region"))
	}

	return errs
}

func (l Log) validate() []error {
	var errs []error

	if _, err := logrus.ParseLevel(l.Level); err != nil {
		errs = append(errs, err)
	}

	if l.Format != "text" && l.Format != "json" {
		errs = append(errs, fmt.Errorf("log format %q is not text or json", l.Format))
	}

	return errs
}

func oneOf(s string, choices []string) bool {
	for _, c := range choices {
		if s == c {
			return true
		}
	}

	return false
}

// YAML renders the configuration, as used by the run, in YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
