package oracle

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/smoracle/internal/market"
)

// Default run parameters.
const (
	DefaultTrials = 100
	DefaultSize   = 20
	DefaultSeed   = 1
)

// Config holds the tunables of a validation run.
type Config struct {
	// Trials is the number of generate/solve/check cycles per run.
	Trials int

	// Size is N, the number of companies and of candidates per instance.
	Size int

	// Seed seeds the default instance generator. Ignored when a Source is
	// supplied with WithSource.
	Seed uint64
}

// DefaultConfig returns 100 trials of size 20 with seed 1.
func DefaultConfig() Config {
	return Config{
		Trials: DefaultTrials,
		Size:   DefaultSize,
		Seed:   DefaultSeed,
	}
}

// Validate checks that the configuration describes a runnable oracle.
func (c Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", c.Trials)
	}
	if c.Size < 0 {
		return fmt.Errorf("size must be non-negative, got %d", c.Size)
	}
	return nil
}

// Option configures an Oracle.
type Option func(*options)

type options struct {
	cfg      Config
	source   market.Source
	logger   *slog.Logger
	recorder Recorder
	metrics  *Metrics
	runIDs   RunIDGenerator
}

func defaultOptions() options {
	return options{
		cfg:    DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs: UUIDv7Generator{},
	}
}

// WithConfig replaces the whole run configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithTrials sets the number of trials per run.
func WithTrials(n int) Option {
	return func(o *options) { o.cfg.Trials = n }
}

// WithSize sets the instance size N.
func WithSize(n int) Option {
	return func(o *options) { o.cfg.Size = n }
}

// WithSeed seeds the default random generator.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.cfg.Seed = seed }
}

// WithSource draws instances from src instead of a seeded Generator.
func WithSource(src market.Source) Option {
	return func(o *options) { o.source = src }
}

// WithLogger sets the structured logger. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder journals every trial outcome to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithMetrics records trial counts, violations and solver latency.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRunIDs overrides how run identifiers are generated.
func WithRunIDs(g RunIDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.runIDs = g
		}
	}
}
