package ingest

import "time"

// Config holds configuration defaults for synchronization runs. CLI flags
// override these per invocation.
type Config struct {
	// Workers is the admission gate capacity for parallel enrichment.
	Workers int `mapstructure:"workers" default:"8"`
	// PoolSize is the number of background workers performing remote calls.
	PoolSize int `mapstructure:"pool_size" default:"4"`
	// DelayMs is the per-call self-throttling delay in milliseconds.
	DelayMs int `mapstructure:"delay_ms" default:"250"`
	// ProgressEvery is the progress-log interval in completed items.
	ProgressEvery int `mapstructure:"progress_every" default:"50"`
}

// Options translates the configured defaults into run options.
func (c Config) Options() Options {
	return Options{
		Workers:       c.Workers,
		PoolSize:      c.PoolSize,
		Delay:         time.Duration(c.DelayMs) * time.Millisecond,
		ProgressEvery: c.ProgressEvery,
	}
}
