package reconcile

import "time"

// Config holds configuration for the reconciliation engine.
type Config struct {
	// CacheTTLSeconds is how long a loaded identity map stays valid.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
}

// CacheTTL returns the identity map cache lifetime.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
