package config

import "time"

// CacheConfig controls the Redis response cache applied to the station
// catalog GET endpoints.  Availability figures are computed live from
// the slot table, so the TTL must stay short: a stale entry makes a
// full station look free for at most CACHE_TTL.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the cache settings from environment variables,
// with defaults tuned for the catalog (10s TTL).
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 10*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "catalogo"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
