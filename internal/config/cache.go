package config

import "time"

// CacheConfig controls the response cache wrapped around the public ticket
// listings (the only endpoints hot and read-only enough to cache). The TTL
// is deliberately short: advertisement toggles and fraud cascades must
// become visible quickly, and no mutation guard ever consults the cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads CACHE_* environment variables with a 30s default TTL.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  getenv("CACHE_PREFIX", "cache"),
	}
}
