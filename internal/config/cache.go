package config

import (
    "os"
    "time"
)

// CacheConfig defines settings for the availability response cache.  Only
// GET responses are cached; the TTL is deliberately short because a cached
// slot list goes stale with every new booking.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled: getenv("CACHE_ENABLED", "true") == "true",
        TTL:     durOr("CACHE_TTL", 30*time.Second),
        Prefix:  getenv("CACHE_PREFIX", "cache"),
    }
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func durOr(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        return def
    }
    return d
}
