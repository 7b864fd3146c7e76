package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache in front of the public
// product endpoints.  Entries live under Prefix so an admin write can drop
// the whole catalog with one prefix sweep.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // upper-cased HTTP methods eligible for caching
	TTL          time.Duration
	KeyStrategy  string // route | method_route | method_route_query | route_query
	Prefix       string
	MaxBodyBytes int // responses larger than this are served but not stored
}

// LoadCacheConfig reads the CACHE_* variables.  Unparseable values fall
// back to the defaults.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methodSet(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", time.Minute),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       strings.TrimSuffix(envStr("CACHE_PREFIX", "autopro:catalog"), ":"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	if len(cfg.Methods) == 0 {
		cfg.Enabled = false
	}
	return cfg
}

// methodSet turns "get, head" into {GET, HEAD}.
func methodSet(list string) map[string]bool {
	set := map[string]bool{}
	for _, m := range strings.Split(list, ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			set[m] = true
		}
	}
	return set
}
