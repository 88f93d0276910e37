package config

import (
	"os"
	"strconv"
	"time"
)

// Feed engine tunables. Each value can be overridden via environment
// variable; defaults match the production behavior.
const (
	// DefaultAdCacheTTL is how long the campaign-active ad list may be stale
	DefaultAdCacheTTL = 300 * time.Second

	// DefaultInterestCacheTTL is how long a user's top-interest list is cached
	DefaultInterestCacheTTL = 600 * time.Second

	// DefaultBrowseAdCadence inserts an ad after every Nth post on browse pages
	DefaultBrowseAdCadence = 10

	// DefaultOwnPostsAdCadence is the cadence on a user's own-posts pages
	DefaultOwnPostsAdCadence = 15

	// DefaultMinInterestScore is the floor below which interests are ignored
	// for targeting
	DefaultMinInterestScore = 1.0

	// DefaultTopInterestLimit caps how many interests feed ad targeting
	DefaultTopInterestLimit = 10

	// DefaultFallbackFraction is the share of non-targeted posts blended into
	// a relevance-filtered feed
	DefaultFallbackFraction = 0.3
)

// AdCacheTTL returns the ad catalog cache TTL
func AdCacheTTL() time.Duration {
	return durationEnv("AD_CACHE_TTL_SECONDS", DefaultAdCacheTTL)
}

// InterestCacheTTL returns the per-user interest cache TTL
func InterestCacheTTL() time.Duration {
	return durationEnv("INTEREST_CACHE_TTL_SECONDS", DefaultInterestCacheTTL)
}

// ImpressionDedupeWindow returns the duplicate-impression suppression window.
// Zero (the default) disables suppression entirely; the product has not yet
// decided whether duplicate views within a short window should collapse.
func ImpressionDedupeWindow() time.Duration {
	return durationEnv("IMPRESSION_DEDUPE_SECONDS", 0)
}

// GetEnvOrDefault reads an environment variable with a fallback
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
