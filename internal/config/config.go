package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Ledger backend
	LedgerAPIURL string
	UseLedgerAPI bool

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Engine heuristics
	Engine EngineConfig
}

// EngineConfig exposes the matching, risk and dispute thresholds as
// configuration so the engine stays tunable without code changes.
type EngineConfig struct {
	// Matching
	MatchThreshold    float64 // minimum combined score to accept a fuzzy match
	FuzzyThreshold    float64 // combined score above which a match is "fuzzy" rather than "partial"
	ExactConfidence   float64 // confidence assigned to exact-pass matches
	AmountRejectLimit float64 // amount difference above which a pairing is disallowed
	DateRejectDays    int     // date gap (days) above which a pairing is disallowed

	// Suggestions
	SuggestionMinAmount float64 // minimum |amount| for a missing-transaction suggestion

	// Risk
	HighValueThreshold float64 // unmatched bank amount that raises a fraud indicator
	RoundAmountMin     float64 // minimum amount for the round-number heuristic
	VarianceAlertLimit float64 // unmatched-sum divergence that raises a pattern indicator

	// Disputes
	DisputeHighValue  float64 // amount above which odd-cents transactions look unauthorized
	DisputeWindowDays int     // trailing window of bank activity scanned for disputes
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LedgerAPIURL: getEnv("LEDGER_API_URL", "http://localhost:8082"),
		UseLedgerAPI: getEnv("USE_LEDGER_API", "false") == "true",

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 8),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		Engine: EngineConfig{
			MatchThreshold:    getEnvFloat("MATCH_THRESHOLD", 0.7),
			FuzzyThreshold:    getEnvFloat("FUZZY_THRESHOLD", 0.9),
			ExactConfidence:   getEnvFloat("EXACT_CONFIDENCE", 0.98),
			AmountRejectLimit: getEnvFloat("AMOUNT_REJECT_LIMIT", 100),
			DateRejectDays:    getEnvInt("DATE_REJECT_DAYS", 10),

			SuggestionMinAmount: getEnvFloat("SUGGESTION_MIN_AMOUNT", 100),

			HighValueThreshold: getEnvFloat("RISK_HIGH_VALUE_THRESHOLD", 10000),
			RoundAmountMin:     getEnvFloat("RISK_ROUND_AMOUNT_MIN", 1000),
			VarianceAlertLimit: getEnvFloat("RISK_VARIANCE_ALERT_LIMIT", 5000),

			DisputeHighValue:  getEnvFloat("DISPUTE_HIGH_VALUE", 5000),
			DisputeWindowDays: getEnvInt("DISPUTE_WINDOW_DAYS", 30),
		},
	}
}

// DefaultEngineConfig returns the engine thresholds with their defaults,
// independent of the environment. Used by tests and library callers.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MatchThreshold:      0.7,
		FuzzyThreshold:      0.9,
		ExactConfidence:     0.98,
		AmountRejectLimit:   100,
		DateRejectDays:      10,
		SuggestionMinAmount: 100,
		HighValueThreshold:  10000,
		RoundAmountMin:      1000,
		VarianceAlertLimit:  5000,
		DisputeHighValue:    5000,
		DisputeWindowDays:   30,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
