package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CEP lookup service.
	ViaCEPBaseURL string
	ViaCEPTimeout time.Duration

	// Geocoding service. The key is injected, never embedded in source.
	OpenCageKey      string
	OpenCageBaseURL  string
	OpenCageTimeout  time.Duration
	GeocodeCacheSize int

	// Roster data source.
	RosterPath   string
	RosterFormat string // "csv", "csv-noheader", or "json"

	// Rule table override; empty means the embedded default table.
	RulesPath string

	// Nearest-neighbor selector.
	NearestCutoffKm          float64
	NearestFallbackAllStates bool

	// General-support contact for no-match replies.
	SupportName  string
	SupportPhone string

	// Optional decision-event publisher.
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaDecisionsTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	viaCEPTimeout, err := parseDuration("VIACEP_TIMEOUT", "3s")
	if err != nil {
		return nil, err
	}
	openCageTimeout, err := parseDuration("OPENCAGE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cutoff, err := parseFloat("NEAREST_CUTOFF_KM", 200)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ViaCEPBaseURL: envOrDefault("VIACEP_BASE_URL", "https://viacep.com.br/ws"),
		ViaCEPTimeout: viaCEPTimeout,

		OpenCageKey:      os.Getenv("OPENCAGE_KEY"),
		OpenCageBaseURL:  envOrDefault("OPENCAGE_BASE_URL", "https://api.opencagedata.com/geocode/v1/json"),
		OpenCageTimeout:  openCageTimeout,
		GeocodeCacheSize: cacheSize,

		RosterPath:   os.Getenv("ROSTER_PATH"),
		RosterFormat: envOrDefault("ROSTER_FORMAT", "csv"),
		RulesPath:    os.Getenv("RULES_PATH"),

		NearestCutoffKm:          cutoff,
		NearestFallbackAllStates: os.Getenv("NEAREST_FALLBACK_ALL_STATES") == "true",

		SupportName:  envOrDefault("SUPPORT_NAME", "Everson"),
		SupportPhone: envOrDefault("SUPPORT_PHONE", "+55 (48) 9211-0383"),

		KafkaEnabled:        os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:        splitCommas(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaDecisionsTopic: envOrDefault("KAFKA_DECISIONS_TOPIC", "rep-decisions"),
	}

	if cfg.OpenCageKey == "" {
		return nil, errors.New("OPENCAGE_KEY is required")
	}
	if cfg.RosterPath == "" {
		return nil, errors.New("ROSTER_PATH is required")
	}
	switch cfg.RosterFormat {
	case "csv", "csv-noheader", "json":
	default:
		return nil, fmt.Errorf("invalid ROSTER_FORMAT %q", cfg.RosterFormat)
	}
	if cfg.NearestCutoffKm <= 0 {
		return nil, errors.New("NEAREST_CUTOFF_KM must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func splitCommas(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
