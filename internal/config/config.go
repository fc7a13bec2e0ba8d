package config

import (
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        string
	DatasetPath string
	LogLevel    string

	DefaultLimit       uint32
	DefaultLevDistance uint32
	ScoreThreshold     float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:               envOrDefault("PORT", "8009"),
		DatasetPath:        envOrDefault("DATASET_PATH", "./data"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		DefaultLimit:       envUintOrDefault("DEFAULT_LIMIT", 1),
		DefaultLevDistance: envUintOrDefault("DEFAULT_LEV_DISTANCE", 2),
		ScoreThreshold:     envFloatOrDefault("SCORE_THRESHOLD", 200),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUintOrDefault(key string, fallback uint32) uint32 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(n)
}

func envFloatOrDefault(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
