package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// CRM integration. The API key is the only required credential; when it
	// is absent every CRM-backed endpoint fails fast with a 500.
	CRMAPIKey          string
	CRMBaseURL         string
	CRMLocationID      string
	CRMPipelineID      string
	CRMPipelineStageID string
	CRMTimeout         time.Duration

	// Booking behavior. All user-facing times render in the business
	// timezone regardless of the visitor's locale.
	BusinessTimezone    string
	DefaultSlotDuration time.Duration
	BookingWindowDays   int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		CRMAPIKey:          getEnv("CRM_API_KEY", ""),
		CRMBaseURL:         getEnv("CRM_BASE_URL", "https://rest.gohighlevel.com/v1"),
		CRMLocationID:      getEnv("CRM_LOCATION_ID", ""),
		CRMPipelineID:      getEnv("CRM_PIPELINE_ID", ""),
		CRMPipelineStageID: getEnv("CRM_PIPELINE_STAGE_ID", ""),
		CRMTimeout:         getEnvAsDuration("CRM_TIMEOUT", 15*time.Second),

		BusinessTimezone:    getEnv("BUSINESS_TIMEZONE", "America/Denver"),
		DefaultSlotDuration: getEnvAsDuration("DEFAULT_SLOT_DURATION", 60*time.Minute),
		BookingWindowDays:   getEnvAsInt("BOOKING_WINDOW_DAYS", 30),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
