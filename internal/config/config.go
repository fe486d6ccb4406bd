package config

import (
	"log"
	"net"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP Server Configuration
	HTTPHost         string
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	ShutdownTimeout  time.Duration

	// Job Configuration
	CrackDuration         time.Duration
	CrackRestartCompleted bool
	JobKeyPath            string

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int

	// MongoDB history sink, disabled when MongoURI is empty
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// Completion webhook, disabled when WebhookURL is empty
	WebhookURL            string
	WebhookMethod         string
	WebhookTimeout        time.Duration
	WebhookMaxAttempts    int
	WebhookInitialDelayMs int
	WebhookMaxDelayMs     int

	// Stats reporter and metrics
	StatsEnabled   bool
	StatsSchedule  string
	MetricsEnabled bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		// HTTP Server
		HTTPHost:         getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort:         getEnv("HTTP_PORT", "5000"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30) * time.Second,
		ShutdownTimeout:  getDurationEnv("SHUTDOWN_TIMEOUT_SEC", 30) * time.Second,

		// Jobs
		CrackDuration:         getDurationEnv("CRACK_DURATION_SEC", 30) * time.Second,
		CrackRestartCompleted: getBoolEnv("CRACK_RESTART_COMPLETED", true),
		JobKeyPath:            getEnv("JOB_KEY_PATH", "$.hash"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, OPTIONS"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),

		// MongoDB
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "cracksim"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT_SEC", 10) * time.Second,

		// Webhook
		WebhookURL:            getEnv("WEBHOOK_URL", ""),
		WebhookMethod:         getEnv("WEBHOOK_METHOD", "POST"),
		WebhookTimeout:        getDurationEnv("WEBHOOK_TIMEOUT_SEC", 10) * time.Second,
		WebhookMaxAttempts:    getIntEnv("WEBHOOK_MAX_ATTEMPTS", 3),
		WebhookInitialDelayMs: getIntEnv("WEBHOOK_INITIAL_DELAY_MS", 1000),
		WebhookMaxDelayMs:     getIntEnv("WEBHOOK_MAX_DELAY_MS", 30000),

		// Stats
		StatsEnabled:   getBoolEnv("STATS_ENABLED", true),
		StatsSchedule:  getEnv("STATS_SCHEDULE", "@every 1m"),
		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
	}
}

// Addr returns the host:port the HTTP server binds to
func (c *Config) Addr() string {
	return net.JoinHostPort(c.HTTPHost, c.HTTPPort)
}

// HistoryEnabled reports whether job events are written to MongoDB
func (c *Config) HistoryEnabled() bool {
	return c.MongoURI != ""
}

// WebhookEnabled reports whether completions are pushed to a webhook
func (c *Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal >= 0 {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}
