package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Monitor  MonitorConfig
	Pricing  PricingConfig
	Analysis AnalysisConfig
	SMTP     SMTPConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MonitorConfig holds the price-alert monitoring loop configuration.
// The interval is recomputed every cycle from the monitored-symbol count
// and clamped to [MinIntervalSeconds, MaxIntervalSeconds].
type MonitorConfig struct {
	AutoStart             bool
	CheckIntervalSeconds  int
	DynamicInterval       bool
	TargetRequestsPerHour int
	MinIntervalSeconds    int
	MaxIntervalSeconds    int
	FetchTimeoutSeconds   int
}

// PricingConfig holds price-source configuration. The fernet key encrypts
// provider API keys at rest in the price_source_setting table. RefreshCron
// schedules the daily price history refresh.
type PricingConfig struct {
	FernetKey       string
	RefreshCron     string
	CacheTTLSeconds int
}

// AnalysisConfig holds defaults for the correlation and attribution engines.
type AnalysisConfig struct {
	LookbackDays         int
	CorrelationThreshold float64
	DefaultBenchmark     string
}

// SMTPConfig holds email notification settings. An empty Host disables the
// email channel; alerts then fall back to log notifications.
type SMTPConfig struct {
	Host             string
	Port             int
	SenderEmail      string
	SenderPassword   string
	DefaultRecipient string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_desk.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Monitor: MonitorConfig{
			AutoStart:             getEnvBool("AUTO_START_MONITORING", true),
			CheckIntervalSeconds:  getEnvInt("ALERT_CHECK_INTERVAL", 30),
			DynamicInterval:       getEnvBool("ENABLE_DYNAMIC_INTERVAL", false),
			TargetRequestsPerHour: getEnvInt("TARGET_REQUESTS_PER_HOUR", 120),
			MinIntervalSeconds:    getEnvInt("MIN_CHECK_INTERVAL", 30),
			MaxIntervalSeconds:    getEnvInt("MAX_CHECK_INTERVAL", 300),
			FetchTimeoutSeconds:   getEnvInt("PRICE_FETCH_TIMEOUT", 10),
		},
		Pricing: PricingConfig{
			FernetKey:       getEnv("PRICE_SOURCE_FERNET_KEY", ""),
			RefreshCron:     getEnv("PRICE_REFRESH_CRON", "0 18 * * 1-5"),
			CacheTTLSeconds: getEnvInt("PRICE_CACHE_TTL", 300),
		},
		Analysis: AnalysisConfig{
			LookbackDays:         getEnvInt("CORRELATION_LOOKBACK_DAYS", 90),
			CorrelationThreshold: getEnvFloat("HIGH_CORRELATION_THRESHOLD", 0.7),
			DefaultBenchmark:     getEnv("DEFAULT_BENCHMARK", "SPY"),
		},
		SMTP: SMTPConfig{
			Host:             getEnv("SMTP_SERVER", ""),
			Port:             getEnvInt("SMTP_PORT", 587),
			SenderEmail:      getEnv("SENDER_EMAIL", ""),
			SenderPassword:   getEnv("SENDER_PASSWORD", ""),
			DefaultRecipient: getEnv("DEFAULT_RECIPIENT_EMAIL", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
