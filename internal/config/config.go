package config

import (
	"os"
	"strconv"
	"time"

	"edgestats/internal/encoding"
	"edgestats/internal/errors"
	"edgestats/internal/format"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Display  DisplayConfig
	Encoding EncodingConfig
	Batch    BatchConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the optional edge store connection. An empty URL
// disables the repository-backed routes.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// Enabled reports whether a database was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// DisplayConfig holds formatting precision
type DisplayConfig struct {
	StatisticsDecimals int
	TableDecimals      int
}

// EncodingConfig holds the edge styling toggles and width bounds
type EncodingConfig struct {
	GradientColoring bool
	PValueScaling    bool
	WidthMin         float64
	WidthMax         float64
	PValueAlpha      float64
}

// BatchConfig holds answer-set evaluation settings
type BatchConfig struct {
	Concurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Database: *loadDatabaseConfig(),
		Display:  *loadDisplayConfig(),
		Encoding: *loadEncodingConfig(),
		Batch:    *loadBatchConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// EncoderConfig converts the settings into an encoder configuration
func (c *Config) EncoderConfig() encoding.Config {
	cfg := encoding.DefaultConfig()
	cfg.GradientColoring = c.Encoding.GradientColoring
	cfg.PValueScaling = c.Encoding.PValueScaling
	cfg.Scale.Bounds = [2]float64{c.Encoding.WidthMin, c.Encoding.WidthMax}
	cfg.Scale.Alpha = c.Encoding.PValueAlpha
	return cfg
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("SERVER_PORT", "8080"),
		ReadTimeout:     getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getEnvDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:          os.Getenv("DATABASE_URL"),
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
	}
}

func loadDisplayConfig() *DisplayConfig {
	return &DisplayConfig{
		StatisticsDecimals: getEnvIntOrDefault("STATS_DECIMALS", format.StatisticsDecimals),
		TableDecimals:      getEnvIntOrDefault("TABLE_DECIMALS", format.TableDecimals),
	}
}

func loadEncodingConfig() *EncodingConfig {
	scale := encoding.DefaultWidthScale()
	return &EncodingConfig{
		GradientColoring: getEnvBoolOrDefault("GRADIENT_COLORING", true),
		PValueScaling:    getEnvBoolOrDefault("PVALUE_SCALING", true),
		WidthMin:         getEnvFloatOrDefault("EDGE_WIDTH_MIN", scale.Bounds[0]),
		WidthMax:         getEnvFloatOrDefault("EDGE_WIDTH_MAX", scale.Bounds[1]),
		PValueAlpha:      getEnvFloatOrDefault("EDGE_PVALUE_ALPHA", scale.Alpha),
	}
}

func loadBatchConfig() *BatchConfig {
	return &BatchConfig{
		Concurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 8),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Display.StatisticsDecimals < 0 || config.Display.TableDecimals < 0 {
		return errors.ConfigInvalid("decimal places cannot be negative")
	}
	if config.Encoding.WidthMin < 0 || config.Encoding.WidthMax < 0 {
		return errors.ConfigInvalid("edge width bounds cannot be negative")
	}
	if config.Batch.Concurrency <= 0 {
		return errors.ConfigInvalid("batch concurrency must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
