package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig
	API      APIConfig
	Output   OutputConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name    string
	Version string
}

// APIConfig holds the source API configuration
type APIConfig struct {
	BaseURL           string
	MaxRecords        int  // per-stream cap, 0 means unlimited
	RequestsPerMinute int  // token bucket fill rate for the fetcher
	EvenIDFilter      bool // restrict posts/comments streams to even post ids
}

// OutputConfig holds the tap output and export locations
type OutputConfig struct {
	TapPath    string
	ExportDir  string
	ChartsPath string
}

// DatabaseConfig holds the record archive configuration; an empty path
// disables archiving.
type DatabaseConfig struct {
	Path string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port                 int
	MaxRequestsPerMinute int
}

// LoadConfig loads configuration from a .env file. A missing file is not
// fatal: the process environment and defaults still apply.
func LoadConfig(envPath string, log *logrus.Logger) (*Config, error) {
	if envPath == "" {
		envPath = ".env"
	}

	if err := godotenv.Load(envPath); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}

		log.WithField("file", envPath).Warn("No .env file found, using environment and defaults")
	}

	config := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "Placeholder Insights"),
			Version: getEnv("APP_VERSION", "1.0.0"),
		},
		API: APIConfig{
			BaseURL:           getEnv("API_BASE_URL", "https://jsonplaceholder.typicode.com"),
			MaxRecords:        getEnvAsInt("API_MAX_RECORDS", 0),
			RequestsPerMinute: getEnvAsInt("API_REQUESTS_PER_MINUTE", 60),
			EvenIDFilter:      getEnvAsBool("API_EVEN_ID_FILTER", false),
		},
		Output: OutputConfig{
			TapPath:    getEnv("TAP_OUTPUT_PATH", "./output.json"),
			ExportDir:  getEnv("EXPORT_DIR", "."),
			ChartsPath: getEnv("CHARTS_PATH", "./dashboard.html"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", ""),
		},
		Server: ServerConfig{
			Port:                 getEnvAsInt("SERVER_PORT", 8080),
			MaxRequestsPerMinute: getEnvAsInt("SERVER_MAX_REQUESTS_PER_MINUTE", 120),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	log.WithField("file", envPath).Info("Config loaded successfully")
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

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL environment variable is required")
	}

	if config.API.MaxRecords < 0 {
		return fmt.Errorf("API_MAX_RECORDS must not be negative")
	}

	if config.Output.TapPath == "" {
		return fmt.Errorf("TAP_OUTPUT_PATH environment variable is required")
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}

	// create nested directories for outputs that need them
	for _, dir := range []string{config.Output.ExportDir, filepath.Dir(config.Output.ChartsPath)} {
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
	}

	if config.Database.Path != "" {
		dbDir := filepath.Dir(config.Database.Path)
		if dbDir != "." && dbDir != "" {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	return nil
}
