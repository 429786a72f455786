package config

import (
	"fmt"
	"os"
	"strconv"

	"fakturatools/internal/logger"
)

type Config struct {
	// OpenAI Configuration
	OpenAIAPIKey string
	OpenAIModel  string

	// Google Cloud / Document AI Configuration (PDF text extraction)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Invoice Generation Configuration
	OutputDir              string
	TaxPercent             float64
	UseDefaultCustomerOnly bool
	CompanyRegistryPath    string
	DefaultCustomerPath    string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:            getEnv("OPENAI_MODEL", "gpt-4o"),
		GoogleCloudProject:     getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:    getEnv("GOOGLE_CLOUD_LOCATION", "eu"),
		DocumentAIProcessorID:  getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		OutputDir:              getEnv("OUTPUT_DIR", "output"),
		TaxPercent:             getEnvFloat("TAX_PERCENT", 25),
		UseDefaultCustomerOnly: getEnv("USE_DEFAULT_CUSTOMER_ONLY", "false") == "true",
		CompanyRegistryPath:    getEnv("COMPANY_REGISTRY_PATH", "config/company_cvr_map.json"),
		DefaultCustomerPath:    getEnv("DEFAULT_CUSTOMER_PATH", "config/default_customer.json"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:          getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:              getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.TaxPercent <= 0 || c.TaxPercent >= 100 {
		return fmt.Errorf("TAX_PERCENT must be between 0 and 100, got %v", c.TaxPercent)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
