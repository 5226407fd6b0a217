package config

import (
	"os"
	"strconv"
	"strings"

	"nsfgstats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig
	Report  ReportConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// DataConfig holds dataset locations
type DataConfig struct {
	// DctFile is the Stata dictionary describing the fixed-width layout.
	DctFile string
	// DatFile is the fixed-width pregnancy file, optionally gzipped.
	DatFile string
	// TableFile is an optional csv/xlsx file used instead of the NSFG files.
	TableFile string
}

// ReportConfig holds report settings
type ReportConfig struct {
	TopModes int
	// Variables compared between first babies and others.
	Variables []string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:    *loadDataConfig(),
		Report:  *loadReportConfig(),
		Server:  *loadServerConfig(),
		Logging: *loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		DctFile:   getEnvOrDefault("NSFG_DCT_FILE", "2002FemPreg.dct"),
		DatFile:   getEnvOrDefault("NSFG_DAT_FILE", "2002FemPreg.dat.gz"),
		TableFile: getEnvOrDefault("TABLE_FILE", ""),
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		TopModes:  getEnvIntOrDefault("REPORT_TOP_MODES", 5),
		Variables: getEnvListOrDefault("REPORT_VARIABLES", []string{"totalwgt_lb", "prglngth", "agepreg"}),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func validateConfig(config *Config) error {
	if config.Data.TableFile == "" && (config.Data.DctFile == "" || config.Data.DatFile == "") {
		return errors.ConfigInvalid("NSFG_DCT_FILE and NSFG_DAT_FILE are required when TABLE_FILE is unset")
	}
	if config.Report.TopModes <= 0 {
		return errors.ConfigInvalid("REPORT_TOP_MODES must be positive")
	}
	if len(config.Report.Variables) == 0 {
		return errors.ConfigInvalid("REPORT_VARIABLES must name at least one column")
	}
	switch config.Logging.Format {
	case "text", "json":
	default:
		return errors.ConfigInvalid("LOG_FORMAT must be text or json")
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

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
