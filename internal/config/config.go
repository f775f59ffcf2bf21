package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	API struct {
		BaseURL    string        `yaml:"base_url" env:"COURSEHUB_API_BASE_URL"`
		Timeout    time.Duration `yaml:"timeout" env:"COURSEHUB_API_TIMEOUT"`
		Page       int           `yaml:"page" env:"COURSEHUB_API_PAGE"`
		PageSize   int           `yaml:"page_size" env:"COURSEHUB_API_PAGE_SIZE"`
		AuthHeader string        `yaml:"auth_header" env:"COURSEHUB_API_AUTH_HEADER"`
		AuthValue  string        `yaml:"auth_value" env:"COURSEHUB_API_AUTH_VALUE"`
	} `yaml:"api"`

	Server struct {
		Port           string        `yaml:"port" env:"SERVER_PORT"`
		Mode           string        `yaml:"mode" env:"SERVER_MODE"`
		AllowedOrigins []string      `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
		Delay          time.Duration `yaml:"delay" env:"SERVER_DELAY"`
		SeedFile       string        `yaml:"seed_file" env:"SERVER_SEED_FILE"`
	} `yaml:"server"`

	Cache struct {
		CourseCacheSize int `yaml:"course_cache_size" env:"COURSE_CACHE_SIZE"`
	} `yaml:"cache"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}

			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// .env only fills variables that are not already set in the process environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// API defaults
	config.API.BaseURL = "http://localhost:9000"
	config.API.Timeout = 30 * time.Second
	config.API.Page = 1
	config.API.PageSize = 10
	config.API.AuthHeader = "X-Auth"
	config.API.AuthValue = "userId"

	// Server defaults
	config.Server.Port = "9000"
	config.Server.Mode = "development"
	config.Server.AllowedOrigins = []string{"http://localhost:4200"}

	config.Cache.CourseCacheSize = 50

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "text"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnvOverrides(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.API.BaseURL) == "" {
		return fmt.Errorf("api base url is required")
	}

	u, err := url.Parse(config.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url %q must be an absolute URL", config.API.BaseURL)
	}

	if config.API.Timeout < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}

	if config.API.Page < 1 || config.API.PageSize < 1 {
		return fmt.Errorf("api page and page size must be positive")
	}

	if strings.TrimSpace(config.API.AuthHeader) == "" {
		return fmt.Errorf("api auth header name is required")
	}

	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return fmt.Errorf("invalid server port %q: %w", config.Server.Port, err)
	}

	if config.Server.Delay < 0 {
		return fmt.Errorf("server delay must not be negative")
	}

	if config.Cache.CourseCacheSize < 1 {
		return fmt.Errorf("course cache size must be positive")
	}

	return nil
}

// IsProduction reports whether the dev API runs in release mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}
