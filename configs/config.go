package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileConfig defines the structure loaded from the YAML configuration
// file. Environment variables override anything set here.
type FileConfig struct {
	APIKey        string `yaml:"api_key,omitempty"`
	ParentPageID  string `yaml:"parent_page_id,omitempty"`
	DatabaseID    string `yaml:"database_id,omitempty"`
	NotionBaseURL string `yaml:"notion_base_url,omitempty"`
}

// Config holds the final application configuration, merged from file and
// environment variables. Environment variables use the prefix "NOTION_".
type Config struct {
	// Config File Path (loaded first from env).
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	// Notion connection.
	APIKey        string `envconfig:"API_KEY"`
	NotionBaseURL string `envconfig:"BASE_URL"`
	NotionVersion string `envconfig:"VERSION"`

	// Default workspace targets. ParentPageID is where new databases
	// land; DatabaseID is the todo database when one already exists.
	ParentPageID string `envconfig:"PARENT_PAGE_ID"`
	DatabaseID   string `envconfig:"DATABASE_ID"`

	// Server behavior.
	ListenAddr               string        `envconfig:"LISTEN_ADDR" default:":8080"`
	HTTPClientTimeout        time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	ShutdownTimeout          time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	MaxRetryAttempts         int           `envconfig:"MAX_RETRY_ATTEMPTS" default:"3"`
	RetryInitialBackoff      time.Duration `envconfig:"RETRY_INITIAL_BACKOFF" default:"500ms"`
	RetryMaxBackoff          time.Duration `envconfig:"RETRY_MAX_BACKOFF" default:"8s"`
	OtelExporterOtlpEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string        `envconfig:"LOG_LEVEL" default:"info"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load loads configuration first from environment variables (to get the
// file path), then from the YAML file, and finally processes environment
// variables again so they override file settings.
func Load() (*Config, error) {
	var initialCfg Config
	if err := envconfig.Process("notion", &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}

	finalCfg := initialCfg
	if initialCfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(initialCfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", initialCfg.ConfigFilePath, err)
		}
		var fileCfg FileConfig
		if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", initialCfg.ConfigFilePath, err)
		}
		slog.Info("Loaded configuration from file.", "path", initialCfg.ConfigFilePath)

		if fileCfg.APIKey != "" {
			finalCfg.APIKey = fileCfg.APIKey
		}
		if fileCfg.ParentPageID != "" {
			finalCfg.ParentPageID = fileCfg.ParentPageID
		}
		if fileCfg.DatabaseID != "" {
			finalCfg.DatabaseID = fileCfg.DatabaseID
		}
		if fileCfg.NotionBaseURL != "" {
			finalCfg.NotionBaseURL = fileCfg.NotionBaseURL
		}
	}

	// Process environment variables again so they win over file values.
	if err := envconfig.Process("notion", &finalCfg); err != nil {
		return nil, fmt.Errorf("failed to process overriding environment variables: %w", err)
	}

	if finalCfg.APIKey == "" {
		return nil, fmt.Errorf("NOTION_API_KEY is required (or api_key in the config file)")
	}
	return &finalCfg, nil
}
