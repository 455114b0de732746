// Package config provides configuration loading and validation for salesboard.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort        = errors.New("invalid server port")
	ErrInvalidTimeout     = errors.New("endpoint timeout must be positive")
	ErrInvalidTheme       = errors.New("theme must be light or dark")
	ErrInvalidTrendPeriod = errors.New("trend period must be month or year")
	ErrInvalidStoreSort   = errors.New("store sort must be asc or desc")
)

const (
	envPrefix = "SALESBOARD"
	maxPort   = 65535
)

// Config holds all configuration for salesboard.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Endpoint  EndpointConfig  `mapstructure:"endpoint"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds the HTTP host configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	Port         int           `mapstructure:"port"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// EndpointConfig locates the filter endpoint.
type EndpointConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Path      string        `mapstructure:"path"`
	CSRFToken string        `mapstructure:"csrf_token"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DashboardConfig holds the initial session settings.
type DashboardConfig struct {
	Title       string `mapstructure:"title"`
	Theme       string `mapstructure:"theme"`
	TrendPeriod string `mapstructure:"trend_period"`
	StoreSort   string `mapstructure:"store_sort"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Prometheus   bool    `mapstructure:"prometheus"`
	Environment  string  `mapstructure:"environment"`
}

// LoadEnv loads KEY=VALUE files into the process environment. Missing files
// are skipped and variables already set win.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	return nil
}

// LoadConfig loads configuration from file and SALESBOARD_ environment
// variables. An empty path searches the working directory.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("salesboard")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if err := viperCfg.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config

	if err := viperCfg.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("server.host", DefaultHost)
	viperCfg.SetDefault("server.port", DefaultPort)
	viperCfg.SetDefault("server.read_timeout", DefaultReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultWriteTimeout)
	viperCfg.SetDefault("server.idle_timeout", DefaultIdleTimeout)

	viperCfg.SetDefault("endpoint.base_url", "")
	viperCfg.SetDefault("endpoint.path", DefaultEndpointPath)
	viperCfg.SetDefault("endpoint.csrf_token", "")
	viperCfg.SetDefault("endpoint.timeout", DefaultEndpointTimeout)

	viperCfg.SetDefault("dashboard.title", DefaultTitle)
	viperCfg.SetDefault("dashboard.theme", DefaultTheme)
	viperCfg.SetDefault("dashboard.trend_period", DefaultTrendPeriod)
	viperCfg.SetDefault("dashboard.store_sort", DefaultStoreSort)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.prometheus", DefaultPrometheus)
	viperCfg.SetDefault("telemetry.environment", "")
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, config.Server.Port)
	}

	if config.Endpoint.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, config.Endpoint.Timeout)
	}

	switch config.Dashboard.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTheme, config.Dashboard.Theme)
	}

	switch config.Dashboard.TrendPeriod {
	case "month", "year":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTrendPeriod, config.Dashboard.TrendPeriod)
	}

	switch config.Dashboard.StoreSort {
	case "asc", "desc":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStoreSort, config.Dashboard.StoreSort)
	}

	return nil
}
