package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the stock scraper service.
type Config struct {
	// HTTP server
	Port int `mapstructure:"port"`

	// Access gate credential for /api/stock
	AccessPassword string `mapstructure:"access_password"`

	// Source document retrieval
	HistoryBaseURL string        `mapstructure:"history_base_url"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`

	// Inbound throttling per client IP; 0 disables it
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	LogLevel string `mapstructure:"log_level"`
}

// Flags returns the command-line flags understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("stockscraper", pflag.ContinueOnError)
	fs.Int("port", 5454, "port to listen on")
	fs.String("history-base-url", "https://finance.yahoo.com", "site serving the history pages")
	fs.Duration("fetch-timeout", 15*time.Second, "timeout for one history page fetch")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("config", "", "path to a config file")
	return fs
}

// Load reads configuration from flags, environment variables and an
// optional config file, in that order of precedence. flags may be nil.
//
// Expected environment variables:
//   - ACCESS_PASSWORD (required to serve, see RequireServe)
//   - PORT (optional, defaults to 5454)
//   - HISTORY_BASE_URL (optional, defaults to production)
//   - FETCH_TIMEOUT (optional, defaults to 15s)
//   - USER_AGENT (optional)
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST (optional, limiting off by default)
//   - LOG_LEVEL (optional, defaults to info)
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 5454)
	v.SetDefault("history_base_url", "https://finance.yahoo.com")
	v.SetDefault("fetch_timeout", 15*time.Second)
	v.SetDefault("user_agent", "Mozilla/5.0 (compatible; stockscraper/1.0)")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("log_level", "info")

	// Optionally read from config file if it exists
	configFile := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.stockscraper")
		// A missing file is fine; a broken one is not
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.BindEnv("port", "PORT")
	v.BindEnv("access_password", "ACCESS_PASSWORD")
	v.BindEnv("history_base_url", "HISTORY_BASE_URL")
	v.BindEnv("fetch_timeout", "FETCH_TIMEOUT")
	v.BindEnv("user_agent", "USER_AGENT")
	v.BindEnv("rate_limit_rps", "RATE_LIMIT_RPS")
	v.BindEnv("rate_limit_burst", "RATE_LIMIT_BURST")
	v.BindEnv("log_level", "LOG_LEVEL")

	// Only flags set explicitly override env and file values
	if flags != nil {
		for key, name := range map[string]string{
			"port":             "port",
			"history_base_url": "history-base-url",
			"fetch_timeout":    "fetch-timeout",
			"log_level":        "log-level",
		} {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// RequireServe checks the fields needed only by the HTTP server.
func (c *Config) RequireServe() error {
	var missing []string
	if c.AccessPassword == "" {
		missing = append(missing, "ACCESS_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks value ranges that Unmarshal cannot enforce.
func (c *Config) Validate() error {
	var problems []string
	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Port))
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("fetch_timeout %s must be positive", c.FetchTimeout))
	}
	if c.RateLimitRPS < 0 {
		problems = append(problems, "rate_limit_rps must not be negative")
	}
	if !strings.HasPrefix(c.HistoryBaseURL, "http://") && !strings.HasPrefix(c.HistoryBaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("history_base_url %q must be an http(s) URL", c.HistoryBaseURL))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SlogLevel converts LogLevel for use with log/slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
