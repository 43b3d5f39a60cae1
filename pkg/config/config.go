package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"KeepItBased/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Cache struct {
		Backend string `yaml:"backend"` // redis, memory, or none
		Prefix  string `yaml:"prefix"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Memory struct {
			MaxSize int `yaml:"max_size"`
		} `yaml:"memory"`
	} `yaml:"cache"`
	Kraken struct {
		RESTURL      string        `yaml:"rest_url"`
		WebSocketURL string        `yaml:"websocket_url"`
		Timeout      time.Duration `yaml:"timeout"`
		Stream       struct {
			Enabled        bool          `yaml:"enabled"`
			Pairs          []string      `yaml:"pairs"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"stream"`
	} `yaml:"kraken"`
	Yahoo struct {
		ChartURL   string        `yaml:"chart_url"`
		SummaryURL string        `yaml:"summary_url"`
		Timeout    time.Duration `yaml:"timeout"`
		UserAgent  string        `yaml:"user_agent"`
	} `yaml:"yahoo"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	c.Cache.Redis.Port = util.ParseIntDefault(os.Getenv("REDIS_PORT"), c.Cache.Redis.Port)
	if v := os.Getenv("KRAKEN_STREAM_PAIRS"); v != "" {
		c.Kraken.Stream.Pairs = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Cache.Backend {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be 'redis', 'memory' or 'none', got '%s'", c.Cache.Backend)
	}
	if c.Kraken.RESTURL == "" {
		return fmt.Errorf("kraken.rest_url is required")
	}
	if c.Yahoo.ChartURL == "" {
		return fmt.Errorf("yahoo.chart_url is required")
	}
	if c.Kraken.Stream.Enabled && len(c.Kraken.Stream.Pairs) == 0 {
		return fmt.Errorf("kraken.stream.pairs cannot be empty when the stream is enabled")
	}
	return nil
}
