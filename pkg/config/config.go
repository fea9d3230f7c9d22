package config

import (
	"fmt"
	"os"
	"strings"
	"time"

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
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	MarketData struct {
		Provider string        `yaml:"provider"` // "yahoo" or "fake"
		BaseURL  string        `yaml:"base_url"`
		Range    string        `yaml:"range"`
		Interval string        `yaml:"interval"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"market_data"`
	AI struct {
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float64       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"ai"`
	Pipeline struct {
		PromptVersion string   `yaml:"prompt_version"`
		Resolution    string   `yaml:"resolution"`
		Symbols       []string `yaml:"symbols"`
		Schedule      string   `yaml:"schedule"` // cron spec; empty disables scheduled runs
	} `yaml:"pipeline"`
	Cache struct {
		Enabled  bool          `yaml:"enabled"`
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. Overrides are applied before validation, so required fields like
// the API key may come from the environment alone.
func LoadWithEnv(path string) (*Config, error) {
	c, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Pipeline.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("MARKET_DATA_PROVIDER"); v != "" {
		c.MarketData.Provider = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.MarketData.Provider == "" {
		return fmt.Errorf("market_data.provider is required")
	}
	if c.MarketData.Provider != "yahoo" && c.MarketData.Provider != "fake" {
		return fmt.Errorf("market_data.provider must be 'yahoo' or 'fake', got '%s'", c.MarketData.Provider)
	}
	if c.AI.APIKey == "" && c.Environment != "test" {
		return fmt.Errorf("ai.api_key is required")
	}
	if c.Pipeline.PromptVersion == "" {
		return fmt.Errorf("pipeline.prompt_version is required")
	}
	if len(c.Pipeline.Symbols) == 0 {
		return fmt.Errorf("pipeline.symbols cannot be empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers are required when kafka is enabled")
	}
	return nil
}
