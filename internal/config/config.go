// Package config provides configuration for the intake service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ModeMock selects the offline rule-based judge instead of the LLM judge.
const ModeMock = "MOCK"

// Config holds the intake service configuration.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Database. SQLite DSN, or a postgres:// URL.
	DatabaseURL string `yaml:"database_url"`

	// LLM settings
	Mode           string        `yaml:"mode"`
	LLMBaseURL     string        `yaml:"llm_base_url"`
	LLMAPIKey      string        `yaml:"llm_api_key"`
	LLMModel       string        `yaml:"llm_model"`
	LLMTemperature float64       `yaml:"llm_temperature"`
	LLMTimeout     time.Duration `yaml:"llm_timeout"`

	// JudgmentTimeout bounds each classify/extract/analyze call.
	JudgmentTimeout time.Duration `yaml:"judgment_timeout"`

	// Conversation settings
	HistoryLimit        int `yaml:"history_limit"`
	OpenTicketTurnLimit int `yaml:"open_ticket_turn_limit"`

	// Ticket change feed. Disabled when no brokers are configured.
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	// WebSocket settings
	APIKey         string        `yaml:"api_key"`
	PingInterval   time.Duration `yaml:"ws_ping_interval"`
	WriteTimeout   time.Duration `yaml:"ws_write_timeout"`
	ReadTimeout    time.Duration `yaml:"ws_read_timeout"`
	MaxMessageSize int64         `yaml:"ws_max_message_size"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPPort:            8002,
		DatabaseURL:         "file:intake.db?cache=shared&mode=rwc",
		LLMBaseURL:          "https://api.openai.com",
		LLMModel:            "gpt-4o-mini",
		LLMTemperature:      0.1,
		LLMTimeout:          60 * time.Second,
		JudgmentTimeout:     30 * time.Second,
		HistoryLimit:        20,
		OpenTicketTurnLimit: 10,
		KafkaTopic:          "complaint-tickets",
		PingInterval:        30 * time.Second,
		WriteTimeout:        10 * time.Second,
		ReadTimeout:         60 * time.Second,
		MaxMessageSize:      65536,
		LogLevel:            "info",
	}
}

// Load loads configuration from an optional YAML file, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.Mode = getEnv("INTAKE_MODE", cfg.Mode)
	cfg.LLMBaseURL = getEnv("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.LLMAPIKey = getEnv("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.LLMModel = getEnv("LLM_MODEL", cfg.LLMModel)
	cfg.LLMTemperature = getEnvFloat("LLM_TEMPERATURE", cfg.LLMTemperature)
	cfg.LLMTimeout = getEnvMillis("LLM_TIMEOUT_MS", cfg.LLMTimeout)
	cfg.JudgmentTimeout = getEnvMillis("INTAKE_JUDGMENT_TIMEOUT_MS", cfg.JudgmentTimeout)
	cfg.HistoryLimit = getEnvInt("INTAKE_HISTORY_LIMIT", cfg.HistoryLimit)
	cfg.OpenTicketTurnLimit = getEnvInt("INTAKE_OPEN_TICKET_TURN_LIMIT", cfg.OpenTicketTurnLimit)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.APIKey = getEnv("API_KEY", cfg.APIKey)
	cfg.PingInterval = getEnvMillis("WS_PING_INTERVAL_MS", cfg.PingInterval)
	cfg.WriteTimeout = getEnvMillis("WS_WRITE_TIMEOUT_MS", cfg.WriteTimeout)
	cfg.ReadTimeout = getEnvMillis("WS_READ_TIMEOUT_MS", cfg.ReadTimeout)
	cfg.MaxMessageSize = int64(getEnvInt("WS_MAX_MESSAGE_SIZE", int(cfg.MaxMessageSize)))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getEnvBool("LOG_PRETTY", cfg.LogPretty)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.HistoryLimit < 2 {
		return fmt.Errorf("history_limit must be at least 2, got %d", c.HistoryLimit)
	}
	if c.OpenTicketTurnLimit < 0 {
		return fmt.Errorf("open_ticket_turn_limit must not be negative, got %d", c.OpenTicketTurnLimit)
	}
	if c.JudgmentTimeout <= 0 {
		return fmt.Errorf("judgment_timeout must be positive")
	}
	return nil
}

// MockMode reports whether the offline judge is selected.
func (c *Config) MockMode() bool {
	return strings.EqualFold(c.Mode, ModeMock)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvMillis(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
