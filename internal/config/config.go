package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// RunModeWebhook selects webhook delivery of Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects getUpdates polling.
	RunModeLongpoll = "longpoll"
)

// Config aggregates all environment-driven settings for the bridge.
type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`
	Debug         bool   `envconfig:"DEBUG" default:"false"`

	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	RunMode  string `envconfig:"RUN_MODE" default:"webhook"`
	// LongpollTimeoutSec is the getUpdates long-poll timeout; 0 -> default.
	LongpollTimeoutSec int `envconfig:"LONGPOLL_TIMEOUT_SEC" default:"30"`

	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	DBAutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	OpenAIKey   string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIModel string `envconfig:"OPENAI_MODEL"`

	// SummaryInterval is how often the conversation summarizer runs.
	SummaryInterval time.Duration `envconfig:"SUMMARY_INTERVAL" default:"12h"`
	// HistoryLimit caps stored conversation turns per chat.
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"50"`
	// HistoryTTL expires idle conversation history.
	HistoryTTL time.Duration `envconfig:"HISTORY_TTL" default:"48h"`
}

// Load reads configuration from the environment and normalizes it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates run mode and interval settings and applies aliases.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.BotToken) == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.OpenAIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.RunMode))
	if rm == "" {
		rm = RunModeWebhook
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook, RunModeLongpoll:
	default:
		return fmt.Errorf("invalid RUN_MODE %q; allowed: webhook, longpoll", cfg.RunMode)
	}
	cfg.RunMode = rm

	if cfg.LongpollTimeoutSec < 0 {
		return fmt.Errorf("LONGPOLL_TIMEOUT_SEC must be >= 0")
	}
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be > 0")
	}
	if cfg.SummaryInterval <= 0 {
		return fmt.Errorf("SUMMARY_INTERVAL must be > 0")
	}
	return nil
}
