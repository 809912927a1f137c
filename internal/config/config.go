package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. It is loaded once and passed
// into constructors; nothing reads the environment after Load returns.
type Config struct {
	Server struct {
		Port        string `yaml:"port"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"server"`
	LLM struct {
		Provider        string `yaml:"provider"`
		GeminiAPIKey    string `yaml:"gemini_api_key"`
		OpenAIAPIKey    string `yaml:"openai_api_key"`
		AnthropicAPIKey string `yaml:"anthropic_api_key"`
	} `yaml:"llm"`
	Storage struct {
		Backend     string `yaml:"backend"`
		DataDir     string `yaml:"data_dir"`
		RedisURL    string `yaml:"redis_url"`
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"storage"`
	News struct {
		FinnhubAPIKey      string `yaml:"finnhub_api_key"`
		AlphaVantageAPIKey string `yaml:"alpha_vantage_api_key"`
		HeadlineLimit      int    `yaml:"headline_limit"`
	} `yaml:"news"`
	Update struct {
		Cron          string   `yaml:"cron"`
		TrendCount    int      `yaml:"trend_count"`
		StrategyCount int      `yaml:"strategy_count"`
		MinEventCount int      `yaml:"min_event_count"`
		MaxEventCount int      `yaml:"max_event_count"`
		RefreshFixed  bool     `yaml:"refresh_fixed"`
		UseSearch     bool     `yaml:"use_search"`
		FixedEventIDs []string `yaml:"fixed_event_ids"`
	} `yaml:"update"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; env vars alone can carry
// the configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Update.RefreshFixed = true
	cfg.Update.UseSearch = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		cfg.Server.FrontendURL = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.GeminiAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAIAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.AnthropicAPIKey = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.DatabaseURL = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.News.FinnhubAPIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.News.AlphaVantageAPIKey = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.News.HeadlineLimit == 0 {
		cfg.News.HeadlineLimit = 10
	}
	if cfg.Update.Cron == "" {
		cfg.Update.Cron = "0 6 * * *"
	}
	if cfg.Update.TrendCount == 0 {
		cfg.Update.TrendCount = 4
	}
	if cfg.Update.StrategyCount == 0 {
		cfg.Update.StrategyCount = 3
	}
	if cfg.Update.MinEventCount == 0 {
		cfg.Update.MinEventCount = 25
	}
	if cfg.Update.MaxEventCount == 0 {
		cfg.Update.MaxEventCount = 30
	}

	return cfg, nil
}

// APIKey returns the key for the configured LLM provider.
func (c *Config) APIKey() string {
	switch c.LLM.Provider {
	case "openai":
		return c.LLM.OpenAIAPIKey
	case "anthropic":
		return c.LLM.AnthropicAPIKey
	default:
		return c.LLM.GeminiAPIKey
	}
}

// Validate checks the fields every mode needs.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "redis", "postgres":
	default:
		return fmt.Errorf("storage.backend must be file, redis or postgres, got %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "redis" && c.Storage.RedisURL == "" {
		return fmt.Errorf("storage.redis_url is required for the redis backend")
	}
	if c.Storage.Backend == "postgres" && c.Storage.DatabaseURL == "" {
		return fmt.Errorf("storage.database_url is required for the postgres backend")
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("llm.provider must be gemini, openai or anthropic, got %q", c.LLM.Provider)
	}
	return nil
}
