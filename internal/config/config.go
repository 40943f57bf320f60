package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type SearchConfig struct {
	APIKey         string `json:"api_key"`
	EngineID       string `json:"engine_id"`
	Endpoint       string `json:"endpoint"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	MaxResults     int    `json:"max_results"`
}

type OpenAIConfig struct {
	APIKey    string `json:"api_key"`
	Model     string `json:"model"`
	Endpoint  string `json:"endpoint"`
	MaxTokens int    `json:"max_tokens"`
	BestOf    int    `json:"best_of"`
}

type PipelineConfig struct {
	Paragraphs          int  `json:"paragraphs"`
	StrictSelection     bool `json:"strict_selection"`
	ReadabilityFallback bool `json:"readability_fallback"`
	RetryNextResult     bool `json:"retry_next_result"`
	MaxPageSizeMB       int  `json:"max_page_size_mb"`
}

type Config struct {
	Server struct {
		Host    string `json:"host"`
		Port    int    `json:"port"`
		Subpath string `json:"subpath"`
	} `json:"server"`
	Search   SearchConfig   `json:"search"`
	OpenAI   OpenAIConfig   `json:"openai"`
	Pipeline PipelineConfig `json:"pipeline"`
	Redis    struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Database struct {
		DSN string `json:"dsn"`
	} `json:"database"`
	RateLimit struct {
		Requests      int `json:"requests"`
		WindowSeconds int `json:"window_seconds"`
	} `json:"ratelimit"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Search.APIKey == "" || c.Search.EngineID == "" {
			cfgErr = errors.New("search api_key and engine_id must be set in config")
			return
		}
		if c.OpenAI.APIKey == "" {
			cfgErr = errors.New("openai api_key must be set in config")
			return
		}
		applyDefaults(&c)
		cfg = &c
	})
	return cfg, cfgErr
}

func applyDefaults(c *Config) {
	if c.Search.TimeoutSeconds == 0 {
		c.Search.TimeoutSeconds = 100
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 10
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "text-davinci-003"
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 600
	}
	if c.OpenAI.BestOf == 0 {
		c.OpenAI.BestOf = 3
	}
	if c.Pipeline.Paragraphs == 0 {
		c.Pipeline.Paragraphs = 4
	}
	if c.Pipeline.MaxPageSizeMB == 0 {
		c.Pipeline.MaxPageSizeMB = 5
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 10
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
