package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Database  DatabaseConfig `json:"database"`
	Server    ServerConfig   `json:"server"`
	Log       LogConfig      `json:"log"`
	AI        AIConfig       `json:"ai"`
	Jobs      JobsConfig     `json:"jobs"`
	Source    SourceConfig   `json:"source"`
	JWTSecret string         `json:"jwt_secret"`
	JWTTTL    int            `json:"jwt_ttl_hours"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`

	MaxOpenConns int `json:"max_open_conns"`
}

type ServerConfig struct {
	Port int `json:"port"`
}

type LogConfig struct {
	Level   string `json:"level"`
	Console bool   `json:"console"`
}

// ModelConfig names one embedding model and its fixed dimensionality. The
// dimension is part of the model identity: vectors from a model with a
// different dimension never compare against stored ones.
type ModelConfig struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`

	// FallbackProviders name alternate providers serving the same model,
	// tried in order when the primary fails.
	FallbackProviders []string `json:"fallback_providers"`
}

type AIConfig struct {
	Providers map[string]interface{} `json:"providers"`
	General   ModelConfig            `json:"general"`
	Code      ModelConfig            `json:"code"`
	Docs      ModelConfig            `json:"docs"`
	CacheSize int                    `json:"cache_size"`
	CacheTTL  int                    `json:"cache_ttl_minutes"`
	Timeout   int                    `json:"timeout_seconds"`
}

type JobsConfig struct {
	ReembedCron        string `json:"reembed_cron"`
	ReembedBatch       int    `json:"reembed_batch"`
	CacheCleanupCron   string `json:"cache_cleanup_cron"`
	CacheRetentionDays int    `json:"cache_retention_days"`
	GrantCleanupCron   string `json:"grant_cleanup_cron"`
}

type SourceConfig struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Server.Port == 0 {
		return nil, fmt.Errorf("server.port is required")
	}
	if cfg.JWTTTL == 0 {
		cfg.JWTTTL = 72
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if len(cfg.AI.Providers) == 0 {
		return nil, fmt.Errorf("ai.providers is required")
	}
	applyModelDefaults(&cfg.AI)
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 1000
	}
	if cfg.AI.CacheTTL == 0 {
		cfg.AI.CacheTTL = 120
	}
	if cfg.Jobs.ReembedCron == "" {
		cfg.Jobs.ReembedCron = "*/10 * * * *"
	}
	if cfg.Jobs.ReembedBatch == 0 {
		cfg.Jobs.ReembedBatch = 50
	}
	if cfg.Jobs.CacheCleanupCron == "" {
		cfg.Jobs.CacheCleanupCron = "30 3 * * *"
	}
	if cfg.Jobs.CacheRetentionDays == 0 {
		cfg.Jobs.CacheRetentionDays = 30
	}
	if cfg.Jobs.GrantCleanupCron == "" {
		cfg.Jobs.GrantCleanupCron = "0 4 * * *"
	}
	return &cfg, nil
}

func applyModelDefaults(ai *AIConfig) {
	if ai.General.Model == "" {
		ai.General = ModelConfig{Provider: "gemini", Model: "gemini-embedding-001", Dimension: 512}
	}
	if ai.Code.Model == "" {
		ai.Code = ModelConfig{Provider: "gemini", Model: "gemini-embedding-001", Dimension: 1024}
	}
	if ai.Docs.Model == "" {
		ai.Docs = ModelConfig{Provider: "gemini", Model: "gemini-embedding-001", Dimension: 1536}
	}
}
