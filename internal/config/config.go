package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		MaxUploadMB    int      `yaml:"max_upload_mb"`
	} `yaml:"server"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Scoring struct {
		Currency          string   `yaml:"currency"`
		RepaymentKeywords []string `yaml:"repayment_keywords"`
	} `yaml:"scoring"`
}

// Load reads the YAML file at path (a missing file is allowed), applies
// environment overrides, then fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := GetEnv("PORT", ""); v != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	cfg.Server.Addr = GetEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.AllowedOrigins = GetListEnv("CORS_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Server.MaxUploadMB = GetIntEnv("MAX_UPLOAD_MB", cfg.Server.MaxUploadMB)
	cfg.Model.Path = GetEnv("MODEL_PATH", cfg.Model.Path)
	cfg.Database.URL = GetEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Log.Level = GetEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = GetEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Scoring.Currency = GetEnv("CURRENCY", cfg.Scoring.Currency)

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 10
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = "credit_model.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Scoring.Currency == "" {
		cfg.Scoring.Currency = "KES"
	}
	// an empty keyword list means the extractor's built-in vocabulary

	return cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server.max_upload_mb must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("server.allowed_origins: %q is not an http(s) origin", origin)
		}
	}
	return nil
}

// AuditEnabled reports whether assessments are persisted.
func (c *Config) AuditEnabled() bool {
	return c.Database.URL != ""
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
