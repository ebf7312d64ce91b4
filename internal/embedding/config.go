package embedding

import (
	"os"
	"strconv"
)

const defaultBaseURL = "http://localhost:11434"

type Config struct {
	Enabled   bool
	Model     string
	MaxLength *int
	BaseURL   string
}

func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Enabled: os.Getenv("EMBEDDING_ENABLED") != "false",
		Model:   os.Getenv("EMBEDDING_MODEL"),
		BaseURL: os.Getenv("EMBEDDING_BASE_URL"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if raw := os.Getenv("EMBEDDING_MAX_LENGTH"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil {
			cfg.MaxLength = &val
		}
	}

	return cfg
}
