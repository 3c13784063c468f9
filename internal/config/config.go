package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	OpenAIAPIKey    string
	OpenAIModel     string
	GoogleScriptURL string
	NatsURL         string
	NatsToken       string
	DatabaseURL     string
	LogLevel        string
}

func Load() Config {
	return Config{
		Port:            envInt("USHER_PORT", 8760),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIModel:     envStr("USHER_MODEL", "gpt-4o-mini"),
		GoogleScriptURL: envStr("GOOGLE_SCRIPT_URL", ""),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
