package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the deployment configuration
type Config struct {
	Port          int
	Domain        string // Trust anchor; bare host, no protocol
	URI           string // Callback URL returned with challenges
	Statement     string
	NonceTTL      time.Duration
	RedisURL      string
	SessionSecret string
	SessionTTL    time.Duration
	GinMode       string
}

type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

func LoadConfig() (Config, error) {
	return LoadConfigFromEnv(osEnv{})
}

func LoadConfigFromEnv(env Env) (Config, error) {
	cfg := Config{
		Port:       9000,
		NonceTTL:   300 * time.Second,
		SessionTTL: 7 * 24 * time.Hour,
		RedisURL:   "redis://localhost:6379/0",
		GinMode:    "release",
	}

	cfg.Domain = env.Getenv("SIWS_DOMAIN")
	if cfg.Domain == "" {
		return Config{}, fmt.Errorf("SIWS_DOMAIN is required")
	}
	if strings.Contains(cfg.Domain, "://") {
		return Config{}, fmt.Errorf("SIWS_DOMAIN must not include a protocol prefix")
	}

	cfg.URI = env.Getenv("SIWS_URI")
	if cfg.URI == "" {
		cfg.URI = "https://" + cfg.Domain + "/siws"
	}

	cfg.Statement = env.Getenv("SIWS_STATEMENT")

	if raw := env.Getenv("SIWS_NONCE_TTL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid SIWS_NONCE_TTL_SECONDS")
		}
		cfg.NonceTTL = time.Duration(seconds) * time.Second
	}

	cfg.SessionSecret = env.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}

	if raw := env.Getenv("SESSION_TTL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_TTL_SECONDS")
		}
		cfg.SessionTTL = time.Duration(seconds) * time.Second
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	if raw := env.Getenv("REDIS_URL"); raw != "" {
		cfg.RedisURL = raw
	}

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}

	return cfg, nil
}
