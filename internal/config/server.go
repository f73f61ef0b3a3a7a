package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultCORSOrigin = "http://localhost:5173"
	devJWTSecret      = "itrgo-development-secret"
)

// ServerConfig holds the HTTP server settings read from the environment.
type ServerConfig struct {
	Port        string
	JWTSecret   string
	DBPath      string
	CORSOrigins []string
	TokenTTL    time.Duration
	Release     bool
}

// LoadServerConfig loads envFile (when present) into the environment and
// reads the server settings, applying development defaults.
func LoadServerConfig(envFile string) (ServerConfig, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return ServerConfig{}, err
			}
		}
	}

	cfg := ServerConfig{
		Port:      getenv("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		DBPath:    getenv("ITRGO_DB", "itrgo.db"),
		TokenTTL:  24 * time.Hour,
		Release:   os.Getenv("GIN_MODE") == "release",
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return ServerConfig{}, err
		}
		cfg.TokenTTL = d
	}
	if cfg.JWTSecret == "" {
		if cfg.Release {
			return ServerConfig{}, errors.New("JWT_SECRET is required in release mode")
		}
		cfg.JWTSecret = devJWTSecret
	}

	origins := getenv("CORS_ORIGINS", DefaultCORSOrigin)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
