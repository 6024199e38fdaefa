package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultAPIURL is the hosted backend the console talks to when API_URL is unset.
const DefaultAPIURL = "https://abuses-admin-backend.onrender.com"

// Config carries every setting read from the environment for both binaries.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	Port        string
	ConsolePort string
	APIURL      string
	GinMode     string

	JWTSecret string
	TokenTTL  time.Duration

	UploadDir string
	LogFile   string
	LogLevel  string

	CORSAllowedOrigins []string

	AdminUsername string
	AdminPassword string

	SessionTTL time.Duration
}

// Load reads configs/.env when present and fills a Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		logrus.Warn("No configs/.env file found or error loading it")
	}

	cfg := &Config{
		DBHost:        Get("DB_HOST", "localhost"),
		DBPort:        Get("DB_PORT", "5432"),
		DBUser:        Get("DB_USER", "postgres"),
		DBPassword:    Get("DB_PASSWORD", "postgres"),
		DBName:        Get("DB_NAME", "postgres"),
		DBSSLMode:     Get("DB_SSLMODE", "disable"),
		Port:          Get("PORT", "8080"),
		ConsolePort:   Get("CONSOLE_PORT", "8081"),
		APIURL:        strings.TrimRight(Get("API_URL", DefaultAPIURL), "/"),
		GinMode:       Get("GIN_MODE", "debug"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		UploadDir:     Get("UPLOAD_DIR", "./uploads"),
		LogFile:       Get("LOG_FILE", "./logs/app.log"),
		LogLevel:      Get("LOG_LEVEL", "info"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	ttl, err := time.ParseDuration(Get("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	sessionTTL, err := time.ParseDuration(Get("SESSION_TTL", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = sessionTTL

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in release mode")
		}
		cfg.JWTSecret = "default_super_secret_key" // development fallback only
	}

	origins := Get("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:8081")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// Get returns the environment variable for key or def when unset or empty.
func Get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
