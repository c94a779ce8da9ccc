package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port            string
	DBDriver        string
	DBDSN           string
	JWTSecret       string
	JWTExpiration   time.Duration
	RedisAddr       string
	RedisPassword   string
	CORSOrigins     []string
	AdminEmails     []string
	LoginRateLimit  float64
	LoginRateBurst  int
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: could not read .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		DBDriver:        getenv("DB_DRIVER", "sqlite3"),
		DBDSN:           getenv("DB_DSN", "./tabletop-gather.db"),
		JWTSecret:       getenv("JWT_SECRET", ""),
		JWTExpiration:   getenvDuration("JWT_EXPIRATION", 24*time.Hour),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		CORSOrigins:     getenvList("CORS_ORIGINS", []string{"http://localhost:4200"}),
		AdminEmails:     getenvList("ADMIN_EMAILS", nil),
		LoginRateLimit:  getenvFloat("LOGIN_RATE_LIMIT", 1),
		LoginRateBurst:  getenvInt("LOGIN_RATE_BURST", 5),
		ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET must be set")
	case c.DBDriver != "sqlite3" && c.DBDriver != "pgx":
		return fmt.Errorf("DB_DRIVER must be sqlite3 or pgx, got %q", c.DBDriver)
	case c.JWTExpiration <= 0:
		return errors.New("JWT_EXPIRATION must be positive")
	case c.LoginRateLimit <= 0 || c.LoginRateBurst <= 0:
		return errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_BURST must be positive")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("config: ignoring invalid %s=%q", key, v)
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("config: ignoring invalid %s=%q", key, v)
	}
	return fallback
}

// getenvDuration accepts Go durations ("90m") or a plain number of milliseconds.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	log.Printf("config: ignoring invalid %s=%q", key, v)
	return fallback
}

func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
