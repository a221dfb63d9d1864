package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once from the environment at startup.
type Config struct {
	Port      string
	DBHost    string
	DBUser    string
	DBPass    string
	DBName    string
	DBPort    string
	RedisAddr string
	RedisPwd  string
	WebOrigin string

	JWTSecret  string
	TokenTTL   time.Duration
	SessionTTL time.Duration

	// First admin + tenant created on an empty database.
	BootstrapTenant   string
	BootstrapEmail    string
	BootstrapPassword string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
}

func Load() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	dur := func(k string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k))); err == nil && d > 0 {
			return d
		}
		return def
	}
	return Config{
		Port:      get("PORT", "3000"),
		DBHost:    get("DB_HOST", "127.0.0.1"),
		DBUser:    get("DB_USER", "postgres"),
		DBPass:    os.Getenv("DB_PASSWORD"),
		DBName:    get("DB_NAME", "jumbly"),
		DBPort:    get("DB_PORT", "5432"),
		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),
		WebOrigin: get("WEB_ORIGIN", "http://localhost:5173"),

		JWTSecret:  get("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:   dur("TOKEN_TTL", 24*time.Hour),
		SessionTTL: dur("SESSION_TTL", 24*time.Hour),

		BootstrapTenant:   get("BOOTSTRAP_TENANT", "default"),
		BootstrapEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("BOOTSTRAP_EMAIL"))),
		BootstrapPassword: os.Getenv("BOOTSTRAP_PASSWORD"),
	}
}
