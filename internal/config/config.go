package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	getEnvDefault := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	redisDB, err := strconv.Atoi(getEnvDefault("REDIS_DB", "0"))
	if err != nil {
		log.Fatalf("Error: REDIS_DB must be a number: %s", err)
	}
	sessionTTL, err := time.ParseDuration(getEnvDefault("SESSION_TTL", "2h"))
	if err != nil {
		log.Fatalf("Error: SESSION_TTL must be a duration: %s", err)
	}
	loc, err := time.LoadLocation(getEnvDefault("ARENA_TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		log.Fatalf("Error: ARENA_TIMEZONE is not a known time zone: %s", err)
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnvDefault("PORT", "8080"),
		Arena: ArenaConfig{
			BaseURL: getEnv("ARENA_API_URL"),
			Token:   getEnvDefault("ARENA_API_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN"),
			ChannelID: getEnv("SLACK_CHANNEL_ID"),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnvDefault("REDIS_ADDR", ""),
			Password: getEnvDefault("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			TTL: sessionTTL,
		},
		ProjectID: getEnv("GCP_PROJECT"),
		Location:  loc,
	}
	return cfg
}
