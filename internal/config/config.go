// Package config manages application configuration via environment variables.
//
// # Environment Variables
//
// ## Server
//   - SERVER_PORT: HTTP listen port (default: 8080)
//   - SESSION_SECRET: HMAC key for session tokens (REQUIRED)
//   - SESSION_TTL_HOURS: session lifetime in hours (default: 168)
//
// ## Storage
//   - DATABASE_URL: Postgres connection string. Empty switches the API
//     to the in-memory store (dev/tests only).
//
// ## Redis
//   - REDIS_ADDR: host:port of the timeline cache (default: localhost:6379)
//   - REDIS_PASSWORD, REDIS_DB
//
// ## NATS
//   - NATS_URL: event bus URL, empty disables the bus (default: empty)
//
// ## Typesense
//   - TYPESENSE_HOST, TYPESENSE_PORT, TYPESENSE_API_KEY, TYPESENSE_PROTOCOL
//
// ## Email
//   - NOTIFY_MODE: "smtp" or "mock" (default: mock)
//   - SMTP_HOST, SMTP_PORT, SMTP_FROM, SMTP_USERNAME, SMTP_PASSWORD
//
// ## Gemini
//   - GEMINI_API_KEY: empty disables the moderation screener
//   - GEMINI_CHAT_MODEL: model for content screening (default: gemini-2.0-flash)
//
// ## Tracing
//   - TRACING_ENABLED, TRACING_ENDPOINT
//
// ## Recommendation
//   - FEED_DEFAULT_LIMIT: default feed size (default: 20)
//   - FEED_INTERACTION_WINDOW: interaction history rows read for
//     relationship scoring (default: 100)
//   - FEED_CANDIDATE_WINDOW_DAYS: trailing window for candidate
//     microblogs (default: 30)
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	SessionSecret   string
	SessionTTLHours int

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NatsURL string

	TypesenseHost     string
	TypesensePort     string
	TypesenseAPIKey   string
	TypesenseProtocol string

	NotifyMode   string
	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	GeminiAPIKey    string
	GeminiChatModel string

	TracingEnabled  bool
	TracingEndpoint string

	Recommend RecommendConfig
}

// RecommendConfig contains feed-scoring configuration.
type RecommendConfig struct {
	// Default number of microblogs returned by the feed (default 20)
	DefaultLimit int

	// Interaction history rows read for relationship scoring (default 100)
	InteractionWindow int

	// Trailing window in days for candidate microblogs (default 30)
	CandidateWindowDays int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 168),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NatsURL: getEnv("NATS_URL", ""),

		TypesenseHost:     getEnv("TYPESENSE_HOST", "localhost"),
		TypesensePort:     getEnv("TYPESENSE_PORT", "8108"),
		TypesenseAPIKey:   getEnv("TYPESENSE_API_KEY", ""),
		TypesenseProtocol: getEnv("TYPESENSE_PROTOCOL", "http"),

		NotifyMode:   getEnv("NOTIFY_MODE", "mock"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@theconnection.app"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiChatModel: getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),

		TracingEnabled:  getEnv("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),

		Recommend: RecommendConfig{
			DefaultLimit:        getEnvInt("FEED_DEFAULT_LIMIT", 20),
			InteractionWindow:   getEnvInt("FEED_INTERACTION_WINDOW", 100),
			CandidateWindowDays: getEnvInt("FEED_CANDIDATE_WINDOW_DAYS", 30),
		},
	}

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is required but not set")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
