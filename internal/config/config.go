package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/orderbot/internal/domain"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL       string
	DatabaseDriver    string
	DBConnectAttempts int

	AuthorizedUsers []string
	Locations       domain.Locations
	SessionIdleTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	WebhookSecret []byte
}

// Load reads the process environment, after merging a .env file from the
// working directory when one exists.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not loaded: %v, using system environment", err)
	}

	locations := domain.ParseLocations(CSV(os.Getenv("LOCATIONS")))
	if len(locations) == 0 {
		locations = domain.DefaultLocations
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "orderbot"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabaseDriver:    EnvDefault("DATABASE_DRIVER", "pgx"),
		DBConnectAttempts: EnvIntDefault("DB_CONNECT_ATTEMPTS", 3),

		AuthorizedUsers: CSV(os.Getenv("AUTHORIZED_USERS")),
		Locations:       locations,
		SessionIdleTTL:  EnvDurationDefault("SESSION_IDLE_TTL", 24*time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "order_events"),

		WebhookSecret: []byte(os.Getenv("WEBHOOK_JWT_SECRET")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
