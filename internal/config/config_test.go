package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/orderbot/internal/domain"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV(" a, ,b ,"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LOCATIONS", "")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("SESSION_IDLE_TTL", "")
	t.Setenv("KAFKA_TOPIC", "")

	cfg := Load()
	assert.Equal(t, domain.DefaultLocations, cfg.Locations)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionIdleTTL)
	assert.Equal(t, "order_events", cfg.KafkaTopic)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LOCATIONS", "North, South,North")
	t.Setenv("AUTHORIZED_USERS", "42,@Boss")
	t.Setenv("SESSION_IDLE_TTL", "90m")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("WEBHOOK_JWT_SECRET", "s3cret")

	cfg := Load()
	assert.Equal(t, domain.Locations{"North", "South"}, cfg.Locations)
	assert.Equal(t, []string{"42", "@Boss"}, cfg.AuthorizedUsers)
	assert.Equal(t, 90*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []byte("s3cret"), cfg.WebhookSecret)
}
