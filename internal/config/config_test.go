package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.AppHost)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTLifetime)
	assert.Equal(t, "feedback.events", cfg.KafkaTopicFeedback)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadKafkaBrokerList(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadRejectsBadJWTLifetime(t *testing.T) {
	t.Setenv("JWT_LIFETIME", "yesterday")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate(), "default JWT secret must not survive into production")

	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("DB_PASSWORD", "a-real-password")
	cfg, err = Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestDSNAndURL(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "p@ss word")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.DSN(), "host=db.internal")
	assert.Contains(t, cfg.DatabaseURL(), "p%40ss+word@db.internal")
}
