package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("STORE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "memory", cfg.Store)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BCRYPT_COST", "twelve")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}
