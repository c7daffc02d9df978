package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 1440, cfg.JWTExpirationMinutes)
	assert.Equal(t, 168, cfg.JWTRefreshExpirationHours)
	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.Equal(t, "5 0 * * *", cfg.CompletionSchedule)
	assert.False(t, cfg.Mailer.Enabled())
	assert.Contains(t, cfg.Database.DSN, "parseTime=True")
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "portal")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("APP_ENV", "production")
	t.Setenv("COMPLETION_SCHEDULE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Contains(t, cfg.Database.DSN, "@tcp(db.internal:3306)/portal?")
	assert.True(t, cfg.Mailer.Enabled())
	assert.Equal(t, 2525, cfg.Mailer.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.CompletionSchedule)
}

func TestLoadConfig_InvalidNumber(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_MINUTES", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_EXPIRATION_MINUTES")
}
