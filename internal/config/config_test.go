// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "log", cfg.MailTransport)
	assert.Equal(t, "0 12 * * *", cfg.OverdueCron)
	assert.Equal(t, 25, cfg.SMTPPort)
	assert.Equal(t, float64(50), cfg.RateLimitRPS)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/library")
	t.Setenv("MAIL_TRANSPORT", "amqp")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("OVERDUE_CRON", "30 11 * * *")
	t.Setenv("RATE_LIMIT_BURST", "5")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "postgres://localhost/library", cfg.DatabaseURL)
	assert.Equal(t, "amqp", cfg.MailTransport)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, "30 11 * * *", cfg.OverdueCron)
	assert.Equal(t, 5, cfg.RateLimitBurst)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, 25, cfg.SMTPPort)
}
