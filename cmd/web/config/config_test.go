package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing gateway key", func(t *testing.T) {
		t.Setenv("GATEWAY_SECRET_KEY", "")
		_, err := Load()
		require.ErrorIs(t, err, ErrMissingGatewayKey)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("GATEWAY_SECRET_KEY", "sk-test")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, ":8080", cfg.HTTPAddr)
		require.Equal(t, "https://api.xendit.co", cfg.GatewayBaseURL)
		require.Equal(t, 10*time.Second, cfg.GatewayTimeout)
		require.Equal(t, "./out", cfg.DataDir)
		require.Equal(t, "invoices.events", cfg.AMQPExchange)
		require.Empty(t, cfg.DatabaseURL)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("GATEWAY_SECRET_KEY", "sk-test")
		t.Setenv("HTTP_ADDR", ":9999")
		t.Setenv("GATEWAY_BASE_URL", "https://gateway.example.test")
		t.Setenv("GATEWAY_TIMEOUT", "3s")
		t.Setenv("GATEWAY_WEBHOOK_SECRET", "cb-secret")
		t.Setenv("DATABASE_URL", "postgres://localhost/invoices")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, ":9999", cfg.HTTPAddr)
		require.Equal(t, "https://gateway.example.test", cfg.GatewayBaseURL)
		require.Equal(t, 3*time.Second, cfg.GatewayTimeout)
		require.Equal(t, "cb-secret", cfg.WebhookSecret)
		require.Equal(t, "postgres://localhost/invoices", cfg.DatabaseURL)
	})
}
