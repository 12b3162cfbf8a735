package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173,https://shop.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "products", cfg.ProductsTable)
	assert.Equal(t, "carts", cfg.CartsTable)
	assert.Equal(t, "accounts", cfg.AccountsTable)
	assert.Equal(t, ReconcileInline, cfg.ReconcileMode)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://shop.example.com"}, cfg.AllowedOrigins)
}

func TestValidateAuth_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.ValidateAuth(), "JWT_SECRET")
}

func TestLoad_RejectsBadTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "0s")

	_, err := Load()
	assert.ErrorContains(t, err, "TOKEN_TTL")
}

func TestValidate_ReconcileMode(t *testing.T) {
	base := Config{JWTSecret: "x", TokenTTL: time.Hour}

	c := base
	c.ReconcileMode = ReconcileQueue
	assert.ErrorContains(t, c.Validate(), "RECONCILE_QUEUE_URL")

	c.ReconcileQueueURL = "https://sqs.local/q"
	assert.NoError(t, c.Validate())

	c.ReconcileMode = "cron"
	assert.ErrorContains(t, c.Validate(), "unknown RECONCILE_MODE")
}
