package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_STORE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "file", cfg.Session.Store)
	assert.Equal(t, "storefront:session", cfg.Session.StorageKey)
	assert.Equal(t, "INR", cfg.Checkout.Currency)
	assert.NotEmpty(t, cfg.Session.FilePath)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CHECKOUT_DELIVERY_FEE", "25.5")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, "localhost:6380", cfg.GetRedisAddr())
	assert.Equal(t, 25.5, cfg.Checkout.DeliveryFee)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Server.TrustedProxies)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:      APIConfig{BaseURL: "http://localhost:8080"},
			Session:  SessionConfig{Store: "file", FilePath: "/tmp/session.json", StorageKey: "k"},
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Checkout: CheckoutConfig{DeliveryFee: 40, FreeDeliveryThreshold: 500},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "/api" }, wantErr: "API_BASE_URL"},
		{name: "unknown store", mutate: func(c *Config) { c.Session.Store = "sqlite" }, wantErr: "SESSION_STORE"},
		{name: "missing file path", mutate: func(c *Config) { c.Session.FilePath = "" }, wantErr: "SESSION_FILE"},
		{name: "redis without host", mutate: func(c *Config) { c.Session.Store = "redis" }, wantErr: "REDIS_HOST"},
		{name: "short secret", mutate: func(c *Config) { c.JWT.Secret = "short" }, wantErr: "JWT_SECRET"},
		{name: "negative fee", mutate: func(c *Config) { c.Checkout.DeliveryFee = -1 }, wantErr: "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDeliveryFeeFor(t *testing.T) {
	cfg := &Config{Checkout: CheckoutConfig{DeliveryFee: 40, FreeDeliveryThreshold: 500}}

	assert.Equal(t, 40.0, cfg.DeliveryFeeFor(0))
	assert.Equal(t, 40.0, cfg.DeliveryFeeFor(499.99))
	assert.Equal(t, 0.0, cfg.DeliveryFeeFor(500))

	cfg.Checkout.FreeDeliveryThreshold = 0
	assert.Equal(t, 40.0, cfg.DeliveryFeeFor(10000))
}
