package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func validConfig() Config {
	return Config{
		App:     AppConfig{Name: "validele"},
		HTTP:    HTTPConfig{WriteTimeout: 40 * time.Second},
		Storage: StorageConfig{Driver: "memory"},
		Auth:    AuthConfig{JWTSecret: "jwt", WebhookSecret: "hook"},
		Lifecycle: LifecycleConfig{
			OperationTimeout:       30 * time.Second,
			PaymentPollInterval:    3 * time.Second,
			PaymentPollMaxAttempts: 10,
		},
		Notification: NotificationConfig{RatePerSecond: 20},
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: validele-test
storage:
  driver: memory
auth:
  jwt_secret: yaml-secret
  webhook_secret: yaml-hook
lifecycle:
  claimable_limit: 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "validele-test", cfg.App.Name)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 7, cfg.Lifecycle.ClaimableLimit)
	assert.Equal(t, 30*time.Second, cfg.Lifecycle.OperationTimeout)
	assert.Equal(t, 10, cfg.Lifecycle.PaymentPollMaxAttempts)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "notifications", cfg.Kafka.NotificationsTopic)
	assert.Equal(t, 500*time.Millisecond, cfg.Audit.FlushInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: memory
auth:
  jwt_secret: yaml-secret
  webhook_secret: yaml-hook
`)
	t.Setenv("AUTH_JWT_SECRET", "env-secret")
	t.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_InvalidDriver(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: sqlite
auth:
  jwt_secret: s
  webhook_secret: h
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "storage.driver")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "auth.jwt_secret"},
		{name: "missing webhook secret", mutate: func(c *Config) { c.Auth.WebhookSecret = "" }, wantErr: "auth.webhook_secret"},
		{name: "postgres without db", mutate: func(c *Config) { c.Storage.Driver = "postgres" }, wantErr: "postgres.user"},
		{name: "zero operation timeout", mutate: func(c *Config) { c.Lifecycle.OperationTimeout = 0 }, wantErr: "operation_timeout"},
		{name: "unbounded polling", mutate: func(c *Config) { c.Lifecycle.PaymentPollMaxAttempts = 0 }, wantErr: "bounded"},
		{
			name:    "polling outlives the http write timeout",
			mutate:  func(c *Config) { c.Lifecycle.PaymentPollMaxAttempts = 20 },
			wantErr: "http.write_timeout",
		},
		{
			name: "kafka without brokers",
			mutate: func(c *Config) {
				c.Kafka.Enabled = true
				c.Kafka.Brokers = nil
			},
			wantErr: "kafka.brokers",
		},
		{name: "no notification rate", mutate: func(c *Config) { c.Notification.RatePerSecond = 0 }, wantErr: "notifications.rate_per_second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPostgresConfig(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DB: "orders", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=orders sslmode=disable", p.DSN())
	assert.Equal(t, "pgx://u:p@db:5432/orders?sslmode=disable", p.URL())
}
