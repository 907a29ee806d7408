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

func TestLoad(t *testing.T) {
	t.Run("memory driver needs no dsn", func(t *testing.T) {
		path := writeConfig(t, `
env: test
http_server:
  port: "9090"
  request_timeout: 3s
referral_db:
  driver: memory
referral:
  root_address: "0xabc"
reconciler:
  enabled: false
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, "9090", cfg.HTTPServer.Port)
		assert.Equal(t, 3*time.Second, cfg.HTTPServer.RequestTimeout)
		assert.Equal(t, "memory", cfg.ReferralDB.Driver)
		assert.Equal(t, "0xabc", cfg.Referral.RootAddress)
		assert.False(t, cfg.Reconciler.Enabled)

		// defaults
		assert.Equal(t, 10, cfg.Referral.MaxTreeDepth)
		assert.Equal(t, "*/30 * * * * *", cfg.Reconciler.CronSpec)
		assert.Equal(t, "referral-events", cfg.KafkaService.Topic)
	})

	t.Run("postgres driver needs dsn", func(t *testing.T) {
		t.Setenv("DB_DSN", "")
		path := writeConfig(t, "referral_db:\n  driver: postgres\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/referrals")
		path := writeConfig(t, "referral_db:\n  driver: postgres\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@localhost:5432/referrals", cfg.ReferralDB.Dsn)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadReconcilerEnabled(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  string
		want bool
	}{
		{name: "file disables", yaml: "reconciler:\n  enabled: false\n", want: false},
		{name: "file enables", yaml: "reconciler:\n  enabled: true\n", want: true},
		{name: "unset stays off", yaml: "reconciler:\n  workers: 2\n", want: false},
		{name: "env disables over file", yaml: "reconciler:\n  enabled: true\n", env: "false", want: false},
		{name: "env enables over file", yaml: "reconciler:\n  enabled: false\n", env: "true", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("RECONCILER_ENABLED", tt.env)
			}
			path := writeConfig(t, "referral_db:\n  driver: memory\n"+tt.yaml)
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Reconciler.Enabled)
		})
	}
}
