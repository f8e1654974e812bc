package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Minute, cfg.Recipes.CacheTTL)
	assert.False(t, cfg.Mirror.Enabled)
}

func TestLoadConfigFileEnvAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  driver: memory
recipes:
  cache_ttl: 30s
jwt:
  secret: from-file
  expiration: 45m
auth:
  admin_emails: ["chef@example.com"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MIRROR_ENABLED=true\n"), 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Cleanup(func() { os.Unsetenv("MIRROR_ENABLED") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Recipes.CacheTTL)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 45*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, []string{"chef@example.com"}, cfg.Auth.AdminEmails)
	assert.True(t, cfg.Mirror.Enabled)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
