package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/materialhub")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_BUCKET", "materialhub-assets")
	t.Setenv("STOREFRONT_DOMAIN", "materialhub.test")
}

func TestLoadConfigFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("JWT_ACCESS_TTL", "2h")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "gcs", cfg.Storage.Provider)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "materialhub", cfg.Redis.Prefix)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadConfigRequiresSecretAndDomain(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/materialhub")
	t.Setenv("STORAGE_BUCKET", "materialhub-assets")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Secret")
	assert.Contains(t, err.Error(), "Domain")
}

func TestLoadConfigS3NeedsRegion(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_PROVIDER", "s3")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3Region")

	t.Setenv("STORAGE_S3_REGION", "eu-central-1")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", cfg.Storage.S3Region)
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_DRIVER", "sqlite")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":7070\"\ndatabase:\n  driver: postgres\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfigMissingFile(t *testing.T) {
	setBaseEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
