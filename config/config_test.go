package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CI", "ENV", "CONFIG_FILE", "SERVER_PORT", "STORE_BACKEND", "TABLE_NAME",
		"DB_HOST", "DB_USER", "DB_PASSWORD", "REDIS_HOST", "REDIS_URL", "REDIS_DB",
		"AWS_REGION", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "Recipes", cfg.TableName)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RedisConfigured())
}

func TestLoadConfigFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_BACKEND", "dynamodb")
	t.Setenv("TABLE_NAME", "RecipesProd")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "dynamodb", cfg.StoreBackend)
	assert.Equal(t, "RecipesProd", cfg.TableName)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.True(t, cfg.RedisConfigured())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "recipes.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_port = "7000"
store_backend = "redis"
table_name = "FromFile"
log_level = "debug"
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TABLE_NAME", "FromEnv")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.ServerPort)
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, "FromEnv", cfg.TableName)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	isolateEnv(t)
	secrets := t.TempDir()
	t.Setenv("SECRETS_DIR", secrets)
	require.NoError(t, os.WriteFile(filepath.Join(secrets, "db_user"), []byte("recipes\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secrets, "db_password"), []byte("s3cret\n"), 0o600))
	t.Setenv("STORE_BACKEND", "postgres")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "recipes", cfg.DBUser)
	assert.Equal(t, "s3cret", cfg.DBPassword)
	assert.Contains(t, cfg.PostgresDSN(), "password=s3cret")
}

func TestLoadConfigSkipsSecretsInCI(t *testing.T) {
	isolateEnv(t)
	secrets := t.TempDir()
	t.Setenv("SECRETS_DIR", secrets)
	require.NoError(t, os.WriteFile(filepath.Join(secrets, "db_password"), []byte("s3cret"), 0o600))
	t.Setenv("CI", "true")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_USER", "ci")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidateConfig(t *testing.T) {
	cfg := Defaults()
	cfg.StoreBackend = "mongo"
	cfg.LogLevel = "loud"
	cfg.RateLimitPerMinute = -1
	cfg.TableName = ""
	cfg.CORSAllowedOrigins = []string{"https://recipes.example", "example.com"}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	for _, field := range []string{"STORE_BACKEND", "LOG_LEVEL", "RATE_LIMIT_PER_MINUTE", "TABLE_NAME", "CORS_ALLOWED_ORIGINS"} {
		assert.Contains(t, err.Error(), field)
	}
	assert.Contains(t, err.Error(), `"example.com"`)
	assert.NotContains(t, err.Error(), `"https://recipes.example"`)
}

func TestValidateConfigAcceptsOrigins(t *testing.T) {
	cfg := Defaults()
	cfg.CORSAllowedOrigins = []string{"*", "http://localhost:5173", "https://recipes.example"}
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigRejectsOriginWithoutScheme(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "example.com")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "CORS_ALLOWED_ORIGINS")
}

func TestLoadConfigRejectsBadInteger(t *testing.T) {
	isolateEnv(t)
	t.Setenv("REDIS_DB", "one")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "REDIS_DB")
}

func TestGetEnvironment(t *testing.T) {
	isolateEnv(t)
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	assert.True(t, GetEnvironment().JSONLogs())
	assert.True(t, GetEnvironment().ReadsSecrets())

	t.Setenv("ENV", "TEST")
	assert.Equal(t, Test, GetEnvironment())
	assert.False(t, GetEnvironment().JSONLogs())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
	assert.True(t, GetEnvironment().JSONLogs())
	assert.False(t, GetEnvironment().ReadsSecrets())
}
