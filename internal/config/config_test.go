package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("EXTRACTION_PROVIDER", "vertex")
	t.Setenv("EXTRACTION_TIMEOUT_SEC", "15")
	t.Setenv("EXTRACTION_TEMPERATURE", "0.2")
	t.Setenv("UPLOAD_MAX_PAGES", "12")
	t.Setenv("VERTEX_MODEL", "gemini-2.0-flash")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "vertex", cfg.Extraction.Provider)
	assert.Equal(t, 15*time.Second, cfg.Extraction.Timeout())
	assert.InDelta(t, 0.2, cfg.Extraction.Temperature, 1e-9)
	assert.Equal(t, 12, cfg.Upload.MaxPages)
	assert.Equal(t, "gemini-2.0-flash", cfg.Extraction.VertexModel)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EXTRACTION_PROVIDER", "")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("VERTEX_MODEL", "")

	cfg := Load()

	assert.Equal(t, "openai", cfg.Extraction.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.Extraction.VertexModel)
	assert.Equal(t, 60*time.Second, cfg.Extraction.Timeout())
	assert.Equal(t, 0, cfg.Extraction.MaxConcurrency)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileBytes)
	assert.False(t, cfg.MinIO.Enabled())
}

func TestTimeLocation(t *testing.T) {
	cfg := &AppConfig{Location: "Asia/Jakarta"}
	assert.Equal(t, "Asia/Jakarta", cfg.TimeLocation().String())

	cfg.Location = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.TimeLocation())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_FLOAT_VAR"

	os.Setenv(key, "0.75")
	assert.InDelta(t, 0.75, getEnvFloat(key, 0), 1e-9)

	os.Setenv(key, "nope")
	assert.InDelta(t, 1.5, getEnvFloat(key, 1.5), 1e-9)

	os.Unsetenv(key)
}
