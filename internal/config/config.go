package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
// Scan archiving is disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an object store has been configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// ExtractionConfig selects and tunes the page extraction backend.
type ExtractionConfig struct {
	// Provider is "openai" (any OpenAI-compatible chat/completions API) or "vertex".
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	TimeoutSec     int
	MaxConcurrency int
	VertexProject  string
	VertexRegion   string
	// VertexModel is the Gemini model used when Provider is "vertex".
	VertexModel string
}

// Timeout is the per-page call timeout.
func (c ExtractionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// UploadConfig bounds a single intake batch.
type UploadConfig struct {
	MaxPages     int
	MaxFileBytes int64
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	LogLevel   string
	Location   string
	Database   DatabaseConfig
	MinIO      MinIOConfig
	Extraction ExtractionConfig
	Upload     UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Location: getEnv("TZ_LOCATION", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Extraction: ExtractionConfig{
			Provider:       getEnv("EXTRACTION_PROVIDER", "openai"),
			APIKey:         getEnv("EXTRACTION_API_KEY", ""),
			BaseURL:        getEnv("EXTRACTION_BASE_URL", "https://api.openai.com/v1"),
			Model:          getEnv("EXTRACTION_MODEL", "gpt-4o-mini"),
			Temperature:    getEnvFloat("EXTRACTION_TEMPERATURE", 0),
			TimeoutSec:     getEnvInt("EXTRACTION_TIMEOUT_SEC", 60),
			MaxConcurrency: getEnvInt("EXTRACTION_MAX_CONCURRENCY", 0),
			VertexProject:  getEnv("VERTEX_PROJECT", ""),
			VertexRegion:   getEnv("VERTEX_REGION", "us-central1"),
			VertexModel:    getEnv("VERTEX_MODEL", "gemini-1.5-pro"),
		},
		Upload: UploadConfig{
			MaxPages:     getEnvInt("UPLOAD_MAX_PAGES", 50),
			MaxFileBytes: int64(getEnvInt("UPLOAD_MAX_FILE_BYTES", 10<<20)),
		},
	}
}

// TimeLocation resolves the configured location, falling back to UTC.
func (c *AppConfig) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
