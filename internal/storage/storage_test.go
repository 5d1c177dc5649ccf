package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"docintake/internal/config"
)

func TestPageKey(t *testing.T) {
	assert.Equal(t, "documents/doc-1/page-000.jpg", PageKey("doc-1", 0, ".jpg"))
	assert.Equal(t, "documents/doc-1/page-012.png", PageKey("doc-1", 12, ".png"))
	assert.Equal(t, "documents/doc-1/page-003", PageKey("doc-1", 3, ""))
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"no endpoint", config.MinIOConfig{}, "endpoint"},
		{"no credentials", config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, "credentials"},
		{"no bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(context.Background(), tt.cfg)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
