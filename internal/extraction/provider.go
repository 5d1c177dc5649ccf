package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docintake/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"
)

// New builds the extractor selected by cfg.Provider. Callers should Close the result
// when it implements io.Closer.
func New(ctx context.Context, cfg config.ExtractionConfig, logger *slog.Logger) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI, "":
		c, err := NewOpenAIClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderVertex:
		c, err := NewVertexClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Provider)
	}
}
