package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docintake/internal/config"
	"docintake/internal/model"
)

// OpenAIClient calls an OpenAI-compatible chat/completions endpoint with one page image per request.
// It is safe for concurrent use by multiple goroutines.
type OpenAIClient struct {
	cfg        config.ExtractionConfig
	httpClient *http.Client
	log        *slog.Logger
}

var _ Extractor = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from cfg. The HTTP transport is traced with otelhttp.
func NewOpenAIClient(cfg config.ExtractionConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("extraction api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("extraction model is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout(),
		},
		log: logger,
	}, nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Extract sends a single page and parses the structured answer.
func (c *OpenAIClient) Extract(ctx context.Context, page model.EncodedPage) (model.PageExtraction, error) {
	start := time.Now()
	body := c.requestBody(page)

	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		c.log.Error("extraction.http_error",
			"page_index", page.Index,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return model.PageExtraction{}, err
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return model.PageExtraction{}, &ParseError{Content: truncate(string(raw), 512), Err: fmt.Errorf("decode chat response: %w", err)}
	}
	if len(cc.Choices) == 0 {
		return model.PageExtraction{}, &ParseError{Content: truncate(string(raw), 512), Err: fmt.Errorf("no choices in response")}
	}

	out, mismatch, err := ParseExtraction([]byte(cc.Choices[0].Message.Content))
	if err != nil {
		c.log.Error("extraction.parse_failed",
			"page_index", page.Index,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return model.PageExtraction{}, err
	}
	if mismatch != "" {
		c.log.Warn("extraction.lenient_coercion_applied", "page_index", page.Index, "schema_error", mismatch)
	}
	out.PageIndex = page.Index

	c.log.Info("extraction.ok",
		"page_index", page.Index,
		"has_title", out.Title != nil,
		"authors", len(out.Authors),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *OpenAIClient) requestBody(page model.EncodedPage) map[string]any {
	return map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "page_extraction",
				"strict": true,
				"schema": Schema(),
			},
		},
		"messages": []map[string]any{
			{"role": "system", "content": SystemInstruction},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": UserInstruction},
				{"type": "image_url", "image_url": map[string]any{
					"url": "data:" + page.MIMEType + ";base64," + page.Payload,
				}},
			}},
		},
	}
}

func (c *OpenAIClient) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Message: "request failed", Err: err}
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("extraction.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: upstreamMessage(raw)}
	}
	return raw, nil
}

func upstreamMessage(raw []byte) string {
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return truncate(strings.TrimSpace(string(raw)), 256)
}
