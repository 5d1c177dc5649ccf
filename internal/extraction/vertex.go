package extraction

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"docintake/internal/config"
	"docintake/internal/model"
)

// DefaultVertexModel is used when no Gemini model is configured.
const DefaultVertexModel = "gemini-1.5-pro"

// contentGenerator is the part of *genai.GenerativeModel the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// VertexClient extracts pages with a Gemini model on Vertex AI in JSON output mode.
type VertexClient struct {
	client *genai.Client
	model  contentGenerator
	log    *slog.Logger
}

var _ Extractor = (*VertexClient)(nil)

// NewVertexClient creates the Gemini model used for every page.
func NewVertexClient(ctx context.Context, cfg config.ExtractionConfig, logger *slog.Logger) (*VertexClient, error) {
	if cfg.VertexProject == "" || cfg.VertexRegion == "" {
		return nil, fmt.Errorf("vertex project and region are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, cfg.VertexProject, cfg.VertexRegion)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	modelName := cfg.VertexModel
	if modelName == "" {
		modelName = DefaultVertexModel
	}
	m := client.GenerativeModel(modelName)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}
	m.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
		Temperature:      genai.Ptr(float32(cfg.Temperature)),
	}

	return &VertexClient{client: client, model: m, log: logger}, nil
}

// Extract sends the page inline and parses the JSON answer.
func (c *VertexClient) Extract(ctx context.Context, page model.EncodedPage) (model.PageExtraction, error) {
	start := time.Now()

	data, err := base64.StdEncoding.DecodeString(page.Payload)
	if err != nil {
		return model.PageExtraction{}, fmt.Errorf("decode page %d payload: %w", page.Index, err)
	}

	resp, err := c.model.GenerateContent(ctx,
		genai.Blob{MIMEType: page.MIMEType, Data: data},
		genai.Text(UserInstruction),
	)
	if err != nil {
		c.log.Error("extraction.vertex_error",
			"page_index", page.Index,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return model.PageExtraction{}, vertexServiceError(err)
	}

	out, mismatch, err := ParseExtraction([]byte(responseText(resp)))
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

// Close releases the underlying Vertex AI client.
func (c *VertexClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// vertexServiceError carries the gRPC status of a failed call as its HTTP equivalent.
func vertexServiceError(err error) *ServiceError {
	st, ok := status.FromError(err)
	if !ok {
		return &ServiceError{Message: err.Error(), Err: err}
	}
	return &ServiceError{StatusCode: httpStatus(st.Code()), Message: st.Message(), Err: err}
}

func httpStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Canceled:
		return 499
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":      {Type: genai.TypeString, Nullable: true},
			"authors":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"department": {Type: genai.TypeString, Nullable: true},
			"data":       {Type: genai.TypeString, Nullable: true},
		},
		Required: []string{"title", "authors", "department", "data"},
	}
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
