package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"docintake/internal/extraction"
	"docintake/internal/http/middleware"
	"docintake/internal/intake"
	"docintake/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response.
// code is machine readable (e.g. "NOT_FOUND"); message must be safe to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// writeServiceError maps domain errors to HTTP responses. Unknown errors are logged and
// reported as 500 without detail.
func writeServiceError(c *fiber.Ctx, log *slog.Logger, err error) error {
	var parseErr *extraction.ParseError
	var serviceErr *extraction.ServiceError
	var batchErr *intake.BatchExtractionError

	switch {
	case errors.Is(err, intake.ErrEmptyBatch):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one page is required")
	case errors.Is(err, service.ErrOrganizationRequired):
		return writeError(c, fiber.StatusUnauthorized, "ORGANIZATION_REQUIRED", "organization is required")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrPageOutOfRange):
		return writeError(c, fiber.StatusNotFound, "PAGE_NOT_FOUND", "page not found")
	case errors.Is(err, service.ErrScansNotArchived):
		return writeError(c, fiber.StatusNotFound, "SCANS_NOT_ARCHIVED", "page scans are not archived")
	case errors.As(err, &parseErr):
		logFailure(c, log, err)
		return writeError(c, fiber.StatusBadGateway, "EXTRACTION_UNPARSEABLE", "extraction service returned an unreadable answer")
	case errors.As(err, &serviceErr), errors.As(err, &batchErr):
		logFailure(c, log, err)
		return writeError(c, fiber.StatusBadGateway, "EXTRACTION_FAILED", "page extraction failed")
	default:
		logFailure(c, log, err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func logFailure(c *fiber.Ctx, log *slog.Logger, err error) {
	log.ErrorContext(c.UserContext(), "http.request_failed",
		"request_id", requestIDFromCtx(c),
		"path", c.Path(),
		"error", err.Error(),
	)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "ORGANIZATION_REQUIRED", "organization is required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
